// Copyright 2026 The Nuko Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package toc builds the table of contents of a rendered document.
package toc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxSuffix bounds the search for an unused slug.
const maxSuffix = 99

// fallbackSlug is used for headlines without letters or digits.
const fallbackSlug = "section"

// ErrSlugExhausted is returned by [*TOC.AddHeadline]
// when every numbered variant of a slug is already taken.
var ErrSlugExhausted = errors.New("toc: no unused slug")

// TOC is the table of contents of one document.
// The zero value is an empty table.
// A TOC must not be shared between documents.
type TOC struct {
	entries []*Entry
	used    map[string]struct{}
}

// Entry is a headline in a [TOC].
type Entry struct {
	// Number is the 1-based position of the entry among its siblings.
	Number int `json:"num"`
	// Slug is the anchor id of the headline.
	// Entries created to fill skipped heading levels have no slug.
	Slug string `json:"slug"`
	// Text is the plain text of the headline.
	Text string `json:"text"`
	// Entries holds the headlines nested under this one.
	Entries []*Entry `json:"sections,omitempty"`
}

// New returns an empty table of contents.
func New() *TOC {
	return new(TOC)
}

// Entries returns the top-level entries.
func (t *TOC) Entries() []*Entry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Len returns the number of slugs handed out.
func (t *TOC) Len() int {
	if t == nil {
		return 0
	}
	return len(t.used)
}

// AddHeadline records a headline of the given level (1 for top-level)
// and returns its unique slug.
// A title that slugifies to nothing gets the slug "section".
// A level-1 headline always starts a new top-level entry.
// A deeper headline is nested under the most recent entry at each level above it;
// if a level was skipped, an entry without a slug or text fills the gap.
func (t *TOC) AddHeadline(level int, title string) (string, error) {
	if level < 1 {
		return "", fmt.Errorf("toc: add headline %q: invalid level %d", title, level)
	}
	base := Slugify(title)
	if base == "" {
		base = fallbackSlug
	}
	slug, err := t.uniqueSlug(base)
	if err != nil {
		return "", fmt.Errorf("toc: add headline %q: %w", title, err)
	}

	siblings := &t.entries
	for depth := 1; depth < level; depth++ {
		if len(*siblings) == 0 {
			*siblings = append(*siblings, &Entry{Number: 1})
		}
		last := (*siblings)[len(*siblings)-1]
		siblings = &last.Entries
	}
	*siblings = append(*siblings, &Entry{
		Number: len(*siblings) + 1,
		Slug:   slug,
		Text:   title,
	})

	if t.used == nil {
		t.used = make(map[string]struct{})
	}
	t.used[slug] = struct{}{}
	return slug, nil
}

func (t *TOC) uniqueSlug(slug string) (string, error) {
	if _, taken := t.used[slug]; !taken {
		return slug, nil
	}
	for i := 1; i <= maxSuffix; i++ {
		candidate := slug + strconv.Itoa(i)
		if _, taken := t.used[candidate]; !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}

// Slugify converts a headline's text to an anchor id:
// the text is lowercased and everything other than letters and digits
// is dropped, so "Hello, World" becomes "helloworld".
func Slugify(title string) string {
	lower := cases.Lower(language.Und).String(title)
	sb := new(strings.Builder)
	sb.Grow(len(lower))
	for _, c := range lower {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// MarshalJSON encodes the table as the list of its top-level entries.
func (t *TOC) MarshalJSON() ([]byte, error) {
	entries := t.Entries()
	if entries == nil {
		entries = []*Entry{}
	}
	return json.Marshal(entries)
}

// FlatEntry is an [Entry] listed by [*TOC.Flatten].
type FlatEntry struct {
	// Number is the dotted path of sibling numbers, like "2.1".
	Number string
	// Depth is 1 for top-level entries.
	Depth int
	Slug  string
	Text  string
}

// Flatten lists all entries in document order.
func (t *TOC) Flatten() []FlatEntry {
	var flat []FlatEntry
	var visit func(entries []*Entry, prefix string, depth int)
	visit = func(entries []*Entry, prefix string, depth int) {
		for _, e := range entries {
			num := prefix + strconv.Itoa(e.Number)
			flat = append(flat, FlatEntry{
				Number: num,
				Depth:  depth,
				Slug:   e.Slug,
				Text:   e.Text,
			})
			visit(e.Entries, num+".", depth+1)
		}
	}
	visit(t.Entries(), "", 1)
	return flat
}
