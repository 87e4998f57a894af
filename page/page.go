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

// Package page extracts page metadata from org documents.
package page

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/m4tsa/nuko/org"
)

// Page is a content file's metadata together with its parsed document.
type Page struct {
	// Path is the absolute URL path of the page, like "/blog/hello".
	Path string

	Title       string
	Type        string
	Template    string
	Description string
	// Date is the publication date, or the zero time if the page has none.
	Date time.Time
	// Updated is the date of the last update, or the zero time.
	Updated time.Time
	Tags    []string

	Document *org.Document
}

// FromDocument reads the metadata keywords of a parsed document.
// It returns an [*InvalidDateFieldError] or an [*InvalidTagError]
// if the DATE or TAGS keyword is malformed.
func FromDocument(pagePath string, doc *org.Document) (*Page, error) {
	p := &Page{
		Path:     pagePath,
		Document: doc,
	}
	p.Title, _ = doc.Keyword("TITLE")
	p.Type, _ = doc.Keyword("TYPE")
	p.Template, _ = doc.Keyword("TEMPLATE")
	p.Description, _ = doc.Keyword("DESCRIPTION")

	if value, ok := doc.Keyword("DATE"); ok {
		var err error
		p.Date, p.Updated, err = parseDateField(value)
		if err != nil {
			return nil, &InvalidDateFieldError{Path: pagePath, Value: value, Err: err}
		}
	}
	if value, ok := doc.Keyword("TAGS"); ok {
		tags, err := parseTags(value)
		if err != nil {
			err.Path = pagePath
			return nil, err
		}
		p.Tags = tags
	}
	return p, nil
}

// parseTags splits a TAGS value on whitespace and commas.
func parseTags(value string) ([]string, *InvalidTagError) {
	tags := strings.FieldsFunc(value, func(c rune) bool {
		return c == ',' || unicode.IsSpace(c)
	})
	for _, tag := range tags {
		if strings.IndexFunc(tag, func(c rune) bool {
			return !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_')
		}) >= 0 {
			return nil, &InvalidTagError{Tag: tag}
		}
	}
	return tags, nil
}

// Path returns the URL path of a content file.
// Files named "_index" (with any extension) stand for their directory;
// other files lose their extension.
func Path(contentDir, file string) (string, error) {
	rel, err := filepath.Rel(contentDir, file)
	if err != nil {
		return "", fmt.Errorf("page path of %s: %w", file, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("page path of %s: not inside %s", file, contentDir)
	}
	dir, name := path.Split(rel)
	if strings.HasPrefix(name, "_index") {
		return path.Join("/", dir), nil
	}
	return path.Join("/", dir, strings.TrimSuffix(name, path.Ext(name))), nil
}

// InvalidDateFieldError is returned for a DATE keyword
// that is not of the form "<YYYY-MM-DD Day>" or "<YYYY-MM-DD Day>---<YYYY-MM-DD Day>".
type InvalidDateFieldError struct {
	Path  string
	Value string
	Err   error
}

func (e *InvalidDateFieldError) Error() string {
	return fmt.Sprintf("page %s: invalid date field %q: %v", e.Path, e.Value, e.Err)
}

func (e *InvalidDateFieldError) Unwrap() error {
	return e.Err
}

// InvalidTagError is returned for a tag
// containing characters other than letters, digits, '-' and '_'.
type InvalidTagError struct {
	Path string
	Tag  string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("page %s: invalid tag %q", e.Path, e.Tag)
}
