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

package page

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	// ErrMissingTitle is returned when a post has no TITLE keyword.
	ErrMissingTitle = errors.New("missing the title keyword")
	// ErrMissingDescription is returned when a post has no DESCRIPTION keyword.
	ErrMissingDescription = errors.New("missing the description keyword")
)

// Post is the summary of a page listed in a post index.
type Post struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Path        string     `json:"path"`
	Date        time.Time  `json:"date"`
	// Updated is nil if the post was never updated.
	Updated     *time.Time `json:"date_updated,omitempty"`
}

// Posts is an index of posts.
type Posts struct {
	posts []Post
}

// Add lists a page.
func (ps *Posts) Add(p *Page) error {
	if p.Title == "" {
		return fmt.Errorf("post at %s: %w", p.Path, ErrMissingTitle)
	}
	if p.Description == "" {
		return fmt.Errorf("post at %s: %w", p.Path, ErrMissingDescription)
	}
	post := Post{
		Title:       p.Title,
		Description: p.Description,
		Path:        p.Path,
		Date:        p.Date,
	}
	if !p.Updated.IsZero() {
		updated := p.Updated
		post.Updated = &updated
	}
	ps.posts = append(ps.posts, post)
	return nil
}

// Sort orders the posts newest first.
// Posts from the same day are ordered by path.
func (ps *Posts) Sort() {
	slices.SortFunc(ps.posts, func(a, b Post) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
}

// All returns the listed posts.
func (ps *Posts) All() []Post {
	return ps.posts
}
