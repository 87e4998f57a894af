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

package org

import (
	"fmt"
	"strings"
)

// Document is the result of parsing a single org file.
// It must not be modified after [Parse] returns it.
type Document struct {
	Content []*Block
}

// Keyword returns the value of the first keyword line
// whose key matches (case-insensitively).
func (doc *Document) Keyword(key string) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, b := range doc.Content {
		if b.Kind == KeywordKind && strings.EqualFold(b.Key, key) {
			return b.Value, true
		}
	}
	return "", false
}

// A Block is a top-level element of a [Document].
type Block struct {
	Kind BlockKind

	// Text is the text of a comment, without the leading marker.
	Text string

	// Key and Value are set for keyword lines (#+KEY: VALUE).
	Key   string
	Value string

	// Headline is the heading that introduced a section.
	// Sections before the first heading have no headline.
	Headline *Headline
	// Children is the body content of a section.
	Children []*Inline
}

// BlockKind is an enumeration of values in [Block.Kind].
type BlockKind uint8

const (
	CommentKind BlockKind = 1 + iota
	KeywordKind
	SectionKind
)

func (kind BlockKind) String() string {
	switch kind {
	case CommentKind:
		return "CommentKind"
	case KeywordKind:
		return "KeywordKind"
	case SectionKind:
		return "SectionKind"
	default:
		return fmt.Sprintf("BlockKind(%d)", uint8(kind))
	}
}

// Headline is a heading line.
type Headline struct {
	// Level is the number of leading stars.
	Level    int
	Keyword  Keyword
	Priority string
	Content  []*Inline
	Tags     []string
}

// Keyword is the optional TODO state of a [Headline].
type Keyword uint8

const (
	NoKeyword Keyword = iota
	TodoKeyword
	DoneKeyword
)

func (k Keyword) String() string {
	switch k {
	case NoKeyword:
		return ""
	case TodoKeyword:
		return "TODO"
	case DoneKeyword:
		return "DONE"
	default:
		return fmt.Sprintf("Keyword(%d)", uint8(k))
	}
}

// Inline represents section content like text, emphasis, links, or lists.
type Inline struct {
	Kind InlineKind

	// Text holds the literal text of a [TextKind] node,
	// the target of a [LinkKind] node,
	// the body of a [SourceBlockKind] node
	// or the markup of an [ExportHTMLKind] node.
	Text string
	// Name is the footnote label, empty for anonymous footnotes.
	Name string
	// Lang is the declared language of a source block.
	Lang string

	// Children holds nested content:
	// the emphasized text, a link label, or a footnote body.
	Children []*Inline
	// List is set for [ListKind] nodes.
	List *List
}

// InlineKind is an enumeration of values in [Inline.Kind].
type InlineKind uint8

const (
	TextKind InlineKind = 1 + iota
	BoldKind
	ItalicKind
	UnderlineKind
	VerbatimKind
	CodeKind
	StrikethroughKind
	LinkKind
	FootnoteKind
	ListKind
	NewlineKind
	SourceBlockKind
	ExportHTMLKind
)

var inlineKindNames = [...]string{
	TextKind:          "TextKind",
	BoldKind:          "BoldKind",
	ItalicKind:        "ItalicKind",
	UnderlineKind:     "UnderlineKind",
	VerbatimKind:      "VerbatimKind",
	CodeKind:          "CodeKind",
	StrikethroughKind: "StrikethroughKind",
	LinkKind:          "LinkKind",
	FootnoteKind:      "FootnoteKind",
	ListKind:          "ListKind",
	NewlineKind:       "NewlineKind",
	SourceBlockKind:   "SourceBlockKind",
	ExportHTMLKind:    "ExportHTMLKind",
}

func (kind InlineKind) String() string {
	if int(kind) < len(inlineKindNames) && inlineKindNames[kind] != "" {
		return inlineKindNames[kind]
	}
	return fmt.Sprintf("InlineKind(%d)", uint8(kind))
}

// isBlockLike reports whether the kind is rendered outside of paragraphs.
func (kind InlineKind) isBlockLike() bool {
	return kind == ListKind || kind == SourceBlockKind || kind == ExportHTMLKind
}

// List is a plain list.
// Nested lists are stored in Levels rather than as pointers:
// Levels[0] holds the outermost items
// and a [ListItem] with a positive Sublist refers to Levels[Sublist].
type List struct {
	Style  ListStyle
	Levels []ListLevel
}

// Items returns the outermost items of the list.
func (l *List) Items() []ListItem {
	if l == nil || len(l.Levels) == 0 {
		return nil
	}
	return l.Levels[0].Items
}

// ListLevel is one level of list nesting.
type ListLevel struct {
	Items []ListItem
}

// ListItem is either content or a reference to a nested list level.
type ListItem struct {
	Content []*Inline
	// Sublist is the index into [List.Levels] of a nested level,
	// or zero for an item holding Content.
	Sublist int
}

// IsSublist reports whether the item refers to a nested level.
func (item *ListItem) IsSublist() bool {
	return item.Sublist > 0
}

// ListStyle is an enumeration of values in [List.Style].
type ListStyle uint8

const (
	Bullet ListStyle = 1 + iota
)

// PlainText returns the text of the given nodes
// with all formatting removed.
// Footnotes are omitted and links contribute their label.
func PlainText(nodes []*Inline) string {
	sb := new(strings.Builder)
	appendPlainText(sb, nodes)
	return sb.String()
}

func appendPlainText(sb *strings.Builder, nodes []*Inline) {
	for _, n := range nodes {
		switch n.Kind {
		case TextKind:
			sb.WriteString(n.Text)
		case NewlineKind:
			sb.WriteByte(' ')
		case FootnoteKind, ListKind, SourceBlockKind, ExportHTMLKind:
		default:
			appendPlainText(sb, n.Children)
		}
	}
}
