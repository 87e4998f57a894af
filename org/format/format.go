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

// Package format provides a function to format an org document
// that is equivalent to the original org text.
package format

import (
	"io"
	"strings"

	"github.com/m4tsa/nuko/org"
)

// Format writes the given document as org markup to the given writer.
func Format(w io.Writer, doc *org.Document) error {
	ww := &errWriter{w: w, atLineStart: true}
	indents := make(map[org.Node]string)
	org.Walk(doc.AsNode(), &org.WalkOptions{
		Pre: func(c *org.Cursor) bool {
			switch n := c.Node(); {
			case n.Block() != nil:
				return preBlock(ww, n.Block())
			case n.Headline() != nil:
				preHeadline(ww, n.Headline())
				return true
			case n.Inline() != nil:
				if c.Parent().Block() != nil {
					startSectionChild(ww, n.Inline())
				}
				return preInline(ww, n.Inline())
			case n.ListItem() != nil:
				parentIndent := indents[c.Parent()]
				if n.ListItem().IsSublist() {
					indents[n] = parentIndent + "  "
					return true
				}
				ww.WriteString(parentIndent)
				ww.WriteString("- ")
				return true
			}
			return true
		},
		Post: func(c *org.Cursor) bool {
			switch n := c.Node(); {
			case n.Block() != nil:
				ww.endLine()
			case n.Headline() != nil:
				postHeadline(ww, n.Headline())
			case n.Inline() != nil:
				postInline(ww, n.Inline())
			case n.ListItem() != nil:
				if !n.ListItem().IsSublist() {
					ww.WriteString("\n")
				}
			}
			return true
		},
	})
	return ww.err
}

func preBlock(w *errWriter, b *org.Block) (descend bool) {
	switch b.Kind {
	case org.CommentKind:
		w.WriteString("#")
		if b.Text != "" {
			w.WriteString(" ")
			w.WriteString(b.Text)
		}
		w.WriteString("\n")
		return false
	case org.KeywordKind:
		w.WriteString("#+")
		w.WriteString(b.Key)
		w.WriteString(":")
		if b.Value != "" {
			w.WriteString(" ")
			w.WriteString(b.Value)
		}
		w.WriteString("\n")
		return false
	case org.SectionKind:
		return true
	default:
		return false
	}
}

func preHeadline(w *errWriter, h *org.Headline) {
	w.WriteString(strings.Repeat("*", h.Level))
	w.WriteString(" ")
	if h.Keyword != org.NoKeyword {
		w.WriteString(h.Keyword.String())
		w.WriteString(" ")
	}
	if h.Priority != "" {
		w.WriteString("[#")
		w.WriteString(h.Priority)
		w.WriteString("] ")
	}
}

func postHeadline(w *errWriter, h *org.Headline) {
	if len(h.Tags) > 0 {
		w.WriteString(" :")
		w.WriteString(strings.Join(h.Tags, ":"))
		w.WriteString(":")
	}
	w.WriteString("\n")
}

// startSectionChild ensures lists and blocks begin on a line of their own.
func startSectionChild(w *errWriter, inline *org.Inline) {
	switch inline.Kind {
	case org.ListKind, org.SourceBlockKind, org.ExportHTMLKind:
		w.endLine()
	}
}

func preInline(w *errWriter, inline *org.Inline) (descend bool) {
	switch inline.Kind {
	case org.TextKind:
		w.WriteString(inline.Text)
		return false
	case org.NewlineKind:
		w.WriteString("\n")
		return false
	case org.VerbatimKind, org.CodeKind:
		m := marker(inline.Kind)
		w.WriteString(m)
		w.WriteString(org.PlainText(inline.Children))
		w.WriteString(m)
		return false
	case org.LinkKind:
		w.WriteString("[[")
		w.WriteString(inline.Text)
		if len(inline.Children) == 1 && inline.Children[0].Kind == org.TextKind && inline.Children[0].Text == inline.Text {
			w.WriteString("]]")
			return false
		}
		w.WriteString("][")
		return true
	case org.FootnoteKind:
		w.WriteString("[fn:")
		w.WriteString(inline.Name)
		w.WriteString(":")
		return true
	case org.SourceBlockKind:
		w.WriteString("#+BEGIN_SRC")
		if inline.Lang != "" {
			w.WriteString(" ")
			w.WriteString(inline.Lang)
		}
		w.WriteString("\n")
		writeLines(w, inline.Text)
		w.WriteString("#+END_SRC\n")
		return false
	case org.ExportHTMLKind:
		w.WriteString("#+BEGIN_EXPORT html\n")
		writeLines(w, inline.Text)
		w.WriteString("#+END_EXPORT\n")
		return false
	case org.ListKind:
		return true
	default:
		w.WriteString(marker(inline.Kind))
		return true
	}
}

func postInline(w *errWriter, inline *org.Inline) {
	switch inline.Kind {
	case org.LinkKind:
		w.WriteString("]]")
	case org.FootnoteKind:
		w.WriteString("]")
	case org.BoldKind, org.ItalicKind, org.UnderlineKind, org.StrikethroughKind:
		w.WriteString(marker(inline.Kind))
	}
}

func marker(kind org.InlineKind) string {
	switch kind {
	case org.BoldKind:
		return "*"
	case org.ItalicKind:
		return "/"
	case org.UnderlineKind:
		return "_"
	case org.VerbatimKind:
		return "="
	case org.CodeKind:
		return "~"
	case org.StrikethroughKind:
		return "+"
	default:
		return ""
	}
}

func writeLines(w *errWriter, text string) {
	if text == "" {
		return
	}
	w.WriteString(text)
	w.WriteString("\n")
}

type errWriter struct {
	w           io.Writer
	atLineStart bool
	err         error
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	if n > 0 {
		w.atLineStart = s[n-1] == '\n'
	}
	return n, w.err
}

// endLine terminates the current line unless it is empty.
func (w *errWriter) endLine() {
	if !w.atLineStart {
		w.WriteString("\n")
	}
}
