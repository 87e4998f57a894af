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
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/m4tsa/nuko/highlight"
	"github.com/m4tsa/nuko/toc"
	"golang.org/x/net/html/atom"
)

// An HTMLRenderer converts parsed org documents into HTML fragments.
//
// Text is escaped, but [ExportHTMLKind] blocks are copied verbatim.
// Documents from untrusted sources should have their output
// sent through an HTML sanitizer.
type HTMLRenderer struct {
	// BaseURL is prepended to site-relative link targets
	// (those starting with "/").
	BaseURL string
	// Highlighter renders source blocks that declare a language.
	// If Highlighter is nil, source blocks are rendered as plain text
	// and verbatim and code spans are not wrapped in <code>.
	Highlighter *highlight.Highlighter
	// Logger receives debug messages.
	// If nil, [slog.Default] is used.
	Logger *slog.Logger
}

// Result is the output of rendering one document.
type Result struct {
	// HTML is the rendered body followed by the footnotes section, if any.
	HTML string
	// TOC is the table of contents built from the document's headlines.
	TOC *toc.TOC
}

// RenderHTML renders a document using the default options for [HTMLRenderer].
func RenderHTML(doc *Document) (*Result, error) {
	return new(HTMLRenderer).Render(doc)
}

// Render renders a document by walking its tree.
// It returns the first error encountered, if any.
func (r *HTMLRenderer) Render(doc *Document) (*Result, error) {
	state := r.newState()
	if doc != nil {
		for _, b := range doc.Content {
			if b.Kind != SectionKind {
				continue
			}
			if err := state.section(b); err != nil {
				return nil, fmt.Errorf("render org to html: %w", err)
			}
		}
	}
	return state.finish(), nil
}

// RenderEvents renders a document from its event stream,
// as returned by [Events].
// The output is identical to [*HTMLRenderer.Render] for the same document.
func (r *HTMLRenderer) RenderEvents(events []Event) (*Result, error) {
	state := r.newState()
	for _, ev := range events {
		var err error
		switch ev.Kind {
		case StartEvent:
			err = state.start(ev.Node, ev.Parent)
		case EndEvent:
			err = state.end(ev.Node, ev.Parent)
		default:
			err = fmt.Errorf("unknown event %v", ev.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("render org to html: %w", err)
		}
	}
	if state.saved != nil {
		return nil, fmt.Errorf("render org to html: unterminated footnote")
	}
	return state.finish(), nil
}

func (r *HTMLRenderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// emitContext holds the state collected over a whole document.
// Footnote bodies are rendered without one,
// so they can neither add headlines nor footnotes.
type emitContext struct {
	toc       *toc.TOC
	footnotes [][]byte
}

type renderState struct {
	*HTMLRenderer
	dst []byte
	ctx *emitContext

	// paragraph is true while a <p> element is open.
	paragraph bool

	// saved holds the main output and context
	// while an event stream is inside a footnote.
	saved *renderState
}

func (r *HTMLRenderer) newState() *renderState {
	return &renderState{
		HTMLRenderer: r,
		ctx:          &emitContext{toc: toc.New()},
	}
}

// finish appends the footnotes section and returns the result.
func (r *renderState) finish() *Result {
	if n := len(r.ctx.footnotes); n > 0 {
		r.dst = append(r.dst, `<section id="footnotes"><hr><ol>`...)
		for i, body := range r.ctx.footnotes {
			id := int64(i + 1)
			r.dst = append(r.dst, `<li id="fn`...)
			r.dst = strconv.AppendInt(r.dst, id, 10)
			r.dst = append(r.dst, `"><p>`...)
			r.dst = append(r.dst, body...)
			r.dst = append(r.dst, `  <a href="#fns`...)
			r.dst = strconv.AppendInt(r.dst, id, 10)
			r.dst = append(r.dst, `">↵</a></p></li>`...)
		}
		r.dst = append(r.dst, `</ol></section>`...)
	}
	r.logger().Debug("Rendered org document",
		slog.Int("headlines", r.ctx.toc.Len()),
		slog.Int("footnotes", len(r.ctx.footnotes)))
	return &Result{
		HTML: string(r.dst),
		TOC:  r.ctx.toc,
	}
}

func (r *renderState) openTag(name atom.Atom) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) closeTag(name atom.Atom) {
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) openParagraph() {
	if !r.paragraph {
		r.openTag(atom.P)
		r.paragraph = true
	}
}

func (r *renderState) closeParagraph() {
	if r.paragraph {
		r.closeTag(atom.P)
		r.paragraph = false
	}
}

func (r *renderState) section(b *Block) error {
	if h := b.Headline; h != nil {
		if err := r.openHeadline(h); err != nil {
			return err
		}
		for _, c := range h.Content {
			if err := r.inline(c); err != nil {
				return err
			}
		}
		r.closeHeadline(h)
	}
	for _, c := range b.Children {
		r.sectionChild(c)
		if err := r.inline(c); err != nil {
			return err
		}
	}
	r.closeParagraph()
	return nil
}

// sectionChild opens or closes the paragraph around a direct child of a section.
func (r *renderState) sectionChild(c *Inline) {
	if c.Kind == NewlineKind || c.Kind.isBlockLike() {
		r.closeParagraph()
	} else {
		r.openParagraph()
	}
}

func (r *renderState) openHeadline(h *Headline) error {
	if r.ctx == nil {
		return &UnsupportedError{Construct: "headline inside footnote"}
	}
	slug, err := r.ctx.toc.AddHeadline(h.Level, PlainText(h.Content))
	if err != nil {
		return err
	}
	tag := headingTag(h.Level)
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, tag.String()...)
	r.dst = append(r.dst, ` id="`...)
	r.dst = escapeHTML(r.dst, slug)
	r.dst = append(r.dst, `"><a href="#`...)
	r.dst = escapeHTML(r.dst, slug)
	r.dst = append(r.dst, `">`...)
	switch h.Keyword {
	case TodoKeyword:
		r.dst = append(r.dst, `<span class="todo">TODO</span> `...)
	case DoneKeyword:
		r.dst = append(r.dst, `<span class="done">DONE</span> `...)
	}
	return nil
}

func (r *renderState) closeHeadline(h *Headline) {
	r.closeTag(atom.A)
	r.closeTag(headingTag(h.Level))
}

func headingTag(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func (r *renderState) inline(inline *Inline) error {
	if err := r.openInline(inline); err != nil {
		return err
	}
	switch inline.Kind {
	case ListKind:
		if err := r.listLevel(inline.List, 0); err != nil {
			return err
		}
	case FootnoteKind:
		body := &renderState{HTMLRenderer: r.HTMLRenderer}
		for _, c := range inline.Children {
			if err := body.inline(c); err != nil {
				return err
			}
		}
		r.addFootnote(body.dst)
		return nil
	default:
		for _, c := range inline.Children {
			if err := r.inline(c); err != nil {
				return err
			}
		}
	}
	r.closeInline(inline)
	return nil
}

func (r *renderState) listLevel(l *List, level int) error {
	for _, item := range l.Levels[level].Items {
		r.openTag(atom.Li)
		if item.IsSublist() {
			r.openTag(atom.Ul)
			if err := r.listLevel(l, item.Sublist); err != nil {
				return err
			}
			r.closeTag(atom.Ul)
		} else {
			for _, c := range item.Content {
				if err := r.inline(c); err != nil {
					return err
				}
			}
		}
		r.closeTag(atom.Li)
	}
	return nil
}

// openInline writes everything of an inline node that precedes its children.
// Nodes without children are written completely.
func (r *renderState) openInline(inline *Inline) error {
	switch inline.Kind {
	case TextKind:
		r.dst = escapeHTML(r.dst, inline.Text)
	case BoldKind:
		r.openTag(atom.B)
	case ItalicKind:
		r.openTag(atom.I)
	case UnderlineKind:
		r.openTag(atom.U)
	case StrikethroughKind:
		r.openTag(atom.S)
	case VerbatimKind, CodeKind:
		if r.Highlighter != nil {
			r.openTag(atom.Code)
		}
	case LinkKind:
		r.openLink(inline.Text)
	case FootnoteKind:
		if inline.Name != "" {
			return &UnsupportedError{Construct: "named footnote " + strconv.Quote(inline.Name)}
		}
		if r.ctx == nil {
			return &UnsupportedError{Construct: "footnote inside footnote"}
		}
	case ListKind:
		r.openTag(atom.Ul)
	case SourceBlockKind:
		return r.sourceBlock(inline)
	case ExportHTMLKind:
		r.dst = append(r.dst, inline.Text...)
	}
	return nil
}

// closeInline writes everything of an inline node that follows its children.
func (r *renderState) closeInline(inline *Inline) {
	switch inline.Kind {
	case BoldKind:
		r.closeTag(atom.B)
	case ItalicKind:
		r.closeTag(atom.I)
	case UnderlineKind:
		r.closeTag(atom.U)
	case StrikethroughKind:
		r.closeTag(atom.S)
	case VerbatimKind, CodeKind:
		if r.Highlighter != nil {
			r.closeTag(atom.Code)
		}
	case LinkKind:
		r.closeTag(atom.A)
	case ListKind:
		r.closeTag(atom.Ul)
	}
}

func (r *renderState) openLink(target string) {
	r.dst = append(r.dst, `<a href="`...)
	if strings.HasPrefix(target, "/") {
		r.dst = escapeHTML(r.dst, NormalizeURI(strings.TrimSuffix(r.BaseURL, "/")+target))
		r.dst = append(r.dst, `">`...)
		return
	}
	r.dst = escapeHTML(r.dst, NormalizeURI(target))
	r.dst = append(r.dst, `" rel="noreferrer noopener">`...)
}

// addFootnote records a rendered footnote body
// and writes the reference to it.
func (r *renderState) addFootnote(body []byte) {
	r.ctx.footnotes = append(r.ctx.footnotes, body)
	id := int64(len(r.ctx.footnotes))
	r.dst = append(r.dst, `<sup><a href="#fn`...)
	r.dst = strconv.AppendInt(r.dst, id, 10)
	r.dst = append(r.dst, `" id="fns`...)
	r.dst = strconv.AppendInt(r.dst, id, 10)
	r.dst = append(r.dst, `">`...)
	r.dst = strconv.AppendInt(r.dst, id, 10)
	r.dst = append(r.dst, `</a></sup>`...)
}

func (r *renderState) sourceBlock(block *Inline) error {
	r.dst = append(r.dst, `<pre class="code">`...)
	switch {
	case block.Lang == "":
		r.dst = escapeHTML(r.dst, block.Text)
	case r.Highlighter == nil:
		r.logger().Debug("Highlighting not configured", slog.String("lang", block.Lang))
		r.dst = escapeHTML(r.dst, block.Text)
	default:
		code, err := r.Highlighter.Highlight(block.Lang, block.Text)
		if err != nil {
			return err
		}
		r.dst = append(r.dst, code...)
	}
	r.closeTag(atom.Pre)
	return nil
}

// start handles a [StartEvent].
func (r *renderState) start(n, parent Node) error {
	if b := parent.Block(); b != nil {
		if inline := n.Inline(); inline != nil {
			r.sectionChild(inline)
		}
	}
	switch {
	case n.Headline() != nil:
		return r.openHeadline(n.Headline())
	case n.Inline() != nil:
		inline := n.Inline()
		if err := r.openInline(inline); err != nil {
			return err
		}
		if inline.Kind == FootnoteKind {
			// Divert output until the footnote ends.
			saved := *r
			r.saved = &saved
			r.dst = nil
			r.ctx = nil
			r.paragraph = false
		}
	case n.ListItem() != nil:
		r.openTag(atom.Li)
		if n.ListItem().IsSublist() {
			r.openTag(atom.Ul)
		}
	}
	return nil
}

// end handles an [EndEvent].
func (r *renderState) end(n, parent Node) error {
	switch {
	case n.Block() != nil:
		r.closeParagraph()
	case n.Headline() != nil:
		r.closeHeadline(n.Headline())
	case n.Inline() != nil:
		inline := n.Inline()
		if inline.Kind != FootnoteKind {
			r.closeInline(inline)
			return nil
		}
		if r.saved == nil {
			return fmt.Errorf("footnote end without start")
		}
		body := r.dst
		*r = *r.saved
		r.addFootnote(body)
	case n.ListItem() != nil:
		if n.ListItem().IsSublist() {
			r.closeTag(atom.Ul)
		}
		r.closeTag(atom.Li)
	}
	return nil
}

// escapeHTML appends the HTML-escaped version of a string to a byte slice.
func escapeHTML(dst []byte, src string) []byte {
	verbatimStart := 0
	for i := 0; i < len(src); i++ {
		var esc string
		switch src[i] {
		case '&':
			esc = "&amp;"
		case '\'':
			// "&#39;" is shorter than "&apos;" and apos was not in HTML until HTML5.
			esc = "&#39;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		default:
			continue
		}
		dst = append(dst, src[verbatimStart:i]...)
		dst = append(dst, esc...)
		verbatimStart = i + 1
	}
	return append(dst, src[verbatimStart:]...)
}

// NormalizeURI percent-encodes any characters in a string
// that are not reserved or unreserved URI characters.
// Link targets are passed through NormalizeURI
// before being written to href attributes.
func NormalizeURI(s string) string {
	// RFC 3986 reserved and unreserved characters.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	sb := new(strings.Builder)
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			sb.WriteRune(c)
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				skip = 2
				sb.WriteByte('%')
			} else {
				sb.WriteString("%25")
			}
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || strings.ContainsRune(safeSet, c):
			sb.WriteRune(c)
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(urlHexDigit(b >> 4))
				sb.WriteByte(urlHexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F' || '0' <= c && c <= '9'
}

func urlHexDigit(x byte) byte {
	switch {
	case x < 0xa:
		return '0' + x
	case x < 0x10:
		return 'A' + x - 0xa
	default:
		panic("out of bounds")
	}
}
