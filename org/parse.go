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

// Package org provides a parser and HTML renderer
// for a subset of [Org mode] markup.
//
// [Org mode]: https://orgmode.org/
package org

import (
	"errors"
	"strings"
	"unicode"
)

// tabWidth is the number of columns a tab advances
// when measuring list indentation.
const tabWidth = 8

type parser struct {
	cur cursor
	doc *Document

	// headline is a heading that has been read
	// but whose section has not been added to the document yet.
	headline *Headline
	// section is the section that body lines are appended to.
	section *Block
	// list tracks the nesting of the section's trailing list.
	list *listState
}

type listState struct {
	list  *List
	stack []listFrame
}

type listFrame struct {
	indent int
	level  int
}

// Parse parses an org document.
// Either the whole document is returned or an error is;
// there is no partial result.
func Parse(text string) (*Document, error) {
	if strings.IndexByte(text, 0) >= 0 {
		// Replace NUL with the Unicode replacement character.
		text = strings.ReplaceAll(text, "\x00", "\ufffd")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	p := &parser{
		cur: cursor{input: text},
		doc: new(Document),
	}
	for !p.cur.eof() {
		if err := p.parseLine(); err != nil {
			return nil, err
		}
	}
	p.flushHeadline()
	return p.doc, nil
}

// parseLine consumes one line, or a multi-line block starting at this line.
func (p *parser) parseLine() error {
	start := p.cur.offset
	if r, ok := p.cur.prev(); ok && r != '\n' {
		return ErrBadStart
	}

	if stars := p.cur.advanceWhile(func(r rune) bool { return r == '*' }); stars > 0 {
		if p.cur.advanceIf(' ') {
			return p.parseHeadline(stars)
		}
		p.cur.offset = start
	}

	if r, _ := p.cur.peek(); r == '#' {
		next, ok := p.cur.peekAt(1)
		switch {
		case !ok || next == '\n' || next == ' ':
			return p.parseComment()
		case next == '+':
			if handled, err := p.parseDirective(start); handled || err != nil {
				return err
			}
		}
	}

	return p.parseBody()
}

func (p *parser) parseHeadline(stars int) error {
	p.flushHeadline()
	lineno := p.lineno(p.cur.offset)
	text, err := p.cur.restOfLine()
	if err != nil {
		return err
	}
	p.cur.advanceIf('\n')

	h := &Headline{Level: stars}
	text = strings.TrimSpace(text)
	if word, rest := cutWord(text); word == "TODO" || word == "DONE" {
		if word == "TODO" {
			h.Keyword = TodoKeyword
		} else {
			h.Keyword = DoneKeyword
		}
		text = rest
	}
	if word, rest := cutWord(text); len(word) == 4 && strings.HasPrefix(word, "[#") && word[3] == ']' {
		h.Priority = word[2:3]
		text = rest
	}
	text, h.Tags = cutTags(text)

	h.Content, err = parseInline(text)
	if err != nil {
		return withLine(err, lineno)
	}
	p.headline = h
	return nil
}

func (p *parser) parseComment() error {
	p.cur.next()
	p.cur.advanceIf(' ')
	text, err := p.cur.restOfLine()
	if err != nil {
		return err
	}
	p.cur.advanceIf('\n')
	p.doc.Content = append(p.doc.Content, &Block{
		Kind: CommentKind,
		Text: text,
	})
	return nil
}

// parseDirective handles a line starting with "#+".
// It reports false if the line is neither a keyword nor a block,
// in which case the cursor is reset to start
// and the line should be parsed as body text.
func (p *parser) parseDirective(start int) (handled bool, err error) {
	p.cur.offset += len("#+")
	text, err := p.cur.restOfLine()
	if err != nil {
		return false, err
	}
	if name, arg, ok := cutBlockStart(text); ok {
		p.cur.advanceIf('\n')
		return true, p.parseBlock(start, name, arg)
	}
	if key, value, ok := cutKeyword(text); ok {
		p.cur.advanceIf('\n')
		p.doc.Content = append(p.doc.Content, &Block{
			Kind:  KeywordKind,
			Key:   key,
			Value: value,
		})
		return true, nil
	}
	p.cur.offset = start
	return false, nil
}

// parseBlock consumes the lines of a #+BEGIN_name block
// up to and including its #+END_name line.
// Unterminated blocks extend to the end of the input.
func (p *parser) parseBlock(start int, name, arg string) error {
	var node *Inline
	switch name {
	case "SRC":
		lang, _ := cutWord(arg)
		node = &Inline{Kind: SourceBlockKind, Lang: lang}
	case "EXPORT":
		if backend, _ := cutWord(arg); strings.EqualFold(backend, "html") {
			node = &Inline{Kind: ExportHTMLKind}
		}
	case "HTML":
		node = &Inline{Kind: ExportHTMLKind}
	default:
		return &UnsupportedError{
			Construct: "#+BEGIN_" + name + " block",
			Line:      p.lineno(start),
		}
	}

	var lines []string
	end := "#+END_" + name
	for !p.cur.eof() {
		line, err := p.cur.restOfLine()
		if err != nil {
			return err
		}
		p.cur.advanceIf('\n')
		if strings.EqualFold(strings.TrimSpace(line), end) {
			break
		}
		lines = append(lines, line)
	}
	if node == nil {
		// Export block for another backend.
		return nil
	}
	node.Text = strings.Join(lines, "\n")

	p.flushHeadline()
	sec := p.openSection()
	sec.Children = append(sec.Children, node)
	return nil
}

func (p *parser) parseBody() error {
	p.flushHeadline()
	lineno := p.lineno(p.cur.offset)
	text, err := p.cur.restOfLine()
	if err != nil {
		return err
	}
	p.cur.advanceIf('\n')
	sec := p.openSection()

	if indent, item, ok := cutListItem(text); ok {
		content, err := parseInline(item)
		if err != nil {
			return withLine(err, lineno)
		}
		p.addListItem(sec, indent, content)
		return nil
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}
	content, err := parseInline(text)
	if err != nil {
		return withLine(err, lineno)
	}
	if n := len(sec.Children); n > 0 {
		if last := sec.Children[n-1]; !last.Kind.isBlockLike() && last.Kind != NewlineKind {
			sec.Children = append(sec.Children, &Inline{Kind: NewlineKind})
		}
	}
	sec.Children = append(sec.Children, content...)
	return nil
}

// addListItem appends an item to the section's trailing list,
// starting a new list if the section does not end with one.
func (p *parser) addListItem(sec *Block, indent int, content []*Inline) {
	n := len(sec.Children)
	if n == 0 || sec.Children[n-1].Kind != ListKind || p.list == nil || p.list.list != sec.Children[n-1].List {
		l := &List{Style: Bullet, Levels: []ListLevel{{}}}
		sec.Children = append(sec.Children, &Inline{Kind: ListKind, List: l})
		p.list = &listState{
			list:  l,
			stack: []listFrame{{indent: indent, level: 0}},
		}
	}

	st := p.list
	var popped *listFrame
	for len(st.stack) > 1 && indent < st.stack[len(st.stack)-1].indent {
		f := st.stack[len(st.stack)-1]
		popped = &f
		st.stack = st.stack[:len(st.stack)-1]
	}
	top := st.stack[len(st.stack)-1]
	switch {
	case indent > top.indent && popped != nil:
		// Indented between two open levels: stay in the deeper one.
		top = *popped
		st.stack = append(st.stack, top)
	case indent > top.indent:
		level := len(st.list.Levels)
		st.list.Levels = append(st.list.Levels, ListLevel{})
		st.list.Levels[top.level].Items = append(st.list.Levels[top.level].Items, ListItem{Sublist: level})
		top = listFrame{indent: indent, level: level}
		st.stack = append(st.stack, top)
	}
	st.list.Levels[top.level].Items = append(st.list.Levels[top.level].Items, ListItem{Content: content})
}

// flushHeadline adds the pending headline's section to the document.
func (p *parser) flushHeadline() {
	if p.headline == nil {
		return
	}
	sec := &Block{
		Kind:     SectionKind,
		Headline: p.headline,
	}
	p.doc.Content = append(p.doc.Content, sec)
	p.section = sec
	p.headline = nil
}

// openSection returns the section that body content is appended to,
// creating a section without a headline if necessary.
func (p *parser) openSection() *Block {
	if p.section == nil {
		p.section = &Block{Kind: SectionKind}
		p.doc.Content = append(p.doc.Content, p.section)
	}
	return p.section
}

// lineno returns the 1-based line number of the given offset.
func (p *parser) lineno(offset int) int {
	return 1 + strings.Count(p.cur.input[:offset], "\n")
}

func withLine(err error, lineno int) error {
	var ue *UnsupportedError
	if errors.As(err, &ue) && ue.Line == 0 {
		ue.Line = lineno
	}
	return err
}

// cutWord splits s after its first space-separated word.
func cutWord(s string) (word, rest string) {
	word, rest, _ = strings.Cut(s, " ")
	return word, strings.TrimLeft(rest, " ")
}

// cutTags removes a trailing tag group like ":work:urgent:" from a headline.
func cutTags(text string) (string, []string) {
	i := strings.LastIndexAny(text, " \t")
	group := text[i+1:]
	if len(group) < 3 || group[0] != ':' || group[len(group)-1] != ':' {
		return text, nil
	}
	tags := strings.Split(group[1:len(group)-1], ":")
	for _, tag := range tags {
		if tag == "" || strings.IndexFunc(tag, func(r rune) bool {
			return !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_@#%", r))
		}) >= 0 {
			return text, nil
		}
	}
	if i < 0 {
		return "", tags
	}
	return strings.TrimRight(text[:i], " \t"), tags
}

// cutKeyword splits the text of a "#+KEY: VALUE" line
// (without the leading "#+").
func cutKeyword(text string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(text, ":")
	if !ok || key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	if value != "" && value[0] != ' ' && value[0] != '\t' {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

// cutBlockStart parses the text of a "#+BEGIN_NAME args" line
// (without the leading "#+").
func cutBlockStart(text string) (name, arg string, ok bool) {
	const prefix = "BEGIN_"
	if len(text) <= len(prefix) || !strings.EqualFold(text[:len(prefix)], prefix) {
		return "", "", false
	}
	name, arg = cutWord(text[len(prefix):])
	return strings.ToUpper(name), strings.TrimSpace(arg), true
}

// cutListItem reports whether line is a bullet list item,
// returning its indentation width and the text after the marker.
func cutListItem(line string) (indent int, item string, ok bool) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			indent++
		case '\t':
			indent += tabWidth - indent%tabWidth
		case '-':
			if i+1 < len(line) && line[i+1] == ' ' {
				return indent, line[i+2:], true
			}
			return 0, "", false
		default:
			return 0, "", false
		}
	}
	return 0, "", false
}
