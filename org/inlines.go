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
	"strings"
	"unicode"
	"unicode/utf8"
)

// emphasisPre is the set of characters besides whitespace
// that may precede an emphasis opener.
const emphasisPre = `-('"{`

// emphasisPost is the set of characters besides whitespace
// that may follow an emphasis closer.
const emphasisPost = `-.,:!?;'")}[`

// parseInline converts a line of text into inline nodes.
// The scan moves left to right and the first construct
// that matches at a position wins;
// links and footnotes are tried before emphasis.
func parseInline(text string) ([]*Inline, error) {
	return newInlineParser(text).parse(0, len(text))
}

// inlineParser holds the state for parsing one line.
// Nested content is parsed as a range of the same line,
// so bracket matches are computed once
// and a failed closer search is never repeated over the same tail.
type inlineParser struct {
	text string

	// match[i] is the index of the ']' that closes the '[' at text[i],
	// or -1 if it is never closed.
	match []int
	// linkEnd[i] is the index of the first "]]" at or after i, or -1.
	linkEnd []int

	// noCloser[marker][i] is hi+1 when a closer search for marker
	// in a range ending at hi reached i and found nothing from there on.
	noCloser map[byte][]int
	visited  []int
}

func newInlineParser(text string) *inlineParser {
	p := &inlineParser{text: text}
	if strings.IndexByte(text, '[') < 0 {
		return p
	}
	p.match = make([]int, len(text))
	var open []int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '[':
			p.match[i] = -1
			open = append(open, i)
		case ']':
			if n := len(open); n > 0 {
				p.match[open[n-1]] = i
				open = open[:n-1]
			}
		}
	}
	p.linkEnd = make([]int, len(text)+1)
	p.linkEnd[len(text)] = -1
	for i := len(text) - 1; i >= 0; i-- {
		if strings.HasPrefix(text[i:], "]]") {
			p.linkEnd[i] = i
		} else {
			p.linkEnd[i] = p.linkEnd[i+1]
		}
	}
	return p
}

// parse converts text[lo:hi] into inline nodes.
// Line edges are the edges of the range.
func (p *inlineParser) parse(lo, hi int) ([]*Inline, error) {
	var nodes []*Inline
	plainStart := lo
	for pos := lo; pos < hi; {
		c := p.text[pos]
		if c == '[' {
			if m, ok := p.matchExtras(pos, hi); ok {
				node, err := p.extrasNode(m)
				if err != nil {
					return nil, err
				}
				nodes = appendText(nodes, p.text[plainStart:pos])
				nodes = append(nodes, node)
				pos = m.end
				plainStart = pos
				continue
			}
		}
		if kind := emphasisKind(c); kind != 0 && p.canOpenEmphasis(pos, lo, hi) {
			if end := p.findEmphasisCloser(pos, hi); end >= 0 {
				node := &Inline{Kind: kind}
				if kind == VerbatimKind || kind == CodeKind {
					node.Children = []*Inline{{Kind: TextKind, Text: p.text[pos+1 : end]}}
				} else {
					var err error
					node.Children, err = p.parse(pos+1, end)
					if err != nil {
						return nil, err
					}
				}
				nodes = appendText(nodes, p.text[plainStart:pos])
				nodes = append(nodes, node)
				pos = end + 1
				plainStart = pos
				continue
			}
		}
		pos++
	}
	return appendText(nodes, p.text[plainStart:hi]), nil
}

func appendText(nodes []*Inline, s string) []*Inline {
	if s == "" {
		return nodes
	}
	return append(nodes, &Inline{Kind: TextKind, Text: s})
}

func emphasisKind(c byte) InlineKind {
	switch c {
	case '*':
		return BoldKind
	case '/':
		return ItalicKind
	case '_':
		return UnderlineKind
	case '=':
		return VerbatimKind
	case '~':
		return CodeKind
	case '+':
		return StrikethroughKind
	default:
		return 0
	}
}

// canOpenEmphasis reports whether the marker at text[pos]
// is at a word boundary and directly followed by content.
func (p *inlineParser) canOpenEmphasis(pos, lo, hi int) bool {
	if pos > lo {
		prev, _ := utf8.DecodeLastRuneInString(p.text[lo:pos])
		if !unicode.IsSpace(prev) && !strings.ContainsRune(emphasisPre, prev) {
			return false
		}
	}
	if pos+1 >= hi {
		return false
	}
	next, _ := utf8.DecodeRuneInString(p.text[pos+1 : hi])
	return !unicode.IsSpace(next)
}

// findEmphasisCloser returns the position of the marker
// that closes the emphasis opened at text[start],
// or -1 if there is none before hi.
// Links and footnotes are skipped as a whole,
// so a marker inside a link target never closes emphasis.
func (p *inlineParser) findEmphasisCloser(start, hi int) int {
	marker := p.text[start]
	failed := p.noCloser[marker]
	p.visited = p.visited[:0]
	for pos := start + 1; pos < hi; pos = p.skip(pos, hi) {
		if failed != nil && failed[pos] == hi+1 {
			break
		}
		if pos == start+1 {
			continue
		}
		if p.text[pos] == marker && p.canCloseEmphasis(pos, hi) {
			return pos
		}
		p.visited = append(p.visited, pos)
	}
	if len(p.visited) > 0 {
		if failed == nil {
			failed = make([]int, len(p.text))
			if p.noCloser == nil {
				p.noCloser = make(map[byte][]int)
			}
			p.noCloser[marker] = failed
		}
		for _, pos := range p.visited {
			failed[pos] = hi + 1
		}
	}
	return -1
}

// skip returns the position after text[pos],
// stepping over a whole link or footnote.
func (p *inlineParser) skip(pos, hi int) int {
	if p.text[pos] == '[' {
		if m, ok := p.matchExtras(pos, hi); ok {
			return m.end
		}
	}
	return pos + 1
}

func (p *inlineParser) canCloseEmphasis(pos, hi int) bool {
	prev, _ := utf8.DecodeLastRuneInString(p.text[:pos])
	if unicode.IsSpace(prev) {
		return false
	}
	if pos+1 >= hi {
		return true
	}
	next, _ := utf8.DecodeRuneInString(p.text[pos+1 : hi])
	return unicode.IsSpace(next) || strings.ContainsRune(emphasisPost, next)
}

// extrasMatch describes a link or footnote found by [inlineParser.matchExtras].
// Ranges are byte offsets into the line.
type extrasMatch struct {
	kind InlineKind
	end  int

	target     string // link target
	labelStart int    // link label, empty if the link has none
	labelEnd   int
	name       string // footnote name
	bodyStart  int    // footnote definition
	bodyEnd    int
	ref        bool // footnote reference without a definition
}

// matchExtras matches a link ("[[target][label]]" or "[[target]]")
// or a footnote ("[fn:name:body]", "[fn::body]" or "[fn:name]")
// starting at text[start] and ending before hi.
func (p *inlineParser) matchExtras(start, hi int) (extrasMatch, bool) {
	rest := p.text[start:hi]
	switch {
	case strings.HasPrefix(rest, "[["):
		targetEnd := strings.IndexAny(rest[2:], "[]")
		if targetEnd <= 0 {
			return extrasMatch{}, false
		}
		m := extrasMatch{
			kind:   LinkKind,
			target: rest[2 : 2+targetEnd],
		}
		after := rest[2+targetEnd:]
		switch {
		case strings.HasPrefix(after, "]]"):
			m.end = start + 2 + targetEnd + 2
			return m, true
		case strings.HasPrefix(after, "]["):
			labelStart := start + 2 + targetEnd + 2
			labelEnd := p.linkEnd[labelStart]
			if labelEnd <= labelStart || labelEnd+2 > hi {
				return extrasMatch{}, false
			}
			m.labelStart, m.labelEnd = labelStart, labelEnd
			m.end = labelEnd + 2
			return m, true
		default:
			return extrasMatch{}, false
		}
	case strings.HasPrefix(rest, "[fn:"):
		nameEnd := strings.IndexAny(rest[4:], ":] \t[")
		if nameEnd < 0 {
			return extrasMatch{}, false
		}
		m := extrasMatch{
			kind: FootnoteKind,
			name: rest[4 : 4+nameEnd],
		}
		switch rest[4+nameEnd] {
		case ']':
			if m.name == "" {
				return extrasMatch{}, false
			}
			m.ref = true
			m.end = start + 4 + nameEnd + 1
			return m, true
		case ':':
			bodyStart := start + 4 + nameEnd + 1
			bodyEnd := p.match[start]
			if bodyEnd < 0 || bodyEnd >= hi || strings.TrimSpace(p.text[bodyStart:bodyEnd]) == "" {
				return extrasMatch{}, false
			}
			m.bodyStart, m.bodyEnd = bodyStart, bodyEnd
			m.end = bodyEnd + 1
			return m, true
		default:
			return extrasMatch{}, false
		}
	default:
		return extrasMatch{}, false
	}
}

// extrasNode builds the inline node for the match,
// parsing any nested content.
func (p *inlineParser) extrasNode(m extrasMatch) (*Inline, error) {
	switch m.kind {
	case LinkKind:
		node := &Inline{Kind: LinkKind, Text: m.target}
		if m.labelStart == m.labelEnd {
			node.Children = []*Inline{{Kind: TextKind, Text: m.target}}
			return node, nil
		}
		var err error
		node.Children, err = p.parse(m.labelStart, m.labelEnd)
		if err != nil {
			return nil, err
		}
		return node, nil
	case FootnoteKind:
		if m.ref {
			return nil, &UnsupportedError{Construct: "reference to footnote " + m.name}
		}
		node := &Inline{Kind: FootnoteKind, Name: m.name}
		var err error
		node.Children, err = p.parse(m.bodyStart, m.bodyEnd)
		if err != nil {
			return nil, err
		}
		return node, nil
	default:
		panic("unreachable")
	}
}
