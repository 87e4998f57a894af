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

// Package normhtml normalizes HTML fragments
// so that tests can compare rendered output
// without depending on attribute quoting, attribute order,
// entity spelling or whitespace between block elements.
package normhtml

import (
	"bytes"
	"slices"
	"strings"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var textEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// NormalizeHTML returns a canonical form of an HTML fragment.
func NormalizeHTML(b []byte) []byte {
	n := &normalizer{last: html.StartTagToken}
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return n.out
		case html.TextToken:
			n.text(tok.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			n.startTag(tok)
		case html.EndTagToken:
			name, _ := tok.TagName()
			n.endTag(string(name))
		case html.CommentToken:
			n.out = append(n.out, tok.Raw()...)
		}
		n.last = tt
		if tt == html.SelfClosingTagToken {
			n.last = html.EndTagToken
		}
	}
}

// NormalizeString is [NormalizeHTML] for strings.
func NormalizeString(s string) string {
	return string(NormalizeHTML([]byte(s)))
}

type normalizer struct {
	out     []byte
	last    html.TokenType
	lastTag string
	inPre   bool
}

func (n *normalizer) text(data []byte) {
	if !n.inPre {
		data = collapseSpace(data)
		afterTag := n.last == html.StartTagToken || n.last == html.EndTagToken
		if afterTag && isBlockTag(n.lastTag) {
			if n.last == html.StartTagToken {
				data = bytes.TrimLeftFunc(data, unicode.IsSpace)
			} else {
				data = bytes.TrimSpace(data)
			}
		}
	}
	n.out = append(n.out, textEscaper.Replace(bytes.Clone(data))...)
}

func (n *normalizer) startTag(tok *html.Tokenizer) {
	name, hasAttr := tok.TagName()
	tag := string(name)
	if tag == atom.Pre.String() {
		n.inPre = true
	}
	if isBlockTag(tag) {
		n.out = bytes.TrimRightFunc(n.out, unicode.IsSpace)
	}
	n.out = append(n.out, '<')
	n.out = append(n.out, tag...)
	if hasAttr {
		var attrs []html.Attribute
		for {
			k, v, more := tok.TagAttr()
			attrs = append(attrs, html.Attribute{Key: string(k), Val: string(v)})
			if !more {
				break
			}
		}
		slices.SortFunc(attrs, func(a, b html.Attribute) int {
			return strings.Compare(a.Key, b.Key)
		})
		for _, attr := range attrs {
			n.out = append(n.out, ' ')
			n.out = append(n.out, attr.Key...)
			if attr.Val != "" {
				n.out = append(n.out, `="`...)
				n.out = append(n.out, html.EscapeString(attr.Val)...)
				n.out = append(n.out, '"')
			}
		}
	}
	n.out = append(n.out, '>')
	n.lastTag = tag
}

func (n *normalizer) endTag(tag string) {
	if tag == atom.Pre.String() {
		n.inPre = false
	} else if isBlockTag(tag) {
		n.out = bytes.TrimRightFunc(n.out, unicode.IsSpace)
	}
	n.out = append(n.out, "</"...)
	n.out = append(n.out, tag...)
	n.out = append(n.out, '>')
	n.lastTag = tag
}

// collapseSpace replaces each run of whitespace with a single space.
func collapseSpace(data []byte) []byte {
	var out []byte
	inSpace := false
	for _, c := range data {
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' {
			if !inSpace {
				out = append(out, ' ')
			}
			inSpace = true
			continue
		}
		out = append(out, c)
		inSpace = false
	}
	return out
}

var blockTags = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, a := range []atom.Atom{
		atom.Article, atom.Aside, atom.Blockquote, atom.Body,
		atom.Dd, atom.Div, atom.Dl, atom.Dt,
		atom.Figcaption, atom.Figure, atom.Footer, atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Header, atom.Hr, atom.Li, atom.Nav, atom.Ol,
		atom.P, atom.Pre, atom.Section, atom.Table, atom.Tbody,
		atom.Td, atom.Tfoot, atom.Th, atom.Thead, atom.Tr, atom.Ul,
		atom.Script, atom.Style,
	} {
		m[a.String()] = struct{}{}
	}
	return m
}()

func isBlockTag(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}
