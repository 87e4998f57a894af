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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/m4tsa/nuko/highlight"
	"github.com/m4tsa/nuko/internal/examples"
	"github.com/m4tsa/nuko/internal/normhtml"
	"github.com/m4tsa/nuko/toc"
)

func TestExamples(t *testing.T) {
	suite, err := examples.Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, ex := range suite {
		t.Run(fmt.Sprintf("Example%d", ex.Example), func(t *testing.T) {
			doc, err := Parse(ex.Org)
			if err != nil {
				t.Fatalf("Parse(%q): %v", ex.Org, err)
			}
			want := normhtml.NormalizeString(ex.HTML)

			res, err := new(HTMLRenderer).Render(doc)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if diff := cmp.Diff(want, normhtml.NormalizeString(res.HTML)); diff != "" {
				t.Errorf("Render of %s example (-want +got):\n%s", ex.Section, diff)
			}

			res, err = new(HTMLRenderer).RenderEvents(Events(doc))
			if err != nil {
				t.Fatalf("RenderEvents: %v", err)
			}
			if diff := cmp.Diff(want, normhtml.NormalizeString(res.HTML)); diff != "" {
				t.Errorf("RenderEvents of %s example (-want +got):\n%s", ex.Section, diff)
			}
		})
	}
}

const richDocument = `#+TITLE: Rich
intro with a note[fn::first *note*]
* TODO Setup
- step one
  - detail
- step two[fn::second]
** Details
see [[/about][about]] and [[https://example.com][elsewhere]]
** Details
#+BEGIN_SRC
a < b
#+END_SRC
* DONE Wrap up
done`

func TestRenderIdempotent(t *testing.T) {
	doc, err := Parse(richDocument)
	if err != nil {
		t.Fatal(err)
	}
	r := &HTMLRenderer{BaseURL: "https://nuko.example/"}
	res1, err := r.Render(doc)
	if err != nil {
		t.Fatal(err)
	}
	res2, err := r.Render(doc)
	if err != nil {
		t.Fatal(err)
	}
	if res1.HTML != res2.HTML {
		t.Errorf("second Render = %q; want %q", res2.HTML, res1.HTML)
	}
	if diff := cmp.Diff(res1.TOC.Entries(), res2.TOC.Entries()); diff != "" {
		t.Errorf("second Render TOC (-first +second):\n%s", diff)
	}

	res3, err := r.RenderEvents(Events(doc))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(res1.HTML, res3.HTML); diff != "" {
		t.Errorf("RenderEvents (-Render +RenderEvents):\n%s", diff)
	}
}

func TestRenderFootnotes(t *testing.T) {
	doc, err := Parse(richDocument)
	if err != nil {
		t.Fatal(err)
	}
	res, err := RenderHTML(doc)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 2; i++ {
		ref := fmt.Sprintf(`<sup><a href="#fn%d" id="fns%d">%d</a></sup>`, i, i, i)
		if n := strings.Count(res.HTML, ref); n != 1 {
			t.Errorf("HTML contains %d copies of %s; want 1", n, ref)
		}
	}
	first := strings.Index(res.HTML, `<li id="fn1"><p>first <b>note</b>  <a href="#fns1">`)
	second := strings.Index(res.HTML, `<li id="fn2"><p>second  <a href="#fns2">`)
	if first < 0 || second < 0 || second < first {
		t.Errorf("footnotes out of order or missing in:\n%s", res.HTML)
	}
	if !strings.HasSuffix(res.HTML, "</ol></section>") {
		t.Errorf("HTML does not end with the footnotes section:\n%s", res.HTML)
	}
	if strings.Count(res.HTML, `<section id="footnotes">`) != 1 {
		t.Errorf("HTML has more than one footnotes section:\n%s", res.HTML)
	}
}

func TestRenderNoFootnotes(t *testing.T) {
	doc, err := Parse("* Plain\ntext")
	if err != nil {
		t.Fatal(err)
	}
	res, err := RenderHTML(doc)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.HTML, "footnotes") {
		t.Errorf("HTML = %q; want no footnotes section", res.HTML)
	}
}

func TestRenderTOC(t *testing.T) {
	doc, err := Parse(richDocument)
	if err != nil {
		t.Fatal(err)
	}
	res, err := RenderHTML(doc)
	if err != nil {
		t.Fatal(err)
	}
	want := []*toc.Entry{
		{Number: 1, Slug: "setup", Text: "Setup", Entries: []*toc.Entry{
			{Number: 1, Slug: "details", Text: "Details"},
			{Number: 2, Slug: "details1", Text: "Details"},
		}},
		{Number: 2, Slug: "wrapup", Text: "Wrap up"},
	}
	if diff := cmp.Diff(want, res.TOC.Entries()); diff != "" {
		t.Errorf("TOC (-want +got):\n%s", diff)
	}
	for _, id := range []string{"setup", "details", "details1", "wrapup"} {
		if !strings.Contains(res.HTML, `id="`+id+`"`) {
			t.Errorf("HTML missing heading id %q", id)
		}
	}
}

func TestRenderHeadlineWithoutText(t *testing.T) {
	doc, err := Parse("* TODO\n* !!!\n* Hello World\n* Hello World")
	if err != nil {
		t.Fatal(err)
	}
	res, err := RenderHTML(doc)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`<h1 id="section"><a href="#section"><span class="todo">TODO</span> `,
		`<h1 id="section1"><a href="#section1">!!!</a></h1>`,
		`<h1 id="helloworld"><a href="#helloworld">Hello World</a></h1>`,
		`<h1 id="helloworld1"><a href="#helloworld1">Hello World</a></h1>`,
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML = %q; want it to contain %q", res.HTML, want)
		}
	}
	if strings.Contains(res.HTML, `id=""`) {
		t.Errorf("HTML = %q; contains an empty id", res.HTML)
	}
}

func TestRenderLinks(t *testing.T) {
	tests := []struct {
		baseURL string
		input   string
		want    string
	}{
		{"", "[[/about][a]]", `<p><a href="/about">a</a></p>`},
		{"https://nuko.example", "[[/about][a]]", `<p><a href="https://nuko.example/about">a</a></p>`},
		{"https://nuko.example/", "[[/about][a]]", `<p><a href="https://nuko.example/about">a</a></p>`},
		{"https://nuko.example/", "[[https://b.example/x y][b]]", `<p><a href="https://b.example/x%20y" rel="noreferrer noopener">b</a></p>`},
		{"", `[[https://b.example/?q="x"&r=1][c]]`, `<p><a href="https://b.example/?q=%22x%22&amp;r=1" rel="noreferrer noopener">c</a></p>`},
	}
	for _, test := range tests {
		doc, err := Parse(test.input)
		if err != nil {
			t.Errorf("Parse(%q): %v", test.input, err)
			continue
		}
		r := &HTMLRenderer{BaseURL: test.baseURL}
		res, err := r.Render(doc)
		if err != nil {
			t.Errorf("Render(%q) with BaseURL %q: %v", test.input, test.baseURL, err)
			continue
		}
		if res.HTML != test.want {
			t.Errorf("Render(%q) with BaseURL %q = %q; want %q", test.input, test.baseURL, res.HTML, test.want)
		}
	}
}

func TestRenderUnsupportedFootnotes(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{
			name: "Named",
			doc: &Document{Content: []*Block{
				section(nil, text("a"), &Inline{
					Kind:     FootnoteKind,
					Name:     "n",
					Children: []*Inline{text("body")},
				}),
			}},
		},
		{
			name: "Nested",
			doc: &Document{Content: []*Block{
				section(nil, text("a"), span(FootnoteKind,
					text("outer"),
					span(FootnoteKind, text("inner")),
				)),
			}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if res, err := new(HTMLRenderer).Render(test.doc); !errors.Is(err, ErrUnsupported) {
				t.Errorf("Render(...) = %v, %v; want %v", res, err, ErrUnsupported)
			}
			if res, err := new(HTMLRenderer).RenderEvents(Events(test.doc)); !errors.Is(err, ErrUnsupported) {
				t.Errorf("RenderEvents(...) = %v, %v; want %v", res, err, ErrUnsupported)
			}
		})
	}
}

func TestRenderEventsUnbalanced(t *testing.T) {
	doc := &Document{Content: []*Block{
		section(nil, span(FootnoteKind, text("x"))),
	}}
	events := Events(doc)
	if _, err := new(HTMLRenderer).RenderEvents(events[:len(events)-2]); err == nil {
		t.Error("RenderEvents with unterminated footnote did not return an error")
	}
}

func TestRenderHighlighted(t *testing.T) {
	h, err := highlight.New("", highlight.Config{})
	if err != nil {
		t.Fatal(err)
	}
	r := &HTMLRenderer{Highlighter: h}

	doc, err := Parse("=x= and ~y~\n#+BEGIN_SRC go\npackage main\n#+END_SRC")
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Render(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.HTML, "<p><code>x</code> and <code>y</code></p>") {
		t.Errorf("HTML = %q; want verbatim and code wrapped in <code>", res.HTML)
	}
	const pre = `<pre class="code">`
	i := strings.Index(res.HTML, pre)
	if i < 0 || !strings.Contains(res.HTML[i:], "package") || !strings.HasSuffix(res.HTML, "</pre>") {
		t.Errorf("HTML = %q; want highlighted code inside %s", res.HTML, pre)
	}
	if strings.Contains(res.HTML[i+len(pre):], "<pre") {
		t.Errorf("HTML = %q; highlighted code has a nested <pre>", res.HTML)
	}

	doc, err = Parse("#+BEGIN_SRC no-such-language\nx\n#+END_SRC")
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Render(doc)
	if unknown := new(highlight.UnknownSyntaxError); !errors.As(err, &unknown) || unknown.Name != "no-such-language" {
		t.Errorf("Render of unknown language: %v; want %T", err, unknown)
	}
}

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		s    string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{`<a href="x">'&'</a>`, "&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;&lt;/a&gt;"},
	}
	for _, test := range tests {
		if got := string(escapeHTML(nil, test.s)); got != test.want {
			t.Errorf("escapeHTML(nil, %q) = %q; want %q", test.s, got, test.want)
		}
	}
}

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		s    string
		want string
	}{
		{"", ""},
		{"https://example.com/a?b=c#d", "https://example.com/a?b=c#d"},
		{"a b", "a%20b"},
		{"%2f", "%2f"},
		{"%2F", "%2F"},
		{"%zz", "%25zz"},
		{"100%", "100%25"},
		{"ä", "%C3%A4"},
		{"[x]", "%5Bx%5D"},
	}
	for _, test := range tests {
		if got := NormalizeURI(test.s); got != test.want {
			t.Errorf("NormalizeURI(%q) = %q; want %q", test.s, got, test.want)
		}
	}
}
