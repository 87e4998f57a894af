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

package org_test

import (
	"fmt"

	"github.com/m4tsa/nuko/org"
)

func Example() {
	doc, err := org.Parse("* Hello\nThis is *org*.\n")
	if err != nil {
		panic(err)
	}
	res, err := org.RenderHTML(doc)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.HTML)
	// Output:
	// <h1 id="hello"><a href="#hello">Hello</a></h1><p>This is <b>org</b>.</p>
}

func ExampleHTMLRenderer_RenderEvents() {
	doc, err := org.Parse("Text with a note.[fn::The note.]")
	if err != nil {
		panic(err)
	}
	r := new(org.HTMLRenderer)
	res, err := r.RenderEvents(org.Events(doc))
	if err != nil {
		panic(err)
	}
	fmt.Println(res.HTML)
	// Output:
	// <p>Text with a note.<sup><a href="#fn1" id="fns1">1</a></sup></p><section id="footnotes"><hr><ol><li id="fn1"><p>The note.  <a href="#fns1">↵</a></p></li></ol></section>
}

func ExampleWalk() {
	doc, err := org.Parse("* One\n** Two\n* Three")
	if err != nil {
		panic(err)
	}
	org.Walk(doc.AsNode(), &org.WalkOptions{
		Pre: func(c *org.Cursor) bool {
			if h := c.Node().Headline(); h != nil {
				fmt.Println(h.Level, org.PlainText(h.Content))
			}
			return true
		},
	})
	// Output:
	// 1 One
	// 2 Two
	// 1 Three
}
