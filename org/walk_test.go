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
	"testing"

	"github.com/google/go-cmp/cmp"
)

// describe returns a short label for a node.
func describe(n Node) string {
	switch {
	case n.Document() != nil:
		return "doc"
	case n.Block() != nil:
		return n.Block().Kind.String()
	case n.Headline() != nil:
		return "headline"
	case n.Inline() != nil:
		if n.Inline().Kind == TextKind {
			return n.Inline().Text
		}
		return n.Inline().Kind.String()
	case n.ListItem() != nil:
		if n.ListItem().IsSublist() {
			return "sublist"
		}
		return "item"
	default:
		return "nil"
	}
}

func TestWalk(t *testing.T) {
	doc, err := Parse("# c\n* Head\na *b*\n- x\n  - y\n")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	Walk(doc.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			got = append(got, "+"+describe(c.Node()))
			return true
		},
		Post: func(c *Cursor) bool {
			got = append(got, "-"+describe(c.Node()))
			return true
		},
	})
	want := []string{
		"+doc",
		"+CommentKind", "-CommentKind",
		"+SectionKind",
		"+headline", "+Head", "-Head", "-headline",
		"+a ", "-a ",
		"+BoldKind", "+b", "-b", "-BoldKind",
		"+ListKind",
		"+item", "+x", "-x", "-item",
		"+sublist", "+item", "+y", "-y", "-item", "-sublist",
		"-ListKind",
		"-SectionKind",
		"-doc",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk order (-want +got):\n%s", diff)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	doc, err := Parse("*a* b\n* Head")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	Walk(doc.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			got = append(got, describe(c.Node()))
			return c.Node().Block() == nil
		},
	})
	want := []string{"doc", "SectionKind", "SectionKind"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk with skipped blocks (-want +got):\n%s", diff)
	}
}

func TestWalkStop(t *testing.T) {
	doc, err := Parse("a\nb\nc")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	Walk(doc.AsNode(), &WalkOptions{
		Post: func(c *Cursor) bool {
			got = append(got, describe(c.Node()))
			return c.Node().Inline() == nil || c.Node().Inline().Text != "b"
		},
	})
	want := []string{"a", "NewlineKind", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk stopped at b (-want +got):\n%s", diff)
	}
}

func TestNodeAccessors(t *testing.T) {
	var zero Node
	if zero.Document() != nil || zero.Block() != nil || zero.Headline() != nil ||
		zero.Inline() != nil || zero.ListItem() != nil {
		t.Error("zero Node has a non-nil accessor")
	}
	if n := zero.ChildCount(); n != 0 {
		t.Errorf("Node{}.ChildCount() = %d; want 0", n)
	}
	if got := (*Inline)(nil).AsNode(); got != zero {
		t.Errorf("(*Inline)(nil).AsNode() = %+v; want zero Node", got)
	}

	inline := text("x")
	if inline.AsNode() != inline.AsNode() {
		t.Error("AsNode of the same inline is not equal to itself")
	}
	if inline.AsNode() == text("x").AsNode() {
		t.Error("AsNode of distinct inlines compare equal")
	}
}

func TestEvents(t *testing.T) {
	doc, err := Parse(richDocument)
	if err != nil {
		t.Fatal(err)
	}
	events := Events(doc)
	if len(events) == 0 {
		t.Fatal("Events returned no events")
	}
	var stack []Node
	for i, ev := range events {
		if ev.Node.Document() != nil {
			t.Errorf("events[%d] is for the document node", i)
		}
		switch ev.Kind {
		case StartEvent:
			if len(stack) > 0 && ev.Parent != stack[len(stack)-1] {
				t.Errorf("events[%d] parent = %s; want %s", i, describe(ev.Parent), describe(stack[len(stack)-1]))
			}
			stack = append(stack, ev.Node)
		case EndEvent:
			if len(stack) == 0 || stack[len(stack)-1] != ev.Node {
				t.Fatalf("events[%d] ends %s, which is not open", i, describe(ev.Node))
			}
			stack = stack[:len(stack)-1]
		default:
			t.Errorf("events[%d].Kind = %v", i, ev.Kind)
		}
	}
	if len(stack) != 0 {
		t.Errorf("%d nodes left open at end of events", len(stack))
	}
	if got, want := len(Events(nil)), 0; got != want {
		t.Errorf("len(Events(nil)) = %d; want %d", got, want)
	}
}
