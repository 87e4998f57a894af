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

import "fmt"

// An Event is one step of a flattened document traversal.
// Every node produces a [StartEvent] followed by the events of its children
// and a matching [EndEvent].
type Event struct {
	Kind   EventKind
	Node   Node
	Parent Node
}

// EventKind is an enumeration of values in [Event.Kind].
type EventKind uint8

const (
	StartEvent EventKind = 1 + iota
	EndEvent
)

func (kind EventKind) String() string {
	switch kind {
	case StartEvent:
		return "StartEvent"
	case EndEvent:
		return "EndEvent"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(kind))
	}
}

// Events returns the event stream of a document in document order.
// The stream does not include events for the document node itself.
func Events(doc *Document) []Event {
	var events []Event
	root := doc.AsNode()
	Walk(root, &WalkOptions{
		Pre: func(c *Cursor) bool {
			if c.Node() != root {
				events = append(events, Event{Kind: StartEvent, Node: c.Node(), Parent: c.Parent()})
			}
			return true
		},
		Post: func(c *Cursor) bool {
			if c.Node() != root {
				events = append(events, Event{Kind: EndEvent, Node: c.Node(), Parent: c.Parent()})
			}
			return true
		},
	})
	return events
}
