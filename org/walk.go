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

const (
	nodeTypeDocument = 1 + iota
	nodeTypeBlock
	nodeTypeHeadline
	nodeTypeInline
	nodeTypeListItem
)

// Node is a reference to an element of a [Document]:
// the document itself, a [Block], a [Headline], an [Inline],
// or a [ListItem] of a [List].
// Nodes can be compared for equality using the == operator.
type Node struct {
	doc      *Document
	block    *Block
	headline *Headline
	inline   *Inline

	// list, level and item locate a list item in its list's arena.
	list  *List
	level int
	item  int

	typ uint8
}

// Document returns the referenced document
// or nil if the node does not reference a document.
func (n Node) Document() *Document {
	if n.typ != nodeTypeDocument {
		return nil
	}
	return n.doc
}

// Block returns the referenced block
// or nil if the node does not reference a block.
func (n Node) Block() *Block {
	if n.typ != nodeTypeBlock {
		return nil
	}
	return n.block
}

// Headline returns the referenced headline
// or nil if the node does not reference a headline.
func (n Node) Headline() *Headline {
	if n.typ != nodeTypeHeadline {
		return nil
	}
	return n.headline
}

// Inline returns the referenced inline
// or nil if the node does not reference an inline.
func (n Node) Inline() *Inline {
	if n.typ != nodeTypeInline {
		return nil
	}
	return n.inline
}

// ListItem returns the referenced list item
// or nil if the node does not reference a list item.
func (n Node) ListItem() *ListItem {
	if n.typ != nodeTypeListItem {
		return nil
	}
	return &n.list.Levels[n.level].Items[n.item]
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on the zero value returns 0.
func (n Node) ChildCount() int {
	switch n.typ {
	case nodeTypeDocument:
		return len(n.doc.Content)
	case nodeTypeBlock:
		count := len(n.block.Children)
		if n.block.Headline != nil {
			count++
		}
		return count
	case nodeTypeHeadline:
		return len(n.headline.Content)
	case nodeTypeInline:
		if n.inline.Kind == ListKind {
			return len(n.inline.List.Items())
		}
		return len(n.inline.Children)
	case nodeTypeListItem:
		item := n.ListItem()
		if item.IsSublist() {
			return len(n.list.Levels[item.Sublist].Items)
		}
		return len(item.Content)
	default:
		return 0
	}
}

// Child returns the i'th child of the node.
// The headline of a section is its first child.
// The children of a list are its outermost items
// and the children of a sublist item are the items of the nested level.
func (n Node) Child(i int) Node {
	switch n.typ {
	case nodeTypeDocument:
		return n.doc.Content[i].AsNode()
	case nodeTypeBlock:
		if h := n.block.Headline; h != nil {
			if i == 0 {
				return h.AsNode()
			}
			i--
		}
		return n.block.Children[i].AsNode()
	case nodeTypeHeadline:
		return n.headline.Content[i].AsNode()
	case nodeTypeInline:
		if n.inline.Kind == ListKind {
			return listItemNode(n.inline.List, 0, i)
		}
		return n.inline.Children[i].AsNode()
	case nodeTypeListItem:
		item := n.ListItem()
		if item.IsSublist() {
			return listItemNode(n.list, item.Sublist, i)
		}
		return item.Content[i].AsNode()
	default:
		panic("Child on nil Node")
	}
}

func listItemNode(list *List, level, item int) Node {
	return Node{
		typ:   nodeTypeListItem,
		list:  list,
		level: level,
		item:  item,
	}
}

// AsNode converts the document to a [Node].
func (doc *Document) AsNode() Node {
	if doc == nil {
		return Node{}
	}
	return Node{typ: nodeTypeDocument, doc: doc}
}

// AsNode converts the block to a [Node].
func (b *Block) AsNode() Node {
	if b == nil {
		return Node{}
	}
	return Node{typ: nodeTypeBlock, block: b}
}

// AsNode converts the headline to a [Node].
func (h *Headline) AsNode() Node {
	if h == nil {
		return Node{}
	}
	return Node{typ: nodeTypeHeadline, headline: h}
}

// AsNode converts the inline node to a [Node].
func (inline *Inline) AsNode() Node {
	if inline == nil {
		return Node{}
	}
	return Node{typ: nodeTypeInline, inline: inline}
}

// A Cursor describes a [Node] encountered during [Walk].
type Cursor struct {
	node   Node
	parent Node
}

// Node returns the current [Node].
func (c *Cursor) Node() Node {
	return c.node
}

// Parent returns the parent of the current [Node]
// (as returned by [*Cursor.Node]).
func (c *Cursor) Parent() Node {
	return c.parent
}

// WalkOptions is the set of parameters to [Walk].
type WalkOptions struct {
	// If Pre is not nil, it is called for each node before the node's children are traversed (pre-order).
	// If Pre returns false, no children are traversed, and Post is not called for that node.
	Pre func(c *Cursor) bool
	// If Post is not nil, it is called for each node after the node's children are traversed (post-order).
	// If Post returns false, traversal is terminated and Walk returns immediately.
	Post func(c *Cursor) bool
}

// Walk traverses a [Node] recursively, starting with root,
// and calling [WalkOptions.Pre] and [WalkOptions.Post].
// Nodes are visited in document order.
func Walk(root Node, opts *WalkOptions) {
	type walkFrame struct {
		node   Node
		parent Node
		post   bool
	}

	stack := []walkFrame{{node: root}}
	cursor := new(Cursor)
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr.post {
			if opts.Post != nil {
				cursor.node = curr.node
				cursor.parent = curr.parent
				if !opts.Post(cursor) {
					break
				}
			}
			continue
		}

		if opts.Pre != nil {
			cursor.node = curr.node
			cursor.parent = curr.parent
			if !opts.Pre(cursor) {
				continue
			}
		}
		curr.post = true
		stack = append(stack, curr)
		for i := curr.node.ChildCount() - 1; i >= 0; i-- {
			stack = append(stack, walkFrame{
				parent: curr.node,
				node:   curr.node.Child(i),
			})
		}
	}
}
