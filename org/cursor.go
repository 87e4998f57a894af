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

import "unicode/utf8"

// cursor is a position within a UTF-8 string.
// Its only state is the byte offset.
type cursor struct {
	input  string
	offset int
}

// eof reports whether the cursor has consumed the whole input.
func (c *cursor) eof() bool {
	return c.offset >= len(c.input)
}

// peek returns the character at the cursor without consuming it.
func (c *cursor) peek() (rune, bool) {
	return c.peekAt(0)
}

// peekAt returns the character n bytes past the cursor.
// It returns false if that position is out of range
// or does not start a UTF-8 sequence.
func (c *cursor) peekAt(n int) (rune, bool) {
	i := c.offset + n
	if n < 0 || i >= len(c.input) || !utf8.RuneStart(c.input[i]) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.input[i:])
	return r, true
}

// prev returns the character immediately before the cursor.
func (c *cursor) prev() (rune, bool) {
	if c.offset == 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(c.input[:c.offset])
	return r, true
}

// next consumes and returns one character.
func (c *cursor) next() (rune, bool) {
	if c.eof() {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(c.input[c.offset:])
	c.offset += size
	return r, true
}

// advanceWhile consumes characters for as long as f returns true
// and reports how many characters were consumed.
func (c *cursor) advanceWhile(f func(rune) bool) int {
	n := 0
	for !c.eof() {
		r, size := utf8.DecodeRuneInString(c.input[c.offset:])
		if !f(r) {
			break
		}
		c.offset += size
		n++
	}
	return n
}

// advanceIf consumes r if it is the next character.
func (c *cursor) advanceIf(r rune) bool {
	if got, ok := c.peek(); !ok || got != r {
		return false
	}
	c.offset += utf8.RuneLen(r)
	return true
}

// slice returns input[start:end].
// Both offsets must lie on character boundaries within the input.
func (c *cursor) slice(start, end int) (string, error) {
	if start < 0 || end < start || end > len(c.input) ||
		!isBoundary(c.input, start) || !isBoundary(c.input, end) {
		return "", &RangeError{Start: start, End: end}
	}
	return c.input[start:end], nil
}

// restOfLine consumes up to (but not including) the next newline
// and returns the consumed text.
func (c *cursor) restOfLine() (string, error) {
	start := c.offset
	c.advanceWhile(func(r rune) bool { return r != '\n' })
	return c.slice(start, c.offset)
}

func isBoundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}
