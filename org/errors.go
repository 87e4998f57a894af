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
)

// ErrBadStart is returned when a line is parsed from a position
// that does not immediately follow a newline.
// It indicates that the parser lost track of line boundaries.
var ErrBadStart = errors.New("org: parser did not start at column 0")

// ErrUnsupported is matched by every [*UnsupportedError]
// when using [errors.Is].
var ErrUnsupported = errors.New("unsupported construct")

// RangeError is returned when a byte range falls outside the input
// or splits a UTF-8 sequence.
type RangeError struct {
	Start int
	End   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("org: substring [%d:%d] out of range", e.Start, e.End)
}

// UnsupportedError reports markup that is recognized
// but cannot be processed.
type UnsupportedError struct {
	// Construct names the markup, for example "named footnote".
	Construct string
	// Line is the 1-based line number, or zero if unknown.
	Line int
}

func (e *UnsupportedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("org: line %d: %s: %v", e.Line, e.Construct, ErrUnsupported)
	}
	return fmt.Sprintf("org: %s: %v", e.Construct, ErrUnsupported)
}

// Is reports whether target is [ErrUnsupported].
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}
