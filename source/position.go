// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"cmp"
	"fmt"
)

// Position is a location in a source file. Line is 1-based and Col is the
// 0-based offset, in code points, into that line.
//
// Positions are ordered lexicographically: first by line, then by column.
// The zero Position sorts before every position inside a file and is used
// as the span of an empty module.
type Position struct {
	Line, Col int
}

// Pos is a shorthand for constructing a [Position].
func Pos(line, col int) Position {
	return Position{Line: line, Col: col}
}

// Compare returns -1, 0, or 1 depending on whether p sorts before, equal to,
// or after q.
func (p Position) Compare(q Position) int {
	if c := cmp.Compare(p.Line, q.Line); c != 0 {
		return c
	}
	return cmp.Compare(p.Col, q.Col)
}

// Before returns whether p sorts strictly before q.
func (p Position) Before(q Position) bool {
	return p.Compare(q) < 0
}

// After returns whether p sorts strictly after q.
func (p Position) After(q Position) bool {
	return p.Compare(q) > 0
}

// Shift returns p moved by cols columns on the same line. It performs no
// wrapping; use a [Cursor] to move across line boundaries.
func (p Position) Shift(cols int) Position {
	return Position{Line: p.Line, Col: p.Col + cols}
}

// Add offsets p by a line and column delta. The column delta only applies
// when the line delta lands on the first line of the offset region, which
// is how positions of a nested token stream are translated into the
// enclosing buffer.
func (p Position) Add(dline, dcol int) Position {
	if p.Line == 1 {
		return Position{Line: p.Line + dline, Col: p.Col + dcol}
	}
	return Position{Line: p.Line + dline, Col: p.Col}
}

// Sub returns the componentwise difference p - q.
func (p Position) Sub(q Position) Position {
	return Position{Line: p.Line - q.Line, Col: p.Col - q.Col}
}

// IsZero returns whether this is the zero position.
func (p Position) IsZero() bool {
	return p == Position{}
}

// String implements [fmt.Stringer].
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// MinPos returns the lesser of two positions.
func MinPos(a, b Position) Position {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxPos returns the greater of two positions.
func MaxPos(a, b Position) Position {
	if b.After(a) {
		return b
	}
	return a
}

// Range is a half-open region [First, Last) of a file.
type Range struct {
	First, Last Position
}

// Contains returns whether other lies entirely within r.
func (r Range) Contains(other Range) bool {
	return r.First.Compare(other.First) <= 0 && other.Last.Compare(r.Last) <= 0
}

// IsEmpty returns whether r covers no characters.
func (r Range) IsEmpty() bool {
	return r.First.Compare(r.Last) >= 0
}

// String implements [fmt.Stringer].
func (r Range) String() string {
	return fmt.Sprintf("%v-%v", r.First, r.Last)
}
