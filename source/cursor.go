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

// Cursor is a movable position in a [File].
//
// Moving a cursor wraps across line boundaries, skipping over empty lines,
// and saturates at the start and end of the buffer. Cursors are small values
// and may be copied freely.
type Cursor struct {
	file      *File
	line, col int
}

// NewCursor returns a cursor at p. A position just past the end of a line is
// normalized to the start of the next non-empty line, and a column of -1 to
// the last character of the previous non-empty line.
func NewCursor(f *File, p Position) Cursor {
	c := Cursor{file: f, line: p.Line, col: p.Col}
	c.wrapForward()
	c.wrapBackward()
	return c
}

// Pos returns the cursor's current position.
func (c Cursor) Pos() Position {
	return Position{Line: c.line, Col: c.col}
}

// Char returns the character under the cursor, or 0 if the cursor does not
// sit on a character.
func (c Cursor) Char() rune {
	r, _ := c.file.Char(c.Pos())
	return r
}

// EOF returns whether the cursor is at or past the end of the buffer.
func (c Cursor) EOF() bool {
	n := c.file.LineCount()
	return c.line >= n && c.col >= c.file.LineLen(n)
}

// BOF returns whether the cursor is at or before the start of the buffer.
func (c Cursor) BOF() bool {
	return c.line < 1 || (c.line == 1 && c.col <= 0)
}

// Inc moves forward by one character. It returns false if the cursor was
// already at the end of the buffer.
func (c *Cursor) Inc() bool {
	if c.EOF() {
		return false
	}
	c.col++
	c.wrapForward()
	return true
}

// Dec moves backward by one character. It returns false if the cursor was
// already at the start of the buffer.
func (c *Cursor) Dec() bool {
	if c.BOF() {
		return false
	}
	c.col--
	c.wrapBackward()
	return true
}

func (c *Cursor) wrapForward() {
	for c.line >= 1 && c.line <= c.file.LineCount() &&
		c.col == c.file.LineLen(c.line) && !c.EOF() {
		c.col = 0
		c.line++
	}
}

func (c *Cursor) wrapBackward() {
	for c.col == -1 && c.line > 1 {
		c.line--
		c.col = c.file.LineLen(c.line) - 1
	}
}

// IsWhitespace reports whether r is skipped when trimming spans. A
// backslash counts, since it can only appear outside tokens as a line
// continuation.
func IsWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\f', '\r', '\\':
		return true
	default:
		return false
	}
}

// PositionBetween trims whitespace and continuations inward from both
// bounds of [p1, p2). The bounds are swapped if inverted.
//
// If the trimmed bounds coincide, the raw bounds are returned. If trimming
// crosses over, the result collapses to an empty region at the trimmed
// start.
func PositionBetween(f *File, p1, p2 Position) (Position, Position) {
	if p2.Before(p1) {
		p1, p2 = p2, p1
	}
	lo, hi := NewCursor(f, p1), NewCursor(f, p2)

	start := NewCursor(f, p1)
	for start.Pos().Before(hi.Pos()) && IsWhitespace(start.Char()) {
		if !start.Inc() {
			break
		}
	}
	end := NewCursor(f, p2.Shift(-1))
	for end.Pos().After(lo.Pos()) && IsWhitespace(end.Char()) {
		if !end.Dec() {
			break
		}
	}
	if end.Pos().After(lo.Pos()) {
		end.Inc()
	}

	switch s, e := start.Pos(), end.Pos(); {
	case s == e:
		return p1, p2
	case s.After(e):
		return s, s
	default:
		return s, e
	}
}

// FindNextCharacter skips whitespace starting at pos and reports whether the
// next character is ch, along with its bounds.
func FindNextCharacter(f *File, pos Position, ch rune) (first, last Position, ok bool) {
	c := NewCursor(f, pos)
	for !c.EOF() && IsWhitespace(c.Char()) {
		c.Inc()
	}
	if c.EOF() || c.Char() != ch {
		return Position{}, Position{}, false
	}
	return c.Pos(), c.Pos().Shift(1), true
}

// FindNextComma is [FindNextCharacter] for ','.
func FindNextComma(f *File, pos Position) (first, last Position, ok bool) {
	return FindNextCharacter(f, pos, ',')
}

// FindNextColon is [FindNextCharacter] for ':'.
func FindNextColon(f *File, pos Position) (first, last Position, ok bool) {
	return FindNextCharacter(f, pos, ':')
}

// FindNextEqual is [FindNextCharacter] for '='.
func FindNextEqual(f *File, pos Position) (first, last Position, ok bool) {
	return FindNextCharacter(f, pos, '=')
}

// PairLookup finds the innermost bracket pair opening strictly before a
// position. It returns the opening position and the end of the closing
// bracket.
type PairLookup interface {
	FindPrevious(q Position) (open Position, closeEnd Position, ok bool)
}

// FindInBetween returns the pair from pairs that opens strictly before pos
// and closes strictly after it.
func FindInBetween(pos Position, pairs PairLookup) (open, closeEnd Position, ok bool) {
	open, closeEnd, ok = pairs.FindPrevious(pos)
	if !ok || !open.Before(pos) || !pos.Before(closeEnd) {
		return Position{}, Position{}, false
	}
	return open, closeEnd, true
}

// FindNextParenthesis reports whether only whitespace, and at most one
// trailing comma, separates pos from the closing bracket of the pair
// enclosing it. If so, it returns the end of that closing bracket.
func FindNextParenthesis(f *File, pos Position, pairs PairLookup) (Position, bool) {
	_, closeEnd, ok := FindInBetween(pos, pairs)
	if !ok {
		return Position{}, false
	}
	closing := NewCursor(f, closeEnd.Shift(-1))
	end := NewCursor(f, pos)
	comma := false
	for end.Pos().Before(closing.Pos()) && !end.EOF() {
		switch r := end.Char(); {
		case IsWhitespace(r):
		case r == ',' && !comma:
			comma = true
		default:
			return Position{}, false
		}
		end.Inc()
	}
	if end.Pos() != closing.Pos() {
		return Position{}, false
	}
	return closing.Pos().Shift(1), true
}
