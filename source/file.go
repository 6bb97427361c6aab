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
	"strings"
	"unicode/utf8"

	"golang.org/x/exp/utf8string"
)

// File is a line-indexed source buffer.
//
// Lines are split on "\n" and stored without their terminator; a file that
// ends in a newline therefore has a trailing empty line. Columns index code
// points, not bytes.
//
// Files are immutable once created. A nil *File behaves like an empty file
// with the path name "".
type File struct {
	path, text string
	// Each line is indexed by code point. ASCII lines index directly.
	lines []*utf8string.String
}

// NewFile constructs a new source file.
func NewFile(path, text string) *File {
	split := strings.Split(text, "\n")
	lines := make([]*utf8string.String, len(split))
	for i, line := range split {
		lines[i] = utf8string.NewString(line)
	}
	return &File{path: path, text: text, lines: lines}
}

// Path returns this file's path. It does not need to be a real path.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Text returns this file's textual contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// LineCount returns the number of lines in the buffer. This is always at
// least one for a non-nil file.
func (f *File) LineCount() int {
	if f == nil {
		return 0
	}
	return len(f.lines)
}

// Line returns the given 1-indexed line without its newline, or "" if out
// of range.
func (f *File) Line(line int) string {
	if l := f.line(line); l != nil {
		return l.String()
	}
	return ""
}

// LineLen returns the length of the given line in code points.
func (f *File) LineLen(line int) int {
	if l := f.line(line); l != nil {
		return l.RuneCount()
	}
	return 0
}

// Char returns the character at p, if p lies within a line.
func (f *File) Char(p Position) (rune, bool) {
	line := f.line(p.Line)
	if line == nil || p.Col < 0 || p.Col >= line.RuneCount() {
		return 0, false
	}
	return line.At(p.Col), true
}

// HasPrefixAt returns whether the text at p starts with prefix. The match
// does not cross line boundaries.
func (f *File) HasPrefixAt(p Position, prefix string) bool {
	line := f.line(p.Line)
	if line == nil || p.Col < 0 || p.Col > line.RuneCount() {
		return false
	}
	return strings.HasPrefix(line.Slice(p.Col, line.RuneCount()), prefix)
}

// Slice returns the text between first (inclusive) and last (exclusive).
// Lines in between are joined with "\n". Out of range columns are clamped.
func (f *File) Slice(first, last Position) string {
	if f == nil || !first.Before(last) {
		return ""
	}
	if first.Line == last.Line {
		return f.slice(first.Line, first.Col, last.Col)
	}

	var buf strings.Builder
	buf.WriteString(f.slice(first.Line, first.Col, f.LineLen(first.Line)))
	for n := first.Line + 1; n < last.Line; n++ {
		buf.WriteByte('\n')
		buf.WriteString(f.Line(n))
	}
	buf.WriteByte('\n')
	buf.WriteString(f.slice(last.Line, 0, last.Col))
	return buf.String()
}

// slice returns the code points [from, to) of a line, clamped to it.
func (f *File) slice(line, from, to int) string {
	l := f.line(line)
	if l == nil {
		return ""
	}
	n := l.RuneCount()
	from, to = clamp(from, n), clamp(to, n)
	if to < from {
		return ""
	}
	return l.Slice(from, to)
}

// CharColumn converts a UTF-8 byte offset into the given line into a code
// point column. Parsers report columns in bytes; spans are measured in
// characters.
func (f *File) CharColumn(line, byteCol int) int {
	text := f.Line(line)
	if byteCol <= 0 {
		return byteCol
	}
	if byteCol > len(text) {
		return utf8.RuneCountInString(text) + byteCol - len(text)
	}
	return utf8.RuneCountInString(text[:byteCol])
}

// ByteColumn is the inverse of [File.CharColumn].
func (f *File) ByteColumn(line, col int) int {
	if col <= 0 {
		return col
	}
	l := f.line(line)
	if l == nil {
		return col
	}
	if n := l.RuneCount(); col > n {
		return len(l.String()) + col - n
	}
	return len(l.Slice(0, col))
}

func (f *File) line(line int) *utf8string.String {
	if f == nil || line < 1 || line > len(f.lines) {
		return nil
	}
	return f.lines[line-1]
}

func clamp(n, hi int) int {
	return max(0, min(n, hi))
}
