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

package reporter

import (
	"errors"
	"fmt"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/source"
)

// ErrInvalidSource is a sentinel error that is returned by the annotator in
// the event that lexing, parsing, or span recovery fails, but the configured
// ErrorReporter always returns nil.
var ErrInvalidSource = errors.New("annotation failed: invalid python source")

// SourcePos identifies a location in a named file.
type SourcePos struct {
	Filename string
	source.Position
}

// PosIn is a shorthand for a [SourcePos] in the given file.
func PosIn(file *source.File, pos source.Position) SourcePos {
	return SourcePos{Filename: file.Path(), Position: pos}
}

// String renders the position as "file:line:col". The column is printed
// 1-based, as editors expect.
func (p SourcePos) String() string {
	if p.Line <= 0 {
		return p.Filename
	}
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col+1)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col+1)
}

// ErrorWithPos is an error about a python source file that includes
// information about the location in the file that caused the error.
//
// The value of Error() will contain both the SourcePos and Underlying error.
// The value of Unwrap() will only be the Underlying error.
type ErrorWithPos interface {
	error
	GetPosition() SourcePos
	Unwrap() error
}

// Error wraps err with a position.
func Error(pos SourcePos, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates a new error with a position.
func Errorf(pos SourcePos, format string, args ...any) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	pos        SourcePos
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%v: %v", e.pos, e.underlying)
}

// GetPosition implements the ErrorWithPos interface, supplying a location in
// the source that caused the error.
func (e errorWithSourcePos) GetPosition() SourcePos {
	return e.pos
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}

// InconsistencyError indicates that a syntax tree does not match the source
// text it was supposedly parsed from: a token that the node's grammar
// requires could not be found.
type InconsistencyError struct {
	// Node is the node whose span was being computed.
	Node ast.Node
	// Query describes what was being looked for, e.g. `"=" before 3:4`.
	Query string
	// Pos is the position the search started from.
	Pos source.Position
}

// Error implements the error interface.
func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent %s node: no %s (searching from %v)",
		ast.KindOf(e.Node), e.Query, e.Pos)
}
