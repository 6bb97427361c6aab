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

// Package token defines the token stream consumed by the span engine.
//
// The stream mirrors the one produced by Python's own tokenizer: every token
// carries its exact spelling and its start and (exclusive) end position in
// the line-indexed source buffer. Comments and non-logical newlines are part
// of the stream; the engine ignores what it does not need.
//
// # F-strings
//
// Tokenizers for Python 3.12 and later split f-strings into
// [FStringStart], [FStringMiddle], and [FStringEnd] tokens with the
// replacement fields lexed in between. Older tokenizers, including the one
// in package lexer, produce a single [String] token instead. Both shapes are
// accepted.
package token

import (
	"fmt"

	"github.com/bufbuild/provenance/source"
)

const (
	EndMarker Kind = iota // The end of the stream.

	Name          // An identifier or keyword.
	Number        // A numeric literal, including imaginary literals.
	String        // A complete string literal, prefix and quotes included.
	Op            // An operator or delimiter.
	Newline       // The end of a logical line.
	NL            // A newline that does not end a logical line.
	Comment       // A comment, from '#' to the end of the line.
	Indent        // An increase in indentation.
	Dedent        // A decrease in indentation.
	FStringStart  // The prefix and opening quote of a PEP 701 f-string.
	FStringMiddle // Literal text inside a PEP 701 f-string.
	FStringEnd    // The closing quote of a PEP 701 f-string.
	ErrorToken    // Unrecognized input.
)

// Kind identifies what kind of token a particular [Token] is.
type Kind byte

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case EndMarker:
		return "ENDMARKER"
	case Name:
		return "NAME"
	case Number:
		return "NUMBER"
	case String:
		return "STRING"
	case Op:
		return "OP"
	case Newline:
		return "NEWLINE"
	case NL:
		return "NL"
	case Comment:
		return "COMMENT"
	case Indent:
		return "INDENT"
	case Dedent:
		return "DEDENT"
	case FStringStart:
		return "FSTRING_START"
	case FStringMiddle:
		return "FSTRING_MIDDLE"
	case FStringEnd:
		return "FSTRING_END"
	case ErrorToken:
		return "ERRORTOKEN"
	default:
		return fmt.Sprintf("token.Kind(%d)", int(k))
	}
}

// Token is a lexical element of a Python source file.
type Token struct {
	Kind Kind
	Text string
	// Start is the position of the first character; End is the position just
	// past the last one.
	Start, End source.Position
}

// Is returns whether this token has the given kind and spelling.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Shift translates a token lexed from a nested buffer into the coordinates
// of the enclosing one. See [source.Position.Add].
func (t Token) Shift(dline, dcol int) Token {
	t.Start = t.Start.Add(dline, dcol)
	t.End = t.End.Add(dline, dcol)
	return t
}

// String implements [fmt.Stringer].
func (t Token) String() string {
	return fmt.Sprintf("%v %q %v-%v", t.Kind, t.Text, t.Start, t.End)
}
