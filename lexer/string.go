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

package lexer

import (
	"strings"

	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/token"
)

// field is an open replacement field of an f-string.
type field struct {
	// brackets counts brackets opened inside the field's expression.
	brackets int
	// spec is set once the format spec has started.
	spec bool
}

// isStringPrefix returns whether word may prefix a string literal.
func (l *lexer) isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "br":
		return true
	case "rb":
		return l.g.Version.Major >= 3
	case "ur":
		return l.g.Version.Major < 3
	case "f", "fr", "rf":
		return l.g.FStrings
	default:
		return false
	}
}

// scanString lexes a string literal whose prefix starts at col and emits it
// as a single token.
func (l *lexer) scanString(col int, prefix string) error {
	start := source.Pos(l.line, col)
	fstring := l.g.FStrings && strings.ContainsAny(prefix, "fF")
	if err := l.scanQuoted(col+len(prefix), fstring && l.g.NestedFStringQuotes); err != nil {
		return err
	}
	end := source.Pos(l.line, l.col)
	l.emit(token.String, start, end, l.file.Slice(start, end))
	return nil
}

// scanQuoted scans the quoted part of a string literal, starting at the
// opening quote, and leaves the lexer just past the closing quote.
//
// When fields is set, the literal is an f-string whose replacement fields
// may contain arbitrary string literals, including ones using the same
// quote.
func (l *lexer) scanQuoted(col int, fields bool) error {
	start := source.Pos(l.line, col)
	q := l.text[col]
	triple := l.at(col+1) == q && l.at(col+2) == q
	if triple {
		col += 3
	} else {
		col++
	}

	var open []field
	for {
		if col >= len(l.text) {
			if !triple && len(open) == 0 {
				return l.errorf(start, "unterminated string literal")
			}
			if !l.nextLine() {
				if triple {
					return l.errorf(start, "unterminated triple-quoted string literal")
				}
				return l.errorf(start, "unterminated f-string replacement field")
			}
			col = 0
			continue
		}

		r := l.text[col]
		if n := len(open); n > 0 && !open[n-1].spec {
			f := &open[n-1]
			switch {
			case r == '\'' || r == '"':
				if err := l.scanQuoted(col, fields && l.fPrefixBefore(col)); err != nil {
					return err
				}
				col = l.col
				continue
			case r == '(' || r == '[' || r == '{':
				f.brackets++
			case r == ')' || r == ']':
				f.brackets--
			case r == '}':
				if f.brackets > 0 {
					f.brackets--
				} else {
					open = open[:n-1]
				}
			case r == ':' && f.brackets == 0:
				f.spec = true
			}
			col++
			continue
		}

		switch {
		case r == '\\':
			if strings.TrimRight(string(l.text[col+1:]), "\r") == "" {
				if !l.nextLine() {
					return l.errorf(start, "unterminated string literal")
				}
				col = 0
				continue
			}
			col += 2
		case fields && r == '{':
			if len(open) == 0 && l.at(col+1) == '{' {
				col += 2
				continue
			}
			open = append(open, field{})
			col++
		case fields && r == '}' && len(open) > 0:
			open = open[:len(open)-1]
			col++
		case r == q && len(open) == 0:
			if !triple {
				l.col = col + 1
				return nil
			}
			if l.at(col+1) == q && l.at(col+2) == q {
				l.col = col + 3
				return nil
			}
			col++
		default:
			col++
		}
	}
}

// fPrefixBefore returns whether the quote at col is preceded by a string
// prefix containing an f.
func (l *lexer) fPrefixBefore(col int) bool {
	i := col
	for i > 0 && strings.ContainsRune("rRbBuUfF", l.text[i-1]) {
		i--
	}
	if i > 0 && isIdentContinue(l.text[i-1]) {
		return false
	}
	return strings.ContainsAny(string(l.text[i:col]), "fF")
}
