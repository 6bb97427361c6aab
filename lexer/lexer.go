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

// Package lexer contains a tokenizer for Python source.
//
// The token stream it produces has the same shape as the one of Python's
// own tokenize module for the configured grammar, except that f-strings are
// always single [token.String] tokens. Token positions are measured in code
// points.
package lexer

import (
	"strings"

	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/token"
)

// tabSize is the tab stop used to measure indentation.
const tabSize = 8

// Lex tokenizes the given file. Lexical errors are returned as
// [reporter.ErrorWithPos] values.
func Lex(file *source.File, g *grammar.Grammar) ([]token.Token, error) {
	l := newLexer(file, g)
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

type lexer struct {
	file *source.File
	g    *grammar.Grammar
	ops  []string

	tokens  []token.Token
	indents []int
	// depth is the number of open brackets.
	depth int

	line, lastLine int
	text           []rune
	col            int

	// cont is set when the previous physical line ended in a backslash.
	cont bool
	// logical is set once the current logical line has produced a token.
	logical bool
}

func newLexer(file *source.File, g *grammar.Grammar) *lexer {
	last := file.LineCount()
	if last > 0 && file.Line(last) == "" {
		last--
	}
	return &lexer{
		file:     file,
		g:        g,
		ops:      g.OperatorTokens(),
		indents:  []int{0},
		lastLine: last,
	}
}

func (l *lexer) run() error {
	for l.line = 1; l.line <= l.lastLine; l.line++ {
		l.text = []rune(l.file.Line(l.line))
		l.col = 0
		if !l.cont && l.depth == 0 {
			blank, err := l.indentation()
			if err != nil {
				return err
			}
			if blank {
				continue
			}
		}
		l.cont = false
		if err := l.scanLine(); err != nil {
			return err
		}
	}

	if l.cont {
		return l.errorf(source.Pos(l.lastLine, len(l.text)), "unexpected EOF after line continuation")
	}
	if l.depth > 0 {
		return l.errorf(source.Pos(l.lastLine, len(l.text)), "unexpected EOF in multi-line statement")
	}
	end := source.Pos(l.lastLine+1, 0)
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(token.Dedent, end, end, "")
	}
	l.emit(token.EndMarker, end, end, "")
	return nil
}

// indentation processes the leading whitespace of a line that starts a
// logical line. It reports whether the line is blank, in which case the
// line has been fully consumed.
func (l *lexer) indentation() (bool, error) {
	width, pos := 0, 0
loop:
	for ; pos < len(l.text); pos++ {
		switch l.text[pos] {
		case ' ':
			width++
		case '\t':
			width = (width/tabSize + 1) * tabSize
		case '\f':
			width = 0
		default:
			break loop
		}
	}

	rest := strings.TrimRight(string(l.text[pos:]), "\r")
	if rest == "" || rest[0] == '#' {
		if rest != "" {
			l.emit(token.Comment, source.Pos(l.line, pos), source.Pos(l.line, pos+len([]rune(rest))), rest)
		}
		l.col = len(l.text)
		l.newline(token.NL)
		return true, nil
	}

	here := source.Pos(l.line, pos)
	switch top := l.indents[len(l.indents)-1]; {
	case width > top:
		l.indents = append(l.indents, width)
		l.emit(token.Indent, source.Pos(l.line, 0), here, string(l.text[:pos]))
	case width < top:
		for width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(token.Dedent, here, here, "")
		}
		if width != l.indents[len(l.indents)-1] {
			return false, l.errorf(here, "unindent does not match any outer indentation level")
		}
	}
	l.col = pos
	return false, nil
}

// scanLine lexes from the current column to the end of the current physical
// line. Strings may move the lexer onto later lines.
func (l *lexer) scanLine() error {
	for l.col < len(l.text) {
		start := l.col
		r := l.text[start]
		switch {
		case r == ' ' || r == '\t' || r == '\f' || r == '\r':
			l.col++

		case r == '#':
			text := strings.TrimRight(string(l.text[start:]), "\r")
			l.col = start + len([]rune(text))
			l.emit(token.Comment, source.Pos(l.line, start), source.Pos(l.line, l.col), text)
			l.col = len(l.text)

		case r == '\\':
			if strings.TrimRight(string(l.text[start+1:]), "\r") != "" {
				return l.errorf(source.Pos(l.line, start), "unexpected character after line continuation character")
			}
			l.cont = true
			return nil

		case r == '\'' || r == '"':
			if err := l.scanString(start, ""); err != nil {
				return err
			}

		case isDigit(r) || r == '.' && isDigit(l.at(start+1)):
			l.col = l.scanNumber(start)
			l.emitHere(token.Number, start)

		case isIdentStart(r):
			end := start + 1
			for end < len(l.text) && isIdentContinue(l.text[end]) {
				end++
			}
			word := string(l.text[start:end])
			if q := l.at(end); (q == '\'' || q == '"') && l.isStringPrefix(word) {
				if err := l.scanString(start, word); err != nil {
					return err
				}
				continue
			}
			l.col = end
			l.emitHere(token.Name, start)

		default:
			op := l.operator(start)
			if op == "" {
				return l.errorf(source.Pos(l.line, start), "invalid character %q", r)
			}
			switch op {
			case "(", "[", "{":
				l.depth++
			case ")", "]", "}":
				if l.depth > 0 {
					l.depth--
				}
			}
			l.col = start + len([]rune(op))
			l.emitHere(token.Op, start)
		}
	}
	if !l.cont {
		if l.depth == 0 && l.logical {
			l.newline(token.Newline)
		} else {
			l.newline(token.NL)
		}
	}
	return nil
}

// operator returns the longest operator spelling at col, or "".
func (l *lexer) operator(col int) string {
	rest := string(l.text[col:])
	for _, op := range l.ops {
		if strings.HasPrefix(rest, op) {
			return op
		}
	}
	return ""
}

// newline emits a NEWLINE or NL token for the end of the current line.
func (l *lexer) newline(kind token.Kind) {
	col := len(l.text)
	text := "\n"
	if col > 0 && l.text[col-1] == '\r' {
		col--
		text = "\r\n"
	}
	if l.line == l.lastLine && l.lastLine == l.file.LineCount() {
		// The last line has no terminator.
		text = ""
	}
	l.emit(kind, source.Pos(l.line, col), source.Pos(l.line, col+len(text)), text)
	if kind == token.Newline {
		l.logical = false
	}
}

// nextLine advances to the start of the next physical line, if any.
func (l *lexer) nextLine() bool {
	if l.line >= l.lastLine {
		return false
	}
	l.line++
	l.text = []rune(l.file.Line(l.line))
	l.col = 0
	return true
}

// at returns the rune at col on the current line, or 0.
func (l *lexer) at(col int) rune {
	if col < 0 || col >= len(l.text) {
		return 0
	}
	return l.text[col]
}

func (l *lexer) emitHere(kind token.Kind, start int) {
	l.emit(kind, source.Pos(l.line, start), source.Pos(l.line, l.col), string(l.text[start:l.col]))
}

func (l *lexer) emit(kind token.Kind, start, end source.Position, text string) {
	switch kind {
	case token.Comment, token.NL, token.Newline, token.Indent, token.Dedent, token.EndMarker:
	default:
		l.logical = true
	}
	l.tokens = append(l.tokens, token.Token{Kind: kind, Text: text, Start: start, End: end})
}

func (l *lexer) errorf(pos source.Position, format string, args ...any) error {
	return reporter.Errorf(reporter.PosIn(l.file, pos), format, args...)
}
