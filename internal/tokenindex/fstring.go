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

package tokenindex

import (
	"strings"
	"unicode"

	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/token"
)

// isFString returns whether a string literal's prefix contains an f.
func isFString(text string) bool {
	for _, r := range text {
		switch r {
		case 'f', 'F':
			return true
		case '\'', '"':
			return false
		}
	}
	return false
}

// literal is the text of a string token with the position of each of its
// characters. pos has one extra entry for the end of the token.
type literal struct {
	text []rune
	pos  []source.Position
}

func newLiteral(tok token.Token) *literal {
	lit := &literal{text: []rune(tok.Text)}
	lit.pos = make([]source.Position, len(lit.text)+1)
	p := tok.Start
	for i, r := range lit.text {
		lit.pos[i] = p
		if r == '\n' {
			p = source.Pos(p.Line+1, 0)
		} else {
			p = p.Shift(1)
		}
	}
	lit.pos[len(lit.text)] = p
	return lit
}

// fieldsOf records the replacement fields of an f-string that was lexed as
// a single token: the braces of every field, and every token of its
// expression.
func (c *classifier) fieldsOf(tok token.Token) error {
	lit := newLiteral(tok)
	prefix := strings.IndexAny(tok.Text, `'"`)
	if prefix < 0 {
		return nil
	}
	prefix = len([]rune(tok.Text[:prefix]))
	quote := 1
	if n := len(lit.text); n-prefix >= 6 &&
		lit.text[prefix+1] == lit.text[prefix] && lit.text[prefix+2] == lit.text[prefix] {
		quote = 3
	}
	return c.fields(lit, prefix+quote, len(lit.text)-quote, true)
}

// fields records the replacement fields in text[from:to]. Doubled braces
// are literal text at the top level.
func (c *classifier) fields(lit *literal, from, to int, top bool) error {
	for i := from; i < to; {
		switch lit.text[i] {
		case '{':
			if top && i+1 < to && lit.text[i+1] == '{' {
				i += 2
				continue
			}
			end, err := c.field(lit, i, to)
			if err != nil {
				return err
			}
			i = end + 1
		case '}':
			if top && i+1 < to && lit.text[i+1] == '}' {
				i += 2
				continue
			}
			i++
		default:
			i++
		}
	}
	return nil
}

// field records the replacement field opening at text[open] and returns
// the index of its closing brace.
func (c *classifier) field(lit *literal, open, limit int) (int, error) {
	text := lit.text
	depth := 0
	exprEnd, closing := -1, -1
scan:
	for j := open + 1; j < limit; j++ {
		switch r := text[j]; {
		case r == '\'' || r == '"':
			j = skipQuoted(text, j, limit) - 1
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']':
			depth--
		case r == '}' && depth > 0:
			depth--
		case r == '}':
			closing = j
			if exprEnd < 0 {
				exprEnd = j
			}
			break scan
		case depth == 0 && r == '!' && exprEnd < 0 && j+1 < limit && text[j+1] != '=':
			exprEnd = j
		case depth == 0 && r == ':':
			if exprEnd < 0 {
				exprEnd = j
			}
			end, err := c.spec(lit, j+1, limit)
			if err != nil {
				return 0, err
			}
			closing = end
			break scan
		}
	}
	if closing < 0 {
		return 0, reporter.Errorf(reporter.PosIn(c.file, lit.pos[open]), "unterminated f-string replacement field")
	}

	c.tables.Braces.Set(lit.pos[open], lit.pos[closing+1])
	exprEnd = stripSelfDocumenting(text, open+1, exprEnd)
	return closing, c.expression(lit, open+1, exprEnd)
}

// spec records the nested fields of a format spec starting at text[from]
// and returns the index of the brace closing the enclosing field.
func (c *classifier) spec(lit *literal, from, limit int) (int, error) {
	for k := from; k < limit; k++ {
		switch lit.text[k] {
		case '{':
			end, err := c.field(lit, k, limit)
			if err != nil {
				return 0, err
			}
			k = end
		case '}':
			return k, nil
		}
	}
	return -1, nil
}

// expression lexes text[from:to] and classifies its tokens. The expression
// is wrapped in parentheses so that it may span lines.
func (c *classifier) expression(lit *literal, from, to int) error {
	if strings.TrimSpace(string(lit.text[from:to])) == "" {
		return nil
	}
	sub := source.NewFile(c.file.Path(), "("+string(lit.text[from:to])+")")
	toks, err := c.lex(sub, c.g)
	if err != nil {
		return reporter.Errorf(reporter.PosIn(c.file, lit.pos[from]), "invalid f-string expression: %w", err)
	}

	closing := -1
	for i := len(toks) - 1; i > 0; i-- {
		if toks[i].Is(token.Op, ")") {
			closing = i
			break
		}
	}
	if len(toks) == 0 || !toks[0].Is(token.Op, "(") || closing < 0 {
		return nil
	}
	// The wrapper's opening paren sits at 1:0, so the expression starts at
	// 1:1 in the nested buffer.
	start := lit.pos[from]
	inner := make([]token.Token, 0, closing-1)
	for _, tok := range toks[1:closing] {
		inner = append(inner, tok.Shift(start.Line-1, start.Col-1))
	}
	return c.loop(inner)
}

// stripSelfDocumenting drops the "=" of a self-documenting expression such
// as f"{x=}" from text[from:to].
func stripSelfDocumenting(text []rune, from, to int) int {
	end := to
	for end > from && unicode.IsSpace(text[end-1]) {
		end--
	}
	if end-1 > from && text[end-1] == '=' && !strings.ContainsRune("=!<>", text[end-2]) {
		return end - 1
	}
	return to
}

// skipQuoted returns the index just past the string literal whose opening
// quote is text[i], or limit if it is not terminated before limit.
func skipQuoted(text []rune, i, limit int) int {
	q := text[i]
	n := 1
	if i+2 < limit && text[i+1] == q && text[i+2] == q {
		n = 3
	}
	for k := i + n; k < limit; k++ {
		switch {
		case text[k] == '\\':
			k++
		case text[k] == q:
			if n == 1 {
				return k + 1
			}
			if k+2 < limit && text[k+1] == q && text[k+2] == q {
				return k + 3
			}
		}
	}
	return limit
}
