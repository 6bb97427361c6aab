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
	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/lexer"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/token"
)

// LexFunc tokenizes a source file. It is used to lex the expressions inside
// f-strings that were tokenized as a single string literal.
type LexFunc func(*source.File, *grammar.Grammar) ([]token.Token, error)

// Option configures [Build].
type Option func(*classifier)

// WithLexer sets the lexer used for f-string replacement fields. The default
// is [lexer.Lex].
func WithLexer(lex LexFunc) Option {
	return func(c *classifier) {
		c.lex = lex
	}
}

// Build classifies tokens, which must have been lexed from file according to
// g, in a single forward pass.
//
// An unbalanced closing bracket is reported as a [reporter.ErrorWithPos].
func Build(file *source.File, tokens []token.Token, g *grammar.Grammar, opts ...Option) (*Tables, error) {
	c := &classifier{
		file:   file,
		g:      g,
		tables: newTables(),
		lex:    lexer.Lex,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stacks = [...]bracketStack{
		{open: "(", close: ")", pairs: c.tables.Parens},
		{open: "[", close: "]", pairs: c.tables.Brackets},
		{open: "{", close: "}", pairs: c.tables.Braces},
	}
	if err := c.loop(tokens); err != nil {
		return nil, err
	}
	return c.tables, nil
}

type classifier struct {
	file   *source.File
	g      *grammar.Grammar
	tables *Tables
	lex    LexFunc
	stacks [3]bracketStack
}

type bracketStack struct {
	open, close string
	pairs       *Pairs
	starts      []source.Position
}

// check pushes or pops the stack if tok is one of its brackets. It reports
// whether a closing bracket had nothing to match.
func (s *bracketStack) check(tok token.Token) bool {
	switch tok.Text {
	case s.open:
		s.starts = append(s.starts, tok.Start)
	case s.close:
		if len(s.starts) == 0 {
			return false
		}
		open := s.starts[len(s.starts)-1]
		s.starts = s.starts[:len(s.starts)-1]
		s.pairs.Set(open, tok.End)
	}
	return true
}

// fstring is an open PEP 701 f-string.
type fstring struct {
	start source.Position
	merge bool
}

// loop classifies one token stream. It is re-entered for the expressions
// inside f-strings; the bracket stacks are shared, the rest of the state is
// per stream.
func (c *classifier) loop(tokens []token.Token) error {
	var (
		last    token.Token
		hasLast bool
		// pending is set while last is the first word of a possible
		// composite.
		pending  bool
		dots     int
		firstDot source.Position
		fstrings []fstring
	)
	lastIsString := func() bool {
		return hasLast && (last.Kind == token.String || last.Kind == token.FStringEnd)
	}

	for _, tok := range tokens {
		if tok.Kind == token.NL || tok.Kind == token.Comment {
			continue
		}
		consumed := false

		switch tok.Kind {
		case token.Op:
			for i := range c.stacks {
				if !c.stacks[i].check(tok) {
					return reporter.Errorf(reporter.PosIn(c.file, tok.Start), "unmatched %q", tok.Text)
				}
			}
			if tok.Text == "." {
				if dots == 0 {
					firstDot = tok.Start
				}
				dots++
				if dots == 3 {
					c.tables.op("...", firstDot, tok.End)
					dots = 0
				}
			}
			c.tables.op(tok.Text, tok.Start, tok.End)

		case token.String:
			if c.g.FStrings && isFString(tok.Text) {
				if err := c.fieldsOf(tok); err != nil {
					return err
				}
			}
			c.str(tok.Start, tok.End, lastIsString())

		case token.FStringStart:
			fstrings = append(fstrings, fstring{start: tok.Start, merge: lastIsString()})

		case token.FStringEnd:
			if len(fstrings) > 0 {
				fs := fstrings[len(fstrings)-1]
				fstrings = fstrings[:len(fstrings)-1]
				c.str(fs.start, tok.End, fs.merge)
			}

		case token.Number:
			c.tables.Numbers.Set(tok.End, tok.Start)

		case token.Name:
			word := tok.Text
			if rec := c.g.RecordedAs(word); rec != word {
				c.tables.op(rec, tok.Start, tok.End)
				break
			}
			if comp, ok := c.g.CompositeEndingWith(word); ok &&
				pending && last.Kind == token.Name && last.Text == comp.First {
				c.tables.op(comp.Spelling(), last.Start, tok.End)
				consumed = true
				if comp.KeepSecond {
					c.tables.op(word, tok.Start, tok.End)
				}
				break
			}
			switch {
			case c.g.IsCompositeStart(word):
				// Decided once the next token is seen.
			case c.g.IsKeyword(word):
				c.tables.op(word, tok.Start, tok.End)
			case dots == 1:
				c.tables.Attributes.Set(tok.End, firstDot)
			case c.g.IsSoftKeyword(word):
				c.tables.op(word, tok.Start, tok.End)
			}
		}

		if tok.Text != "." || tok.Kind != token.Op {
			dots = 0
		}
		if pending && !consumed {
			c.tables.op(last.Text, last.Start, last.End)
		}
		pending = tok.Kind == token.Name && !consumed && c.g.IsCompositeStart(tok.Text) &&
			c.g.RecordedAs(tok.Text) == tok.Text
		if tok.Kind == token.Name {
			c.tables.name(tok.Text, tok.Start, tok.End)
		}
		last, hasLast = tok, true
	}
	if pending {
		c.tables.op(last.Text, last.Start, last.End)
	}
	return nil
}

// str records a string literal, merging it with the previous one when the
// two are adjacent.
func (c *classifier) str(start, end source.Position, merge bool) {
	if merge {
		// The previous literal is the last one ending at or before start;
		// strings inside replacement fields end after it.
		if prevEnd, prevStart, ok := c.tables.Strings.FindPrevious(start.Shift(1)); ok {
			c.tables.Strings.Delete(prevEnd)
			start = prevStart
		}
	}
	c.tables.Strings.Set(end, start)
}
