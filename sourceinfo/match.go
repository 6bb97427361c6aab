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

package sourceinfo

import (
	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/source"
)

func (v *visitor) match(n *ast.Match) {
	m := v.header(n, "match", n.Pos, nil)
	end := v.colon(n, v.span(n.Subject).Last)
	last := end
	for _, c := range n.Cases {
		last = source.MaxPos(last, v.span(c).Last)
	}
	v.set(n, Span{First: m.First, Last: last, Anchor: m.Last})
}

func (v *visitor) matchCase(n *ast.MatchCase) {
	pattern := v.span(n.Pattern)
	m := v.opBefore(n, "case", pattern.First)
	v.mark(n, m)
	after := pattern.Last
	if n.Guard != nil {
		guard := v.span(n.Guard)
		v.mark(n, v.opBefore(n, "if", guard.First))
		after = guard.Last
	}
	end := v.colon(n, after)
	v.set(n, Span{First: m.First, Last: v.lastOf(end, n.Body), Anchor: m.Last})
}

// Patterns are not widened: parentheses around a pattern only group.

func (v *visitor) pattern(p ast.Pattern) {
	switch n := p.(type) {
	case *ast.MatchValue:
		v.copySpan(n, n.Value)

	case *ast.MatchSingleton:
		word := n.Value.String()
		v.leaf(n, v.startingAt(n, word, v.tables.Name(word), v.pos(n.Pos)))

	case *ast.MatchSequence:
		v.matchSequence(n)

	case *ast.MatchMapping:
		braces := v.pairBefore(n, "{", v.tables.Braces, v.pos(n.Pos))
		v.markPair(n, "{", braces)
		for _, key := range n.Keys {
			v.mark(n, v.opAfter(n, ":", v.span(key).Last))
		}
		if n.Rest != "" {
			rest := v.before(n, n.Rest, v.tables.Name(n.Rest), braces.Last)
			v.mark(n, v.opBefore(n, "**", rest.First))
		}
		v.set(n, Span{First: braces.First, Last: braces.Last, Anchor: braces.Last})

	case *ast.MatchClass:
		cls := v.span(n.Cls)
		parens := v.pairAfter(n, "(", v.tables.Parens, cls.Last)
		v.markPair(n, "(", parens)
		for _, kwd := range n.KwdPatterns {
			v.mark(n, v.opBefore(n, "=", v.span(kwd).First))
		}
		v.set(n, Span{First: cls.First, Last: parens.Last, Anchor: parens.Last})

	case *ast.MatchStar:
		star := v.startByKeyword(n, "*", v.pos(n.Pos))
		v.mark(n, star)
		var name OperatorMark
		if n.Name == "" {
			name = v.opAfter(n, "_", star.Last)
		} else {
			name = v.nameAfter(n, n.Name, star.Last)
		}
		v.set(n, Span{First: star.First, Last: name.Last, Anchor: star.Last})

	case *ast.MatchAs:
		v.matchAs(n)

	case *ast.MatchOr:
		s := v.span(n.Patterns[0])
		prev := s
		for _, alt := range n.Patterns[1:] {
			next := v.span(alt)
			v.mark(n, v.infix(n, []string{"|"}, prev, next))
			prev = next
		}
		s.Last = prev.Last
		s.Anchor = s.Last
		v.set(n, s)
	}
}

// leaf sets a span that covers exactly one token.
func (v *visitor) leaf(n ast.Node, m OperatorMark) {
	v.set(n, Span{First: m.First, Last: m.Last, Anchor: m.Last})
}

func (v *visitor) matchAs(n *ast.MatchAs) {
	p := v.pos(n.Pos)
	switch {
	case n.Pattern == nil && n.Name == "":
		v.leaf(n, v.startingAt(n, "_", v.tables.Operator("_"), p))
	case n.Pattern == nil:
		v.leaf(n, v.startingAt(n, n.Name, v.tables.Name(n.Name), p))
	default:
		pattern := v.span(n.Pattern)
		as := v.opAfter(n, "as", pattern.Last)
		v.mark(n, as)
		name := v.nameAfter(n, n.Name, as.Last)
		v.set(n, Span{First: pattern.First, Last: name.Last, Anchor: as.Last})
	}
}

// matchSequence handles both bracketed sequence patterns, which start at
// their bracket, and open ones, which grow like tuples.
func (v *visitor) matchSequence(n *ast.MatchSequence) {
	p := v.pos(n.Pos)
	items := make([]Span, len(n.Patterns))
	for i, sub := range n.Patterns {
		items[i] = v.span(sub)
	}
	for _, open := range []string{"[", "("} {
		if !v.file.HasPrefixAt(p, open) {
			continue
		}
		ix := v.tables.Brackets
		if open == "(" {
			ix = v.tables.Parens
		}
		r := v.pairBefore(n, open, ix, p)
		if len(items) > 0 && items[0].First == r.First {
			// The first element is itself bracketed, as in "case [a], b".
			break
		}
		v.markPair(n, open, r)
		v.separators(n, items, r.Last.Shift(-1))
		v.set(n, Span{First: r.First, Last: r.Last, Anchor: r.Last})
		return
	}

	var s Span
	for i, item := range items {
		if i == 0 {
			s.First, s.Last = item.First, item.Last
			continue
		}
		s.First = source.MinPos(s.First, item.First)
		s.Last = source.MaxPos(s.Last, item.Last)
	}
	if trailing, ok := v.separators(n, items, source.Position{}); ok {
		s.Last = source.MaxPos(s.Last, trailing.Last)
	}
	s.Anchor = s.Last
	if marks := v.info(n).Marks; len(marks) > 0 {
		s.Anchor = marks[0].First
	}
	v.set(n, s)
}

func (v *visitor) typeParam(p ast.TypeParam) {
	var (
		prefix string
		name   string
		bound  ast.Expr
		def    ast.Expr
		pos    ast.Pos
	)
	switch n := p.(type) {
	case *ast.TypeVar:
		name, bound, def, pos = n.Name, n.Bound, n.DefaultValue, n.Pos
	case *ast.ParamSpec:
		prefix, name, def, pos = "**", n.Name, n.DefaultValue, n.Pos
	case *ast.TypeVarTuple:
		prefix, name, def, pos = "*", n.Name, n.DefaultValue, n.Pos
	}

	start := v.pos(pos)
	first := start
	if prefix != "" {
		m := v.startByKeyword(p, prefix, start)
		v.mark(p, m)
		first, start = m.First, m.Last
	}
	nm := v.nameAfter(p, name, start)
	s := Span{First: first, Last: nm.Last, Anchor: nm.Last}
	if bound != nil {
		v.mark(p, v.opAfter(p, ":", nm.Last))
		s.Last = v.span(bound).Last
	}
	if def != nil {
		v.mark(p, v.opBefore(p, "=", v.span(def).First))
		s.Last = v.span(def).Last
	}
	v.set(p, s)
}
