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
	"slices"
	"unicode/utf8"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/internal/tokenindex"
	"github.com/bufbuild/provenance/source"
)

func (v *visitor) name(n *ast.Name) {
	p := v.pos(n.Pos)
	if m, ok := findAfter(n.ID, v.tables.Name(n.ID), p); ok && m.First == p {
		v.set(n, Span{First: m.First, Last: m.Last, Anchor: m.Last})
		return
	}
	// The parser may have normalized the spelling (NFKC).
	last := p.Shift(utf8.RuneCountInString(n.ID))
	v.set(n, Span{First: p, Last: last, Anchor: last})
}

func (v *visitor) constant(n *ast.Constant) {
	p := v.pos(n.Pos)
	var m OperatorMark
	switch n.Kind {
	case ast.ConstNumber:
		// A folded negative literal starts at its sign.
		m = v.after(n, n.Value, v.tables.Numbers, p)
		m.First = p
	case ast.ConstString, ast.ConstBytes:
		m = v.startingAt(n, "string", v.tables.Strings, p)
	case ast.ConstNone, ast.ConstTrue, ast.ConstFalse:
		m = v.startingAt(n, n.Kind.String(), v.tables.Name(n.Kind.String()), p)
	case ast.ConstEllipsis:
		if n.Lineno == 0 {
			// Positioned by the subscript that contains it.
			return
		}
		m = v.startingAt(n, "...", v.tables.Operator("..."), p)
	}
	v.set(n, Span{First: m.First, Last: m.Last, Anchor: m.Last})
}

func (v *visitor) attribute(n *ast.Attribute) {
	value := v.span(n.Value)
	m := v.after(n, n.Attr, v.tables.Attributes, value.Last)
	dot := OperatorMark{First: m.First, Last: m.First.Shift(1), Label: "."}
	v.set(n, Span{First: value.First, Last: m.Last, Anchor: dot.Last})
	v.mark(n, dot)
}

func (v *visitor) call(n *ast.Call) {
	fn := v.span(n.Func)
	parens := v.pairAfter(n, "(", v.tables.Parens, fn.Last)
	v.set(n, Span{First: fn.First, Last: parens.Last, Anchor: parens.Last})
	v.markPair(n, "(", parens)
	v.markArgs(n, parens, n.Args, n.Keywords)

	// A lone argument widened over the call's parentheses is shrunk back.
	if len(n.Args) == 1 && len(n.Keywords) == 0 {
		arg := v.span(n.Args[0])
		if arg.First == parens.First && arg.Last == parens.Last {
			v.shrink(n.Args[0])
		}
	}
}

// markArgs marks the commas between the arguments of a call or the bases of
// a class.
func (v *visitor) markArgs(n ast.Node, parens source.Range, args []ast.Expr, keywords []*ast.Keyword) {
	items := make([]Span, 0, len(args)+len(keywords))
	for _, arg := range args {
		items = append(items, v.span(arg))
	}
	for _, kw := range keywords {
		items = append(items, v.span(kw))
	}
	// Keyword arguments may precede starred ones.
	slices.SortFunc(items, func(a, b Span) int { return a.First.Compare(b.First) })
	v.separators(n, items, parens.Last.Shift(-1))
}

func (v *visitor) keyword(n *ast.Keyword) {
	value := v.span(n.Value)
	if n.Arg == "" {
		star := v.opBefore(n, "**", value.First)
		v.set(n, Span{First: star.First, Last: value.Last, Anchor: star.Last})
		v.mark(n, star)
		return
	}
	eq := v.opBefore(n, "=", value.First)
	name := v.before(n, n.Arg, v.tables.Name(n.Arg), eq.First)
	v.set(n, Span{First: name.First, Last: value.Last, Anchor: eq.Last})
	v.mark(n, eq)
}

// prefixed computes the span of a node that is an operator followed by
// value, such as a starred expression.
func (v *visitor) prefixed(n ast.Node, spelling string, value ast.Expr) {
	vs := v.span(value)
	m := v.opBefore(n, spelling, vs.First)
	v.set(n, Span{First: m.First, Last: vs.Last, Anchor: m.Last})
	v.mark(n, m)
}

func (v *visitor) binOp(n *ast.BinOp) {
	left, right := v.span(n.Left), v.span(n.Right)
	m := v.infix(n, v.spellings(n, n.Op), left, right)
	v.set(n, Span{First: left.First, Last: right.Last, Anchor: m.Last})
	v.mark(n, m)
}

func (v *visitor) boolOp(n *ast.BoolOp) {
	spellings := v.spellings(n, n.Op)
	s := v.span(n.Values[0])
	prev := s
	for _, value := range n.Values[1:] {
		next := v.span(value)
		v.mark(n, v.infix(n, spellings, prev, next))
		prev = next
	}
	s.Last = prev.Last
	s.Anchor = s.Last
	v.set(n, s)
}

func (v *visitor) compare(n *ast.Compare) {
	s := v.span(n.Left)
	prev := s
	for i, comparator := range n.Comparators {
		next := v.span(comparator)
		v.mark(n, v.infix(n, v.spellings(n, n.Ops[i]), prev, next))
		prev = next
	}
	s.Last = prev.Last
	s.Anchor = s.Last
	v.set(n, s)
}

func (v *visitor) unaryOp(n *ast.UnaryOp) {
	operand := v.span(n.Operand)
	m := v.prefix(n, v.spellings(n, n.Op), operand)
	v.set(n, Span{First: m.First, Last: operand.Last, Anchor: m.Last})
	v.mark(n, m)
}

func (v *visitor) namedExpr(n *ast.NamedExpr) {
	target, value := v.span(n.Target), v.span(n.Value)
	m := v.infix(n, []string{":="}, target, value)
	v.set(n, Span{First: target.First, Last: value.Last, Anchor: m.Last})
	v.mark(n, m)
}

func (v *visitor) lambda(n *ast.Lambda) {
	body := v.span(n.Body)
	colon := v.opBefore(n, ":", body.First)
	kw, ok := v.findOpAfter("lambda", v.pos(n.Pos))
	if !ok || kw.First != v.pos(n.Pos) {
		kw = v.opBefore(n, "lambda", colon.First)
	}
	v.set(n, Span{First: kw.First, Last: body.Last, Anchor: colon.Last})
	v.mark(n, kw)
	v.mark(n, colon)
	v.setArguments(n.Args, kw.Last, colon.First)
}

// setArguments overrides the span of a parameter list with the text
// between from and to, trimmed.
func (v *visitor) setArguments(args *ast.Arguments, from, to source.Position) {
	if args == nil {
		return
	}
	first, last := source.PositionBetween(v.file, from, to)
	v.set(args, Span{First: first, Last: last, Anchor: last})
}

func (v *visitor) ifExp(n *ast.IfExp) {
	body, test, orelse := v.span(n.Body), v.span(n.Test), v.span(n.Orelse)
	ifKw := v.opBefore(n, "if", test.First)
	elseKw := v.opBefore(n, "else", orelse.First)
	v.set(n, Span{First: body.First, Last: orelse.Last, Anchor: ifKw.Last})
	v.mark(n, ifKw)
	v.mark(n, elseKw)
}

// displaySpan computes the span of a list, set, or tuple display delimited
// by the pair of ix opening at p.
func (v *visitor) displaySpan(n ast.Node, open string, ix *tokenindex.Pairs, p source.Position, elts []ast.Expr) Span {
	r := v.pairBefore(n, open, ix, p)
	v.markPair(n, open, r)
	items := make([]Span, len(elts))
	for i, elt := range elts {
		items[i] = v.span(elt)
	}
	v.separators(n, items, r.Last.Shift(-1))
	return Span{First: r.First, Last: r.Last, Anchor: r.Last}
}

func (v *visitor) dict(n *ast.Dict) {
	r := v.pairBefore(n, "{", v.tables.Braces, v.pos(n.Pos))
	v.markPair(n, "{", r)
	items := make([]Span, len(n.Values))
	for i, value := range n.Values {
		vs := v.span(value)
		if key := n.Keys[i]; key != nil {
			ks := v.span(key)
			v.mark(n, v.opAfter(n, ":", ks.Last))
			items[i] = Span{First: ks.First, Last: vs.Last}
		} else {
			star := v.opBefore(n, "**", vs.First)
			v.mark(n, star)
			items[i] = Span{First: star.First, Last: vs.Last}
		}
	}
	v.separators(n, items, r.Last.Shift(-1))
	v.set(n, Span{First: r.First, Last: r.Last, Anchor: r.Last})
}

func (v *visitor) tuple(n *ast.Tuple) {
	if len(n.Elts) == 0 {
		r := v.pairBefore(n, "(", v.tables.Parens, v.pos(n.Pos))
		v.markPair(n, "(", r)
		v.set(n, Span{First: r.First, Last: r.Last, Anchor: r.Last})
		return
	}
	s := v.cover(Span{}, n.Elts...)
	items := make([]Span, len(n.Elts))
	for i, elt := range n.Elts {
		items[i] = v.span(elt)
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

// separators marks the comma after each item. The comma after the last item
// is only accepted before limit or, if limit is zero, when nothing but
// whitespace separates it from the item. The trailing comma is returned.
func (v *visitor) separators(n ast.Node, items []Span, limit source.Position) (OperatorMark, bool) {
	for i, item := range items {
		m, ok := v.findOpAfter(",", item.Last)
		if !ok {
			continue
		}
		if i+1 < len(items) {
			if m.First.Before(items[i+1].First) {
				v.mark(n, m)
			}
			continue
		}
		if (limit.IsZero() && v.blank(item.Last, m.First)) || (!limit.IsZero() && m.First.Before(limit)) {
			v.mark(n, m)
			return m, true
		}
	}
	return OperatorMark{}, false
}

// commas marks the commas of an unbracketed list of expressions.
func (v *visitor) commas(n ast.Node, exprs []ast.Expr) {
	items := make([]Span, len(exprs))
	for i, e := range exprs {
		items[i] = v.span(e)
	}
	v.separators(n, items, source.Position{})
}

// comprehension computes the span of a list or set comprehension, which is
// delimited by the pair of ix enclosing its element.
func (v *visitor) comprehension(n ast.Node, ix *tokenindex.Pairs, open string, elt ast.Expr) {
	e := v.span(elt)
	first, closeEnd, ok := ix.FindPrevious(e.First)
	if !ok {
		v.fail(n, open+" before element", e.First)
	}
	r := source.Range{First: first, Last: closeEnd}
	v.markPair(n, open, r)
	v.set(n, Span{First: r.First, Last: r.Last, Anchor: r.Last})
}

func (v *visitor) dictComp(n *ast.DictComp) {
	key := v.span(n.Key)
	v.comprehension(n, v.tables.Braces, "{", n.Key)
	v.mark(n, v.opAfter(n, ":", key.Last))
}

func (v *visitor) generatorExp(n *ast.GeneratorExp) {
	elt := v.span(n.Elt)
	s := Span{First: elt.First, Last: elt.Last, Anchor: elt.Last}
	for _, gen := range n.Generators {
		s = v.extend(s, gen)
	}
	v.set(n, s)
}

func (v *visitor) comprehensionClause(n *ast.Comprehension) {
	target, iter := v.span(n.Target), v.span(n.Iter)
	kw := "for"
	if n.IsAsync {
		kw = "async for"
	}
	forKw := v.opBefore(n, kw, target.First)
	inKw := v.opBefore(n, "in", iter.First)
	s := Span{First: forKw.First, Last: iter.Last, Anchor: forKw.Last}
	v.mark(n, forKw)
	v.mark(n, inKw)
	for _, cond := range n.Ifs {
		v.mark(n, v.opBefore(n, "if", v.span(cond).First))
		s = v.extend(s, cond)
	}
	v.set(n, s)
}

// keywordThen computes the span of a node that starts with kw and extends
// over rest.
func (v *visitor) keywordThen(n ast.Node, kw string, p ast.Pos, rest ...ast.Expr) OperatorMark {
	m := v.startByKeyword(n, kw, v.pos(p))
	s := Span{First: m.First, Last: m.Last, Anchor: m.Last}
	for _, e := range rest {
		if e != nil {
			s = v.extend(s, e)
		}
	}
	v.set(n, s)
	v.mark(n, m)
	return m
}

func (v *visitor) yieldFrom(n *ast.YieldFrom) {
	m := v.opAfter(n, "yield from", v.pos(n.Pos))
	v.set(n, Span{First: m.First, Last: v.span(n.Value).Last, Anchor: m.Last})
	v.mark(n, m)
}

func (v *visitor) repr(n *ast.Repr) {
	value := v.span(n.Value)
	open := v.opBefore(n, "`", value.First)
	closeQuote := v.opAfter(n, "`", value.Last)
	v.set(n, Span{First: open.First, Last: closeQuote.Last, Anchor: closeQuote.Last})
	v.mark(n, open)
	v.mark(n, closeQuote)
}

func (v *visitor) arguments(n *ast.Arguments) {
	var s Span
	grow := func(node ast.Node) {
		ns := v.span(node)
		if s.First.IsZero() && s.Last.IsZero() {
			s.First, s.Last = ns.First, ns.Last
			return
		}
		s.First = source.MinPos(s.First, ns.First)
		s.Last = source.MaxPos(s.Last, ns.Last)
	}
	for _, child := range ast.Children(n) {
		grow(child)
	}
	s.Anchor = s.Last
	v.set(n, s)
	v.markParams(n)
}

// markParams marks the "=" of each default and the "*" and "**" of the
// parameter list.
func (v *visitor) markParams(n *ast.Arguments) {
	positional := append(append([]*ast.Arg(nil), n.PosOnlyArgs...), n.Args...)
	offset := len(positional) - len(n.Defaults)
	for i := range n.Defaults {
		if i+offset >= 0 {
			v.mark(n, v.opAfter(n, "=", v.span(positional[i+offset]).Last))
		}
	}
	for i, def := range n.KwDefaults {
		if def != nil && i < len(n.KwOnlyArgs) {
			v.mark(n, v.opAfter(n, "=", v.span(n.KwOnlyArgs[i]).Last))
		}
	}
	if n.Vararg != nil {
		v.mark(n, v.opBefore(n, "*", v.span(n.Vararg).First))
	}
	if n.Kwarg != nil {
		v.mark(n, v.opBefore(n, "**", v.span(n.Kwarg).First))
	}
}

func (v *visitor) arg(n *ast.Arg) {
	p := v.pos(n.Pos)
	last := p.Shift(utf8.RuneCountInString(n.Arg))
	if m, ok := findAfter(n.Arg, v.tables.Name(n.Arg), p); ok && m.First == p {
		last = m.Last
	}
	if n.Annotation != nil {
		v.mark(n, v.opAfter(n, ":", last))
		last = v.span(n.Annotation).Last
	}
	v.set(n, Span{First: p, Last: last, Anchor: last})
}
