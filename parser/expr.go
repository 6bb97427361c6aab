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

package parser

import (
	"slices"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/unicode/norm"

	"github.com/bufbuild/provenance/ast"
)

func (c *converter) expr(n *sitter.Node) ast.Expr {
	pos := c.pos(n)
	switch n.Type() {
	case "identifier", "keyword_identifier":
		return &ast.Name{Pos: pos, ID: c.identifier(n)}

	case "integer", "float":
		return &ast.Constant{Pos: pos, Kind: ast.ConstNumber, Value: c.text(n)}
	case "true", "false", "none":
		if c.g.Version.Major < 3 {
			// Python 2 has no constants for these.
			return &ast.Name{Pos: pos, ID: c.text(n)}
		}
		return &ast.Constant{Pos: pos, Kind: singletons[n.Type()]}
	case "ellipsis":
		return &ast.Constant{Pos: pos, Kind: ast.ConstEllipsis}
	case "string", "concatenated_string":
		return c.str(n)

	case "parenthesized_expression":
		return c.expr(named(n)[0])
	case "type", "as_pattern_target":
		kids := named(n)
		if len(kids) == 0 {
			return &ast.Name{Pos: pos, ID: c.identifier(n)}
		}
		return c.expr(kids[0])

	case "tuple", "tuple_pattern":
		return &ast.Tuple{Pos: pos, Elts: c.exprs(named(n))}
	case "expression_list", "pattern_list":
		return &ast.Tuple{Pos: pos, Elts: c.exprs(named(n))}
	case "list", "list_pattern":
		return &ast.List{Pos: pos, Elts: c.exprs(named(n))}
	case "set":
		return &ast.Set{Pos: pos, Elts: c.exprs(named(n))}
	case "dictionary":
		return c.dict(n)
	case "list_splat", "list_splat_pattern", "parenthesized_list_splat", "splat_type":
		kids := named(n)
		return &ast.Starred{Pos: pos, Value: c.expr(kids[len(kids)-1])}

	case "list_comprehension":
		elt, gens := c.comprehension(n)
		return &ast.ListComp{Pos: pos, Elt: elt, Generators: gens}
	case "set_comprehension":
		elt, gens := c.comprehension(n)
		return &ast.SetComp{Pos: pos, Elt: elt, Generators: gens}
	case "generator_expression":
		elt, gens := c.comprehension(n)
		return &ast.GeneratorExp{Pos: pos, Elt: elt, Generators: gens}
	case "dictionary_comprehension":
		body := n.ChildByFieldName("body")
		_, gens := c.comprehension(n)
		return &ast.DictComp{
			Pos:        pos,
			Key:        c.expr(body.ChildByFieldName("key")),
			Value:      c.expr(body.ChildByFieldName("value")),
			Generators: gens,
		}

	case "attribute":
		return &ast.Attribute{
			Pos:   pos,
			Value: c.expr(n.ChildByFieldName("object")),
			Attr:  c.identifier(n.ChildByFieldName("attribute")),
		}
	case "member_type":
		kids := named(n)
		return &ast.Attribute{Pos: pos, Value: c.expr(kids[0]), Attr: c.identifier(kids[len(kids)-1])}
	case "subscript":
		return c.subscript(n)
	case "generic_type":
		kids := named(n)
		params := named(kids[1])
		return &ast.Subscript{
			Pos:   pos,
			Value: c.expr(kids[0]),
			Slice: c.index(c.exprs(params), len(params) > 1 || hasToken(kids[1], ","), c.pos(params[0])),
		}
	case "call":
		return c.call(n)

	case "binary_operator":
		op := n.ChildByFieldName("operator")
		return &ast.BinOp{
			Pos:   pos,
			Left:  c.expr(n.ChildByFieldName("left")),
			Op:    c.operator(op, ast.Add, ast.FloorDiv, op.Type()),
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "union_type":
		kids := named(n)
		return &ast.BinOp{Pos: pos, Left: c.expr(kids[0]), Op: ast.BitOr, Right: c.expr(kids[1])}
	case "unary_operator":
		return c.unary(n)
	case "not_operator":
		return &ast.UnaryOp{Pos: pos, Op: ast.Not, Operand: c.expr(n.ChildByFieldName("argument"))}
	case "boolean_operator":
		return c.boolOp(n)
	case "comparison_operator":
		return c.compare(n)

	case "lambda":
		return &ast.Lambda{
			Pos:  pos,
			Args: c.parameters(n.ChildByFieldName("parameters")),
			Body: c.expr(n.ChildByFieldName("body")),
		}
	case "conditional_expression":
		kids := named(n)
		return &ast.IfExp{Pos: pos, Body: c.expr(kids[0]), Test: c.expr(kids[1]), Orelse: c.expr(kids[2])}
	case "named_expression":
		if !c.g.NamedExpressions {
			c.fail(n, "assignment expressions require Python 3.8")
		}
		return &ast.NamedExpr{
			Pos:    pos,
			Target: c.expr(n.ChildByFieldName("name")),
			Value:  c.expr(n.ChildByFieldName("value")),
		}
	case "await":
		return &ast.Await{Pos: pos, Value: c.expr(named(n)[0])}
	case "yield":
		kids := named(n)
		if hasToken(n, "from") {
			return &ast.YieldFrom{Pos: pos, Value: c.expr(kids[0])}
		}
		y := &ast.Yield{Pos: pos}
		if len(kids) > 0 {
			y.Value = c.expr(kids[0])
		}
		return y
	}
	c.fail(n, "unsupported expression %s", n.Type())
	return nil
}

var singletons = map[string]ast.ConstKind{
	"true":  ast.ConstTrue,
	"false": ast.ConstFalse,
	"none":  ast.ConstNone,
}

func (c *converter) exprs(nodes []*sitter.Node) []ast.Expr {
	out := make([]ast.Expr, len(nodes))
	for i, n := range nodes {
		out[i] = c.expr(n)
	}
	return out
}

// exprList converts the comma-separated expressions that are direct
// children of n. A single expression without a trailing comma is returned
// as is; anything else is a tuple.
func (c *converter) exprList(n *sitter.Node, kids []*sitter.Node) ast.Expr {
	if len(kids) == 1 && !hasToken(n, ",") {
		return c.expr(kids[0])
	}
	return &ast.Tuple{Pos: c.pos(kids[0]), Elts: c.exprs(kids)}
}

// identifier returns the name n spells, normalized to NFKC as Python does.
func (c *converter) identifier(n *sitter.Node) string {
	id := c.text(n)
	for i := 0; i < len(id); i++ {
		if id[i] >= utf8.RuneSelf {
			return norm.NFKC.String(id)
		}
	}
	return id
}

// operator returns the operator in [lo, hi] with the given spelling.
func (c *converter) operator(n *sitter.Node, lo, hi ast.Operator, spelling string) ast.Operator {
	for op := lo; op <= hi; op++ {
		if slices.Contains(c.g.Spellings(op.String()), spelling) {
			return op
		}
	}
	c.fail(n, "operator %q is not valid for Python %v", spelling, c.g.Version)
	return ast.InvalidOperator
}

// augmented returns the binary operator of an augmented assignment.
func (c *converter) augmented(n *sitter.Node, spelling string) ast.Operator {
	for op := ast.Add; op <= ast.FloorDiv; op++ {
		if slices.Contains(c.g.AugmentedSpellings(op.String()), spelling) {
			return op
		}
	}
	c.fail(n, "operator %q is not valid for Python %v", spelling, c.g.Version)
	return ast.InvalidOperator
}

func (c *converter) unary(n *sitter.Node) ast.Expr {
	opNode := n.ChildByFieldName("operator")
	operand := n.ChildByFieldName("argument")
	op := c.operator(opNode, ast.Invert, ast.USub, opNode.Type())
	if op == ast.USub && c.g.Version.Major < 3 {
		switch operand.Type() {
		case "integer", "float":
			// Python 2 folds negative literals.
			return &ast.Constant{Pos: c.pos(n), Kind: ast.ConstNumber, Value: "-" + c.text(operand)}
		}
	}
	return &ast.UnaryOp{Pos: c.pos(n), Op: op, Operand: c.expr(operand)}
}

// boolOp converts a chain of "and" or "or" operators into one node. An
// operand in parentheses is a separate node.
func (c *converter) boolOp(n *sitter.Node) ast.Expr {
	opNode := n.ChildByFieldName("operator")
	b := &ast.BoolOp{Pos: c.pos(n), Op: c.operator(opNode, ast.And, ast.Or, opNode.Type())}
	var flatten func(operand *sitter.Node)
	flatten = func(operand *sitter.Node) {
		if operand.Type() == "boolean_operator" && operand.ChildByFieldName("operator").Type() == opNode.Type() {
			flatten(operand.ChildByFieldName("left"))
			flatten(operand.ChildByFieldName("right"))
			return
		}
		b.Values = append(b.Values, c.expr(operand))
	}
	flatten(n.ChildByFieldName("left"))
	flatten(n.ChildByFieldName("right"))
	return b
}

func (c *converter) compare(n *sitter.Node) ast.Expr {
	cmp := &ast.Compare{Pos: c.pos(n)}
	var (
		spelling string
		opNode   *sitter.Node
	)
	for _, child := range children(n) {
		if !child.IsNamed() {
			if spelling == "" {
				opNode = child
				spelling = child.Type()
			} else {
				spelling += " " + child.Type()
			}
			continue
		}
		e := c.expr(child)
		if cmp.Left == nil {
			cmp.Left = e
			continue
		}
		cmp.Ops = append(cmp.Ops, c.operator(opNode, ast.Eq, ast.NotIn, spelling))
		cmp.Comparators = append(cmp.Comparators, e)
		spelling = ""
	}
	return cmp
}

func (c *converter) dict(n *sitter.Node) ast.Expr {
	d := &ast.Dict{Pos: c.pos(n)}
	for _, item := range named(n) {
		switch item.Type() {
		case "pair":
			d.Keys = append(d.Keys, c.expr(item.ChildByFieldName("key")))
			d.Values = append(d.Values, c.expr(item.ChildByFieldName("value")))
		case "dictionary_splat":
			d.Keys = append(d.Keys, nil)
			d.Values = append(d.Values, c.expr(named(item)[0]))
		default:
			c.fail(item, "unsupported dictionary item %s", item.Type())
		}
	}
	return d
}

// comprehension returns the element and the generators of a comprehension.
// The element of a dict comprehension is nil.
func (c *converter) comprehension(n *sitter.Node) (ast.Expr, []*ast.Comprehension) {
	var (
		elt  ast.Expr
		gens []*ast.Comprehension
	)
	body := n.ChildByFieldName("body")
	if body.Type() != "pair" {
		elt = c.expr(body)
	}
	for _, clause := range named(n) {
		switch clause.Type() {
		case "for_in_clause":
			gens = append(gens, &ast.Comprehension{
				Target:  c.expr(clause.ChildByFieldName("left")),
				Iter:    c.exprList(clause, field(clause, "right")),
				IsAsync: hasToken(clause, "async"),
			})
		case "if_clause":
			last := gens[len(gens)-1]
			last.Ifs = append(last.Ifs, c.expr(named(clause)[0]))
		}
	}
	return elt, gens
}

func (c *converter) call(n *sitter.Node) ast.Expr {
	call := &ast.Call{Pos: c.pos(n), Func: c.expr(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args.Type() == "generator_expression" {
		call.Args = []ast.Expr{c.expr(args)}
		return call
	}
	call.Args, call.Keywords = c.callArgs(args)
	return call
}

// callArgs converts an argument list into positional and keyword
// arguments.
func (c *converter) callArgs(n *sitter.Node) ([]ast.Expr, []*ast.Keyword) {
	var (
		args     []ast.Expr
		keywords []*ast.Keyword
	)
	for _, arg := range named(n) {
		switch arg.Type() {
		case "keyword_argument":
			keywords = append(keywords, &ast.Keyword{
				Pos:   c.pos(arg),
				Arg:   c.identifier(arg.ChildByFieldName("name")),
				Value: c.expr(arg.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			keywords = append(keywords, &ast.Keyword{Pos: c.pos(arg), Value: c.expr(named(arg)[0])})
		default:
			args = append(args, c.expr(arg))
		}
	}
	return args, keywords
}

func (c *converter) subscript(n *sitter.Node) ast.Expr {
	dims := field(n, "subscript")
	elems := make([]ast.Expr, len(dims))
	for i, dim := range dims {
		switch {
		case dim.Type() == "slice":
			elems[i] = c.slice(dim)
		case dim.Type() == "ellipsis" && c.g.Version.Major < 3:
			// Only valid here, and without a position of its own.
			elems[i] = &ast.Constant{Kind: ast.ConstEllipsis}
		default:
			elems[i] = c.expr(dim)
		}
	}
	return &ast.Subscript{
		Pos:   c.pos(n),
		Value: c.expr(n.ChildByFieldName("value")),
		Slice: c.index(elems, len(dims) > 1 || hasToken(n, ","), c.pos(dims[0])),
	}
}

// index builds the slice of a subscript from its dimensions. Before 3.9,
// plain expressions are wrapped in Index and dimensions that include a
// slice in ExtSlice.
func (c *converter) index(elems []ast.Expr, tuple bool, first ast.Pos) ast.Expr {
	legacy := !c.g.Version.AtLeast(3, 9)
	if len(elems) == 1 && !tuple {
		if legacy && !isSliceLike(elems[0]) {
			return &ast.Index{Value: elems[0]}
		}
		return elems[0]
	}
	if !legacy {
		return &ast.Tuple{Pos: first, Elts: elems}
	}
	if !slices.ContainsFunc(elems, isSliceLike) {
		return &ast.Index{Value: &ast.Tuple{Pos: first, Elts: elems}}
	}
	dims := make([]ast.Expr, len(elems))
	for i, e := range elems {
		if isSliceLike(e) {
			dims[i] = e
		} else {
			dims[i] = &ast.Index{Value: e}
		}
	}
	return &ast.ExtSlice{Dims: dims}
}

func isSliceLike(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Slice:
		return true
	case *ast.Constant:
		return e.Kind == ast.ConstEllipsis && e.Lineno == 0
	}
	return false
}

func (c *converter) slice(n *sitter.Node) *ast.Slice {
	s := &ast.Slice{Pos: c.pos(n)}
	var colons []*sitter.Node
	for _, child := range children(n) {
		if child.Type() == ":" {
			colons = append(colons, child)
			continue
		}
		e := c.expr(child)
		switch len(colons) {
		case 0:
			s.Lower = e
		case 1:
			s.Upper = e
		default:
			s.Step = e
		}
	}
	if c.g.Version.Major < 3 && len(colons) == 2 && s.Step == nil {
		// Python 2 fills in a step of None, positioned at the second colon.
		s.Step = &ast.Name{Pos: c.pos(colons[1]), ID: "None"}
	}
	return s
}
