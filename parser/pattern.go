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
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bufbuild/provenance/ast"
)

// pattern converts a pattern of a case clause.
func (c *converter) pattern(n *sitter.Node) ast.Pattern {
	if !c.g.PatternMatching {
		c.fail(n, "match statements require Python 3.10")
	}
	if n.Type() == "case_pattern" {
		return c.patternOf(n, children(n))
	}
	return c.simplePattern(n)
}

// patternOf converts a pattern given as a run of sibling nodes, since
// tree-sitter inlines simple patterns such as "-1" and "_".
func (c *converter) patternOf(n *sitter.Node, parts []*sitter.Node) ast.Pattern {
	switch {
	case len(parts) == 1 && parts[0].Type() == "_":
		return &ast.MatchAs{Pos: c.pos(parts[0])}
	case len(parts) == 1:
		return c.simplePattern(parts[0])
	case len(parts) == 2 && parts[0].Type() == "-":
		return &ast.MatchValue{Pos: c.pos(parts[0]), Value: c.patternExpr(n, parts)}
	}
	c.fail(n, "unsupported pattern")
	return nil
}

func (c *converter) simplePattern(n *sitter.Node) ast.Pattern {
	pos := c.pos(n)
	switch n.Type() {
	case "case_pattern":
		return c.pattern(n)

	case "as_pattern":
		kids := named(n)
		return &ast.MatchAs{
			Pos:     pos,
			Pattern: c.pattern(kids[0]),
			Name:    c.text(kids[len(kids)-1]),
		}

	case "union_pattern":
		or := &ast.MatchOr{Pos: pos}
		var run []*sitter.Node
		for _, child := range children(n) {
			if child.Type() == "|" {
				or.Patterns = append(or.Patterns, c.patternOf(n, run))
				run = nil
				continue
			}
			run = append(run, child)
		}
		or.Patterns = append(or.Patterns, c.patternOf(n, run))
		return or

	case "list_pattern", "tuple_pattern":
		elems := named(n)
		if n.Type() == "tuple_pattern" && len(elems) == 1 && !hasToken(n, ",") {
			// Parentheses only group.
			return c.pattern(elems[0])
		}
		seq := &ast.MatchSequence{Pos: pos}
		for _, elem := range elems {
			seq.Patterns = append(seq.Patterns, c.pattern(elem))
		}
		return seq

	case "splat_pattern":
		star := &ast.MatchStar{Pos: pos}
		if id := firstOfType(n, "identifier"); id != nil && c.text(id) != "_" {
			star.Name = c.identifier(id)
		}
		return star

	case "dict_pattern":
		return c.mappingPattern(n)

	case "class_pattern":
		return c.classPattern(n)

	case "dotted_name":
		ids := named(n)
		if len(ids) == 1 {
			if c.text(ids[0]) == "_" {
				return &ast.MatchAs{Pos: pos}
			}
			return &ast.MatchAs{Pos: pos, Name: c.identifier(ids[0])}
		}
		return &ast.MatchValue{Pos: pos, Value: c.dottedExpr(n)}

	case "true", "false", "none":
		return &ast.MatchSingleton{Pos: pos, Value: singletons[n.Type()]}

	case "string", "concatenated_string", "integer", "float", "complex_pattern":
		return &ast.MatchValue{Pos: pos, Value: c.patternExpr(n, []*sitter.Node{n})}
	}
	c.fail(n, "unsupported pattern %s", n.Type())
	return nil
}

// patternExpr converts the expression of a value pattern or a mapping key.
func (c *converter) patternExpr(n *sitter.Node, parts []*sitter.Node) ast.Expr {
	if len(parts) == 2 && parts[0].Type() == "-" {
		return &ast.UnaryOp{Pos: c.pos(parts[0]), Op: ast.USub, Operand: c.expr(parts[1])}
	}
	if len(parts) != 1 {
		c.fail(n, "unsupported pattern value")
	}
	p := parts[0]
	switch p.Type() {
	case "complex_pattern":
		kids := children(p)
		var left ast.Expr
		rest := kids
		if kids[0].Type() == "-" {
			left = &ast.UnaryOp{Pos: c.pos(kids[0]), Op: ast.USub, Operand: c.expr(kids[1])}
			rest = kids[2:]
		} else {
			left = c.expr(kids[0])
			rest = kids[1:]
		}
		return &ast.BinOp{
			Pos:   c.pos(p),
			Left:  left,
			Op:    c.operator(rest[0], ast.Add, ast.Sub, rest[0].Type()),
			Right: c.expr(rest[1]),
		}
	case "dotted_name":
		return c.dottedExpr(p)
	case "true", "false", "none":
		return &ast.Constant{Pos: c.pos(p), Kind: singletons[p.Type()]}
	}
	return c.expr(p)
}

// dottedExpr converts a dotted name into a chain of attributes.
func (c *converter) dottedExpr(n *sitter.Node) ast.Expr {
	ids := named(n)
	var e ast.Expr = &ast.Name{Pos: c.pos(ids[0]), ID: c.identifier(ids[0])}
	for _, id := range ids[1:] {
		e = &ast.Attribute{Pos: c.pos(n), Value: e, Attr: c.identifier(id)}
	}
	return e
}

func (c *converter) mappingPattern(n *sitter.Node) ast.Pattern {
	m := &ast.MatchMapping{Pos: c.pos(n)}
	var (
		run, key []*sitter.Node
		value    bool
	)
	for _, child := range children(n) {
		switch child.Type() {
		case "{", "}", ",":
			run, value = nil, false
		case ":":
			key, run, value = run, nil, true
		case "splat_pattern":
			if id := firstOfType(child, "identifier"); id != nil {
				m.Rest = c.identifier(id)
			}
		default:
			if !value {
				run = append(run, child)
				continue
			}
			m.Keys = append(m.Keys, c.patternExpr(n, key))
			m.Patterns = append(m.Patterns, c.pattern(child))
			value = false
		}
	}
	return m
}

func (c *converter) classPattern(n *sitter.Node) ast.Pattern {
	kids := named(n)
	m := &ast.MatchClass{Pos: c.pos(n), Cls: c.dottedExpr(kids[0])}
	for _, arg := range kids[1:] {
		kw := arg
		if arg.Type() == "case_pattern" {
			if inner := named(arg); len(inner) == 1 && inner[0].Type() == "keyword_pattern" {
				kw = inner[0]
			}
		}
		if kw.Type() != "keyword_pattern" {
			m.Patterns = append(m.Patterns, c.pattern(arg))
			continue
		}
		parts := children(kw)
		m.KwdAttrs = append(m.KwdAttrs, c.identifier(parts[0]))
		m.KwdPatterns = append(m.KwdPatterns, c.patternOf(kw, parts[2:]))
	}
	return m
}
