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
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bufbuild/provenance/ast"
)

var typeIgnoreRE = regexp.MustCompile(`^#\s*type:\s*ignore\b(\S*)`)

func (c *converter) block(n *sitter.Node) []ast.Stmt {
	if n == nil {
		return nil
	}
	var out []ast.Stmt
	for _, child := range named(n) {
		out = append(out, c.stmt(child))
	}
	return out
}

func (c *converter) stmt(n *sitter.Node) ast.Stmt {
	pos := c.pos(n)
	switch n.Type() {
	case "expression_statement":
		return c.expressionStatement(n)
	case "return_statement":
		ret := &ast.Return{Pos: pos}
		if kids := named(n); len(kids) > 0 {
			ret.Value = c.expr(kids[0])
		}
		return ret
	case "delete_statement":
		del := &ast.Delete{Pos: pos}
		for _, target := range named(n) {
			if target.Type() == "expression_list" {
				del.Targets = append(del.Targets, c.exprs(named(target))...)
				continue
			}
			del.Targets = append(del.Targets, c.expr(target))
		}
		return del
	case "raise_statement":
		return c.raise(n)
	case "pass_statement":
		return &ast.Pass{Pos: pos}
	case "break_statement":
		return &ast.Break{Pos: pos}
	case "continue_statement":
		return &ast.Continue{Pos: pos}
	case "global_statement":
		return &ast.Global{Pos: pos, Names: c.names(n)}
	case "nonlocal_statement":
		return &ast.Nonlocal{Pos: pos, Names: c.names(n)}
	case "assert_statement":
		kids := named(n)
		a := &ast.Assert{Pos: pos, Test: c.expr(kids[0])}
		if len(kids) > 1 {
			a.Msg = c.expr(kids[1])
		}
		return a
	case "import_statement":
		imp := &ast.Import{Pos: pos}
		for _, name := range field(n, "name") {
			imp.Names = append(imp.Names, c.alias(name))
		}
		return imp
	case "import_from_statement", "future_import_statement":
		return c.importFrom(n)
	case "print_statement":
		return c.print(n)
	case "exec_statement":
		return c.exec(n)
	case "if_statement":
		return c.ifStatement(n)
	case "for_statement":
		return &ast.For{
			Pos:     pos,
			Target:  c.expr(n.ChildByFieldName("left")),
			Iter:    c.expr(n.ChildByFieldName("right")),
			Body:    c.block(n.ChildByFieldName("body")),
			Orelse:  c.elseBody(n.ChildByFieldName("alternative")),
			IsAsync: hasToken(n, "async"),
		}
	case "while_statement":
		return &ast.While{
			Pos:    pos,
			Test:   c.expr(n.ChildByFieldName("condition")),
			Body:   c.block(n.ChildByFieldName("body")),
			Orelse: c.elseBody(n.ChildByFieldName("alternative")),
		}
	case "try_statement":
		return c.try(n)
	case "with_statement":
		return c.with(n)
	case "function_definition":
		return c.functionDef(n, nil)
	case "class_definition":
		return c.classDef(n, nil)
	case "decorated_definition":
		return c.decorated(n)
	case "match_statement":
		return c.match(n)
	case "type_alias_statement":
		return c.typeAlias(n)
	default:
		c.fail(n, "unsupported statement %s", n.Type())
		return nil
	}
}

// expressionStatement converts a bare expression or an assignment.
func (c *converter) expressionStatement(n *sitter.Node) ast.Stmt {
	kids := named(n)
	if len(kids) == 1 {
		switch kids[0].Type() {
		case "assignment":
			return c.assignment(kids[0])
		case "augmented_assignment":
			return c.augAssign(kids[0])
		}
	}
	return &ast.ExprStmt{Pos: c.pos(n), Value: c.exprList(n, kids)}
}

func (c *converter) assignment(n *sitter.Node) ast.Stmt {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if typ := n.ChildByFieldName("type"); typ != nil {
		a := &ast.AnnAssign{
			Pos:        c.pos(n),
			Target:     c.expr(left),
			Annotation: c.expr(typ),
			Simple:     left.Type() == "identifier",
		}
		if right != nil {
			a.Value = c.expr(right)
		}
		return a
	}

	targets := []ast.Expr{c.expr(left)}
	for right.Type() == "assignment" && right.ChildByFieldName("type") == nil {
		targets = append(targets, c.expr(right.ChildByFieldName("left")))
		right = right.ChildByFieldName("right")
	}
	if right.Type() == "assignment" || right.Type() == "augmented_assignment" {
		c.fail(right, "invalid assignment target")
	}
	return &ast.Assign{Pos: c.pos(n), Targets: targets, Value: c.expr(right)}
}

func (c *converter) augAssign(n *sitter.Node) ast.Stmt {
	op := n.ChildByFieldName("operator")
	return &ast.AugAssign{
		Pos:    c.pos(n),
		Target: c.expr(n.ChildByFieldName("left")),
		Op:     c.augmented(op, op.Type()),
		Value:  c.expr(n.ChildByFieldName("right")),
	}
}

func (c *converter) raise(n *sitter.Node) ast.Stmt {
	r := &ast.Raise{Pos: c.pos(n)}
	for i := 0; i < int(n.ChildCount()); i++ {
		kid := n.Child(i)
		if !kid.IsNamed() || isExtra(kid) {
			continue
		}
		if n.FieldNameForChild(i) == "cause" {
			r.Cause = c.expr(kid)
			continue
		}
		if kid.Type() == "expression_list" && c.g.Version.Major < 3 {
			// "raise E, V, T" has up to three operands, not a tuple.
			ops := named(kid)
			if len(ops) > 3 {
				c.fail(kid, "too many operands for raise")
			}
			dst := []*ast.Expr{&r.Exc, &r.Inst, &r.Tback}
			for j, op := range ops {
				*dst[j] = c.expr(op)
			}
			continue
		}
		r.Exc = c.expr(kid)
	}
	return r
}

func (c *converter) names(n *sitter.Node) []string {
	var names []string
	for _, id := range named(n) {
		names = append(names, c.identifier(id))
	}
	return names
}

// alias converts an imported name, with or without "as".
func (c *converter) alias(n *sitter.Node) *ast.Alias {
	if n.Type() == "aliased_import" {
		return &ast.Alias{
			Pos:    c.pos(n),
			Name:   c.dotted(n.ChildByFieldName("name")),
			AsName: c.identifier(n.ChildByFieldName("alias")),
		}
	}
	return &ast.Alias{Pos: c.pos(n), Name: c.dotted(n)}
}

// dotted returns a dotted name without the whitespace it may contain.
func (c *converter) dotted(n *sitter.Node) string {
	if n.Type() != "dotted_name" {
		return c.identifier(n)
	}
	parts := make([]string, 0, n.NamedChildCount())
	for _, id := range named(n) {
		parts = append(parts, c.identifier(id))
	}
	return strings.Join(parts, ".")
}

func (c *converter) importFrom(n *sitter.Node) ast.Stmt {
	imp := &ast.ImportFrom{Pos: c.pos(n)}
	if n.Type() == "future_import_statement" {
		imp.Module = "__future__"
	} else {
		mod := n.ChildByFieldName("module_name")
		if mod.Type() == "relative_import" {
			for _, kid := range named(mod) {
				switch kid.Type() {
				case "import_prefix":
					imp.Level = strings.Count(c.text(kid), ".")
				case "dotted_name":
					imp.Module = c.dotted(kid)
				}
			}
		} else {
			imp.Module = c.dotted(mod)
		}
	}
	if star := firstOfType(n, "wildcard_import"); star != nil {
		imp.Names = []*ast.Alias{{Pos: c.pos(star), Name: "*"}}
		return imp
	}
	for _, name := range field(n, "name") {
		imp.Names = append(imp.Names, c.alias(name))
	}
	return imp
}

func (c *converter) print(n *sitter.Node) ast.Stmt {
	if !c.g.PrintStatement {
		c.fail(n, "print statement requires Python 2")
	}
	p := &ast.Print{Pos: c.pos(n), Nl: true}
	if chevron := firstOfType(n, "chevron"); chevron != nil {
		p.Dest = c.expr(named(chevron)[0])
	}
	p.Values = c.exprs(field(n, "argument"))
	if last := n.Child(int(n.ChildCount()) - 1); last.Type() == "," {
		p.Nl = false
	}
	return p
}

func (c *converter) exec(n *sitter.Node) ast.Stmt {
	if !c.g.ExecStatement {
		c.fail(n, "exec statement requires Python 2")
	}
	kids := named(n)
	e := &ast.Exec{Pos: c.pos(n), Body: c.expr(kids[0])}
	if len(kids) > 1 {
		e.Globals = c.expr(kids[1])
	}
	if len(kids) > 2 {
		e.Locals = c.expr(kids[2])
	}
	return e
}

// ifStatement converts an if statement. Each elif clause becomes an If
// nested in the else branch of the previous one.
func (c *converter) ifStatement(n *sitter.Node) ast.Stmt {
	top := &ast.If{
		Pos:  c.pos(n),
		Test: c.expr(n.ChildByFieldName("condition")),
		Body: c.block(n.ChildByFieldName("consequence")),
	}
	cur := top
	for _, alt := range field(n, "alternative") {
		switch alt.Type() {
		case "elif_clause":
			elif := &ast.If{
				Pos:  c.pos(alt),
				Test: c.expr(alt.ChildByFieldName("condition")),
				Body: c.block(alt.ChildByFieldName("consequence")),
			}
			cur.Orelse = []ast.Stmt{elif}
			cur = elif
		case "else_clause":
			cur.Orelse = c.block(alt.ChildByFieldName("body"))
		}
	}
	return top
}

func (c *converter) elseBody(n *sitter.Node) []ast.Stmt {
	if n == nil {
		return nil
	}
	return c.block(n.ChildByFieldName("body"))
}

func (c *converter) try(n *sitter.Node) ast.Stmt {
	t := &ast.Try{Pos: c.pos(n), Body: c.block(n.ChildByFieldName("body"))}
	for _, kid := range named(n) {
		switch kid.Type() {
		case "except_clause":
			t.Handlers = append(t.Handlers, c.handler(kid))
		case "except_group_clause":
			t.IsStar = true
			t.Handlers = append(t.Handlers, c.handler(kid))
		case "else_clause":
			t.Orelse = c.block(kid.ChildByFieldName("body"))
		case "finally_clause":
			t.Finalbody = c.block(firstOfType(kid, "block"))
		}
	}
	return t
}

func (c *converter) handler(n *sitter.Node) *ast.ExceptHandler {
	h := &ast.ExceptHandler{Pos: c.pos(n)}
	var kids []*sitter.Node
	for _, kid := range named(n) {
		if kid.Type() == "block" {
			h.Body = c.block(kid)
			continue
		}
		kids = append(kids, kid)
	}
	switch {
	case len(kids) == 1 && kids[0].Type() == "as_pattern":
		inner := named(kids[0])
		h.Type = c.expr(inner[0])
		h.Name = c.text(inner[len(inner)-1])
	case len(kids) > 0:
		h.Type = c.expr(kids[0])
		if len(kids) > 1 {
			h.Name = c.text(kids[1])
		}
	}
	return h
}

func (c *converter) with(n *sitter.Node) ast.Stmt {
	w := &ast.With{
		Pos:     c.pos(n),
		Body:    c.block(n.ChildByFieldName("body")),
		IsAsync: hasToken(n, "async"),
	}
	for _, clause := range named(n) {
		if clause.Type() != "with_clause" {
			continue
		}
		for _, item := range named(clause) {
			if item.Type() != "with_item" {
				continue
			}
			value := item.ChildByFieldName("value")
			wi := &ast.WithItem{}
			if value.Type() == "as_pattern" {
				inner := named(value)
				wi.ContextExpr = c.expr(inner[0])
				wi.OptionalVars = c.expr(inner[len(inner)-1])
			} else {
				wi.ContextExpr = c.expr(value)
			}
			w.Items = append(w.Items, wi)
		}
	}
	return w
}

func (c *converter) decorated(n *sitter.Node) ast.Stmt {
	var decorators []ast.Expr
	for _, dec := range named(n) {
		if dec.Type() == "decorator" {
			decorators = append(decorators, c.expr(named(dec)[0]))
		}
	}
	def := n.ChildByFieldName("definition")
	at := def
	if c.g.DecoratedDefAtDecorator {
		at = n
	}
	var stmt ast.Stmt
	switch def.Type() {
	case "function_definition":
		fn := c.functionDef(def, decorators)
		fn.Pos = c.pos(at)
		stmt = fn
	case "class_definition":
		cls := c.classDef(def, decorators)
		cls.Pos = c.pos(at)
		stmt = cls
	default:
		c.fail(def, "unsupported decorated definition %s", def.Type())
	}
	return stmt
}

func (c *converter) functionDef(n *sitter.Node, decorators []ast.Expr) *ast.FunctionDef {
	fn := &ast.FunctionDef{
		Pos:           c.pos(n),
		Name:          c.identifier(n.ChildByFieldName("name")),
		Args:          c.parameters(n.ChildByFieldName("parameters")),
		Body:          c.block(n.ChildByFieldName("body")),
		DecoratorList: decorators,
		TypeParams:    c.typeParams(n.ChildByFieldName("type_parameters")),
		IsAsync:       hasToken(n, "async"),
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = c.expr(ret)
	}
	return fn
}

func (c *converter) classDef(n *sitter.Node, decorators []ast.Expr) *ast.ClassDef {
	cls := &ast.ClassDef{
		Pos:           c.pos(n),
		Name:          c.identifier(n.ChildByFieldName("name")),
		Body:          c.block(n.ChildByFieldName("body")),
		DecoratorList: decorators,
		TypeParams:    c.typeParams(n.ChildByFieldName("type_parameters")),
	}
	if bases := n.ChildByFieldName("superclasses"); bases != nil {
		cls.Bases, cls.Keywords = c.callArgs(bases)
	}
	return cls
}

func (c *converter) match(n *sitter.Node) ast.Stmt {
	subjects := field(n, "subject")
	m := &ast.Match{Pos: c.pos(n)}
	if len(subjects) == 1 && !hasToken(n, ",") {
		m.Subject = c.expr(subjects[0])
	} else {
		m.Subject = &ast.Tuple{Pos: c.pos(subjects[0]), Elts: c.exprs(subjects)}
	}
	clauses := named(n.ChildByFieldName("body"))
	if len(clauses) == 0 {
		clauses = named(n)
	}
	for _, clause := range clauses {
		if clause.Type() == "case_clause" {
			m.Cases = append(m.Cases, c.matchCase(clause))
		}
	}
	return m
}

func (c *converter) matchCase(n *sitter.Node) *ast.MatchCase {
	mc := &ast.MatchCase{Body: c.block(n.ChildByFieldName("consequence"))}
	var patterns []*sitter.Node
	for _, kid := range named(n) {
		if kid.Type() == "case_pattern" {
			patterns = append(patterns, kid)
		}
	}
	if len(patterns) == 1 && !hasToken(n, ",") {
		mc.Pattern = c.pattern(patterns[0])
	} else {
		seq := &ast.MatchSequence{Pos: c.pos(patterns[0])}
		for _, p := range patterns {
			seq.Patterns = append(seq.Patterns, c.pattern(p))
		}
		mc.Pattern = seq
	}
	if guard := n.ChildByFieldName("guard"); guard != nil {
		mc.Guard = c.expr(named(guard)[0])
	}
	return mc
}

func (c *converter) typeAlias(n *sitter.Node) ast.Stmt {
	// The grammar gives the alias no fields: its named children are the
	// two types on either side of the "=".
	var types []*sitter.Node
	for _, kid := range named(n) {
		if kid.Type() == "type" {
			types = append(types, kid)
		}
	}
	if len(types) != 2 {
		c.fail(n, "malformed type alias")
	}
	left := unwrapType(types[0])
	ta := &ast.TypeAlias{Pos: c.pos(n), Value: c.expr(types[1])}
	switch left.Type() {
	case "generic_type":
		kids := named(left)
		ta.Name = &ast.Name{Pos: c.pos(kids[0]), ID: c.identifier(kids[0])}
		ta.TypeParams = c.typeParams(firstOfType(left, "type_parameter"))
	case "subscript":
		// "X[T]" may also come out as a subscript expression.
		if !c.g.TypeParams {
			c.fail(left, "type parameters require Python 3.12")
		}
		ta.Name = c.expr(left.ChildByFieldName("value"))
		for _, p := range field(left, "subscript") {
			switch p.Type() {
			case "identifier":
				ta.TypeParams = append(ta.TypeParams, &ast.TypeVar{Pos: c.pos(p), Name: c.identifier(p)})
			case "list_splat":
				name := named(p)[0]
				ta.TypeParams = append(ta.TypeParams, &ast.TypeVarTuple{Pos: c.pos(p), Name: c.identifier(name)})
			default:
				c.fail(p, "unsupported type parameter %s", p.Type())
			}
		}
	default:
		ta.Name = c.expr(left)
	}
	return ta
}

// typeIgnores returns a TypeIgnore for every "type: ignore" comment.
func (c *converter) typeIgnores(root *sitter.Node) []*ast.TypeIgnore {
	var out []*ast.TypeIgnore
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			if m := typeIgnoreRE.FindStringSubmatch(c.text(n)); m != nil {
				out = append(out, &ast.TypeIgnore{Lineno: int(n.StartPoint().Row) + 1, Tag: m[1]})
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}
