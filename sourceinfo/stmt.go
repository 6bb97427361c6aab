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
	"regexp"
	"strings"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/source"
)

var typeIgnoreRE = regexp.MustCompile(`#\s*(type:\s*ignore\b.*?)\s*$`)

func (v *visitor) functionType(n *ast.FunctionType) {
	parens := v.pairAfter(n, "(", v.tables.Parens, source.Pos(1, 0))
	v.markPair(n, "(", parens)
	returns := v.span(n.Returns)
	arrow := v.opBefore(n, "->", returns.First)
	v.mark(n, arrow)
	v.set(n, Span{First: parens.First, Last: returns.Last, Anchor: arrow.Last})
}

func (v *visitor) typeIgnore(n *ast.TypeIgnore) {
	line := v.file.Line(n.Lineno)
	loc := typeIgnoreRE.FindStringSubmatchIndex(line)
	if loc == nil {
		v.fail(n, `"type: ignore" comment`, source.Pos(n.Lineno, 0))
	}
	first := source.Pos(n.Lineno, v.file.CharColumn(n.Lineno, loc[2]))
	last := source.Pos(n.Lineno, v.file.CharColumn(n.Lineno, loc[3]))
	v.set(n, Span{First: first, Last: last, Anchor: last})
}

// header finds the keyword that starts a compound statement. Definitions
// that older parsers report at their first decorator are found after it.
func (v *visitor) header(n ast.Node, kw string, p ast.Pos, decorators []ast.Expr) OperatorMark {
	var m OperatorMark
	if len(decorators) > 0 && v.g.DecoratedDefAtDecorator {
		m = v.opAfter(n, kw, v.span(decorators[len(decorators)-1]).Last)
	} else {
		m = v.startByKeyword(n, kw, v.pos(p))
	}
	v.mark(n, m)
	return m
}

// decorate marks the "@" of each decorator and returns the start of the
// first one, or first if there are none.
func (v *visitor) decorate(n ast.Node, first source.Position, decorators []ast.Expr) source.Position {
	for _, dec := range decorators {
		at := v.opBefore(n, "@", v.span(dec).First)
		v.mark(n, at)
		first = source.MinPos(first, at.First)
	}
	return first
}

// typeParamList marks the brackets around type parameters, which start at
// or after p, and returns the end of the list.
func (v *visitor) typeParamList(n ast.Node, params []ast.TypeParam, p source.Position) source.Position {
	if len(params) == 0 {
		return p
	}
	brackets := v.pairAfter(n, "[", v.tables.Brackets, p)
	v.markPair(n, "[", brackets)
	return brackets.Last
}

// colon marks the colon that ends the header of a compound statement.
func (v *visitor) colon(n ast.Node, after source.Position) source.Position {
	m := v.opAfter(n, ":", after)
	v.mark(n, m)
	return m.Last
}

// clause marks the keyword and colon of a trailing clause such as else or
// finally. The keyword is the last one before the clause's first statement,
// and must come after last.
func (v *visitor) clause(n ast.Node, kw string, last source.Position, block []ast.Stmt) {
	if len(block) == 0 {
		return
	}
	first := v.span(block[0]).First
	m, ok := v.findOpBefore(kw, first)
	if !ok || m.First.Before(last) {
		return
	}
	v.mark(n, m)
	if colon, ok := v.findOpAfter(":", m.Last); ok && !colon.Last.After(first) {
		v.mark(n, colon)
	}
}

func (v *visitor) functionDef(n *ast.FunctionDef) {
	kw := "def"
	if n.IsAsync {
		kw = "async def"
	}
	m := v.header(n, kw, n.Pos, n.DecoratorList)
	name := v.nameAfter(n, n.Name, m.Last)
	after := v.typeParamList(n, n.TypeParams, name.Last)

	parens := v.pairAfter(n, "(", v.tables.Parens, after)
	v.markPair(n, "(", parens)
	v.setArguments(n.Args, parens.First.Shift(1), parens.Last.Shift(-1))
	after = parens.Last
	if n.Returns != nil {
		returns := v.span(n.Returns)
		v.mark(n, v.opBefore(n, "->", returns.First))
		after = returns.Last
	}
	end := v.colon(n, after)

	first := v.decorate(n, m.First, n.DecoratorList)
	v.set(n, Span{First: first, Last: v.lastOf(end, n.Body), Anchor: m.Last})
}

func (v *visitor) classDef(n *ast.ClassDef) {
	m := v.header(n, "class", n.Pos, n.DecoratorList)
	name := v.nameAfter(n, n.Name, m.Last)
	after := v.typeParamList(n, n.TypeParams, name.Last)
	if _, _, ok := source.FindNextCharacter(v.file, after, '('); ok {
		parens := v.pairAfter(n, "(", v.tables.Parens, after)
		v.markPair(n, "(", parens)
		v.markArgs(n, parens, n.Bases, n.Keywords)
		after = parens.Last
	}
	end := v.colon(n, after)

	first := v.decorate(n, m.First, n.DecoratorList)
	v.set(n, Span{First: first, Last: v.lastOf(end, n.Body), Anchor: m.Last})
}

func (v *visitor) assign(n *ast.Assign) {
	right := v.span(n.Value)
	last := right.Last
	for i := len(n.Targets) - 1; i >= 0; i-- {
		left := v.span(n.Targets[i])
		v.mark(n, v.infix(n, []string{"="}, left, right))
		right = left
	}
	v.set(n, Span{First: right.First, Last: last, Anchor: last})
}

func (v *visitor) augAssign(n *ast.AugAssign) {
	target, value := v.span(n.Target), v.span(n.Value)
	spellings := v.g.AugmentedSpellings(n.Op.String())
	if len(spellings) == 0 {
		v.fail(n, "augmented spelling of "+n.Op.String(), target.Last)
	}
	m := v.infix(n, spellings, target, value)
	v.mark(n, m)
	v.set(n, Span{First: target.First, Last: value.Last, Anchor: m.Last})
}

func (v *visitor) annAssign(n *ast.AnnAssign) {
	target, annotation := v.span(n.Target), v.span(n.Annotation)
	colon := v.infix(n, []string{":"}, target, annotation)
	v.mark(n, colon)
	s := Span{First: target.First, Last: annotation.Last, Anchor: colon.Last}
	if n.Value != nil {
		value := v.span(n.Value)
		v.mark(n, v.infix(n, []string{"="}, annotation, value))
		s.Last = value.Last
	}
	v.set(n, s)
}

func (v *visitor) typeAlias(n *ast.TypeAlias) {
	m := v.startByKeyword(n, "type", v.pos(n.Pos))
	v.mark(n, m)
	name, value := v.span(n.Name), v.span(n.Value)
	after := v.typeParamList(n, n.TypeParams, name.Last)
	v.mark(n, v.infix(n, []string{"="}, Span{Last: after}, value))
	v.set(n, Span{First: m.First, Last: value.Last, Anchor: m.Last})
}

func (v *visitor) forStmt(n *ast.For) {
	kw := "for"
	if n.IsAsync {
		kw = "async for"
	}
	m := v.header(n, kw, n.Pos, nil)
	iter := v.span(n.Iter)
	v.mark(n, v.opBefore(n, "in", iter.First))
	end := v.colon(n, iter.Last)
	body := v.lastOf(end, n.Body)
	v.clause(n, "else", body, n.Orelse)
	v.set(n, Span{First: m.First, Last: v.lastOf(body, n.Orelse), Anchor: m.Last})
}

func (v *visitor) whileStmt(n *ast.While) {
	m := v.header(n, "while", n.Pos, nil)
	end := v.colon(n, v.span(n.Test).Last)
	body := v.lastOf(end, n.Body)
	v.clause(n, "else", body, n.Orelse)
	v.set(n, Span{First: m.First, Last: v.lastOf(body, n.Orelse), Anchor: m.Last})
}

func (v *visitor) ifStmt(n *ast.If) {
	// An elif is recorded as an if.
	m := v.header(n, "if", n.Pos, nil)
	end := v.colon(n, v.span(n.Test).Last)
	body := v.lastOf(end, n.Body)
	if !v.isElif(n.Orelse) {
		v.clause(n, "else", body, n.Orelse)
	}
	v.set(n, Span{First: m.First, Last: v.lastOf(body, n.Orelse), Anchor: m.Last})
}

// isElif returns whether an else block is an elif clause.
func (v *visitor) isElif(orelse []ast.Stmt) bool {
	if len(orelse) != 1 {
		return false
	}
	if _, ok := orelse[0].(*ast.If); !ok {
		return false
	}
	return v.file.HasPrefixAt(v.span(orelse[0]).First, "elif")
}

func (v *visitor) with(n *ast.With) {
	kw := "with"
	if n.IsAsync {
		kw = "async with"
	}
	m := v.header(n, kw, n.Pos, nil)
	items := make([]Span, len(n.Items))
	for i, item := range n.Items {
		items[i] = v.span(item)
	}
	v.separators(n, items, source.Position{})
	end := v.colon(n, items[len(items)-1].Last)
	v.set(n, Span{First: m.First, Last: v.lastOf(end, n.Body), Anchor: m.Last})
}

func (v *visitor) withItem(n *ast.WithItem) {
	s := v.span(n.ContextExpr)
	if n.OptionalVars != nil {
		vars := v.span(n.OptionalVars)
		v.mark(n, v.opBefore(n, "as", vars.First))
		s.Last = vars.Last
	}
	v.set(n, s)
}

func (v *visitor) raise(n *ast.Raise) {
	v.keywordThen(n, "raise", n.Pos, n.Exc, n.Inst, n.Tback, n.Cause)
	if n.Inst != nil {
		operands := []ast.Expr{n.Exc, n.Inst}
		if n.Tback != nil {
			operands = append(operands, n.Tback)
		}
		v.commas(n, operands)
	}
	if n.Cause != nil {
		v.mark(n, v.opBefore(n, "from", v.span(n.Cause).First))
	}
}

func (v *visitor) try(n *ast.Try) {
	m := v.header(n, "try", n.Pos, nil)
	last := v.lastOf(v.colon(n, m.Last), n.Body)
	for _, h := range n.Handlers {
		if n.IsStar {
			v.mark(h, v.opAfter(h, "*", v.span(h).Anchor))
		}
		last = source.MaxPos(last, v.span(h).Last)
	}
	v.clause(n, "else", last, n.Orelse)
	last = v.lastOf(last, n.Orelse)
	v.clause(n, "finally", last, n.Finalbody)
	last = v.lastOf(last, n.Finalbody)
	v.set(n, Span{First: m.First, Last: last, Anchor: m.Last})
}

func (v *visitor) exceptHandler(n *ast.ExceptHandler) {
	m := v.header(n, "except", n.Pos, nil)
	after := m.Last
	if n.Type != nil {
		after = v.span(n.Type).Last
	}
	if n.Name != "" {
		name := v.nameAfter(n, n.Name, after)
		if as, ok := v.findOpBefore("as", name.First); ok && !as.First.Before(after) {
			v.mark(n, as)
		}
		after = name.Last
	}
	end := v.colon(n, after)
	v.set(n, Span{First: m.First, Last: v.lastOf(end, n.Body), Anchor: m.Last})
}

func (v *visitor) assert(n *ast.Assert) {
	v.keywordThen(n, "assert", n.Pos, n.Test, n.Msg)
	if n.Msg != nil {
		v.mark(n, v.opAfter(n, ",", v.span(n.Test).Last))
	}
}

func (v *visitor) importStmt(n *ast.Import) {
	m := v.startByKeyword(n, "import", v.pos(n.Pos))
	v.mark(n, m)
	last := m.Last
	for _, alias := range n.Names {
		last = v.alias(alias, last)
	}
	v.set(n, Span{First: m.First, Last: last, Anchor: m.Last})
}

func (v *visitor) importFrom(n *ast.ImportFrom) {
	m := v.startByKeyword(n, "from", v.pos(n.Pos))
	v.mark(n, m)
	imp := v.opAfter(n, "import", m.Last)
	v.mark(n, imp)
	last := imp.Last
	for _, alias := range n.Names {
		last = v.alias(alias, last)
	}
	if closeEnd, ok := source.FindNextParenthesis(v.file, last, v.tables.Parens); ok {
		open, _, _ := source.FindInBetween(last, v.tables.Parens)
		v.markPair(n, "(", source.Range{First: open, Last: closeEnd})
		last = closeEnd
	}
	v.set(n, Span{First: m.First, Last: last, Anchor: m.Last})
}

// alias computes the span of an imported name that starts at or after p,
// and returns its end.
func (v *visitor) alias(n *ast.Alias, p source.Position) source.Position {
	var first source.Position
	for i, part := range strings.Split(n.Name, ".") {
		var m OperatorMark
		if part == "*" {
			m = v.opAfter(n, "*", p)
		} else {
			m = v.nameAfter(n, part, p)
		}
		if i == 0 {
			first = m.First
		}
		p = m.Last
	}
	if n.AsName != "" {
		as := v.opAfter(n, "as", p)
		v.mark(n, as)
		p = v.nameAfter(n, n.AsName, as.Last).Last
	}
	v.set(n, Span{First: first, Last: p, Anchor: p})
	return p
}

// keywordAndNames computes the span of a global or nonlocal statement.
func (v *visitor) keywordAndNames(n ast.Node, kw string, p ast.Pos, names []string) {
	m := v.startByKeyword(n, kw, v.pos(p))
	v.mark(n, m)
	last := m.Last
	for _, name := range names {
		last = v.nameAfter(n, name, last).Last
	}
	v.set(n, Span{First: m.First, Last: last, Anchor: m.Last})
}

func (v *visitor) print(n *ast.Print) {
	v.keywordThen(n, "print", n.Pos, append([]ast.Expr{n.Dest}, n.Values...)...)
	if n.Dest != nil {
		v.mark(n, v.opBefore(n, ">>", v.span(n.Dest).First))
	}
	if !n.Nl && len(n.Values) > 0 {
		// A trailing comma suppresses the newline.
		info := v.info(n)
		if m, ok := v.findOpAfter(",", info.Last); ok && v.blank(info.Last, m.First) {
			v.mark(n, m)
			info.Last = m.Last
		}
	}
}

func (v *visitor) exec(n *ast.Exec) {
	v.keywordThen(n, "exec", n.Pos, n.Body, n.Globals, n.Locals)
	if n.Globals != nil {
		v.mark(n, v.opBefore(n, "in", v.span(n.Globals).First))
	}
	if n.Locals != nil {
		v.mark(n, v.opAfter(n, ",", v.span(n.Globals).Last))
	}
}
