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
	"fmt"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/internal/tokenindex"
	"github.com/bufbuild/provenance/source"
)

type visitor struct {
	file   *source.File
	g      *grammar.Grammar
	tables *tokenindex.Tables
	res    *Result

	// fields holds the brace pair of each replacement field, located by the
	// enclosing f-string before the field is visited.
	fields map[*ast.FormattedValue]source.Range
	// relative is the opening brace of the replacement field being visited
	// when the parser reports positions relative to it.
	relative *source.Position
}

// visit computes the spans of n and everything below it.
func (v *visitor) visit(n ast.Node) {
	switch n := n.(type) {
	case *ast.JoinedStr:
		v.joinedStr(n)
	case *ast.FormattedValue:
		v.formattedValue(n)
	case *ast.Subscript:
		v.subscript(n)
	case *ast.Slice, *ast.Index, *ast.ExtSlice:
		// Outside of a subscript, only the parts have spans.
		v.sliceParts(n.(ast.Expr))
	default:
		for _, child := range ast.Children(n) {
			v.visit(child)
		}
		v.compute(n)
	}
	if _, ok := n.(ast.Expr); ok {
		v.widen(n)
	}
}

// compute sets n's span, once those of its children are known.
func (v *visitor) compute(n ast.Node) {
	switch n := n.(type) {
	// Modules.
	case *ast.Module:
		v.set(n, v.bodySpan(n.Body))
	case *ast.Interactive:
		v.set(n, v.bodySpan(n.Body))
	case *ast.Expression:
		v.copySpan(n, n.Body)
	case *ast.FunctionType:
		v.functionType(n)
	case *ast.TypeIgnore:
		v.typeIgnore(n)

	// Statements.
	case *ast.FunctionDef:
		v.functionDef(n)
	case *ast.ClassDef:
		v.classDef(n)
	case *ast.Return:
		v.keywordThen(n, "return", n.Pos, n.Value)
	case *ast.Delete:
		v.keywordThen(n, "del", n.Pos, n.Targets...)
		v.commas(n, n.Targets)
	case *ast.Assign:
		v.assign(n)
	case *ast.TypeAlias:
		v.typeAlias(n)
	case *ast.AugAssign:
		v.augAssign(n)
	case *ast.AnnAssign:
		v.annAssign(n)
	case *ast.For:
		v.forStmt(n)
	case *ast.While:
		v.whileStmt(n)
	case *ast.If:
		v.ifStmt(n)
	case *ast.With:
		v.with(n)
	case *ast.Match:
		v.match(n)
	case *ast.Raise:
		v.raise(n)
	case *ast.Try:
		v.try(n)
	case *ast.Assert:
		v.assert(n)
	case *ast.Import:
		v.importStmt(n)
	case *ast.ImportFrom:
		v.importFrom(n)
	case *ast.Global:
		v.keywordAndNames(n, "global", n.Pos, n.Names)
	case *ast.Nonlocal:
		v.keywordAndNames(n, "nonlocal", n.Pos, n.Names)
	case *ast.ExprStmt:
		v.copySpan(n, n.Value)
	case *ast.Pass:
		v.keywordThen(n, "pass", n.Pos)
	case *ast.Break:
		v.keywordThen(n, "break", n.Pos)
	case *ast.Continue:
		v.keywordThen(n, "continue", n.Pos)
	case *ast.Print:
		v.print(n)
	case *ast.Exec:
		v.exec(n)

	// Expressions.
	case *ast.BoolOp:
		v.boolOp(n)
	case *ast.NamedExpr:
		v.namedExpr(n)
	case *ast.BinOp:
		v.binOp(n)
	case *ast.UnaryOp:
		v.unaryOp(n)
	case *ast.Lambda:
		v.lambda(n)
	case *ast.IfExp:
		v.ifExp(n)
	case *ast.Dict:
		v.dict(n)
	case *ast.Set:
		v.set(n, v.displaySpan(n, "{", v.tables.Braces, v.pos(n.Pos), n.Elts))
	case *ast.ListComp:
		v.comprehension(n, v.tables.Brackets, "[", n.Elt)
	case *ast.SetComp:
		v.comprehension(n, v.tables.Braces, "{", n.Elt)
	case *ast.DictComp:
		v.dictComp(n)
	case *ast.GeneratorExp:
		v.generatorExp(n)
	case *ast.Await:
		v.keywordThen(n, "await", n.Pos, n.Value)
	case *ast.Yield:
		v.keywordThen(n, "yield", n.Pos, n.Value)
	case *ast.YieldFrom:
		v.yieldFrom(n)
	case *ast.Compare:
		v.compare(n)
	case *ast.Call:
		v.call(n)
	case *ast.Constant:
		v.constant(n)
	case *ast.Attribute:
		v.attribute(n)
	case *ast.Starred:
		v.prefixed(n, "*", n.Value)
	case *ast.Name:
		v.name(n)
	case *ast.List:
		v.set(n, v.displaySpan(n, "[", v.tables.Brackets, v.pos(n.Pos), n.Elts))
	case *ast.Tuple:
		v.tuple(n)
	case *ast.Repr:
		v.repr(n)

	// Other nodes.
	case *ast.Comprehension:
		v.comprehensionClause(n)
	case *ast.ExceptHandler:
		v.exceptHandler(n)
	case *ast.Arguments:
		v.arguments(n)
	case *ast.Arg:
		v.arg(n)
	case *ast.Keyword:
		v.keyword(n)
	case *ast.Alias:
		// Aliases are positioned by the import that owns them.
	case *ast.WithItem:
		v.withItem(n)
	case *ast.MatchCase:
		v.matchCase(n)

	// Patterns and type parameters.
	case ast.Pattern:
		v.pattern(n)
	case ast.TypeParam:
		v.typeParam(n)

	default:
		panic(fmt.Sprintf("sourceinfo: unexpected node type %T", n))
	}
}

// info returns n's Info, creating it if needed.
func (v *visitor) info(n ast.Node) *Info {
	info := v.res.infos[n]
	if info == nil {
		info = &Info{}
		v.res.infos[n] = info
	}
	return info
}

func (v *visitor) span(n ast.Node) Span {
	return v.info(n).Span
}

func (v *visitor) set(n ast.Node, s Span) {
	v.info(n).Span = s
}

func (v *visitor) copySpan(n, from ast.Node) {
	v.set(n, v.span(from))
}

// mark records m on n, keeping the marks in source order.
func (v *visitor) mark(n ast.Node, m OperatorMark) {
	info := v.info(n)
	i := len(info.Marks)
	for i > 0 && m.First.Before(info.Marks[i-1].First) {
		i--
	}
	info.Marks = append(info.Marks, OperatorMark{})
	copy(info.Marks[i+1:], info.Marks[i:])
	info.Marks[i] = m
}

// pos converts a reported position into a Position.
func (v *visitor) pos(p ast.Pos) source.Position {
	line, col := p.Lineno, p.ColOffset
	if v.relative != nil {
		if line == 1 {
			col += v.file.ByteColumn(v.relative.Line, v.relative.Col)
		}
		line += v.relative.Line - 1
	}
	return source.Pos(line, v.file.CharColumn(line, col))
}

// cover returns the smallest span containing s and the span of each node.
// Nil nodes are skipped.
func (v *visitor) cover(s Span, nodes ...ast.Expr) Span {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		ns := v.span(n)
		if s.First.IsZero() && s.Last.IsZero() {
			s.First, s.Last = ns.First, ns.Last
			continue
		}
		s.First = source.MinPos(s.First, ns.First)
		s.Last = source.MaxPos(s.Last, ns.Last)
	}
	return s
}

// extend returns s with its last moved forward to the end of n.
func (v *visitor) extend(s Span, n ast.Node) Span {
	s.Last = source.MaxPos(s.Last, v.span(n).Last)
	return s
}

// bodySpan returns the span from the first to the last statement.
func (v *visitor) bodySpan(body []ast.Stmt) Span {
	if len(body) == 0 {
		return Span{}
	}
	s := Span{First: v.span(body[0]).First}
	for _, stmt := range body {
		s = v.extend(s, stmt)
	}
	s.Anchor = s.Last
	return s
}

// lastOf returns the end of the last statement of each non-empty block,
// whichever is furthest.
func (v *visitor) lastOf(last source.Position, blocks ...[]ast.Stmt) source.Position {
	for _, block := range blocks {
		if len(block) > 0 {
			last = source.MaxPos(last, v.span(block[len(block)-1]).Last)
		}
	}
	return last
}
