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

package sourceinfo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/lexer"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/sourceinfo"
)

var pos = source.Pos

func generate(t *testing.T, text string, tree ast.Node) *sourceinfo.Result {
	t.Helper()
	return generateWith(t, grammar.Latest(), text, tree)
}

func generateWith(t *testing.T, g *grammar.Grammar, text string, tree ast.Node) *sourceinfo.Result {
	t.Helper()
	file := source.NewFile("test.py", text)
	toks, err := lexer.Lex(file, g)
	require.NoError(t, err)
	res, err := sourceinfo.Generate(file, toks, tree, sourceinfo.WithGrammar(g))
	require.NoError(t, err)
	return res
}

func span(first, last, anchor source.Position) sourceinfo.Span {
	return sourceinfo.Span{First: first, Last: last, Anchor: anchor}
}

func mark(label string, first, last source.Position) sourceinfo.OperatorMark {
	return sourceinfo.OperatorMark{First: first, Last: last, Label: label}
}

func module(stmts ...ast.Stmt) *ast.Module {
	return &ast.Module{Body: stmts}
}

func exprStmt(e ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{Value: e}
}

func name(line, col int, id string) *ast.Name {
	return &ast.Name{Pos: ast.At(line, col), ID: id}
}

func num(line, col int, value string) *ast.Constant {
	return &ast.Constant{Pos: ast.At(line, col), Kind: ast.ConstNumber, Value: value}
}

func TestEmptyModule(t *testing.T) {
	t.Parallel()
	mod := module()
	res := generate(t, "", mod)
	assert.Equal(t, sourceinfo.Span{}, res.Span(mod))
	assert.Equal(t, 1, res.Len())
	assert.Empty(t, res.Text(mod))
}

func TestAttribute(t *testing.T) {
	t.Parallel()
	attr := &ast.Attribute{Pos: ast.At(2, 0), Value: name(2, 0, "a"), Attr: "b"}
	res := generate(t, "#bla\na.b", module(exprStmt(attr)))

	info := res.Info(attr)
	require.NotNil(t, info)
	assert.Equal(t, span(pos(2, 0), pos(2, 3), pos(2, 2)), info.Span)
	assert.Equal(t, []sourceinfo.OperatorMark{mark(".", pos(2, 1), pos(2, 2))}, info.Marks)
	assert.Equal(t, "a.b", res.Text(attr))
}

func TestNodesAt(t *testing.T) {
	t.Parallel()
	a := name(2, 0, "a")
	attr := &ast.Attribute{Pos: ast.At(2, 0), Value: a, Attr: "b"}
	stmt := exprStmt(attr)
	res := generate(t, "#bla\na.b", module(stmt))

	nodes := res.NodesAt(pos(2, 2))
	require.NotEmpty(t, nodes)
	assert.Same(t, ast.Node(attr), nodes[len(nodes)-1])
	assert.Contains(t, nodes, ast.Node(stmt))
	assert.NotContains(t, nodes, ast.Node(a))

	nodes = res.NodesAt(pos(2, 0))
	require.NotEmpty(t, nodes)
	assert.Same(t, ast.Node(a), nodes[len(nodes)-1])
}

func TestParenthesizedName(t *testing.T) {
	t.Parallel()
	z := name(2, 1, "z")
	res := generate(t, "#bla\n(z)", module(exprStmt(z)))

	info := res.Info(z)
	require.NotNil(t, info)
	assert.Equal(t, span(pos(2, 0), pos(2, 3), pos(2, 3)), info.Span)
	require.NotNil(t, info.Widened)
	assert.Equal(t, &sourceinfo.Widened{
		Before: source.Range{First: pos(2, 0), Last: pos(2, 1)},
		Inner:  span(pos(2, 1), pos(2, 2), pos(2, 2)),
		After:  source.Range{First: pos(2, 2), Last: pos(2, 3)},
	}, info.Widened)
}

func TestTuple(t *testing.T) {
	t.Parallel()
	t.Run("trailing comma", func(t *testing.T) {
		t.Parallel()
		tup := &ast.Tuple{Pos: ast.At(2, 0), Elts: []ast.Expr{num(2, 0, "1")}}
		res := generate(t, "#bla\n1,", module(exprStmt(tup)))
		assert.Equal(t, span(pos(2, 0), pos(2, 2), pos(2, 1)), res.Span(tup))
		assert.Equal(t, []sourceinfo.OperatorMark{mark(",", pos(2, 1), pos(2, 2))}, res.Info(tup).Marks)
	})
	t.Run("parenthesized over lines", func(t *testing.T) {
		t.Parallel()
		tup := &ast.Tuple{Pos: ast.At(2, 0), Elts: []ast.Expr{
			num(3, 0, "1"), num(3, 3, "2"), num(4, 0, "3"),
		}}
		res := generate(t, "#bla\n(\n1, 2,\n3\n)", module(exprStmt(tup)))
		assert.Equal(t, span(pos(2, 0), pos(5, 1), pos(3, 1)), res.Span(tup))
		assert.Len(t, res.Info(tup).Marks, 2)
	})
	t.Run("nested parentheses", func(t *testing.T) {
		t.Parallel()
		zero := num(2, 3, "0")
		tup := &ast.Tuple{Pos: ast.At(2, 1), Elts: []ast.Expr{
			zero, num(3, 0, "1"), num(3, 3, "2"), num(4, 0, "3"),
		}}
		res := generate(t, "#bla\n(((0),\n1, 2,\n3\n))", module(exprStmt(tup)))
		assert.Equal(t, span(pos(2, 2), pos(2, 5), pos(2, 5)), res.Span(zero))
		assert.Equal(t, span(pos(2, 0), pos(5, 2), pos(2, 5)), res.Span(tup))
		assert.Equal(t, pos(2, 2), res.Info(tup).Widened.Inner.First)
	})
	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		tup := &ast.Tuple{Pos: ast.At(2, 0)}
		res := generate(t, "#bla\n( )", module(exprStmt(tup)))
		assert.Equal(t, span(pos(2, 0), pos(2, 3), pos(2, 3)), res.Span(tup))
	})
}

func TestList(t *testing.T) {
	t.Parallel()
	list := &ast.List{Pos: ast.At(2, 0), Elts: []ast.Expr{
		num(3, 0, "1"), num(3, 3, "2"), num(4, 0, "3"),
	}}
	res := generate(t, "#bla\n[\n1, 2,\n3\n]", module(exprStmt(list)))
	assert.Equal(t, span(pos(2, 0), pos(5, 1), pos(5, 1)), res.Span(list))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("[", pos(2, 0), pos(2, 1)),
		mark(",", pos(3, 1), pos(3, 2)),
		mark(",", pos(3, 4), pos(3, 5)),
		mark("]", pos(5, 0), pos(5, 1)),
	}, res.Info(list).Marks)
}

func TestDict(t *testing.T) {
	t.Parallel()
	d := &ast.Dict{
		Pos:    ast.At(2, 0),
		Keys:   []ast.Expr{num(2, 1, "1"), nil},
		Values: []ast.Expr{num(2, 4, "2"), name(2, 9, "d")},
	}
	res := generate(t, "#bla\n{1: 2, **d}", module(exprStmt(d)))
	assert.Equal(t, span(pos(2, 0), pos(2, 11), pos(2, 11)), res.Span(d))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("{", pos(2, 0), pos(2, 1)),
		mark(":", pos(2, 2), pos(2, 3)),
		mark(",", pos(2, 5), pos(2, 6)),
		mark("**", pos(2, 7), pos(2, 9)),
		mark("}", pos(2, 10), pos(2, 11)),
	}, res.Info(d).Marks)
}

func TestCompareOnSeparateLines(t *testing.T) {
	t.Parallel()
	first := &ast.Compare{
		Pos: ast.At(2, 0), Left: num(2, 0, "2"),
		Ops: []ast.Operator{ast.NotEq}, Comparators: []ast.Expr{num(2, 5, "4")},
	}
	second := &ast.Compare{
		Pos: ast.At(3, 0), Left: num(3, 0, "5"),
		Ops: []ast.Operator{ast.NotEq}, Comparators: []ast.Expr{num(3, 5, "4")},
	}
	res := generate(t, "#bla\n2 != 4\n5 != 4", module(exprStmt(first), exprStmt(second)))

	assert.Equal(t, []sourceinfo.OperatorMark{mark("!=", pos(2, 2), pos(2, 4))}, res.Info(first).Marks)
	assert.Equal(t, []sourceinfo.OperatorMark{mark("!=", pos(3, 2), pos(3, 4))}, res.Info(second).Marks)
	assert.Equal(t, span(pos(2, 0), pos(2, 6), pos(2, 6)), res.Span(first))
}

func TestLegacyNotEqual(t *testing.T) {
	t.Parallel()
	g, err := grammar.ForVersion(grammar.Version{Major: 2, Minor: 7})
	require.NoError(t, err)
	cmp := &ast.Compare{
		Pos: ast.At(1, 0), Left: name(1, 0, "a"),
		Ops: []ast.Operator{ast.NotEq}, Comparators: []ast.Expr{name(1, 5, "b")},
	}
	res := generateWith(t, g, "a <> b\n", module(exprStmt(cmp)))
	assert.Equal(t, []sourceinfo.OperatorMark{mark("<>", pos(1, 2), pos(1, 4))}, res.Info(cmp).Marks)
}

func TestInfixPrefersNearerLine(t *testing.T) {
	t.Parallel()
	// "<>" is fewer columns from c, but "!=" is on its line.
	cmp := &ast.Compare{
		Pos: ast.At(1, 1), Left: name(1, 1, "a"),
		Ops: []ast.Operator{ast.NotEq}, Comparators: []ast.Expr{name(2, 4, "c")},
	}
	res := generateWith(t, mustGrammar(t, 2, 7), "(a <> b\n != c)\n", module(exprStmt(cmp)))
	assert.Equal(t, []sourceinfo.OperatorMark{mark("!=", pos(2, 1), pos(2, 3))}, res.Info(cmp).Marks)
}

func TestBoolOpAcrossLines(t *testing.T) {
	t.Parallel()
	or := &ast.BoolOp{
		Pos: ast.At(1, 1), Op: ast.Or,
		Values: []ast.Expr{name(1, 1, "a"), name(2, 1, "b"), name(3, 1, "c")},
	}
	res := generate(t, "(a or\n b or\n c)\n", module(exprStmt(or)))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("or", pos(1, 3), pos(1, 5)),
		mark("or", pos(2, 3), pos(2, 5)),
	}, res.Info(or).Marks)
	assert.Equal(t, source.Range{First: pos(1, 0), Last: pos(3, 3)}, res.Span(or).Range())
}

func TestRepr(t *testing.T) {
	t.Parallel()
	repr := &ast.Repr{Pos: ast.At(1, 4), Value: name(1, 5, "a")}
	assign := &ast.Assign{Pos: ast.At(1, 0), Targets: []ast.Expr{name(1, 0, "s")}, Value: repr}
	res := generateWith(t, mustGrammar(t, 2, 7), "s = `a`\n", module(assign))
	assert.Equal(t, span(pos(1, 4), pos(1, 7), pos(1, 7)), res.Span(repr))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("`", pos(1, 4), pos(1, 5)),
		mark("`", pos(1, 6), pos(1, 7)),
	}, res.Info(repr).Marks)
}

func TestBinOp(t *testing.T) {
	t.Parallel()
	bin := &ast.BinOp{Pos: ast.At(2, 0), Left: name(2, 0, "ab"), Op: ast.Add, Right: name(2, 3, "a")}
	res := generate(t, "#bla\nab+a", module(exprStmt(bin)))
	assert.Equal(t, span(pos(2, 0), pos(2, 4), pos(2, 3)), res.Span(bin))
}

func TestUnaryOpInParentheses(t *testing.T) {
	t.Parallel()
	un := &ast.UnaryOp{Pos: ast.At(2, 1), Op: ast.USub, Operand: name(3, 0, "a")}
	res := generate(t, "#bla\n(-\na)", module(exprStmt(un)))
	assert.Equal(t, span(pos(2, 0), pos(3, 2), pos(2, 2)), res.Span(un))
}

func TestCall(t *testing.T) {
	t.Parallel()
	t.Run("argument on next line", func(t *testing.T) {
		t.Parallel()
		two := num(3, 0, "2")
		call := &ast.Call{Pos: ast.At(2, 0), Func: name(2, 0, "fn"), Args: []ast.Expr{two}}
		res := generate(t, "#bla\nfn(\n2)", module(exprStmt(call)))
		assert.Equal(t, span(pos(2, 0), pos(3, 2), pos(3, 2)), res.Span(call))
		assert.Equal(t, span(pos(3, 0), pos(3, 1), pos(3, 1)), res.Span(two))
		assert.Nil(t, res.Info(two).Widened)
	})
	t.Run("keyword", func(t *testing.T) {
		t.Parallel()
		kw := &ast.Keyword{Pos: ast.At(2, 2), Arg: "a", Value: num(2, 4, "2")}
		call := &ast.Call{Pos: ast.At(2, 0), Func: name(2, 0, "f"), Keywords: []*ast.Keyword{kw}}
		res := generate(t, "#bla\nf(a=2)", module(exprStmt(call)))
		assert.Equal(t, span(pos(2, 2), pos(2, 5), pos(2, 4)), res.Span(kw))
	})
	t.Run("double star keyword", func(t *testing.T) {
		t.Parallel()
		kw := &ast.Keyword{Pos: ast.At(2, 5), Value: name(2, 7, "k")}
		call := &ast.Call{
			Pos: ast.At(2, 0), Func: name(2, 0, "f"),
			Args: []ast.Expr{name(2, 2, "x")}, Keywords: []*ast.Keyword{kw},
		}
		res := generate(t, "#bla\nf(x, **k)", module(exprStmt(call)))
		assert.Equal(t, span(pos(2, 5), pos(2, 8), pos(2, 7)), res.Span(kw))
		m, ok := res.Info(call).Mark(",")
		require.True(t, ok)
		assert.Equal(t, pos(2, 3), m.First)
	})
	t.Run("generator argument", func(t *testing.T) {
		t.Parallel()
		clause := &ast.Comprehension{Target: name(2, 8, "x"), Iter: name(2, 13, "y")}
		gen := &ast.GeneratorExp{Pos: ast.At(2, 1), Elt: name(2, 2, "x"), Generators: []*ast.Comprehension{clause}}
		call := &ast.Call{Pos: ast.At(2, 0), Func: name(2, 0, "f"), Args: []ast.Expr{gen}}
		res := generate(t, "#bla\nf(x for x in y)", module(exprStmt(call)))
		assert.Equal(t, span(pos(2, 0), pos(2, 15), pos(2, 15)), res.Span(call))
		assert.Equal(t, span(pos(2, 2), pos(2, 14), pos(2, 3)), res.Span(gen))
		assert.Nil(t, res.Info(gen).Widened)
		assert.Equal(t, span(pos(2, 4), pos(2, 14), pos(2, 7)), res.Span(clause))
		assert.Equal(t, []sourceinfo.OperatorMark{
			mark("for", pos(2, 4), pos(2, 7)),
			mark("in", pos(2, 10), pos(2, 12)),
		}, res.Info(clause).Marks)
	})
}

func TestLambda(t *testing.T) {
	t.Parallel()
	t.Run("continued body", func(t *testing.T) {
		t.Parallel()
		args := &ast.Arguments{Args: []*ast.Arg{
			{Pos: ast.At(2, 7), Arg: "x"},
			{Pos: ast.At(2, 10), Arg: "y"},
		}}
		lambda := &ast.Lambda{Pos: ast.At(2, 0), Args: args, Body: name(3, 0, "x")}
		res := generate(t, "#bla\nlambda x, y:\\\nx", module(exprStmt(lambda)))
		assert.Equal(t, span(pos(2, 0), pos(3, 1), pos(2, 12)), res.Span(lambda))
		assert.Equal(t, span(pos(2, 7), pos(2, 11), pos(2, 11)), res.Span(args))
	})
	t.Run("no parameters", func(t *testing.T) {
		t.Parallel()
		args := &ast.Arguments{}
		lambda := &ast.Lambda{Pos: ast.At(2, 0), Args: args, Body: num(2, 10, "2")}
		res := generate(t, "#bla\nlambda  : 2", module(exprStmt(lambda)))
		assert.Equal(t, span(pos(2, 8), pos(2, 8), pos(2, 8)), res.Span(args))
	})
}

func TestSlice(t *testing.T) {
	t.Parallel()
	t.Run("all parts", func(t *testing.T) {
		t.Parallel()
		slice := &ast.Slice{Lower: num(2, 2, "1"), Upper: num(2, 4, "2"), Step: num(2, 6, "3")}
		sub := &ast.Subscript{Pos: ast.At(2, 0), Value: name(2, 0, "a"), Slice: slice}
		res := generate(t, "#bla\na[1:2:3]", module(exprStmt(sub)))
		assert.Equal(t, span(pos(2, 2), pos(2, 7), pos(2, 4)), res.Span(slice))
		assert.Equal(t, span(pos(2, 0), pos(2, 8), pos(2, 8)), res.Span(sub))
		assert.Equal(t, []sourceinfo.OperatorMark{
			mark(":", pos(2, 3), pos(2, 4)),
			mark(":", pos(2, 5), pos(2, 6)),
		}, res.Info(slice).Marks)
	})
	t.Run("no parts", func(t *testing.T) {
		t.Parallel()
		slice := &ast.Slice{}
		sub := &ast.Subscript{Pos: ast.At(2, 0), Value: name(2, 0, "a"), Slice: slice}
		res := generate(t, "#bla\na[::]", module(exprStmt(sub)))
		assert.Equal(t, span(pos(2, 2), pos(2, 4), pos(2, 3)), res.Span(slice))
		assert.Len(t, res.Info(slice).Marks, 2)
	})
	t.Run("open upper", func(t *testing.T) {
		t.Parallel()
		slice := &ast.Slice{Lower: num(2, 2, "1")}
		sub := &ast.Subscript{Pos: ast.At(2, 0), Value: name(2, 0, "a"), Slice: slice}
		res := generate(t, "#bla\na[1:]", module(exprStmt(sub)))
		assert.Equal(t, span(pos(2, 2), pos(2, 4), pos(2, 4)), res.Span(slice))
	})
	t.Run("dimensions", func(t *testing.T) {
		t.Parallel()
		slice := &ast.Slice{Lower: num(2, 4, "1"), Upper: num(2, 6, "2")}
		dims := &ast.Tuple{Pos: ast.At(2, 2), Elts: []ast.Expr{num(2, 2, "3"), slice}}
		sub := &ast.Subscript{Pos: ast.At(2, 0), Value: name(2, 0, "a"), Slice: dims}
		res := generate(t, "#bla\na[3,1:2:]", module(exprStmt(sub)))
		assert.Equal(t, span(pos(2, 4), pos(2, 8), pos(2, 6)), res.Span(slice))
		assert.Equal(t, span(pos(2, 2), pos(2, 8), pos(2, 3)), res.Span(dims))
	})
}

func TestAssign(t *testing.T) {
	t.Parallel()
	assign := &ast.Assign{
		Pos:     ast.At(2, 0),
		Targets: []ast.Expr{name(2, 0, "a"), name(2, 4, "b"), name(2, 8, "c")},
		Value:   num(3, 0, "4"),
	}
	res := generate(t, "#bla\na = b = c =\\\n4", module(assign))
	assert.Equal(t, span(pos(2, 0), pos(3, 1), pos(3, 1)), res.Span(assign))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("=", pos(2, 2), pos(2, 3)),
		mark("=", pos(2, 6), pos(2, 7)),
		mark("=", pos(2, 10), pos(2, 11)),
	}, res.Info(assign).Marks)
}

func TestAnnAssign(t *testing.T) {
	t.Parallel()
	ann := &ast.AnnAssign{
		Pos:        ast.At(2, 0),
		Target:     name(2, 0, "a"),
		Annotation: name(2, 3, "int"),
		Value:      num(2, 9, "1"),
		Simple:     true,
	}
	res := generate(t, "#bla\na: int = 1", module(ann))
	assert.Equal(t, span(pos(2, 0), pos(2, 10), pos(2, 2)), res.Span(ann))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark(":", pos(2, 1), pos(2, 2)),
		mark("=", pos(2, 7), pos(2, 8)),
	}, res.Info(ann).Marks)
}

func TestAugAssign(t *testing.T) {
	t.Parallel()
	aug := &ast.AugAssign{Pos: ast.At(1, 0), Target: name(1, 0, "x"), Op: ast.FloorDiv, Value: num(1, 6, "2")}
	res := generate(t, "x //= 2\n", module(aug))
	assert.Equal(t, span(pos(1, 0), pos(1, 7), pos(1, 5)), res.Span(aug))
}

func TestIfElif(t *testing.T) {
	t.Parallel()
	inner := &ast.If{
		Pos:  ast.At(4, 0),
		Test: name(4, 5, "b"),
		Body: []ast.Stmt{&ast.Pass{Pos: ast.At(5, 4)}},
	}
	outer := &ast.If{
		Pos:    ast.At(2, 0),
		Test:   name(2, 3, "a"),
		Body:   []ast.Stmt{&ast.Pass{Pos: ast.At(3, 4)}},
		Orelse: []ast.Stmt{inner},
	}
	res := generate(t, "#bla\nif a:\n    pass\nelif b:\n    pass", module(outer))
	assert.Equal(t, span(pos(2, 0), pos(5, 8), pos(2, 2)), res.Span(outer))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("if", pos(2, 0), pos(2, 2)),
		mark(":", pos(2, 4), pos(2, 5)),
	}, res.Info(outer).Marks)
	assert.Equal(t, span(pos(4, 0), pos(5, 8), pos(4, 4)), res.Span(inner))
}

func TestIfElse(t *testing.T) {
	t.Parallel()
	stmt := &ast.If{
		Pos:    ast.At(1, 0),
		Test:   name(1, 3, "a"),
		Body:   []ast.Stmt{&ast.Pass{Pos: ast.At(2, 4)}},
		Orelse: []ast.Stmt{&ast.Break{Pos: ast.At(4, 4)}},
	}
	res := generate(t, "if a:\n    pass\nelse:\n    break\n", module(stmt))
	assert.Equal(t, span(pos(1, 0), pos(4, 9), pos(1, 2)), res.Span(stmt))
	m, ok := res.Info(stmt).Mark("else")
	require.True(t, ok)
	assert.Equal(t, mark("else", pos(3, 0), pos(3, 4)), m)
}

func TestFunctionDef(t *testing.T) {
	t.Parallel()
	args := &ast.Arguments{
		Args:     []*ast.Arg{{Pos: ast.At(3, 6), Arg: "x"}, {Pos: ast.At(3, 9), Arg: "y"}},
		Defaults: []ast.Expr{num(3, 11, "2")},
	}
	def := &ast.FunctionDef{
		Pos:           ast.At(3, 0),
		Name:          "f",
		Args:          args,
		Body:          []ast.Stmt{&ast.Pass{Pos: ast.At(4, 4)}},
		DecoratorList: []ast.Expr{name(2, 1, "dec")},
		Returns:       name(3, 17, "int"),
	}
	res := generateWith(t, mustGrammar(t, 3, 12), "#bla\n@dec\ndef f(x, y=2) -> int:\n    pass", module(def))

	assert.Equal(t, span(pos(2, 0), pos(4, 8), pos(3, 3)), res.Span(def))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("@", pos(2, 0), pos(2, 1)),
		mark("def", pos(3, 0), pos(3, 3)),
		mark("(", pos(3, 5), pos(3, 6)),
		mark(")", pos(3, 12), pos(3, 13)),
		mark("->", pos(3, 14), pos(3, 16)),
		mark(":", pos(3, 20), pos(3, 21)),
	}, res.Info(def).Marks)
	assert.Equal(t, span(pos(3, 6), pos(3, 12), pos(3, 12)), res.Span(args))
	assert.Equal(t, []sourceinfo.OperatorMark{mark("=", pos(3, 10), pos(3, 11))}, res.Info(args).Marks)
}

func TestDecoratedDefAtDecorator(t *testing.T) {
	t.Parallel()
	// Older parsers report a decorated definition at its first decorator.
	def := &ast.FunctionDef{
		Pos:           ast.At(1, 0),
		Name:          "f",
		Args:          &ast.Arguments{},
		Body:          []ast.Stmt{&ast.Pass{Pos: ast.At(2, 9)}},
		DecoratorList: []ast.Expr{name(1, 1, "dec")},
	}
	res := generateWith(t, mustGrammar(t, 3, 7), "@dec\ndef f(): pass\n", module(def))
	assert.Equal(t, span(pos(1, 0), pos(2, 13), pos(2, 3)), res.Span(def))
}

func TestClassDef(t *testing.T) {
	t.Parallel()
	t.Run("without bases", func(t *testing.T) {
		t.Parallel()
		class := &ast.ClassDef{Pos: ast.At(1, 0), Name: "A", Body: []ast.Stmt{&ast.Pass{Pos: ast.At(1, 9)}}}
		res := generate(t, "class A: pass\n", module(class))
		assert.Equal(t, span(pos(1, 0), pos(1, 13), pos(1, 5)), res.Span(class))
	})
	t.Run("bases and keywords", func(t *testing.T) {
		t.Parallel()
		kw := &ast.Keyword{Pos: ast.At(1, 11), Arg: "metaclass", Value: name(1, 21, "M")}
		class := &ast.ClassDef{
			Pos:      ast.At(1, 0),
			Name:     "A",
			Bases:    []ast.Expr{name(1, 8, "B")},
			Keywords: []*ast.Keyword{kw},
			Body:     []ast.Stmt{&ast.Pass{Pos: ast.At(2, 4)}},
		}
		res := generate(t, "class A(B, metaclass=M):\n    pass\n", module(class))
		assert.Equal(t, span(pos(1, 0), pos(2, 8), pos(1, 5)), res.Span(class))
		assert.Equal(t, span(pos(1, 11), pos(1, 22), pos(1, 21)), res.Span(kw))
		m, ok := res.Info(class).Mark(",")
		require.True(t, ok)
		assert.Equal(t, pos(1, 9), m.First)
	})
}

func TestTryExcept(t *testing.T) {
	t.Parallel()
	handler := &ast.ExceptHandler{
		Pos:  ast.At(4, 0),
		Type: name(4, 7, "E"),
		Name: "e",
		Body: []ast.Stmt{exprStmt(name(5, 4, "b"))},
	}
	try := &ast.Try{
		Pos:      ast.At(2, 0),
		Body:     []ast.Stmt{exprStmt(name(3, 4, "a"))},
		Handlers: []*ast.ExceptHandler{handler},
	}
	res := generate(t, "#bla\ntry:\n    a\nexcept E as e:\n    b", module(try))
	assert.Equal(t, span(pos(4, 0), pos(5, 5), pos(4, 6)), res.Span(handler))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("except", pos(4, 0), pos(4, 6)),
		mark("as", pos(4, 9), pos(4, 11)),
		mark(":", pos(4, 13), pos(4, 14)),
	}, res.Info(handler).Marks)
	assert.Equal(t, span(pos(2, 0), pos(5, 5), pos(2, 3)), res.Span(try))
}

func TestWithItem(t *testing.T) {
	t.Parallel()
	item := &ast.WithItem{ContextExpr: name(2, 5, "a"), OptionalVars: name(2, 10, "b")}
	with := &ast.With{Pos: ast.At(2, 0), Items: []*ast.WithItem{item}, Body: []ast.Stmt{&ast.Pass{Pos: ast.At(3, 4)}}}
	res := generate(t, "#bla\nwith a as b:\n    pass", module(with))
	assert.Equal(t, span(pos(2, 5), pos(2, 11), pos(2, 6)), res.Span(item))
	assert.Equal(t, span(pos(2, 0), pos(3, 8), pos(2, 4)), res.Span(with))
}

func TestImport(t *testing.T) {
	t.Parallel()
	t.Run("dotted with alias", func(t *testing.T) {
		t.Parallel()
		first := &ast.Alias{Pos: ast.At(2, 7), Name: "a.b", AsName: "c"}
		second := &ast.Alias{Pos: ast.At(2, 17), Name: "d"}
		imp := &ast.Import{Pos: ast.At(2, 0), Names: []*ast.Alias{first, second}}
		res := generate(t, "#bla\nimport a.b as c, d", module(imp))
		assert.Equal(t, span(pos(2, 0), pos(2, 18), pos(2, 6)), res.Span(imp))
		assert.Equal(t, span(pos(2, 7), pos(2, 15), pos(2, 15)), res.Span(first))
		assert.Equal(t, []sourceinfo.OperatorMark{mark("as", pos(2, 11), pos(2, 13))}, res.Info(first).Marks)
		assert.Equal(t, span(pos(2, 17), pos(2, 18), pos(2, 18)), res.Span(second))
	})
	t.Run("parenthesized from", func(t *testing.T) {
		t.Parallel()
		imp := &ast.ImportFrom{Pos: ast.At(2, 0), Level: 1, Names: []*ast.Alias{
			{Pos: ast.At(2, 15), Name: "a"},
			{Pos: ast.At(2, 18), Name: "b"},
		}}
		res := generate(t, "#bla\nfrom . import (a, b,)", module(imp))
		assert.Equal(t, span(pos(2, 0), pos(2, 21), pos(2, 4)), res.Span(imp))
		assert.Equal(t, []sourceinfo.OperatorMark{
			mark("from", pos(2, 0), pos(2, 4)),
			mark("import", pos(2, 7), pos(2, 13)),
			mark("(", pos(2, 14), pos(2, 15)),
			mark(")", pos(2, 20), pos(2, 21)),
		}, res.Info(imp).Marks)
	})
}

func TestTypeIgnore(t *testing.T) {
	t.Parallel()
	first := &ast.TypeIgnore{Lineno: 1}
	second := &ast.TypeIgnore{Lineno: 2, Tag: "[attr]"}
	mod := &ast.Module{
		Body: []ast.Stmt{
			&ast.Assign{Pos: ast.At(1, 0), Targets: []ast.Expr{name(1, 0, "x")}, Value: num(1, 4, "1")},
			&ast.Assign{Pos: ast.At(2, 0), Targets: []ast.Expr{name(2, 0, "y")}, Value: num(2, 4, "2")},
		},
		TypeIgnores: []*ast.TypeIgnore{first, second},
	}
	res := generate(t, "x = 1  # type: ignore\ny = 2 #type:ignore[attr]  \n", mod)
	assert.Equal(t, span(pos(1, 9), pos(1, 21), pos(1, 21)), res.Span(first))
	assert.Equal(t, span(pos(2, 7), pos(2, 24), pos(2, 24)), res.Span(second))
	assert.Equal(t, "type:ignore[attr]", res.Text(second))
}

func TestFString(t *testing.T) {
	t.Parallel()
	w := name(2, 13, "w")
	inner := &ast.FormattedValue{Pos: ast.At(2, 12), Value: w, Conversion: -1}
	spec := &ast.JoinedStr{Pos: ast.At(2, 11), Values: []ast.Expr{
		&ast.Constant{Pos: ast.At(2, 11), Kind: ast.ConstString, Value: ">"},
		inner,
	}}
	a := name(2, 7, "a")
	field := &ast.FormattedValue{Pos: ast.At(2, 6), Value: a, Conversion: 'r', FormatSpec: spec}
	str := &ast.JoinedStr{Pos: ast.At(2, 4), Values: []ast.Expr{field}}
	assign := &ast.Assign{Pos: ast.At(2, 0), Targets: []ast.Expr{name(2, 0, "x")}, Value: str}

	res := generate(t, "#bla\nx = f'{a!r:>{w}}'", module(assign))
	assert.Equal(t, span(pos(2, 4), pos(2, 17), pos(2, 17)), res.Span(str))
	assert.Equal(t, span(pos(2, 6), pos(2, 16), pos(2, 16)), res.Span(field))
	assert.Equal(t, []sourceinfo.OperatorMark{
		mark("{", pos(2, 6), pos(2, 7)),
		mark(":", pos(2, 10), pos(2, 11)),
		mark("}", pos(2, 15), pos(2, 16)),
	}, res.Info(field).Marks)
	assert.Equal(t, span(pos(2, 7), pos(2, 8), pos(2, 8)), res.Span(a))
	assert.Equal(t, span(pos(2, 11), pos(2, 15), pos(2, 15)), res.Span(spec))
	assert.Equal(t, span(pos(2, 12), pos(2, 15), pos(2, 15)), res.Span(inner))
	assert.Equal(t, span(pos(2, 13), pos(2, 14), pos(2, 14)), res.Span(w))
}

func TestFStringRelativePositions(t *testing.T) {
	t.Parallel()
	// Before 3.8, expressions in replacement fields are positioned relative
	// to the field's opening brace.
	a := name(1, 1, "a")
	field := &ast.FormattedValue{Pos: ast.At(2, 0), Value: a, Conversion: -1}
	str := &ast.JoinedStr{Pos: ast.At(2, 0), Values: []ast.Expr{field}}
	res := generateWith(t, mustGrammar(t, 3, 7), "#bla\nf'{a}'", module(exprStmt(str)))
	assert.Equal(t, span(pos(2, 0), pos(2, 6), pos(2, 6)), res.Span(str))
	assert.Equal(t, span(pos(2, 3), pos(2, 4), pos(2, 4)), res.Span(a))
}

func TestMatch(t *testing.T) {
	t.Parallel()
	seq := &ast.MatchSequence{Pos: ast.At(3, 9), Patterns: []ast.Pattern{
		&ast.MatchAs{Pos: ast.At(3, 10), Name: "a"},
		&ast.MatchStar{Pos: ast.At(3, 13), Name: "rest"},
	}}
	wildcard := &ast.MatchAs{Pos: ast.At(5, 9)}
	first := &ast.MatchCase{Pattern: seq, Body: []ast.Stmt{&ast.Pass{Pos: ast.At(4, 8)}}}
	second := &ast.MatchCase{Pattern: wildcard, Guard: name(5, 14, "x"), Body: []ast.Stmt{&ast.Pass{Pos: ast.At(6, 8)}}}
	match := &ast.Match{Pos: ast.At(2, 0), Subject: name(2, 6, "x"), Cases: []*ast.MatchCase{first, second}}

	text := "#bla\nmatch x:\n    case [a, *rest]:\n        pass\n    case _ if x:\n        pass\n"
	res := generate(t, text, module(match))
	assert.Equal(t, span(pos(2, 0), pos(6, 12), pos(2, 5)), res.Span(match))
	assert.Equal(t, span(pos(3, 9), pos(3, 19), pos(3, 19)), res.Span(seq))
	assert.Equal(t, span(pos(3, 13), pos(3, 18), pos(3, 14)), res.Span(seq.Patterns[1]))
	assert.Equal(t, span(pos(5, 9), pos(5, 10), pos(5, 10)), res.Span(wildcard))
	assert.Equal(t, span(pos(5, 4), pos(6, 12), pos(5, 8)), res.Span(second))
	m, ok := res.Info(second).Mark("if")
	require.True(t, ok)
	assert.Equal(t, pos(5, 11), m.First)
}

func TestInconsistentTree(t *testing.T) {
	t.Parallel()
	// The tree claims an assignment, but the text has no "=".
	assign := &ast.Assign{Pos: ast.At(2, 0), Targets: []ast.Expr{name(2, 0, "a")}, Value: name(2, 2, "b")}
	file := source.NewFile("test.py", "#bla\na.b")
	toks, err := lexer.Lex(file, grammar.Latest())
	require.NoError(t, err)

	res, err := sourceinfo.Generate(file, toks, module(assign))
	require.Error(t, err)
	assert.Nil(t, res)

	var ie *reporter.InconsistencyError
	require.True(t, errors.As(err, &ie))
	assert.Same(t, assign, ie.Node)

	var ewp reporter.ErrorWithPos
	require.True(t, errors.As(err, &ewp))
	assert.Equal(t, "test.py", ewp.GetPosition().Filename)
	assert.Equal(t, ie.Pos, ewp.GetPosition().Position)
}

func mustGrammar(t *testing.T, major, minor int) *grammar.Grammar {
	t.Helper()
	g, err := grammar.ForVersion(grammar.Version{Major: major, Minor: minor})
	require.NoError(t, err)
	return g
}
