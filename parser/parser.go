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
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
)

// Parse parses the given file as a module. Positions in the returned tree
// follow the conventions of the given grammar, or of [grammar.Latest] if it
// is nil.
//
// Syntax errors are sent to handler. The returned error is the one handler
// reports; when it is non-nil, the returned tree is nil.
func Parse(ctx context.Context, file *source.File, g *grammar.Grammar, handler *reporter.Handler) (ast.Mod, error) {
	var mod *ast.Module
	err := run(ctx, file, g, handler, func(c *converter, root *sitter.Node) {
		mod = &ast.Module{Body: c.block(root), TypeIgnores: c.typeIgnores(root)}
	})
	if err != nil {
		return nil, err
	}
	return mod, nil
}

// ParseInteractive parses the given file as a single interactive input.
func ParseInteractive(ctx context.Context, file *source.File, g *grammar.Grammar, handler *reporter.Handler) (ast.Mod, error) {
	var mod *ast.Interactive
	err := run(ctx, file, g, handler, func(c *converter, root *sitter.Node) {
		mod = &ast.Interactive{Body: c.block(root)}
	})
	if err != nil {
		return nil, err
	}
	return mod, nil
}

// ParseExpression parses the given file as a single expression.
func ParseExpression(ctx context.Context, file *source.File, g *grammar.Grammar, handler *reporter.Handler) (ast.Mod, error) {
	var mod *ast.Expression
	err := run(ctx, file, g, handler, func(c *converter, root *sitter.Node) {
		stmts := named(root)
		if len(stmts) != 1 || stmts[0].Type() != "expression_statement" {
			c.fail(root, "expected a single expression")
		}
		stmt, ok := c.expressionStatement(stmts[0]).(*ast.ExprStmt)
		if !ok {
			c.fail(stmts[0], "expected an expression, found an assignment")
		}
		mod = &ast.Expression{Body: stmt.Value}
	})
	if err != nil {
		return nil, err
	}
	return mod, nil
}

// run parses file and, if it has no syntax errors, calls build with the
// root of the concrete tree.
func run(ctx context.Context, file *source.File, g *grammar.Grammar, handler *reporter.Handler, build func(*converter, *sitter.Node)) (err error) {
	if g == nil {
		g = grammar.Latest()
	}
	if handler == nil {
		handler = reporter.NewHandler(nil)
	}
	c := &converter{file: file, src: []byte(file.Text()), g: g}

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(python.GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, c.src)
	if err != nil {
		return err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		syntaxErrors(root, func(n *sitter.Node) bool {
			return handler.HandleErrorf(c.sourcePos(n), "syntax error: %s", describe(n, c.src)) == nil
		})
		return handler.Error()
	}

	defer func() {
		if r := recover(); r != nil {
			ue, ok := r.(*unsupportedError)
			if !ok {
				panic(r)
			}
			if herr := handler.HandleErrorf(c.sourcePos(ue.node), "%s", ue.msg); herr != nil {
				err = herr
				return
			}
			err = handler.Error()
		}
	}()
	build(c, root)
	return handler.Error()
}

// unsupportedError aborts the conversion of a tree that tree-sitter accepted
// but that has no counterpart in Python's ast module.
type unsupportedError struct {
	node *sitter.Node
	msg  string
}

// converter turns tree-sitter nodes into ast nodes.
type converter struct {
	file *source.File
	src  []byte
	g    *grammar.Grammar

	// brace is the opening brace of the replacement field being converted,
	// when the grammar positions f-string expressions relative to it.
	brace *sitter.Point
}

func (c *converter) fail(n *sitter.Node, format string, args ...any) {
	panic(&unsupportedError{node: n, msg: fmt.Sprintf(format, args...)})
}

// pos returns the position CPython reports for a node starting where n
// does.
func (c *converter) pos(n *sitter.Node) ast.Pos {
	return c.at(n.StartPoint())
}

func (c *converter) at(p sitter.Point) ast.Pos {
	line, col := int(p.Row)+1, int(p.Column)
	if b := c.brace; b != nil {
		if p.Row == b.Row {
			col -= int(b.Column)
		}
		line -= int(b.Row)
	}
	return ast.At(line, col)
}

// sourcePos returns the absolute position of n, for error messages.
func (c *converter) sourcePos(n *sitter.Node) reporter.SourcePos {
	p := n.StartPoint()
	line := int(p.Row) + 1
	return reporter.PosIn(c.file, source.Pos(line, c.file.CharColumn(line, int(p.Column))))
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// isExtra reports whether n may appear anywhere in the tree.
func isExtra(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "line_continuation":
		return true
	}
	return false
}

// named returns the named children of n, skipping comments.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if isExtra(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// children returns every child of n, named or not, skipping comments.
func children(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if isExtra(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// field returns every child of n in the given field, in order.
func field(n *sitter.Node, name string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == name {
			out = append(out, n.Child(i))
		}
	}
	return out
}

// hasToken returns whether n has an anonymous child of the given type.
func hasToken(n *sitter.Node, typ string) bool {
	return findToken(n, typ) != nil
}

func findToken(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); !child.IsNamed() && child.Type() == typ {
			return child
		}
	}
	return nil
}

// firstOfType returns the first named child of n with the given type.
func firstOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, child := range named(n) {
		if child.Type() == typ {
			return child
		}
	}
	return nil
}
