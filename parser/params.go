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

// parameters converts the parameter list of a def or lambda. A nil node,
// as for "lambda: 0", gives empty arguments.
func (c *converter) parameters(n *sitter.Node) *ast.Arguments {
	args := &ast.Arguments{}
	if n == nil {
		return args
	}
	kwOnly := false
	add := func(a *ast.Arg, def *sitter.Node) {
		if kwOnly {
			args.KwOnlyArgs = append(args.KwOnlyArgs, a)
			var value ast.Expr
			if def != nil {
				value = c.expr(def)
			}
			args.KwDefaults = append(args.KwDefaults, value)
			return
		}
		args.Args = append(args.Args, a)
		if def != nil {
			args.Defaults = append(args.Defaults, c.expr(def))
		}
	}

	for _, p := range named(n) {
		switch p.Type() {
		case "identifier":
			add(c.arg(p, nil), nil)
		case "default_parameter":
			add(c.arg(p.ChildByFieldName("name"), nil), p.ChildByFieldName("value"))
		case "typed_default_parameter":
			add(c.arg(p.ChildByFieldName("name"), p.ChildByFieldName("type")), p.ChildByFieldName("value"))
		case "typed_parameter":
			inner := named(p)[0]
			typ := p.ChildByFieldName("type")
			switch inner.Type() {
			case "list_splat_pattern":
				args.Vararg = c.arg(named(inner)[0], typ)
				kwOnly = true
			case "dictionary_splat_pattern":
				args.Kwarg = c.arg(named(inner)[0], typ)
			default:
				add(c.arg(inner, typ), nil)
			}
		case "list_splat_pattern":
			args.Vararg = c.arg(named(p)[0], nil)
			kwOnly = true
		case "dictionary_splat_pattern":
			args.Kwarg = c.arg(named(p)[0], nil)
		case "keyword_separator":
			kwOnly = true
		case "positional_separator":
			args.PosOnlyArgs = append(args.PosOnlyArgs, args.Args...)
			args.Args = nil
		default:
			c.fail(p, "unsupported parameter %s", p.Type())
		}
	}
	return args
}

func (c *converter) arg(name, annotation *sitter.Node) *ast.Arg {
	if name.Type() != "identifier" {
		c.fail(name, "unsupported parameter %s", name.Type())
	}
	a := &ast.Arg{Pos: c.pos(name), Arg: c.identifier(name)}
	if annotation != nil {
		a.Annotation = c.expr(annotation)
	}
	return a
}

// unwrapType returns the node a "type" wrapper holds.
func unwrapType(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "type" {
		kids := named(n)
		if len(kids) != 1 {
			break
		}
		n = kids[0]
	}
	return n
}

// typeParams converts the type parameter list of a def, class, or type
// alias.
func (c *converter) typeParams(n *sitter.Node) []ast.TypeParam {
	if n == nil {
		return nil
	}
	if !c.g.TypeParams {
		c.fail(n, "type parameters require Python 3.12")
	}
	var out []ast.TypeParam
	for _, p := range named(n) {
		p = unwrapType(p)
		switch p.Type() {
		case "identifier":
			out = append(out, &ast.TypeVar{Pos: c.pos(p), Name: c.identifier(p)})
		case "constrained_type":
			kids := named(p)
			name := unwrapType(kids[0])
			out = append(out, &ast.TypeVar{Pos: c.pos(name), Name: c.identifier(name), Bound: c.expr(kids[1])})
		case "splat_type":
			name := named(p)[0]
			if hasToken(p, "**") {
				out = append(out, &ast.ParamSpec{Pos: c.pos(p), Name: c.identifier(name)})
			} else {
				out = append(out, &ast.TypeVarTuple{Pos: c.pos(p), Name: c.identifier(name)})
			}
		default:
			c.fail(p, "unsupported type parameter %s", p.Type())
		}
	}
	return out
}
