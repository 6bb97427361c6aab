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

package ast

import "fmt"

// Children returns the direct children of n that are present, in the order
// they appear in source. The only exception is a call whose keyword
// arguments precede some positional arguments: positional arguments always
// come first.
func Children(n Node) []Node {
	var c children
	switch n := n.(type) {
	case *Module:
		c.stmts(n.Body)
		for _, ti := range n.TypeIgnores {
			c.add(ti)
		}
	case *Interactive:
		c.stmts(n.Body)
	case *Expression:
		c.expr(n.Body)
	case *FunctionType:
		c.exprs(n.ArgTypes)
		c.expr(n.Returns)

	case *FunctionDef:
		c.exprs(n.DecoratorList)
		c.typeParams(n.TypeParams)
		c.arguments(n.Args)
		c.expr(n.Returns)
		c.stmts(n.Body)
	case *ClassDef:
		c.exprs(n.DecoratorList)
		c.typeParams(n.TypeParams)
		c.exprs(n.Bases)
		c.keywords(n.Keywords)
		c.stmts(n.Body)
	case *Return:
		c.expr(n.Value)
	case *Delete:
		c.exprs(n.Targets)
	case *Assign:
		c.exprs(n.Targets)
		c.expr(n.Value)
	case *TypeAlias:
		c.expr(n.Name)
		c.typeParams(n.TypeParams)
		c.expr(n.Value)
	case *AugAssign:
		c.expr(n.Target)
		c.expr(n.Value)
	case *AnnAssign:
		c.expr(n.Target)
		c.expr(n.Annotation)
		c.expr(n.Value)
	case *For:
		c.expr(n.Target)
		c.expr(n.Iter)
		c.stmts(n.Body)
		c.stmts(n.Orelse)
	case *While:
		c.expr(n.Test)
		c.stmts(n.Body)
		c.stmts(n.Orelse)
	case *If:
		c.expr(n.Test)
		c.stmts(n.Body)
		c.stmts(n.Orelse)
	case *With:
		for _, item := range n.Items {
			c.add(item)
		}
		c.stmts(n.Body)
	case *Match:
		c.expr(n.Subject)
		for _, mc := range n.Cases {
			c.add(mc)
		}
	case *Raise:
		c.expr(n.Exc)
		c.expr(n.Inst)
		c.expr(n.Tback)
		c.expr(n.Cause)
	case *Try:
		c.stmts(n.Body)
		for _, h := range n.Handlers {
			c.add(h)
		}
		c.stmts(n.Orelse)
		c.stmts(n.Finalbody)
	case *Assert:
		c.expr(n.Test)
		c.expr(n.Msg)
	case *Import:
		c.aliases(n.Names)
	case *ImportFrom:
		c.aliases(n.Names)
	case *ExprStmt:
		c.expr(n.Value)
	case *Print:
		c.expr(n.Dest)
		c.exprs(n.Values)
	case *Exec:
		c.expr(n.Body)
		c.expr(n.Globals)
		c.expr(n.Locals)
	case *Global, *Nonlocal, *Pass, *Break, *Continue:

	case *BoolOp:
		c.exprs(n.Values)
	case *NamedExpr:
		c.expr(n.Target)
		c.expr(n.Value)
	case *BinOp:
		c.expr(n.Left)
		c.expr(n.Right)
	case *UnaryOp:
		c.expr(n.Operand)
	case *Lambda:
		c.arguments(n.Args)
		c.expr(n.Body)
	case *IfExp:
		c.expr(n.Body)
		c.expr(n.Test)
		c.expr(n.Orelse)
	case *Dict:
		for i, v := range n.Values {
			if i < len(n.Keys) {
				c.expr(n.Keys[i])
			}
			c.expr(v)
		}
	case *Set:
		c.exprs(n.Elts)
	case *ListComp:
		c.expr(n.Elt)
		c.comprehensions(n.Generators)
	case *SetComp:
		c.expr(n.Elt)
		c.comprehensions(n.Generators)
	case *DictComp:
		c.expr(n.Key)
		c.expr(n.Value)
		c.comprehensions(n.Generators)
	case *GeneratorExp:
		c.expr(n.Elt)
		c.comprehensions(n.Generators)
	case *Await:
		c.expr(n.Value)
	case *Yield:
		c.expr(n.Value)
	case *YieldFrom:
		c.expr(n.Value)
	case *Compare:
		c.expr(n.Left)
		c.exprs(n.Comparators)
	case *Call:
		c.expr(n.Func)
		c.exprs(n.Args)
		c.keywords(n.Keywords)
	case *FormattedValue:
		c.expr(n.Value)
		c.expr(n.FormatSpec)
	case *JoinedStr:
		c.exprs(n.Values)
	case *Attribute:
		c.expr(n.Value)
	case *Subscript:
		c.expr(n.Value)
		c.expr(n.Slice)
	case *Starred:
		c.expr(n.Value)
	case *List:
		c.exprs(n.Elts)
	case *Tuple:
		c.exprs(n.Elts)
	case *Slice:
		c.expr(n.Lower)
		c.expr(n.Upper)
		c.expr(n.Step)
	case *Repr:
		c.expr(n.Value)
	case *Index:
		c.expr(n.Value)
	case *ExtSlice:
		c.exprs(n.Dims)
	case *Constant, *Name:

	case *Comprehension:
		c.expr(n.Target)
		c.expr(n.Iter)
		c.exprs(n.Ifs)
	case *ExceptHandler:
		c.expr(n.Type)
		c.stmts(n.Body)
	case *Arguments:
		c.params(n)
	case *Arg:
		c.expr(n.Annotation)
	case *Keyword:
		c.expr(n.Value)
	case *WithItem:
		c.expr(n.ContextExpr)
		c.expr(n.OptionalVars)
	case *MatchCase:
		c.pattern(n.Pattern)
		c.expr(n.Guard)
		c.stmts(n.Body)
	case *Alias, *TypeIgnore:

	case *MatchValue:
		c.expr(n.Value)
	case *MatchSequence:
		c.patterns(n.Patterns)
	case *MatchMapping:
		for i, p := range n.Patterns {
			if i < len(n.Keys) {
				c.expr(n.Keys[i])
			}
			c.pattern(p)
		}
	case *MatchClass:
		c.expr(n.Cls)
		c.patterns(n.Patterns)
		c.patterns(n.KwdPatterns)
	case *MatchAs:
		c.pattern(n.Pattern)
	case *MatchOr:
		c.patterns(n.Patterns)
	case *MatchSingleton, *MatchStar:

	case *TypeVar:
		c.expr(n.Bound)
		c.expr(n.DefaultValue)
	case *ParamSpec:
		c.expr(n.DefaultValue)
	case *TypeVarTuple:
		c.expr(n.DefaultValue)

	default:
		panic(fmt.Sprintf("ast: unknown node type %T", n))
	}
	return c.nodes
}

type children struct {
	nodes []Node
}

func (c *children) add(n Node) {
	c.nodes = append(c.nodes, n)
}

func (c *children) expr(e Expr) {
	if e != nil {
		c.add(e)
	}
}

func (c *children) exprs(es []Expr) {
	for _, e := range es {
		c.expr(e)
	}
}

func (c *children) stmts(ss []Stmt) {
	for _, s := range ss {
		if s != nil {
			c.add(s)
		}
	}
}

func (c *children) pattern(p Pattern) {
	if p != nil {
		c.add(p)
	}
}

func (c *children) patterns(ps []Pattern) {
	for _, p := range ps {
		c.pattern(p)
	}
}

func (c *children) typeParams(tps []TypeParam) {
	for _, tp := range tps {
		if tp != nil {
			c.add(tp)
		}
	}
}

func (c *children) keywords(kws []*Keyword) {
	for _, kw := range kws {
		if kw != nil {
			c.add(kw)
		}
	}
}

func (c *children) aliases(as []*Alias) {
	for _, a := range as {
		if a != nil {
			c.add(a)
		}
	}
}

func (c *children) comprehensions(gens []*Comprehension) {
	for _, g := range gens {
		if g != nil {
			c.add(g)
		}
	}
}

func (c *children) arg(a *Arg) {
	if a != nil {
		c.add(a)
	}
}

func (c *children) arguments(args *Arguments) {
	if args != nil {
		c.add(args)
	}
}

func (c *children) params(args *Arguments) {
	for _, a := range args.PosOnlyArgs {
		c.arg(a)
	}
	for _, a := range args.Args {
		c.arg(a)
	}
	c.arg(args.Vararg)
	for _, a := range args.KwOnlyArgs {
		c.arg(a)
	}
	c.exprs(args.KwDefaults)
	c.arg(args.Kwarg)
	c.exprs(args.Defaults)
}
