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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChildrenSourceOrder(t *testing.T) {
	t.Parallel()
	a, b, one := &Arg{Arg: "a"}, &Arg{Arg: "b"}, &Constant{Kind: ConstNumber, Value: "1"}
	args := &Arguments{Args: []*Arg{a, b}, Defaults: []Expr{one}}
	dec := &Name{ID: "dec"}
	ret := &Return{Value: &Name{ID: "a"}}
	def := &FunctionDef{Name: "f", DecoratorList: []Expr{dec}, Args: args, Body: []Stmt{ret}}

	assert.Equal(t, []Node{dec, args, ret}, Children(def))
	assert.Equal(t, []Node{a, b, one}, Children(args))
}

func TestChildrenSkipsMissing(t *testing.T) {
	t.Parallel()
	value := &Name{ID: "x"}
	slice := &Slice{Upper: value}
	assert.Equal(t, []Node{value}, Children(slice))
	assert.Empty(t, Children(&Pass{}))

	// Dict keys are nil for ** entries.
	other := &Name{ID: "other"}
	dict := &Dict{Keys: []Expr{nil}, Values: []Expr{other}}
	assert.Equal(t, []Node{other}, Children(dict))
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		node Node
		want string
	}{
		{&FunctionDef{}, "FunctionDef"},
		{&FunctionDef{IsAsync: true}, "AsyncFunctionDef"},
		{&Try{IsStar: true}, "TryStar"},
		{&ExprStmt{}, "Expr"},
		{&Arguments{}, "arguments"},
		{&MatchCase{}, "match_case"},
		{&BinOp{}, "BinOp"},
		{nil, "<nil>"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, KindOf(test.node))
	}
}

func TestOperatorString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Add", Add.String())
	assert.Equal(t, "NotIn", NotIn.String())
	assert.Equal(t, "ast.Operator(200)", Operator(200).String())
	assert.Equal(t, "Ellipsis", ConstEllipsis.String())
}

func TestPositioned(t *testing.T) {
	t.Parallel()
	var n Node = &Name{Pos: At(3, 4), ID: "x"}
	p, ok := n.(Positioned)
	assert.True(t, ok)
	assert.Equal(t, "3:4", p.Position().String())
	assert.True(t, IsExpr(n))
	assert.False(t, IsExpr(&Pass{}))
}
