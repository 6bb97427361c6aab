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

// Node is the interface implemented by all AST nodes.
type Node interface {
	isNode()
}

// Mod is a top-level node: the result of parsing in one of Python's modes.
type Mod interface {
	Node
	isMod()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	isStmt()
}

// Expr is an expression node. Slices are expressions too, as they are in
// Python 3.9 and later.
type Expr interface {
	Node
	isExpr()
}

// Pattern is a node in the pattern of a match-case clause.
type Pattern interface {
	Node
	isPattern()
}

// TypeParam is a type parameter of a generic def, class, or type alias.
type TypeParam interface {
	Node
	isTypeParam()
}

// Pos is the location a parser reports for a node.
type Pos struct {
	// Lineno is 1-based.
	Lineno int
	// ColOffset is the UTF-8 byte offset into the line.
	ColOffset int
}

// At is a shorthand for constructing a [Pos].
func At(lineno, colOffset int) Pos {
	return Pos{Lineno: lineno, ColOffset: colOffset}
}

// Position returns the reported position.
func (p Pos) Position() Pos {
	return p
}

// String implements [fmt.Stringer].
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Lineno, p.ColOffset)
}

// Positioned is implemented by nodes that carry a reported position.
type Positioned interface {
	Node
	Position() Pos
}

type (
	node      struct{}
	mod       struct{ node }
	stmt      struct{ node }
	expr      struct{ node }
	pattern   struct{ node }
	typeParam struct{ node }
)

func (node) isNode()           {}
func (mod) isMod()             {}
func (stmt) isStmt()           {}
func (expr) isExpr()           {}
func (pattern) isPattern()     {}
func (typeParam) isTypeParam() {}
