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

// FunctionDef is a function definition. IsAsync distinguishes
// AsyncFunctionDef.
type FunctionDef struct {
	Pos
	stmt
	Name          string
	Args          *Arguments
	Body          []Stmt
	DecoratorList []Expr
	Returns       Expr
	TypeParams    []TypeParam
	IsAsync       bool
}

// ClassDef is a class definition.
type ClassDef struct {
	Pos
	stmt
	Name          string
	Bases         []Expr
	Keywords      []*Keyword
	Body          []Stmt
	DecoratorList []Expr
	TypeParams    []TypeParam
}

// Return is a return statement. Value may be nil.
type Return struct {
	Pos
	stmt
	Value Expr
}

// Delete is a del statement.
type Delete struct {
	Pos
	stmt
	Targets []Expr
}

// Assign is an assignment with one or more targets.
type Assign struct {
	Pos
	stmt
	Targets []Expr
	Value   Expr
}

// TypeAlias is a "type Name[params] = value" statement.
type TypeAlias struct {
	Pos
	stmt
	Name       Expr
	TypeParams []TypeParam
	Value      Expr
}

// AugAssign is an augmented assignment, such as "x += 1".
type AugAssign struct {
	Pos
	stmt
	Target Expr
	Op     Operator
	Value  Expr
}

// AnnAssign is an annotated assignment. Value may be nil.
type AnnAssign struct {
	Pos
	stmt
	Target     Expr
	Annotation Expr
	Value      Expr
	Simple     bool
}

// For is a for loop. IsAsync distinguishes AsyncFor.
type For struct {
	Pos
	stmt
	Target  Expr
	Iter    Expr
	Body    []Stmt
	Orelse  []Stmt
	IsAsync bool
}

// While is a while loop.
type While struct {
	Pos
	stmt
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// If is an if statement. An elif clause is an If nested as the only
// statement of Orelse.
type If struct {
	Pos
	stmt
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// With is a with statement. IsAsync distinguishes AsyncWith.
type With struct {
	Pos
	stmt
	Items   []*WithItem
	Body    []Stmt
	IsAsync bool
}

// Match is a match statement.
type Match struct {
	Pos
	stmt
	Subject Expr
	Cases   []*MatchCase
}

// Raise is a raise statement. All fields may be nil. Inst and Tback are
// only set by Python 2's "raise E, V, T", whose first operand is Exc.
type Raise struct {
	Pos
	stmt
	Exc   Expr
	Inst  Expr
	Tback Expr
	Cause Expr
}

// Try is a try statement. IsStar distinguishes TryStar (except*).
type Try struct {
	Pos
	stmt
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	Finalbody []Stmt
	IsStar    bool
}

// Assert is an assert statement.
type Assert struct {
	Pos
	stmt
	Test Expr
	Msg  Expr
}

// Import is an import statement.
type Import struct {
	Pos
	stmt
	Names []*Alias
}

// ImportFrom is a "from module import names" statement. Module is empty
// for "from . import x".
type ImportFrom struct {
	Pos
	stmt
	Module string
	Names  []*Alias
	Level  int
}

// Global is a global statement.
type Global struct {
	Pos
	stmt
	Names []string
}

// Nonlocal is a nonlocal statement.
type Nonlocal struct {
	Pos
	stmt
	Names []string
}

// ExprStmt is an expression used as a statement (Python's ast.Expr).
type ExprStmt struct {
	Pos
	stmt
	Value Expr
}

// Pass is a pass statement.
type Pass struct {
	Pos
	stmt
}

// Break is a break statement.
type Break struct {
	Pos
	stmt
}

// Continue is a continue statement.
type Continue struct {
	Pos
	stmt
}

// Print is a print statement (legacy grammars only). Dest is the
// ">>stream" target and may be nil.
type Print struct {
	Pos
	stmt
	Dest   Expr
	Values []Expr
	Nl     bool
}

// Exec is an exec statement (legacy grammars only).
type Exec struct {
	Pos
	stmt
	Body    Expr
	Globals Expr
	Locals  Expr
}
