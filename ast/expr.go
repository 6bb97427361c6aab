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

// BoolOp is a chain of "and" or "or" operations over two or more values.
type BoolOp struct {
	Pos
	expr
	Op     Operator
	Values []Expr
}

// NamedExpr is an assignment expression, "target := value".
type NamedExpr struct {
	Pos
	expr
	Target Expr
	Value  Expr
}

// BinOp is a binary operation.
type BinOp struct {
	Pos
	expr
	Left  Expr
	Op    Operator
	Right Expr
}

// UnaryOp is a unary operation.
type UnaryOp struct {
	Pos
	expr
	Op      Operator
	Operand Expr
}

// Lambda is a lambda expression.
type Lambda struct {
	Pos
	expr
	Args *Arguments
	Body Expr
}

// IfExp is a conditional expression, "body if test else orelse".
type IfExp struct {
	Pos
	expr
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Dict is a dict display. A nil key marks a "**value" unpacking.
type Dict struct {
	Pos
	expr
	Keys   []Expr
	Values []Expr
}

// Set is a set display.
type Set struct {
	Pos
	expr
	Elts []Expr
}

// ListComp is a list comprehension.
type ListComp struct {
	Pos
	expr
	Elt        Expr
	Generators []*Comprehension
}

// SetComp is a set comprehension.
type SetComp struct {
	Pos
	expr
	Elt        Expr
	Generators []*Comprehension
}

// DictComp is a dict comprehension.
type DictComp struct {
	Pos
	expr
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

// GeneratorExp is a generator expression.
type GeneratorExp struct {
	Pos
	expr
	Elt        Expr
	Generators []*Comprehension
}

// Await is an await expression.
type Await struct {
	Pos
	expr
	Value Expr
}

// Yield is a yield expression. Value may be nil.
type Yield struct {
	Pos
	expr
	Value Expr
}

// YieldFrom is a "yield from" expression.
type YieldFrom struct {
	Pos
	expr
	Value Expr
}

// Compare is a chain of comparisons. Ops and Comparators have the same
// length.
type Compare struct {
	Pos
	expr
	Left        Expr
	Ops         []Operator
	Comparators []Expr
}

// Call is a function call.
type Call struct {
	Pos
	expr
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// FormattedValue is a replacement field of an f-string.
type FormattedValue struct {
	Pos
	expr
	Value Expr
	// Conversion is -1 for none, or one of 's', 'r', and 'a'.
	Conversion int
	FormatSpec Expr
}

// JoinedStr is an f-string.
type JoinedStr struct {
	Pos
	expr
	Values []Expr
}

// Constant is a literal. Value is the literal's canonical representation,
// which may differ from its spelling in the source.
type Constant struct {
	Pos
	expr
	Kind  ConstKind
	Value string
}

// Attribute is an attribute access, "value.attr".
type Attribute struct {
	Pos
	expr
	Value Expr
	Attr  string
}

// Subscript is a subscript, "value[slice]".
type Subscript struct {
	Pos
	expr
	Value Expr
	Slice Expr
}

// Starred is a "*value" unpacking.
type Starred struct {
	Pos
	expr
	Value Expr
}

// Name is an identifier.
type Name struct {
	Pos
	expr
	ID string
}

// List is a list display.
type List struct {
	Pos
	expr
	Elts []Expr
}

// Tuple is a tuple, with or without parentheses.
type Tuple struct {
	Pos
	expr
	Elts []Expr
}

// Slice is a "lower:upper:step" slice. Any of the parts may be nil.
type Slice struct {
	Pos
	expr
	Lower Expr
	Upper Expr
	Step  Expr
}

// Repr is a backquoted expression (legacy grammars only).
type Repr struct {
	Pos
	expr
	Value Expr
}

// Index wraps a non-slice subscript (legacy grammars only). It has no
// position.
type Index struct {
	expr
	Value Expr
}

// ExtSlice is a multi-dimensional subscript containing slices (legacy
// grammars only). It has no position.
type ExtSlice struct {
	expr
	Dims []Expr
}
