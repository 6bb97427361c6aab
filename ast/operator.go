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

// Operator is an operator class. Python's parser shares one object per
// class, so an operator has no position of its own.
type Operator byte

const (
	InvalidOperator Operator = iota

	// Boolean operators.
	And
	Or

	// Binary operators; these also have augmented assignment forms.
	Add
	Sub
	Mult
	MatMult
	Div
	Modulo
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv

	// Unary operators.
	Invert
	Not
	UAdd
	USub

	// Comparison operators.
	Eq
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var operatorNames = [...]string{
	InvalidOperator: "InvalidOperator",
	And:             "And",
	Or:              "Or",
	Add:             "Add",
	Sub:             "Sub",
	Mult:            "Mult",
	MatMult:         "MatMult",
	Div:             "Div",
	Modulo:          "Mod",
	Pow:             "Pow",
	LShift:          "LShift",
	RShift:          "RShift",
	BitOr:           "BitOr",
	BitXor:          "BitXor",
	BitAnd:          "BitAnd",
	FloorDiv:        "FloorDiv",
	Invert:          "Invert",
	Not:             "Not",
	UAdd:            "UAdd",
	USub:            "USub",
	Eq:              "Eq",
	NotEq:           "NotEq",
	Lt:              "Lt",
	LtE:             "LtE",
	Gt:              "Gt",
	GtE:             "GtE",
	Is:              "Is",
	IsNot:           "IsNot",
	In:              "In",
	NotIn:           "NotIn",
}

// String returns the operator's class name, as used by Python's ast module
// and by grammar descriptors.
func (op Operator) String() string {
	if int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return fmt.Sprintf("ast.Operator(%d)", int(op))
}

// ConstKind is the kind of value a [Constant] holds.
type ConstKind byte

const (
	ConstNumber ConstKind = iota
	ConstString
	ConstBytes
	ConstNone
	ConstTrue
	ConstFalse
	ConstEllipsis
)

// String implements [fmt.Stringer].
func (k ConstKind) String() string {
	switch k {
	case ConstNumber:
		return "number"
	case ConstString:
		return "str"
	case ConstBytes:
		return "bytes"
	case ConstNone:
		return "None"
	case ConstTrue:
		return "True"
	case ConstFalse:
		return "False"
	case ConstEllipsis:
		return "Ellipsis"
	default:
		return fmt.Sprintf("ast.ConstKind(%d)", int(k))
	}
}
