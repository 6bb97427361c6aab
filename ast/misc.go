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

// Module is the result of parsing a file.
type Module struct {
	mod
	Body        []Stmt
	TypeIgnores []*TypeIgnore
}

// Interactive is the result of parsing a single interactive input.
type Interactive struct {
	mod
	Body []Stmt
}

// Expression is the result of parsing a single expression.
type Expression struct {
	mod
	Body Expr
}

// FunctionType is the result of parsing a function signature type comment,
// "(argtypes) -> returns".
type FunctionType struct {
	mod
	ArgTypes []Expr
	Returns  Expr
}

// TypeIgnore is a "# type: ignore" comment. Only its line is reported.
type TypeIgnore struct {
	node
	Lineno int
	Tag    string
}

// Comprehension is one "for ... in ... if ..." clause of a comprehension.
// It has no position.
type Comprehension struct {
	node
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

// ExceptHandler is an except clause. Type may be nil and Name empty.
type ExceptHandler struct {
	Pos
	node
	Type Expr
	Name string
	Body []Stmt
}

// Arguments is the parameter list of a def or lambda. It has no position.
//
// KwDefaults has the same length as KwOnlyArgs, with nil entries for
// parameters without a default. Defaults apply to the trailing entries of
// PosOnlyArgs followed by Args.
type Arguments struct {
	node
	PosOnlyArgs []*Arg
	Args        []*Arg
	Vararg      *Arg
	KwOnlyArgs  []*Arg
	KwDefaults  []Expr
	Kwarg       *Arg
	Defaults    []Expr
}

// Arg is a single parameter. Annotation may be nil.
type Arg struct {
	Pos
	node
	Arg        string
	Annotation Expr
}

// Keyword is a keyword argument of a call or class definition. Arg is
// empty for "**value".
type Keyword struct {
	Pos
	node
	Arg   string
	Value Expr
}

// Alias is one imported name, with an optional "as" name.
type Alias struct {
	Pos
	node
	Name   string
	AsName string
}

// WithItem is one context manager of a with statement. It has no position.
type WithItem struct {
	node
	ContextExpr  Expr
	OptionalVars Expr
}

// MatchCase is one case clause of a match statement. It has no position.
type MatchCase struct {
	node
	Pattern Pattern
	Guard   Expr
	Body    []Stmt
}

// MatchValue matches a value pattern, such as a literal or dotted name.
type MatchValue struct {
	Pos
	pattern
	Value Expr
}

// MatchSingleton matches None, True, or False.
type MatchSingleton struct {
	Pos
	pattern
	Value ConstKind
}

// MatchSequence matches a sequence pattern, bracketed or not.
type MatchSequence struct {
	Pos
	pattern
	Patterns []Pattern
}

// MatchMapping matches a mapping pattern. Rest is the name of a "**rest"
// capture, if any.
type MatchMapping struct {
	Pos
	pattern
	Keys     []Expr
	Patterns []Pattern
	Rest     string
}

// MatchClass matches a class pattern, "Cls(p, kw=p)".
type MatchClass struct {
	Pos
	pattern
	Cls         Expr
	Patterns    []Pattern
	KwdAttrs    []string
	KwdPatterns []Pattern
}

// MatchStar matches "*name" in a sequence pattern. Name is empty for "*_".
type MatchStar struct {
	Pos
	pattern
	Name string
}

// MatchAs is a capture pattern, "pattern as name", a bare name, or the
// wildcard "_" (nil Pattern and empty Name).
type MatchAs struct {
	Pos
	pattern
	Pattern Pattern
	Name    string
}

// MatchOr is an alternation of patterns.
type MatchOr struct {
	Pos
	pattern
	Patterns []Pattern
}

// TypeVar is a type parameter "T", "T: bound", or "T = default".
type TypeVar struct {
	Pos
	typeParam
	Name         string
	Bound        Expr
	DefaultValue Expr
}

// ParamSpec is a "**P" type parameter.
type ParamSpec struct {
	Pos
	typeParam
	Name         string
	DefaultValue Expr
}

// TypeVarTuple is a "*Ts" type parameter.
type TypeVarTuple struct {
	Pos
	typeParam
	Name         string
	DefaultValue Expr
}
