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

// Package ast defines types for modeling the abstract syntax tree (AST) of
// a Python module, as produced by a standard Python parser.
//
// The node set follows Python's own ast module across the supported grammar
// versions. Version-dependent shapes are optional fields that are simply
// nil or empty when the parser does not produce them: keyword-only and
// positional-only arguments, match statements, type parameters, and so on.
// A few node kinds only exist in legacy grammars (Print, Exec, Repr, Index
// and ExtSlice).
//
// # Positions
//
// Nodes that Python's parser gives a location embed [Pos], which holds the
// line (1-based) and the column as a UTF-8 byte offset, exactly as the
// parser reports them. These reported positions are approximate: they
// exclude parentheses, do not say where a node ends, and some node kinds
// have none at all. Package sourceinfo recovers exact spans from them.
//
// # Node Types
//
// All node types implement [Node]. The interfaces [Mod], [Stmt], [Expr],
// [Pattern], and [TypeParam] correspond to the abstract classes of Python's
// ast module and form closed sets: a type switch over the concrete types
// listed in this package is exhaustive.
//
// Operators carry no position of their own; they are values of [Operator]
// stored in their owning node.
package ast
