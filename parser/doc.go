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

// Package parser contains the logic for parsing Python source code into an
// AST (abstract syntax tree).
//
// Parsing is done with tree-sitter's Python grammar. The concrete syntax
// tree it produces is converted into the nodes of the ast package, which
// mirror those of Python's own ast module. Each node is given the position
// CPython would report for it: the line and UTF-8 byte column of its first
// token, or of whatever token CPython uses instead for the configured
// grammar version. Nothing else about the source locations is kept; the
// sourceinfo package recovers the rest from the tokens.
package parser
