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
	"fmt"
	"strings"
)

// KindOf returns the name Python's ast module uses for n's node class, such
// as "AsyncFunctionDef" or "Expr".
func KindOf(n Node) string {
	switch n := n.(type) {
	case *FunctionDef:
		if n.IsAsync {
			return "AsyncFunctionDef"
		}
	case *For:
		if n.IsAsync {
			return "AsyncFor"
		}
	case *With:
		if n.IsAsync {
			return "AsyncWith"
		}
	case *Try:
		if n.IsStar {
			return "TryStar"
		}
	case *ExprStmt:
		return "Expr"
	case *Comprehension:
		return "comprehension"
	case *ExceptHandler:
		return "ExceptHandler"
	case *Arguments:
		return "arguments"
	case *Arg:
		return "arg"
	case *Keyword:
		return "keyword"
	case *Alias:
		return "alias"
	case *WithItem:
		return "withitem"
	case *MatchCase:
		return "match_case"
	case nil:
		return "<nil>"
	}
	name := fmt.Sprintf("%T", n)
	return name[strings.LastIndexByte(name, '.')+1:]
}

// IsExpr returns whether n is an expression node.
func IsExpr(n Node) bool {
	_, ok := n.(Expr)
	return ok
}
