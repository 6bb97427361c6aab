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

package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxSnippet bounds how much of an unexpected construct is quoted in a
// syntax error.
const maxSnippet = 20

// syntaxErrors calls fn for every error or missing node below n, in source
// order, until fn returns false. It reports whether the walk completed.
func syntaxErrors(n *sitter.Node, fn func(*sitter.Node) bool) bool {
	if n.IsMissing() || n.Type() == "ERROR" {
		return fn(n)
	}
	if !n.HasError() {
		return true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if !syntaxErrors(n.Child(i), fn) {
			return false
		}
	}
	return true
}

// describe renders an error node for a message.
func describe(n *sitter.Node, src []byte) string {
	if n.IsMissing() {
		return fmt.Sprintf("missing %q", n.Type())
	}
	text := strings.TrimSpace(n.Content(src))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > maxSnippet {
		text = text[:maxSnippet] + "..."
	}
	if text == "" {
		return "unexpected end of input"
	}
	return fmt.Sprintf("unexpected %q", text)
}
