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

package reporter

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/bufbuild/provenance/source"
)

// TabstopWidth is the width tabs are rendered with in snippets.
const TabstopWidth = 4

// Snippet renders the line containing pos followed by a caret pointing at
// pos, for use in diagnostics:
//
//	 3 | x = f(a, b
//	   |      ^
//
// Wide characters before the caret are measured by their display width.
// Returns "" if pos is not inside file.
func Snippet(file *source.File, pos source.Position) string {
	if pos.Line < 1 || pos.Line > file.LineCount() {
		return ""
	}
	line := []rune(file.Line(pos.Line))
	col := min(max(pos.Col, 0), len(line))

	var text strings.Builder
	column := 0
	var caret int
	for i, r := range line {
		if i == col {
			caret = column
		}
		if r == '\t' {
			n := TabstopWidth - column%TabstopWidth
			text.WriteString(strings.Repeat(" ", n))
			column += n
			continue
		}
		if r == '\r' {
			continue
		}
		text.WriteRune(r)
		column += uniseg.StringWidth(string(r))
	}
	if col == len(line) {
		caret = column
	}

	gutter := fmt.Sprint(pos.Line)
	pad := strings.Repeat(" ", len(gutter))
	return fmt.Sprintf(" %s | %s\n %s | %s^\n",
		gutter, strings.TrimRight(text.String(), " "),
		pad, strings.Repeat(" ", caret))
}
