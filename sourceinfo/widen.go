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

package sourceinfo

import (
	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/source"
)

// widen grows the span of an expression over every pair of parentheses that
// wraps nothing but the expression, whitespace, and line continuations.
func (v *visitor) widen(n ast.Node) {
	switch n.(type) {
	case *ast.Slice, *ast.Index, *ast.ExtSlice:
		return
	}
	info := v.info(n)
	for {
		open, closeEnd, ok := source.FindInBetween(info.First, v.tables.Parens)
		if !ok {
			return
		}
		closeChar := closeEnd.Shift(-1)

		start := source.NewCursor(v.file, info.First)
		start.Dec()
		for start.Pos().After(open) && !start.BOF() && source.IsWhitespace(start.Char()) {
			start.Dec()
		}
		end := source.NewCursor(v.file, info.Last)
		for end.Pos().Before(closeChar) && !end.EOF() && source.IsWhitespace(end.Char()) {
			end.Inc()
		}
		if start.Pos() != open || end.Pos() != closeChar {
			return
		}

		inner := info.Span
		if info.Widened != nil {
			inner = info.Widened.Inner
		}
		if info.Anchor == info.Last {
			info.Anchor = closeEnd
		}
		info.First, info.Last = open, closeEnd
		info.Widened = &Widened{
			Before: source.Range{First: open, Last: inner.First},
			Inner:  inner,
			After:  source.Range{First: inner.Last, Last: closeEnd},
		}
	}
}

// shrink removes the outermost pair of parentheses from n's span. It is
// used when the pair belongs to the parent, as the parentheses of a call
// with a single generator argument do.
func (v *visitor) shrink(n ast.Node) {
	info := v.info(n)
	first := source.NewCursor(v.file, info.First)
	first.Inc()
	last := source.NewCursor(v.file, info.Last)
	last.Dec()
	newFirst, newLast := source.PositionBetween(v.file, first.Pos(), last.Pos())
	if info.Anchor == info.Last {
		info.Anchor = newLast
	}
	info.First, info.Last = newFirst, newLast

	if w := info.Widened; w != nil {
		if w.Inner.First == newFirst && w.Inner.Last == newLast {
			info.Widened = nil
		} else {
			w.Before.Last, w.After.First = w.Inner.First, w.Inner.Last
			w.Before.First, w.After.Last = newFirst, newLast
		}
	}
}
