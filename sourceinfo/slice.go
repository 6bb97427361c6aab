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

// Slices have no reported position, and their spans depend on the colons
// around them, so they are computed by the subscript that owns them:
//
//  1. sliceParts visits the expressions inside the slice.
//  2. slice positions each slice relative to the end of the previous
//     dimension, or of the subscripted value.
//  3. Once the closing bracket is known, absorbColons moves the end of
//     each slice over a trailing colon, as in a[1:].

func (v *visitor) subscript(n *ast.Subscript) {
	v.visit(n.Value)
	v.sliceParts(n.Slice)
	value := v.span(n.Value)
	v.slice(n.Slice, value)

	brackets := v.pairAfter(n, "[", v.tables.Brackets, value.Last)
	v.set(n, Span{First: value.First, Last: brackets.Last, Anchor: brackets.Last})
	v.markPair(n, "[", brackets)
	v.absorbColons(n.Slice, brackets.Last)
	v.markColons(n.Slice)
}

// sliceParts visits the expressions of a slice tree.
func (v *visitor) sliceParts(e ast.Expr) {
	switch s := e.(type) {
	case *ast.Slice:
		for _, part := range []ast.Expr{s.Lower, s.Upper} {
			if part != nil {
				v.visit(part)
			}
		}
		if s.Step == nil {
			break
		}
		if name, ok := s.Step.(*ast.Name); ok && name.ID == "None" {
			// Legacy parsers synthesize a None step for a[1:2:], positioned
			// at the second colon.
			p := v.pos(name.Pos)
			if m, ok := findAfter("None", v.tables.Name("None"), p); !ok || m.First != p {
				v.set(name, Span{First: p, Last: p.Shift(1), Anchor: p.Shift(1)})
				break
			}
		}
		v.visit(s.Step)
	case *ast.ExtSlice:
		for _, dim := range s.Dims {
			v.sliceParts(dim)
		}
	case *ast.Index:
		v.visit(s.Value)
		v.copySpan(s, s.Value)
	case *ast.Tuple:
		if !isSliceTuple(s) {
			v.visit(s)
			break
		}
		for _, elt := range s.Elts {
			v.sliceParts(elt)
		}
	case *ast.Constant:
		if s.Kind == ast.ConstEllipsis && s.Lineno == 0 {
			break
		}
		v.visit(s)
	default:
		v.visit(e)
	}
}

// isSliceTuple returns whether t is the dimensions of a subscript with at
// least one slice, which newer parsers use instead of ExtSlice.
func isSliceTuple(t *ast.Tuple) bool {
	for _, elt := range t.Elts {
		if _, ok := elt.(*ast.Slice); ok {
			return true
		}
	}
	return false
}

// dims returns the dimensions of a multi-dimensional slice, or nil.
func dims(e ast.Expr) []ast.Expr {
	switch s := e.(type) {
	case *ast.ExtSlice:
		return s.Dims
	case *ast.Tuple:
		if isSliceTuple(s) {
			return s.Elts
		}
	}
	return nil
}

// slice computes the span of a slice that follows prev.
func (v *visitor) slice(e ast.Expr, prev Span) {
	switch s := e.(type) {
	case *ast.Slice:
		span := v.cover(Span{}, s.Lower, s.Upper, s.Step)
		from := prev.Last
		if s.Lower != nil {
			from = v.span(s.Lower).Last
		}
		colon := v.opAfter(s, ":", from)
		if s.Lower == nil {
			span.First = colon.First
		}
		if s.Upper == nil && s.Step == nil {
			span.Last = colon.Last
		}
		span.Anchor = colon.Last
		v.set(s, span)
		v.mark(s, colon)

	case *ast.Constant:
		if s.Kind == ast.ConstEllipsis && s.Lineno == 0 {
			m := v.opAfter(s, "...", prev.Last)
			v.set(s, Span{First: m.First, Last: m.Last, Anchor: m.Last})
		}

	case *ast.ExtSlice, *ast.Tuple:
		parts := dims(e)
		if parts == nil {
			return
		}
		for i, dim := range parts {
			v.slice(dim, prev)
			if i > 0 {
				v.absorbColons(parts[i-1], v.span(dim).First)
			}
			prev = v.span(dim)
		}
		span := v.cover(Span{}, parts...)
		items := make([]Span, len(parts))
		for i, dim := range parts {
			items[i] = v.span(dim)
		}
		if trailing, ok := v.separators(e, items, source.Position{}); ok {
			span.Last = source.MaxPos(span.Last, trailing.Last)
		}
		span.Anchor = span.Last
		if marks := v.info(e).Marks; len(marks) > 0 {
			span.Anchor = marks[0].First
		}
		v.set(e, span)
	}
}

// absorbColons extends a slice that ends before a colon that itself ends at
// or before pos.
func (v *visitor) absorbColons(e ast.Expr, pos source.Position) {
	switch e.(type) {
	case *ast.Slice:
	case *ast.ExtSlice, *ast.Tuple:
		parts := dims(e)
		if parts == nil {
			return
		}
		v.absorbColons(parts[len(parts)-1], pos)
	default:
		return
	}
	colonEnd, _, ok := v.tables.Operator(":").FindPrevious(pos)
	if !ok {
		v.fail(e, `":" before`, pos)
	}
	info := v.info(e)
	if colonEnd.After(info.Last) {
		info.Last = colonEnd
	}
}

// markColons marks the second colon of each slice, once its final extent is
// known.
func (v *visitor) markColons(e ast.Expr) {
	switch s := e.(type) {
	case *ast.Slice:
		info := v.info(s)
		from := info.Anchor
		if s.Upper != nil {
			from = source.MaxPos(from, v.span(s.Upper).Last)
		}
		if m, ok := v.findOpAfter(":", from); ok && !m.Last.After(info.Last) {
			v.mark(s, m)
		}
	default:
		for _, dim := range dims(e) {
			v.markColons(dim)
		}
	}
}
