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

func (v *visitor) joinedStr(n *ast.JoinedStr) {
	m := v.startingAt(n, "string", v.tables.Strings, v.pos(n.Pos))
	v.set(n, Span{First: m.First, Last: m.Last, Anchor: m.Last})
	v.fstringParts(n.Values, m.First, nil)
}

// fstringParts visits the parts of an f-string or of a format spec. The
// replacement fields are matched, in order, with the brace pairs found from
// the given position on. Literal parts of a format spec all get the spec's
// span.
func (v *visitor) fstringParts(values []ast.Expr, from source.Position, spec *source.Range) {
	for _, value := range values {
		switch value := value.(type) {
		case *ast.FormattedValue:
			field := v.pairAfter(value, "{", v.tables.Braces, from)
			v.fields[value] = field
			v.visit(value)
			from = field.Last
		case *ast.Constant:
			if spec != nil {
				v.set(value, Span{First: spec.First, Last: spec.Last, Anchor: spec.Last})
				continue
			}
			v.visit(value)
		default:
			v.visit(value)
		}
	}
}

func (v *visitor) formattedValue(n *ast.FormattedValue) {
	field, ok := v.fields[n]
	if !ok {
		field = v.pairAfter(n, "{", v.tables.Braces, v.pos(n.Pos))
	}
	v.set(n, Span{First: field.First, Last: field.Last, Anchor: field.Last})
	v.markPair(n, "{", field)

	if v.g.RelativeFStringPositions && v.relative == nil {
		open := field.First
		v.relative = &open
		v.visit(n.Value)
		v.relative = nil
	} else {
		v.visit(n.Value)
	}

	switch spec := n.FormatSpec.(type) {
	case nil:
	case *ast.JoinedStr:
		v.formatSpec(n, spec, field)
	default:
		v.visit(spec)
	}
}

// formatSpec computes the span of the format spec of a replacement field:
// the text between the colon that follows the value and the closing brace.
func (v *visitor) formatSpec(n *ast.FormattedValue, spec *ast.JoinedStr, field source.Range) {
	closeChar := field.Last.Shift(-1)
	c := source.NewCursor(v.file, v.span(n.Value).Last)
	for c.Pos().Before(closeChar) && !c.EOF() && c.Char() != ':' {
		c.Inc()
	}
	r := source.Range{First: closeChar, Last: closeChar}
	if c.Pos().Before(closeChar) && c.Char() == ':' {
		v.mark(n, OperatorMark{First: c.Pos(), Last: c.Pos().Shift(1), Label: ":"})
		r.First = c.Pos().Shift(1)
	}
	v.set(spec, Span{First: r.First, Last: r.Last, Anchor: r.Last})
	v.fstringParts(spec.Values, r.First, &r)
}
