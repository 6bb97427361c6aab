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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bufbuild/provenance/ast"
)

var fieldEscapes = strings.NewReplacer("{{", "{", "}}", "}")

// str converts a string literal or an implicit concatenation of them. If
// any part is an f-string the result is a JoinedStr, with adjacent literal
// text merged. Literal text is kept as written, escapes included.
func (c *converter) str(n *sitter.Node) ast.Expr {
	parts := []*sitter.Node{n}
	if n.Type() == "concatenated_string" {
		parts = named(n)
	}
	var formatted, bytes bool
	for _, p := range parts {
		prefix := c.prefix(p)
		formatted = formatted || strings.ContainsAny(prefix, "fF")
		bytes = bytes || strings.ContainsAny(prefix, "bB")
	}
	if !formatted {
		var sb strings.Builder
		for _, p := range parts {
			sb.WriteString(c.literal(p.Child(0).EndByte(), p.Child(int(p.ChildCount())-1).StartByte(), false))
		}
		kind := ast.ConstString
		if bytes {
			kind = ast.ConstBytes
		}
		return &ast.Constant{Pos: c.pos(n), Kind: kind, Value: sb.String()}
	}
	if !c.g.FStrings {
		c.fail(n, "f-strings require Python 3.6")
	}

	j := &ast.JoinedStr{Pos: c.pos(n)}
	b := &fstringBuilder{c: c, pos: j.Pos}
	for _, p := range parts {
		start, end := p.Child(0), p.Child(int(p.ChildCount())-1)
		if !strings.ContainsAny(c.prefix(p), "fF") {
			b.text(c.literal(start.EndByte(), end.StartByte(), false))
			continue
		}
		b.fields(p, start.EndByte(), end.StartByte())
	}
	j.Values = b.finish()
	return j
}

// prefix returns the prefix letters of a string, such as "rb".
func (c *converter) prefix(n *sitter.Node) string {
	start := c.text(n.Child(0))
	return strings.TrimRight(start, `'"`)
}

func (c *converter) literal(from, to uint32, formatted bool) string {
	text := string(c.src[from:to])
	if formatted {
		text = fieldEscapes.Replace(text)
	}
	return text
}

// fstringBuilder accumulates the values of a JoinedStr.
type fstringBuilder struct {
	c      *converter
	pos    ast.Pos
	values []ast.Expr
	lit    strings.Builder
}

func (b *fstringBuilder) text(s string) {
	b.lit.WriteString(s)
}

func (b *fstringBuilder) flush() {
	if b.lit.Len() == 0 {
		return
	}
	b.values = append(b.values, &ast.Constant{Pos: b.pos, Kind: ast.ConstString, Value: b.lit.String()})
	b.lit.Reset()
}

func (b *fstringBuilder) finish() []ast.Expr {
	b.flush()
	return b.values
}

// fields adds the literal text and the replacement fields of n found
// between the given offsets.
func (b *fstringBuilder) fields(n *sitter.Node, from, to uint32) {
	at := from
	for _, child := range named(n) {
		switch child.Type() {
		case "interpolation", "format_expression":
		default:
			continue
		}
		if child.StartByte() < from || child.EndByte() > to {
			continue
		}
		b.text(b.c.literal(at, child.StartByte(), true))
		b.field(child)
		at = child.EndByte()
	}
	b.text(b.c.literal(at, to, true))
}

// field adds a replacement field. A self-documenting field, as in
// f"{x=}", is preceded by its own text.
func (b *fstringBuilder) field(n *sitter.Node) {
	c := b.c
	fv := &ast.FormattedValue{Pos: c.pos(n), Conversion: -1}

	value := n.ChildByFieldName("expression")
	if value == nil {
		for _, kid := range named(n) {
			if kid.Type() != "type_conversion" && kid.Type() != "format_specifier" {
				value = kid
				break
			}
		}
	}
	if value == nil {
		c.fail(n, "empty replacement field")
	}
	if eq := findToken(n, "="); eq != nil {
		b.text(string(c.src[n.Child(0).EndByte():eq.EndByte()]))
	}
	b.flush()

	saved := c.brace
	if c.g.RelativeFStringPositions && c.brace == nil {
		open := n.StartPoint()
		c.brace = &open
	}
	fv.Value = c.expr(value)
	c.brace = saved

	if conv := firstOfType(n, "type_conversion"); conv != nil {
		text := c.text(conv)
		fv.Conversion = int(text[len(text)-1])
	}
	if spec := firstOfType(n, "format_specifier"); spec != nil {
		sb := &fstringBuilder{c: c, pos: c.pos(spec)}
		colon := spec.Child(0)
		sb.fields(spec, colon.EndByte(), spec.EndByte())
		fv.FormatSpec = &ast.JoinedStr{Pos: sb.pos, Values: sb.finish()}
	} else if findToken(n, "=") != nil && fv.Conversion == -1 {
		fv.Conversion = 'r'
	}
	b.values = append(b.values, fv)
}
