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

package tokenindex

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/lexer"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/token"
)

func build(t *testing.T, version grammar.Version, text string) *Tables {
	t.Helper()
	g, err := grammar.ForVersion(version)
	require.NoError(t, err)
	file := source.NewFile("test.py", text)
	toks, err := lexer.Lex(file, g)
	require.NoError(t, err)
	tables, err := Build(file, toks, g)
	require.NoError(t, err)
	return tables
}

func str(ix *Spans) string {
	return fmt.Sprint(ix)
}

func TestAttributes(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.LatestVersion, "#bla\na.b")
	assert.Equal(t, "{2:3: 2:1}", str(tables.Attributes))
	assert.Equal(t, "{2:2: 2:1}", str(tables.Operator(".")))
	assert.Equal(t, "{2:1: 2:0}", str(tables.Name("a")))
	assert.Equal(t, "{2:3: 2:2}", str(tables.Name("b")))
}

func TestBrackets(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.LatestVersion, "f(a[1], {2: (3)})")
	assert.Equal(t, "{1:1: 1:17, 1:12: 1:15}", str(tables.Parens))
	assert.Equal(t, "{1:3: 1:6}", str(tables.Brackets))
	assert.Equal(t, "{1:8: 1:16}", str(tables.Braces))
	assert.Equal(t, "{1:5: 1:4, 1:10: 1:9, 1:14: 1:13}", str(tables.Numbers))
	assert.Equal(t, "{1:11: 1:10}", str(tables.Operator(":")))
}

func TestStringsMerge(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.LatestVersion, "x = ('a'\n 'b' # comment\n \"c\")\ny = 'd'\n")
	assert.Equal(t, "{3:4: 1:5, 4:7: 4:4}", str(tables.Strings))
}

func TestComposites(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.LatestVersion,
		"a is not b\nc not in d\nx = not y\nasync def f(): pass\nz = yield\n")
	assert.Equal(t, "{1:8: 1:2}", str(tables.Operator("is not")))
	assert.Equal(t, "{2:8: 2:2}", str(tables.Operator("not in")))
	assert.Equal(t, "{3:7: 3:4}", str(tables.Operator("not")))
	assert.Nil(t, tables.Operator("is"))
	assert.Nil(t, tables.Operator("in"))
	assert.Equal(t, "{4:9: 4:0}", str(tables.Operator("async def")))
	assert.Equal(t, "{4:9: 4:6}", str(tables.Operator("def")))
	assert.Nil(t, tables.Operator("async"))
	assert.Equal(t, "{5:9: 5:4}", str(tables.Operator("yield")))
	assert.Equal(t, "{5:9: 5:4}", str(tables.Name("yield")))
}

func TestElifRecordedAsIf(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.LatestVersion, "if a:\n    pass\nelif b:\n    pass\n")
	assert.Equal(t, "{1:2: 1:0, 3:4: 3:0}", str(tables.Operator("if")))
	assert.Nil(t, tables.Operator("elif"))
}

func TestSoftKeywords(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.LatestVersion, "match x:\n    case _:\n        pass\ny.match\n")
	assert.Equal(t, "{1:5: 1:0}", str(tables.Operator("match")))
	assert.Equal(t, "{2:8: 2:4}", str(tables.Operator("case")))
	assert.Equal(t, "{2:10: 2:9}", str(tables.Operator("_")))
	assert.Equal(t, "{4:7: 4:1}", str(tables.Attributes))

	// Before 3.10 they are plain names.
	tables = build(t, grammar.Version{Major: 3, Minor: 9}, "match = 1\n")
	assert.Nil(t, tables.Operator("match"))
}

func TestLegacyEllipsis(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.Version{Major: 2, Minor: 7}, "a[...]\n")
	assert.Equal(t, "{1:5: 1:2}", str(tables.Operator("...")))
	assert.Equal(t, "{1:3: 1:2, 1:4: 1:3, 1:5: 1:4}", str(tables.Operator(".")))

	tables = build(t, grammar.LatestVersion, "a[...]\n")
	assert.Equal(t, "{1:5: 1:2}", str(tables.Operator("...")))
	assert.Nil(t, tables.Operator("."))
}

func TestFStringFields(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.Version{Major: 3, Minor: 11}, `f"{a!r:>{w}} {b=}"`)
	assert.Equal(t, "{1:2: 1:12, 1:8: 1:11, 1:13: 1:17}", str(tables.Braces))
	assert.Equal(t, "{1:4: 1:3}", str(tables.Name("a")))
	assert.Equal(t, "{1:10: 1:9}", str(tables.Name("w")))
	assert.Equal(t, "{1:15: 1:14}", str(tables.Name("b")))
	assert.Nil(t, tables.Operator("="))
	assert.Equal(t, "{1:18: 1:0}", str(tables.Strings))

	// Doubled braces are not fields.
	tables = build(t, grammar.Version{Major: 3, Minor: 11}, `f"{{a}}"`)
	assert.Equal(t, "{}", str(tables.Braces))
	assert.Nil(t, tables.Name("a"))
}

func TestFStringMultiline(t *testing.T) {
	t.Parallel()
	tables := build(t, grammar.Version{Major: 3, Minor: 11}, "f'''{\nx}'''\n")
	assert.Equal(t, "{1:4: 2:2}", str(tables.Braces))
	assert.Equal(t, "{2:1: 2:0}", str(tables.Name("x")))
	assert.Equal(t, "{2:5: 1:0}", str(tables.Strings))
}

func TestFStringTokens(t *testing.T) {
	t.Parallel()
	g, err := grammar.ForVersion(grammar.Version{Major: 3, Minor: 12})
	require.NoError(t, err)
	file := source.NewFile("test.py", `f"{x}" 'a'`)
	toks := []token.Token{
		{Kind: token.FStringStart, Text: `f"`, Start: source.Pos(1, 0), End: source.Pos(1, 2)},
		{Kind: token.Op, Text: "{", Start: source.Pos(1, 2), End: source.Pos(1, 3)},
		{Kind: token.Name, Text: "x", Start: source.Pos(1, 3), End: source.Pos(1, 4)},
		{Kind: token.Op, Text: "}", Start: source.Pos(1, 4), End: source.Pos(1, 5)},
		{Kind: token.FStringEnd, Text: `"`, Start: source.Pos(1, 5), End: source.Pos(1, 6)},
		{Kind: token.String, Text: "'a'", Start: source.Pos(1, 7), End: source.Pos(1, 10)},
		{Kind: token.Newline, Start: source.Pos(1, 10), End: source.Pos(1, 10)},
		{Kind: token.EndMarker, Start: source.Pos(2, 0), End: source.Pos(2, 0)},
	}
	tables, err := Build(file, toks, g)
	require.NoError(t, err)
	assert.Equal(t, "{1:10: 1:0}", str(tables.Strings))
	assert.Equal(t, "{1:2: 1:5}", str(tables.Braces))
	assert.Equal(t, "{1:4: 1:3}", str(tables.Name("x")))
}

func TestUnmatchedClose(t *testing.T) {
	t.Parallel()
	g := grammar.Latest()
	file := source.NewFile("test.py", ")")
	toks := []token.Token{
		{Kind: token.Op, Text: ")", Start: source.Pos(1, 0), End: source.Pos(1, 1)},
	}
	_, err := Build(file, toks, g)
	var ewp reporter.ErrorWithPos
	require.ErrorAs(t, err, &ewp)
	assert.Equal(t, source.Pos(1, 0), ewp.GetPosition().Position)
}

func TestCustomLexer(t *testing.T) {
	t.Parallel()
	g, err := grammar.ForVersion(grammar.Version{Major: 3, Minor: 11})
	require.NoError(t, err)
	file := source.NewFile("test.py", `f"{a}"`)
	toks, err := lexer.Lex(file, g)
	require.NoError(t, err)

	var calls int
	_, err = Build(file, toks, g, WithLexer(func(f *source.File, g *grammar.Grammar) ([]token.Token, error) {
		calls++
		assert.Equal(t, "(a)", f.Text())
		return lexer.Lex(f, g)
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
