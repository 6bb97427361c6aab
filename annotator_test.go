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

package provenance

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/lexer"
	"github.com/bufbuild/provenance/parser"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/token"
)

func TestAnnotate(t *testing.T) {
	t.Parallel()
	a := Annotator{
		Resolver: SourceResolverFromMap(map[string]string{
			"a.py": "x = (a + b)\n",
			"b.py": "# -*- coding: latin-1 -*-\ns = 'caf\xe9'\n",
		}),
	}
	files, err := a.Annotate(context.Background(), "a.py", "b.py")
	require.NoError(t, err)
	require.Len(t, files, 2)

	mod, ok := files[0].Root().(*ast.Module)
	require.True(t, ok)
	require.Len(t, mod.Body, 1)
	assign, ok := mod.Body[0].(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x = (a + b)", files[0].Text(assign))
	assert.Equal(t, "x", files[0].Text(assign.Targets[0]))

	mod, ok = files[1].Root().(*ast.Module)
	require.True(t, ok)
	require.Len(t, mod.Body, 1)
	assign, ok = mod.Body[0].(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "'café'", files[1].Text(assign.Value))

	assert.Same(t, files[1], files.FindFileByPath("b.py"))
	assert.Nil(t, files.FindFileByPath("c.py"))
}

func TestAnnotateNoFiles(t *testing.T) {
	t.Parallel()
	a := Annotator{Resolver: SourceResolverFromMap(nil)}
	files, err := a.Annotate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestAnnotateSameFileTwice(t *testing.T) {
	t.Parallel()
	a := Annotator{
		Resolver:       SourceResolverFromMap(map[string]string{"a.py": "pass\n"}),
		MaxParallelism: 1,
	}
	files, err := a.Annotate(context.Background(), "a.py", "a.py")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Same(t, files[0], files[1])
}

func TestAnnotateNotFound(t *testing.T) {
	t.Parallel()
	a := Annotator{Resolver: CompositeResolver{}}
	_, err := a.Annotate(context.Background(), "missing.py")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAnnotateSyntaxError(t *testing.T) {
	t.Parallel()
	resolver := SourceResolverFromMap(map[string]string{"bad.py": "x = = 1\n"})

	t.Run("default reporter", func(t *testing.T) {
		t.Parallel()
		a := Annotator{Resolver: resolver}
		_, err := a.Annotate(context.Background(), "bad.py")
		var ewp reporter.ErrorWithPos
		require.ErrorAs(t, err, &ewp)
		assert.Equal(t, "bad.py", ewp.GetPosition().Filename)
	})
	t.Run("errors swallowed", func(t *testing.T) {
		t.Parallel()
		var reported []reporter.ErrorWithPos
		a := Annotator{
			Resolver: resolver,
			Reporter: reporter.NewReporter(func(err reporter.ErrorWithPos) error {
				reported = append(reported, err)
				return nil
			}, nil),
		}
		_, err := a.Annotate(context.Background(), "bad.py")
		require.ErrorIs(t, err, reporter.ErrInvalidSource)
		assert.NotEmpty(t, reported)
	})
}

func TestAnnotateLexError(t *testing.T) {
	t.Parallel()
	a := Annotator{
		Resolver: SourceResolverFromMap(map[string]string{"bad.py": "s = 'abc\n"}),
	}
	_, err := a.Annotate(context.Background(), "bad.py")
	var ewp reporter.ErrorWithPos
	require.ErrorAs(t, err, &ewp)
	assert.Equal(t, 1, ewp.GetPosition().Line)
}

func TestAnnotateSuppliedTree(t *testing.T) {
	t.Parallel()
	y := &ast.Name{Pos: ast.At(1, 1), ID: "y"}
	tree := &ast.Module{Body: []ast.Stmt{&ast.ExprStmt{Value: y}}}
	srcs := SourceResolverFromMap(map[string]string{"a.py": "(y)\n"})
	a := Annotator{
		Resolver: ResolverFunc(func(path string) (SearchResult, error) {
			sr, err := srcs.FindFileByPath(path)
			sr.AST = tree
			return sr, err
		}),
	}
	files, err := a.Annotate(context.Background(), "a.py")
	require.NoError(t, err)
	assert.Same(t, ast.Node(tree), files[0].Root())
	assert.Equal(t, "(y)", files[0].Text(y))
}

func TestAnnotateGrammar(t *testing.T) {
	t.Parallel()
	resolver := SourceResolverFromMap(map[string]string{"a.py": "print 'hi'\n"})

	py27, err := grammar.ForVersion(grammar.Version{Major: 2, Minor: 7})
	require.NoError(t, err)
	a := Annotator{Resolver: resolver, Grammar: py27}
	files, err := a.Annotate(context.Background(), "a.py")
	require.NoError(t, err)
	mod, ok := files[0].Root().(*ast.Module)
	require.True(t, ok)
	require.Len(t, mod.Body, 1)
	assert.Equal(t, "print 'hi'", files[0].Text(mod.Body[0]))

	a = Annotator{Resolver: resolver}
	_, err = a.Annotate(context.Background(), "a.py")
	require.Error(t, err)
}

func TestAnnotateLogging(t *testing.T) {
	t.Parallel()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	a := Annotator{
		Resolver: SourceResolverFromMap(map[string]string{"a.py": "x = 1\n"}),
		Logger:   logger,
	}
	_, err := a.Annotate(context.Background(), "a.py", "missing.py")
	require.Error(t, err)

	var messages []string
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
		switch entry.Message {
		case "annotated file":
			assert.Equal(t, logrus.DebugLevel, entry.Level)
			assert.Equal(t, "a.py", entry.Data["file"])
			assert.Positive(t, entry.Data["nodes"])
		case "failed to resolve file":
			assert.Equal(t, logrus.WarnLevel, entry.Level)
			assert.Equal(t, "missing.py", entry.Data["file"])
		}
	}
	assert.Contains(t, messages, "failed to resolve file")
}

func TestAnnotateCustomParser(t *testing.T) {
	t.Parallel()
	var parsed []string
	a := Annotator{
		Resolver:       SourceResolverFromMap(map[string]string{"a.py": "1 + 2\n"}),
		MaxParallelism: 1,
		Parser: func(ctx context.Context, file *source.File, g *grammar.Grammar, h *reporter.Handler) (ast.Mod, error) {
			parsed = append(parsed, file.Path())
			return parser.Parse(ctx, file, g, h)
		},
	}
	files, err := a.Annotate(context.Background(), "a.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, parsed)
	mod, ok := files[0].Root().(*ast.Module)
	require.True(t, ok)
	require.Len(t, mod.Body, 1)
	assert.Equal(t, "1 + 2", files[0].Text(mod.Body[0]))
}

func TestAnnotateCustomLexer(t *testing.T) {
	t.Parallel()
	var lexed []string
	a := Annotator{
		Resolver:       SourceResolverFromMap(map[string]string{"a.py": "s = f\"{a}\"\n"}),
		MaxParallelism: 1,
		Lexer: func(file *source.File, g *grammar.Grammar) ([]token.Token, error) {
			lexed = append(lexed, file.Text())
			return lexer.Lex(file, g)
		},
	}
	files, err := a.Annotate(context.Background(), "a.py")
	require.NoError(t, err)
	// The replacement field is lexed again, wrapped in parentheses.
	assert.Equal(t, []string{"s = f\"{a}\"\n", "(a)"}, lexed)
	mod, ok := files[0].Root().(*ast.Module)
	require.True(t, ok)
	require.Len(t, mod.Body, 1)
	assert.Equal(t, "s = f\"{a}\"", files[0].Text(mod.Body[0]))
}
