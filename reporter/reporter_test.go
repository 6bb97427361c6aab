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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/source"
)

func TestErrorWithPos(t *testing.T) {
	t.Parallel()
	underlying := errors.New("unterminated string")
	err := Error(SourcePos{Filename: "a.py", Position: source.Pos(3, 4)}, underlying)
	assert.Equal(t, "a.py:3:5: unterminated string", err.Error())
	require.ErrorIs(t, err, underlying)
	assert.Equal(t, source.Pos(3, 4), err.GetPosition().Position)

	err = Errorf(SourcePos{Position: source.Pos(1, 0)}, "bad %s", "token")
	assert.Equal(t, "1:1: bad token", err.Error())
}

func TestHandler(t *testing.T) {
	t.Parallel()
	var reported []string
	h := NewHandler(NewReporter(func(err ErrorWithPos) error {
		reported = append(reported, err.Error())
		return nil
	}, nil))

	require.NoError(t, h.HandleErrorf(SourcePos{Filename: "a.py", Position: source.Pos(1, 0)}, "first"))
	require.NoError(t, h.HandleErrorf(SourcePos{Filename: "b.py", Position: source.Pos(2, 1)}, "second"))
	assert.Equal(t, []string{"a.py:1:1: first", "b.py:2:2: second"}, reported)
	require.ErrorIs(t, h.Error(), ErrInvalidSource)
	require.NoError(t, h.ReporterError())
}

func TestHandlerFailFast(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil)
	err := h.HandleErrorf(SourcePos{Filename: "a.py", Position: source.Pos(1, 0)}, "first")
	require.Error(t, err)
	// Once an error is returned, later ones are short-circuited.
	again := h.HandleErrorf(SourcePos{Filename: "a.py", Position: source.Pos(9, 0)}, "second")
	assert.Equal(t, err, again)
	assert.Equal(t, err, h.Error())
}

func TestInconsistencyError(t *testing.T) {
	t.Parallel()
	err := &InconsistencyError{
		Node:  &ast.Assign{},
		Query: `"=" before 1:4`,
		Pos:   source.Pos(1, 4),
	}
	assert.Equal(t, `inconsistent Assign node: no "=" before 1:4 (searching from 1:4)`, err.Error())
}

func TestSnippet(t *testing.T) {
	t.Parallel()
	file := source.NewFile("a.py", "x = 1\n\tf(a, b\ns = '日本' + y\n")

	assert.Equal(t, " 1 | x = 1\n   |     ^\n", Snippet(file, source.Pos(1, 4)))
	assert.Equal(t, " 2 |     f(a, b\n   |      ^\n", Snippet(file, source.Pos(2, 2)))
	// Each of the two CJK characters is two columns wide.
	assert.Equal(t, " 3 | s = '日本' + y\n   |            ^\n", Snippet(file, source.Pos(3, 9)))
	// At the end of the line.
	assert.Equal(t, " 1 | x = 1\n   |      ^\n", Snippet(file, source.Pos(1, 5)))
	assert.Empty(t, Snippet(file, source.Pos(7, 0)))
}
