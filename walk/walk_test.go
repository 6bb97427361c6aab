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

package walk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/provenance/ast"
)

// x = f(a, k=b)
func testTree() *ast.Module {
	return &ast.Module{Body: []ast.Stmt{
		&ast.Assign{
			Pos:     ast.At(1, 0),
			Targets: []ast.Expr{&ast.Name{Pos: ast.At(1, 0), ID: "x"}},
			Value: &ast.Call{
				Pos:  ast.At(1, 4),
				Func: &ast.Name{Pos: ast.At(1, 4), ID: "f"},
				Args: []ast.Expr{&ast.Name{Pos: ast.At(1, 6), ID: "a"}},
				Keywords: []*ast.Keyword{{
					Pos:   ast.At(1, 9),
					Arg:   "k",
					Value: &ast.Name{Pos: ast.At(1, 11), ID: "b"},
				}},
			},
		},
	}}
}

func kinds(t *testing.T, walker func(ast.Node, func(ast.Node) error) error) []string {
	t.Helper()
	var out []string
	err := walker(testTree(), func(n ast.Node) error {
		out = append(out, ast.KindOf(n))
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestNodes(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		[]string{"Module", "Assign", "Name", "Call", "Name", "Name", "keyword", "Name"},
		kinds(t, Nodes))
}

func TestPostOrder(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		[]string{"Name", "Name", "Name", "Name", "keyword", "Call", "Assign", "Module"},
		kinds(t, PostOrder))
}

func TestSkipChildren(t *testing.T) {
	t.Parallel()
	var entered, exited []string
	err := NodesEnterAndExit(testTree(),
		func(n ast.Node) error {
			entered = append(entered, ast.KindOf(n))
			if _, ok := n.(*ast.Call); ok {
				return SkipChildren
			}
			return nil
		},
		func(n ast.Node) error {
			exited = append(exited, ast.KindOf(n))
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"Module", "Assign", "Name", "Call"}, entered)
	assert.Equal(t, []string{"Name", "Call", "Assign", "Module"}, exited)
}

func TestStopOnError(t *testing.T) {
	t.Parallel()
	stop := errors.New("stop")
	var seen int
	err := Nodes(testTree(), func(n ast.Node) error {
		seen++
		if _, ok := n.(*ast.Call); ok {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 4, seen)
}

func TestNodesWithAncestors(t *testing.T) {
	t.Parallel()
	var depths []int
	var keywordParents []string
	err := NodesWithAncestors(testTree(), func(n ast.Node, ancestors []ast.Node) error {
		depths = append(depths, len(ancestors))
		if _, ok := n.(*ast.Keyword); ok {
			for _, a := range ancestors {
				keywordParents = append(keywordParents, ast.KindOf(a))
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 2, 3, 3, 3, 4}, depths)
	assert.Equal(t, []string{"Module", "Assign", "Call"}, keywordParents)
	assert.Equal(t, 8, Count(testTree()))
}
