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

// Package walk provides helper functions for traversing the nodes of a
// Python syntax tree.
package walk

import (
	"errors"

	"github.com/bufbuild/provenance/ast"
)

// SkipChildren may be returned by an enter function to skip the children of
// the node it was called for. The exit function is still called.
var SkipChildren = errors.New("skip children") //nolint:revive,errname,staticcheck

// Nodes walks the tree rooted at root in depth-first pre-order, calling fn
// for each node. If fn returns an error, the walk stops and that error is
// returned.
func Nodes(root ast.Node, fn func(ast.Node) error) error {
	return NodesEnterAndExit(root, fn, nil)
}

// NodesEnterAndExit walks the tree rooted at root, calling enter before a
// node's children are visited and exit after. The exit function may be nil.
func NodesEnterAndExit(root ast.Node, enter, exit func(ast.Node) error) error {
	err := nodes(root, enter, exit)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func nodes(n ast.Node, enter, exit func(ast.Node) error) error {
	skip := false
	if err := enter(n); err != nil {
		if !errors.Is(err, SkipChildren) {
			return err
		}
		skip = true
	}
	if !skip {
		for _, child := range ast.Children(n) {
			if err := nodes(child, enter, exit); err != nil {
				return err
			}
		}
	}
	if exit != nil {
		if err := exit(n); err != nil {
			return err
		}
	}
	return nil
}

// PostOrder walks the tree rooted at root so that every node is visited
// after all of its children.
func PostOrder(root ast.Node, fn func(ast.Node) error) error {
	return NodesEnterAndExit(root, func(ast.Node) error { return nil }, fn)
}

// NodesWithAncestors is like Nodes except that fn also receives the chain
// of ancestors of each node, outermost first. The slice is only valid for
// the duration of the call.
func NodesWithAncestors(root ast.Node, fn func(n ast.Node, ancestors []ast.Node) error) error {
	var stack []ast.Node
	return NodesEnterAndExit(root,
		func(n ast.Node) error {
			err := fn(n, stack)
			stack = append(stack, n)
			return err
		},
		func(ast.Node) error {
			stack = stack[:len(stack)-1]
			return nil
		})
}

// Count returns the number of nodes in the tree rooted at root.
func Count(root ast.Node) int {
	var count int
	_ = Nodes(root, func(ast.Node) error {
		count++
		return nil
	})
	return count
}
