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

// Package posindex provides an ordered map keyed by source positions, with
// nearest-neighbor lookups.
package posindex

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"

	"github.com/bufbuild/provenance/source"
)

// Index is an ordered map from [source.Position] to V.
//
// An Index is mutable while it is being built and is treated as read-only
// afterwards. A nil *Index behaves like an empty index.
type Index[V any] struct {
	// Keys are packed positions; see pack.
	tree btree.Map[int64, entry[V]]
}

type entry[V any] struct {
	pos   source.Position
	value V
}

// Set associates pos with value, replacing any previous value.
func (ix *Index[V]) Set(pos source.Position, value V) {
	ix.tree.Set(pack(pos.Line, pos.Col), entry[V]{pos: pos, value: value})
}

// Delete removes pos from the index.
func (ix *Index[V]) Delete(pos source.Position) {
	ix.tree.Delete(pack(pos.Line, pos.Col))
}

// Get returns the value stored at exactly pos.
func (ix *Index[V]) Get(pos source.Position) (V, bool) {
	if ix == nil {
		var zero V
		return zero, false
	}
	e, ok := ix.tree.Get(pack(pos.Line, pos.Col))
	return e.value, ok
}

// Len returns the number of entries.
func (ix *Index[V]) Len() int {
	if ix == nil {
		return 0
	}
	return ix.tree.Len()
}

// FindNext returns the least key that is not before q.
func (ix *Index[V]) FindNext(q source.Position) (source.Position, V, bool) {
	var zero V
	if ix == nil {
		return source.Position{}, zero, false
	}
	iter := ix.tree.Iter()
	if !iter.Seek(pack(q.Line, q.Col)) {
		return source.Position{}, zero, false
	}
	e := iter.Value()
	return e.pos, e.value, true
}

// FindPrevious returns the greatest key strictly before q.
func (ix *Index[V]) FindPrevious(q source.Position) (source.Position, V, bool) {
	var zero V
	if ix == nil {
		return source.Position{}, zero, false
	}
	iter := ix.tree.Iter()
	if iter.Seek(pack(q.Line, q.Col)) {
		if !iter.Prev() {
			return source.Position{}, zero, false
		}
	} else if !iter.Last() {
		return source.Position{}, zero, false
	}
	e := iter.Value()
	return e.pos, e.value, true
}

// All returns an iterator over the entries in position order.
func (ix *Index[V]) All() iter.Seq2[source.Position, V] {
	return func(yield func(source.Position, V) bool) {
		if ix == nil {
			return
		}
		ix.tree.Scan(func(_ int64, e entry[V]) bool {
			return yield(e.pos, e.value)
		})
	}
}

// Format implements [fmt.Formatter].
func (ix *Index[V]) Format(s fmt.State, v rune) {
	fmt.Fprint(s, "{")
	first := true
	for pos, value := range ix.All() {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false
		fmt.Fprintf(s, "%v: ", pos)
		fmt.Fprintf(s, fmt.FormatString(s, v), value)
	}
	fmt.Fprint(s, "}")
}

// pack maps a position onto an int64 preserving lexicographic order. The
// column is added rather than or'd in so that the column -1 positions the
// cursor can produce still sort before column 0.
func pack(line, col int) int64 {
	return int64(line)<<32 + int64(col)
}
