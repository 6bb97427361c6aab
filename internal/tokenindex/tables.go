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

// Package tokenindex classifies a token stream into the position indexes
// that span recovery queries.
package tokenindex

import (
	"github.com/bufbuild/provenance/internal/posindex"
	"github.com/bufbuild/provenance/source"
)

// Pairs maps the start of an opening bracket to the end of its matching
// closing bracket.
type Pairs = posindex.Index[source.Position]

// Spans maps the end of a token (or run of tokens) to its start.
type Spans = posindex.Index[source.Position]

// Tables is the result of classifying one token stream. It is read-only
// once built.
type Tables struct {
	Parens, Brackets, Braces *Pairs

	// Strings holds string literals. Adjacent literals, which the parser
	// concatenates, are merged into one entry.
	Strings *Spans
	Numbers *Spans
	// Attributes maps the end of an attribute name to the start of the dot
	// before it.
	Attributes *Spans

	operators map[string]*Spans
	names     map[string]*Spans
}

func newTables() *Tables {
	return &Tables{
		Parens:     new(Pairs),
		Brackets:   new(Pairs),
		Braces:     new(Pairs),
		Strings:    new(Spans),
		Numbers:    new(Spans),
		Attributes: new(Spans),
		operators:  make(map[string]*Spans),
		names:      make(map[string]*Spans),
	}
}

// Operator returns the index of every occurrence of the given operator,
// delimiter, or keyword spelling. The result is nil, which behaves as an
// empty index, if the spelling never occurs.
func (t *Tables) Operator(spelling string) *Spans {
	return t.operators[spelling]
}

// Name returns the index of every NAME token with the given spelling.
func (t *Tables) Name(id string) *Spans {
	return t.names[id]
}

// OperatorSpellings returns the number of distinct spellings recorded in
// the operator index.
func (t *Tables) OperatorSpellings() int {
	return len(t.operators)
}

func (t *Tables) op(spelling string, start, end source.Position) {
	ix := t.operators[spelling]
	if ix == nil {
		ix = new(Spans)
		t.operators[spelling] = ix
	}
	ix.Set(end, start)
}

func (t *Tables) name(id string, start, end source.Position) {
	ix := t.names[id]
	if ix == nil {
		ix = new(Spans)
		t.names[id] = ix
	}
	ix.Set(end, start)
}
