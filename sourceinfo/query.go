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
	"fmt"
	"strings"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/internal/tokenindex"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
)

// The queries below come in two flavors. The find* methods report whether
// anything was found. The others panic with a *reporter.InconsistencyError
// when nothing is found, which Generate turns into an error: they are used
// where the node's syntax guarantees the token exists.

// fail aborts span computation for the whole tree.
func (v *visitor) fail(n ast.Node, query string, p source.Position) {
	panic(&reporter.InconsistencyError{Node: n, Query: query, Pos: p})
}

// findAfter returns the first token in ix that ends after p, which is the
// first one starting at or after p.
func findAfter(label string, ix *tokenindex.Spans, p source.Position) (OperatorMark, bool) {
	end, start, ok := ix.FindNext(p.Shift(1))
	return OperatorMark{First: start, Last: end, Label: label}, ok
}

// findBefore returns the last token in ix that ends at or before p.
func findBefore(label string, ix *tokenindex.Spans, p source.Position) (OperatorMark, bool) {
	end, start, ok := ix.FindPrevious(p.Shift(1))
	return OperatorMark{First: start, Last: end, Label: label}, ok
}

func (v *visitor) after(n ast.Node, label string, ix *tokenindex.Spans, p source.Position) OperatorMark {
	m, ok := findAfter(label, ix, p)
	if !ok {
		v.fail(n, fmt.Sprintf("%q at or after %v", label, p), p)
	}
	return m
}

func (v *visitor) before(n ast.Node, label string, ix *tokenindex.Spans, p source.Position) OperatorMark {
	m, ok := findBefore(label, ix, p)
	if !ok {
		v.fail(n, fmt.Sprintf("%q ending at or before %v", label, p), p)
	}
	return m
}

// opAfter and opBefore query the operator index for one spelling.
func (v *visitor) opAfter(n ast.Node, spelling string, p source.Position) OperatorMark {
	return v.after(n, spelling, v.tables.Operator(spelling), p)
}

func (v *visitor) opBefore(n ast.Node, spelling string, p source.Position) OperatorMark {
	return v.before(n, spelling, v.tables.Operator(spelling), p)
}

func (v *visitor) findOpAfter(spelling string, p source.Position) (OperatorMark, bool) {
	return findAfter(spelling, v.tables.Operator(spelling), p)
}

func (v *visitor) findOpBefore(spelling string, p source.Position) (OperatorMark, bool) {
	return findBefore(spelling, v.tables.Operator(spelling), p)
}

// nameAfter returns the first NAME token spelled id at or after p.
func (v *visitor) nameAfter(n ast.Node, id string, p source.Position) OperatorMark {
	return v.after(n, id, v.tables.Name(id), p)
}

// pairAfter returns the first bracket pair of ix opening at or after p.
func (v *visitor) pairAfter(n ast.Node, label string, ix *tokenindex.Pairs, p source.Position) source.Range {
	open, closeEnd, ok := ix.FindNext(p)
	if !ok {
		v.fail(n, fmt.Sprintf("%q at or after %v", label, p), p)
	}
	return source.Range{First: open, Last: closeEnd}
}

// pairBefore returns the last bracket pair of ix opening at or before p.
func (v *visitor) pairBefore(n ast.Node, label string, ix *tokenindex.Pairs, p source.Position) source.Range {
	open, closeEnd, ok := ix.FindPrevious(p.Shift(1))
	if !ok {
		v.fail(n, fmt.Sprintf("%q at or before %v", label, p), p)
	}
	return source.Range{First: open, Last: closeEnd}
}

// startingAt returns the entry of ix that starts exactly at p. Entries that
// are nested inside it, such as the strings of an f-string's replacement
// fields, end earlier and are skipped. If no entry starts at p, the first
// one ending after p is returned.
func (v *visitor) startingAt(n ast.Node, label string, ix *tokenindex.Spans, p source.Position) OperatorMark {
	first := v.after(n, label, ix, p)
	for m, ok := first, true; ok; m, ok = findAfter(label, ix, m.Last) {
		if m.First == p {
			return m
		}
		if m.First.Before(p) {
			break
		}
	}
	return first
}

// startByKeyword finds the keyword that starts a construct reported at p.
// It is normally exactly at p. Otherwise it is the nearest one before p.
func (v *visitor) startByKeyword(n ast.Node, kw string, p source.Position) OperatorMark {
	if m, ok := v.findOpAfter(kw, p); ok && m.First == p {
		return m
	}
	return v.opBefore(n, kw, p)
}

// infix finds the operator between the spans left and right, trying each
// spelling. Of the candidates, the one whose start is closest to the start
// of right wins, comparing line distance before column distance.
func (v *visitor) infix(n ast.Node, spellings []string, left, right Span) OperatorMark {
	lo := left.Last.Shift(-1)
	hi := right.First.Shift(1)
	var best OperatorMark
	found := false
	for _, sp := range spellings {
		end, start, ok := v.tables.Operator(sp).FindPrevious(hi)
		if !ok || !lo.Before(start) || !start.Before(hi) {
			continue
		}
		if !found || hi.Sub(start).Compare(hi.Sub(best.First)) < 0 {
			best = OperatorMark{First: start, Last: end, Label: sp}
			found = true
		}
	}
	if !found {
		v.fail(n, fmt.Sprintf("%s between %v and %v", quoted(spellings), lo, hi), lo)
	}
	return best
}

// prefix finds the operator that ends at or before the start of operand,
// nearest to it.
func (v *visitor) prefix(n ast.Node, spellings []string, operand Span) OperatorMark {
	hi := operand.First.Shift(1)
	var best OperatorMark
	found := false
	for _, sp := range spellings {
		end, start, ok := v.tables.Operator(sp).FindPrevious(hi)
		if !ok || !start.Before(hi) {
			continue
		}
		if !found || hi.Sub(start).Compare(hi.Sub(best.First)) < 0 {
			best = OperatorMark{First: start, Last: end, Label: sp}
			found = true
		}
	}
	if !found {
		v.fail(n, fmt.Sprintf("%s before %v", quoted(spellings), hi), hi)
	}
	return best
}

// spellings returns how op may be written.
func (v *visitor) spellings(n ast.Node, op ast.Operator) []string {
	sps := v.g.Spellings(op.String())
	if len(sps) == 0 {
		v.fail(n, fmt.Sprintf("spelling of operator %v", op), source.Position{})
	}
	return sps
}

// blank returns whether the text between p1 and p2 is only whitespace and
// line continuations.
func (v *visitor) blank(p1, p2 source.Position) bool {
	first, last := source.PositionBetween(v.file, p1, p2)
	return first == last
}

// markPair records the delimiters of a bracket pair on n.
func (v *visitor) markPair(n ast.Node, open string, r source.Range) {
	v.mark(n, OperatorMark{First: r.First, Last: r.First.Shift(1), Label: open})
	v.mark(n, OperatorMark{First: r.Last.Shift(-1), Last: r.Last, Label: closing[open]})
}

var closing = map[string]string{"(": ")", "[": "]", "{": "}", "`": "`"}

func quoted(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, " or ")
}
