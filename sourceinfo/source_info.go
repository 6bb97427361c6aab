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

// Package sourceinfo contains the logic for computing the source span of
// every node of a Python syntax tree.
//
// Python's parser only reports where a node starts, and for several kinds of
// nodes not even that precisely. The spans computed here also cover where a
// node ends, the operators and delimiters it owns, and the parentheses that
// wrap it. They are derived from the token stream the tree was parsed from:
// every node kind has a rule that finds its boundary tokens relative to the
// spans of its children, which are always computed first.
//
// The tree is never mutated. Spans are returned in a [Result] keyed by node.
package sourceinfo

import (
	"errors"
	"fmt"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/internal/tokenindex"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/token"
	"github.com/bufbuild/provenance/walk"
)

// Span is the source extent of a node. Last is exclusive.
//
// Anchor is a construct-specific position used to tell apart nodes that
// share a span, such as a binary operation and its parenthesized left
// operand. It need not lie between First and Last.
type Span struct {
	First, Last, Anchor source.Position
}

// Range returns the span without its anchor.
func (s Span) Range() source.Range {
	return source.Range{First: s.First, Last: s.Last}
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	return fmt.Sprintf("%v-%v@%v", s.First, s.Last, s.Anchor)
}

// OperatorMark is a token owned by a node that is not itself a node: an
// operator, a keyword, or a delimiter.
type OperatorMark struct {
	First, Last source.Position
	// Label is the token's spelling.
	Label string
}

// String implements [fmt.Stringer].
func (m OperatorMark) String() string {
	return fmt.Sprintf("%q %v-%v", m.Label, m.First, m.Last)
}

// Widened records the parentheses that were absorbed into the span of an
// expression.
type Widened struct {
	// Before is the text between the outer span's first and Inner.First.
	Before source.Range
	// Inner is the span the expression had before it was widened.
	Inner Span
	// After is the text between Inner.Last and the outer span's last.
	After source.Range
}

// Info is everything computed for one node.
type Info struct {
	Span
	// Marks are in source order.
	Marks   []OperatorMark
	Widened *Widened
}

// Mark returns the first mark with the given label.
func (i *Info) Mark(label string) (OperatorMark, bool) {
	for _, m := range i.Marks {
		if m.Label == label {
			return m, true
		}
	}
	return OperatorMark{}, false
}

// Result holds the spans computed for one tree.
type Result struct {
	file  *source.File
	root  ast.Node
	infos map[ast.Node]*Info
}

// File returns the file the spans refer to.
func (r *Result) File() *source.File {
	return r.file
}

// Root returns the node that [Generate] was called with.
func (r *Result) Root() ast.Node {
	return r.root
}

// Len returns the number of nodes that have an Info.
func (r *Result) Len() int {
	return len(r.infos)
}

// Info returns what was computed for n, or nil if n is not part of the
// tree.
func (r *Result) Info(n ast.Node) *Info {
	return r.infos[n]
}

// Span returns n's span. It returns the zero Span if n is not part of the
// tree.
func (r *Result) Span(n ast.Node) Span {
	if info := r.infos[n]; info != nil {
		return info.Span
	}
	return Span{}
}

// Text returns the source text covered by n's span.
func (r *Result) Text(n ast.Node) string {
	info := r.infos[n]
	if info == nil || info.First.IsZero() {
		return ""
	}
	return r.file.Slice(info.First, info.Last)
}

// NodesAt returns the nodes whose span contains p, in pre-order: a node
// comes before the nodes nested in it.
func (r *Result) NodesAt(p source.Position) []ast.Node {
	var out []ast.Node
	_ = walk.Nodes(r.root, func(n ast.Node) error {
		info := r.infos[n]
		if info == nil || info.First.IsZero() {
			return nil
		}
		if !p.Before(info.First) && p.Before(info.Last) {
			out = append(out, n)
		}
		return nil
	})
	return out
}

// Option configures [Generate].
type Option func(*options)

type options struct {
	g      *grammar.Grammar
	tables *tokenindex.Tables
	lex    tokenindex.LexFunc
}

// WithGrammar sets the grammar the tokens were lexed with. The default is
// [grammar.Latest].
func WithGrammar(g *grammar.Grammar) Option {
	return func(o *options) {
		o.g = g
	}
}

// WithTables supplies already classified tokens, so that [Generate] does not
// classify them again. The tokens argument is then ignored.
func WithTables(t *tokenindex.Tables) Option {
	return func(o *options) {
		o.tables = t
	}
}

// WithLexer sets the lexer used for f-string replacement fields that were
// tokenized as part of a single string literal.
func WithLexer(lex tokenindex.LexFunc) Option {
	return func(o *options) {
		o.lex = lex
	}
}

// Generate computes the span of every node in tree, which must have been
// parsed from file. The tokens must have been lexed from file with the same
// grammar.
//
// If the tree does not match the tokens, for example because a token that a
// node's syntax requires is missing, the returned error wraps a
// [*reporter.InconsistencyError] and carries the position the search started
// from.
func Generate(file *source.File, tokens []token.Token, tree ast.Node, opts ...Option) (res *Result, err error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.g == nil {
		o.g = grammar.Latest()
	}
	if o.tables == nil {
		var classifyOpts []tokenindex.Option
		if o.lex != nil {
			classifyOpts = append(classifyOpts, tokenindex.WithLexer(o.lex))
		}
		o.tables, err = tokenindex.Build(file, tokens, o.g, classifyOpts...)
		if err != nil {
			return nil, err
		}
	}

	v := &visitor{
		file:   file,
		g:      o.g,
		tables: o.tables,
		res: &Result{
			file:  file,
			root:  tree,
			infos: make(map[ast.Node]*Info),
		},
		fields: make(map[*ast.FormattedValue]source.Range),
	}
	defer func() {
		if r := recover(); r != nil {
			var ie *reporter.InconsistencyError
			rerr, ok := r.(error)
			if !ok || !errors.As(rerr, &ie) {
				panic(r)
			}
			res, err = nil, reporter.Error(reporter.PosIn(file, ie.Pos), ie)
		}
	}()
	v.visit(tree)
	return v.res, nil
}
