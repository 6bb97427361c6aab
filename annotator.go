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
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/grammar"
	"github.com/bufbuild/provenance/lexer"
	"github.com/bufbuild/provenance/parser"
	"github.com/bufbuild/provenance/reporter"
	"github.com/bufbuild/provenance/source"
	"github.com/bufbuild/provenance/sourceinfo"
	"github.com/bufbuild/provenance/token"
)

// Annotator computes span information for Python source files.
//
// The process involves four steps for each file:
//  1. Decoding the raw bytes into text.
//  2. Lexing the text into tokens.
//  3. Parsing the text into an AST (abstract syntax tree).
//  4. Matching every AST node against the tokens to recover its span.
//
// A Resolver may supply tokens or an AST for a file, in which case the
// corresponding step is skipped.
type Annotator struct {
	// Resolves file names into source code, and optionally tokens and an
	// AST. This field is the only required field.
	Resolver Resolver
	// The language version the files are written in. If nil, the latest
	// supported version is used.
	Grammar *grammar.Grammar
	// The maximum parallelism to use when annotating. If unspecified or set
	// to a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default reporter
	// is used. A default reporter fails the operation after encountering any
	// errors and ignores all warnings.
	Reporter reporter.Reporter
	// Receives a debug entry for each annotated file. If nil, nothing is
	// logged.
	Logger logrus.FieldLogger

	// Tokenizes files for which the Resolver supplies no tokens. It is also
	// used on the text of f-string replacement fields. If nil, [lexer.Lex]
	// is used.
	Lexer func(*source.File, *grammar.Grammar) ([]token.Token, error)
	// Parses files for which the Resolver supplies no AST. If nil,
	// [parser.Parse] is used.
	Parser func(context.Context, *source.File, *grammar.Grammar, *reporter.Handler) (ast.Mod, error)
}

// Files is the result of [Annotator.Annotate], in the order the files were
// requested.
type Files []*sourceinfo.Result

// FindFileByPath returns the result for the given path, or nil.
func (f Files) FindFileByPath(path string) *sourceinfo.Result {
	for _, res := range f {
		if res.File().Path() == path {
			return res
		}
	}
	return nil
}

// Annotate computes span information for the given file names. The
// annotator's resolver is used to load each file.
func (a *Annotator) Annotate(ctx context.Context, files ...string) (Files, error) {
	if len(files) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := a.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}

	g := a.Grammar
	if g == nil {
		g = grammar.Latest()
	}
	log := a.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	lex := a.Lexer
	if lex == nil {
		lex = lexer.Lex
	}
	parse := a.Parser
	if parse == nil {
		parse = parser.Parse
	}

	e := executor{
		a:       a,
		g:       g,
		lexFile: lex,
		parse:   parse,
		h:       reporter.NewHandler(a.Reporter),
		log:     log,
		s:       semaphore.NewWeighted(int64(par)),
		results: map[string]*result{},
	}

	results := make([]*result, len(files))
	for i, f := range files {
		results[i] = e.annotate(ctx, f)
	}

	out := make(Files, len(files))
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if r.err != nil {
			return nil, r.err
		}
		out[i] = r.res
	}
	return out, nil
}

type result struct {
	ready chan struct{}
	res   *sourceinfo.Result
	err   error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(res *sourceinfo.Result) {
	r.res = res
	close(r.ready)
}

type executor struct {
	a       *Annotator
	g       *grammar.Grammar
	lexFile func(*source.File, *grammar.Grammar) ([]token.Token, error)
	parse   func(context.Context, *source.File, *grammar.Grammar, *reporter.Handler) (ast.Mod, error)
	h       *reporter.Handler
	log     logrus.FieldLogger
	s       *semaphore.Weighted

	mu      sync.Mutex
	results map[string]*result
}

// annotate starts work on the given file, unless it was already requested.
func (e *executor) annotate(ctx context.Context, file string) *result {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.results[file]
	if r != nil {
		return r
	}

	r = &result{
		ready: make(chan struct{}),
	}
	e.results[file] = r
	go func() {
		e.doAnnotate(ctx, file, r)
	}()
	return r
}

func (e *executor) doAnnotate(ctx context.Context, file string, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	start := time.Now()
	log := e.log.WithField("file", file)

	sr, err := e.a.Resolver.FindFileByPath(file)
	if err != nil {
		log.WithError(err).Warn("failed to resolve file")
		r.fail(err)
		return
	}
	defer func() {
		// if results included a source, don't leave it open if it can be closed
		if c, ok := sr.Source.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	res, err := e.asResult(ctx, file, sr)
	if err != nil {
		log.WithError(err).Warn("failed to annotate file")
		r.fail(err)
		return
	}
	log.WithFields(logrus.Fields{
		"nodes":   res.Len(),
		"elapsed": time.Since(start),
	}).Debug("annotated file")
	r.complete(res)
}

func (e *executor) asResult(ctx context.Context, name string, sr SearchResult) (*sourceinfo.Result, error) {
	if sr.Source == nil {
		return nil, fmt.Errorf("search result for %q has no source", name)
	}
	raw, err := io.ReadAll(sr.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	text, err := source.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	file := source.NewFile(name, text)

	tokens := sr.Tokens
	if tokens == nil {
		if tokens, err = e.lex(file); err != nil {
			return nil, err
		}
	}

	tree := sr.AST
	if tree == nil {
		if tree, err = e.parse(ctx, file, e.g, e.h); err != nil {
			return nil, err
		}
	}

	res, err := sourceinfo.Generate(file, tokens, tree,
		sourceinfo.WithGrammar(e.g),
		sourceinfo.WithLexer(e.lexFile),
	)
	if err != nil {
		return nil, e.handle(err)
	}
	return res, nil
}

func (e *executor) lex(file *source.File) ([]token.Token, error) {
	tokens, err := e.lexFile(file, e.g)
	if err != nil {
		return nil, e.handle(err)
	}
	return tokens, nil
}

// handle passes err to the reporter. Annotation of the file cannot continue
// even if the reporter swallows the error.
func (e *executor) handle(err error) error {
	var ewp reporter.ErrorWithPos
	if !errors.As(err, &ewp) {
		return err
	}
	if err := e.h.HandleError(err); err != nil {
		return err
	}
	return reporter.ErrInvalidSource
}
