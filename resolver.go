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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/bufbuild/provenance/ast"
	"github.com/bufbuild/provenance/token"
)

// ErrNotFound is returned by resolvers that have nothing for a path.
var ErrNotFound = errors.New("file not found")

// Resolver locates the inputs the annotator needs for a file.
type Resolver interface {
	FindFileByPath(string) (SearchResult, error)
}

// SearchResult is what a Resolver produces for a path. Source is required.
// If Tokens or AST are also set, the annotator uses them instead of lexing or
// parsing the source itself.
type SearchResult struct {
	// Source is the raw file content. Its encoding is detected the same way
	// the interpreter does, from a byte order mark or a coding declaration.
	// If it implements io.Closer, the annotator closes it when done.
	Source io.Reader
	// Tokens, if set, must have been lexed from Source.
	Tokens []token.Token
	// AST, if set, must have been parsed from Source.
	AST ast.Mod
}

// ResolverFunc is a simple function type that implements Resolver.
type ResolverFunc func(string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

// FindFileByPath implements the Resolver interface.
func (f ResolverFunc) FindFileByPath(path string) (SearchResult, error) {
	return f(path)
}

// CompositeResolver is a slice of resolvers, which are consulted in order
// until one can supply a result. If none of the constituent resolvers can
// supply a result, the error returned by the first resolver is returned.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

// FindFileByPath implements the Resolver interface.
func (f CompositeResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(f) == 0 {
		return SearchResult{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindFileByPath(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return SearchResult{}, firstErr
}

// SourceResolver loads Python source from a file system.
type SourceResolver struct {
	// Fs is the file system to read from. If nil, the OS file system is
	// used.
	Fs afero.Fs
	// SearchPaths are the directories that relative paths are looked up in,
	// in order. If empty, paths are opened as given.
	SearchPaths []string
}

var _ Resolver = (*SourceResolver)(nil)

// FindFileByPath implements the Resolver interface.
func (r *SourceResolver) FindFileByPath(path string) (SearchResult, error) {
	fs := r.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if len(r.SearchPaths) == 0 || filepath.IsAbs(path) {
		f, err := fs.Open(path)
		if err != nil {
			return SearchResult{}, err
		}
		return SearchResult{Source: f}, nil
	}

	var e error
	for _, dir := range r.SearchPaths {
		f, err := fs.Open(filepath.Join(dir, path))
		if err != nil {
			if os.IsNotExist(err) {
				e = err
				continue
			}
			return SearchResult{}, err
		}
		return SearchResult{Source: f}, nil
	}
	return SearchResult{}, e
}

// SourceResolverFromMap returns a SourceResolver that serves the given map
// of path to content from memory. It is useful in tests.
func SourceResolverFromMap(srcs map[string]string) *SourceResolver {
	fs := afero.NewMemMapFs()
	for path, src := range srcs {
		// Writes to a MemMapFs only fail for invalid paths.
		_ = afero.WriteFile(fs, path, []byte(src), 0o644)
	}
	return &SourceResolver{Fs: fs}
}
