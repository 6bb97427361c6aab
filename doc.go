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


// Package provenance recovers the full source extent of every node of a
// Python syntax tree.
//
// Python's own parser records only where most nodes start. Tools that
// rewrite, highlight, or map runtime frames back to source need to know
// where each node ends too, and which operators and brackets belong to it.
// This package computes that by matching the tree against the file's tokens.
//
// # Phases
//
// Annotating a file runs through the following phases:
//  1. Decode the raw bytes, honoring a byte order mark or a PEP 263 coding
//     declaration. Also see: source.Decode
//  2. Tokenize the text. Also see: lexer.Lex
//  3. Parse the text into a tree. Also see: parser.Parse
//  4. Compute spans. Also see: sourceinfo.Generate
//
// The phases can be used on their own. This package ties them together and
// runs them for many files in parallel.
//
// # Resolvers
//
// A Resolver is how the annotator locates its inputs. It always answers with
// source bytes, and may also answer with tokens or a tree that were produced
// elsewhere, in which case the matching phase is skipped. A tree produced by
// another Python parser works as long as it uses the same positions: 1-based
// lines and UTF-8 byte columns.
//
// # Annotator
//
// An Annotator accepts a list of file names and produces one
// [sourceinfo.Result] per file. Only the Resolver field is required:
//
//	annotator := provenance.Annotator{
//	    Resolver: &provenance.SourceResolver{},
//	}
//	files, err := annotator.Annotate(ctx, "main.py")
//
// By default the annotator uses the latest supported language version,
// parallelism equal to the number of CPU cores, and fails on the first
// error. The other fields override these defaults.
package provenance
