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


package corpora

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Parallel()
	var names []string
	Corpus{
		Root:      "testdata",
		Extension: "txt",
		Outputs: []Output{
			{Extension: "upper"},
			{Extension: "lower"},
		},
		Test: func(_ *testing.T, path, text string) []string {
			names = append(names, path)
			// No .lower files exist, so that output must be empty.
			return []string{strings.ToUpper(text), ""}
		},
	}.Run(t)
	assert.ElementsMatch(t, []string{"hello.txt", "nested/quiet.txt"}, names)
}

func TestDiff(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Diff("a\nb\n", "a\nb\n"))

	diff := Diff("a\nc\n", "a\nb\n")
	require.NotEmpty(t, diff)
	assert.Contains(t, diff, "--- want")
	assert.Contains(t, diff, "+++ got")
	assert.Contains(t, diff, "-b")
	assert.Contains(t, diff, "+c")
}
