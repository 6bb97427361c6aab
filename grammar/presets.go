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

package grammar

import (
	"fmt"
	"maps"
	"slices"
)

var (
	// SupportedVersions is the exhaustive set of versions with a preset.
	SupportedVersions = []Version{
		{2, 7},
		{3, 6}, {3, 7}, {3, 8}, {3, 9}, {3, 10}, {3, 11}, {3, 12}, {3, 13},
	}

	// LatestVersion is the newest supported version.
	LatestVersion = Version{3, 13}
)

// Latest returns the preset for [LatestVersion].
func Latest() *Grammar {
	g, _ := ForVersion(LatestVersion)
	return g
}

// ForVersion returns a new preset grammar for the given version.
func ForVersion(v Version) (*Grammar, error) {
	if !slices.Contains(SupportedVersions, v) {
		return nil, fmt.Errorf("unsupported Python version %v", v)
	}
	if v.Major == 2 {
		return python2(v), nil
	}
	return python3(v), nil
}

func python2(v Version) *Grammar {
	return &Grammar{
		Version: v,
		Keywords: []string{
			"and", "as", "assert", "break", "class", "continue", "def", "del",
			"elif", "else", "except", "exec", "finally", "for", "from",
			"global", "if", "import", "in", "is", "lambda", "not", "or",
			"pass", "print", "raise", "return", "try", "while", "with",
			"yield",
		},
		Composites: []Composite{
			{First: "is", Second: "not"},
			{First: "not", Second: "in"},
		},
		Operators: operators(map[string][]string{
			"NotEq": {"!=", "<>"},
		}),
		Features: Features{
			DecoratedDefAtDecorator: true,
			LegacyNotEqual:          true,
			Backquotes:              true,
			PrintStatement:          true,
			ExecStatement:           true,
		},
	}
}

func python3(v Version) *Grammar {
	g := &Grammar{
		Version: v,
		Keywords: []string{
			"False", "None", "True", "and", "as", "assert", "async", "await",
			"break", "class", "continue", "def", "del", "elif", "else",
			"except", "finally", "for", "from", "global", "if", "import", "in",
			"is", "lambda", "nonlocal", "not", "or", "pass", "raise",
			"return", "try", "while", "with", "yield",
		},
		Composites: []Composite{
			{First: "is", Second: "not"},
			{First: "not", Second: "in"},
			{First: "yield", Second: "from"},
			{First: "async", Second: "for", KeepSecond: true},
			{First: "async", Second: "with", KeepSecond: true},
			{First: "async", Second: "def", KeepSecond: true},
		},
		Operators: operators(map[string][]string{
			"MatMult": {"@"},
		}),
		Features: Features{
			FStrings:                 true,
			RelativeFStringPositions: !v.AtLeast(3, 8),
			DecoratedDefAtDecorator:  !v.AtLeast(3, 8),
			EllipsisToken:            true,
			NamedExpressions:         v.AtLeast(3, 8),
			MatrixMultiply:           true,
			PatternMatching:          v.AtLeast(3, 10),
			ExceptStar:               v.AtLeast(3, 11),
			TypeParams:               v.AtLeast(3, 12),
			NestedFStringQuotes:      v.AtLeast(3, 12),
			TypeParamDefault:         v.AtLeast(3, 13),
		},
	}
	if v.AtLeast(3, 10) {
		g.SoftKeywords = append(g.SoftKeywords, "match", "case", "_")
	}
	if v.AtLeast(3, 12) {
		g.SoftKeywords = append(g.SoftKeywords, "type")
	}
	return g
}

// operators returns the spellings shared by every version, with extra
// merged in.
func operators(extra map[string][]string) map[string][]string {
	ops := map[string][]string{
		"And":      {"and"},
		"Or":       {"or"},
		"Add":      {"+"},
		"Sub":      {"-"},
		"Mult":     {"*"},
		"Div":      {"/"},
		"Mod":      {"%"},
		"Pow":      {"**"},
		"LShift":   {"<<"},
		"RShift":   {">>"},
		"BitOr":    {"|"},
		"BitXor":   {"^"},
		"BitAnd":   {"&"},
		"FloorDiv": {"//"},
		"Invert":   {"~"},
		"Not":      {"not"},
		"UAdd":     {"+"},
		"USub":     {"-"},
		"Eq":       {"=="},
		"NotEq":    {"!="},
		"Lt":       {"<"},
		"LtE":      {"<="},
		"Gt":       {">"},
		"GtE":      {">="},
		"Is":       {"is"},
		"IsNot":    {"is not"},
		"In":       {"in"},
		"NotIn":    {"not in"},
	}
	maps.Copy(ops, extra)
	return ops
}
