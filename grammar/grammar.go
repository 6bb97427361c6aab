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

// Package grammar describes the version-dependent parts of Python's lexical
// grammar that matter for span recovery: which words are keywords, how each
// operator class may be spelled, which keyword pairs combine into a single
// construct, and which optional syntax is available.
//
// A *Grammar is an explicit configuration value. The lexer, the token
// classifier, and the span visitor all take one as an argument; none of
// them consult global state. Presets for the supported Python versions are
// available through [ForVersion], and custom descriptors can be read from
// YAML with [Load].
package grammar

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Version is a Python language version.
type Version struct {
	Major, Minor int
}

// ParseVersion parses a "major.minor" version string.
func ParseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Version{}, fmt.Errorf("invalid version %q: expecting major.minor", s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	mnr, err := strconv.Atoi(minor)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{Major: maj, Minor: mnr}, nil
}

// AtLeast returns whether v is the given version or newer.
func (v Version) AtLeast(major, minor int) bool {
	return v.Compare(Version{major, minor}) >= 0
}

// Compare orders versions.
func (v Version) Compare(other Version) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	return cmp.Compare(v.Minor, other.Minor)
}

// String implements [fmt.Stringer].
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Composite is a two-word keyword construct, such as "not in".
//
// When the classifier sees First, it holds it back until the next token. If
// that token is Second, a single entry spelled "First Second" is recorded
// spanning both words; otherwise First is recorded on its own.
type Composite struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
	// KeepSecond records Second under its own spelling as well. This is
	// needed when Second also introduces a construct on its own, as "for"
	// does in "async for".
	KeepSecond bool `yaml:"keep_second,omitempty"`
}

// Spelling returns the composite's recorded spelling.
func (c Composite) Spelling() string {
	return c.First + " " + c.Second
}

// Features toggles optional syntax.
type Features struct {
	// FStrings enables formatted string literals.
	FStrings bool `yaml:"f_strings"`
	// NestedFStringQuotes allows an f-string replacement field to reuse the
	// enclosing quote character (PEP 701).
	NestedFStringQuotes bool `yaml:"nested_f_string_quotes"`
	// RelativeFStringPositions indicates that the parser reports positions
	// inside f-string replacement fields relative to the field rather than
	// to the file.
	RelativeFStringPositions bool `yaml:"relative_f_string_positions"`
	// DecoratedDefAtDecorator indicates that the parser reports the position
	// of a decorated def or class as that of its first decorator.
	DecoratedDefAtDecorator bool `yaml:"decorated_def_at_decorator"`
	// EllipsisToken indicates that "..." is lexed as one token rather than
	// three dots.
	EllipsisToken bool `yaml:"ellipsis_token"`

	NamedExpressions bool `yaml:"named_expressions"`
	MatrixMultiply   bool `yaml:"matrix_multiply"`
	PatternMatching  bool `yaml:"pattern_matching"`
	ExceptStar       bool `yaml:"except_star"`
	TypeParams       bool `yaml:"type_params"`
	TypeParamDefault bool `yaml:"type_param_defaults"`

	LegacyNotEqual bool `yaml:"legacy_not_equal"`
	Backquotes     bool `yaml:"backquotes"`
	PrintStatement bool `yaml:"print_statement"`
	ExecStatement  bool `yaml:"exec_statement"`
}

// Grammar is a grammar-version descriptor.
//
// A Grammar must not be modified after it has been passed to a lexer,
// classifier, or visitor.
type Grammar struct {
	Version Version `yaml:"-"`

	// Keywords are words always recorded in the operator indexes when
	// they appear as NAME tokens.
	Keywords []string `yaml:"keywords"`
	// SoftKeywords are recorded like keywords, except directly after a
	// single dot, where they are attribute names.
	SoftKeywords []string `yaml:"soft_keywords"`
	// Composites are the two-word keyword constructs.
	Composites []Composite `yaml:"composites"`
	// Operators maps an operator class name, such as "NotEq", to every
	// spelling it may take. The augmented assignment spelling of a binary
	// operator is its spelling followed by "=".
	Operators map[string][]string `yaml:"operators"`

	Features `yaml:"features"`

	once       sync.Once
	keywords   map[string]bool
	soft       map[string]bool
	bySecond   map[string]Composite
	firsts     map[string]bool
	opTokens   []string
	augmented  map[string][]string
	aliasWords map[string]string
}

// IsKeyword returns whether word is a hard keyword.
func (g *Grammar) IsKeyword(word string) bool {
	g.init()
	return g.keywords[word]
}

// IsSoftKeyword returns whether word is a soft keyword.
func (g *Grammar) IsSoftKeyword(word string) bool {
	g.init()
	return g.soft[word]
}

// CompositeEndingWith returns the composite whose second word is word.
func (g *Grammar) CompositeEndingWith(word string) (Composite, bool) {
	g.init()
	c, ok := g.bySecond[word]
	return c, ok
}

// IsCompositeStart returns whether word is held back waiting for the second
// word of a composite.
func (g *Grammar) IsCompositeStart(word string) bool {
	g.init()
	return g.firsts[word]
}

// RecordedAs returns the spelling under which a keyword is indexed. This is
// the identity except for aliases such as "elif", which is indexed as "if".
func (g *Grammar) RecordedAs(word string) string {
	g.init()
	if alias, ok := g.aliasWords[word]; ok {
		return alias
	}
	return word
}

// Spellings returns every spelling of the given operator class.
func (g *Grammar) Spellings(class string) []string {
	return g.Operators[class]
}

// AugmentedSpellings returns the augmented assignment spellings of a binary
// operator class, e.g. "+=" for "Add".
func (g *Grammar) AugmentedSpellings(class string) []string {
	g.init()
	return g.augmented[class]
}

// OperatorTokens returns every operator and delimiter the lexer must
// recognize, longest first.
func (g *Grammar) OperatorTokens() []string {
	g.init()
	return g.opTokens
}

func (g *Grammar) init() {
	g.once.Do(func() {
		g.keywords = make(map[string]bool, len(g.Keywords))
		for _, kw := range g.Keywords {
			g.keywords[kw] = true
		}
		g.soft = make(map[string]bool, len(g.SoftKeywords))
		for _, kw := range g.SoftKeywords {
			g.soft[kw] = true
		}
		g.bySecond = make(map[string]Composite, len(g.Composites))
		g.firsts = make(map[string]bool, len(g.Composites))
		for _, c := range g.Composites {
			g.bySecond[c.Second] = c
			g.firsts[c.First] = true
		}
		g.aliasWords = map[string]string{"elif": "if"}

		g.augmented = make(map[string][]string)
		for _, class := range binaryClasses {
			for _, sp := range g.Operators[class] {
				g.augmented[class] = append(g.augmented[class], sp+"=")
			}
		}

		tokens := map[string]bool{}
		for _, sp := range baseDelimiters {
			tokens[sp] = true
		}
		for _, sps := range g.Operators {
			for _, sp := range sps {
				if !isWord(sp) {
					tokens[sp] = true
				}
			}
		}
		for _, sps := range g.augmented {
			for _, sp := range sps {
				tokens[sp] = true
			}
		}
		if g.Version.Major >= 3 {
			tokens["->"] = true
		}
		if g.EllipsisToken {
			tokens["..."] = true
		}
		if g.NamedExpressions {
			tokens[":="] = true
		}
		if g.Backquotes {
			tokens["`"] = true
		}
		if g.NestedFStringQuotes {
			tokens["!"] = true
		}
		g.opTokens = make([]string, 0, len(tokens))
		for sp := range tokens {
			g.opTokens = append(g.opTokens, sp)
		}
		slices.SortFunc(g.opTokens, func(a, b string) int {
			if c := cmp.Compare(len(b), len(a)); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		})
	})
}

func isWord(s string) bool {
	for _, r := range s {
		if !(r == ' ' || r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}
	return s != ""
}

// binaryClasses are the operator classes that have augmented forms.
var binaryClasses = []string{
	"Add", "Sub", "Mult", "MatMult", "Div", "Mod", "Pow",
	"LShift", "RShift", "BitOr", "BitXor", "BitAnd", "FloorDiv",
}

// baseDelimiters are lexed in every version regardless of operator classes.
var baseDelimiters = []string{
	"(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "@", "=",
}
