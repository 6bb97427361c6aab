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
	"errors"
	"fmt"
	"io"
	"maps"

	"gopkg.in/yaml.v3"
)

// descriptor is the YAML form of a grammar. Every field except Base is an
// override of the base preset.
type descriptor struct {
	Base          string              `yaml:"base"`
	Keywords      []string            `yaml:"keywords"`
	ExtraKeywords []string            `yaml:"extra_keywords"`
	SoftKeywords  []string            `yaml:"soft_keywords"`
	Composites    []Composite         `yaml:"composites"`
	Operators     map[string][]string `yaml:"operators"`
	Features      yaml.Node           `yaml:"features"`
}

// Load reads a grammar descriptor in YAML form.
//
// A descriptor names the preset it starts from and overrides parts of it:
//
//	base: "3.12"
//	extra_keywords: [print]
//	operators:
//	  NotEq: ["!=", "<>"]
//	features:
//	  legacy_not_equal: true
//
// Keywords, soft_keywords, and composites replace the base lists;
// extra_keywords appends to them. Each entry under operators replaces the
// spellings of that class. Features not mentioned keep the base value.
func Load(r io.Reader) (*Grammar, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var desc descriptor
	if err := dec.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("grammar descriptor is empty")
		}
		return nil, fmt.Errorf("failed to parse grammar descriptor: %w", err)
	}
	if desc.Base == "" {
		return nil, errors.New("grammar descriptor must name a base version")
	}
	v, err := ParseVersion(desc.Base)
	if err != nil {
		return nil, err
	}
	g, err := ForVersion(v)
	if err != nil {
		return nil, err
	}

	if desc.Keywords != nil {
		g.Keywords = desc.Keywords
	}
	g.Keywords = append(g.Keywords, desc.ExtraKeywords...)
	if desc.SoftKeywords != nil {
		g.SoftKeywords = desc.SoftKeywords
	}
	if desc.Composites != nil {
		g.Composites = desc.Composites
	}
	if desc.Operators != nil {
		ops := maps.Clone(g.Operators)
		maps.Copy(ops, desc.Operators)
		g.Operators = ops
	}
	if !desc.Features.IsZero() {
		// Decoding into the preset's features only overwrites the keys that
		// are present.
		if err := desc.Features.Decode(&g.Features); err != nil {
			return nil, fmt.Errorf("failed to parse grammar features: %w", err)
		}
	}
	return g, nil
}

// Dump renders g as a complete descriptor that [Load] accepts.
func Dump(g *Grammar) ([]byte, error) {
	var features yaml.Node
	if err := features.Encode(g.Features); err != nil {
		return nil, err
	}
	return yaml.Marshal(descriptor{
		Base:         g.Version.String(),
		Keywords:     g.Keywords,
		SoftKeywords: g.SoftKeywords,
		Composites:   g.Composites,
		Operators:    g.Operators,
		Features:     features,
	})
}
