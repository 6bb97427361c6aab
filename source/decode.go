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

package source

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	utf8Bom = []byte{0xEF, 0xBB, 0xBF}

	codingCookie = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)
	blankLine    = regexp.MustCompile(`^[ \t\f]*(?:[#\r\n]|$)`)
)

// Decode converts raw Python source bytes into text.
//
// A UTF-8 byte order mark is stripped. Otherwise, an encoding declaration
// ("coding: name") in a comment on the first or second line selects the
// source encoding; without one, the source must be UTF-8.
func Decode(raw []byte) (string, error) {
	name := Coding(raw)
	if rest, ok := bytes.CutPrefix(raw, utf8Bom); ok {
		if name != "" && !isUTF8(name) {
			return "", fmt.Errorf("encoding problem: %s with BOM", name)
		}
		raw = rest
		name = ""
	}

	if name == "" || isUTF8(name) {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("source is not valid UTF-8")
		}
		return string(raw), nil
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}
	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding source as %s: %w", name, err)
	}
	return string(text), nil
}

// Coding returns the encoding named by a PEP 263 declaration in the first
// two lines of raw, or "" if there is none.
func Coding(raw []byte) string {
	lines := bytes.SplitN(raw, []byte("\n"), 3)
	for i, line := range lines {
		if i == 2 {
			break
		}
		if m := codingCookie.FindSubmatch(line); m != nil {
			return strings.ToLower(string(m[1]))
		}
		if !blankLine.Match(line) {
			// The declaration may only be on line 2 if line 1 is blank or a
			// comment.
			break
		}
	}
	return ""
}

func isUTF8(name string) bool {
	switch normalizeCoding(name) {
	case "utf-8", "utf8", "utf-8-sig":
		return true
	default:
		return false
	}
}

func normalizeCoding(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	norm := normalizeCoding(name)
	switch norm {
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1", "l1":
		return charmap.ISO8859_1, nil
	}
	if enc, err := htmlindex.Get(norm); err == nil {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(norm); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown encoding: %s", name)
}
