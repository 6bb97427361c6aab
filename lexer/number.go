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

package lexer

// scanNumber returns the end column of the numeric literal starting at col.
func (l *lexer) scanNumber(col int) int {
	digits := func(ok func(rune) bool) {
		for col < len(l.text) && (ok(l.text[col]) || l.text[col] == '_') {
			col++
		}
	}

	switch r := l.at(col + 1); {
	case l.at(col) == '0' && (r == 'x' || r == 'X'):
		col += 2
		digits(isHexDigit)
	case l.at(col) == '0' && (r == 'o' || r == 'O' || r == 'b' || r == 'B'):
		col += 2
		digits(isDigit)
	default:
		digits(isDigit)
		if l.at(col) == '.' {
			col++
			digits(isDigit)
		}
		if e := l.at(col); e == 'e' || e == 'E' {
			exp := col + 1
			if s := l.at(exp); s == '+' || s == '-' {
				exp++
			}
			if isDigit(l.at(exp)) {
				col = exp
				digits(isDigit)
			}
		}
	}

	switch l.at(col) {
	case 'j', 'J':
		col++
	case 'l', 'L':
		if l.g.Version.Major < 3 {
			col++
		}
	}
	return col
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}
