package xsd

import (
	"strings"
	"unicode"
)

// ContainsWhitespace reports whether s contains any Unicode whitespace character
func ContainsWhitespace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
