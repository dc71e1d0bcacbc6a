package names

import (
	"strings"
	"unicode"
)

var hardKeywords = map[string]struct{}{
	"as": {}, "break": {}, "class": {}, "continue": {}, "do": {}, "else": {},
	"false": {}, "for": {}, "fun": {}, "if": {}, "in": {}, "interface": {},
	"is": {}, "null": {}, "object": {}, "package": {}, "return": {}, "super": {},
	"this": {}, "throw": {}, "true": {}, "try": {}, "typealias": {}, "typeof": {},
	"val": {}, "var": {}, "when": {}, "while": {},
}

// IsKeyword reports whether s is a hard keyword of the target language.
func IsKeyword(s string) bool {
	_, ok := hardKeywords[s]
	return ok
}

// IsIdentifier reports whether s can be emitted unquoted as a name.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentPart(r) || (i == 0 && !isIdentStart(r)) {
			return false
		}
	}
	return true
}

// Escape quotes s with backticks when it is a keyword or not an identifier.
// Dotted names are escaped segment by segment.
func Escape(s string) string {
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		for i, p := range parts {
			parts[i] = Escape(p)
		}
		return strings.Join(parts, ".")
	}
	if IsKeyword(s) || !IsIdentifier(s) {
		if strings.HasPrefix(s, "`") && strings.HasSuffix(s, "`") && len(s) > 1 {
			return s
		}
		return "`" + s + "`"
	}
	return s
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
