package emit

import (
	"fmt"
	"strings"
	"unicode"

	"poet/internal/linewrap"
)

// stringLiteral escapes value and wraps it in double quotes. A value with
// embedded line breaks becomes a '+' concatenation, one line per piece,
// continued at two indent units. Spaces are returned as non-breaking so a
// literal is never soft-wrapped.
func stringLiteral(value, indent string, escapeDollar bool) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('"')
	for i, r := range value {
		switch r {
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteString(`\"`)
		case '$':
			if escapeDollar {
				b.WriteString("${'$'}")
			} else {
				b.WriteByte('$')
			}
		default:
			b.WriteString(characterLiteral(r))
		}
		if r == '\n' && i+1 < len(value) {
			b.WriteString("\"\n")
			b.WriteString(indent)
			b.WriteString(indent)
			b.WriteString("+ \"")
		}
	}
	b.WriteByte('"')
	return strings.ReplaceAll(b.String(), " ", "·")
}

func characterLiteral(r rune) string {
	switch r {
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\\':
		return `\\`
	case linewrap.NonBreakingSpace:
		// Escaped so the wrapper does not turn it into a space.
		return `\u00b7`
	}
	if unicode.IsControl(r) {
		return fmt.Sprintf(`\u%04x`, r)
	}
	return string(r)
}
