package names

import (
	"fmt"
	"strings"
)

// ParseTypeName parses a written type reference: a qualified class name,
// optionally applied to type arguments and optionally nullable, or the star
// projection. For example "kotlin.collections.Map<kotlin.String, *>?".
func ParseTypeName(s string) (TypeName, error) {
	p := typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: unexpected %q in %q", ErrBadQualifiedName, p.src[p.pos:], s)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) parse() (TypeName, error) {
	p.skipSpace()
	if p.peek() == '*' {
		p.pos++
		return Star, nil
	}
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("<>,?* \t", rune(p.src[p.pos])) {
		p.pos++
	}
	raw, err := ParseClassName(p.src[start:p.pos])
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '<' {
		if p.accept('?') {
			raw = raw.AsNullable()
		}
		return raw, nil
	}
	p.pos++
	var args []TypeName
	for {
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.accept(',') {
			continue
		}
		if !p.accept('>') {
			return nil, fmt.Errorf("%w: unclosed type arguments in %q", ErrBadQualifiedName, p.src)
		}
		break
	}
	pt := Parameterized(raw, args...)
	if p.accept('?') {
		pt = pt.AsNullable()
	}
	return pt, nil
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) accept(c byte) bool {
	if p.peek() != c {
		return false
	}
	p.pos++
	return true
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}
