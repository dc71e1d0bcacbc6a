package codeblock

import (
	"strconv"
	"strings"
)

// Kind identifies a part of a Block.
type Kind uint8

const (
	KindLiteral        Kind = iota // plain text
	KindLit                        // %L
	KindName                       // %N
	KindString                     // %S
	KindRaw                        // %P
	KindType                       // %T
	KindMember                     // %M
	KindPercent                    // %%
	KindIndent                     // ⇥
	KindUnindent                   // ⇤
	KindStatementBegin             // «
	KindStatementEnd               // »
)

var directiveLetters = map[byte]Kind{
	'L': KindLit,
	'N': KindName,
	'S': KindString,
	'P': KindRaw,
	'T': KindType,
	'M': KindMember,
}

const (
	markIndent         = "⇥"
	markUnindent       = "⇤"
	markStatementBegin = "«"
	markStatementEnd   = "»"
)

var markerKinds = map[string]Kind{
	markIndent:         KindIndent,
	markUnindent:       KindUnindent,
	markStatementBegin: KindStatementBegin,
	markStatementEnd:   KindStatementEnd,
}

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindPercent:
		return "%%"
	case KindIndent:
		return markIndent
	case KindUnindent:
		return markUnindent
	case KindStatementBegin:
		return markStatementBegin
	case KindStatementEnd:
		return markStatementEnd
	}
	if l := k.letter(); l != 0 {
		return "%" + string(l)
	}
	return "unknown"
}

func (k Kind) letter() byte {
	for l, kind := range directiveLetters {
		if kind == k {
			return l
		}
	}
	return 0
}

// TakesArg reports whether parts of this kind are bound to an argument.
func (k Kind) TakesArg() bool {
	return k >= KindLit && k <= KindMember
}

// Part is one element of a Block. Arg is the index into Block.Args, or -1.
type Part struct {
	Kind Kind
	Text string
	Arg  int
}

// Block is an immutable compiled template. The zero value is empty.
type Block struct {
	parts []Part
	args  []Arg
}

// Parts returns the compiled parts. The slice is shared; do not modify it.
func (b Block) Parts() []Part { return b.parts }

// Args returns the bound arguments. The slice is shared; do not modify it.
func (b Block) Args() []Arg { return b.args }

// Arg returns the argument bound to p.
func (b Block) Arg(p Part) Arg { return b.args[p.Arg] }

func (b Block) IsEmpty() bool { return len(b.parts) == 0 }

// Format reconstructs an equivalent positional format string.
func (b Block) Format() string {
	var sb strings.Builder
	for _, p := range b.parts {
		switch {
		case p.Kind == KindLiteral:
			sb.WriteString(strings.ReplaceAll(p.Text, "%", "%%"))
		case p.Kind.TakesArg():
			sb.WriteByte('%')
			sb.WriteString(strconv.Itoa(p.Arg + 1))
			sb.WriteByte(p.Kind.letter())
		default:
			sb.WriteString(p.Kind.String())
		}
	}
	return sb.String()
}

func (b Block) String() string { return b.Format() }

// Join concatenates blocks with a literal separator between them.
func Join(blocks []Block, separator string) Block {
	b := NewBuilder(Options{})
	for i, blk := range blocks {
		if i > 0 && separator != "" {
			b.literal(separator)
		}
		b.AddBlock(blk)
	}
	out, _ := b.Build()
	return out
}
