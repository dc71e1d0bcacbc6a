package codeblock

import (
	"poet/internal/names"
)

// Arg is a bound argument. The set of variants is closed: LitArg, BlockArg,
// NameArg, StrArg, TypeArg and MemberArg.
type Arg interface {
	isArg()
}

// LitArg is a display value for %L, rendered with fmt's %v rules. A string
// held by a LitArg is also accepted by %N, %S and %P; %S and %P also take a
// nil value and render it as null.
type LitArg struct{ Value any }

// BlockArg nests a Block. It is emitted in place with the parent's state.
type BlockArg struct{ Block Block }

// NameLookup resolves an allocator tag to a name at emission time.
// *names.Allocator implements it.
type NameLookup interface {
	Get(tag any) (string, error)
}

// NameArg is a name for %N: either a fixed Name or a Tag resolved through
// Lookup when the block is emitted.
type NameArg struct {
	Name   string
	Lookup NameLookup
	Tag    any
}

// StrArg is a string value for %S and %P. Null renders the null literal.
type StrArg struct {
	Value string
	Null  bool
}

// TypeArg is a type reference for %T.
type TypeArg struct{ Type names.TypeName }

// MemberArg is a member reference for %M.
type MemberArg struct{ Member names.MemberName }

func (LitArg) isArg()    {}
func (BlockArg) isArg()  {}
func (NameArg) isArg()   {}
func (StrArg) isArg()    {}
func (TypeArg) isArg()   {}
func (MemberArg) isArg() {}

// L wraps v as a literal argument. Blocks become BlockArg.
func L(v any) Arg {
	switch v := v.(type) {
	case Arg:
		return v
	case Block:
		return BlockArg{Block: v}
	}
	return LitArg{Value: v}
}

// B nests a block.
func B(b Block) Arg { return BlockArg{Block: b} }

// N is a fixed name.
func N(name string) Arg { return NameArg{Name: name} }

// NTag is a name looked up by tag when the block is emitted.
func NTag(lookup NameLookup, tag any) Arg { return NameArg{Lookup: lookup, Tag: tag} }

// S is a string value.
func S(s string) Arg { return StrArg{Value: s} }

// Null is the null string value.
func Null() Arg { return StrArg{Null: true} }

// T is a type reference.
func T(t names.TypeName) Arg { return TypeArg{Type: t} }

// M is a member reference.
func M(m names.MemberName) Arg { return MemberArg{Member: m} }

// Args coerces plain Go values into arguments: Arg values pass through, Blocks,
// type names and member names get their own variants, everything else is a
// literal.
func Args(vs ...any) []Arg {
	out := make([]Arg, len(vs))
	for i, v := range vs {
		out[i] = toArg(v)
	}
	return out
}

func toArg(v any) Arg {
	switch v := v.(type) {
	case Arg:
		return v
	case Block:
		return BlockArg{Block: v}
	case names.TypeName:
		return TypeArg{Type: v}
	case names.MemberName:
		return MemberArg{Member: v}
	}
	return LitArg{Value: v}
}

// accepts reports whether arg can be bound to a directive of kind k.
func accepts(k Kind, arg Arg) bool {
	switch k {
	case KindLit:
		return true
	case KindName:
		switch a := arg.(type) {
		case NameArg, MemberArg:
			return true
		case LitArg:
			_, ok := a.Value.(string)
			return ok
		}
	case KindString, KindRaw:
		switch a := arg.(type) {
		case StrArg:
			return true
		case LitArg:
			if a.Value == nil {
				return true
			}
			_, ok := a.Value.(string)
			return ok
		}
	case KindType:
		_, ok := arg.(TypeArg)
		return ok
	case KindMember:
		_, ok := arg.(MemberArg)
		return ok
	}
	return false
}

func describeArg(arg Arg) string {
	switch arg.(type) {
	case LitArg:
		return "literal"
	case BlockArg:
		return "block"
	case NameArg:
		return "name"
	case StrArg:
		return "string"
	case TypeArg:
		return "type"
	case MemberArg:
		return "member"
	}
	return "unknown"
}
