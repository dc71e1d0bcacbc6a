package names

import (
	"fmt"
	"strings"
)

// MemberName names a function or property, either top level in a package or
// declared inside a class or object.
type MemberName struct {
	pkg       string
	enclosing *ClassName
	simple    string
}

// NewMemberName returns a top-level member pkg.simple.
func NewMemberName(pkg, simple string) MemberName {
	return MemberName{pkg: pkg, simple: simple}
}

// NewMemberNameIn returns a member declared inside enclosing.
func NewMemberNameIn(enclosing ClassName, simple string) MemberName {
	enc := enclosing.AsNonNull()
	return MemberName{pkg: enclosing.Package(), enclosing: &enc, simple: simple}
}

// ParseMemberName accepts "pkg.member" for top-level members and
// "pkg.Type#member" for members of a class.
func ParseMemberName(qualified string) (MemberName, error) {
	qualified = strings.TrimSpace(qualified)
	if owner, member, ok := strings.Cut(qualified, "#"); ok {
		if member == "" {
			return MemberName{}, fmt.Errorf("%w: %q", ErrBadQualifiedName, qualified)
		}
		cn, err := ParseClassName(owner)
		if err != nil {
			return MemberName{}, err
		}
		return NewMemberNameIn(cn, member), nil
	}
	idx := strings.LastIndexByte(qualified, '.')
	if idx == len(qualified)-1 || qualified == "" {
		return MemberName{}, fmt.Errorf("%w: %q", ErrBadQualifiedName, qualified)
	}
	if idx < 0 {
		return NewMemberName("", qualified), nil
	}
	return NewMemberName(qualified[:idx], qualified[idx+1:]), nil
}

func (m MemberName) Package() string { return m.pkg }

func (m MemberName) SimpleName() string { return m.simple }

// Enclosing returns the declaring class, if any.
func (m MemberName) Enclosing() (ClassName, bool) {
	if m.enclosing == nil {
		return ClassName{}, false
	}
	return *m.enclosing, true
}

// CanonicalName is the dotted identity used by import tables.
func (m MemberName) CanonicalName() string {
	if m.enclosing != nil {
		return m.enclosing.CanonicalName() + "." + m.simple
	}
	if m.pkg == "" {
		return m.simple
	}
	return m.pkg + "." + m.simple
}

func (m MemberName) String() string { return m.CanonicalName() }
