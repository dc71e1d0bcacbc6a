package names

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// TypeName is any type reference the emitter can render for %T.
type TypeName interface {
	// IsNullable reports whether the reference is rendered with a trailing '?'.
	IsNullable() bool
	// String returns the fully-qualified rendering, ignoring imports.
	String() string
	typeName()
}

// ErrBadQualifiedName is returned by the Parse functions.
var ErrBadQualifiedName = errors.New("invalid qualified name")

// ClassName is a fully-qualified reference to a class, possibly nested.
type ClassName struct {
	pkg      string
	names    []string // outermost first
	nullable bool
}

// NewClassName returns pkg.simple, or pkg.simple.nested[0]... for nested classes.
// An empty pkg denotes the default package.
func NewClassName(pkg, simple string, nested ...string) ClassName {
	names := make([]string, 0, 1+len(nested))
	names = append(names, simple)
	names = append(names, nested...)
	return ClassName{pkg: pkg, names: names}
}

// ParseClassName splits a dotted name. The first segment that starts with an
// upper-case letter begins the class chain; without one, the last segment is
// the class.
func ParseClassName(qualified string) (ClassName, error) {
	qualified = strings.TrimSpace(qualified)
	nullable := strings.HasSuffix(qualified, "?")
	qualified = strings.TrimSuffix(qualified, "?")
	if qualified == "" {
		return ClassName{}, fmt.Errorf("%w: empty", ErrBadQualifiedName)
	}
	parts := strings.Split(qualified, ".")
	for _, p := range parts {
		if p == "" {
			return ClassName{}, fmt.Errorf("%w: %q", ErrBadQualifiedName, qualified)
		}
	}
	first := len(parts) - 1
	for i, p := range parts {
		if unicode.IsUpper([]rune(p)[0]) {
			first = i
			break
		}
	}
	cn := ClassName{
		pkg:      strings.Join(parts[:first], "."),
		names:    append([]string(nil), parts[first:]...),
		nullable: nullable,
	}
	return cn, nil
}

// MustParseClassName is ParseClassName for static names; it panics on error.
func MustParseClassName(qualified string) ClassName {
	cn, err := ParseClassName(qualified)
	if err != nil {
		panic(err)
	}
	return cn
}

func (c ClassName) typeName() {}

func (c ClassName) Package() string { return c.pkg }

// SimpleName is the innermost name.
func (c ClassName) SimpleName() string {
	if len(c.names) == 0 {
		return ""
	}
	return c.names[len(c.names)-1]
}

// SimpleNames returns the class chain, outermost first.
func (c ClassName) SimpleNames() []string {
	return append([]string(nil), c.names...)
}

// TopLevel returns the outermost enclosing class (c itself when not nested).
func (c ClassName) TopLevel() ClassName {
	if len(c.names) == 0 {
		return c
	}
	return ClassName{pkg: c.pkg, names: c.names[:1:1]}
}

// Nested returns a class nested inside c.
func (c ClassName) Nested(simple string) ClassName {
	names := make([]string, 0, len(c.names)+1)
	names = append(names, c.names...)
	return ClassName{pkg: c.pkg, names: append(names, simple)}
}

// IsNested reports whether c has an enclosing class.
func (c ClassName) IsNested() bool { return len(c.names) > 1 }

// AsNullable returns a copy of c rendered with a trailing '?'.
func (c ClassName) AsNullable() ClassName {
	c.nullable = true
	return c
}

// AsNonNull drops the nullable marker.
func (c ClassName) AsNonNull() ClassName {
	c.nullable = false
	return c
}

func (c ClassName) IsNullable() bool { return c.nullable }

// CanonicalName is the dotted fully-qualified name without the nullable marker.
// It is the identity used by import tables.
func (c ClassName) CanonicalName() string {
	chain := strings.Join(c.names, ".")
	if c.pkg == "" {
		return chain
	}
	return c.pkg + "." + chain
}

// RelativeName is the class chain without the package, e.g. "Map.Entry".
func (c ClassName) RelativeName() string {
	return strings.Join(c.names, ".")
}

func (c ClassName) String() string {
	if c.nullable {
		return c.CanonicalName() + "?"
	}
	return c.CanonicalName()
}

// Equal compares identities, including nullability.
func (c ClassName) Equal(o ClassName) bool {
	return c.nullable == o.nullable && c.CanonicalName() == o.CanonicalName()
}

// ParameterizedTypeName is a raw class applied to type arguments, List<String>.
type ParameterizedTypeName struct {
	Raw      ClassName
	Args     []TypeName
	nullable bool
}

// Parameterized applies args to raw.
func Parameterized(raw ClassName, args ...TypeName) ParameterizedTypeName {
	return ParameterizedTypeName{Raw: raw.AsNonNull(), Args: append([]TypeName(nil), args...)}
}

func (p ParameterizedTypeName) typeName() {}

func (p ParameterizedTypeName) IsNullable() bool { return p.nullable }

// AsNullable returns a copy rendered with a trailing '?'.
func (p ParameterizedTypeName) AsNullable() ParameterizedTypeName {
	p.nullable = true
	return p
}

func (p ParameterizedTypeName) String() string {
	var b strings.Builder
	b.WriteString(p.Raw.CanonicalName())
	b.WriteByte('<')
	for i, a := range p.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	if p.nullable {
		b.WriteByte('?')
	}
	return b.String()
}

// Star is the star projection '*' usable as a type argument.
var Star TypeName = starType{}

type starType struct{}

func (starType) typeName() {}

func (starType) IsNullable() bool { return false }

func (starType) String() string { return "*" }
