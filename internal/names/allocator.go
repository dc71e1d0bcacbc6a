package names

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrTagInUse is returned when a tag is allocated twice.
	ErrTagInUse = errors.New("tag already allocated")
	// ErrUnknownTag is returned by Get for tags never passed to NewName.
	ErrUnknownTag = errors.New("unknown tag")
)

// Allocator assigns identifiers that avoid collisions, keywords and invalid
// characters. Each allocation is scoped by a tag, typically the object being
// named, and can be looked up later with Get:
//
//	a := names.NewAllocator()
//	a.NewName("sb", "string builder")
//	a.NewName("sb", prop) // "sb_"
//
// Tags must be comparable. For nested scopes, Clone the outer allocator.
// An Allocator is not safe for concurrent use.
type Allocator struct {
	allocated map[string]struct{}
	tagToName map[any]string
	anon      int
}

// NewAllocator returns an allocator with every keyword pre-reserved.
func NewAllocator() *Allocator {
	a := &Allocator{
		allocated: make(map[string]struct{}, len(hardKeywords)),
		tagToName: make(map[any]string),
	}
	for kw := range hardKeywords {
		a.allocated[kw] = struct{}{}
	}
	return a
}

type anonTag int

// NewName allocates a name derived from suggestion. A nil tag allocates an
// anonymous name that cannot be looked up.
func (a *Allocator) NewName(suggestion string, tag any) (string, error) {
	if tag == nil {
		a.anon++
		tag = anonTag(a.anon)
	}
	if prev, ok := a.tagToName[tag]; ok {
		return "", fmt.Errorf("%w: %v is bound to %q", ErrTagInUse, tag, prev)
	}
	name := ToIdentifier(suggestion)
	for {
		if _, taken := a.allocated[name]; !taken {
			break
		}
		name += "_"
	}
	a.allocated[name] = struct{}{}
	a.tagToName[tag] = name
	return name, nil
}

// Get returns the name allocated for tag.
func (a *Allocator) Get(tag any) (string, error) {
	name, ok := a.tagToName[tag]
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownTag, tag)
	}
	return name, nil
}

// Reserve marks name as taken without binding a tag.
func (a *Allocator) Reserve(name string) {
	a.allocated[name] = struct{}{}
}

// Clone returns an independent copy for allocating in an inner scope.
func (a *Allocator) Clone() *Allocator {
	return &Allocator{
		allocated: maps.Clone(a.allocated),
		tagToName: maps.Clone(a.tagToName),
		anon:      a.anon,
	}
}

// ToIdentifier maps s to a valid identifier: the input is NFC-normalized,
// characters that cannot appear in identifiers become '_', and a leading
// digit gets a '_' prefix.
func ToIdentifier(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s) + 1)
	for i, r := range s {
		if i == 0 && !isIdentStart(r) && isIdentPart(r) {
			b.WriteByte('_')
		}
		if isIdentPart(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
