package emit

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"poet/internal/names"
)

// ErrBadImport reports an import line that cannot be parsed.
var ErrBadImport = errors.New("bad import")

// Import is one import directive. Alias is empty when the identity is
// imported under its own simple name.
type Import struct {
	Qualified string
	Alias     string
}

// ParseImport parses "a.b.C" or "a.b.C as D".
func ParseImport(s string) (Import, error) {
	fields := strings.Fields(s)
	switch {
	case len(fields) == 1:
		return newImport(fields[0], "")
	case len(fields) == 3 && fields[1] == "as":
		return newImport(fields[0], fields[2])
	default:
		return Import{}, fmt.Errorf("%w: %q", ErrBadImport, s)
	}
}

func newImport(qualified, alias string) (Import, error) {
	qualified = strings.ReplaceAll(qualified, "`", "")
	if !strings.Contains(qualified, ".") {
		return Import{}, fmt.Errorf("%w: %q has no package", ErrBadImport, qualified)
	}
	if alias != "" && !names.IsIdentifier(alias) {
		return Import{}, fmt.Errorf("%w: alias %q is not an identifier", ErrBadImport, alias)
	}
	return Import{Qualified: qualified, Alias: alias}, nil
}

// SimpleName is the name the import binds in the file.
func (i Import) SimpleName() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Qualified[strings.LastIndexByte(i.Qualified, '.')+1:]
}

func (i Import) String() string {
	if i.Alias == "" {
		return names.Escape(i.Qualified)
	}
	return names.Escape(i.Qualified) + " as " + names.Escape(i.Alias)
}

// ImportSet is an immutable set of imports sorted by qualified name.
type ImportSet struct {
	items []Import
}

// NewImportSet sorts imports and drops repeated identities; the first
// occurrence of an identity wins.
func NewImportSet(imports ...Import) ImportSet {
	items := make([]Import, 0, len(imports))
	seen := make(map[string]struct{}, len(imports))
	for _, imp := range imports {
		if _, dup := seen[imp.Qualified]; dup {
			continue
		}
		seen[imp.Qualified] = struct{}{}
		items = append(items, imp)
	}
	slices.SortFunc(items, func(a, b Import) int {
		return strings.Compare(a.Qualified, b.Qualified)
	})
	return ImportSet{items: items}
}

// Items returns a copy of the imports in order.
func (s ImportSet) Items() []Import { return slices.Clone(s.items) }

func (s ImportSet) Len() int { return len(s.items) }

// Lookup returns the import for a qualified identity.
func (s ImportSet) Lookup(qualified string) (Import, bool) {
	i, ok := slices.BinarySearchFunc(s.items, qualified, func(imp Import, q string) int {
		return strings.Compare(imp.Qualified, q)
	})
	if !ok {
		return Import{}, false
	}
	return s.items[i], true
}

// Strings renders each import as it appears after the import keyword.
func (s ImportSet) Strings() []string {
	out := make([]string, len(s.items))
	for i, imp := range s.items {
		out[i] = imp.String()
	}
	return out
}

// table is the render-time view of an ImportSet.
type table struct {
	display  map[string]string // qualified -> name used in the file
	bySimple map[string]string // name used in the file -> qualified
}

func newTable(s ImportSet) table {
	t := table{
		display:  make(map[string]string, len(s.items)),
		bySimple: make(map[string]string, len(s.items)),
	}
	for _, imp := range s.items {
		simple := imp.SimpleName()
		t.display[imp.Qualified] = simple
		if _, taken := t.bySimple[simple]; !taken {
			t.bySimple[simple] = imp.Qualified
		}
	}
	return t
}

// shadowed reports whether simple is bound by an import to another identity.
func (t table) shadowed(simple, qualified string) bool {
	owner, ok := t.bySimple[simple]
	return ok && owner != qualified
}

type candidate struct {
	qualified string
	simple    string
}

// discovery records references seen during the discard pass. The first
// identity per simple name wins; types and members share one name space.
type discovery struct {
	seen  map[string]struct{}
	order []candidate
	local map[string]struct{} // simple names referenced from the file's own package
}

func newDiscovery() *discovery {
	return &discovery{
		seen:  make(map[string]struct{}),
		local: make(map[string]struct{}),
	}
}

func (d *discovery) record(qualified, simple string) {
	if _, ok := d.seen[qualified]; ok {
		return
	}
	d.seen[qualified] = struct{}{}
	d.order = append(d.order, candidate{qualified: qualified, simple: simple})
}

func (d *discovery) recordLocal(simple string) {
	d.local[simple] = struct{}{}
}

// importTag keeps alias allocations apart from caller tags in a cloned
// allocator.
type importTag string

// resolve turns the recorded references into an ImportSet. Explicit imports
// are kept and claim their names first.
func (d *discovery) resolve(explicit ImportSet, policy Policy, alloc *names.Allocator) (ImportSet, error) {
	taken := make(map[string]string, len(explicit.items)+len(d.order))
	out := make([]Import, 0, len(explicit.items)+len(d.order))
	for _, imp := range explicit.items {
		taken[imp.SimpleName()] = imp.Qualified
		out = append(out, imp)
	}
	var losers []candidate
	for _, c := range d.order {
		if _, ok := explicit.Lookup(c.qualified); ok {
			continue
		}
		_, isLocal := d.local[c.simple]
		if _, ok := taken[c.simple]; ok || isLocal {
			losers = append(losers, c)
			continue
		}
		taken[c.simple] = c.qualified
		out = append(out, Import{Qualified: c.qualified})
	}
	if policy == Alias && len(losers) > 0 {
		if alloc == nil {
			alloc = names.NewAllocator()
		} else {
			alloc = alloc.Clone()
		}
		for simple := range taken {
			alloc.Reserve(simple)
		}
		for simple := range d.local {
			alloc.Reserve(simple)
		}
		for _, c := range losers {
			alias, err := alloc.NewName(c.simple, importTag(c.qualified))
			if err != nil {
				return ImportSet{}, fmt.Errorf("alias for %s: %w", c.qualified, err)
			}
			out = append(out, Import{Qualified: c.qualified, Alias: alias})
		}
	}
	return NewImportSet(out...), nil
}
