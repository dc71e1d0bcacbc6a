package emit

import (
	"fmt"
	"strings"

	"poet/internal/linewrap"
	"poet/internal/names"
)

// Policy decides how a reference is rendered when its simple name is already
// imported for a different identity.
type Policy uint8

const (
	// Qualify renders the losing reference fully qualified.
	Qualify Policy = iota
	// Alias imports the losing reference under a fresh name from the allocator.
	Alias
)

func (p Policy) String() string {
	switch p {
	case Qualify:
		return "qualify"
	case Alias:
		return "alias"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "qualify":
		return Qualify, nil
	case "alias":
		return Alias, nil
	default:
		return Qualify, fmt.Errorf("invalid collision policy: %q (expected: qualify|alias)", s)
	}
}

// Options configure layout and import resolution.
type Options struct {
	// Indent is the indent unit; empty selects linewrap.DefaultIndent.
	Indent string
	// ColumnLimit is the soft wrap column; 0 selects linewrap.DefaultColumnLimit.
	ColumnLimit int
	// Package is the package of the file being rendered. References into it
	// are written by simple name.
	Package string
	// Imports are in scope for the Writer. For a file render they are the
	// explicit imports; discovered ones are merged in by RenderFile.
	Imports   ImportSet
	Collision Policy
	// Allocator supplies import aliases under the Alias policy. It is cloned
	// per render and never modified. Nil means a fresh allocator.
	Allocator *names.Allocator
}

func (o Options) withDefaults() Options {
	if o.Indent == "" {
		o.Indent = linewrap.DefaultIndent
	}
	if o.ColumnLimit <= 0 {
		o.ColumnLimit = linewrap.DefaultColumnLimit
	}
	return o
}
