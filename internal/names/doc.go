// Package names models the references the emitter resolves at render time:
// class names, parameterized type names and member names, plus the Allocator
// that hands out collision-free identifiers.
//
// These are plain immutable values. The emitter only depends on their
// canonical (fully-qualified) and simple forms.
package names
