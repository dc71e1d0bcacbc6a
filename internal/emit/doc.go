// Package emit renders codeblock.Blocks through a linewrap.Wrapper.
//
// A Writer owns the per-file state: indent level, statement continuation,
// package name and import table. Nested blocks share that state.
//
// Imports are found in two passes. Discover renders the file into io.Discard
// and records every type and member reference; RenderFile then writes the
// package header, the sorted imports and the body again for real. Both passes
// use fresh Writers, so rendering the same File twice yields the same bytes.
package emit
