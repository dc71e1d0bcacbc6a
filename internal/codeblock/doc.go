// Package codeblock compiles percent-style format strings into immutable
// Blocks: ordered parts bound to arguments.
//
// Directives:
//
//	%L  literal; nested Blocks are emitted in place
//	%N  name, escaped when it is a keyword
//	%S  quoted string, '$' escaped
//	%P  quoted string template, '$' kept
//	%T  type reference, imported when possible
//	%M  member reference, imported when possible
//	%%  a percent sign
//	⇥ ⇤ increase / decrease the indent level
//	« » begin / end a statement; its later lines get a continuation indent
//	·   a space that never wraps (interpreted by the line wrapper)
//
// "%2L" selects the second argument. Without an index, arguments are taken in
// order. One format string uses one style or the other, never both. Every
// index is checked when the Block is built; an emitter never sees a bad one.
package codeblock
