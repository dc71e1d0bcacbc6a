// Package diag defines the diagnostic model shared by the template compiler,
// the emitter and the render driver.
//
// # Purpose
//
//   - Give every failure class a compact numeric Code with a stable string
//     form (FMT1003, EMT2001, ...), so errors can be matched with errors.Is and
//     printed deterministically.
//   - Offer a bounded Bag that the driver fills per rendered file and the CLI
//     sorts and prints.
//
// # Scope
//
// Package diag does no IO and no rendering of source text. Colouring and
// output selection live in cmd/poet.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – numeric identifier (codes.go). A Code is itself an error, which is
//     how compile errors expose their class through errors.Is.
//   - Message – short human oriented text.
//   - File/Offset – the file being rendered and, for format errors, the byte
//     offset inside the offending format string.
//   - Notes – optional extra context lines.
package diag
