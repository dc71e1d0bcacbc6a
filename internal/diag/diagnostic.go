package diag

import "fmt"

type Note struct {
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	File     string
	// Offset is a byte offset into the format string that produced the
	// diagnostic, or -1 when the position is unknown.
	Offset int
	Notes  []Note
}

// New builds an error diagnostic without position information.
func New(code Code, file, msg string) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Message: msg, File: file, Offset: -1}
}

// Position renders "file" or "file@offset".
func (d Diagnostic) Position() string {
	if d.Offset < 0 {
		return d.File
	}
	return fmt.Sprintf("%s@%d", d.File, d.Offset)
}
