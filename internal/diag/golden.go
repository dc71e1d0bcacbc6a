package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatShort renders diagnostics one per line in a stable order:
//
//	error FMT1005 gen/Foo.kt@3 Argument index out of range: %5L
//
// Notes follow their diagnostic as indented "note" lines when includeNotes is set.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i], sorted[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Offset != dj.Offset {
			return di.Offset < dj.Offset
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range sorted {
		msg := strings.ReplaceAll(d.Message, "\n", " ")
		fmt.Fprintf(&b, "%s %s %s %s", strings.ToLower(d.Severity.String()), d.Code.ID(), d.Position(), msg)
		if includeNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(&b, "\n  note %s", n.Msg)
			}
		}
		if i < len(sorted)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
