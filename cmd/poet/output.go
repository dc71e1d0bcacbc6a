package main

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"poet/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	noteColor    = color.New(color.Faint)
)

// printDiagnostics writes one line per diagnostic, coloured by severity.
func printDiagnostics(w io.Writer, bag *diag.Bag) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	for line := range strings.SplitSeq(diag.FormatShort(bag.Items(), true), "\n") {
		switch {
		case strings.HasPrefix(line, "error"):
			errorColor.Fprintln(w, line)
		case strings.HasPrefix(line, "warning"):
			warningColor.Fprintln(w, line)
		case strings.HasPrefix(line, "  note"):
			noteColor.Fprintln(w, line)
		default:
			io.WriteString(w, line+"\n")
		}
	}
}
