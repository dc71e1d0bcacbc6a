// Package testkit holds output invariants shared by tests and fuzz targets.
package testkit

import (
	"fmt"
	"strings"
)

// CheckWrapPreservesText verifies that wrapping input at indent level zero
// with no line prefix only turned spaces into line breaks: non-breaking
// spaces become plain spaces and nothing else changes.
func CheckWrapPreservesText(input, output string) error {
	want := strings.ReplaceAll(strings.ReplaceAll(input, "·", " "), "\n", " ")
	got := strings.ReplaceAll(output, "\n", " ")
	if got == want {
		return nil
	}
	i := 0
	for i < len(got) && i < len(want) && got[i] == want[i] {
		i++
	}
	return fmt.Errorf("text differs at byte %d: got %q, want %q", i, clip(got[i:]), clip(want[i:]))
}

// CheckRenderedFile verifies the shape of a rendered file: it ends with
// exactly one newline and no layout marker survived.
func CheckRenderedFile(text string) error {
	if !strings.HasSuffix(text, "\n") {
		return fmt.Errorf("file does not end with a newline")
	}
	if strings.HasSuffix(text, "\n\n") {
		return fmt.Errorf("file ends with a blank line")
	}
	for _, marker := range []string{"·", "⇥", "⇤", "«", "»"} {
		if line, ok := lineContaining(text, marker); ok {
			return fmt.Errorf("marker %q left in output: %q", marker, line)
		}
	}
	for n, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if strings.TrimRight(line, " \t") != line {
			return fmt.Errorf("line %d has trailing whitespace: %q", n+1, line)
		}
	}
	return nil
}

func lineContaining(text, s string) (string, bool) {
	for line := range strings.SplitSeq(text, "\n") {
		if strings.Contains(line, s) {
			return line, true
		}
	}
	return "", false
}

func clip(s string) string {
	const n = 24
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
