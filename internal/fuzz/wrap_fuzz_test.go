package fuzztests

import (
	"strings"
	"testing"

	"poet/internal/linewrap"
	"poet/internal/testkit"
)

// FuzzWrapperPreservesText appends arbitrary text and checks that wrapping
// only replaced spaces with line breaks.
func FuzzWrapperPreservesText(f *testing.F) {
	addSeeds(f, wrapSeeds)
	f.Fuzz(func(t *testing.T, input string) {
		input = clamp(input)
		var sb strings.Builder
		w := linewrap.New(&sb, "  ", 12)
		if err := w.Append(input, 0, ""); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		if err := testkit.CheckWrapPreservesText(input, sb.String()); err != nil {
			t.Fatalf("input %q wrapped to %q: %v", input, sb.String(), err)
		}
	})
}
