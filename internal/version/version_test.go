package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestPretty(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })

	cases := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3+build.7", "1.2.3+build.7"},
		{"dev", "dev"},
	}
	for _, tc := range cases {
		if got := Pretty(tc.in); got != tc.want {
			t.Errorf("Pretty(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrettyColours(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = saved })

	got := Pretty("1.2.3")
	want := majorColor.Sprint("1") + "." + minorColor.Sprint("2") + "." + patchColor.Sprint("3")
	if got != want {
		t.Errorf("Pretty = %q, want %q", got, want)
	}
	if got == "1.2.3" {
		t.Error("expected escape sequences")
	}
}
