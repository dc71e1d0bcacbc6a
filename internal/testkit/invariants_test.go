package testkit

import "testing"

func TestCheckWrapPreservesText(t *testing.T) {
	if err := CheckWrapPreservesText("a b·c\nd", "a\nb c\nd"); err != nil {
		t.Error(err)
	}
	if err := CheckWrapPreservesText("a b", "ab"); err == nil {
		t.Error("expected a difference")
	}
}

func TestCheckRenderedFile(t *testing.T) {
	cases := []struct {
		text string
		ok   bool
	}{
		{"package a\n\nval x = 1\n", true},
		{"val x = 1", false},
		{"val x = 1\n\n", false},
		{"val x·= 1\n", false},
		{"val x = 1 \n", false},
	}
	for _, tc := range cases {
		if err := CheckRenderedFile(tc.text); (err == nil) != tc.ok {
			t.Errorf("CheckRenderedFile(%q) = %v", tc.text, err)
		}
	}
}
