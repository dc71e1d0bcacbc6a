package fuzztests

import "testing"

// maxFuzzInput bounds inputs so a single case stays fast.
const maxFuzzInput = 4 << 10

var formatSeeds = []string{
	"",
	"taco",
	"%%",
	"100%% sure",
	"fun f() {\n⇥return 1\n⇤}\n",
	"«val x = a +\nb»\n",
	"a·b c",
	"%L",
	"%1L %2L",
	"%L %1L",
	"%",
	"%Q",
	"%food:L",
	"⇥⇥⇤",
	"«»",
	"\xff\xfe",
}

var wrapSeeds = []string{
	"",
	"a b c",
	"val x = aaaa + bbbb + cccc + dddd + eeee",
	"one\ntwo three",
	"keep·these·together and not these",
	"x = - y + -> z",
	"日本語 の テキスト",
	"  leading and trailing  ",
}

func addSeeds(f *testing.F, seeds []string) {
	for _, s := range seeds {
		f.Add(s)
	}
}

func clamp(s string) string {
	if len(s) > maxFuzzInput {
		return s[:maxFuzzInput]
	}
	return s
}
