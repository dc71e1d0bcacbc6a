package emit

import (
	"errors"
	"strings"
	"testing"

	"poet/internal/codeblock"
	"poet/internal/linewrap"
	"poet/internal/names"
)

func render(t *testing.T, opt Options, format string, args ...any) string {
	t.Helper()
	var sb strings.Builder
	w := NewWriter(&sb, opt)
	if err := w.EmitString(format, args...); err != nil {
		t.Fatalf("EmitString(%q): %v", format, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return sb.String()
}

func expectFault(t *testing.T, kind linewrap.FaultKind, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		f, ok := recover().(linewrap.Fault)
		if !ok || f.Kind != kind {
			t.Fatalf("expected %s fault, got %v", kind, f)
		}
	}()
	fn()
}

func TestEmitLiterals(t *testing.T) {
	cases := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"positional literal", "%1L taco", []any{"delicious"}, "delicious taco"},
		{"number", "val x = %L", []any{42}, "val x = 42"},
		{"nil literal", "val x = %L", []any{nil}, "val x = null"},
		{"percent", "100%%", nil, "100%"},
		{"nested block", "run { %L }", []any{codeblock.MustCompile("%S", "x")}, `run { "x" }`},
		{"keyword name", "val %N = 1", []any{"in"}, "val `in` = 1"},
		{"plain name", "val %N = 1", []any{"count"}, "val count = 1"},
		{"quoted", "%S", []any{`This is "quoted"!`}, `"This is \"quoted\"!"`},
		{"dollar in string", "%S", []any{"$x"}, `"${'$'}x"`},
		{"dollar in raw", "%P", []any{"$x"}, `"$x"`},
		{"null string", "%S", []any{codeblock.Null()}, "null"},
		{"escapes", "%S", []any{"a\tb\\c"}, `"a\tb\\c"`},
		{"nbsp", "a·b", nil, "a b"},
		{"middle dot in string", "%S", []any{"a·b"}, `"a\u00b7b"`},
		{"middle dot in raw", "%P", []any{"x · y"}, `"x \u00b7 y"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render(t, Options{}, tc.format, tc.args...); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestQuotedMultilineString(t *testing.T) {
	got := render(t, Options{Indent: "  "}, "%S", "a\nb")
	want := "\"a\\n\"\n    + \"b\""
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQuotedStringIsNeverWrapped(t *testing.T) {
	got := render(t, Options{ColumnLimit: 10}, "x = %S", "a b c d e f g h")
	if !strings.Contains(got, `"a b c d e f g h"`) {
		t.Errorf("string literal was wrapped: %q", got)
	}
}

func TestNameFromAllocator(t *testing.T) {
	a := names.NewAllocator()
	if _, err := a.NewName("sb", "builder"); err != nil {
		t.Fatal(err)
	}
	got := render(t, Options{}, "%N.append(1)", codeblock.NTag(a, "builder"))
	if got != "sb.append(1)" {
		t.Errorf("got %q", got)
	}

	w := NewWriter(&strings.Builder{}, Options{})
	err := w.EmitString("%N", codeblock.NTag(a, "missing"))
	if !errors.Is(err, names.ErrUnknownTag) {
		t.Errorf("expected ErrUnknownTag, got %v", err)
	}
}

func TestStatementContinuation(t *testing.T) {
	b, err := codeblock.NewBuilder(codeblock.Options{}).
		BeginControlFlow("fun f()").
		AddStatement("return %L + %L + %L", "aaaaaa", "bbbbbb", "cccccc").
		EndControlFlow().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	got := render(t, Options{Indent: "  ", ColumnLimit: 20}, "%L", b)
	want := "fun f() {\n" +
		"  return aaaaaa +\n" +
		"    bbbbbb + cccccc\n" +
		"}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestStatementHardNewline(t *testing.T) {
	got := render(t, Options{Indent: "  "}, "«foo(\na,\nb)\n»bar()\n")
	want := "foo(\n  a,\n  b)\nbar()\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIndentMarkers(t *testing.T) {
	got := render(t, Options{Indent: "  "}, "a {\n⇥b\n⇥c\n⇤⇤}\n")
	want := "a {\n  b\n    c\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFaults(t *testing.T) {
	cases := []struct {
		name   string
		format string
		kind   linewrap.FaultKind
	}{
		{"unindent below zero", "a⇤", linewrap.FaultIndentUnderflow},
		{"nested statement", "«a «b»»", linewrap.FaultStatementNesting},
		{"end without begin", "a»", linewrap.FaultStatementNesting},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWriter(&strings.Builder{}, Options{})
			expectFault(t, tc.kind, func() { _ = w.EmitString(tc.format) })
		})
	}
}

func TestNegativeIndentCounts(t *testing.T) {
	w := NewWriter(&strings.Builder{}, Options{})
	expectFault(t, linewrap.FaultIndentUnderflow, func() { w.Indent(-2) })
	if w.indentLevel != 0 {
		t.Errorf("indent level = %d after rejected Indent(-2)", w.indentLevel)
	}
	w.Indent(1)
	expectFault(t, linewrap.FaultIndentUnderflow, func() { w.Unindent(-1) })
	if w.indentLevel != 1 {
		t.Errorf("indent level = %d after rejected Unindent(-1)", w.indentLevel)
	}
}

func TestEmitComment(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb, Options{ColumnLimit: 20})
	if err := w.EmitString("val x = 1"); err != nil {
		t.Fatal(err)
	}
	if err := w.EmitComment(codeblock.MustCompile("one two three four five six\n\nend")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	want := "val x = 1\n" +
		"// one two three\n" +
		"// four five six\n" +
		"//\n" +
		"// end\n"
	if got := sb.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
