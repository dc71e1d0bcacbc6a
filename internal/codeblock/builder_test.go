package codeblock

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuilderRebasesArguments(t *testing.T) {
	b := NewBuilder(Options{})
	b.Add("%L", "a").Add("%L + %L", "b", "c")
	blk, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := blk.Format(), "%1L%2L + %3L"; got != want {
		t.Fatalf("want %q got %q", want, got)
	}
	if len(blk.Args()) != 3 {
		t.Fatalf("want 3 args, got %d", len(blk.Args()))
	}
}

func TestBuilderControlFlow(t *testing.T) {
	b := NewBuilder(Options{})
	b.BeginControlFlow("if (%N > 0)", "count").
		AddStatement("return %S", "positive").
		NextControlFlow("else").
		AddStatement("return %S", "other").
		EndControlFlow()
	blk, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	want := "if (%1N > 0) {\n⇥«return %2S\n»⇤} else {\n⇥«return %3S\n»⇤}\n"
	if got := blk.Format(); got != want {
		t.Fatalf("want %q\ngot  %q", want, got)
	}
}

func TestBuilderStickyError(t *testing.T) {
	b := NewBuilder(Options{})
	b.Add("%L", "ok").Add("%X").Add("%L", "ignored")
	if !errors.Is(mustErr(b), ErrUnknownDirective) {
		t.Fatalf("expected sticky ErrUnknownDirective")
	}
}

func mustErr(b *Builder) error {
	_, err := b.Build()
	return err
}

func TestBuiltBlockIsIsolated(t *testing.T) {
	b := NewBuilder(Options{})
	b.Add("first")
	first, _ := b.Build()
	b.Add(" second")
	if got := first.Format(); got != "first" {
		t.Fatalf("built block changed after further Add: %q", got)
	}
}

func TestJoin(t *testing.T) {
	parts := []Block{
		MustCompile("%S", "a"),
		MustCompile("%L", 2),
		MustCompile("x"),
	}
	got := Join(parts, ", ")
	if diff := cmp.Diff("%1S, %2L, x", got.Format()); diff != "" {
		t.Fatalf("join mismatch:\n%s", diff)
	}
	if !Join(nil, ", ").IsEmpty() {
		t.Fatalf("joining nothing should be empty")
	}
}
