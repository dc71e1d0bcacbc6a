package filespec

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"poet/internal/codeblock"
	"poet/internal/emit"
	"poet/internal/names"
)

func TestRenderFile(t *testing.T) {
	str := names.MustParseClassName("kotlin.String")
	f, err := NewBuilder("com.example.greet", "Greeter").
		AddComment("Generated by %L.", "poet").
		AddComment("Do not edit.").
		AddImport("kotlin.collections.List").
		AddCode("fun greet(name: %T): %T = %P\n", str, str, "Hello, ${name}!").
		AddCode("val greeting = greet(%S)\n", "world").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Path(); got != "com/example/greet/Greeter.kt" {
		t.Errorf("Path() = %q", got)
	}
	got, err := f.RenderString(emit.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := `// Generated by poet.
// Do not edit.
package com.example.greet

import kotlin.String
import kotlin.collections.List

fun greet(name: String): String = "Hello, ${name}!"

val greeting = greet("world")
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderString mismatch (-want +got):\n%s", diff)
	}

	imports, err := f.DiscoverImports(emit.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"kotlin.String", "kotlin.collections.List"}, imports.Strings()); diff != "" {
		t.Errorf("DiscoverImports mismatch (-want +got):\n%s", diff)
	}

	var sb strings.Builder
	if err := f.RenderImports(&sb, emit.Options{}, imports); err != nil {
		t.Fatal(err)
	}
	if sb.String() != got {
		t.Errorf("RenderImports differs from RenderString:\n%s", sb.String())
	}
}

func TestBuilderErrors(t *testing.T) {
	_, err := NewBuilder("a", "F").AddCode("%5L", "x").Build()
	if !errors.Is(err, codeblock.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	_, err = NewBuilder("a", "F").AddImport("NoPackage").Build()
	if !errors.Is(err, emit.ErrBadImport) {
		t.Errorf("expected ErrBadImport, got %v", err)
	}
	if _, err := NewBuilder("a", "").Build(); !errors.Is(err, ErrNoName) {
		t.Errorf("expected ErrNoName, got %v", err)
	}
}

func TestDefaultPackagePath(t *testing.T) {
	f, err := NewBuilder("", "Main").Build()
	if err != nil {
		t.Fatal(err)
	}
	if f.Path() != "Main.kt" {
		t.Errorf("Path() = %q", f.Path())
	}
}
