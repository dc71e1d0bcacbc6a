package emit

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"poet/internal/codeblock"
	"poet/internal/names"
)

var (
	kotlinString = names.MustParseClassName("kotlin.String")
	kotlinList   = names.MustParseClassName("kotlin.collections.List")
	localClass   = names.MustParseClassName("com.example.Local")
	otherFoo     = names.MustParseClassName("other.Foo")
	anotherFoo   = names.MustParseClassName("another.Foo")
)

func collisionBlocks() []codeblock.Block {
	return []codeblock.Block{
		codeblock.MustCompile("val a: %T = %T()\n", names.Parameterized(kotlinList, kotlinString), localClass),
		codeblock.MustCompile("val b: %T\nval c: %T\n", otherFoo, anotherFoo),
	}
}

func TestRenderFileQualifiesCollisions(t *testing.T) {
	got, err := RenderString(FileOptions{Options: Options{Package: "com.example"}}, collisionBlocks()...)
	if err != nil {
		t.Fatal(err)
	}
	want := `package com.example

import kotlin.String
import kotlin.collections.List
import other.Foo

val a: List<String> = Local()

val b: Foo
val c: another.Foo
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderString mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFileAliasesCollisions(t *testing.T) {
	fo := FileOptions{Options: Options{Package: "com.example", Collision: Alias}}
	got, err := RenderString(fo, collisionBlocks()...)
	if err != nil {
		t.Fatal(err)
	}
	want := `package com.example

import another.Foo as Foo_
import kotlin.String
import kotlin.collections.List
import other.Foo

val a: List<String> = Local()

val b: Foo
val c: Foo_
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RenderString mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFileIsIdempotent(t *testing.T) {
	a := names.NewAllocator()
	fo := FileOptions{
		Options: Options{Package: "com.example", Collision: Alias, Allocator: a},
		Comment: codeblock.MustCompile("Generated."),
	}
	blocks := collisionBlocks()
	first, err := RenderString(fo, blocks...)
	if err != nil {
		t.Fatal(err)
	}
	second, err := RenderString(fo, blocks...)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("renders differ:\n%s\n---\n%s", first, second)
	}
	if _, err := a.Get(importTag("another.Foo")); err == nil {
		t.Error("caller allocator was modified")
	}
}

func TestDiscover(t *testing.T) {
	outer := names.MustParseClassName("a.b.Outer.Inner")
	maxFn := names.NewMemberName("kotlin.math", "max")
	helper := names.NewMemberNameIn(names.MustParseClassName("a.Util"), "helper")
	body := codeblock.MustCompile("%T %M %M %T %T",
		outer.AsNullable(), maxFn, helper, localClass, names.Parameterized(kotlinList, names.Star))

	set, err := Discover(Options{Package: "com.example"}, body)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.Util", "a.b.Outer", "kotlin.collections.List", "kotlin.math.max"}
	if diff := cmp.Diff(want, set.Strings()); diff != "" {
		t.Errorf("Discover mismatch (-want +got):\n%s", diff)
	}

	got, err := RenderString(FileOptions{Options: Options{Package: "com.example"}}, body)
	if err != nil {
		t.Fatal(err)
	}
	wantBody := "Outer.Inner? max Util.helper Local List<*>\n"
	if got[len(got)-len(wantBody):] != wantBody {
		t.Errorf("body = %q, want suffix %q", got, wantBody)
	}
}

func TestExplicitImportShadowsLocalClass(t *testing.T) {
	otherLocal := names.MustParseClassName("other.Local")
	fo := FileOptions{Options: Options{
		Package: "com.example",
		Imports: NewImportSet(Import{Qualified: "other.Local"}),
	}}
	got, err := RenderString(fo, codeblock.MustCompile("%T %T\n", localClass, otherLocal))
	if err != nil {
		t.Fatal(err)
	}
	want := "package com.example\n\nimport other.Local\n\ncom.example.Local Local\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalClassWinsOverImport(t *testing.T) {
	otherLocal := names.MustParseClassName("other.Local")
	got, err := RenderString(FileOptions{Options: Options{Package: "com.example"}},
		codeblock.MustCompile("%T %T\n", otherLocal, localClass))
	if err != nil {
		t.Fatal(err)
	}
	want := "package com.example\n\nother.Local Local\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultPackage(t *testing.T) {
	got, err := RenderString(FileOptions{}, codeblock.MustCompile("%T %T\n",
		names.NewClassName("", "Top"), kotlinString))
	if err != nil {
		t.Fatal(err)
	}
	want := "import kotlin.String\n\nTop String\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileComment(t *testing.T) {
	fo := FileOptions{
		Options: Options{Package: "com.example"},
		Comment: codeblock.MustCompile("Generated by %L.", "poet"),
	}
	got, err := RenderString(fo, codeblock.MustCompile("val x = 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := "// Generated by poet.\npackage com.example\n\nval x = 1\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseImport(t *testing.T) {
	imp, err := ParseImport("a.b.C as D")
	if err != nil {
		t.Fatal(err)
	}
	if imp != (Import{Qualified: "a.b.C", Alias: "D"}) || imp.SimpleName() != "D" {
		t.Errorf("got %+v", imp)
	}
	for _, bad := range []string{"", "C", "a.C as", "a.C as 1x"} {
		if _, err := ParseImport(bad); err == nil {
			t.Errorf("ParseImport(%q) succeeded", bad)
		}
	}
}
