package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"poet/internal/codeblock"
	"poet/internal/emit"
)

const greeterTOML = `
[format]
column_limit = 80
indent = "  "
collision = "alias"

[render]
out_dir = "out"
jobs = 2
cache = false

[[file]]
package = "com.example"
name = "Greeter"
comment = "Generated, do not edit."
imports = ["kotlin.collections.List"]

[[file.block]]
format = "fun greet(): %T = %S\n"
args = [{ type = "kotlin.String" }, { string = "hello" }]

[[file.block]]
format = "val %who:N = %greet:M()\n"
named = { who = { name = "greeting" }, greet = { member = "com.example.greet" } }
`

const greeterYAML = `
format:
  indent: "  "
file:
  - package: com.example
    name: Greeter
    block:
      - format: "val x: %T = %L\n"
        args:
          - type: kotlin.collections.List<kotlin.Int>?
          - "null": true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(writeFile(t, dir, ManifestTOML, greeterTOML))
	if err != nil {
		t.Fatal(err)
	}
	opt := m.EmitOptions()
	if opt.ColumnLimit != 80 || opt.Indent != "  " || opt.Collision != emit.Alias {
		t.Errorf("EmitOptions() = %+v", opt)
	}
	if m.CacheEnabled() {
		t.Error("cache should be disabled")
	}
	out, err := m.OutDir()
	if err != nil || out != filepath.Join(dir, "out") {
		t.Errorf("OutDir() = %q, %v", out, err)
	}

	files, err := m.BuildFiles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files", len(files))
	}
	got, err := files[0].RenderString(opt)
	if err != nil {
		t.Fatal(err)
	}
	want := `// Generated, do not edit.
package com.example

import kotlin.String
import kotlin.collections.List

fun greet(): String = "hello"

val greeting = greet()
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(writeFile(t, dir, ManifestYAML, greeterYAML))
	if err != nil {
		t.Fatal(err)
	}
	if !m.CacheEnabled() {
		t.Error("cache should default to enabled")
	}
	files, err := m.BuildFiles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got, err := files[0].RenderString(m.EmitOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, "val x: List<Int>? = null\n") {
		t.Errorf("got %q", got)
	}
}

func TestLoadOpenAPI(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "api/pets.yaml", `
openapi: 3.0.3
info: {title: Pets, version: "1"}
paths: {}
components:
  schemas:
    Pet:
      type: object
      required: [id]
      properties:
        id: {type: integer}
`)
	m, err := Load(writeFile(t, dir, ManifestTOML, "[[openapi]]\npath = \"api/pets.yaml\"\npackage = \"com.example.api\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	files, err := m.BuildFiles(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Path() != "com/example/api/Pet.kt" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
		field   string
	}{
		{"syntax", "[format\n", ErrManifestParse, ""},
		{"unknown key", "[format]\nwidth = 3\n", ErrInvalidField, "format.width"},
		{"no files", "[format]\ncolumn_limit = 80\n", ErrInvalidField, "file"},
		{"negative limit", "[format]\ncolumn_limit = -1\n[[file]]\nname = \"A\"\n", ErrInvalidField, "format.column_limit"},
		{"bad policy", "[format]\ncollision = \"rename\"\n[[file]]\nname = \"A\"\n", ErrInvalidField, "format.collision"},
		{"bad name", "[[file]]\nname = \"1A\"\n", ErrInvalidField, "file[0].name"},
		{"bad package", "[[file]]\nname = \"A\"\npackage = \"a..b\"\n", ErrInvalidField, "file[0].package"},
		{"duplicate", "[[file]]\nname = \"A\"\n[[file]]\nname = \"A\"\n", ErrInvalidField, "file[1]"},
		{"two values", "[[file]]\nname = \"A\"\n[[file.block]]\nformat = \"%L\"\nargs = [{ literal = 1, string = \"x\" }]\n", ErrInvalidField, "file[0].block[0].args[0]"},
		{"escaping openapi", "[[openapi]]\npath = \"../x.yaml\"\n", ErrInvalidField, "openapi[0].path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), ManifestTOML, tc.content))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.field != "" && !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not name %s", err, tc.field)
			}
		})
	}
}

func TestFilesReportsBadBlocks(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(writeFile(t, dir, ManifestTOML, `
[[file]]
name = "A"
[[file.block]]
format = "%T"
args = [{ type = "a..B" }]
[[file]]
name = "B"
[[file.block]]
format = "%2L"
args = [{ literal = 1 }]
`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = m.BuildFiles(context.Background())
	if !errors.Is(err, ErrBadReference) {
		t.Fatalf("expected ErrBadReference, got %v", err)
	}

	m.Files = m.Files[1:]
	_, err = m.BuildFiles(context.Background())
	if !errors.Is(err, codeblock.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	want := writeFile(t, root, ManifestYAML, greeterYAML)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("FindManifest = %q, want %q", got, want)
	}
	projectRoot, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || projectRoot != root {
		t.Errorf("FindProjectRoot = %q, %v, %v", projectRoot, ok, err)
	}
}

func TestResolveWithin(t *testing.T) {
	root := t.TempDir()
	for _, bad := range []string{"../x", "a/../../x", "/abs"} {
		if _, err := ResolveWithin(root, bad); err == nil {
			t.Errorf("ResolveWithin(%q) succeeded", bad)
		}
	}
	got, err := ResolveWithin(root, "a/./b")
	if err != nil || got != filepath.Join(root, "a", "b") {
		t.Errorf("ResolveWithin = %q, %v", got, err)
	}
}
