package openapi

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"poet/internal/emit"
)

const petstore = `
openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
paths: {}
components:
  schemas:
    Pet:
      type: object
      description: A pet in the store.
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        tag:
          type: string
        status:
          $ref: '#/components/schemas/Status'
        in:
          type: boolean
    Status:
      type: string
      enum: [available, in-progress]
    Tags:
      type: array
      items:
        type: string
`

func TestGenerate(t *testing.T) {
	files, err := Generate(context.Background(), []byte(petstore), "com.example.api")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, f := range files {
		got = append(got, f.Path())
	}
	want := []string{
		"com/example/api/Pet.kt",
		"com/example/api/Status.kt",
		"com/example/api/Tags.kt",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	pet, err := files[0].RenderString(emit.Options{})
	if err != nil {
		t.Fatal(err)
	}
	wantPet := "// Generated from OpenAPI schema Pet.\n" +
		"// A pet in the store.\n" +
		"package com.example.api\n" +
		"\n" +
		"import kotlin.Boolean\n" +
		"import kotlin.Long\n" +
		"import kotlin.String\n" +
		"\n" +
		"data class Pet(\n" +
		"    val id: Long,\n" +
		"    val `in`: Boolean? = null,\n" +
		"    val name: String,\n" +
		"    val status: Status? = null,\n" +
		"    val tag: String? = null,\n" +
		")\n"
	if diff := cmp.Diff(wantPet, pet); diff != "" {
		t.Errorf("Pet mismatch (-want +got):\n%s", diff)
	}

	status, err := files[1].RenderString(emit.Options{Indent: "  "})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(status, "enum class Status {\n  AVAILABLE,\n  IN_PROGRESS,\n}\n") {
		t.Errorf("Status = %q", status)
	}

	tags, err := files[2].RenderString(emit.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(tags, "typealias Tags = List<String>\n") {
		t.Errorf("Tags = %q", tags)
	}
}

func TestGenerateWithoutSchemas(t *testing.T) {
	doc := "openapi: 3.0.3\ninfo:\n  title: Empty\n  version: \"1\"\npaths: {}\n"
	_, err := Generate(context.Background(), []byte(doc), "x")
	if !errors.Is(err, ErrNoSchemas) {
		t.Errorf("expected ErrNoSchemas, got %v", err)
	}
}

func TestLoadRejectsEmptyDocument(t *testing.T) {
	if _, err := Load(context.Background(), nil); err == nil {
		t.Error("expected an error for an empty document")
	}
}
