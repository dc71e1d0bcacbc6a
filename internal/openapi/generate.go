// Package openapi generates data classes from the component schemas of an
// OpenAPI 3 document.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"poet/internal/codeblock"
	"poet/internal/filespec"
	"poet/internal/names"
)

// ErrNoSchemas reports a document without components.schemas.
var ErrNoSchemas = errors.New("openapi: document has no component schemas")

const schemaRefPrefix = "#/components/schemas/"

var (
	kotlinAny     = names.NewClassName("kotlin", "Any")
	kotlinBoolean = names.NewClassName("kotlin", "Boolean")
	kotlinDouble  = names.NewClassName("kotlin", "Double")
	kotlinFloat   = names.NewClassName("kotlin", "Float")
	kotlinInt     = names.NewClassName("kotlin", "Int")
	kotlinLong    = names.NewClassName("kotlin", "Long")
	kotlinString  = names.NewClassName("kotlin", "String")
	kotlinList    = names.NewClassName("kotlin.collections", "List")
	kotlinMap     = names.NewClassName("kotlin.collections", "Map")
)

// Load parses and validates an OpenAPI document in JSON or YAML form.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// Generate returns one file per schema in components.schemas, sorted by
// schema name. Object schemas become data classes, string enums become enum
// classes and anything else becomes a typealias.
func Generate(ctx context.Context, data []byte, pkg string) ([]filespec.File, error) {
	doc, err := Load(ctx, data)
	if err != nil {
		return nil, err
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil, ErrNoSchemas
	}
	g := generator{pkg: pkg}
	schemas := doc.Components.Schemas
	files := make([]filespec.File, 0, len(schemas))
	for _, name := range slices.Sorted(maps.Keys(schemas)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ref := schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		f, err := g.file(name, ref.Value)
		if err != nil {
			return nil, fmt.Errorf("openapi: schema %s: %w", name, err)
		}
		files = append(files, f)
	}
	return files, nil
}

type generator struct {
	pkg string
}

func (g generator) file(name string, s *openapi3.Schema) (filespec.File, error) {
	className := names.ToIdentifier(name)
	fb := filespec.NewBuilder(g.pkg, className).
		AddComment("Generated from OpenAPI schema %L.", name)
	if s.Description != "" {
		fb.AddComment("%L", strings.TrimSpace(s.Description))
	}

	var (
		body codeblock.Block
		err  error
	)
	switch {
	case firstType(s.Type) == "string" && len(s.Enum) > 0:
		body, err = g.enumClass(className, s)
	case firstType(s.Type) == "object" && s.AdditionalProperties.Schema == nil:
		body, err = g.dataClass(className, s)
	default:
		body, err = codeblock.Compile("typealias %N = %T\n", className, g.typeOf(&openapi3.SchemaRef{Value: s}))
	}
	if err != nil {
		return filespec.File{}, err
	}
	return fb.AddMember(body).Build()
}

func (g generator) dataClass(className string, s *openapi3.Schema) (codeblock.Block, error) {
	if len(s.Properties) == 0 {
		return codeblock.Compile("class %N\n", className)
	}
	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}
	b := codeblock.NewBuilder(codeblock.Options{Strict: true}).
		Add("data class %N(\n", className).
		Indent()
	for _, prop := range slices.Sorted(maps.Keys(s.Properties)) {
		t := g.typeOf(s.Properties[prop])
		if required[prop] {
			b.Add("val %N: %T,\n", prop, t)
			continue
		}
		b.Add("val %N: %T = null,\n", prop, nullable(t))
	}
	return b.Unindent().Add(")\n").Build()
}

func (g generator) enumClass(className string, s *openapi3.Schema) (codeblock.Block, error) {
	b := codeblock.NewBuilder(codeblock.Options{Strict: true}).
		Add("enum class %N {\n", className).
		Indent()
	for _, v := range s.Enum {
		b.Add("%N,\n", names.ToIdentifier(strings.ToUpper(fmt.Sprint(v))))
	}
	return b.Unindent().Add("}\n").Build()
}

func (g generator) typeOf(ref *openapi3.SchemaRef) names.TypeName {
	if ref == nil || ref.Value == nil {
		return kotlinAny
	}
	s := ref.Value
	if name, ok := strings.CutPrefix(ref.Ref, schemaRefPrefix); ok {
		return withNullability(names.NewClassName(g.pkg, names.ToIdentifier(name)), s.Nullable)
	}
	var t names.TypeName
	switch firstType(s.Type) {
	case "string":
		t = kotlinString
	case "integer":
		t = kotlinInt
		if s.Format == "int64" {
			t = kotlinLong
		}
	case "number":
		t = kotlinDouble
		if s.Format == "float" {
			t = kotlinFloat
		}
	case "boolean":
		t = kotlinBoolean
	case "array":
		t = names.Parameterized(kotlinList, g.typeOf(s.Items))
	case "object":
		if ap := s.AdditionalProperties.Schema; ap != nil {
			t = names.Parameterized(kotlinMap, kotlinString, g.typeOf(ap))
		} else {
			t = kotlinAny
		}
	default:
		t = kotlinAny
	}
	return withNullability(t, s.Nullable)
}

func withNullability(t names.TypeName, isNullable bool) names.TypeName {
	if !isNullable {
		return t
	}
	return nullable(t)
}

func nullable(t names.TypeName) names.TypeName {
	switch t := t.(type) {
	case names.ClassName:
		return t.AsNullable()
	case names.ParameterizedTypeName:
		return t.AsNullable()
	default:
		return t
	}
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
