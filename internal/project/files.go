package project

import (
	"context"
	"fmt"
	"os"
	"strings"

	"poet/internal/codeblock"
	"poet/internal/diag"
	"poet/internal/filespec"
	"poet/internal/names"
	"poet/internal/openapi"
)

// BuildFiles builds every file the manifest describes: [[file]] entries first, in
// order, then the schemas of each [[openapi]] document.
func (m *Manifest) BuildFiles(ctx context.Context) ([]filespec.File, error) {
	files := make([]filespec.File, 0, len(m.Files))
	for i, fe := range m.Files {
		f, err := fe.build()
		if err != nil {
			return nil, fmt.Errorf("%s: file[%d] %s: %w", m.Path, i, fe.Name, err)
		}
		files = append(files, f)
	}
	for i, o := range m.OpenAPI {
		generated, err := m.expandOpenAPI(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("%s: openapi[%d] %s: %w: %w", m.Path, i, o.Path, diag.PrjOpenAPI, err)
		}
		files = append(files, generated...)
	}
	return files, nil
}

func (m *Manifest) expandOpenAPI(ctx context.Context, o OpenAPIEntry) ([]filespec.File, error) {
	p, err := ResolveWithin(m.Root(), o.Path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return openapi.Generate(ctx, data, o.Package)
}

func (fe FileEntry) build() (filespec.File, error) {
	fb := filespec.NewBuilder(fe.Package, fe.Name)
	if comment := strings.TrimRight(fe.Comment, "\n"); comment != "" {
		for _, line := range strings.Split(comment, "\n") {
			fb.AddComment("%L", line)
		}
	}
	for _, imp := range fe.Imports {
		fb.AddImport(imp)
	}
	for j, be := range fe.Blocks {
		blk, err := be.compile()
		if err != nil {
			return filespec.File{}, fmt.Errorf("block[%d]: %w", j, err)
		}
		fb.AddMember(blk)
	}
	return fb.Build()
}

func (be BlockEntry) compile() (codeblock.Block, error) {
	opts := codeblock.Options{Strict: be.Strict}
	if len(be.Named) > 0 {
		named := make(map[string]any, len(be.Named))
		for name, a := range be.Named {
			arg, err := a.arg()
			if err != nil {
				return codeblock.Block{}, fmt.Errorf("named.%s: %w", name, err)
			}
			named[name] = arg
		}
		return codeblock.CompileNamed(opts, be.Format, named)
	}
	args := make([]any, 0, len(be.Args))
	for k, a := range be.Args {
		arg, err := a.arg()
		if err != nil {
			return codeblock.Block{}, fmt.Errorf("args[%d]: %w", k, err)
		}
		args = append(args, arg)
	}
	return codeblock.CompileWith(opts, be.Format, args...)
}

func (a ArgEntry) arg() (codeblock.Arg, error) {
	switch {
	case a.Literal != nil:
		return codeblock.L(a.Literal), nil
	case a.String != nil:
		return codeblock.S(*a.String), nil
	case a.Raw != nil:
		return codeblock.S(*a.Raw), nil
	case a.Name != nil:
		return codeblock.N(*a.Name), nil
	case a.Type != nil:
		t, err := names.ParseTypeName(*a.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadReference, err)
		}
		return codeblock.T(t), nil
	case a.Member != nil:
		m, err := names.ParseMemberName(*a.Member)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadReference, err)
		}
		return codeblock.M(m), nil
	case a.Null:
		return codeblock.Null(), nil
	}
	return nil, fmt.Errorf("%w: empty argument", ErrInvalidField)
}
