// Package filespec assembles one output file: header comment, package,
// explicit imports and member blocks, in that order.
package filespec

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"poet/internal/codeblock"
	"poet/internal/emit"
	"poet/internal/names"
)

// Extension is appended to File.Name to form the file name.
const Extension = ".kt"

var ErrNoName = errors.New("file has no name")

// File is an immutable file description.
type File struct {
	Package string
	Name    string
	comment codeblock.Block
	imports []emit.Import
	members []codeblock.Block
}

// Comment returns the header comment block.
func (f File) Comment() codeblock.Block { return f.comment }

// Members returns the member blocks. The slice is shared; do not modify it.
func (f File) Members() []codeblock.Block { return f.members }

// Imports returns the explicit imports.
func (f File) Imports() emit.ImportSet { return emit.NewImportSet(f.imports...) }

// FileName is Name plus Extension.
func (f File) FileName() string { return f.Name + Extension }

// Path is the slash-separated path of the file under an output root, one
// directory per package segment.
func (f File) Path() string {
	if f.Package == "" {
		return f.FileName()
	}
	return path.Join(append(strings.Split(f.Package, "."), f.FileName())...)
}

func (f File) fileOptions(opt emit.Options) emit.FileOptions {
	opt.Package = f.Package
	opt.Imports = f.Imports()
	return emit.FileOptions{Options: opt, Comment: f.comment}
}

// Render writes the file to w.
func (f File) Render(w io.Writer, opt emit.Options) error {
	return emit.RenderFile(w, f.fileOptions(opt), f.members...)
}

// RenderString renders the file into a string.
func (f File) RenderString(opt emit.Options) (string, error) {
	return emit.RenderString(f.fileOptions(opt), f.members...)
}

// RenderImports writes the file using imports from DiscoverImports with the
// same opt.
func (f File) RenderImports(w io.Writer, opt emit.Options, imports emit.ImportSet) error {
	return emit.RenderDiscovered(w, f.fileOptions(opt), imports, f.members...)
}

// DiscoverImports returns the imports the rendered file will carry.
func (f File) DiscoverImports(opt emit.Options) (emit.ImportSet, error) {
	return emit.DiscoverFile(f.fileOptions(opt), f.members...)
}

// Builder accumulates a File. The first error is kept and returned by Build.
type Builder struct {
	pkg     string
	name    string
	comment *codeblock.Builder
	imports []emit.Import
	members []codeblock.Block
	err     error
}

// NewBuilder starts a file named name in package pkg.
func NewBuilder(pkg, name string) *Builder {
	return &Builder{
		pkg:     pkg,
		name:    name,
		comment: codeblock.NewBuilder(codeblock.Options{}),
	}
}

// AddComment appends a line to the header comment.
func (b *Builder) AddComment(format string, args ...any) *Builder {
	if !b.comment.IsEmpty() {
		b.comment.Add("\n")
	}
	b.comment.Add(format, args...)
	return b
}

// AddImport adds an explicit import, "a.b.C" or "a.b.C as D".
func (b *Builder) AddImport(spec string) *Builder {
	if b.err != nil {
		return b
	}
	imp, err := emit.ParseImport(spec)
	if err != nil {
		b.err = fmt.Errorf("file %s: %w", b.name, err)
		return b
	}
	b.imports = append(b.imports, imp)
	return b
}

// AddAliasedImport imports c under alias.
func (b *Builder) AddAliasedImport(c names.ClassName, alias string) *Builder {
	return b.AddImport(c.CanonicalName() + " as " + alias)
}

// AddCode compiles format and appends it as a member.
func (b *Builder) AddCode(format string, args ...any) *Builder {
	if b.err != nil {
		return b
	}
	blk, err := codeblock.Compile(format, args...)
	if err != nil {
		b.err = fmt.Errorf("file %s: %w", b.name, err)
		return b
	}
	return b.AddMember(blk)
}

// AddMember appends a compiled block.
func (b *Builder) AddMember(blk codeblock.Block) *Builder {
	b.members = append(b.members, blk)
	return b
}

// Build returns the File or the first error.
func (b *Builder) Build() (File, error) {
	if b.err != nil {
		return File{}, b.err
	}
	if b.name == "" {
		return File{}, ErrNoName
	}
	comment, err := b.comment.Build()
	if err != nil {
		return File{}, fmt.Errorf("file %s: comment: %w", b.name, err)
	}
	return File{
		Package: b.pkg,
		Name:    b.name,
		comment: comment,
		imports: append([]emit.Import(nil), b.imports...),
		members: append([]codeblock.Block(nil), b.members...),
	}, nil
}
