package emit

import (
	"fmt"
	"io"
	"strings"

	"poet/internal/codeblock"
	"poet/internal/names"
)

// FileOptions describe one rendered file. Options.Package names the file's
// package and Options.Imports holds explicit imports, which are always
// written and claim their simple names before discovered references.
type FileOptions struct {
	Options
	Comment codeblock.Block
}

// Discover renders blocks into io.Discard and returns the imports they need,
// merged with opt.Imports and resolved under opt.Collision.
func Discover(opt Options, blocks ...codeblock.Block) (ImportSet, error) {
	return discover(FileOptions{Options: opt}, blocks)
}

// DiscoverFile is Discover for a whole file, header comment included.
func DiscoverFile(fo FileOptions, blocks ...codeblock.Block) (ImportSet, error) {
	return discover(fo, blocks)
}

func discover(fo FileOptions, blocks []codeblock.Block) (ImportSet, error) {
	w := newDiscoveryWriter(fo.Options)
	if err := w.emitFile(fo, blocks); err != nil {
		return ImportSet{}, err
	}
	return w.found.resolve(fo.Imports, fo.Collision, fo.Allocator)
}

// RenderFile writes the header comment, the package line, the sorted imports
// and the blocks separated by blank lines. The output ends with a newline.
func RenderFile(out io.Writer, fo FileOptions, blocks ...codeblock.Block) error {
	imports, err := discover(fo, blocks)
	if err != nil {
		return fmt.Errorf("discover imports: %w", err)
	}
	return RenderDiscovered(out, fo, imports, blocks...)
}

// RenderDiscovered is the output pass of RenderFile. imports must be the
// result of DiscoverFile for the same fo and blocks.
func RenderDiscovered(out io.Writer, fo FileOptions, imports ImportSet, blocks ...codeblock.Block) error {
	opt := fo.Options
	opt.Imports = imports
	return NewWriter(out, opt).emitFile(fo, blocks)
}

// RenderString is RenderFile into a string.
func RenderString(fo FileOptions, blocks ...codeblock.Block) (string, error) {
	var sb strings.Builder
	if err := RenderFile(&sb, fo, blocks...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (w *Writer) emitFile(fo FileOptions, blocks []codeblock.Block) error {
	if !fo.Comment.IsEmpty() {
		if err := w.EmitComment(fo.Comment); err != nil {
			return err
		}
	}
	if fo.Package != "" {
		if err := w.emitAndIndent("package·" + names.Escape(fo.Package) + "\n\n"); err != nil {
			return err
		}
	}
	if w.found == nil && w.opt.Imports.Len() > 0 {
		for _, imp := range w.opt.Imports.items {
			if err := w.emitAndIndent("import·" + strings.ReplaceAll(imp.String(), " ", "·") + "\n"); err != nil {
				return err
			}
		}
		if err := w.emitAndIndent("\n"); err != nil {
			return err
		}
	}
	for i, b := range blocks {
		if i > 0 {
			sep := "\n"
			if !w.atLineStart {
				sep = "\n\n"
			}
			if err := w.emitAndIndent(sep); err != nil {
				return err
			}
		}
		if err := w.Emit(b); err != nil {
			return err
		}
	}
	if !w.atLineStart {
		if err := w.emitAndIndent("\n"); err != nil {
			return err
		}
	}
	return w.Close()
}
