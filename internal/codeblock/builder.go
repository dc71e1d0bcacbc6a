package codeblock

import "slices"

// Builder assembles a Block from several format strings. The first error is
// kept and returned by Build; later calls are no-ops.
type Builder struct {
	opts  Options
	parts []Part
	args  []Arg
	err   error
}

// NewBuilder returns an empty builder using opts for every Add.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Add compiles format with args and appends it.
func (b *Builder) Add(format string, args ...any) *Builder {
	if b.err != nil {
		return b
	}
	blk, err := CompileWith(b.opts, format, args...)
	if err != nil {
		b.err = err
		return b
	}
	b.append(blk)
	return b
}

// AddNamed compiles a format with named arguments and appends it.
func (b *Builder) AddNamed(format string, args map[string]any) *Builder {
	if b.err != nil {
		return b
	}
	blk, err := CompileNamed(b.opts, format, args)
	if err != nil {
		b.err = err
		return b
	}
	b.append(blk)
	return b
}

// AddStatement appends format as one statement terminated by a newline.
func (b *Builder) AddStatement(format string, args ...any) *Builder {
	b.marker(KindStatementBegin)
	b.Add(format, args...)
	b.literal("\n")
	return b.marker(KindStatementEnd)
}

// AddBlock appends an already compiled block.
func (b *Builder) AddBlock(blk Block) *Builder {
	if b.err != nil {
		return b
	}
	b.append(blk)
	return b
}

// BeginControlFlow opens "controlFlow {" and indents.
func (b *Builder) BeginControlFlow(controlFlow string, args ...any) *Builder {
	b.Add(controlFlow+" {\n", args...)
	return b.Indent()
}

// NextControlFlow closes the current scope and opens "} controlFlow {".
func (b *Builder) NextControlFlow(controlFlow string, args ...any) *Builder {
	b.Unindent()
	b.Add("} "+controlFlow+" {\n", args...)
	return b.Indent()
}

// EndControlFlow closes the current scope.
func (b *Builder) EndControlFlow() *Builder {
	b.Unindent()
	return b.literal("}\n")
}

func (b *Builder) Indent() *Builder { return b.marker(KindIndent) }

func (b *Builder) Unindent() *Builder { return b.marker(KindUnindent) }

// IsEmpty reports whether nothing has been added.
func (b *Builder) IsEmpty() bool { return len(b.parts) == 0 }

// Build returns the assembled block or the first error.
func (b *Builder) Build() (Block, error) {
	if b.err != nil {
		return Block{}, b.err
	}
	return Block{parts: slices.Clone(b.parts), args: slices.Clone(b.args)}, nil
}

func (b *Builder) marker(k Kind) *Builder {
	if b.err != nil {
		return b
	}
	b.parts = append(b.parts, Part{Kind: k, Arg: -1})
	return b
}

func (b *Builder) literal(text string) *Builder {
	if b.err != nil {
		return b
	}
	b.parts = append(b.parts, Part{Kind: KindLiteral, Text: text, Arg: -1})
	return b
}

func (b *Builder) append(blk Block) {
	base := len(b.args)
	for _, p := range blk.parts {
		if p.Arg >= 0 {
			p.Arg += base
		}
		b.parts = append(b.parts, p)
	}
	b.args = append(b.args, blk.args...)
}
