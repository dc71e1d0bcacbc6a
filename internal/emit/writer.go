package emit

import (
	"fmt"
	"io"
	"strings"

	"poet/internal/codeblock"
	"poet/internal/linewrap"
	"poet/internal/names"
)

// Writer emits blocks for one file. It is not safe for concurrent use; render
// files in parallel with one Writer each.
type Writer struct {
	out     *linewrap.Wrapper
	opt     Options
	imports table
	found   *discovery // non-nil during the discard pass

	indentLevel   int
	statementLine int // -1 outside a statement
	atLineStart   bool
	comment       bool
}

// NewWriter returns a Writer that renders references against opt.Imports.
func NewWriter(out io.Writer, opt Options) *Writer {
	opt = opt.withDefaults()
	return &Writer{
		out:           linewrap.New(out, opt.Indent, opt.ColumnLimit),
		opt:           opt,
		imports:       newTable(opt.Imports),
		statementLine: -1,
		atLineStart:   true,
	}
}

func newDiscoveryWriter(opt Options) *Writer {
	w := NewWriter(io.Discard, opt)
	w.found = newDiscovery()
	return w
}

// Emit writes b. Nested blocks share the Writer's indent, statement and
// import state.
func (w *Writer) Emit(b codeblock.Block) error {
	for _, p := range b.Parts() {
		if err := w.emitPart(b, p); err != nil {
			return err
		}
	}
	return w.out.Err()
}

// EmitString compiles format with args and emits the result.
func (w *Writer) EmitString(format string, args ...any) error {
	b, err := codeblock.Compile(format, args...)
	if err != nil {
		return err
	}
	return w.Emit(b)
}

// EmitComment writes b as line comments starting on a fresh line.
func (w *Writer) EmitComment(b codeblock.Block) error {
	if !w.atLineStart {
		if err := w.emitAndIndent("\n"); err != nil {
			return err
		}
	}
	w.comment = true
	defer func() { w.comment = false }()
	if err := w.Emit(b); err != nil {
		return err
	}
	if !w.atLineStart {
		return w.emitAndIndent("\n")
	}
	return nil
}

// Indent raises the indent level. A negative count raises
// linewrap.FaultIndentUnderflow.
func (w *Writer) Indent(levels int) {
	if levels < 0 {
		linewrap.Raise(linewrap.FaultIndentUnderflow, "cannot indent by %d levels", levels)
	}
	w.indentLevel += levels
}

// Unindent lowers the indent level. A negative count or going below zero
// raises linewrap.FaultIndentUnderflow.
func (w *Writer) Unindent(levels int) {
	if levels < 0 || w.indentLevel-levels < 0 {
		linewrap.Raise(linewrap.FaultIndentUnderflow, "cannot unindent %d from level %d", levels, w.indentLevel)
	}
	w.indentLevel -= levels
}

// Close flushes the last line.
func (w *Writer) Close() error {
	return w.out.Close()
}

func (w *Writer) emitPart(b codeblock.Block, p codeblock.Part) error {
	switch p.Kind {
	case codeblock.KindLiteral:
		return w.emitAndIndent(p.Text)
	case codeblock.KindPercent:
		return w.emitAndIndent("%")
	case codeblock.KindLit:
		return w.emitLiteral(b.Arg(p))
	case codeblock.KindName:
		name, err := w.name(b.Arg(p))
		if err != nil {
			return err
		}
		return w.emitAndIndent(name)
	case codeblock.KindString, codeblock.KindRaw:
		s, err := w.quoted(b.Arg(p), p.Kind == codeblock.KindString)
		if err != nil {
			return err
		}
		return w.emitAndIndent(s)
	case codeblock.KindType:
		a, ok := b.Arg(p).(codeblock.TypeArg)
		if !ok {
			return fmt.Errorf("emit: %%T bound to %T", b.Arg(p))
		}
		return w.emitAndIndent(w.typeName(a.Type))
	case codeblock.KindMember:
		a, ok := b.Arg(p).(codeblock.MemberArg)
		if !ok {
			return fmt.Errorf("emit: %%M bound to %T", b.Arg(p))
		}
		return w.emitAndIndent(w.memberName(a.Member))
	case codeblock.KindIndent:
		w.Indent(1)
	case codeblock.KindUnindent:
		w.Unindent(1)
	case codeblock.KindStatementBegin:
		if w.statementLine != -1 {
			linewrap.Raise(linewrap.FaultStatementNesting, "statement begin inside a statement")
		}
		w.statementLine = 0
	case codeblock.KindStatementEnd:
		if w.statementLine == -1 {
			linewrap.Raise(linewrap.FaultStatementNesting, "statement end without begin")
		}
		if w.statementLine > 0 {
			w.Unindent(1)
		}
		w.statementLine = -1
	default:
		return fmt.Errorf("emit: unexpected part %s", p.Kind)
	}
	return nil
}

func (w *Writer) emitLiteral(arg codeblock.Arg) error {
	switch a := arg.(type) {
	case codeblock.BlockArg:
		return w.Emit(a.Block)
	case codeblock.LitArg:
		return w.emitAndIndent(display(a.Value))
	case codeblock.StrArg:
		if a.Null {
			return w.emitAndIndent("null")
		}
		return w.emitAndIndent(a.Value)
	case codeblock.NameArg:
		name, err := w.name(a)
		if err != nil {
			return err
		}
		return w.emitAndIndent(name)
	case codeblock.TypeArg:
		return w.emitAndIndent(w.typeName(a.Type))
	case codeblock.MemberArg:
		return w.emitAndIndent(w.memberName(a.Member))
	default:
		return fmt.Errorf("emit: %%L bound to %T", arg)
	}
}

func display(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}

func (w *Writer) name(arg codeblock.Arg) (string, error) {
	switch a := arg.(type) {
	case codeblock.NameArg:
		if a.Lookup == nil {
			return names.Escape(a.Name), nil
		}
		name, err := a.Lookup.Get(a.Tag)
		if err != nil {
			return "", fmt.Errorf("emit: resolve name: %w", err)
		}
		return names.Escape(name), nil
	case codeblock.MemberArg:
		return names.Escape(a.Member.SimpleName()), nil
	case codeblock.LitArg:
		if s, ok := a.Value.(string); ok {
			return names.Escape(s), nil
		}
	}
	return "", fmt.Errorf("emit: %%N bound to %T", arg)
}

func (w *Writer) quoted(arg codeblock.Arg, escapeDollar bool) (string, error) {
	switch a := arg.(type) {
	case codeblock.StrArg:
		if a.Null {
			return "null", nil
		}
		return stringLiteral(a.Value, w.opt.Indent, escapeDollar), nil
	case codeblock.LitArg:
		if a.Value == nil {
			return "null", nil
		}
		return stringLiteral(display(a.Value), w.opt.Indent, escapeDollar), nil
	default:
		return "", fmt.Errorf("emit: string directive bound to %T", arg)
	}
}

// emitAndIndent forwards s line by line, writing indentation at the start
// of each line and advancing statement continuation on every line break.
func (w *Writer) emitAndIndent(s string) error {
	first := true
	for line := range strings.SplitSeq(s, "\n") {
		if !first {
			if w.comment && w.atLineStart {
				w.emitIndentation()
				w.out.AppendNonWrapping("//")
			}
			w.out.NewLine()
			w.atLineStart = true
			if w.statementLine != -1 {
				if w.statementLine == 0 {
					w.Indent(1)
				}
				w.statementLine++
			}
		}
		first = false
		if line == "" {
			continue
		}
		if w.atLineStart {
			w.emitIndentation()
			if w.comment {
				w.out.AppendNonWrapping("// ")
			}
		}
		w.out.Append(line, w.wrapLevel(), w.linePrefix())
		w.atLineStart = false
	}
	return w.out.Err()
}

// Wrapper errors are sticky, so the helpers above ignore them and
// emitAndIndent reports the first one.
func (w *Writer) emitIndentation() {
	for range w.indentLevel {
		w.out.AppendNonWrapping(w.opt.Indent)
	}
}

// wrapLevel is the indent for soft-wrapped continuation lines: one level
// deeper than the statement's first line.
func (w *Writer) wrapLevel() int {
	switch {
	case w.comment:
		return w.indentLevel
	case w.statementLine > 0:
		return w.indentLevel
	default:
		return w.indentLevel + 1
	}
}

func (w *Writer) linePrefix() string {
	if w.comment {
		return "// "
	}
	return ""
}

func (w *Writer) typeName(t names.TypeName) string {
	switch t := t.(type) {
	case names.ClassName:
		s := w.className(t)
		if t.IsNullable() {
			s += "?"
		}
		return s
	case names.ParameterizedTypeName:
		var b strings.Builder
		b.WriteString(w.className(t.Raw))
		b.WriteByte('<')
		for i, arg := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(w.typeName(arg))
		}
		b.WriteByte('>')
		if t.IsNullable() {
			b.WriteByte('?')
		}
		return b.String()
	default:
		return t.String()
	}
}

// className renders c relative to its outermost class, which is the unit
// that gets imported.
func (w *Writer) className(c names.ClassName) string {
	top := c.TopLevel()
	head, ok := w.resolve(c.Package(), top.CanonicalName(), top.SimpleName())
	if !ok {
		return names.Escape(c.CanonicalName())
	}
	simple := c.SimpleNames()
	return names.Escape(strings.Join(append([]string{head}, simple[1:]...), "."))
}

func (w *Writer) memberName(m names.MemberName) string {
	if enclosing, ok := m.Enclosing(); ok {
		return w.className(enclosing) + "." + names.Escape(m.SimpleName())
	}
	head, ok := w.resolve(m.Package(), m.CanonicalName(), m.SimpleName())
	if !ok {
		return names.Escape(m.CanonicalName())
	}
	return names.Escape(head)
}

// resolve returns the in-file name of a top-level identity, or false when it
// must be written fully qualified. During discovery it records the reference.
func (w *Writer) resolve(pkg, qualified, simple string) (string, bool) {
	if w.found != nil {
		switch pkg {
		case w.opt.Package:
			w.found.recordLocal(simple)
		case "":
		default:
			w.found.record(qualified, simple)
		}
	}
	if display, ok := w.imports.display[qualified]; ok {
		return display, true
	}
	if (pkg == w.opt.Package || pkg == "") && !w.imports.shadowed(simple, qualified) {
		return simple, true
	}
	return "", false
}
