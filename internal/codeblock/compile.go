package codeblock

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"poet/internal/diag"
)

// Options tunes compilation.
type Options struct {
	// Strict rejects format strings that leave a bound argument unused.
	Strict bool
}

// Compile parses format and binds args. Arguments are coerced with Args.
func Compile(format string, args ...any) (Block, error) {
	return CompileWith(Options{}, format, args...)
}

// MustCompile is Compile for static formats; it panics on error.
func MustCompile(format string, args ...any) Block {
	b, err := Compile(format, args...)
	if err != nil {
		panic(err)
	}
	return b
}

// CompileWith is Compile with explicit options.
func CompileWith(opts Options, format string, args ...any) (Block, error) {
	c := compiler{opts: opts, format: format, args: Args(args...)}
	return c.run()
}

// CompileNamed parses a format whose directives name their arguments,
// "%food:L", and binds them from args. Names start with a lower-case letter
// and continue with letters, digits or '_'.
func CompileNamed(opts Options, format string, args map[string]any) (Block, error) {
	keys := make([]string, 0, len(args))
	for k := range args {
		if !isArgName(k) {
			return Block{}, newFormatError(diag.FmtBadNamedArgument, format, 0, "argument name %q must match [a-z][A-Za-z0-9_]*", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	byName := make(map[string]int, len(keys))
	values := make([]any, len(keys))
	for i, k := range keys {
		byName[k] = i
		values[i] = args[k]
	}
	c := compiler{opts: opts, format: format, args: Args(values...), named: byName}
	return c.run()
}

type indexMode uint8

const (
	modeUnset indexMode = iota
	modeRelative
	modePositional
	modeNamed
)

type compiler struct {
	opts   Options
	format string
	args   []Arg
	named  map[string]int

	parts  []Part
	mode   indexMode
	cursor int
	used   []bool
}

func (c *compiler) run() (Block, error) {
	c.used = make([]bool, len(c.args))
	f := c.format
	pos := 0
	for pos < len(f) {
		if f[pos] == '%' {
			next, err := c.directive(pos)
			if err != nil {
				return Block{}, err
			}
			pos = next
			continue
		}
		if kind, size, ok := markerAt(f, pos); ok {
			c.parts = append(c.parts, Part{Kind: kind, Arg: -1})
			pos += size
			continue
		}
		end := nextSpecial(f, pos)
		c.parts = append(c.parts, Part{Kind: KindLiteral, Text: f[pos:end], Arg: -1})
		pos = end
	}
	if err := c.checkUnused(); err != nil {
		return Block{}, err
	}
	return Block{parts: c.parts, args: c.args}, nil
}

// directive parses the directive starting at the '%' at start and returns the
// offset just past it.
func (c *compiler) directive(start int) (int, error) {
	f := c.format
	if c.named != nil {
		return c.namedDirective(start)
	}
	j := start + 1
	for j < len(f) && f[j] >= '0' && f[j] <= '9' {
		j++
	}
	digits := f[start+1 : j]
	if j >= len(f) {
		return 0, newFormatError(diag.FmtDanglingPercent, f, start, "format ends inside a directive")
	}
	letter, size := utf8.DecodeRuneInString(f[j:])
	end := j + size

	if letter == '%' {
		if digits != "" {
			return 0, newFormatError(diag.FmtPercentEscapeHasIndex, f, start, "%%%% may not have an index")
		}
		c.parts = append(c.parts, Part{Kind: KindPercent, Arg: -1})
		return end, nil
	}
	kind, ok := lookupLetter(letter)
	if !ok {
		return 0, newFormatError(diag.FmtUnknownDirective, f, start, "invalid format string: %q", f[start:end])
	}

	var idx int
	if digits != "" {
		if c.mode == modeRelative {
			return 0, newFormatError(diag.FmtMixedIndexing, f, start, "cannot mix indexed and relative arguments")
		}
		c.mode = modePositional
		n, err := parseIndex(digits)
		if err != nil || n < 1 || n > len(c.args) {
			return 0, newFormatError(diag.FmtIndexOutOfRange, f, start, "index %s for %q not in range (received %d arguments)", digits, f[start:end], len(c.args))
		}
		idx = n - 1
	} else {
		if c.mode == modePositional {
			return 0, newFormatError(diag.FmtMixedIndexing, f, start, "cannot mix indexed and relative arguments")
		}
		c.mode = modeRelative
		if c.cursor >= len(c.args) {
			return 0, newFormatError(diag.FmtMissingArgument, f, start, "index %d for %q not in range (received %d arguments)", c.cursor+1, f[start:end], len(c.args))
		}
		idx = c.cursor
		c.cursor++
	}
	if err := c.bind(kind, idx, start); err != nil {
		return 0, err
	}
	return end, nil
}

func (c *compiler) namedDirective(start int) (int, error) {
	f := c.format
	if start+1 < len(f) && f[start+1] == '%' {
		c.parts = append(c.parts, Part{Kind: KindPercent, Arg: -1})
		return start + 2, nil
	}
	if start+1 >= len(f) {
		return 0, newFormatError(diag.FmtDanglingPercent, f, start, "format ends inside a directive")
	}
	_, unnamed := directiveLetters[f[start+1]]
	if ch := f[start+1]; unnamed || ch >= '0' && ch <= '9' {
		return 0, newFormatError(diag.FmtMixedIndexing, f, start, "cannot mix named and unnamed arguments")
	}
	colon := strings.IndexByte(f[start+1:], ':')
	if colon < 0 {
		return 0, newFormatError(diag.FmtBadNamedArgument, f, start, "named directive is missing ':'")
	}
	name := f[start+1 : start+1+colon]
	if !isArgName(name) {
		return 0, newFormatError(diag.FmtBadNamedArgument, f, start, "invalid argument name %q", name)
	}
	j := start + 1 + colon + 1
	if j >= len(f) {
		return 0, newFormatError(diag.FmtDanglingPercent, f, start, "format ends inside a directive")
	}
	letter, size := utf8.DecodeRuneInString(f[j:])
	kind, ok := lookupLetter(letter)
	if !ok {
		return 0, newFormatError(diag.FmtUnknownDirective, f, start, "invalid format string: %q", f[start:j+size])
	}
	idx, ok := c.named[name]
	if !ok {
		return 0, newFormatError(diag.FmtBadNamedArgument, f, start, "missing named argument for %%%s", name)
	}
	c.mode = modeNamed
	if err := c.bind(kind, idx, start); err != nil {
		return 0, err
	}
	return j + size, nil
}

func (c *compiler) bind(kind Kind, idx, offset int) error {
	arg := c.args[idx]
	if !accepts(kind, arg) {
		return newFormatError(diag.FmtArgumentMismatch, c.format, offset, "%s argument cannot be used with %s", describeArg(arg), kind)
	}
	c.used[idx] = true
	c.parts = append(c.parts, Part{Kind: kind, Arg: idx})
	return nil
}

func (c *compiler) checkUnused() error {
	if !c.opts.Strict {
		return nil
	}
	var unused []string
	for i, u := range c.used {
		if !u {
			unused = append(unused, strconv.Itoa(i+1))
		}
	}
	if len(unused) == 0 {
		return nil
	}
	return newFormatError(diag.FmtUnusedArgument, c.format, len(c.format), "unused arguments: %s", strings.Join(unused, ", "))
}

func lookupLetter(r rune) (Kind, bool) {
	if r >= utf8.RuneSelf {
		return 0, false
	}
	kind, ok := directiveLetters[byte(r)]
	return kind, ok
}

func parseIndex(digits string) (int, error) {
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](n)
}

func markerAt(f string, pos int) (Kind, int, bool) {
	r, size := utf8.DecodeRuneInString(f[pos:])
	if kind, ok := markerKinds[string(r)]; ok {
		return kind, size, true
	}
	return 0, 0, false
}

// nextSpecial returns the offset of the next '%' or marker at or after pos+1,
// or len(f).
func nextSpecial(f string, pos int) int {
	for i, r := range f[pos:] {
		if i == 0 {
			continue
		}
		if r == '%' {
			return pos + i
		}
		if _, ok := markerKinds[string(r)]; ok {
			return pos + i
		}
	}
	return len(f)
}

func isArgName(s string) bool {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if !(ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9') {
			return false
		}
	}
	return true
}
