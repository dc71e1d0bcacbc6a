package linewrap

import (
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	// DefaultIndent is the indent unit used when none is configured.
	DefaultIndent = "    "
	// DefaultColumnLimit is the column limit used when none is configured.
	DefaultColumnLimit = 100
	// NonBreakingSpace renders as ' ' but is never a wrap point.
	NonBreakingSpace = '·'
)

const specialChars = " \n·"

// unsafeLineStart matches segments that must not open a wrapped line: a leading
// unary '+' or '-' that is not the start of an arrow.
var unsafeLineStart = regexp.MustCompile(`^\s*[-+][^>]*$`)

// Wrapper performs soft line wrapping on an io.Writer. It is not safe for
// concurrent use; each output file gets its own Wrapper.
type Wrapper struct {
	out         io.Writer
	indent      string
	columnLimit int

	// segments is never empty; the last element is the one being extended.
	segments []string
	// indentLevel and linePrefix apply to wrapped runs of the pending line.
	// -1 means no wrap point has been seen since the last flush.
	indentLevel int
	linePrefix  string

	closed bool
	err    error
}

// New returns a Wrapper writing to out. An empty indent selects DefaultIndent
// and a non-positive columnLimit selects DefaultColumnLimit.
func New(out io.Writer, indent string, columnLimit int) *Wrapper {
	if indent == "" {
		indent = DefaultIndent
	}
	if columnLimit <= 0 {
		columnLimit = DefaultColumnLimit
	}
	return &Wrapper{
		out:         out,
		indent:      indent,
		columnLimit: columnLimit,
		segments:    []string{""},
		indentLevel: -1,
	}
}

// Indent returns the indent unit.
func (w *Wrapper) Indent() string { return w.indent }

// ColumnLimit returns the configured column limit.
func (w *Wrapper) ColumnLimit() int { return w.columnLimit }

// HasPendingSegments reports whether text is buffered for the current line.
func (w *Wrapper) HasPendingSegments() bool {
	return len(w.segments) != 1 || w.segments[0] != ""
}

// Append adds s to the current line. Spaces in s become wrap points that, if
// taken, continue at indentLevel with linePrefix.
func (w *Wrapper) Append(s string, indentLevel int, linePrefix string) error {
	w.checkOpen()
	pos := 0
	for pos < len(s) {
		switch {
		case s[pos] == ' ':
			w.indentLevel = indentLevel
			w.linePrefix = linePrefix
			w.segments = append(w.segments, "")
			pos++
		case s[pos] == '\n':
			w.newLine()
			pos++
		case strings.HasPrefix(s[pos:], string(NonBreakingSpace)):
			w.extend(" ")
			pos += len(string(NonBreakingSpace))
		default:
			next := strings.IndexAny(s[pos:], specialChars)
			if next < 0 {
				next = len(s)
			} else {
				next += pos
			}
			w.extend(s[pos:next])
			pos = next
		}
	}
	return w.err
}

// AppendNonWrapping adds s without creating wrap points. Newlines still break.
func (w *Wrapper) AppendNonWrapping(s string) error {
	w.checkOpen()
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			w.newLine()
		}
		w.extend(strings.ReplaceAll(line, string(NonBreakingSpace), " "))
	}
	return w.err
}

// NewLine flushes the current line and writes a line break.
func (w *Wrapper) NewLine() error {
	w.checkOpen()
	w.newLine()
	return w.err
}

// Close flushes pending segments. The Wrapper accepts no input afterwards.
func (w *Wrapper) Close() error {
	if w.closed {
		return w.err
	}
	w.emitCurrentLine()
	w.closed = true
	return w.err
}

// Err returns the first write error, if any.
func (w *Wrapper) Err() error { return w.err }

func (w *Wrapper) checkOpen() {
	if w.closed {
		Raise(FaultAppendAfterClose, "")
	}
}

func (w *Wrapper) extend(s string) {
	last := len(w.segments) - 1
	w.segments[last] += s
}

func (w *Wrapper) newLine() {
	w.emitCurrentLine()
	w.write("\n")
	w.indentLevel = -1
}

func (w *Wrapper) emitCurrentLine() {
	w.foldUnsafeBreaks()

	start := 0
	columnCount := runewidth.StringWidth(w.segments[0])
	for i := 1; i < len(w.segments); i++ {
		width := runewidth.StringWidth(w.segments[i])
		newColumnCount := columnCount + 1 + width
		if newColumnCount > w.columnLimit {
			w.emitSegmentRange(start, i)
			start = i
			columnCount = width + runewidth.StringWidth(w.indent)*max(w.indentLevel, 0)
			continue
		}
		columnCount = newColumnCount
	}
	w.emitSegmentRange(start, len(w.segments))

	w.segments = w.segments[:1]
	w.segments[0] = ""
}

func (w *Wrapper) emitSegmentRange(start, end int) {
	var b strings.Builder
	if start > 0 {
		b.WriteByte('\n')
		for range w.indentLevel {
			b.WriteString(w.indent)
		}
		b.WriteString(w.linePrefix)
	}
	b.WriteString(w.segments[start])
	for i := start + 1; i < end; i++ {
		b.WriteByte(' ')
		b.WriteString(w.segments[i])
	}
	w.write(b.String())
}

// foldUnsafeBreaks merges every unsafe segment into its predecessor. After a
// merge the predecessor is re-checked, since it may have become unsafe itself.
func (w *Wrapper) foldUnsafeBreaks() {
	i := 1
	for i < len(w.segments) {
		if unsafeLineStart.MatchString(w.segments[i]) {
			w.segments[i-1] = w.segments[i-1] + " " + w.segments[i]
			w.segments = append(w.segments[:i], w.segments[i+1:]...)
			if i > 1 {
				i--
			}
			continue
		}
		i++
	}
}

func (w *Wrapper) write(s string) {
	if w.err != nil || s == "" {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}
