package linewrap

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func render(t *testing.T, limit int, fn func(w *Wrapper)) string {
	t.Helper()
	var b strings.Builder
	w := New(&b, "  ", limit)
	fn(w)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return b.String()
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		fn   func(w *Wrapper)
		want string
	}{
		{
			name: "wrap",
			fn:   func(w *Wrapper) { _ = w.Append("abcde fghij", 2, "") },
			want: "abcde\n    fghij",
		},
		{
			name: "fits exactly",
			fn:   func(w *Wrapper) { _ = w.Append("abcde fghi", 2, "") },
			want: "abcde fghi",
		},
		{
			name: "fencepost",
			fn: func(w *Wrapper) {
				_ = w.Append("abcde", 2, "")
				_ = w.Append("fghij k", 2, "")
				_ = w.Append("lmnop", 2, "")
			},
			want: "abcdefghij\n    klmnop",
		},
		{
			name: "unsafe breaks fold into the previous run",
			fn:   func(w *Wrapper) { _ = w.Append("a - b       - c", 2, "") },
			want: "a -\n    b       -\n    c",
		},
		{
			name: "arrow is not a unary operator",
			fn:   func(w *Wrapper) { _ = w.Append("abcdefgh ->", 1, "") },
			want: "abcdefgh\n  ->",
		},
		{
			name: "oversized segment is emitted whole",
			fn:   func(w *Wrapper) { _ = w.Append("abcdefghijklmno pq", 1, "") },
			want: "abcdefghijklmno\n  pq",
		},
		{
			name: "non-breaking space",
			fn:   func(w *Wrapper) { _ = w.Append("abcde·fghij", 2, "") },
			want: "abcde fghij",
		},
		{
			name: "line prefix",
			fn:   func(w *Wrapper) { _ = w.Append("abcde fghij", 2, "// ") },
			want: "abcde\n    // fghij",
		},
		{
			name: "hard newline resets",
			fn:   func(w *Wrapper) { _ = w.Append("abc\ndef ghi\njk", 1, "") },
			want: "abc\ndef ghi\njk",
		},
		{
			name: "non-wrapping append",
			fn: func(w *Wrapper) {
				_ = w.AppendNonWrapping("    ")
				_ = w.Append("abcde fg", 1, "")
			},
			want: "    abcde\n  fg",
		},
		{
			name: "multiple wraps",
			fn:   func(w *Wrapper) { _ = w.Append("aaaa bbbb cccc dddd eeee", 1, "") },
			want: "aaaa bbbb\n  cccc\n  dddd\n  eeee",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, 10, tt.fn)
			if got != tt.want {
				t.Fatalf("wrap mismatch:\nwant %q\ngot  %q", tt.want, got)
			}
		})
	}
}

func TestNoLineStartsWithUnaryOperator(t *testing.T) {
	got := render(t, 10, func(w *Wrapper) {
		_ = w.Append("x = aaaa + bbbb - cccc + -dddd", 1, "")
	})
	for i, line := range strings.Split(got, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if i > 0 && (strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "+")) {
			t.Fatalf("line %d starts with an operator: %q\nfull output:\n%s", i, line, got)
		}
	}
}

func TestNeverSplitsSegments(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const letters = "abcdefghijklmnopqrstuvwxyz"
	for iter := 0; iter < 200; iter++ {
		limit := 1 + rng.Intn(30)
		words := make([]string, 1+rng.Intn(20))
		for i := range words {
			n := 1 + rng.Intn(40)
			var sb strings.Builder
			for range n {
				sb.WriteByte(letters[rng.Intn(len(letters))])
			}
			words[i] = sb.String()
		}
		var b strings.Builder
		w := New(&b, "  ", limit)
		// Feed the text in arbitrary chunks, split only at word boundaries.
		for i, word := range words {
			if i > 0 {
				_ = w.Append(" ", 1, "")
			}
			_ = w.Append(word, 1, "")
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(words, strings.Fields(b.String())); diff != "" {
			t.Fatalf("limit %d: tokens changed (-want +got):\n%s", limit, diff)
		}
		for _, line := range strings.Split(b.String(), "\n") {
			if len(line) > limit && strings.Contains(strings.TrimLeft(line, " "), " ") {
				t.Fatalf("limit %d: over-long line holds more than one segment: %q", limit, line)
			}
		}
	}
}

func TestHasPendingSegments(t *testing.T) {
	var b strings.Builder
	w := New(&b, "", 0)
	if w.HasPendingSegments() {
		t.Fatalf("fresh wrapper has pending segments")
	}
	_ = w.Append("a b", 0, "")
	if !w.HasPendingSegments() {
		t.Fatalf("expected pending segments")
	}
	_ = w.NewLine()
	if w.HasPendingSegments() {
		t.Fatalf("segments not reset after flush")
	}
	if w.Indent() != DefaultIndent || w.ColumnLimit() != DefaultColumnLimit {
		t.Fatalf("defaults not applied: %q %d", w.Indent(), w.ColumnLimit())
	}
}

func TestAppendAfterClosePanics(t *testing.T) {
	var b strings.Builder
	w := New(&b, "  ", 10)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		r := recover()
		f, ok := r.(Fault)
		if !ok || f.Kind != FaultAppendAfterClose {
			t.Fatalf("expected append-after-close fault, got %v", r)
		}
	}()
	_ = w.Append("x", 0, "")
}

type failingWriter struct{ calls int }

var errDiskFull = errors.New("disk full")

func (f *failingWriter) Write(p []byte) (int, error) {
	f.calls++
	return 0, errDiskFull
}

func TestWriteErrorIsSticky(t *testing.T) {
	fw := &failingWriter{}
	w := New(fw, "  ", 10)
	if err := w.Append("abc\n", 0, ""); !errors.Is(err, errDiskFull) {
		t.Fatalf("want errDiskFull, got %v", err)
	}
	_ = w.Append("def\n", 0, "")
	if err := w.Close(); !errors.Is(err, errDiskFull) {
		t.Fatalf("close: want errDiskFull, got %v", err)
	}
	if fw.calls != 1 {
		t.Fatalf("writer called %d times after failure", fw.calls)
	}
}
