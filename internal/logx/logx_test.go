package logx

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, false))
	FromContext(ctx).Debug("hidden")
	FromContext(ctx).Info("rendered", "files", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level:\n%s", out)
	}
	if !strings.Contains(out, "rendered") || !strings.Contains(out, "files=3") {
		t.Errorf("missing info record:\n%s", out)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("cache hit", "file", "A.kt")
	if !strings.Contains(buf.String(), "cache hit") {
		t.Errorf("debug record missing:\n%s", buf.String())
	}
}

func TestDefaultLoggerDiscards(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("nil logger")
	}
	l.Error("nobody sees this")
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	NewProgress(New(&buf, false)).Done("Rendered 2 files")
	if !strings.Contains(buf.String(), "Rendered 2 files (") {
		t.Errorf("progress record:\n%s", buf.String())
	}
}
