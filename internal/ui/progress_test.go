package ui

import (
	"math"
	"strings"
	"testing"

	"poet/internal/pipeline"
)

func TestApplyEvent(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("render", []string{"a/A.kt", "B.kt"}, events).(*progressModel)

	m.applyEvent(pipeline.Event{File: "a/A.kt", Stage: pipeline.StageRender, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{File: "B.kt", Status: pipeline.StatusCached})
	m.applyEvent(pipeline.Event{File: "unknown.kt", Status: pipeline.StatusDone})

	if m.items[0].status != "rendering" || m.items[1].status != "cached" {
		t.Errorf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	if got := m.finished(); got != 1 {
		t.Errorf("finished = %d", got)
	}
	if got := m.percent(); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("percent = %v", got)
	}
	view := m.View()
	if !strings.Contains(view, "render (1/2)") || !strings.Contains(view, "B.kt") {
		t.Errorf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short.kt", 20, "short.kt"},
		{"com/example/VeryLongName.kt", 10, "com/exa..."},
		{"abcdef", 2, "ab"},
		{"日本語ファイル.kt", 9, "日本語..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
