package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"poet/internal/driver"
	"poet/internal/filespec"
	"poet/internal/pipeline"
	"poet/internal/ui"
)

type renderOutcome struct {
	results []driver.Result
	err     error
}

// renderWithUI runs driver.RenderAll while a Bubble Tea view follows its
// progress events.
func renderWithUI(ctx context.Context, title string, files []filespec.File, opts driver.Options) ([]driver.Result, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path()
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan renderOutcome, 1)

	go func() {
		opts.Progress = pipeline.ChannelSink{Ch: events}
		results, err := driver.RenderAll(ctx, files, opts)
		outcomeCh <- renderOutcome{results: results, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, paths, events), tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// Keep workers from blocking if the view stopped early.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
