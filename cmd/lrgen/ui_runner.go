package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lrgen/internal/codegen"
	"lrgen/internal/ui"
)

type runOutcome struct {
	results []*fileResult
	err     error
}

// runWithUI runs req in the background and renders its progress until done.
func runWithUI(ctx context.Context, title string, req *runRequest) ([]*fileResult, error) {
	events := make(chan codegen.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.progress = codegen.ChannelSink{Ch: events}
		results, err := runFiles(ctx, &reqCopy)
		outcomeCh <- runOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, req.files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// генерация не должна блокироваться на полном канале, если UI вышел раньше
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
