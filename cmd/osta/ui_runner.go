package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"osta/internal/driver"
	"osta/internal/source"
	"osta/internal/ui"
)

// progressUI is the --ui flag value. It implements pflag.Value, so a bad
// value fails during flag parsing.
type progressUI string

const (
	progressAuto progressUI = "auto"
	progressOn   progressUI = "on"
	progressOff  progressUI = "off"
)

func (m *progressUI) Set(value string) error {
	switch v := progressUI(strings.ToLower(strings.TrimSpace(value))); v {
	case progressAuto, progressOn, progressOff:
		*m = v
		return nil
	case "":
		*m = progressAuto
		return nil
	}
	return fmt.Errorf("expected auto|on|off, got %q", value)
}

func (m *progressUI) String() string { return string(*m) }

func (m *progressUI) Type() string { return "mode" }

// enabled resolves auto: the view runs only when both stdout and stderr are
// terminals, so piped token output never mixes with it.
func (m progressUI) enabled() bool {
	switch m {
	case progressOn:
		return true
	case progressOff:
		return false
	}
	return isTerminal(os.Stdout) && isTerminal(os.Stderr)
}

type dirOutcome struct {
	fs      *source.FileSet
	results []driver.TokenizeDirResult
	err     error
}

// runTokenizeDirWithUI runs TokenizeDir in the background and renders its
// progress events until the run finishes.
func runTokenizeDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*source.FileSet, []driver.TokenizeDirResult, error) {
	files, err := driver.ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan dirOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		runOpts := opts
		runOpts.Progress = func(ev driver.ProgressEvent) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		fs, results, err := driver.TokenizeDir(ctx, dir, runOpts)
		outcomeCh <- dirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// UI завершается сам только после close(events); иначе это Ctrl-C или сбой
	cancel()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
