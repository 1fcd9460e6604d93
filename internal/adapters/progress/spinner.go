package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// SpinnerProgressReporter shows the running deployment stage on a spinner
// and prints a line for every finished stage. Without a terminal it only
// prints the lines.
type SpinnerProgressReporter struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	out     io.Writer
	animate bool

	stage      string
	stageStart time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter(cfg *config.RuntimeConfig) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		spinner: s,
		out:     os.Stderr,
		animate: !cfg.NonInteractive,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage != r.stage {
		r.completeStage()
		r.stage = event.Stage
		r.stageStart = time.Now()
	}

	if event.Stage == usecase.StageCompleted {
		r.stopSpinner()
		r.stage = ""
		return
	}

	msg := formatEvent(event)
	if event.Spinner && r.animate {
		r.spinner.Suffix = " " + msg
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}

	r.stopSpinner()
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgYellow).Sprint("●"), msg)
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fmt.Fprintln(r.out, c.Sprint(message))
	if wasActive {
		r.spinner.Start()
	}
}

// completeStage prints the finished stage with its duration. Caller holds the lock.
func (r *SpinnerProgressReporter) completeStage() {
	if r.stage == "" {
		return
	}
	r.stopSpinner()
	duration := time.Since(r.stageStart).Round(time.Millisecond)
	fmt.Fprintf(r.out, "%s %s (%s)\n", color.New(color.FgGreen).Sprint("✓"), r.stage, duration)
}

func (r *SpinnerProgressReporter) stopSpinner() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// formatEvent renders "Stage: message [current/total]"
func formatEvent(event usecase.ProgressEvent) string {
	msg := event.Stage
	if event.Message != "" {
		msg += ": " + event.Message
	}
	if event.Total > 0 {
		msg += fmt.Sprintf(" [%d/%d]", event.Current, event.Total)
	}
	return msg
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
