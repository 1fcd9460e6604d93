package interactive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/manifoldco/promptui"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// ConfirmerAdapter asks yes/no questions on the terminal
type ConfirmerAdapter struct {
	config *config.RuntimeConfig
	log    *slog.Logger
	// run is swapped in tests
	run func(prompt string) (bool, error)
}

// NewConfirmerAdapter creates a new confirmer
func NewConfirmerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ConfirmerAdapter {
	return &ConfirmerAdapter{
		config: cfg,
		log:    log.With("component", "Confirmer"),
		run:    promptConfirm,
	}
}

// Confirm returns true without asking in non-interactive mode
func (c *ConfirmerAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.config.NonInteractive {
		c.log.Info("auto-confirmed in non-interactive mode", "prompt", prompt)
		return true, nil
	}
	return c.run(prompt)
}

func promptConfirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		// promptui reports "n" as ErrAbort
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return true, nil
}

var _ usecase.Confirmer = (*ConfirmerAdapter)(nil)
