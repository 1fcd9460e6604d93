package forge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// ForgeAdapter runs forge in the project root
type ForgeAdapter struct {
	log         *slog.Logger
	projectRoot string
	debug       bool
	stdout      io.Writer
}

// NewForgeAdapter creates a new forge adapter
func NewForgeAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeAdapter {
	return &ForgeAdapter{
		log:         log.With("component", "ForgeAdapter"),
		projectRoot: cfg.ProjectRoot,
		debug:       cfg.Debug,
		stdout:      os.Stdout,
	}
}

// Build runs forge build. In debug mode the compiler output is streamed
// through a pty so forge keeps its colors.
func (f *ForgeAdapter) Build(ctx context.Context) error {
	start := time.Now()
	f.log.Debug("running forge build", "dir", f.projectRoot)

	cmd := exec.CommandContext(ctx, "forge", "build")
	cmd.Dir = f.projectRoot

	if f.debug {
		return f.stream(cmd, start)
	}

	output, err := cmd.CombinedOutput()
	duration := time.Since(start)
	if err != nil {
		f.log.Error("forge build failed", "error", err, "output", string(output), "duration", duration)
		return fmt.Errorf("forge build failed: %w\nOutput: %s", err, string(output))
	}

	f.log.Debug("forge build completed successfully", "duration", duration)
	return nil
}

func (f *ForgeAdapter) stream(cmd *exec.Cmd, start time.Time) error {
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	// reading a pty after the child exits returns EIO
	_, _ = io.Copy(f.stdout, ptyFile)

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("forge build failed: %w", err)
	}
	f.log.Debug("forge build completed successfully", "duration", time.Since(start))
	return nil
}

var _ usecase.ContractBuilder = (*ForgeAdapter)(nil)
