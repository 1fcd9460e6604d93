package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// RouterSetupMarker delimits the generated block in the test setup source
const RouterSetupMarker = "//addRouter"

// RouterSetupWriter splices generated addRouter statements between the two
// markers of a Solidity source file
type RouterSetupWriter struct {
	rootDir string
	log     *slog.Logger
}

// NewRouterSetupWriter creates a new router setup writer
func NewRouterSetupWriter(cfg *config.RuntimeConfig, log *slog.Logger) *RouterSetupWriter {
	return &RouterSetupWriter{
		rootDir: cfg.ProjectRoot,
		log:     log.With("component", "RouterSetupWriter"),
	}
}

// WriteRouterSetup replaces the block between the markers of path with lines.
// A missing file is skipped. A file without both markers is an error.
func (w *RouterSetupWriter) WriteRouterSetup(ctx context.Context, path string, lines []string) error {
	full := filepath.Join(w.rootDir, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if errors.Is(err, os.ErrNotExist) {
		w.log.Warn("router setup file not found, skipping", "path", path)
		return nil
	}
	if err != nil {
		return err
	}

	spliced, err := spliceRouterSetup(string(data), lines)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return writeFile(full, []byte(spliced))
}

// spliceRouterSetup rewrites the block between the first two markers,
// indenting the lines like the opening marker
func spliceRouterSetup(src string, lines []string) (string, error) {
	parts := strings.SplitN(src, RouterSetupMarker, 3)
	if len(parts) < 3 {
		return "", fmt.Errorf("expected two %s markers", RouterSetupMarker)
	}

	head := parts[0]
	indent := head[strings.LastIndex(head, "\n")+1:]
	if strings.TrimSpace(indent) != "" {
		indent = ""
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString(RouterSetupMarker)
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(indent)
	b.WriteString(RouterSetupMarker)
	b.WriteString(parts[2])
	return b.String(), nil
}

var _ usecase.RouterSetupWriter = (*RouterSetupWriter)(nil)
