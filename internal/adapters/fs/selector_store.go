package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// SelectorDir is the selector output directory relative to the project root
const SelectorDir = "target/fun-sig"

// SelectorStore stores selector maps as target/fun-sig/<source dir>/<Contract>.json
type SelectorStore struct {
	baseDir string
}

// NewSelectorStore creates a new selector store
func NewSelectorStore(cfg *config.RuntimeConfig) *SelectorStore {
	return &SelectorStore{baseDir: filepath.Join(cfg.ProjectRoot, SelectorDir)}
}

// Clean removes every stored selector map
func (s *SelectorStore) Clean(ctx context.Context) error {
	return os.RemoveAll(s.baseDir)
}

// Save writes the selector map of contract
func (s *SelectorStore) Save(ctx context.Context, dir, contract string, selectors domain.SelectorMap) error {
	return writeJSON(s.path(dir, contract), selectors, artifactIndent)
}

// Load reads the selector map of contract
func (s *SelectorStore) Load(ctx context.Context, dir, contract string) (domain.SelectorMap, error) {
	var selectors domain.SelectorMap
	if err := readJSON(s.path(dir, contract), &selectors); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("selectors of %s: %w", contract, domain.ErrNotFound)
		}
		return nil, err
	}
	return selectors, nil
}

// List returns the selector files in dir
func (s *SelectorStore) List(ctx context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, filepath.FromSlash(dir)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *SelectorStore) path(dir, contract string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(dir), contract+".json")
}

var _ usecase.SelectorStore = (*SelectorStore)(nil)
