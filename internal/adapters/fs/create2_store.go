package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// Create2Store stores mined CREATE2 records under create2-osp/
type Create2Store struct {
	rootDir string
}

// NewCreate2Store creates a new CREATE2 record store
func NewCreate2Store(cfg *config.RuntimeConfig) *Create2Store {
	return &Create2Store{rootDir: cfg.ProjectRoot}
}

// Load reads the records of env. A missing file yields an empty cache.
func (s *Create2Store) Load(ctx context.Context, env string) (*domain.Create2Cache, error) {
	cache := domain.NewCreate2Cache(env)
	err := readJSON(filepath.Join(s.rootDir, cache.FileName()), &cache.Records)
	if errors.Is(err, os.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, err
	}
	if cache.Records == nil {
		cache.Records = make(map[string]*domain.Create2Record)
	}
	return cache, nil
}

// Save writes the records of the cache's env
func (s *Create2Store) Save(ctx context.Context, cache *domain.Create2Cache) error {
	return writeJSON(filepath.Join(s.rootDir, cache.FileName()), cache.Records, bookIndent)
}

var _ usecase.Create2Repository = (*Create2Store)(nil)
