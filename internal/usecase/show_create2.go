package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// Create2Entry is one cached CREATE2 record
type Create2Entry struct {
	Name         string
	Address      common.Address
	Salt         domain.Salt
	InitCodeSize int
	// Valid reports whether the address matches the derivation from the factory
	Valid bool
}

// ShowCreate2Result contains the cached CREATE2 records of an env
type ShowCreate2Result struct {
	Env     string
	Factory common.Address
	File    string
	Entries []Create2Entry
}

// ShowCreate2 lists the mined CREATE2 records
type ShowCreate2 struct {
	config *config.RuntimeConfig
	repo   Create2Repository
}

// NewShowCreate2 creates a new ShowCreate2 use case
func NewShowCreate2(cfg *config.RuntimeConfig, repo Create2Repository) *ShowCreate2 {
	return &ShowCreate2{config: cfg, repo: repo}
}

// Run executes the use case
func (uc *ShowCreate2) Run(ctx context.Context) (*ShowCreate2Result, error) {
	cache, err := uc.repo.Load(ctx, uc.config.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load create2 records: %w", err)
	}

	factory := uc.config.Protocol.FactoryAddress()
	result := &ShowCreate2Result{Env: uc.config.Env, Factory: factory, File: cache.FileName()}
	for name, rec := range cache.Records {
		result.Entries = append(result.Entries, Create2Entry{
			Name:         name,
			Address:      rec.Address,
			Salt:         rec.Salt,
			InitCodeSize: len(rec.InitCode),
			Valid:        rec.Verify(factory) == nil,
		})
	}
	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].Name < result.Entries[j].Name
	})

	return result, nil
}
