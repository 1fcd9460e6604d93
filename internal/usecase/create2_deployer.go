package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// Create2Deployer mines, caches and deploys CREATE2 records through the
// singleton factory
type Create2Deployer struct {
	chain   ChainClient
	miner   SaltMiner
	factory common.Address
	prefix  string
	log     *slog.Logger
}

// NewCreate2Deployer creates a new CREATE2 deployer
func NewCreate2Deployer(cfg *config.RuntimeConfig, chain ChainClient, miner SaltMiner, log *slog.Logger) *Create2Deployer {
	return &Create2Deployer{
		chain:   chain,
		miner:   miner,
		factory: cfg.Protocol.FactoryAddress(),
		prefix:  cfg.Protocol.VanityPrefix,
		log:     log.With("component", "Create2Deployer"),
	}
}

// Factory returns the factory address records are mined for
func (d *Create2Deployer) Factory() common.Address {
	return d.factory
}

// Record returns the cached record of name, mining and caching one on first use.
// A cached record for other init code fails with ErrStaleInitCode.
func (d *Create2Deployer) Record(ctx context.Context, cache *domain.Create2Cache, name string, initCode []byte) (*domain.Create2Record, error) {
	rec, err := cache.Lookup(name, initCode)
	switch {
	case err == nil:
		if err := rec.Verify(d.factory); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return rec, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	rec, err = d.mine(ctx, name, initCode)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(name, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Remine mines a new record for changed init code and replaces the cached one
func (d *Create2Deployer) Remine(ctx context.Context, cache *domain.Create2Cache, name string, initCode []byte) (old, rec *domain.Create2Record, err error) {
	if prev := cache.Records[name]; prev != nil && bytes.Equal(prev.InitCode, initCode) {
		return nil, nil, fmt.Errorf("%s: %w", name, domain.ErrSameInitCode)
	}

	rec, err = d.mine(ctx, name, initCode)
	if err != nil {
		return nil, nil, err
	}
	old, err = cache.Replace(name, rec)
	if err != nil {
		return nil, nil, err
	}
	return old, rec, nil
}

func (d *Create2Deployer) mine(ctx context.Context, name string, initCode []byte) (*domain.Create2Record, error) {
	d.log.Debug("mining salt", "contract", name, "prefix", d.prefix)
	rec, err := d.miner.Mine(ctx, initCode, d.factory, d.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to mine salt for %s: %w", name, err)
	}
	if err := rec.Verify(d.factory); err != nil {
		return nil, fmt.Errorf("mined record for %s: %w", name, err)
	}
	return rec, nil
}

// Deploy deploys rec unless code already exists at its address. It returns
// a nil result when the deployment was skipped.
func (d *Create2Deployer) Deploy(ctx context.Context, name string, rec *domain.Create2Record) (*domain.TxResult, error) {
	code, err := d.chain.CodeAt(ctx, rec.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to check code of %s: %w", name, err)
	}
	if len(code) > 0 {
		d.log.Debug("already deployed", "contract", name, "address", rec.Address)
		return nil, nil
	}

	data, err := bindings.EncodeCreate2Deploy(rec.InitCode, rec.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deploy of %s: %w", name, err)
	}

	factory := d.factory
	res, err := d.chain.Send(ctx, domain.TxRequest{
		Label:    name,
		To:       &factory,
		Data:     data,
		GasLimit: domain.Create2DeployGasLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", name, err)
	}

	code, err = d.chain.CodeAt(ctx, rec.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to check code of %s: %w", name, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%s at %s: %w", name, rec.Address.Hex(), domain.ErrDeployFailed)
	}

	res.ContractAddress = rec.Address
	return res, nil
}
