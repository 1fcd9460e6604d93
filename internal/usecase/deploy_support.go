package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// Submission is a call that is either broadcast or, in dry-run mode, printed
type Submission struct {
	Label    string
	To       common.Address
	Data     []byte
	GasLimit uint64
}

// SubmitResult holds the receipt of a broadcast submission or the calldata of a dry run
type SubmitResult struct {
	Tx       *domain.TxResult
	Calldata *domain.Calldata
}

// submit broadcasts s, or only returns its calldata when dryRun is set
func submit(ctx context.Context, chain ChainClient, dryRun bool, s Submission) (*SubmitResult, error) {
	if dryRun {
		return &SubmitResult{Calldata: &domain.Calldata{Label: s.Label, To: s.To, Data: s.Data}}, nil
	}

	to := s.To
	res, err := chain.Send(ctx, domain.TxRequest{
		Label:    s.Label,
		To:       &to,
		Data:     s.Data,
		GasLimit: s.GasLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", s.Label, err)
	}
	return &SubmitResult{Tx: res}, nil
}

// routerMulticall batches calls into one multicall to the router
func routerMulticall(label string, router common.Address, calls [][]byte, gasLimit uint64) (Submission, error) {
	data, err := bindings.EncodeMulticall(calls)
	if err != nil {
		return Submission{}, fmt.Errorf("failed to encode multicall: %w", err)
	}
	return Submission{Label: label, To: router, Data: data, GasLimit: gasLimit}, nil
}

// deployContract CREATE-deploys a compiled contract with constructor args
func deployContract(ctx context.Context, chain ChainClient, artifacts ArtifactRepository, contract string, args ...any) (*domain.TxResult, error) {
	code, err := initCode(ctx, artifacts, contract, args...)
	if err != nil {
		return nil, err
	}

	res, err := chain.Send(ctx, domain.TxRequest{Label: contract, Data: code})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", contract, err)
	}
	if res.ContractAddress == (common.Address{}) {
		return nil, fmt.Errorf("%s: %w", contract, domain.ErrDeployFailed)
	}
	return res, nil
}

// initCode returns the init code of a compiled contract with constructor args
func initCode(ctx context.Context, artifacts ArtifactRepository, contract string, args ...any) ([]byte, error) {
	artifact, err := artifacts.GetArtifact(ctx, contract)
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact %s: %w", contract, err)
	}
	return artifact.InitCode(args...)
}

// loadOrEmptyBook loads the address book or starts a new one
func loadOrEmptyBook(ctx context.Context, repo AddressBookRepository, env, network string) (*domain.AddressBook, error) {
	book, err := repo.Load(ctx, env, network)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewAddressBook(env, network), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load address book: %w", err)
	}
	return book, nil
}

// requireBook loads the address book and resolves keys from it
func requireBook(ctx context.Context, repo AddressBookRepository, env, network string, keys ...string) (*domain.AddressBook, map[string]common.Address, error) {
	book, err := repo.Load(ctx, env, network)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil, &domain.MissingAddressError{Env: env, Network: network, Keys: keys}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load address book: %w", err)
	}
	addrs, err := book.Require(keys...)
	if err != nil {
		return nil, nil, err
	}
	return book, addrs, nil
}

// requireNetwork returns the configured network
func requireNetwork(cfg *config.RuntimeConfig) (*config.Network, error) {
	if cfg.Network == nil {
		return nil, domain.ErrNoNetwork
	}
	return cfg.Network, nil
}

// confirmBroadcast asks before sending transactions to a non-local network
func confirmBroadcast(ctx context.Context, cfg *config.RuntimeConfig, confirmer Confirmer, action string) error {
	if cfg.DryRun || cfg.Network == nil || cfg.Network.Local {
		return nil
	}
	ok, err := confirmer.Confirm(ctx, fmt.Sprintf("%s on %s (chain %d, env %s)?", action, cfg.Network.Name, cfg.Network.ChainID, cfg.Env))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCancelled
	}
	return nil
}
