package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// DeployFactoryParams contains parameters for the factory deployment
type DeployFactoryParams struct {
	// Fund tops up the one-time deployer account from the signer when needed
	Fund bool
}

// DeployFactoryResult contains the result of the factory deployment
type DeployFactoryResult struct {
	Factory         common.Address
	AlreadyDeployed bool
	Funded          *domain.TxResult
	Tx              *domain.TxResult
}

// DeployFactory broadcasts the keyless EIP-2470 factory deployment
type DeployFactory struct {
	config    *config.RuntimeConfig
	chain     ChainClient
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployFactory creates a new DeployFactory use case
func NewDeployFactory(cfg *config.RuntimeConfig, chain ChainClient, confirmer Confirmer, progress ProgressSink, log *slog.Logger) *DeployFactory {
	return &DeployFactory{
		config:    cfg,
		chain:     chain,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "DeployFactory"),
	}
}

// Run executes the use case
func (uc *DeployFactory) Run(ctx context.Context, params DeployFactoryParams) (*DeployFactoryResult, error) {
	if _, err := requireNetwork(uc.config); err != nil {
		return nil, err
	}

	deployment, err := domain.DecodeFactoryDeployment()
	if err != nil {
		return nil, err
	}
	result := &DeployFactoryResult{Factory: domain.Create2FactoryAddress}

	code, err := uc.chain.CodeAt(ctx, domain.Create2FactoryAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to check factory code: %w", err)
	}
	if len(code) > 0 {
		result.AlreadyDeployed = true
		return result, nil
	}

	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, "Deploy the CREATE2 factory"); err != nil {
		return nil, err
	}

	balance, err := uc.chain.BalanceAt(ctx, deployment.Sender)
	if err != nil {
		return nil, fmt.Errorf("failed to get factory deployer balance: %w", err)
	}
	if balance.Cmp(deployment.Cost) < 0 {
		if !params.Fund {
			return nil, fmt.Errorf("factory deployer %s needs %s wei, has %s (use --fund)",
				deployment.Sender.Hex(), deployment.Cost, balance)
		}
		missing := new(big.Int).Sub(deployment.Cost, balance)
		sender := deployment.Sender
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying, Message: "Funding factory deployer...", Spinner: true})
		result.Funded, err = uc.chain.Send(ctx, domain.TxRequest{
			Label: "fund factory deployer",
			To:    &sender,
			Value: missing,
		})
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying})
			return nil, fmt.Errorf("failed to fund factory deployer: %w", err)
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying, Message: "Deploying CREATE2 factory...", Spinner: true})
	result.Tx, err = uc.chain.SendRaw(ctx, "create2 factory", deployment.Raw)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy factory: %w", err)
	}

	code, err = uc.chain.CodeAt(ctx, domain.Create2FactoryAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to check factory code: %w", err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("create2 factory: %w", domain.ErrDeployFailed)
	}

	uc.log.Info("factory deployed", "address", domain.Create2FactoryAddress, "tx", result.Tx.Hash)
	return result, nil
}
