package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/samber/lo"
)

// implementationContracts maps address book keys to the contracts deployed for them
var implementationContracts = map[string]string{
	domain.KeyJoinNFTImpl:        "JoinNFT",
	domain.KeyERC6551AccountImpl: "ERC6551Account",
	domain.KeyCommunityNFT:       "CommunityNFT",
}

// ImplementationKeys lists the redeployable implementations in deployment order
var ImplementationKeys = []string{domain.KeyJoinNFTImpl, domain.KeyERC6551AccountImpl, domain.KeyCommunityNFT}

// DeployImplementationsParams contains parameters for an implementation redeploy
type DeployImplementationsParams struct {
	// Keys limits the redeploy to these address book keys
	Keys []string
}

// DeployImplementationsResult contains the result of an implementation redeploy
type DeployImplementationsResult struct {
	Deployed []DeployedContract
}

// DeployImplementations redeploys the router-bound implementation contracts
// and records their new addresses
type DeployImplementations struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	books     AddressBookRepository
	chain     ChainClient
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployImplementations creates a new DeployImplementations use case
func NewDeployImplementations(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	books AddressBookRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployImplementations {
	return &DeployImplementations{
		config:    cfg,
		artifacts: artifacts,
		books:     books,
		chain:     chain,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "DeployImplementations"),
	}
}

// Run executes the use case
func (uc *DeployImplementations) Run(ctx context.Context, params DeployImplementationsParams) (*DeployImplementationsResult, error) {
	keys := ImplementationKeys
	if len(params.Keys) > 0 {
		for _, key := range params.Keys {
			if _, ok := implementationContracts[key]; !ok {
				return nil, fmt.Errorf("unknown implementation %q (one of %v)", key, ImplementationKeys)
			}
		}
		keys = lo.Filter(ImplementationKeys, func(k string, _ int) bool { return lo.Contains(params.Keys, k) })
	}

	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	book, addrs, err := requireBook(ctx, uc.books, uc.config.Env, network.Name, domain.KeyRouterProxy)
	if err != nil {
		return nil, err
	}
	router := addrs[domain.KeyRouterProxy]

	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, "Redeploy implementations"); err != nil {
		return nil, err
	}

	result := &DeployImplementationsResult{}
	for i, key := range keys {
		contract := implementationContracts[key]
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageDeploying,
			Current: i + 1,
			Total:   len(keys),
			Message: fmt.Sprintf("Deploying %s...", contract),
			Spinner: true,
		})
		tx, err := deployContract(ctx, uc.chain, uc.artifacts, contract, router)
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying})
			// Persist what already went out
			if len(result.Deployed) > 0 {
				if saveErr := uc.books.Save(ctx, book); saveErr != nil {
					uc.log.Error("failed to save address book", "error", saveErr)
				}
			}
			return nil, err
		}
		book.Set(key, tx.ContractAddress)
		result.Deployed = append(result.Deployed, DeployedContract{Name: key, Address: tx.ContractAddress, Tx: tx})
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})

	if err := uc.books.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save address book: %w", err)
	}
	return result, nil
}
