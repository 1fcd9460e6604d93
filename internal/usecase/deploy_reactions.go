package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// reactionContracts maps address book keys to reaction contracts, in deployment order
var reactionContracts = []struct {
	key      string
	contract string
}{
	{domain.KeyLikeReaction, "LikeReaction"},
	{domain.KeyVoteReaction, "VoteReaction"},
}

// DeployReactionsResult contains the result of a reaction deployment
type DeployReactionsResult struct {
	Deployed    []DeployedContract
	Whitelisted *domain.TxResult
}

// DeployReactions deploys the like and vote reactions and whitelists both
// on the router in one multicall
type DeployReactions struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	books     AddressBookRepository
	chain     ChainClient
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployReactions creates a new DeployReactions use case
func NewDeployReactions(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	books AddressBookRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployReactions {
	return &DeployReactions{
		config:    cfg,
		artifacts: artifacts,
		books:     books,
		chain:     chain,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "DeployReactions"),
	}
}

// Run executes the use case
func (uc *DeployReactions) Run(ctx context.Context) (*DeployReactionsResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	book, addrs, err := requireBook(ctx, uc.books, uc.config.Env, network.Name, domain.KeyRouterProxy)
	if err != nil {
		return nil, err
	}
	router := addrs[domain.KeyRouterProxy]

	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, "Deploy reactions"); err != nil {
		return nil, err
	}

	result := &DeployReactionsResult{}
	calls := make([][]byte, 0, len(reactionContracts))
	for i, reaction := range reactionContracts {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageDeploying,
			Current: i + 1,
			Total:   len(reactionContracts),
			Message: fmt.Sprintf("Deploying %s...", reaction.contract),
			Spinner: true,
		})
		tx, err := deployContract(ctx, uc.chain, uc.artifacts, reaction.contract, router)
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying})
		if err != nil {
			if len(result.Deployed) > 0 {
				if saveErr := uc.books.Save(ctx, book); saveErr != nil {
					uc.log.Error("failed to save address book", "error", saveErr)
				}
			}
			return nil, err
		}
		book.Set(reaction.key, tx.ContractAddress)
		result.Deployed = append(result.Deployed, DeployedContract{Name: reaction.key, Address: tx.ContractAddress, Tx: tx})

		data, err := bindings.EncodeWhitelistApp(tx.ContractAddress, true)
		if err != nil {
			return nil, err
		}
		calls = append(calls, data)
	}

	if err := uc.books.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save address book: %w", err)
	}

	sub, err := routerMulticall("whitelist reactions", router, calls, 0)
	if err != nil {
		return nil, err
	}
	res, err := submit(ctx, uc.chain, false, sub)
	if err != nil {
		return nil, err
	}
	result.Whitelisted = res.Tx

	return result, nil
}
