package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

const (
	// MaxSyncedCommunities bounds the community supply one sync accepts
	MaxSyncedCommunities = 10_000
	// CommunityReadBatch is the number of accounts read per aggregate call
	CommunityReadBatch = 500
)

// CommunityAccount is a community id and its token bound account
type CommunityAccount struct {
	ID      *big.Int
	Account common.Address
}

// SyncCommunityAccountsResult contains the result of a community account sync
type SyncCommunityAccountsResult struct {
	Accounts []CommunityAccount
	*SubmitResult
}

// SyncCommunityAccounts writes every community id into its ERC-6551 account
// through one Multicall3 aggregate3 transaction
type SyncCommunityAccounts struct {
	config    *config.RuntimeConfig
	books     AddressBookRepository
	chain     ChainClient
	reader    ContractReader
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewSyncCommunityAccounts creates a new SyncCommunityAccounts use case
func NewSyncCommunityAccounts(
	cfg *config.RuntimeConfig,
	books AddressBookRepository,
	chain ChainClient,
	reader ContractReader,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *SyncCommunityAccounts {
	return &SyncCommunityAccounts{
		config:    cfg,
		books:     books,
		chain:     chain,
		reader:    reader,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "SyncCommunityAccounts"),
	}
}

// Run executes the use case
func (uc *SyncCommunityAccounts) Run(ctx context.Context) (*SyncCommunityAccountsResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	_, addrs, err := requireBook(ctx, uc.books, uc.config.Env, network.Name,
		domain.KeyRouterProxy, domain.KeyCommunityNFTProxy)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing, Message: "Reading community accounts...", Spinner: true})
	supply, err := uc.reader.TotalSupply(ctx, addrs[domain.KeyCommunityNFTProxy])
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing})
		return nil, fmt.Errorf("failed to read community supply: %w", err)
	}
	if supply.Sign() < 0 || supply.Cmp(big.NewInt(MaxSyncedCommunities)) > 0 {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing})
		return nil, fmt.Errorf("community supply %s exceeds %d communities per sync", supply, MaxSyncedCommunities)
	}

	// community ids start at 1
	count := int(supply.Int64())
	ids := make([]*big.Int, 0, count)
	for i := 1; i <= count; i++ {
		ids = append(ids, big.NewInt(int64(i)))
	}
	result := &SyncCommunityAccountsResult{}
	if len(ids) == 0 {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing})
		return result, nil
	}

	accounts, err := uc.readAccounts(ctx, addrs[domain.KeyRouterProxy], ids)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing})
	if err != nil {
		return nil, err
	}

	calls := make([]bindings.Call3, 0, len(ids))
	for i, id := range ids {
		data, err := bindings.EncodeSetCommunityId(id)
		if err != nil {
			return nil, err
		}
		calls = append(calls, bindings.Call3{Target: accounts[i], CallData: data})
		result.Accounts = append(result.Accounts, CommunityAccount{ID: id, Account: accounts[i]})
	}
	data, err := bindings.EncodeAggregate3(calls)
	if err != nil {
		return nil, fmt.Errorf("failed to encode aggregate3: %w", err)
	}

	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, fmt.Sprintf("Sync %d community accounts", len(ids))); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting, Message: "Submitting setCommunityId batch...", Spinner: true})
	result.SubmitResult, err = submit(ctx, uc.chain, uc.config.DryRun, Submission{
		Label: "sync community accounts",
		To:    domain.Multicall3Address,
		Data:  data,
	})
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// readAccounts reads the accounts of ids in batches of CommunityReadBatch
func (uc *SyncCommunityAccounts) readAccounts(ctx context.Context, router common.Address, ids []*big.Int) ([]common.Address, error) {
	accounts := make([]common.Address, 0, len(ids))
	for start := 0; start < len(ids); start += CommunityReadBatch {
		batch := ids[start:min(start+CommunityReadBatch, len(ids))]
		read, err := uc.reader.CommunityAccounts(ctx, router, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to read community accounts: %w", err)
		}
		if len(read) != len(batch) {
			return nil, fmt.Errorf("expected %d community accounts, got %d", len(batch), len(read))
		}
		accounts = append(accounts, read...)
	}
	return accounts, nil
}
