package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// UpdateRouterParams contains parameters for a router update
type UpdateRouterParams struct {
	Modules []domain.LogicModule
	// Impls reuses already deployed implementations instead of deploying new ones
	Impls map[domain.LogicModule]common.Address
}

// UpdateRouterResult contains the result of a router update
type UpdateRouterResult struct {
	Router common.Address
	Diffs  []*domain.RouterDiff
	// Deployed holds the implementations deployed by this run
	Deployed []DeployedContract
	Tx       *domain.TxResult
	// Calldata is set instead of Tx in dry-run mode
	Calldata *domain.Calldata
	Recorded bool
}

// UpdateRouter moves logic modules onto new implementations in one multicall
type UpdateRouter struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	selectors SelectorStore
	books     AddressBookRepository
	chain     ChainClient
	reader    ContractReader
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewUpdateRouter creates a new UpdateRouter use case
func NewUpdateRouter(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	selectors SelectorStore,
	books AddressBookRepository,
	chain ChainClient,
	reader ContractReader,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *UpdateRouter {
	return &UpdateRouter{
		config:    cfg,
		artifacts: artifacts,
		selectors: selectors,
		books:     books,
		chain:     chain,
		reader:    reader,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "UpdateRouter"),
	}
}

// Run executes the use case
func (uc *UpdateRouter) Run(ctx context.Context, params UpdateRouterParams) (*UpdateRouterResult, error) {
	if len(params.Modules) == 0 {
		return nil, fmt.Errorf("no logic module given")
	}
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}

	keys := []string{domain.KeyRouterProxy}
	for _, module := range params.Modules {
		keys = append(keys, module.AddressKey())
	}
	book, addrs, err := requireBook(ctx, uc.books, uc.config.Env, network.Name, keys...)
	if err != nil {
		return nil, err
	}
	router := addrs[domain.KeyRouterProxy]
	result := &UpdateRouterResult{Router: router}

	desired := make(map[domain.LogicModule]domain.SelectorMap, len(params.Modules))
	for _, module := range params.Modules {
		selectors, err := uc.selectors.Load(ctx, LogicInterfacesDir, module.InterfaceName())
		if err != nil {
			return nil, fmt.Errorf("failed to load selectors of %s: %w", module.InterfaceName(), err)
		}
		desired[module] = selectors
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing, Message: "Reading router table...", Spinner: true})
	table, err := uc.reader.RouterEntries(ctx, router)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing})
		return nil, fmt.Errorf("failed to read router entries: %w", err)
	}
	current := make(map[domain.LogicModule][]domain.Selector, len(params.Modules))
	for _, module := range params.Modules {
		current[module], err = uc.reader.RouterSelectors(ctx, router, addrs[module.AddressKey()])
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing})
			return nil, fmt.Errorf("failed to read %s selectors: %w", module, err)
		}
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDiffing})

	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, fmt.Sprintf("Update router for %v", params.Modules)); err != nil {
		return nil, err
	}

	impls := make(map[domain.LogicModule]common.Address, len(params.Modules))
	for i, module := range params.Modules {
		if impl, ok := params.Impls[module]; ok {
			impls[module] = impl
			continue
		}
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageLogic,
			Current: i + 1,
			Total:   len(params.Modules),
			Message: fmt.Sprintf("Deploying %s...", module.ContractName()),
			Spinner: true,
		})
		tx, err := deployContract(ctx, uc.chain, uc.artifacts, module.ContractName())
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageLogic})
		if err != nil {
			return nil, err
		}
		impls[module] = tx.ContractAddress
		result.Deployed = append(result.Deployed, DeployedContract{Name: module.AddressKey(), Address: tx.ContractAddress, Tx: tx})
	}

	for _, module := range params.Modules {
		diff, err := domain.DiffRouter(string(module), current[module], table, desired[module], impls[module])
		if err != nil {
			return nil, err
		}
		uc.log.Debug("router diff", "summary", diff.Summary())
		result.Diffs = append(result.Diffs, diff)
	}

	calls, err := bindings.EncodeRouterDiff(result.Diffs...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode router calls: %w", err)
	}

	if len(calls) == 0 {
		return result, nil
	}

	sub, err := routerMulticall("update router", router, calls, 0)
	if err != nil {
		return nil, err
	}
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageSubmitting,
		Message: fmt.Sprintf("Submitting %d router calls...", len(calls)),
		Spinner: true,
	})
	res, err := submit(ctx, uc.chain, uc.config.DryRun, sub)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageSubmitting})
	if err != nil {
		return nil, err
	}
	result.Tx = res.Tx
	result.Calldata = res.Calldata

	// The router only points at the new implementations once the multicall executed
	if uc.config.DryRun {
		return result, nil
	}
	for _, module := range params.Modules {
		book.Set(module.AddressKey(), impls[module])
	}
	if err := uc.books.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save address book: %w", err)
	}
	result.Recorded = true

	return result, nil
}
