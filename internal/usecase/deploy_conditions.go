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

// DeployConditionResult contains the result of a community condition deployment
type DeployConditionResult struct {
	Name    string
	Address common.Address
	// Previous is the replaced address, if any
	Previous    common.Address
	Tx          *domain.TxResult
	Whitelisted *domain.TxResult
}

// conditionDeps are the dependencies shared by the community condition use cases
type conditionDeps struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	create2   Create2Repository
	deployer  *Create2Deployer
	books     AddressBookRepository
	chain     ChainClient
	confirmer Confirmer
	progress  ProgressSink
}

// whitelist enables app on the router
func (d *conditionDeps) whitelist(ctx context.Context, router, app common.Address, label string) (*domain.TxResult, error) {
	data, err := bindings.EncodeWhitelistApp(app, true)
	if err != nil {
		return nil, err
	}
	res, err := submit(ctx, d.chain, false, Submission{Label: label, To: router, Data: data})
	if err != nil {
		return nil, err
	}
	return res.Tx, nil
}

// DeployFixedFeeCondParams contains parameters for the fixed fee condition deployment
type DeployFixedFeeCondParams struct {
	Whitelist bool
}

// DeployFixedFeeCond deterministically deploys the fixed fee community condition
type DeployFixedFeeCond struct {
	conditionDeps
	log *slog.Logger
}

// NewDeployFixedFeeCond creates a new DeployFixedFeeCond use case
func NewDeployFixedFeeCond(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	create2 Create2Repository,
	deployer *Create2Deployer,
	books AddressBookRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployFixedFeeCond {
	return &DeployFixedFeeCond{
		conditionDeps: conditionDeps{cfg, artifacts, create2, deployer, books, chain, confirmer, progress},
		log:           log.With("component", "DeployFixedFeeCond"),
	}
}

// Run executes the use case
func (uc *DeployFixedFeeCond) Run(ctx context.Context, params DeployFixedFeeCondParams) (*DeployConditionResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	book, addrs, err := requireBook(ctx, uc.books, uc.config.Env, network.Name, domain.KeyRouterProxy)
	if err != nil {
		return nil, err
	}
	router := addrs[domain.KeyRouterProxy]

	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, "Deploy FixedFeeCommunityCond"); err != nil {
		return nil, err
	}

	cache, err := uc.create2.Load(ctx, uc.config.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load create2 records: %w", err)
	}
	code, err := initCode(ctx, uc.artifacts, "FixedFeeCommunityCond", router)
	if err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageMining, Message: "Preparing fixedFeeCommunityCond...", Spinner: true})
	_, cached := cache.Records[domain.RecordFixedFeeCommunityCond]
	rec, err := uc.deployer.Record(ctx, cache, domain.RecordFixedFeeCommunityCond, code)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageMining})
		return nil, err
	}
	if !cached {
		if err := uc.create2.Save(ctx, cache); err != nil {
			return nil, fmt.Errorf("failed to save create2 records: %w", err)
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying, Message: "Deploying fixedFeeCommunityCond...", Spinner: true})
	tx, err := uc.deployer.Deploy(ctx, domain.RecordFixedFeeCommunityCond, rec)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying})
	if err != nil {
		return nil, err
	}

	result := &DeployConditionResult{Name: domain.KeyFixedFeeCommunityCond, Address: rec.Address, Tx: tx}
	result.Previous, _ = book.Get(domain.KeyFixedFeeCommunityCond)
	book.Set(domain.KeyFixedFeeCommunityCond, rec.Address)
	if err := uc.books.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save address book: %w", err)
	}

	if params.Whitelist {
		result.Whitelisted, err = uc.whitelist(ctx, router, rec.Address, "whitelist fixedFeeCommunityCond")
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// RedeployWhitelistCond replaces the whitelist address community condition
// with one built from the current compiler output
type RedeployWhitelistCond struct {
	conditionDeps
	log *slog.Logger
}

// NewRedeployWhitelistCond creates a new RedeployWhitelistCond use case
func NewRedeployWhitelistCond(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	create2 Create2Repository,
	deployer *Create2Deployer,
	books AddressBookRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RedeployWhitelistCond {
	return &RedeployWhitelistCond{
		conditionDeps: conditionDeps{cfg, artifacts, create2, deployer, books, chain, confirmer, progress},
		log:           log.With("component", "RedeployWhitelistCond"),
	}
}

// Run executes the use case
func (uc *RedeployWhitelistCond) Run(ctx context.Context) (*DeployConditionResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	book, addrs, err := requireBook(ctx, uc.books, uc.config.Env, network.Name,
		domain.KeyRouterProxy, domain.KeyWhitelistAddressCommunityCond)
	if err != nil {
		return nil, err
	}
	router := addrs[domain.KeyRouterProxy]
	previous := addrs[domain.KeyWhitelistAddressCommunityCond]

	cache, err := uc.create2.Load(ctx, uc.config.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load create2 records: %w", err)
	}
	code, err := initCode(ctx, uc.artifacts, "WhitelistAddressCommunityCond", router)
	if err != nil {
		return nil, err
	}

	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, "Redeploy WhitelistAddressCommunityCond"); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageMining, Message: "Mining whitelistAddressCommunityCond...", Spinner: true})
	_, rec, err := uc.deployer.Remine(ctx, cache, domain.RecordWhitelistAddressCommunityCond, code)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageMining})
	if err != nil {
		return nil, err
	}

	// Record first so the mined salt survives a failed deployment
	if err := uc.create2.Save(ctx, cache); err != nil {
		return nil, fmt.Errorf("failed to save create2 records: %w", err)
	}
	book.Set(domain.KeyWhitelistAddressCommunityCond, rec.Address)
	if err := uc.books.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save address book: %w", err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying, Message: "Deploying whitelistAddressCommunityCond...", Spinner: true})
	tx, err := uc.deployer.Deploy(ctx, domain.RecordWhitelistAddressCommunityCond, rec)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying})
	if err != nil {
		return nil, err
	}

	disable, err := bindings.EncodeWhitelistApp(previous, false)
	if err != nil {
		return nil, err
	}
	enable, err := bindings.EncodeWhitelistApp(rec.Address, true)
	if err != nil {
		return nil, err
	}
	sub, err := routerMulticall("swap whitelisted condition", router, [][]byte{disable, enable}, 0)
	if err != nil {
		return nil, err
	}
	res, err := submit(ctx, uc.chain, false, sub)
	if err != nil {
		return nil, err
	}

	uc.log.Info("whitelist condition replaced", "old", previous, "new", rec.Address)
	return &DeployConditionResult{
		Name:        domain.KeyWhitelistAddressCommunityCond,
		Address:     rec.Address,
		Previous:    previous,
		Tx:          tx,
		Whitelisted: res.Tx,
	}, nil
}

// DeployPresaleSigCondParams contains parameters for the presale condition deployment
type DeployPresaleSigCondParams struct {
	// Start is the presale start as unix seconds
	Start     uint64
	Whitelist bool
}

// DeployPresaleSigCond deploys the presale signature community condition
type DeployPresaleSigCond struct {
	conditionDeps
	log *slog.Logger
}

// NewDeployPresaleSigCond creates a new DeployPresaleSigCond use case
func NewDeployPresaleSigCond(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	books AddressBookRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployPresaleSigCond {
	return &DeployPresaleSigCond{
		conditionDeps: conditionDeps{config: cfg, artifacts: artifacts, books: books, chain: chain, confirmer: confirmer, progress: progress},
		log:           log.With("component", "DeployPresaleSigCond"),
	}
}

// Run executes the use case
func (uc *DeployPresaleSigCond) Run(ctx context.Context, params DeployPresaleSigCondParams) (*DeployConditionResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	signer, ok := uc.config.Protocol.PresaleSigner(uc.config.Env)
	if !ok {
		return nil, fmt.Errorf("no presale signer configured for env %s", uc.config.Env)
	}
	book, addrs, err := requireBook(ctx, uc.books, uc.config.Env, network.Name,
		domain.KeyRouterProxy, domain.KeyFixedFeeCommunityCond)
	if err != nil {
		return nil, err
	}
	router := addrs[domain.KeyRouterProxy]

	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, "Deploy PresaleSigCommunityCond"); err != nil {
		return nil, err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying, Message: "Deploying PresaleSigCommunityCond...", Spinner: true})
	tx, err := deployContract(ctx, uc.chain, uc.artifacts, "PresaleSigCommunityCond",
		router, addrs[domain.KeyFixedFeeCommunityCond], signer, new(big.Int).SetUint64(params.Start))
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying})
	if err != nil {
		return nil, err
	}

	result := &DeployConditionResult{Name: domain.KeyPresaleSigCommunityCond, Address: tx.ContractAddress, Tx: tx}
	result.Previous, _ = book.Get(domain.KeyPresaleSigCommunityCond)
	book.Set(domain.KeyPresaleSigCommunityCond, tx.ContractAddress)
	if err := uc.books.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to save address book: %w", err)
	}

	if params.Whitelist {
		result.Whitelisted, err = uc.whitelist(ctx, router, tx.ContractAddress, "whitelist presaleSigCommunityCond")
		if err != nil {
			return nil, err
		}
	}

	uc.log.Info("presale condition deployed", "address", tx.ContractAddress, "signer", signer, "start", params.Start)
	return result, nil
}
