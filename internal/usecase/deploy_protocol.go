package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/bindings"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// DeployProtocolParams contains parameters for a full protocol deployment
type DeployProtocolParams struct {
	SkipCompile bool
}

// DeployedContract is a contract handled during a deployment
type DeployedContract struct {
	Name    string
	Address common.Address
	// Tx is nil when the contract was already deployed
	Tx *domain.TxResult
}

// DeployProtocolResult contains the result of a full protocol deployment
type DeployProtocolResult struct {
	Env      string
	Network  string
	Deployer common.Address
	Create2  []DeployedContract
	Logic    []DeployedContract
	InitTx   *domain.TxResult
	Book     *domain.AddressBook
	// LogicErr is the failure of the logic and initialization phase. The
	// address book is written regardless.
	LogicErr error
}

// create2Target describes a deterministically deployed contract
type create2Target struct {
	record   string
	contract string
	bookKey  string
	args     func(r map[string]*domain.Create2Record) ([]any, error)
}

// DeployProtocol deploys the whole protocol: deterministic core contracts,
// logic implementations, and the router initialization multicall
type DeployProtocol struct {
	config    *config.RuntimeConfig
	compile   *CompileContracts
	artifacts ArtifactRepository
	selectors SelectorStore
	create2   Create2Repository
	deployer  *Create2Deployer
	books     AddressBookRepository
	chain     ChainClient
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewDeployProtocol creates a new DeployProtocol use case
func NewDeployProtocol(
	cfg *config.RuntimeConfig,
	compile *CompileContracts,
	artifacts ArtifactRepository,
	selectors SelectorStore,
	create2 Create2Repository,
	deployer *Create2Deployer,
	books AddressBookRepository,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployProtocol {
	return &DeployProtocol{
		config:    cfg,
		compile:   compile,
		artifacts: artifacts,
		selectors: selectors,
		create2:   create2,
		deployer:  deployer,
		books:     books,
		chain:     chain,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "DeployProtocol"),
	}
}

// routerArg passes the router address as the only constructor argument
func routerArg(r map[string]*domain.Create2Record) ([]any, error) {
	return []any{r[domain.RecordOspRouter].Address}, nil
}

// create2Targets returns the deterministic contracts in mining order. Each
// target only depends on records mined before it.
func (uc *DeployProtocol) create2Targets(admin common.Address) []create2Target {
	protocol := uc.config.Protocol
	return []create2Target{
		{domain.RecordOspRouter, "OspRouterImmutable", domain.KeyRouterProxy, func(map[string]*domain.Create2Record) ([]any, error) {
			return []any{admin}, nil
		}},
		{domain.RecordCommunityNFT, "CommunityNFT", domain.KeyCommunityNFT, routerArg},
		{domain.RecordCommunityNFTProxy, "OspUniversalProxy", domain.KeyCommunityNFTProxy, func(r map[string]*domain.Create2Record) ([]any, error) {
			data, err := bindings.EncodeCommunityNFTInitialize(protocol.CommunityName, protocol.CommunitySymbol)
			if err != nil {
				return nil, err
			}
			return []any{r[domain.RecordOspRouter].Address, r[domain.RecordCommunityNFT].Address, data}, nil
		}},
		{domain.RecordSlotNFTCommunityCond, "SlotNFTCommunityCond", domain.KeySlotNFTCommunityCond, routerArg},
		{domain.RecordWhitelistAddressCommunityCond, "WhitelistAddressCommunityCond", domain.KeyWhitelistAddressCommunityCond, routerArg},
		{domain.RecordERC20FeeJoinCond, "ERC20FeeJoinCond", domain.KeyERC20FeeJoinCond, routerArg},
		{domain.RecordHoldTokenJoinCond, "HoldTokenJoinCond", domain.KeyHoldTokenJoinCond, routerArg},
		{domain.RecordNativeFeeJoinCond, "NativeFeeJoinCond", domain.KeyNativeFeeJoinCond, routerArg},
		{domain.RecordOnlyMemberReferenceCond, "OnlyMemberReferenceCond", domain.KeyOnlyMemberReferenceCond, routerArg},
		{domain.RecordVoteReaction, "VoteReaction", domain.KeyVoteReaction, routerArg},
	}
}

// deployOrder is the order records are deployed in
var deployOrder = []string{
	domain.RecordOspRouter,
	domain.RecordCommunityNFT,
	domain.RecordCommunityNFTProxy,
	domain.RecordWhitelistAddressCommunityCond,
	domain.RecordSlotNFTCommunityCond,
	domain.RecordHoldTokenJoinCond,
	domain.RecordERC20FeeJoinCond,
	domain.RecordNativeFeeJoinCond,
	domain.RecordOnlyMemberReferenceCond,
	domain.RecordVoteReaction,
}

// whitelistedApps are the address book keys whitelisted on initialization
var whitelistedApps = []string{
	domain.KeySlotNFTCommunityCond,
	domain.KeyWhitelistAddressCommunityCond,
	domain.KeyHoldTokenJoinCond,
	domain.KeyERC20FeeJoinCond,
	domain.KeyNativeFeeJoinCond,
	domain.KeyOnlyMemberReferenceCond,
	domain.KeyVoteReaction,
}

// Run executes the use case
func (uc *DeployProtocol) Run(ctx context.Context, params DeployProtocolParams) (*DeployProtocolResult, error) {
	network, err := requireNetwork(uc.config)
	if err != nil {
		return nil, err
	}
	if err := confirmBroadcast(ctx, uc.config, uc.confirmer, "Deploy the protocol"); err != nil {
		return nil, err
	}

	if !params.SkipCompile {
		if _, err := uc.compile.Run(ctx, CompileContractsParams{}); err != nil {
			return nil, err
		}
	}

	// The router admin is part of the mined init code, so no record is
	// mined without a known deployer
	deployer, err := uc.chain.From(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deployer address: %w", err)
	}
	result := &DeployProtocolResult{
		Env:      uc.config.Env,
		Network:  network.Name,
		Deployer: deployer,
	}
	targets := uc.create2Targets(result.Deployer)

	records, err := uc.mineRecords(ctx, targets)
	if err != nil {
		return nil, err
	}

	for i, name := range deployOrder {
		rec := records[name]
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageDeploying,
			Current: i + 1,
			Total:   len(deployOrder),
			Message: fmt.Sprintf("Deploying %s...", name),
			Spinner: true,
		})
		tx, err := uc.deployer.Deploy(ctx, name, rec)
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying})
			return nil, err
		}
		result.Create2 = append(result.Create2, DeployedContract{Name: name, Address: rec.Address, Tx: tx})
	}

	book, err := loadOrEmptyBook(ctx, uc.books, uc.config.Env, network.Name)
	if err != nil {
		return nil, err
	}
	for _, target := range targets {
		if !book.Has(target.bookKey) {
			book.Set(target.bookKey, records[target.record].Address)
		}
	}
	result.Book = book

	result.LogicErr = uc.initialize(ctx, book, network, result)
	if result.LogicErr != nil {
		uc.log.Error("logic phase failed", "error", result.LogicErr)
		uc.progress.Error(fmt.Sprintf("Logic phase failed: %v", result.LogicErr))
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageRecording, Message: "Writing address book...", Spinner: true})
	err = uc.books.Save(ctx, book)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	if err != nil {
		return nil, fmt.Errorf("failed to save address book: %w", err)
	}

	return result, nil
}

// mineRecords loads or mines every deterministic record and persists newly mined ones
func (uc *DeployProtocol) mineRecords(ctx context.Context, targets []create2Target) (map[string]*domain.Create2Record, error) {
	cache, err := uc.create2.Load(ctx, uc.config.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load create2 records: %w", err)
	}
	known := len(cache.Records)

	records := make(map[string]*domain.Create2Record, len(targets))
	var mineErr error
	for i, target := range targets {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageMining,
			Current: i + 1,
			Total:   len(targets),
			Message: fmt.Sprintf("Preparing %s...", target.record),
			Spinner: true,
		})
		args, err := target.args(records)
		if err != nil {
			mineErr = fmt.Errorf("failed to build %s constructor arguments: %w", target.record, err)
			break
		}
		code, err := initCode(ctx, uc.artifacts, target.contract, args...)
		if err != nil {
			mineErr = err
			break
		}
		rec, err := uc.deployer.Record(ctx, cache, target.record, code)
		if err != nil {
			mineErr = err
			break
		}
		records[target.record] = rec
	}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageMining})

	// Keep whatever was mined so a retry doesn't repeat the work
	if len(cache.Records) != known {
		if err := uc.create2.Save(ctx, cache); err != nil {
			return nil, fmt.Errorf("failed to save create2 records: %w", err)
		}
	}
	if mineErr != nil {
		return nil, mineErr
	}
	return records, nil
}

// initialize deploys missing logic implementations and sends the router initialization multicall
func (uc *DeployProtocol) initialize(ctx context.Context, book *domain.AddressBook, network *config.Network, result *DeployProtocolResult) error {
	router, _ := book.Get(domain.KeyRouterProxy)

	type logicTarget struct {
		key      string
		contract string
		args     []any
	}
	var logic []logicTarget
	for _, module := range domain.LogicModules {
		logic = append(logic, logicTarget{module.AddressKey(), module.ContractName(), nil})
	}
	logic = append(logic,
		logicTarget{domain.KeyFollowSBTImpl, "FollowSBT", []any{router}},
		logicTarget{domain.KeyJoinNFTImpl, "JoinNFT", []any{router}},
	)

	for i, target := range logic {
		if addr, ok := book.Get(target.key); ok {
			result.Logic = append(result.Logic, DeployedContract{Name: target.key, Address: addr})
			continue
		}
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageLogic,
			Current: i + 1,
			Total:   len(logic),
			Message: fmt.Sprintf("Deploying %s...", target.contract),
			Spinner: true,
		})
		tx, err := deployContract(ctx, uc.chain, uc.artifacts, target.contract, target.args...)
		if err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageLogic})
			return err
		}
		book.Set(target.key, tx.ContractAddress)
		result.Logic = append(result.Logic, DeployedContract{Name: target.key, Address: tx.ContractAddress, Tx: tx})
	}

	calls, err := uc.initCalls(ctx, book, network, result.Deployer)
	if err != nil {
		return err
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageInitialize,
		Message: fmt.Sprintf("Initializing protocol (%d calls)...", len(calls)),
		Spinner: true,
	})
	sub, err := routerMulticall("initialize protocol", router, calls, domain.InitMulticallGasLimit)
	if err != nil {
		return err
	}
	res, err := submit(ctx, uc.chain, false, sub)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageInitialize})
	if err != nil {
		return err
	}
	result.InitTx = res.Tx
	return nil
}

// initCalls builds the router initialization calls in execution order
func (uc *DeployProtocol) initCalls(ctx context.Context, book *domain.AddressBook, network *config.Network, deployer common.Address) ([][]byte, error) {
	var calls [][]byte

	for _, module := range domain.LogicModules {
		impl, _ := book.Get(module.AddressKey())
		selectors, err := uc.selectors.Load(ctx, LogicInterfacesDir, module.InterfaceName())
		if err != nil {
			return nil, fmt.Errorf("failed to load selectors of %s: %w", module.InterfaceName(), err)
		}
		entries, err := selectors.Entries(impl)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			data, err := bindings.EncodeAddRouter(e)
			if err != nil {
				return nil, err
			}
			calls = append(calls, data)
		}
	}

	addrs, err := book.Require(domain.KeyFollowSBTImpl, domain.KeyJoinNFTImpl, domain.KeyCommunityNFTProxy)
	if err != nil {
		return nil, err
	}
	protocol := uc.config.Protocol
	data, err := bindings.EncodeInitialize(protocol.SBTName, protocol.SBTSymbol,
		addrs[domain.KeyFollowSBTImpl], addrs[domain.KeyJoinNFTImpl], addrs[domain.KeyCommunityNFTProxy])
	if err != nil {
		return nil, err
	}
	calls = append(calls, data)

	roles, err := bindings.GrantRolesCalls(deployer)
	if err != nil {
		return nil, err
	}
	calls = append(calls, roles...)

	apps, err := book.Require(whitelistedApps...)
	if err != nil {
		return nil, err
	}
	for _, key := range whitelistedApps {
		data, err := bindings.EncodeWhitelistApp(apps[key], true)
		if err != nil {
			return nil, err
		}
		calls = append(calls, data)
	}

	for _, token := range protocol.TokensFor(network.ChainID) {
		data, err := bindings.EncodeWhitelistToken(token, true)
		if err != nil {
			return nil, err
		}
		calls = append(calls, data)
	}

	if uri := baseURI(protocol, uc.config.Env, network.ChainID); uri != "" {
		data, err := bindings.EncodeSetBaseURI(uri)
		if err != nil {
			return nil, err
		}
		calls = append(calls, data)
	}

	data, err = bindings.EncodeSetState(domain.StateUnpaused)
	if err != nil {
		return nil, err
	}
	return append(calls, data), nil
}

// baseURI returns the metadata base URI of env on a chain, or empty when env has none
func baseURI(protocol *config.ProtocolConfig, env string, chainID uint64) string {
	base := protocol.MetadataBaseURL[env]
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/%d/", strings.TrimSuffix(base, "/"), chainID)
}
