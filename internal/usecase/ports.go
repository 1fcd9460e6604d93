package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	// GetArtifact returns the artifact of a contract by name, preferring project sources
	GetArtifact(ctx context.Context, name string) (*domain.Artifact, error)
	ListArtifacts(ctx context.Context) ([]*domain.Artifact, error)
}

// ContractBuilder compiles the project
type ContractBuilder interface {
	Build(ctx context.Context) error
}

// SelectorStore persists selector maps under target/fun-sig
type SelectorStore interface {
	Clean(ctx context.Context) error
	Save(ctx context.Context, dir, contract string, selectors domain.SelectorMap) error
	Load(ctx context.Context, dir, contract string) (domain.SelectorMap, error)
	// List returns the file names stored in dir, sorted
	List(ctx context.Context, dir string) ([]string, error)
}

// ABIExporter writes hardhat-style ABI files under target/abis
type ABIExporter interface {
	Clean(ctx context.Context) error
	Export(ctx context.Context, artifact *domain.Artifact) error
	// MergeEvents appends the ABI of events into the exported ABI of client
	MergeEvents(ctx context.Context, client, events string) error
}

// RouterSetupWriter splices generated router wiring into a source file
type RouterSetupWriter interface {
	WriteRouterSetup(ctx context.Context, path string, lines []string) error
}

// AddressBookRepository persists address books
type AddressBookRepository interface {
	// Load returns domain.ErrNotFound when the book doesn't exist yet
	Load(ctx context.Context, env, network string) (*domain.AddressBook, error)
	Save(ctx context.Context, book *domain.AddressBook) error
}

// Create2Repository persists the mined CREATE2 records of an environment
type Create2Repository interface {
	// Load returns an empty cache when none was written yet
	Load(ctx context.Context, env string) (*domain.Create2Cache, error)
	Save(ctx context.Context, cache *domain.Create2Cache) error
}

// SaltMiner finds a salt whose CREATE2 address starts with a prefix
type SaltMiner interface {
	Mine(ctx context.Context, initCode []byte, factory common.Address, prefix string) (*domain.Create2Record, error)
}

// Signer signs transactions for the deployer account
type Signer interface {
	// Address fails when the key behind the signer can't be read
	Address(ctx context.Context) (common.Address, error)
	SignTx(ctx context.Context, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// ChainClient reads chain state and broadcasts signed transactions
type ChainClient interface {
	ChainID(ctx context.Context) (uint64, error)
	// From returns the address transactions are sent from
	From(ctx context.Context) (common.Address, error)
	CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
	// Send signs, broadcasts and waits for the receipt of req
	Send(ctx context.Context, req domain.TxRequest) (*domain.TxResult, error)
	// SendRaw broadcasts an already signed transaction and waits for its receipt
	SendRaw(ctx context.Context, label string, raw []byte) (*domain.TxResult, error)
}

// ContractReader performs read-only calls against protocol contracts
type ContractReader interface {
	RouterEntries(ctx context.Context, router common.Address) ([]domain.RouterEntry, error)
	RouterSelectors(ctx context.Context, router, logic common.Address) ([]domain.Selector, error)
	TotalSupply(ctx context.Context, token common.Address) (*big.Int, error)
	// CommunityAccounts resolves the token-bound account of every community id in one round trip
	CommunityAccounts(ctx context.Context, router common.Address, ids []*big.Int) ([]common.Address, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// Confirmer asks the operator before irreversible actions
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Selector lets the operator pick one of several options
type Selector interface {
	Select(ctx context.Context, options []string, prompt string) (string, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Deployment stages reported through ProgressSink
const (
	StageCompiling  = "Compiling"
	StageMining     = "Mining"
	StageDeploying  = "Deploying"
	StageLogic      = "Logic"
	StageInitialize = "Initializing"
	StageDiffing    = "Diffing"
	StageSubmitting = "Submitting"
	StageRecording  = "Recording"
	StageCompleted  = "Completed"
)
