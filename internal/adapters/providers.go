package adapters

import (
	"github.com/google/wire"
	"github.com/opensocial-protocol/osp-cli/internal/adapters/blockchain"
	internalconfig "github.com/opensocial-protocol/osp-cli/internal/adapters/config"
	"github.com/opensocial-protocol/osp-cli/internal/adapters/contracts"
	"github.com/opensocial-protocol/osp-cli/internal/adapters/forge"
	"github.com/opensocial-protocol/osp-cli/internal/adapters/fs"
	"github.com/opensocial-protocol/osp-cli/internal/adapters/interactive"
	"github.com/opensocial-protocol/osp-cli/internal/adapters/progress"
	"github.com/opensocial-protocol/osp-cli/internal/adapters/senders"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// ProvideProgressSink provides the terminal progress reporter. Debug runs
// stream compiler output and logs to the terminal, so progress is dropped.
func ProvideProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.Debug {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter(cfg)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewAddressBookStore,
	wire.Bind(new(usecase.AddressBookRepository), new(*fs.AddressBookStore)),

	fs.NewCreate2Store,
	wire.Bind(new(usecase.Create2Repository), new(*fs.Create2Store)),

	fs.NewSelectorStore,
	wire.Bind(new(usecase.SelectorStore), new(*fs.SelectorStore)),

	fs.NewABIExporter,
	wire.Bind(new(usecase.ABIExporter), new(*fs.ABIExporter)),

	fs.NewRouterSetupWriter,
	wire.Bind(new(usecase.RouterSetupWriter), new(*fs.RouterSetupWriter)),
)

// ContractsSet provides compiled artifact lookup
var ContractsSet = wire.NewSet(
	contracts.NewIndexer,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Indexer)),
)

// ForgeSet provides foundry tool implementations
var ForgeSet = wire.NewSet(
	forge.NewForgeAdapter,
	wire.Bind(new(usecase.ContractBuilder), new(*forge.ForgeAdapter)),

	forge.NewCastSaltMiner,
	wire.Bind(new(usecase.SaltMiner), new(*forge.CastSaltMiner)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Selector), new(*interactive.SelectorAdapter)),

	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides chain access and signing
var BlockchainSet = wire.NewSet(
	senders.NewSigner,

	blockchain.NewChainClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.ChainClient)),

	blockchain.NewContractReader,
	wire.Bind(new(usecase.ContractReader), new(*blockchain.ContractReader)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideProgressSink,

	FSSet,
	ContractsSet,
	ForgeSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
)
