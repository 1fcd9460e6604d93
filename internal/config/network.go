package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/samber/lo"
)

// builtinNetworks are usable without any foundry.toml entry
var builtinNetworks = map[string]config.Network{
	"local":         {Name: "local", ChainID: 31337, RPCURL: "http://127.0.0.1:8545", Local: true},
	"anvil":         {Name: "anvil", ChainID: 84532, RPCURL: "http://127.0.0.1:8545", Local: true},
	"sepolia":       {Name: "sepolia", ChainID: 11155111, RPCURL: "${SEPOLIA_RPC_URL}"},
	"baseSepolia":   {Name: "baseSepolia", ChainID: 84532, RPCURL: "https://sepolia.base.org"},
	"polygonAmoy":   {Name: "polygonAmoy", ChainID: 80002, RPCURL: "https://rpc-amoy.polygon.technology"},
	"beraTestnet":   {Name: "beraTestnet", ChainID: 80085, RPCURL: "${BERA_TESTNET_RPC_URL}"},
	"xLayerTestnet": {Name: "xLayerTestnet", ChainID: 195, RPCURL: "https://testrpc.xlayer.tech"},
	"base":          {Name: "base", ChainID: 8453, RPCURL: "https://mainnet.base.org"},
}

// chainIDFetcher looks up the chain id behind an RPC endpoint
type chainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names to configurations
type NetworkResolver struct {
	foundryConfig *config.FoundryConfig
	fetchChainID  chainIDFetcher
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(foundryConfig *config.FoundryConfig) *NetworkResolver {
	return &NetworkResolver{
		foundryConfig: foundryConfig,
		fetchChainID:  fetchChainID,
	}
}

// Names returns every resolvable network name, sorted
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(builtinNetworks)
	if r.foundryConfig != nil {
		names = append(names, lo.Keys(r.foundryConfig.RpcEndpoints)...)
	}
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration. foundry.toml
// rpc_endpoints override the RPC URL of a built-in network.
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	network, builtin := builtinNetworks[networkName]
	network.Name = networkName

	var rpcURL string
	var configured bool
	if r.foundryConfig != nil {
		rpcURL, configured = r.foundryConfig.RpcEndpoints[networkName]
	}

	switch {
	case configured:
		network.RPCURL = rpcURL
	case builtin:
		network.RPCURL = os.ExpandEnv(network.RPCURL)
	default:
		return nil, fmt.Errorf("network '%s' is not built in and not found in foundry.toml [rpc_endpoints]", networkName)
	}

	if network.RPCURL == "" {
		return nil, fmt.Errorf("network '%s' has no RPC URL (check your .env)", networkName)
	}

	if !builtin {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		chainID, err := r.fetchChainID(ctx, network.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
		}
		network.ChainID = chainID
	}

	network.ExplorerURL = r.explorerURL(networkName, network.ChainID)
	return &network, nil
}

// explorerURL returns the explorer URL for a network
func (r *NetworkResolver) explorerURL(networkName string, chainID uint64) string {
	if r.foundryConfig != nil {
		if etherscan, exists := r.foundryConfig.Etherscan[networkName]; exists && etherscan.URL != "" {
			return etherscan.URL
		}
	}

	switch chainID {
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 84532:
		return "https://sepolia.basescan.org"
	case 8453:
		return "https://basescan.org"
	case 80002:
		return "https://amoy.polygonscan.com"
	case 195:
		return "https://www.oklink.com/xlayer-test"
	default:
		return ""
	}
}

// fetchChainID asks the endpoint for its chain id
func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	return chainID.Uint64(), nil
}
