package config

import (
	"context"
	"errors"
	"testing"

	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkResolver_Resolve(t *testing.T) {
	t.Setenv("SEPOLIA_RPC_URL", "https://sepolia.example.org")
	t.Setenv("BERA_TESTNET_RPC_URL", "")

	foundry := &config.FoundryConfig{
		RpcEndpoints: map[string]string{
			"baseSepolia": "https://base-sepolia.example.org",
			"custom":      "https://custom.example.org",
		},
		Etherscan: map[string]config.EtherscanConfig{
			"custom": {URL: "https://explorer.custom.example.org"},
		},
	}

	tests := []struct {
		name        string
		network     string
		fetched     uint64
		fetchErr    error
		wantChainID uint64
		wantRPC     string
		wantExpl    string
		wantErr     string
	}{
		{
			name:        "builtin local",
			network:     "local",
			wantChainID: 31337,
			wantRPC:     "http://127.0.0.1:8545",
		},
		{
			name:        "builtin with env expansion",
			network:     "sepolia",
			wantChainID: 11155111,
			wantRPC:     "https://sepolia.example.org",
			wantExpl:    "https://sepolia.etherscan.io",
		},
		{
			name:        "foundry override of builtin",
			network:     "baseSepolia",
			wantChainID: 84532,
			wantRPC:     "https://base-sepolia.example.org",
			wantExpl:    "https://sepolia.basescan.org",
		},
		{
			name:        "custom network fetches chain id",
			network:     "custom",
			fetched:     42,
			wantChainID: 42,
			wantRPC:     "https://custom.example.org",
			wantExpl:    "https://explorer.custom.example.org",
		},
		{
			name:     "custom network fetch failure",
			network:  "custom",
			fetchErr: errors.New("connection refused"),
			wantErr:  "failed to fetch chain ID",
		},
		{
			name:    "builtin with unset env",
			network: "beraTestnet",
			wantErr: "has no RPC URL",
		},
		{
			name:    "unknown network",
			network: "nowhere",
			wantErr: "not built in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewNetworkResolver(foundry)
			resolver.fetchChainID = func(ctx context.Context, rpcURL string) (uint64, error) {
				return tt.fetched, tt.fetchErr
			}

			network, err := resolver.Resolve(tt.network)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.network, network.Name)
			assert.Equal(t, tt.wantChainID, network.ChainID)
			assert.Equal(t, tt.wantRPC, network.RPCURL)
			assert.Equal(t, tt.wantExpl, network.ExplorerURL)
		})
	}
}

func TestNetworkResolver_Names(t *testing.T) {
	resolver := NewNetworkResolver(&config.FoundryConfig{
		RpcEndpoints: map[string]string{"custom": "http://x", "local": "http://y"},
	})

	names := resolver.Names()
	assert.Contains(t, names, "custom")
	assert.Contains(t, names, "baseSepolia")
	assert.IsIncreasing(t, names)
	assert.Len(t, names, len(builtinNetworks)+1)
}
