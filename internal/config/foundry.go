package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// loadDotEnv loads .env then .env.local. Variables already set in the
// process environment win.
func loadDotEnv(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadFoundryConfig loads and parses foundry.toml
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	foundryPath := filepath.Join(projectRoot, "foundry.toml")

	var raw config.FoundryConfig
	if _, err := toml.DecodeFile(foundryPath, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	cfg := &config.FoundryConfig{
		Profile:      raw.Profile,
		RpcEndpoints: make(map[string]string, len(raw.RpcEndpoints)),
		Etherscan:    make(map[string]config.EtherscanConfig, len(raw.Etherscan)),
	}

	for name, url := range raw.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}

	for network, ec := range raw.Etherscan {
		cfg.Etherscan[network] = config.EtherscanConfig{
			Key:     os.ExpandEnv(ec.Key),
			URL:     os.ExpandEnv(ec.URL),
			ChainID: ec.ChainID,
		}
	}

	return cfg, nil
}
