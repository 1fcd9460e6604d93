package config

// FoundryConfig represents the parts of foundry.toml the tool reads
type FoundryConfig struct {
	Profile      map[string]ProfileConfig   `toml:"profile"`
	RpcEndpoints map[string]string          `toml:"rpc_endpoints"`
	Etherscan    map[string]EtherscanConfig `toml:"etherscan,omitempty"`
}

// EtherscanConfig represents Etherscan configuration for a network
// This matches Foundry's expected structure
type EtherscanConfig struct {
	Key     string `toml:"key,omitempty"`
	URL     string `toml:"url,omitempty"`
	ChainID any    `toml:"chain,omitempty"`
}

// ProfileConfig represents a profile's foundry configuration
type ProfileConfig struct {
	SrcPath  string `toml:"src,omitempty"`
	OutPath  string `toml:"out,omitempty"`
	TestPath string `toml:"test,omitempty"`
}

// OutDir returns the artifact directory of the default profile
func (c *FoundryConfig) OutDir() string {
	if c != nil {
		if p, ok := c.Profile["default"]; ok && p.OutPath != "" {
			return p.OutPath
		}
	}
	return "out"
}
