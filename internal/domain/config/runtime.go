package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Env     string   // deployment environment (dev, beta, pre, prod, local)
	Network *Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	DryRun         bool // print calldata instead of broadcasting
	Timeout        time.Duration

	// Resolved configurations
	FoundryConfig *FoundryConfig
	Protocol      *ProtocolConfig
	Signer        SignerConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Local       bool   `json:"local,omitempty"`
}

// SignerConfig selects the transaction signer.
// A KMS key id takes precedence over a private key.
type SignerConfig struct {
	KMSKeyID        string
	KMSRegion       string
	AccessKeyID     string
	SecretAccessKey string
	PrivateKey      string //nolint:gosec // loaded from the environment
}

// UsesKMS reports whether the KMS signer is selected
func (s SignerConfig) UsesKMS() bool {
	return s.KMSKeyID != ""
}
