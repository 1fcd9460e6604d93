package senders

import (
	"fmt"
	"log/slog"

	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// DevAccountKey is the first well-known local development account
// (0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266)
const DevAccountKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80" //nolint:gosec // public test key

// NewSigner selects the transaction signer. A KMS key id wins over a
// private key, and without either the development account is used.
func NewSigner(cfg *config.RuntimeConfig, log *slog.Logger) (usecase.Signer, error) {
	log = log.With("component", "Signer")
	signerCfg := cfg.Signer

	switch {
	case signerCfg.UsesKMS():
		log.Debug("using kms signer", "key", signerCfg.KMSKeyID, "region", signerCfg.KMSRegion)
		return NewKMSSigner(signerCfg, log)
	case signerCfg.PrivateKey != "":
		signer, err := NewLocalSigner(signerCfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("invalid DEPLOYER_PRIVATE_KEY: %w", err)
		}
		log.Debug("using private key signer", "address", signer.address)
		return signer, nil
	default:
		if cfg.Network != nil && !cfg.Network.Local {
			log.Warn("no signer configured, using the development account", "network", cfg.Network.Name)
		}
		return NewLocalSigner(DevAccountKey)
	}
}
