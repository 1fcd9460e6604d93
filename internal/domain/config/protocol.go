package config

import (
	"github.com/ethereum/go-ethereum/common"
)

// ProtocolConfig holds protocol deployment settings from osp.yaml
type ProtocolConfig struct {
	SBTName         string `yaml:"sbt_name"`
	SBTSymbol       string `yaml:"sbt_symbol"`
	CommunityName   string `yaml:"community_name"`
	CommunitySymbol string `yaml:"community_symbol"`

	// Create2Factory is the deterministic deployment factory
	Create2Factory string `yaml:"create2_factory"`
	// VanityPrefix constrains mined CREATE2 addresses
	VanityPrefix string `yaml:"vanity_prefix"`

	// WhitelistTokens lists tokens whitelisted at deployment, by chain id
	WhitelistTokens map[uint64][]string `yaml:"whitelist_tokens"`
	// MetadataBaseURL is the NFT metadata base URL, by environment
	MetadataBaseURL map[string]string `yaml:"metadata_base_url"`
	// PresaleSigners is the presale signature condition signer, by environment
	PresaleSigners map[string]string `yaml:"presale_signers"`

	Selectors ArtifactPatterns `yaml:"selectors"`
	ABIExport ArtifactPatterns `yaml:"abi_export"`

	// ClientABI receives the events ABI after export
	ClientABI string `yaml:"client_abi"`
	EventsABI string `yaml:"events_abi"`
	// RouterSetupFile is the test setup the router wiring code is spliced into
	RouterSetupFile string `yaml:"router_setup_file"`
}

// ArtifactPatterns filters artifacts by fully qualified name
type ArtifactPatterns struct {
	Only   []string `yaml:"only"`
	Except []string `yaml:"except"`
}

// FactoryAddress returns the configured CREATE2 factory
func (p *ProtocolConfig) FactoryAddress() common.Address {
	return common.HexToAddress(p.Create2Factory)
}

// TokensFor returns the whitelisted tokens of a chain
func (p *ProtocolConfig) TokensFor(chainID uint64) []common.Address {
	raw := p.WhitelistTokens[chainID]
	tokens := make([]common.Address, 0, len(raw))
	for _, t := range raw {
		tokens = append(tokens, common.HexToAddress(t))
	}
	return tokens
}

// PresaleSigner returns the presale signer of an environment
func (p *ProtocolConfig) PresaleSigner(env string) (common.Address, bool) {
	raw, ok := p.PresaleSigners[env]
	if !ok || !common.IsHexAddress(raw) {
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}
