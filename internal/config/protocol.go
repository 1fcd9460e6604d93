package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"gopkg.in/yaml.v3"
)

// ProtocolFileName is the optional protocol settings file in the project root
const ProtocolFileName = "osp.yaml"

// DefaultProtocolConfig returns the settings used when osp.yaml is absent
func DefaultProtocolConfig() *config.ProtocolConfig {
	return &config.ProtocolConfig{
		SBTName:         "OpenSocial Protocol Profiles",
		SBTSymbol:       "OSPT",
		CommunityName:   "OpenSocial Protocol Community",
		CommunitySymbol: "OSPC",
		Create2Factory:  domain.Create2FactoryAddress.Hex(),
		VanityPrefix:    "000000",
		WhitelistTokens: map[uint64][]string{
			11155111: {
				"0x12b5B2fbF734fcd8C22a07C32f28D51F69775fC2",
				"0xcfFE58F09FfB9d4AE5f92449EA4aC75edD87e779",
			},
			80002: {
				"0xf1286A6c17C1DC41D4DC5166751579a61D7aa6fC",
				"0xbF3299b4C9eA7CdB7373836E75633FE2696157b0",
			},
			84532: {
				"0x323e78f944A9a1FcF3a10efcC5319DBb0bB6e673",
				"0xAa8Ff530B040A36eaF29CF161F79b44F4e76d254",
			},
		},
		MetadataBaseURL: map[string]string{
			"dev":  "https://dev.opensocial.trex.xyz/v2/meta/",
			"beta": "https://opensocial.trex.xyz/v2/meta/",
			"pre":  "https://api.opensocial.fun/v2/meta/",
		},
		PresaleSigners: map[string]string{
			"dev":  "0x511436a5199827dd1aa37462a680921a410d0947",
			"beta": "0x511436a5199827dd1aa37462a680921a410d0947",
			"pre":  "0xee59c698401c9f7a949b8c1d3012c57349acb82d",
			"prod": "0xca2771d61e2bde5c005cc44f6fab3845b2c180e3",
		},
		Selectors: config.ArtifactPatterns{
			Only: []string{"core/logics/interfaces"},
		},
		ABIExport: config.ArtifactPatterns{
			Only: []string{
				"ERC721BurnableUpgradeable",
				"OspDataTypes",
				"OspErrors",
				"OspClient",
				"OspEvents",
				"plugins",
				"core/conditions/join",
				"core/conditions/community",
				"contracts/token/SlotNFT",
				"contracts/token/Token",
			},
			Except: []string{"PluginBase", "openzeppelin"},
		},
		ClientABI:       "core/logics/interfaces/OspClient",
		EventsABI:       "libraries/OspEvents",
		RouterSetupFile: "test/foundry/OspTestSetUp.sol",
	}
}

// LoadProtocolConfig reads osp.yaml over the defaults. Keys absent from the
// file keep their default value and map entries are merged key by key.
func LoadProtocolConfig(projectRoot string) (*config.ProtocolConfig, error) {
	cfg := DefaultProtocolConfig()

	data, err := os.ReadFile(filepath.Join(projectRoot, ProtocolFileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ProtocolFileName, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProtocolFileName, err)
	}
	return cfg, nil
}
