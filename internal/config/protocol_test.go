package config

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProtocolConfig_Defaults(t *testing.T) {
	cfg, err := LoadProtocolConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "OpenSocial Protocol Profiles", cfg.SBTName)
	assert.Equal(t, domain.Create2FactoryAddress, cfg.FactoryAddress())
	assert.Len(t, cfg.TokensFor(84532), 2)
	assert.Empty(t, cfg.TokensFor(1))

	signer, ok := cfg.PresaleSigner("prod")
	assert.True(t, ok)
	assert.Equal(t, common.HexToAddress("0xca2771d61e2bde5c005cc44f6fab3845b2c180e3"), signer)

	_, ok = cfg.PresaleSigner("staging")
	assert.False(t, ok)
}

func TestLoadProtocolConfig_Merge(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProtocolFileName), `
sbt_symbol: TEST
vanity_prefix: "0000"
whitelist_tokens:
  8453:
    - "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
metadata_base_url:
  prod: https://meta.example.org/
abi_export:
  only: [OspClient]
`)

	cfg, err := LoadProtocolConfig(root)
	require.NoError(t, err)

	assert.Equal(t, "TEST", cfg.SBTSymbol)
	assert.Equal(t, "OpenSocial Protocol Profiles", cfg.SBTName)
	assert.Equal(t, "0000", cfg.VanityPrefix)

	assert.Len(t, cfg.TokensFor(8453), 1)
	assert.Len(t, cfg.TokensFor(84532), 2)

	assert.Equal(t, "https://meta.example.org/", cfg.MetadataBaseURL["prod"])
	assert.Equal(t, "https://dev.opensocial.trex.xyz/v2/meta/", cfg.MetadataBaseURL["dev"])

	assert.Equal(t, []string{"OspClient"}, cfg.ABIExport.Only)
	assert.Equal(t, []string{"PluginBase", "openzeppelin"}, cfg.ABIExport.Except)
}

func TestLoadProtocolConfig_Invalid(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ProtocolFileName), "sbt_name: [unterminated")

	_, err := LoadProtocolConfig(root)
	assert.Error(t, err)
}
