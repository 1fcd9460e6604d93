package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestProvider(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foundry.toml"), `
[profile.default]
src = "contracts"
out = "target/out"

[rpc_endpoints]
local = "http://127.0.0.1:${OSP_TEST_PORT}"

[etherscan]
baseSepolia = { key = "${OSP_TEST_SCAN_KEY}", url = "https://api-sepolia.basescan.org/api" }
`)
	writeFile(t, filepath.Join(root, ".env"), "OSP_TEST_PORT=9545\nOSP_TEST_SCAN_KEY=abc\n")
	t.Setenv("AWS_KMS_KEY_ID", "")
	t.Setenv("DEPLOYER_PRIVATE_KEY", "")
	t.Cleanup(func() {
		os.Unsetenv("OSP_TEST_PORT")
		os.Unsetenv("OSP_TEST_SCAN_KEY")
	})

	v := SetupViper(root)
	v.Set("env", "beta")
	v.Set("dry_run", true)

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, "beta", cfg.Env)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)

	require.NotNil(t, cfg.Network)
	assert.Equal(t, "local", cfg.Network.Name)
	assert.Equal(t, uint64(31337), cfg.Network.ChainID)
	assert.Equal(t, "http://127.0.0.1:9545", cfg.Network.RPCURL)
	assert.True(t, cfg.Network.Local)

	assert.Equal(t, "target/out", cfg.FoundryConfig.OutDir())
	assert.Equal(t, "abc", cfg.FoundryConfig.Etherscan["baseSepolia"].Key)

	require.NotNil(t, cfg.Protocol)
	assert.Equal(t, "OSPT", cfg.Protocol.SBTSymbol)
	assert.False(t, cfg.Signer.UsesKMS())
}

func TestProviderSignerFromEnv(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foundry.toml"), "[profile.default]\n")
	t.Setenv("AWS_KMS_KEY_ID", "alias/deployer")
	t.Setenv("AWS_REGION", "ap-southeast-1")
	t.Setenv("DEPLOYER_PRIVATE_KEY", "0x01")

	cfg, err := Provider(SetupViper(root))
	require.NoError(t, err)

	assert.True(t, cfg.Signer.UsesKMS())
	assert.Equal(t, "alias/deployer", cfg.Signer.KMSKeyID)
	assert.Equal(t, "ap-southeast-1", cfg.Signer.KMSRegion)
	assert.Equal(t, "0x01", cfg.Signer.PrivateKey)
}

func TestProviderMissingFoundryToml(t *testing.T) {
	_, err := Provider(SetupViper(t.TempDir()))
	assert.Error(t, err)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foundry.toml"), "")
	nested := filepath.Join(root, "contracts", "core")
	require.NoError(t, os.MkdirAll(nested, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	found, err := FindProjectRoot()
	require.NoError(t, err)

	// TempDir may sit behind a symlink on some platforms
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
