package contracts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, root, source, name, bytecode string) {
	t.Helper()
	dir := filepath.Join(root, "out", filepath.Base(source))
	if strings.HasPrefix(source, "lib/") {
		// forge nests artifacts whose file names collide
		dir = filepath.Join(root, "out", source)
	}
	require.NoError(t, os.MkdirAll(dir, 0755))
	doc := fmt.Sprintf(`{
  "abi": [],
  "bytecode": {"object": %q},
  "deployedBytecode": {"object": %q},
  "metadata": {"settings": {"compilationTarget": {%q: %q}}}
}`, bytecode, bytecode, source, name)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(doc), 0644))
}

func newTestIndexer(t *testing.T) (*Indexer, string) {
	t.Helper()
	root := t.TempDir()
	writeArtifact(t, root, "contracts/core/logics/ProfileLogic.sol", "ProfileLogic", "0x6080")
	writeArtifact(t, root, "contracts/core/logics/interfaces/IProfileLogic.sol", "IProfileLogic", "0x")
	writeArtifact(t, root, "contracts/upgradeability/ERC1967Proxy.sol", "ERC1967Proxy", "0x6001")
	writeArtifact(t, root, "lib/openzeppelin-contracts/contracts/proxy/ERC1967/ERC1967Proxy.sol", "ERC1967Proxy", "0x6002")

	// build info and stray files are ignored
	require.NoError(t, os.MkdirAll(filepath.Join(root, "out", "build-info"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "build-info", "abc.json"), []byte(`{"id":"abc"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "out", "notes.json"), []byte(`[1,2]`), 0644))

	return NewIndexer(&config.RuntimeConfig{ProjectRoot: root}), root
}

func TestIndexer(t *testing.T) {
	ctx := context.Background()

	t.Run("lists every contract including interfaces", func(t *testing.T) {
		indexer, _ := newTestIndexer(t)
		list, err := indexer.ListArtifacts(ctx)
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, "contracts/core/logics/ProfileLogic.sol:ProfileLogic", list[0].FullyQualifiedName())

		iface, err := indexer.GetArtifact(ctx, "IProfileLogic")
		require.NoError(t, err)
		assert.Empty(t, iface.Bytecode)
	})

	t.Run("prefers project sources", func(t *testing.T) {
		indexer, _ := newTestIndexer(t)
		proxy, err := indexer.GetArtifact(ctx, "ERC1967Proxy")
		require.NoError(t, err)
		assert.Equal(t, "contracts/upgradeability/ERC1967Proxy.sol", proxy.SourceName)
		assert.Equal(t, []byte{0x60, 0x01}, proxy.Bytecode)
	})

	t.Run("fully qualified lookup", func(t *testing.T) {
		indexer, _ := newTestIndexer(t)
		proxy, err := indexer.GetArtifact(ctx, "lib/openzeppelin-contracts/contracts/proxy/ERC1967/ERC1967Proxy.sol:ERC1967Proxy")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x02}, proxy.Bytecode)
	})

	t.Run("unknown contract", func(t *testing.T) {
		indexer, _ := newTestIndexer(t)
		_, err := indexer.GetArtifact(ctx, "Nope")
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
	})

	t.Run("refresh picks up new artifacts", func(t *testing.T) {
		indexer, root := newTestIndexer(t)
		_, err := indexer.GetArtifact(ctx, "ContentLogic")
		require.Error(t, err)

		writeArtifact(t, root, "contracts/core/logics/ContentLogic.sol", "ContentLogic", "0x6080")
		indexer.Refresh()
		_, err = indexer.GetArtifact(ctx, "ContentLogic")
		assert.NoError(t, err)
	})

	t.Run("missing output directory", func(t *testing.T) {
		indexer := NewIndexer(&config.RuntimeConfig{ProjectRoot: t.TempDir()})
		_, err := indexer.ListArtifacts(ctx)
		assert.Error(t, err)
	})
}
