package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func functionsABI(sigs ...string) string {
	parts := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		name, arg, _ := strings.Cut(strings.TrimSuffix(sig, ")"), "(")
		inputs := "[]"
		if arg != "" {
			inputs = fmt.Sprintf(`[{"name":"a","type":"%s"}]`, arg)
		}
		parts = append(parts, fmt.Sprintf(
			`{"type":"function","name":"%s","inputs":%s,"outputs":[],"stateMutability":"nonpayable"}`, name, inputs))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func sigSelector(sig string) string {
	return hexutil.Encode(crypto.Keccak256([]byte(sig))[:4])
}

type recordingSetupWriter struct {
	path  string
	lines []string
}

func (w *recordingSetupWriter) WriteRouterSetup(_ context.Context, path string, lines []string) error {
	w.path = path
	w.lines = lines
	return nil
}

type fakeExporter struct {
	cleaned  bool
	exported []string
	fail     map[string]bool
	mergeErr error
	merged   bool
}

func (e *fakeExporter) Clean(context.Context) error {
	e.cleaned = true
	return nil
}

func (e *fakeExporter) Export(_ context.Context, a *domain.Artifact) error {
	if e.fail[a.Name] {
		return errors.New("disk full")
	}
	e.exported = append(e.exported, a.Name)
	return nil
}

func (e *fakeExporter) MergeEvents(context.Context, string, string) error {
	if e.mergeErr != nil {
		return e.mergeErr
	}
	e.merged = true
	return nil
}

type fakeBuilder struct {
	err   error
	calls int
}

func (b *fakeBuilder) Build(context.Context) error {
	b.calls++
	return b.err
}

func buildConfig() *config.RuntimeConfig {
	cfg := testConfig()
	cfg.Protocol.Selectors = config.ArtifactPatterns{Only: []string{"core/logics/interfaces", "core/OspClient"}}
	cfg.Protocol.ABIExport = config.ArtifactPatterns{Only: []string{"contracts/"}, Except: []string{"interfaces/"}}
	cfg.Protocol.RouterSetupFile = "test/foundry/OspTestSetUp.sol"
	return cfg
}

func logicArtifacts() memArtifacts {
	return memArtifacts{
		"IProfileLogic": newArtifact("IProfileLogic", "contracts/core/logics/interfaces/IProfileLogic.sol",
			functionsABI("createProfile(string)", "burnProfile(uint256)")),
		"IContentLogic": newArtifact("IContentLogic", "contracts/core/logics/interfaces/IContentLogic.sol",
			functionsABI("post(string)")),
		"OspClient": newArtifact("OspClient", "contracts/core/OspClient.sol",
			functionsABI("createProfile(string)", "burnProfile(uint256)", "post(string)")),
		"ProfileLogic": newArtifact("ProfileLogic", "contracts/core/logics/ProfileLogic.sol",
			functionsABI("createProfile(string)", "burnProfile(uint256)")),
	}
}

func TestGenerateSelectors(t *testing.T) {
	ctx := context.Background()

	t.Run("writes selector maps and router setup", func(t *testing.T) {
		store := newMemSelectors()
		writer := &recordingSetupWriter{}
		uc := usecase.NewGenerateSelectors(buildConfig(), logicArtifacts(), store, writer, testLogger())

		result, err := uc.Run(ctx, usecase.GenerateSelectorsParams{})
		require.NoError(t, err)

		assert.True(t, store.cleaned)
		require.Len(t, result.Files, 3)
		assert.Equal(t, "OspClient", result.Files[0].Contract)
		assert.Equal(t, "core", result.Files[0].Dir)

		profile, err := store.Load(ctx, usecase.LogicInterfacesDir, "IProfileLogic")
		require.NoError(t, err)
		assert.Equal(t, sigSelector("createProfile(string)"), profile["createProfile(string)"])

		assert.Equal(t, "test/foundry/OspTestSetUp.sol", writer.path)
		assert.Equal(t, 3, result.RouterEntries)
		require.Len(t, writer.lines, 3)
		assert.Equal(t, fmt.Sprintf(
			`ospRouter.addRouter(IRouter.Router({functionSelector:hex"%s",functionSignature:"post(string)",routerAddress:address(contentLogic)}));`,
			strings.TrimPrefix(sigSelector("post(string)"), "0x"),
		), writer.lines[0])
		assert.Contains(t, writer.lines[1], "routerAddress:address(profileLogic)")
	})

	t.Run("duplicate selector across logic interfaces", func(t *testing.T) {
		artifacts := logicArtifacts()
		artifacts["IRelationLogic"] = newArtifact("IRelationLogic", "contracts/core/logics/interfaces/IRelationLogic.sol",
			functionsABI("post(string)"))
		uc := usecase.NewGenerateSelectors(buildConfig(), artifacts, newMemSelectors(), &recordingSetupWriter{}, testLogger())

		_, err := uc.Run(ctx, usecase.GenerateSelectorsParams{})
		var dup *domain.DuplicateSelectorError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "post(string)", dup.Signature)
		assert.Equal(t, "core/logics/interfaces/IRelationLogic", dup.Contract)
		assert.Equal(t, "core/logics/interfaces/IContentLogic", dup.ConflictContract)
	})

	t.Run("skip router setup", func(t *testing.T) {
		writer := &recordingSetupWriter{}
		uc := usecase.NewGenerateSelectors(buildConfig(), logicArtifacts(), newMemSelectors(), writer, testLogger())

		result, err := uc.Run(ctx, usecase.GenerateSelectorsParams{SkipRouterSetup: true})
		require.NoError(t, err)
		assert.Empty(t, result.RouterSetupFile)
		assert.Nil(t, writer.lines)
	})
}

func TestExportABIs(t *testing.T) {
	ctx := context.Background()

	t.Run("export failures are skipped", func(t *testing.T) {
		exporter := &fakeExporter{fail: map[string]bool{"ProfileLogic": true}}
		progress := &recordingProgress{}
		uc := usecase.NewExportABIs(buildConfig(), logicArtifacts(), exporter, progress, testLogger())

		result, err := uc.Run(ctx, usecase.ExportABIsParams{Clean: true})
		require.NoError(t, err)

		assert.True(t, exporter.cleaned)
		assert.Equal(t, []string{"contracts/core/OspClient.sol:OspClient"}, result.Exported)
		assert.Contains(t, result.Failed, "contracts/core/logics/ProfileLogic.sol:ProfileLogic")
		assert.True(t, result.ClientMerged)
		assert.Empty(t, progress.errors)
	})

	t.Run("client merge failure is not fatal", func(t *testing.T) {
		exporter := &fakeExporter{mergeErr: errors.New("OspEvents.json missing")}
		progress := &recordingProgress{}
		uc := usecase.NewExportABIs(buildConfig(), logicArtifacts(), exporter, progress, testLogger())

		result, err := uc.Run(ctx, usecase.ExportABIsParams{Only: []string{"OspClient"}})
		require.NoError(t, err)

		assert.False(t, exporter.cleaned)
		assert.Len(t, result.Exported, 1)
		assert.False(t, result.ClientMerged)
		assert.Len(t, progress.errors, 1)
	})
}

func TestCompileContracts(t *testing.T) {
	ctx := context.Background()

	newUC := func(builder *fakeBuilder, exporter *fakeExporter) *usecase.CompileContracts {
		cfg := buildConfig()
		selectors := usecase.NewGenerateSelectors(cfg, logicArtifacts(), newMemSelectors(), &recordingSetupWriter{}, testLogger())
		abis := usecase.NewExportABIs(cfg, logicArtifacts(), exporter, usecase.NopProgress{}, testLogger())
		return usecase.NewCompileContracts(builder, selectors, abis, usecase.NopProgress{}, testLogger())
	}

	t.Run("runs every post-build task", func(t *testing.T) {
		builder := &fakeBuilder{}
		exporter := &fakeExporter{}

		result, err := newUC(builder, exporter).Run(ctx, usecase.CompileContractsParams{})
		require.NoError(t, err)

		assert.Equal(t, 1, builder.calls)
		assert.Len(t, result.Selectors.Files, 3)
		assert.True(t, exporter.cleaned)
		assert.True(t, result.ABIs.ClientMerged)
	})

	t.Run("build failure stops the pipeline", func(t *testing.T) {
		builder := &fakeBuilder{err: errors.New("compiler error")}
		exporter := &fakeExporter{}

		_, err := newUC(builder, exporter).Run(ctx, usecase.CompileContractsParams{})
		require.Error(t, err)
		assert.Empty(t, exporter.exported)
	})

	t.Run("skip build", func(t *testing.T) {
		builder := &fakeBuilder{}

		_, err := newUC(builder, &fakeExporter{}).Run(ctx, usecase.CompileContractsParams{SkipBuild: true})
		require.NoError(t, err)
		assert.Zero(t, builder.calls)
	})
}
