package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// ABIDir is the ABI export directory relative to the project root
const ABIDir = "target/abis"

// exportedArtifact is the hardhat artifact layout consumers of target/abis expect
type exportedArtifact struct {
	Format                 string          `json:"_format"`
	ContractName           string          `json:"contractName"`
	SourceName             string          `json:"sourceName"`
	ABI                    json.RawMessage `json:"abi"`
	Bytecode               hexutil.Bytes   `json:"bytecode"`
	DeployedBytecode       hexutil.Bytes   `json:"deployedBytecode"`
	LinkReferences         struct{}        `json:"linkReferences"`
	DeployedLinkReferences struct{}        `json:"deployedLinkReferences"`
}

// ABIExporter writes exported artifacts to target/abis/<source dir>/<Contract>.json
type ABIExporter struct {
	baseDir string
}

// NewABIExporter creates a new ABI exporter
func NewABIExporter(cfg *config.RuntimeConfig) *ABIExporter {
	return &ABIExporter{baseDir: filepath.Join(cfg.ProjectRoot, ABIDir)}
}

// Clean removes every exported ABI
func (e *ABIExporter) Clean(ctx context.Context) error {
	return os.RemoveAll(e.baseDir)
}

// Export writes the artifact
func (e *ABIExporter) Export(ctx context.Context, artifact *domain.Artifact) error {
	if len(artifact.ABI) == 0 {
		return fmt.Errorf("%s has no abi", artifact.Name)
	}
	out := exportedArtifact{
		Format:           "hh-sol-artifact-1",
		ContractName:     artifact.Name,
		SourceName:       artifact.SourceName,
		ABI:              artifact.ABI,
		Bytecode:         orEmpty(artifact.Bytecode),
		DeployedBytecode: orEmpty(artifact.DeployedBytecode),
	}
	return writeJSON(e.path(path.Join(artifact.SourceDir(), artifact.Name)), out, bookIndent)
}

// MergeEvents appends the ABI of the exported events artifact to the exported
// client artifact. Both are given as <source dir>/<Contract>.
func (e *ABIExporter) MergeEvents(ctx context.Context, client, events string) error {
	var clientDoc map[string]json.RawMessage
	if err := readJSON(e.path(client), &clientDoc); err != nil {
		return fmt.Errorf("failed to read client abi: %w", err)
	}
	var eventsDoc struct {
		ABI []json.RawMessage `json:"abi"`
	}
	if err := readJSON(e.path(events), &eventsDoc); err != nil {
		return fmt.Errorf("failed to read events abi: %w", err)
	}

	var abi []json.RawMessage
	if raw, ok := clientDoc["abi"]; ok {
		if err := json.Unmarshal(raw, &abi); err != nil {
			return fmt.Errorf("failed to parse client abi: %w", err)
		}
	}
	abi = append(abi, eventsDoc.ABI...)

	merged, err := json.Marshal(abi)
	if err != nil {
		return err
	}
	clientDoc["abi"] = merged
	return writeJSON(e.path(client), clientDoc, artifactIndent)
}

func (e *ABIExporter) path(name string) string {
	return filepath.Join(e.baseDir, filepath.FromSlash(name)+".json")
}

// orEmpty keeps "0x" for contracts without code, e.g. interfaces
func orEmpty(b []byte) hexutil.Bytes {
	if b == nil {
		return hexutil.Bytes{}
	}
	return b
}

var _ usecase.ABIExporter = (*ABIExporter)(nil)
