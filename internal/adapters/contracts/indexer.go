package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
)

// foundryArtifact is the subset of a forge out/ artifact the indexer reads
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
	DeployedBytecode struct {
		Object string `json:"object"`
	} `json:"deployedBytecode"`
	Metadata struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// Indexer discovers compiled contracts in the forge output directory.
// The index is built on first use, so a build that runs earlier in the
// same command is picked up.
type Indexer struct {
	projectRoot string
	outDir      string

	mu        sync.RWMutex
	indexed   bool
	artifacts map[string]*domain.Artifact   // key: source:Name
	byName    map[string][]*domain.Artifact // key: contract name
}

// NewIndexer creates a new artifact indexer
func NewIndexer(cfg *config.RuntimeConfig) *Indexer {
	return &Indexer{
		projectRoot: cfg.ProjectRoot,
		outDir:      filepath.Join(cfg.ProjectRoot, cfg.FoundryConfig.OutDir()),
	}
}

// Refresh drops the index so the next lookup re-reads the output directory
func (i *Indexer) Refresh() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed = false
}

func (i *Indexer) ensureIndexed() error {
	i.mu.RLock()
	done := i.indexed
	i.mu.RUnlock()
	if done {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.indexed {
		return nil
	}
	if err := i.index(); err != nil {
		return err
	}
	i.indexed = true
	return nil
}

// index walks the output directory. Caller holds the write lock.
func (i *Indexer) index() error {
	i.artifacts = make(map[string]*domain.Artifact)
	i.byName = make(map[string][]*domain.Artifact)

	if _, err := os.Stat(i.outDir); os.IsNotExist(err) {
		return fmt.Errorf("output directory %s not found, run compile first", i.outDir)
	}

	return filepath.Walk(i.outDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}
		return i.processArtifact(path)
	})
}

// processArtifact indexes a single artifact file. Files that aren't contract
// artifacts are skipped.
func (i *Indexer) processArtifact(artifactPath string) error {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return err
	}

	var raw foundryArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	// there should only be one entry
	var name, source string
	for s, c := range raw.Metadata.Settings.CompilationTarget {
		source, name = s, c
	}
	if name == "" || source == "" {
		return nil
	}

	bytecode, err := decodeObject(raw.Bytecode.Object)
	if err != nil {
		return fmt.Errorf("%s: bad bytecode: %w", artifactPath, err)
	}
	deployed, err := decodeObject(raw.DeployedBytecode.Object)
	if err != nil {
		return fmt.Errorf("%s: bad deployed bytecode: %w", artifactPath, err)
	}

	rel, _ := filepath.Rel(i.projectRoot, artifactPath)
	artifact := &domain.Artifact{
		Name:             name,
		SourceName:       source,
		ABI:              raw.ABI,
		Bytecode:         bytecode,
		DeployedBytecode: deployed,
		Path:             rel,
	}

	// multi-version builds emit one artifact per compiler version
	key := artifact.FullyQualifiedName()
	if _, exists := i.artifacts[key]; exists {
		return nil
	}
	i.artifacts[key] = artifact
	i.byName[name] = append(i.byName[name], artifact)
	return nil
}

// decodeObject decodes a bytecode object. Interfaces and abstract contracts
// have none. Unlinked library placeholders are not valid hex and fail here.
func decodeObject(object string) ([]byte, error) {
	if object == "" || object == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(object, "0x") {
		object = "0x" + object
	}
	return hexutil.Decode(object)
}

// GetArtifact returns a contract by name or source:Name. When several
// contracts share a name, the one under the project source root wins.
func (i *Indexer) GetArtifact(ctx context.Context, key string) (*domain.Artifact, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if artifact, ok := i.artifacts[key]; ok {
		return artifact, nil
	}

	candidates := i.byName[key]
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%s: %w", key, domain.ErrContractNotFound)
	case 1:
		return candidates[0], nil
	}

	var project []*domain.Artifact
	for _, a := range candidates {
		if strings.HasPrefix(a.SourceName, domain.SourceRoot) {
			project = append(project, a)
		}
	}
	if len(project) == 1 {
		return project[0], nil
	}

	names := make([]string, 0, len(candidates))
	for _, a := range candidates {
		names = append(names, a.FullyQualifiedName())
	}
	sort.Strings(names)
	return nil, fmt.Errorf("contract name %s is ambiguous, use one of: %s", key, strings.Join(names, ", "))
}

// ListArtifacts returns every indexed artifact sorted by fully qualified name
func (i *Indexer) ListArtifacts(ctx context.Context) ([]*domain.Artifact, error) {
	if err := i.ensureIndexed(); err != nil {
		return nil, err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	list := make([]*domain.Artifact, 0, len(i.artifacts))
	for _, a := range i.artifacts {
		list = append(list, a)
	}
	sort.Slice(list, func(a, b int) bool {
		return list[a].FullyQualifiedName() < list[b].FullyQualifiedName()
	})
	return list, nil
}

var _ usecase.ArtifactRepository = (*Indexer)(nil)
