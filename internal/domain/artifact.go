package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/samber/lo"
)

// SourceRoot is the directory contract sources live under
const SourceRoot = "contracts/"

// Artifact is a compiled contract
type Artifact struct {
	Name             string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         []byte          `json:"-"`
	DeployedBytecode []byte          `json:"-"`
	Path             string          `json:"-"`
}

// FullyQualifiedName returns source:Name
func (a *Artifact) FullyQualifiedName() string {
	return a.SourceName + ":" + a.Name
}

// SourceDir returns the source directory relative to the source root,
// e.g. core/logics/interfaces for contracts/core/logics/interfaces/IProfileLogic.sol
func (a *Artifact) SourceDir() string {
	rel := strings.TrimPrefix(a.SourceName, SourceRoot)
	dir := path.Dir(rel)
	if dir == "." {
		return ""
	}
	return dir
}

// ParsedABI parses the artifact ABI
func (a *Artifact) ParsedABI() (*abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", a.Name, err)
	}
	return &parsed, nil
}

// InitCode returns creation bytecode followed by the ABI-encoded constructor arguments
func (a *Artifact) InitCode(args ...any) ([]byte, error) {
	if len(a.Bytecode) == 0 {
		return nil, fmt.Errorf("%s has no creation bytecode", a.Name)
	}
	parsed, err := a.ParsedABI()
	if err != nil {
		return nil, err
	}
	packed, err := parsed.Pack("", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s constructor arguments: %w", a.Name, err)
	}
	code := make([]byte, 0, len(a.Bytecode)+len(packed))
	code = append(code, a.Bytecode...)
	return append(code, packed...), nil
}

// MatchesAny reports whether the fully qualified name contains any of the patterns
func (a *Artifact) MatchesAny(patterns []string) bool {
	fqn := a.FullyQualifiedName()
	return lo.SomeBy(patterns, func(p string) bool {
		return p != "" && strings.Contains(fqn, p)
	})
}

// ArtifactFilter selects artifacts by fully qualified name
type ArtifactFilter struct {
	Only   []string
	Except []string
}

// Match applies the filter. An empty Only list admits everything.
func (f ArtifactFilter) Match(a *Artifact) bool {
	if len(f.Only) > 0 && !a.MatchesAny(f.Only) {
		return false
	}
	return len(f.Except) == 0 || !a.MatchesAny(f.Except)
}
