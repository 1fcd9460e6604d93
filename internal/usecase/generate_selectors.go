package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// LogicInterfacesDir is the selector directory the router wiring is generated from
const LogicInterfacesDir = "core/logics/interfaces"

// GenerateSelectorsParams contains parameters for selector generation
type GenerateSelectorsParams struct {
	// Patterns overrides the configured include patterns
	Patterns []string
	// SkipRouterSetup leaves the test setup file untouched
	SkipRouterSetup bool
}

// SelectorFile describes one written selector map
type SelectorFile struct {
	Dir       string
	Contract  string
	Functions int
}

// GenerateSelectorsResult contains the result of selector generation
type GenerateSelectorsResult struct {
	Files           []SelectorFile
	RouterSetupFile string
	RouterEntries   int
}

// GenerateSelectors writes the function selector map of every matching
// contract and regenerates the router wiring of the test setup
type GenerateSelectors struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	store     SelectorStore
	writer    RouterSetupWriter
	log       *slog.Logger
}

// NewGenerateSelectors creates a new GenerateSelectors use case
func NewGenerateSelectors(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	store SelectorStore,
	writer RouterSetupWriter,
	log *slog.Logger,
) *GenerateSelectors {
	return &GenerateSelectors{
		config:    cfg,
		artifacts: artifacts,
		store:     store,
		writer:    writer,
		log:       log.With("component", "GenerateSelectors"),
	}
}

// Run executes the use case
func (uc *GenerateSelectors) Run(ctx context.Context, params GenerateSelectorsParams) (*GenerateSelectorsResult, error) {
	filter := domain.ArtifactFilter{
		Only:   uc.config.Protocol.Selectors.Only,
		Except: uc.config.Protocol.Selectors.Except,
	}
	if len(params.Patterns) > 0 {
		filter.Only = params.Patterns
	}

	all, err := uc.artifacts.ListArtifacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	var matched []*domain.Artifact
	for _, a := range all {
		if filter.Match(a) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].FullyQualifiedName() < matched[j].FullyQualifiedName()
	})

	if err := uc.store.Clean(ctx); err != nil {
		return nil, fmt.Errorf("failed to clean selectors: %w", err)
	}

	// The aggregate client re-exports every logic function
	client := []string{path.Base(uc.config.Protocol.ClientABI)}

	result := &GenerateSelectorsResult{}
	owners := make(map[string]string)
	for _, a := range matched {
		parsed, err := a.ParsedABI()
		if err != nil {
			return nil, err
		}
		selectors := domain.SelectorsFromABI(parsed)

		if !a.MatchesAny(client) {
			for _, sig := range selectors.Signatures() {
				sel := selectors[sig]
				if owner, exists := owners[sel]; exists {
					return nil, &domain.DuplicateSelectorError{
						Signature:        sig,
						Selector:         sel,
						Contract:         contractPath(a),
						ConflictContract: owner,
					}
				}
				owners[sel] = contractPath(a)
			}
		}

		if err := uc.store.Save(ctx, a.SourceDir(), a.Name, selectors); err != nil {
			return nil, fmt.Errorf("failed to save selectors of %s: %w", a.Name, err)
		}
		uc.log.Debug("wrote selectors", "contract", a.Name, "functions", len(selectors))
		result.Files = append(result.Files, SelectorFile{Dir: a.SourceDir(), Contract: a.Name, Functions: len(selectors)})
	}

	if params.SkipRouterSetup || uc.config.Protocol.RouterSetupFile == "" {
		return result, nil
	}

	lines, err := uc.routerSetupLines(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return result, nil
	}
	if err := uc.writer.WriteRouterSetup(ctx, uc.config.Protocol.RouterSetupFile, lines); err != nil {
		return nil, fmt.Errorf("failed to write router setup: %w", err)
	}
	result.RouterSetupFile = uc.config.Protocol.RouterSetupFile
	result.RouterEntries = len(lines)

	return result, nil
}

// routerSetupLines renders one addRouter statement per logic interface function
func (uc *GenerateSelectors) routerSetupLines(ctx context.Context) ([]string, error) {
	files, err := uc.store.List(ctx, LogicInterfacesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list logic selectors: %w", err)
	}

	var lines []string
	for _, file := range files {
		if !strings.HasPrefix(file, "I") {
			continue
		}
		contract := strings.TrimSuffix(file, ".json")
		selectors, err := uc.store.Load(ctx, LogicInterfacesDir, contract)
		if err != nil {
			return nil, err
		}
		logic := domain.RouterVariableName(file)
		for _, sig := range selectors.Signatures() {
			lines = append(lines, fmt.Sprintf(
				`ospRouter.addRouter(IRouter.Router({functionSelector:hex"%s",functionSignature:"%s",routerAddress:address(%s)}));`,
				strings.TrimPrefix(selectors[sig], "0x"), sig, logic,
			))
		}
	}
	return lines, nil
}

// contractPath returns the source path without root and extension, e.g. core/logics/interfaces/IProfileLogic
func contractPath(a *domain.Artifact) string {
	if dir := a.SourceDir(); dir != "" {
		return dir + "/" + a.Name
	}
	return a.Name
}
