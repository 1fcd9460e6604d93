package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/domain/config"
)

// ExportABIsParams contains parameters for ABI export
type ExportABIsParams struct {
	// Only and Except override the configured patterns when set
	Only   []string
	Except []string
	Clean  bool
	// SkipClientMerge leaves the client ABI without the event definitions
	SkipClientMerge bool
}

// ExportABIsResult contains the result of an ABI export
type ExportABIsResult struct {
	Exported     []string
	Failed       map[string]error
	ClientMerged bool
}

// ExportABIs copies the ABI of matching contracts to target/abis.
// Individual failures are logged and skipped.
type ExportABIs struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	exporter  ABIExporter
	progress  ProgressSink
	log       *slog.Logger
}

// NewExportABIs creates a new ExportABIs use case
func NewExportABIs(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	exporter ABIExporter,
	progress ProgressSink,
	log *slog.Logger,
) *ExportABIs {
	return &ExportABIs{
		config:    cfg,
		artifacts: artifacts,
		exporter:  exporter,
		progress:  progress,
		log:       log.With("component", "ExportABIs"),
	}
}

// Run executes the use case
func (uc *ExportABIs) Run(ctx context.Context, params ExportABIsParams) (*ExportABIsResult, error) {
	filter := domain.ArtifactFilter{
		Only:   uc.config.Protocol.ABIExport.Only,
		Except: uc.config.Protocol.ABIExport.Except,
	}
	if len(params.Only) > 0 {
		filter.Only = params.Only
	}
	if len(params.Except) > 0 {
		filter.Except = params.Except
	}

	all, err := uc.artifacts.ListArtifacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	if params.Clean {
		if err := uc.exporter.Clean(ctx); err != nil {
			return nil, fmt.Errorf("failed to clean abis: %w", err)
		}
	}

	result := &ExportABIsResult{Failed: make(map[string]error)}
	for _, a := range all {
		if !filter.Match(a) {
			continue
		}
		if err := uc.exporter.Export(ctx, a); err != nil {
			uc.log.Warn("failed to export abi", "contract", a.FullyQualifiedName(), "error", err)
			result.Failed[a.FullyQualifiedName()] = err
			continue
		}
		result.Exported = append(result.Exported, a.FullyQualifiedName())
	}
	sort.Strings(result.Exported)

	if params.SkipClientMerge || uc.config.Protocol.ClientABI == "" || uc.config.Protocol.EventsABI == "" {
		return result, nil
	}

	if err := uc.exporter.MergeEvents(ctx, uc.config.Protocol.ClientABI, uc.config.Protocol.EventsABI); err != nil {
		uc.log.Warn("failed to merge events into client abi", "error", err)
		uc.progress.Error(fmt.Sprintf("Skipped client ABI merge: %v", err))
		return result, nil
	}
	result.ClientMerged = true

	return result, nil
}
