package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CompileContractsParams contains parameters for compilation
type CompileContractsParams struct {
	// SkipBuild reuses existing compiler output
	SkipBuild bool
}

// CompileContractsResult contains the result of a compilation
type CompileContractsResult struct {
	Duration  time.Duration
	Selectors *GenerateSelectorsResult
	ABIs      *ExportABIsResult
}

// CompileContracts runs the compiler followed by every post-build task
type CompileContracts struct {
	builder   ContractBuilder
	selectors *GenerateSelectors
	abis      *ExportABIs
	progress  ProgressSink
	log       *slog.Logger
}

// NewCompileContracts creates a new CompileContracts use case
func NewCompileContracts(
	builder ContractBuilder,
	selectors *GenerateSelectors,
	abis *ExportABIs,
	progress ProgressSink,
	log *slog.Logger,
) *CompileContracts {
	return &CompileContracts{
		builder:   builder,
		selectors: selectors,
		abis:      abis,
		progress:  progress,
		log:       log.With("component", "CompileContracts"),
	}
}

// Run executes the use case
func (uc *CompileContracts) Run(ctx context.Context, params CompileContractsParams) (*CompileContractsResult, error) {
	start := time.Now()
	result := &CompileContractsResult{}

	if !params.SkipBuild {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageCompiling,
			Message: "Compiling contracts...",
			Spinner: true,
		})
		if err := uc.builder.Build(ctx); err != nil {
			uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompiling})
			return nil, fmt.Errorf("failed to build contracts: %w", err)
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCompiling,
		Message: "Generating function selectors...",
		Spinner: true,
	})
	selectors, err := uc.selectors.Run(ctx, GenerateSelectorsParams{})
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompiling})
		return nil, err
	}
	result.Selectors = selectors

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCompiling,
		Message: "Exporting ABIs...",
		Spinner: true,
	})
	abis, err := uc.abis.Run(ctx, ExportABIsParams{Clean: true})
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompiling})
		return nil, err
	}
	result.ABIs = abis

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	result.Duration = time.Since(start)
	uc.log.Debug("compile finished", "duration", result.Duration)

	return result, nil
}
