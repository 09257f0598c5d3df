// Package pipeline implements the digest core's stage orchestrator: a
// linear, dependency-validated chain of stages mutating a shared context
// record, in the style of a staged classifier pipeline — named stages,
// each declaring its dependencies, validated into a DAG at construction.
package pipeline

import (
	"context"
	"fmt"

	"worker_server/internal/digest/domain"
	"worker_server/pkg/apperr"
	"worker_server/pkg/logger"
)

// Stage is one step of the digest pipeline. DependsOn names earlier
// stages by their Name(); construction validates the resulting graph is a
// DAG referencing only known, earlier stages.
type Stage interface {
	Name() string
	DependsOn() []string
	Process(ctx context.Context, dc *domain.Context) (domain.Result, error)
}

// Pipeline runs its stages in declared order. Validation is the only
// stage permitted to "fail" without halting the run; every other stage
// returning Success=false causes Run to stop and report fallback.
type Pipeline struct {
	stages []Stage
}

// New validates the stage list and returns a ready-to-run Pipeline.
// Validation enforces that every DependsOn entry names a stage appearing
// earlier in the list and that stage names are unique; violations return
// apperr.PipelineValidation (spec.md §4.1, §7).
func New(stages []Stage) (*Pipeline, error) {
	seen := make(map[string]bool, len(stages))
	for i, s := range stages {
		name := s.Name()
		if name == "" {
			return nil, apperr.PipelineValidation(fmt.Sprintf("stage at index %d has empty name", i))
		}
		if seen[name] {
			return nil, apperr.PipelineValidation(fmt.Sprintf("duplicate stage name: %s", name))
		}
		for _, dep := range s.DependsOn() {
			if !seen[dep] {
				return nil, apperr.PipelineValidation(fmt.Sprintf("stage %q depends on unknown or later stage %q", name, dep))
			}
		}
		seen[name] = true
	}
	return &Pipeline{stages: stages}, nil
}

// RunResult is what Run returns: whether the whole pipeline completed
// without a non-validation stage failure, the context it produced, and
// which stage (if any) caused a fallback.
type RunResult struct {
	Success      bool
	FailedStage  string
	Context      *domain.Context
	StageResults []domain.Result
}

// Run executes every stage in order against dc, stopping at the first
// non-validation stage reporting Success=false. Validation always reports
// success and records warnings in dc.ValidationErrors instead (spec.md
// §4.1).
func (p *Pipeline) Run(ctx context.Context, dc *domain.Context) RunResult {
	results := make([]domain.Result, 0, len(p.stages))
	for _, s := range p.stages {
		select {
		case <-ctx.Done():
			return RunResult{Success: false, FailedStage: s.Name(), Context: dc, StageResults: results}
		default:
		}

		res, err := s.Process(ctx, dc)
		res.StageName = s.Name()
		results = append(results, res)

		if err != nil {
			logger.Error("digest stage %s returned error: %v", s.Name(), err)
			return RunResult{Success: false, FailedStage: s.Name(), Context: dc, StageResults: results}
		}
		if !res.Success && s.Name() != "validation" {
			logger.Warn("digest stage %s reported failure, falling back", s.Name())
			return RunResult{Success: false, FailedStage: s.Name(), Context: dc, StageResults: results}
		}
	}
	return RunResult{Success: true, Context: dc, StageResults: results}
}
