package pipeline

import (
	"context"
	"testing"
	"time"

	"worker_server/internal/digest/domain"
)

type fakeStage struct {
	name    string
	deps    []string
	success bool
	err     error
}

func (f *fakeStage) Name() string        { return f.name }
func (f *fakeStage) DependsOn() []string { return f.deps }
func (f *fakeStage) Process(_ context.Context, _ *domain.Context) (domain.Result, error) {
	return domain.Result{Success: f.success}, f.err
}

func TestNewRejectsUnknownDependency(t *testing.T) {
	stages := []Stage{
		&fakeStage{name: "a", success: true},
		&fakeStage{name: "b", deps: []string{"does_not_exist"}, success: true},
	}

	if _, err := New(stages); err == nil {
		t.Fatal("expected error for unknown dependency, got nil")
	}
}

func TestNewRejectsCycle(t *testing.T) {
	stages := []Stage{
		&fakeStage{name: "a", deps: []string{"b"}, success: true},
		&fakeStage{name: "b", deps: []string{"a"}, success: true},
	}

	if _, err := New(stages); err == nil {
		t.Fatal("expected error for cyclic dependency, got nil")
	}
}

func TestNewAcceptsValidDAG(t *testing.T) {
	stages := []Stage{
		&fakeStage{name: "a", success: true},
		&fakeStage{name: "b", deps: []string{"a"}, success: true},
	}

	if _, err := New(stages); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunHaltsOnStageError(t *testing.T) {
	stages := []Stage{
		&fakeStage{name: "a", success: true},
		&fakeStage{name: "b", deps: []string{"a"}, err: errBoom},
		&fakeStage{name: "c", deps: []string{"b"}, success: true},
	}

	p, err := New(stages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := p.Run(context.Background(), domain.NewContext(nil, time.Now(), nil, "", "", "", false))
	if result.Success {
		t.Fatal("expected pipeline failure")
	}
	if result.FailedStage != "b" {
		t.Fatalf("failed stage = %s, want b", result.FailedStage)
	}
	if len(result.StageResults) != 2 {
		t.Fatalf("expected 2 stage results (a, b), got %d", len(result.StageResults))
	}
}

func TestRunContinuesPastValidationStageFailure(t *testing.T) {
	stages := []Stage{
		&fakeStage{name: "validation", success: false},
	}

	p, err := New(stages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := p.Run(context.Background(), domain.NewContext(nil, time.Now(), nil, "", "", "", false))
	if !result.Success {
		t.Fatal("expected validation-stage failure to not halt the pipeline")
	}
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }
