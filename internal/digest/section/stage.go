package section

import (
	"context"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/temporal"
)

const (
	StageNameT0Assignment = "t0_assignment"
	StageNameT1Decay      = "t1_decay"
)

// T0Stage implements spec.md §4.3.
type T0Stage struct{}

func NewT0Stage() *T0Stage { return &T0Stage{} }

func (s *T0Stage) Name() string        { return StageNameT0Assignment }
func (s *T0Stage) DependsOn() []string { return []string{temporal.StageName} }

func (s *T0Stage) Process(_ context.Context, dc *domain.Context) (domain.Result, error) {
	for _, email := range dc.FilteredEmails {
		tc := dc.TemporalContexts[email.ID]
		dc.SectionAssignmentsT0[email.ID] = AssignT0(email, tc)
	}
	return domain.Result{
		Success:        true,
		ItemsProcessed: len(dc.FilteredEmails),
		ItemsOutput:    len(dc.SectionAssignmentsT0),
	}, nil
}

// T1Stage implements spec.md §4.4.
type T1Stage struct{}

func NewT1Stage() *T1Stage { return &T1Stage{} }

func (s *T1Stage) Name() string        { return StageNameT1Decay }
func (s *T1Stage) DependsOn() []string { return []string{StageNameT0Assignment} }

func (s *T1Stage) Process(_ context.Context, dc *domain.Context) (domain.Result, error) {
	for _, email := range dc.FilteredEmails {
		t0 := dc.SectionAssignmentsT0[email.ID]
		tc := dc.TemporalContexts[email.ID]
		dc.SectionAssignments[email.ID] = DecayT0ToT1(t0, tc, dc.Now, dc.UserTimezone)
	}
	return domain.Result{
		Success:        true,
		ItemsProcessed: len(dc.FilteredEmails),
		ItemsOutput:    len(dc.SectionAssignments),
	}, nil
}
