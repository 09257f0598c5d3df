// Package validate wraps internal/validate's fact verifier into the
// pipeline's final stage (spec.md §4.9): warnings only, never fatal.
package validate

import (
	"context"

	"worker_server/internal/digest/domain"
	"worker_server/internal/synth"
	"worker_server/internal/validate"
)

const StageName = "validation"

type Stage struct{}

func New() *Stage { return &Stage{} }

func (s *Stage) Name() string        { return StageName }
func (s *Stage) DependsOn() []string { return []string{synth.StageName} }

func (s *Stage) Process(_ context.Context, dc *domain.Context) (domain.Result, error) {
	var errs []string

	if dc.DigestHTML == "" {
		errs = append(errs, "digest_html is empty")
	}

	for _, item := range dc.FeaturedItems {
		if item.ID() == "" {
			errs = append(errs, "featured item missing identification")
		}
	}

	sources := make([]validate.SourceText, 0, len(dc.Entities))
	for _, e := range dc.Entities {
		sources = append(sources, validate.SourceText{Subject: e.SourceSubject, Snippet: e.SourceSnippet})
	}

	if len(sources) > 0 {
		_, factErrors := validate.Verify(dc.DigestHTML, sources)
		errs = append(errs, factErrors...)
	}

	dc.ValidationErrors = errs
	dc.Verified = len(errs) == 0

	return domain.Result{
		Success:        true,
		ItemsProcessed: len(dc.FeaturedItems),
		ItemsOutput:    len(errs),
		Metadata:       map[string]any{"errors": len(errs)},
	}, nil
}
