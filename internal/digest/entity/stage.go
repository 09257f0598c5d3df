package entity

import (
	"context"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/port"
	"worker_server/internal/digest/section"
)

const StageName = "entity_extraction"

// Config controls whether the optional LLM path runs.
type Config struct {
	LLMEnabled bool
}

// Stage implements spec.md §4.6.
type Stage struct {
	cfg       Config
	generator port.Generator
}

func New(cfg Config, generator port.Generator) *Stage {
	return &Stage{cfg: cfg, generator: generator}
}

func (s *Stage) Name() string        { return StageName }
func (s *Stage) DependsOn() []string { return []string{section.StageNameNoiseElevation} }

func (s *Stage) Process(ctx context.Context, dc *domain.Context) (domain.Result, error) {
	byID := make(map[string]domain.Email, len(dc.FilteredEmails))
	for _, e := range dc.FilteredEmails {
		byID[e.ID] = e
	}

	entities := make([]domain.Entity, 0, len(dc.FilteredEmails))
	for _, email := range dc.FilteredEmails {
		sec := dc.SectionAssignments[email.ID]

		if sec == domain.SectionNoise || sec == domain.SectionSkip {
			if sec == domain.SectionNoise {
				dc.NoiseSummary[email.Type]++
			}
			continue
		}

		tc := dc.TemporalContexts[email.ID]
		patternResults := ExtractPattern(email, tc)

		var pattern *domain.Entity
		if len(patternResults) > 0 {
			pattern = &patternResults[0]
		}

		var llmResult *domain.Entity
		if s.cfg.LLMEnabled {
			llmResult = ExtractLLM(ctx, s.generator, email)
		}

		if pattern == nil && llmResult == nil {
			continue
		}

		receivedAt, ok := email.ParsedDate()
		if !ok {
			receivedAt = dc.Now
		}
		merged := mergeEntities(pattern, llmResult, receivedAt)

		merged.SourceEmailID = email.ID
		merged.SourceThreadID = email.ThreadID
		merged.SourceSubject = email.Subject
		merged.SourceSnippet = email.Snippet
		merged.Timestamp = dc.Now
		merged.Importance = importanceFor(sec)
		merged.StoredImportance = merged.Importance
		merged.ResolvedImportance = merged.Importance
		merged.DigestSection = sec

		entities = append(entities, merged)
	}

	dc.Entities = entities

	return domain.Result{
		Success:        true,
		ItemsProcessed: len(dc.FilteredEmails),
		ItemsOutput:    len(entities),
	}, nil
}

func importanceFor(sec domain.Section) string {
	switch sec {
	case domain.SectionCritical:
		return "critical"
	case domain.SectionToday, domain.SectionComingUp:
		return "time_sensitive"
	default:
		return "routine"
	}
}
