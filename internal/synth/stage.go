package synth

import (
	"context"
	"regexp"
	"strings"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/enrich"
	"worker_server/internal/digest/port"
)

const StageName = "synthesis_and_rendering"

// Config carries the env-driven feature flags named in spec.md §6.
type Config struct {
	LLMSynthesisEnabled bool
	RawDigestEnabled    bool
	SynthesisPrompt     PromptVersion
}

// Stage implements spec.md §4.8.
type Stage struct {
	cfg       Config
	generator port.Generator
}

func New(cfg Config, generator port.Generator) *Stage {
	return &Stage{cfg: cfg, generator: generator}
}

func (s *Stage) Name() string        { return StageName }
func (s *Stage) DependsOn() []string { return []string{enrich.StageName} }

func (s *Stage) Process(ctx context.Context, dc *domain.Context) (domain.Result, error) {
	typeCounts := computeTypeCounts(dc.Emails)

	if dc.RawDigest || s.cfg.RawDigestEnabled {
		if raw, ok := generateRawDigest(ctx, s.generator, dc.Emails); ok {
			dc.DigestHTML = wrapDigestHTML([]string{raw}, typeCounts)
			return s.result(len(dc.Emails), "raw_llm"), nil
		}
	}

	if len(dc.FeaturedItems) == 0 && len(dc.NoiseSummary) > 0 {
		if narrative, ok := generateNoiseNarrative(ctx, s.generator, dc.NoiseSummary); ok {
			var parts []string
			if dc.Greeting != "" {
				parts = append(parts, `<div class="greeting">`+escapeHTML(dc.Greeting)+`</div>`)
			}
			parts = append(parts, narrative)
			dc.DigestHTML = wrapDigestHTML(parts, dc.NoiseSummary)
			return s.result(len(dc.FeaturedItems), "noise_narrative"), nil
		}
	}

	if s.cfg.LLMSynthesisEnabled {
		if editorial, ok := generateEditorialSynthesis(ctx, s.generator, dc, s.cfg.SynthesisPrompt); ok {
			dc.DigestHTML = wrapDigestHTML([]string{editorial}, dc.NoiseSummary)
			return s.result(len(dc.FeaturedItems), "llm_synthesis"), nil
		}
	}

	parts := renderDeterministic(dc)
	dc.DigestHTML = wrapDigestHTML(parts, dc.NoiseSummary)
	return s.result(len(dc.FeaturedItems), "deterministic"), nil
}

func (s *Stage) result(itemsProcessed int, renderer string) domain.Result {
	return domain.Result{
		Success:        true,
		ItemsProcessed: itemsProcessed,
		ItemsOutput:    1,
		Metadata:       map[string]any{"renderer": renderer},
	}
}

func computeTypeCounts(emails []domain.Email) map[string]int {
	counts := make(map[string]int)
	for _, e := range emails {
		t := e.Type
		if t == "" {
			t = "other"
		}
		counts[strings.ToLower(t)]++
	}
	return counts
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// PlainText strips tags from a rendered digest to produce the plain-text
// companion rendering named in the response shape (spec.md §6).
func PlainText(html string) string {
	withBreaks := strings.NewReplacer("<br>", "\n", "</div>", "\n", "</p>", "\n").Replace(html)
	stripped := tagPattern.ReplaceAllString(withBreaks, "")
	lines := strings.Split(stripped, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}
