package synth

import (
	"context"
	"strconv"
	"strings"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/port"
	"worker_server/pkg/logger"
)

// PromptVersion selects the editorial prompt shape (MAILQ_SYNTHESIS_PROMPT).
type PromptVersion string

const (
	PromptV1 PromptVersion = "v1"
	PromptV2 PromptVersion = "v2"
)

func buildResolver(dc *domain.Context) idResolver {
	byID := make(map[string]domain.FeaturedItem, len(dc.FeaturedItems))
	for _, item := range dc.FeaturedItems {
		byID[item.ID()] = item
	}
	return func(id string) (string, bool, bool) {
		item, ok := byID[id]
		if !ok {
			return "", false, false
		}
		target, isThread := item.ThreadID()
		if target == "" {
			return "", false, false
		}
		return target, isThread, true
	}
}

// generateEditorialSynthesis implements generate_llm_digest_synthesis: an
// editorial LLM pass over the grouped featured items, producing prose with
// [[id|text]] placeholders that are then resolved to real mail-client
// links. Any failure returns ("", false) so the caller falls through to
// the deterministic renderer.
func generateEditorialSynthesis(ctx context.Context, gen port.Generator, dc *domain.Context, promptVersion PromptVersion) (string, bool) {
	if gen == nil || len(dc.FeaturedItems) == 0 {
		return "", false
	}

	prompt := buildEditorialPrompt(dc, promptVersion)
	raw, err := gen.Generate(ctx, prompt, port.GenerateConfig{Temperature: 0.4, MaxTokens: 900})
	if err != nil || strings.TrimSpace(raw) == "" {
		logger.Warn("editorial LLM synthesis failed or empty, falling back: %v", err)
		return "", false
	}

	cleaned := stripDismissiveLines(raw)
	if strings.TrimSpace(cleaned) == "" {
		return "", false
	}

	resolved := replaceLinkPlaceholders(cleaned, buildResolver(dc))
	return `<div class="section">` + strings.ReplaceAll(resolved, "\n", "<br>") + `</div>`, true
}

func buildEditorialPrompt(dc *domain.Context, version PromptVersion) string {
	var b strings.Builder
	b.WriteString("Write a short, warm digest of the following items. ")
	b.WriteString(`Reference each item once using the exact placeholder syntax [[id|short link text]]. `)
	if version == PromptV1 {
		b.WriteString("Keep it brief, one line per item.\n\n")
	} else {
		b.WriteString("Group naturally by urgency, two to three sentences per group.\n\n")
	}
	for _, item := range dc.FeaturedItems {
		b.WriteString("- id=" + item.ID() + " section=" + string(item.Section) + " title=" + item.DisplayTitle() + "\n")
	}
	return b.String()
}

// generateNoiseNarrative implements generate_noise_narrative: when every
// featured bucket is empty but noise exists, produce a short friendly
// summary of the routine pile instead of an empty digest.
func generateNoiseNarrative(ctx context.Context, gen port.Generator, noiseSummary map[string]int) (string, bool) {
	if gen == nil || len(noiseSummary) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("Write one friendly sentence summarizing a quiet inbox with only routine mail: ")
	for t, c := range noiseSummary {
		b.WriteString(strconv.Itoa(c) + " " + t + ", ")
	}

	raw, err := gen.Generate(ctx, b.String(), port.GenerateConfig{Temperature: 0.5, MaxTokens: 150})
	if err != nil || strings.TrimSpace(raw) == "" {
		logger.Warn("noise narrative generation failed: %v", err)
		return "", false
	}
	return `<div class="section"><p class="section-content">` + escapeHTML(strings.TrimSpace(raw)) + `</p></div>`, true
}

// generateRawDigest implements generate_raw_llm_digest: bypasses the
// structured pipeline entirely and asks the model to summarize the raw
// email batch directly.
func generateRawDigest(ctx context.Context, gen port.Generator, emails []domain.Email) (string, bool) {
	if gen == nil || len(emails) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("Summarize this raw inbox batch as a single short digest, no placeholders, plain prose:\n\n")
	for _, e := range emails {
		b.WriteString("- " + e.Subject + "\n")
	}

	raw, err := gen.Generate(ctx, b.String(), port.GenerateConfig{Temperature: 0.4, MaxTokens: 700})
	if err != nil || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return `<div class="section"><p class="section-content">` + escapeHTML(strings.TrimSpace(raw)) + `</p></div>`, true
}
