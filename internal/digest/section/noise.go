package section

import (
	"context"
	"math"
	"strconv"
	"strings"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/port"
	"worker_server/pkg/logger"
)

// guardrailPhrases is the fixed Phase-1 allow-list (spec.md §4.5): any
// match elevates a noise-classified email to worth_knowing regardless of
// the editor LLM.
var guardrailPhrases = []string{
	"verify-your", "verify your", "suspicious", "unusual sign-in",
	"payment failed", "action required", "final notice", "verify within",
}

// NoiseElevationConfig bounds the optional Phase-2 editor LLM pass.
type NoiseElevationConfig struct {
	LLMEnabled         bool
	MaxSample          int
	MaxPromptChars     int
	DedupSimilarity    float64 // cosine threshold above which two subjects are treated as duplicates; 0 disables dedup
}

// DefaultNoiseElevationConfig matches the implementer-discretion defaults
// recorded in SPEC_FULL.md §12 / spec.md §9 open question 2.
func DefaultNoiseElevationConfig() NoiseElevationConfig {
	return NoiseElevationConfig{LLMEnabled: false, MaxSample: 20, MaxPromptChars: 8000, DedupSimilarity: 0.92}
}

const StageNameNoiseElevation = "noise_elevation"

// NoiseElevationStage implements spec.md §4.5. Phase 1 (keyword
// guardrails) always runs; Phase 2 (editor LLM) is feature-flagged and
// any failure leaves Phase-1 results untouched.
type NoiseElevationStage struct {
	cfg       NoiseElevationConfig
	generator port.Generator
	embedder  port.Embedder
}

func NewNoiseElevationStage(cfg NoiseElevationConfig, generator port.Generator, embedder port.Embedder) *NoiseElevationStage {
	return &NoiseElevationStage{cfg: cfg, generator: generator, embedder: embedder}
}

func (s *NoiseElevationStage) Name() string        { return StageNameNoiseElevation }
func (s *NoiseElevationStage) DependsOn() []string { return []string{StageNameT1Decay} }

func (s *NoiseElevationStage) Process(ctx context.Context, dc *domain.Context) (domain.Result, error) {
	byID := make(map[string]domain.Email, len(dc.FilteredEmails))
	for _, e := range dc.FilteredEmails {
		byID[e.ID] = e
	}

	var noiseIDs []string
	for _, e := range dc.FilteredEmails {
		if dc.SectionAssignments[e.ID] == domain.SectionNoise {
			noiseIDs = append(noiseIDs, e.ID)
		}
	}

	elevated := 0
	var remainingForPhase2 []string
	for _, id := range noiseIDs {
		email := byID[id]
		if guardrailMatch(email) {
			dc.SectionAssignments[id] = domain.SectionWorthKnowing
			elevated++
			continue
		}
		remainingForPhase2 = append(remainingForPhase2, id)
	}

	if s.cfg.LLMEnabled && s.generator != nil && len(remainingForPhase2) > 0 {
		elevated += s.runPhase2(ctx, dc, byID, remainingForPhase2)
	}

	return domain.Result{
		Success:        true,
		ItemsProcessed: len(noiseIDs),
		ItemsOutput:    elevated,
		Metadata:       map[string]any{"elevated": elevated},
	}, nil
}

func guardrailMatch(email domain.Email) bool {
	text := strings.ToLower(email.Subject + " " + email.Snippet)
	for _, phrase := range guardrailPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func (s *NoiseElevationStage) runPhase2(ctx context.Context, dc *domain.Context, byID map[string]domain.Email, ids []string) int {
	representatives, clusters := s.dedupe(ctx, byID, ids)

	sample := representatives
	if len(sample) > s.cfg.MaxSample {
		sample = sample[:s.cfg.MaxSample]
	}

	var b strings.Builder
	b.WriteString("For each numbered email, reply elevate or keep_noise on its own line.\n")
	for i, id := range sample {
		email := byID[id]
		line := "\n" + strconv.Itoa(i+1) + ". " + email.Subject + " - " + truncate(email.Snippet, 120) + "\n"
		if b.Len()+len(line) > s.cfg.MaxPromptChars {
			break
		}
		b.WriteString(line)
	}

	resp, err := s.generator.Generate(ctx, b.String(), port.GenerateConfig{Temperature: 0, MaxTokens: 512})
	if err != nil {
		logger.Warn("noise elevation Phase 2 failed, keeping Phase-1 results: %v", err)
		return 0
	}

	lines := strings.Split(resp, "\n")
	elevated := 0
	for i, id := range sample {
		if i >= len(lines) {
			break
		}
		if strings.Contains(strings.ToLower(lines[i]), "elevate") {
			for _, member := range clusters[id] {
				dc.SectionAssignments[member] = domain.SectionWorthKnowing
				elevated++
			}
		}
	}
	return elevated
}

// dedupe clusters candidates by cosine similarity over their subject
// embeddings so near-duplicate notifications (the same sender firing off a
// dozen near-identical "your X has shipped" emails) spend one LLM judgment
// instead of one each: a candidate joins the first representative whose
// similarity reaches the threshold and reuses that representative's
// classification, within a single batch rather than across a persistent
// cache. Falls back to
// one-candidate-per-cluster (no dedup) when no embedder is configured, the
// threshold is disabled, or the embedding call fails.
func (s *NoiseElevationStage) dedupe(ctx context.Context, byID map[string]domain.Email, ids []string) ([]string, map[string][]string) {
	clusters := make(map[string][]string, len(ids))
	if s.embedder == nil || s.cfg.DedupSimilarity <= 0 || len(ids) < 2 {
		for _, id := range ids {
			clusters[id] = []string{id}
		}
		return ids, clusters
	}

	texts := make([]string, len(ids))
	for i, id := range ids {
		texts[i] = byID[id].Subject
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil || len(vectors) != len(ids) {
		logger.Warn("noise elevation dedup embedding failed, sampling without dedup: %v", err)
		for _, id := range ids {
			clusters[id] = []string{id}
		}
		return ids, clusters
	}

	var representatives []string
	repVectors := make(map[string][]float32, len(ids))
	for i, id := range ids {
		placed := false
		for _, rep := range representatives {
			if cosineSimilarity(vectors[i], repVectors[rep]) >= s.cfg.DedupSimilarity {
				clusters[rep] = append(clusters[rep], id)
				placed = true
				break
			}
		}
		if !placed {
			representatives = append(representatives, id)
			repVectors[id] = vectors[i]
			clusters[id] = []string{id}
		}
	}
	return representatives, clusters
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
