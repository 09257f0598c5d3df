package section

import (
	"context"
	"testing"
	"time"

	"worker_server/internal/digest/domain"
	"worker_server/internal/digest/port"
)

func newTestContext(emails []domain.Email, assignments map[string]domain.Section) *domain.Context {
	dc := domain.NewContext(emails, time.Now(), nil, "", "", "", false)
	dc.FilteredEmails = emails
	dc.SectionAssignments = assignments
	return dc
}

func TestGuardrailMatch(t *testing.T) {
	tests := []struct {
		name  string
		email domain.Email
		want  bool
	}{
		{"verify-your phrase matches", domain.Email{Subject: "verify-your account now"}, true},
		{"payment failed matches", domain.Email{Subject: "Payment Failed", Snippet: ""}, true},
		{"plain newsletter does not match", domain.Email{Subject: "This week in tech"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guardrailMatch(tt.email); got != tt.want {
				t.Errorf("guardrailMatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoiseElevationStagePhase1Only(t *testing.T) {
	emails := []domain.Email{
		{ID: "1", Subject: "Suspicious sign-in detected"},
		{ID: "2", Subject: "This week in tech"},
	}
	assignments := map[string]domain.Section{
		"1": domain.SectionNoise,
		"2": domain.SectionNoise,
	}
	dc := newTestContext(emails, assignments)

	stage := NewNoiseElevationStage(NoiseElevationConfig{LLMEnabled: false}, nil, nil)
	result, err := stage.Process(context.Background(), dc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if dc.SectionAssignments["1"] != domain.SectionWorthKnowing {
		t.Errorf("expected email 1 to be elevated by guardrail, got %v", dc.SectionAssignments["1"])
	}
	if dc.SectionAssignments["2"] != domain.SectionNoise {
		t.Errorf("expected email 2 to remain noise, got %v", dc.SectionAssignments["2"])
	}
}

type fakeGenerator struct {
	response string
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, _ port.GenerateConfig) (string, error) {
	return f.response, nil
}

func TestNoiseElevationStagePhase2(t *testing.T) {
	emails := []domain.Email{
		{ID: "1", Subject: "A promo that is secretly important"},
		{ID: "2", Subject: "A genuinely unimportant promo"},
	}
	assignments := map[string]domain.Section{
		"1": domain.SectionNoise,
		"2": domain.SectionNoise,
	}
	dc := newTestContext(emails, assignments)

	gen := &fakeGenerator{response: "elevate\nkeep_noise"}
	stage := NewNoiseElevationStage(NoiseElevationConfig{LLMEnabled: true, MaxSample: 20, MaxPromptChars: 8000}, gen, nil)

	_, err := stage.Process(context.Background(), dc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dc.SectionAssignments["1"] != domain.SectionWorthKnowing {
		t.Errorf("expected email 1 elevated by phase 2, got %v", dc.SectionAssignments["1"])
	}
	if dc.SectionAssignments["2"] != domain.SectionNoise {
		t.Errorf("expected email 2 to remain noise, got %v", dc.SectionAssignments["2"])
	}
}

type fakeEmbedder struct {
	vectors [][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	return f.vectors[:len(texts)], nil
}

func TestNoiseElevationStagePhase2DedupsSimilarSubjects(t *testing.T) {
	emails := []domain.Email{
		{ID: "1", Subject: "Your order has shipped"},
		{ID: "2", Subject: "Your order has shipped too"},
		{ID: "3", Subject: "Completely unrelated newsletter"},
	}
	assignments := map[string]domain.Section{
		"1": domain.SectionNoise,
		"2": domain.SectionNoise,
		"3": domain.SectionNoise,
	}
	dc := newTestContext(emails, assignments)

	gen := &fakeGenerator{response: "elevate\nkeep_noise"}
	emb := &fakeEmbedder{vectors: [][]float32{{1, 0}, {1, 0}, {0, 1}}}
	cfg := NoiseElevationConfig{LLMEnabled: true, MaxSample: 20, MaxPromptChars: 8000, DedupSimilarity: 0.92}
	stage := NewNoiseElevationStage(cfg, gen, emb)

	_, err := stage.Process(context.Background(), dc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dc.SectionAssignments["1"] != domain.SectionWorthKnowing {
		t.Errorf("expected email 1 elevated, got %v", dc.SectionAssignments["1"])
	}
	if dc.SectionAssignments["2"] != domain.SectionWorthKnowing {
		t.Errorf("expected email 2 to inherit its cluster representative's verdict, got %v", dc.SectionAssignments["2"])
	}
	if dc.SectionAssignments["3"] != domain.SectionNoise {
		t.Errorf("expected email 3 (distinct subject) to be judged independently and stay noise, got %v", dc.SectionAssignments["3"])
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got != 1 {
		t.Errorf("identical vectors = %v, want 1", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors = %v, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, nil); got != 0 {
		t.Errorf("mismatched lengths = %v, want 0", got)
	}
}
