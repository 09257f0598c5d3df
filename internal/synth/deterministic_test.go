package synth

import (
	"strings"
	"testing"
	"time"

	"worker_server/internal/digest/domain"
)

func TestRenderNoiseLineIsSortedAndDeterministic(t *testing.T) {
	noise := map[string]int{"newsletter": 5, "promotion": 2, "marketing": 1}
	first := renderNoiseLine(noise)
	second := renderNoiseLine(noise)
	if first != second {
		t.Fatalf("renderNoiseLine is not deterministic: %q != %q", first, second)
	}

	marketingIdx := strings.Index(first, "marketing")
	newsletterIdx := strings.Index(first, "newsletter")
	promotionIdx := strings.Index(first, "promotion")
	if marketingIdx > newsletterIdx || newsletterIdx > promotionIdx {
		t.Errorf("expected alphabetical order in %q", first)
	}
}

func TestRenderDeterministicEmptyInboxMessage(t *testing.T) {
	dc := domain.NewContext(nil, time.Now(), nil, "", "", "", false)
	parts := renderDeterministic(dc)
	joined := strings.Join(parts, "")
	if !strings.Contains(joined, "Your inbox is clear.") {
		t.Errorf("expected empty-inbox message, got %q", joined)
	}
}

func TestRenderDeterministicNumbersItemsAcrossSections(t *testing.T) {
	dc := domain.NewContext(nil, time.Now(), nil, "", "", "", false)
	dc.FeaturedItems = []domain.FeaturedItem{
		{Email: &domain.Email{ID: "1", Subject: "Critical thing"}, Section: domain.SectionCritical},
		{Email: &domain.Email{ID: "2", Subject: "Coming up thing"}, Section: domain.SectionComingUp},
	}
	parts := renderDeterministic(dc)
	joined := strings.Join(parts, "")
	if !strings.Contains(joined, "(1)") || !strings.Contains(joined, "(2)") {
		t.Errorf("expected a continuous item counter across sections: %q", joined)
	}
}

func TestRenderDeterministicEscapesTitles(t *testing.T) {
	dc := domain.NewContext(nil, time.Now(), nil, "", "", "", false)
	dc.FeaturedItems = []domain.FeaturedItem{
		{Email: &domain.Email{ID: "1", Subject: "<b>bold</b>"}, Section: domain.SectionWorthKnowing},
	}
	parts := renderDeterministic(dc)
	joined := strings.Join(parts, "")
	if strings.Contains(joined, "<b>bold</b>") {
		t.Errorf("expected subject to be HTML-escaped: %q", joined)
	}
}
