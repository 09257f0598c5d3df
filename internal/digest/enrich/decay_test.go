package enrich

import (
	"testing"
	"time"

	"worker_server/internal/digest/domain"
)

func TestDecayEntityCriticalIsUnaffected(t *testing.T) {
	e := domain.Entity{EntityHeader: domain.EntityHeader{DigestSection: domain.SectionCritical, StoredImportance: "critical"}}
	got := DecayEntity(e, time.Now(), time.UTC)
	if got.WasModified {
		t.Error("critical entities should never be marked as modified")
	}
	if got.ResolvedImportance != "critical" {
		t.Errorf("resolved importance = %q, want critical", got.ResolvedImportance)
	}
}

func TestDecayEntityWithoutAnchorKeepsStoredImportance(t *testing.T) {
	e := domain.Entity{EntityHeader: domain.EntityHeader{DigestSection: domain.SectionToday, StoredImportance: "time_sensitive"}}
	got := DecayEntity(e, time.Now(), time.UTC)
	if got.ResolvedImportance != "time_sensitive" {
		t.Errorf("resolved importance = %q, want time_sensitive", got.ResolvedImportance)
	}
	if got.WasModified {
		t.Error("entity with no anchor should not be marked modified")
	}
}

func TestDecayEntityTransitionsToSkipAfterGrace(t *testing.T) {
	now := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-3 * time.Hour)
	e := domain.Entity{
		EventTime:    &past,
		EntityHeader: domain.EntityHeader{DigestSection: domain.SectionToday, StoredImportance: "time_sensitive"},
	}
	got := DecayEntity(e, now, time.UTC)
	if got.DigestSection != domain.SectionSkip {
		t.Errorf("digest section = %v, want skip", got.DigestSection)
	}
	if !got.WasModified {
		t.Error("expected WasModified to be true")
	}
	if !got.HideInDigest {
		t.Error("expected HideInDigest to be true when skipped")
	}
	if got.DecayReason == "" {
		t.Error("expected a non-empty decay reason")
	}
}

func TestDecayEntityStaysInSameBucketIsNotModified(t *testing.T) {
	now := time.Date(2026, 7, 15, 8, 0, 0, 0, time.UTC)
	soon := now.Add(2 * time.Hour)
	e := domain.Entity{
		EventTime:    &soon,
		EntityHeader: domain.EntityHeader{DigestSection: domain.SectionToday, StoredImportance: "time_sensitive"},
	}
	got := DecayEntity(e, now, time.UTC)
	if got.WasModified {
		t.Error("expected no modification when bucket is unchanged")
	}
	if got.DigestSection != domain.SectionToday {
		t.Errorf("digest section = %v, want today", got.DigestSection)
	}
}
