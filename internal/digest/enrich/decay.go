// Package enrich implements the three enrichment sub-steps (spec.md
// §4.7): per-entity temporal decay, weather, and greeting.
package enrich

import (
	"time"

	"worker_server/internal/digest/domain"
)

// DecayEntity mirrors section.DecayT0ToT1 but operates on the entity's own
// carried dates rather than the source email's TemporalContext. It
// mutates a copy and returns it with ResolvedImportance, DigestSection,
// DecayReason, WasModified, and HideInDigest populated.
func DecayEntity(e domain.Entity, now time.Time, tz *time.Location) domain.Entity {
	original := e.DigestSection

	if original == domain.SectionCritical {
		e.ResolvedImportance = e.StoredImportance
		return e
	}

	anchor, ok := e.Anchor()
	if !ok {
		e.ResolvedImportance = e.StoredImportance
		return e
	}

	var newSection domain.Section
	switch {
	case anchor.Before(now.Add(-1 * time.Hour)):
		newSection = domain.SectionSkip
	default:
		newSection = bucketByLocalDay(anchor, now, tz)
	}

	if newSection != original {
		e.WasModified = true
		e.DecayReason = "recomputed from entity anchor at " + now.Format(time.RFC3339)
		e.DigestSection = newSection
		e.ResolvedImportance = importanceFor(newSection)
		e.HideInDigest = newSection == domain.SectionSkip
	} else {
		e.ResolvedImportance = e.StoredImportance
	}

	return e
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

func bucketByLocalDay(anchor, now time.Time, tz *time.Location) domain.Section {
	if tz == nil {
		tz = time.UTC
	}
	anchorDay := dateOnly(anchor.In(tz))
	nowDay := dateOnly(now.In(tz))
	dayDiff := int(anchorDay.Sub(nowDay).Hours() / 24)

	switch {
	case dayDiff == 0:
		return domain.SectionToday
	case dayDiff >= 1 && dayDiff <= 7:
		return domain.SectionComingUp
	case dayDiff < 0:
		return domain.SectionToday
	default:
		return domain.SectionWorthKnowing
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
