package section

import (
	"time"

	"worker_server/internal/digest/domain"
)

// DecayT0ToT1 implements spec.md §4.4: T0 is transformed into T1 using
// now and the caller's timezone. Ties are broken toward the earlier
// bucket by construction (today is checked before coming_up).
func DecayT0ToT1(t0 domain.Section, tc domain.TemporalContext, now time.Time, tz *time.Location) domain.Section {
	switch t0 {
	case domain.SectionCritical:
		return domain.SectionCritical
	case domain.SectionNoise:
		return domain.SectionNoise
	case domain.SectionToday, domain.SectionComingUp:
		anchor, ok := tc.Anchor()
		if !ok {
			return domain.SectionWorthKnowing
		}
		if anchor.Before(now.Add(-1 * time.Hour)) {
			return domain.SectionSkip
		}
		return bucketByLocalDay(anchor, now, tz)
	case domain.SectionWorthKnowing:
		return domain.SectionWorthKnowing
	default:
		return domain.SectionWorthKnowing
	}
}

func bucketByLocalDay(anchor, now time.Time, tz *time.Location) domain.Section {
	if tz == nil {
		tz = time.UTC
	}
	anchorLocal := anchor.In(tz)
	nowLocal := now.In(tz)

	anchorDay := dateOnly(anchorLocal)
	nowDay := dateOnly(nowLocal)

	dayDiff := int(anchorDay.Sub(nowDay).Hours() / 24)

	switch {
	case dayDiff == 0:
		return domain.SectionToday
	case dayDiff >= 1 && dayDiff <= 7:
		return domain.SectionComingUp
	case dayDiff < 0:
		// Anchor's calendar day has already passed but the 1h grace
		// window has not yet elapsed (e.g. an evening event on the
		// previous local day just after midnight UTC offset).
		return domain.SectionToday
	default:
		return domain.SectionWorthKnowing
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
