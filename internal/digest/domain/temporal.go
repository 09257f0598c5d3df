package domain

import "time"

// TemporalContext holds every temporal signal extracted for one email. All
// instants are stored in UTC; presentation-time conversion happens at
// render time against the caller's timezone.
type TemporalContext struct {
	EventTime       *time.Time
	EventEndTime    *time.Time
	DeliveryDate    *time.Time
	PurchaseDate    *time.Time
	ExpirationDate  *time.Time
}

// Anchor returns the latest known temporal marker, preferring
// EventEndTime, then EventTime, then DeliveryDate, matching the T1 decay
// rule in section.DecayT0ToT1.
func (t TemporalContext) Anchor() (time.Time, bool) {
	if t.EventEndTime != nil {
		return *t.EventEndTime, true
	}
	if t.EventTime != nil {
		return *t.EventTime, true
	}
	if t.DeliveryDate != nil {
		return *t.DeliveryDate, true
	}
	return time.Time{}, false
}

func (t TemporalContext) IsZero() bool {
	return t.EventTime == nil && t.EventEndTime == nil && t.DeliveryDate == nil &&
		t.PurchaseDate == nil && t.ExpirationDate == nil
}
