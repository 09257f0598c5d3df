package domain

import "time"

// EntityKind tags which variant-specific fields on Entity are populated.
// Rendering and merge logic dispatch on Kind rather than on duck-typed
// field presence.
type EntityKind string

const (
	EntityFlight       EntityKind = "flight"
	EntityEvent        EntityKind = "event"
	EntityDeadline     EntityKind = "deadline"
	EntityReminder     EntityKind = "reminder"
	EntityPromo        EntityKind = "promo"
	EntityNotification EntityKind = "notification"
)

// EntityHeader holds the fields common to every entity variant (spec.md
// §3.4). It is embedded by Entity rather than by each variant, since Go
// favors one tagged struct over a type hierarchy for this kind of closed
// sum.
type EntityHeader struct {
	Kind       EntityKind
	Confidence float64

	SourceEmailID  string
	SourceThreadID string
	SourceSubject  string
	SourceSnippet  string
	Timestamp      time.Time

	Importance         string
	StoredImportance   string
	ResolvedImportance string
	DecayReason        string
	WasModified        bool
	DigestSection      Section
	HideInDigest       bool
}

// Entity is the tagged sum type covering every extracted structured fact.
// Only the fields relevant to Header.Kind are meaningful; all others are
// zero. This mirrors spec.md §9's "tagged sum with common header and
// per-variant extension" design note.
type Entity struct {
	EntityHeader

	// Flight fields.
	Airline          string
	FlightNumber     string
	Departure        Location
	Arrival          Location
	DepartureTime    *time.Time
	ConfirmationCode string
	WeatherContext   string

	// Event fields.
	Title        string
	EventTime    *time.Time
	EventEndTime *time.Time
	EventLoc     Location
	Organizer    string

	// Deadline fields.
	DueDate  *time.Time
	Amount   string
	FromWhom string

	// Notification fields.
	Category        string
	Message         string
	ActionRequired  bool
	OTPExpiresAt    *time.Time
	TrackingNumber  string
	TrackingLink    string
	Carrier         string
}

// Anchor returns the latest known temporal marker carried directly on the
// entity (as opposed to TemporalContext.Anchor, which operates on the
// source email), used by enrichment's per-entity decay pass.
func (e Entity) Anchor() (time.Time, bool) {
	if e.EventEndTime != nil {
		return *e.EventEndTime, true
	}
	if e.EventTime != nil {
		return *e.EventTime, true
	}
	if e.DueDate != nil {
		return *e.DueDate, true
	}
	if e.DepartureTime != nil {
		return *e.DepartureTime, true
	}
	return time.Time{}, false
}

// DisplayTitle returns the best human-facing title for the entity,
// falling back to the source subject when no variant title is set.
func (e Entity) DisplayTitle() string {
	switch e.Kind {
	case EntityFlight:
		if e.FlightNumber != "" {
			if e.Airline != "" {
				return e.Airline + " " + e.FlightNumber
			}
			return "Flight " + e.FlightNumber
		}
	case EntityEvent, EntityDeadline:
		if e.Title != "" {
			return e.Title
		}
	case EntityNotification:
		if e.Message != "" {
			return e.Message
		}
	}
	return e.SourceSubject
}

// FeaturedItem is a display-ready item for a digest section: either a rich
// Entity card or a raw Email fallback card (spec.md §3.5).
type FeaturedItem struct {
	Entity  *Entity
	Email   *Email
	Section Section
}

// ID returns the identifying key used by validation's schema check
// (spec.md §4.9): the entity's source email id, or the raw email's id/
// thread id.
func (f FeaturedItem) ID() string {
	if f.Entity != nil {
		return f.Entity.SourceEmailID
	}
	if f.Email != nil {
		if f.Email.ID != "" {
			return f.Email.ID
		}
		return f.Email.ThreadID
	}
	return ""
}

// DisplayTitle returns the title used in the deterministic renderer.
func (f FeaturedItem) DisplayTitle() string {
	if f.Entity != nil {
		return f.Entity.DisplayTitle()
	}
	if f.Email != nil {
		return f.Email.Subject
	}
	return ""
}

// ThreadID returns the best identifier for link building: thread id if
// present, else message id.
func (f FeaturedItem) ThreadID() (id string, isThread bool) {
	if f.Entity != nil {
		if f.Entity.SourceThreadID != "" {
			return f.Entity.SourceThreadID, true
		}
		return f.Entity.SourceEmailID, false
	}
	if f.Email != nil {
		if f.Email.ThreadID != "" {
			return f.Email.ThreadID, true
		}
		return f.Email.ID, false
	}
	return "", false
}
