package domain

import "time"

// Weather is the enrichment stage's resolved weather snapshot. Only three
// fields cross the collaborator boundary (spec.md §6); nothing richer is
// modeled.
type Weather struct {
	Temp      int
	Condition string
	City      string
}

// Context is the mutable record threaded through every pipeline stage
// (spec.md §3.6). It is constructed once per Pipeline.Run call and never
// shared across calls or mutated concurrently.
type Context struct {
	// Inputs.
	Emails       []Email
	Now          time.Time
	UserTimezone *time.Location
	UserName     string
	CityHint     string
	RegionHint   string
	RawDigest    bool

	// Populated by stage 1 (temporal extraction).
	FilteredEmails   []Email
	TemporalContexts map[string]TemporalContext

	// Populated by stage 2 (T0 assignment).
	SectionAssignmentsT0 map[string]Section

	// Populated by stages 3-4 (T1 decay, noise elevation).
	SectionAssignments map[string]Section

	// Populated by stage 5 (entity extraction).
	Entities     []Entity
	NoiseSummary map[string]int

	// Populated by stage 6 (enrichment).
	FeaturedItems []FeaturedItem
	WeatherInfo   *Weather
	Greeting      string

	// Populated by stage 7 (synthesis & rendering).
	DigestHTML string

	// Populated by stage 8 (validation).
	Verified         bool
	ValidationErrors []string

	// PastGraceCount counts emails removed by temporal extraction as
	// past-grace, tracked for the testable invariant in spec.md §8.2.
	PastGraceCount int
}

// NewContext builds a Context with every map/slice initialized, ready for
// stages to populate.
func NewContext(emails []Email, now time.Time, tz *time.Location, userName, cityHint, regionHint string, rawDigest bool) *Context {
	if tz == nil {
		tz = time.UTC
	}
	return &Context{
		Emails:               emails,
		Now:                  now,
		UserTimezone:         tz,
		UserName:             userName,
		CityHint:             cityHint,
		RegionHint:           regionHint,
		RawDigest:            rawDigest,
		TemporalContexts:     make(map[string]TemporalContext),
		SectionAssignmentsT0: make(map[string]Section),
		SectionAssignments:   make(map[string]Section),
		NoiseSummary:         make(map[string]int),
	}
}

// Result is the outcome of one pipeline stage (spec.md §4.1): observability
// counters plus a success flag that determines whether the pipeline halts.
type Result struct {
	Success        bool
	StageName      string
	ItemsProcessed int
	ItemsOutput    int
	Metadata       map[string]any
	Err            error
}
