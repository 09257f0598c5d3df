// Package domain holds the data model the digest pipeline operates on:
// the input email shape, temporal signals, section assignments, entities,
// and the mutable context record threaded through every stage.
package domain

import "time"

// Email is the minimal input shape the pipeline requires. Callers pass a
// pre-fetched batch; any additional fields on the source record are opaque
// to the core and simply ignored.
type Email struct {
	ID       string
	ThreadID string
	Subject  string
	Snippet  string
	From     string
	// Date is the raw RFC 2822 date header. Parsing failures are tolerated;
	// see ParsedDate.
	Date string
	// Type is the coarse pre-classification: newsletter, receipt,
	// notification, event, message, promotion, otp, shipping, order,
	// uncategorized.
	Type string
	// Importance is optional: critical, time_sensitive, routine.
	Importance string
}

// ParsedDate returns Date parsed as RFC 2822, or the zero time and false if
// the email carries no parseable date.
func (e Email) ParsedDate() (time.Time, bool) {
	if e.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC1123Z, e.Date)
	if err == nil {
		return t, true
	}
	t, err = time.Parse(time.RFC1123, e.Date)
	if err == nil {
		return t, true
	}
	t, err = time.Parse("Mon, 2 Jan 2006 15:04:05 -0700", e.Date)
	if err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Location carries a resolved place, used on Flight/Event entities.
type Location struct {
	City         string
	State        string
	AirportCode  string
	FullAddress  string
}

// String returns a canonical, human-displayable form of the location,
// preferring the most specific field present.
func (l Location) String() string {
	if l.FullAddress != "" {
		return l.FullAddress
	}
	if l.City != "" && l.State != "" {
		return l.City + ", " + l.State
	}
	if l.City != "" {
		return l.City
	}
	if l.AirportCode != "" {
		return l.AirportCode
	}
	return ""
}

func (l Location) IsZero() bool {
	return l.City == "" && l.State == "" && l.AirportCode == "" && l.FullAddress == ""
}
