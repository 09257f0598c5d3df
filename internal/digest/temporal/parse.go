// Package temporal implements date/time extraction from email subjects,
// snippets, and headers (spec.md §4.2), grounded on a regex/heuristic
// pattern-classifier idiom: compiled pattern tables scored in priority
// order rather than a general-purpose parser.
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var tzAbbrevToZone = map[string]string{
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	"GMT": "UTC",
	"UTC": "UTC",
}

var monthAbbrev = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdayByName = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// googleCalendarPattern matches "@ Day Mon D[, YYYY] H[:MM](am|pm)" with an
// optional "- H[:MM](am|pm)" end time and an optional trailing "(TZ)"
// abbreviation, e.g. "@ Fri Nov 21, 2025 6:30pm (EST)" or
// "@ Wed Oct 29 2pm - 3pm".
var googleCalendarPattern = regexp.MustCompile(
	`(?i)@\s*(?:[A-Za-z]{3,9})\s+([A-Za-z]{3,9})\s+(\d{1,2})(?:,?\s+(\d{4}))?\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)` +
		`(?:\s*-\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm))?` +
		`(?:\s*\(([A-Za-z]{2,4})\))?`,
)

// ParseGoogleCalendarSubject implements spec.md §4.2 step 2a.
func ParseGoogleCalendarSubject(subject string, now time.Time, defaultZone *time.Location) (eventTime, eventEnd *time.Time, ok bool) {
	m := googleCalendarPattern.FindStringSubmatch(subject)
	if m == nil {
		return nil, nil, false
	}
	monthStr, dayStr, yearStr := m[1], m[2], m[3]
	hourStr, minStr, ampm := m[4], m[5], m[6]
	endHourStr, endMinStr, endAmpm := m[7], m[8], m[9]
	tzAbbrev := m[10]

	month, ok2 := monthAbbrev[strings.ToLower(monthStr[:3])]
	if !ok2 {
		return nil, nil, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return nil, nil, false
	}

	loc := defaultZone
	if loc == nil {
		loc = time.UTC
	}
	if tzAbbrev != "" {
		if zoneName, ok3 := tzAbbrevToZone[strings.ToUpper(tzAbbrev)]; ok3 {
			if z, err := time.LoadLocation(zoneName); err == nil {
				loc = z
			}
		}
	}

	year := now.In(loc).Year()
	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
		}
	}

	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minStr != "" {
		minute, _ = strconv.Atoi(minStr)
	}
	hour = to24Hour(hour, ampm)

	start := time.Date(year, month, day, hour, minute, 0, 0, loc).UTC()

	var end *time.Time
	if endHourStr != "" {
		eh, _ := strconv.Atoi(endHourStr)
		em := 0
		if endMinStr != "" {
			em, _ = strconv.Atoi(endMinStr)
		}
		endAmpmResolved := endAmpm
		if endAmpmResolved == "" {
			endAmpmResolved = ampm
		}
		eh = to24Hour(eh, endAmpmResolved)
		e := time.Date(year, month, day, eh, em, 0, 0, loc).UTC()
		end = &e
	}

	return &start, end, true
}

func to24Hour(hour int, ampm string) int {
	ampm = strings.ToLower(ampm)
	if ampm == "pm" && hour != 12 {
		hour += 12
	}
	if ampm == "am" && hour == 12 {
		hour = 0
	}
	return hour
}

var deliveryKeywords = []string{"delivered", "delivery", "arriving", "out for delivery", "package", "shipment"}

// IsDeliveryNotification reports whether subject matches the delivery cue
// set from spec.md §4.2 step 2b.
func IsDeliveryNotification(subject string) bool {
	return containsAny(strings.ToLower(subject), deliveryKeywords)
}

// ParseDeliveryNotification implements spec.md §4.2 step 2b.
func ParseDeliveryNotification(subject string, receivedAt, now time.Time) time.Time {
	lower := strings.ToLower(subject)
	switch {
	case strings.Contains(lower, "arriving today"):
		return midnight(now)
	case strings.Contains(lower, "arriving tomorrow"):
		return midnight(now.AddDate(0, 0, 1))
	case strings.Contains(lower, "delivered"):
		return receivedAt
	default:
		return receivedAt
	}
}

var purchaseKeywords = []string{"receipt", "order", "payment", "confirmation", "invoice"}

// IsPurchaseReceipt reports whether subject matches the receipt cue set
// and emailType is not "event" (spec.md §4.2 step 2c).
func IsPurchaseReceipt(subject, emailType string) bool {
	return emailType != "event" && containsAny(strings.ToLower(subject), purchaseKeywords)
}

// ParsePurchaseReceipt implements spec.md §4.2 step 2c: if a weekday name
// appears in the subject, pick its most recent occurrence relative to
// receivedAt; else receivedAt itself.
func ParsePurchaseReceipt(subject string, receivedAt time.Time) time.Time {
	lower := strings.ToLower(subject)
	for name, wd := range weekdayByName {
		if strings.Contains(lower, name) {
			return mostRecentWeekday(receivedAt, wd)
		}
	}
	return receivedAt
}

func mostRecentWeekday(from time.Time, wd time.Weekday) time.Time {
	delta := int(from.Weekday()) - int(wd)
	if delta < 0 {
		delta += 7
	}
	return from.AddDate(0, 0, -delta)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
