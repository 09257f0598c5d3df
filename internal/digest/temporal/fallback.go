package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	thisWeekdayPattern = regexp.MustCompile(`(?i)\bthis\s+(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	todayAtPattern     = regexp.MustCompile(`(?i)\btoday\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	tomorrowAtPattern  = regexp.MustCompile(`(?i)\btomorrow\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	monthDayYearAt     = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})(?:\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm))?\b`)
	shortMonthDay      = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
)

// ScanFallback implements spec.md §4.2 step 3: a generic date scanner run
// over subject+snippet when no structured parser matched. Returns the
// first pattern that hits, in the order the spec lists them.
func ScanFallback(text string, receivedAt time.Time, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	if m := thisWeekdayPattern.FindStringSubmatch(text); m != nil {
		if wd, ok := weekdayByName[strings.ToLower(m[1])]; ok {
			return nextOccurrence(receivedAt, wd), true
		}
	}
	if m := todayAtPattern.FindStringSubmatch(text); m != nil {
		return atTimeOn(receivedAt, m[1], m[2], m[3], loc), true
	}
	if m := tomorrowAtPattern.FindStringSubmatch(text); m != nil {
		return atTimeOn(receivedAt.AddDate(0, 0, 1), m[1], m[2], m[3], loc), true
	}
	if m := monthDayYearAt.FindStringSubmatch(text); m != nil {
		month, ok := monthAbbrev[strings.ToLower(m[1])]
		if ok {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			hour, minute := 0, 0
			if m[4] != "" {
				hour, _ = strconv.Atoi(m[4])
				if m[5] != "" {
					minute, _ = strconv.Atoi(m[5])
				}
				hour = to24Hour(hour, m[6])
			}
			return time.Date(year, month, day, hour, minute, 0, 0, loc).UTC(), true
		}
	}
	if m := shortMonthDay.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			year := receivedAt.In(loc).Year()
			candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
			// Roll forward a year if the inferred date is more than 30 days
			// in the past relative to the received date.
			if receivedAt.Sub(candidate) > 30*24*time.Hour {
				candidate = time.Date(year+1, time.Month(month), day, 0, 0, 0, 0, loc)
			}
			return candidate.UTC(), true
		}
	}
	return time.Time{}, false
}

func nextOccurrence(from time.Time, wd time.Weekday) time.Time {
	delta := int(wd) - int(from.Weekday())
	if delta <= 0 {
		delta += 7
	}
	return midnight(from.AddDate(0, 0, delta))
}

func atTimeOn(day time.Time, hourStr, minStr, ampm string, loc *time.Location) time.Time {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minStr != "" {
		minute, _ = strconv.Atoi(minStr)
	}
	hour = to24Hour(hour, ampm)
	local := day.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc).UTC()
}
