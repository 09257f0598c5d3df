package enrich

import (
	"strconv"
	"time"

	"worker_server/internal/digest/domain"
)

var ordinalSuffix = map[int]string{1: "st", 2: "nd", 3: "rd"}

func ordinal(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	if s, ok := ordinalSuffix[day%10]; ok {
		return s
	}
	return "th"
}

// BuildGreeting implements spec.md §4.7 step 3: an hour-bucketed greeting
// with the ordinal date and, when weather is known, a trailing weather
// clause.
func BuildGreeting(now time.Time, tz *time.Location, userName string, weather *domain.Weather) string {
	if tz == nil {
		tz = time.UTC
	}
	local := now.In(tz)

	var bucket string
	switch {
	case local.Hour() < 12:
		bucket = "Good morning"
	case local.Hour() < 17:
		bucket = "Good afternoon"
	default:
		bucket = "Good evening"
	}

	greeting := bucket
	if userName != "" {
		greeting += ", " + userName
	}
	greeting += " — " + local.Month().String() + " " + strconv.Itoa(local.Day()) + ordinal(local.Day()) + "."

	if weather != nil {
		greeting += " Currently " + formatTemp(weather.Temp) + "°F and " + weather.Condition + " " +
			weatherEmoji(weather.Condition) + " in " + weather.City + "."
	}

	return greeting
}
