// Package validate implements the fact verifier and schema checks run by
// the validation stage (spec.md §4.9), ported from narrative_verifier.py.
package validate

import (
	"regexp"
	"strings"
)

var (
	moneyPattern       = regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?`)
	temperaturePattern = regexp.MustCompile(`\b\d+(?:\.\d+)?°`)
	flightNumPattern   = regexp.MustCompile(`\b[A-Z]{2,3}\s*\d{1,4}\b`)
	generalNumPattern  = regexp.MustCompile(`\b\d{1,4}\b`)
	digitsOnly         = regexp.MustCompile(`[^\d]`)
)

// ExtractNumbers implements extract_numbers: amounts, temperatures,
// flight numbers, and bare digit runs.
func ExtractNumbers(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{moneyPattern, temperaturePattern, flightNumPattern, generalNumPattern} {
		for _, m := range re.FindAllString(text, -1) {
			out[m] = struct{}{}
		}
	}
	return out
}

var (
	relativeDayPattern = regexp.MustCompile(`(?i)\b(?:tomorrow|today|tonight)\b`)
	weekdayPattern     = regexp.MustCompile(`(?i)\b(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`)
	monthDayPattern    = regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2}\b`)
	duePhrasePattern   = regexp.MustCompile(`(?i)\bdue\s+(?:on\s+)?(\w+)`)
	endsPhrasePattern  = regexp.MustCompile(`(?i)\bend[s]?\s+(\w+)`)
)

// ExtractDates implements extract_dates.
func ExtractDates(text string) map[string]struct{} {
	lower := strings.ToLower(text)
	out := make(map[string]struct{})
	for _, m := range relativeDayPattern.FindAllString(lower, -1) {
		out[strings.ToLower(m)] = struct{}{}
	}
	for _, m := range weekdayPattern.FindAllString(lower, -1) {
		out[strings.ToLower(m)] = struct{}{}
	}
	for _, m := range monthDayPattern.FindAllString(lower, -1) {
		out[strings.ToLower(m)] = struct{}{}
	}
	for _, m := range duePhrasePattern.FindAllStringSubmatch(lower, -1) {
		out[strings.ToLower(m[1])] = struct{}{}
	}
	for _, m := range endsPhrasePattern.FindAllStringSubmatch(lower, -1) {
		out[strings.ToLower(m[1])] = struct{}{}
	}
	return out
}

// ExtractNames implements extract_names against the closed KnownEntities
// list.
func ExtractNames(text string) map[string]struct{} {
	lower := strings.ToLower(text)
	out := make(map[string]struct{})
	for _, name := range KnownEntities {
		if strings.Contains(lower, name) {
			out[name] = struct{}{}
		}
	}
	return out
}

// SourceText is the minimal shape the verifier checks generated text
// against: an entity's (or email's) subject and snippet.
type SourceText struct {
	Subject string
	Snippet string
}

// Verify implements NarrativeVerifier.verify: every number, non-generic
// date phrase, and known name in digestText must appear in the combined
// source subjects/snippets.
func Verify(digestText string, sources []SourceText) (bool, []string) {
	var combined strings.Builder
	for _, s := range sources {
		combined.WriteString(s.Subject)
		combined.WriteString(" ")
		combined.WriteString(s.Snippet)
		combined.WriteString(" ")
	}
	combinedText := combined.String()
	combinedLower := strings.ToLower(combinedText)

	var errors []string

	digestNumbers := ExtractNumbers(digestText)
	sourceNumbers := ExtractNumbers(combinedText)
	for number := range digestNumbers {
		digestDigits := digitsOnly.ReplaceAllString(number, "")
		if digestDigits == "" {
			continue
		}
		found := false
		for sourceNum := range sourceNumbers {
			sourceDigits := digitsOnly.ReplaceAllString(sourceNum, "")
			if strings.Contains(sourceDigits, digestDigits) || strings.Contains(digestDigits, sourceDigits) {
				found = true
				break
			}
		}
		if !found {
			errors = append(errors, "Number '"+number+"' not found in source emails")
		}
	}

	digestDates := ExtractDates(digestText)
	sourceDates := ExtractDates(combinedText)
	for date := range digestDates {
		if len(date) <= 5 {
			continue
		}
		if _, ok := sourceDates[date]; ok {
			continue
		}
		if strings.Contains(combinedLower, date) {
			continue
		}
		errors = append(errors, "Date '"+date+"' not found in source emails")
	}

	digestNames := ExtractNames(digestText)
	sourceNames := ExtractNames(combinedText)
	for name := range digestNames {
		if _, ok := sourceNames[name]; ok {
			continue
		}
		if strings.Contains(combinedLower, name) {
			continue
		}
		errors = append(errors, "Name '"+name+"' not found in source emails")
	}

	return len(errors) == 0, errors
}
