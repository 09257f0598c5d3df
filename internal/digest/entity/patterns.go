// Package entity implements the two-path entity extractor (spec.md §4.6):
// a regex/heuristic pattern path grounded on a per-type compiled-template
// idiom, and an optional LLM path for richer extraction.
package entity

import (
	"regexp"
	"strings"
	"time"

	"worker_server/internal/digest/domain"
)

var (
	flightPattern      = regexp.MustCompile(`(?i)\b([A-Z]{2})\s?(\d{2,4})\b`)
	confirmationPattern = regexp.MustCompile(`(?i)\bconfirmation\s*(?:code|#|number)?[:\s]+([A-Z0-9]{5,8})\b`)
	amountPattern       = regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?`)
	trackingPattern     = regexp.MustCompile(`(?i)\btracking\s*(?:#|number)?[:\s]+([A-Z0-9]{8,30})\b`)
	otpPattern          = regexp.MustCompile(`\b(\d{4,8})\b`)
	dueDatePhrase       = regexp.MustCompile(`(?i)\bdue\s+(?:on\s+)?([A-Za-z0-9 ,]+?)(?:\.|$)`)
)

var knownAirlines = map[string]string{
	"UA": "United", "AA": "American", "DL": "Delta", "WN": "Southwest",
	"AS": "Alaska", "B6": "JetBlue", "NK": "Spirit", "F9": "Frontier",
}

// ExtractPattern produces zero or more entities for one email using
// coarse-type-keyed regex templates. Empty output is not an error.
func ExtractPattern(email domain.Email, tc domain.TemporalContext) []domain.Entity {
	subject := email.Subject
	snippet := email.Snippet
	combined := subject + " " + snippet

	switch email.Type {
	case "event":
		return extractEvent(email, tc)
	case "shipping", "order":
		return extractNotificationShipping(email, combined)
	case "otp":
		return extractOTP(email, combined)
	case "receipt":
		return extractDeadlineOrReceipt(email, combined)
	}

	if m := flightPattern.FindStringSubmatch(subject); m != nil && looksLikeFlight(combined) {
		return extractFlight(email, tc, m)
	}

	return nil
}

func looksLikeFlight(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "flight") || strings.Contains(lower, "boarding") || strings.Contains(lower, "departure")
}

func extractFlight(email domain.Email, tc domain.TemporalContext, m []string) []domain.Entity {
	carrierCode, number := strings.ToUpper(m[1]), m[2]
	airline := knownAirlines[carrierCode]
	if airline == "" {
		airline = carrierCode
	}

	e := domain.Entity{
		EntityHeader: domain.EntityHeader{Kind: domain.EntityFlight},
		Airline:      airline,
		FlightNumber: carrierCode + number,
	}
	if cm := confirmationPattern.FindStringSubmatch(email.Subject + " " + email.Snippet); cm != nil {
		e.ConfirmationCode = cm[1]
	}
	if tc.EventTime != nil {
		e.DepartureTime = tc.EventTime
	}
	return []domain.Entity{e}
}

func extractEvent(email domain.Email, tc domain.TemporalContext) []domain.Entity {
	e := domain.Entity{
		EntityHeader: domain.EntityHeader{Kind: domain.EntityEvent},
		Title:        cleanEventTitle(email.Subject),
		EventTime:    tc.EventTime,
		EventEndTime: tc.EventEndTime,
	}
	return []domain.Entity{e}
}

func cleanEventTitle(subject string) string {
	if idx := strings.Index(subject, "@"); idx > 0 {
		return strings.TrimSpace(subject[:idx])
	}
	return subject
}

func extractNotificationShipping(email domain.Email, combined string) []domain.Entity {
	e := domain.Entity{
		EntityHeader: domain.EntityHeader{Kind: domain.EntityNotification},
		Category:     "shipping",
	}
	if tm := trackingPattern.FindStringSubmatch(combined); tm != nil {
		e.TrackingNumber = tm[1]
	}
	return []domain.Entity{e}
}

func extractOTP(email domain.Email, combined string) []domain.Entity {
	e := domain.Entity{
		EntityHeader: domain.EntityHeader{Kind: domain.EntityNotification},
		Category:     "otp",
	}
	if om := otpPattern.FindStringSubmatch(combined); om != nil {
		e.Message = "Verification code: " + om[1]
	}
	return []domain.Entity{e}
}

func extractDeadlineOrReceipt(email domain.Email, combined string) []domain.Entity {
	amount := ""
	if am := amountPattern.FindString(combined); am != "" {
		amount = am
	}
	if amount == "" {
		return nil
	}
	e := domain.Entity{
		EntityHeader: domain.EntityHeader{Kind: domain.EntityDeadline},
		Title:        email.Subject,
		Amount:       amount,
		FromWhom:     senderName(email.From),
	}
	if dm := dueDatePhrase.FindStringSubmatch(combined); dm != nil {
		_ = dm // due date text kept as Title context; structured due date is
		// left to the LLM path when the phrase cannot be resolved to a time.
	}
	return []domain.Entity{e}
}

func senderName(from string) string {
	if idx := strings.Index(from, "<"); idx > 0 {
		return strings.TrimSpace(from[:idx])
	}
	return from
}

// rejectImplausibleDate implements spec.md §4.6: an LLM-asserted date more
// than 180 days from the email's received date is rejected.
func rejectImplausibleDate(candidate *time.Time, receivedAt time.Time) bool {
	if candidate == nil {
		return false
	}
	diff := candidate.Sub(receivedAt)
	if diff < 0 {
		diff = -diff
	}
	return diff > 180*24*time.Hour
}
