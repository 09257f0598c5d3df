// Package section implements the T0 intrinsic classifier, the T1 temporal
// decay transform, and the noise-elevation rescue pass (spec.md §4.3-4.5).
package section

import (
	"strings"

	"worker_server/internal/digest/domain"
)

var fraudSecurityPhrases = []string{
	"security alert", "fraud alert", "fraudulent", "suspicious activity",
	"unauthorized access", "account compromised", "unusual sign-in",
	"your account has been locked",
}

var actionRequiredPhrases = []string{
	"action required", "respond by", "please confirm", "requires your attention",
}

// AssignT0 is a pure function of (email, temporalContext): invoking it
// twice with the same arguments yields the same label (spec.md §4.3,
// tested invariant #4 of spec.md §8).
func AssignT0(email domain.Email, tc domain.TemporalContext) domain.Section {
	subjectLower := strings.ToLower(email.Subject)
	snippetLower := strings.ToLower(email.Snippet)

	if email.Type == "otp" || containsAny(subjectLower, fraudSecurityPhrases) {
		return domain.SectionCritical
	}

	if tc.EventTime != nil && email.Type == "event" {
		return domain.SectionToday
	}

	if tc.DeliveryDate != nil && (email.Type == "shipping" || email.Type == "order") {
		return domain.SectionToday
	}

	if tc.EventTime != nil {
		return domain.SectionComingUp
	}

	switch email.Type {
	case "receipt", "message":
		return domain.SectionWorthKnowing
	case "notification":
		if containsAny(subjectLower, actionRequiredPhrases) || containsAny(snippetLower, actionRequiredPhrases) {
			return domain.SectionWorthKnowing
		}
	case "newsletter", "promotion", "marketing", "update":
		return domain.SectionNoise
	}

	return domain.SectionWorthKnowing
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
