package temporal

import (
	"context"
	"time"

	"worker_server/internal/digest/domain"
)

const StageName = "temporal_extraction"

// Stage implements spec.md §4.2: extracts a TemporalContext per surviving
// email and removes past-grace events from FilteredEmails. It never fails
// the pipeline — per-email parse errors are swallowed to "no context".
type Stage struct{}

func New() *Stage { return &Stage{} }

func (s *Stage) Name() string       { return StageName }
func (s *Stage) DependsOn() []string { return nil }

func (s *Stage) Process(_ context.Context, dc *domain.Context) (domain.Result, error) {
	filtered := make([]domain.Email, 0, len(dc.Emails))
	pastGrace := 0

	for _, email := range dc.Emails {
		tc, receivedAt, hasReceived := extractOne(email, dc.Now, dc.UserTimezone)
		if !tc.IsZero() {
			dc.TemporalContexts[email.ID] = tc
		}

		if isPastGrace(tc, dc.Now) {
			pastGrace++
			continue
		}
		_ = receivedAt
		_ = hasReceived
		filtered = append(filtered, email)
	}

	dc.FilteredEmails = filtered
	dc.PastGraceCount = pastGrace

	return domain.Result{
		Success:        true,
		ItemsProcessed: len(dc.Emails),
		ItemsOutput:    len(filtered),
		Metadata: map[string]any{
			"past_grace_count": pastGrace,
		},
	}, nil
}

// extractOne runs the step-2/step-3 cascade from spec.md §4.2 for a single
// email.
func extractOne(email domain.Email, now time.Time, tz *time.Location) (domain.TemporalContext, time.Time, bool) {
	var tc domain.TemporalContext

	receivedAt, hasReceived := email.ParsedDate()
	receivedOrNow := receivedAt
	if !hasReceived {
		receivedOrNow = now
	}

	if start, end, ok := ParseGoogleCalendarSubject(email.Subject, now, tz); ok {
		tc.EventTime = start
		tc.EventEndTime = end
		return tc, receivedAt, hasReceived
	}

	if IsDeliveryNotification(email.Subject) {
		d := ParseDeliveryNotification(email.Subject, receivedOrNow, now)
		tc.DeliveryDate = &d
		return tc, receivedAt, hasReceived
	}

	if IsPurchaseReceipt(email.Subject, email.Type) {
		d := ParsePurchaseReceipt(email.Subject, receivedOrNow)
		tc.PurchaseDate = &d
		return tc, receivedAt, hasReceived
	}

	if t, ok := ScanFallback(email.Subject+" "+email.Snippet, receivedOrNow, tz); ok {
		tc.EventTime = &t
	}

	return tc, receivedAt, hasReceived
}

// isPastGrace implements spec.md §4.2's filtering rule: an event is
// past-grace when its anchor (end time, or start+1h with no end) is
// earlier than now-1h.
func isPastGrace(tc domain.TemporalContext, now time.Time) bool {
	if tc.EventTime == nil {
		return false
	}
	anchor := *tc.EventTime
	if tc.EventEndTime != nil {
		anchor = *tc.EventEndTime
	} else {
		anchor = anchor.Add(1 * time.Hour)
	}
	return anchor.Before(now.Add(-1 * time.Hour))
}
