package entity

import (
	"testing"
	"time"

	"worker_server/internal/digest/domain"
)

func TestExtractPatternFlight(t *testing.T) {
	email := domain.Email{
		Subject: "UA 1234 Boarding pass - confirmation: AB123C",
		Snippet: "Your flight departs soon.",
	}
	got := ExtractPattern(email, domain.TemporalContext{})
	if len(got) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got))
	}
	e := got[0]
	if e.Kind != domain.EntityFlight {
		t.Fatalf("kind = %v, want flight", e.Kind)
	}
	if e.Airline != "United" {
		t.Errorf("airline = %q, want United", e.Airline)
	}
	if e.FlightNumber != "UA1234" {
		t.Errorf("flight number = %q, want UA1234", e.FlightNumber)
	}
	if e.ConfirmationCode != "AB123C" {
		t.Errorf("confirmation code = %q, want AB123C", e.ConfirmationCode)
	}
}

func TestExtractPatternFlightUnknownCarrier(t *testing.T) {
	email := domain.Email{Subject: "ZZ 9876 flight departure notice"}
	got := ExtractPattern(email, domain.TemporalContext{})
	if len(got) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got))
	}
	if got[0].Airline != "ZZ" {
		t.Errorf("airline = %q, want fallback to carrier code ZZ", got[0].Airline)
	}
}

func TestExtractPatternEvent(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)
	email := domain.Email{Type: "event", Subject: "Team sync @ Fri Nov 21"}
	got := ExtractPattern(email, domain.TemporalContext{EventTime: &start})
	if len(got) != 1 || got[0].Kind != domain.EntityEvent {
		t.Fatalf("expected a single event entity, got %+v", got)
	}
	if got[0].Title != "Team sync" {
		t.Errorf("title = %q, want %q", got[0].Title, "Team sync")
	}
}

func TestExtractPatternOTP(t *testing.T) {
	email := domain.Email{Type: "otp", Subject: "Your code is 482913"}
	got := ExtractPattern(email, domain.TemporalContext{})
	if len(got) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got))
	}
	if got[0].Message != "Verification code: 482913" {
		t.Errorf("message = %q", got[0].Message)
	}
}

func TestExtractPatternReceiptWithoutAmountYieldsNothing(t *testing.T) {
	email := domain.Email{Type: "receipt", Subject: "Thanks for shopping with us"}
	got := ExtractPattern(email, domain.TemporalContext{})
	if got != nil {
		t.Errorf("expected no entity without a dollar amount, got %+v", got)
	}
}

func TestExtractPatternReceiptWithAmount(t *testing.T) {
	email := domain.Email{Type: "receipt", Subject: "Your receipt", Snippet: "Total: $42.50", From: "Acme Co <billing@acme.com>"}
	got := ExtractPattern(email, domain.TemporalContext{})
	if len(got) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(got))
	}
	if got[0].Amount != "$42.50" {
		t.Errorf("amount = %q, want $42.50", got[0].Amount)
	}
	if got[0].FromWhom != "Acme Co" {
		t.Errorf("from = %q, want Acme Co", got[0].FromWhom)
	}
}

func TestLooksLikeFlight(t *testing.T) {
	if !looksLikeFlight("your flight is boarding soon") {
		t.Error("expected boarding text to look like a flight")
	}
	if looksLikeFlight("no relevant keywords here") {
		t.Error("expected plain text to not look like a flight")
	}
}

func TestRejectImplausibleDate(t *testing.T) {
	receivedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	near := receivedAt.AddDate(0, 1, 0)
	far := receivedAt.AddDate(1, 0, 0)

	if rejectImplausibleDate(&near, receivedAt) {
		t.Error("expected a 1-month-out date to be plausible")
	}
	if !rejectImplausibleDate(&far, receivedAt) {
		t.Error("expected a 1-year-out date to be rejected")
	}
	if rejectImplausibleDate(nil, receivedAt) {
		t.Error("nil candidate should never be rejected")
	}
}
