package entity

import (
	"testing"
	"time"

	"worker_server/internal/digest/domain"
)

func TestMergeEntitiesPatternOnly(t *testing.T) {
	pattern := &domain.Entity{FlightNumber: "UA1234"}
	got := mergeEntities(pattern, nil, time.Now())
	if got.FlightNumber != "UA1234" {
		t.Errorf("flight number = %q, want UA1234", got.FlightNumber)
	}
}

func TestMergeEntitiesLLMOnly(t *testing.T) {
	llm := &domain.Entity{Title: "Dentist appointment"}
	got := mergeEntities(nil, llm, time.Now())
	if got.Title != "Dentist appointment" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestMergeEntitiesPatternWinsForIdentifiers(t *testing.T) {
	pattern := &domain.Entity{FlightNumber: "UA1234", Airline: "United"}
	llm := &domain.Entity{FlightNumber: "DL9999", Airline: "Delta", Title: "Your flight"}

	got := mergeEntities(pattern, llm, time.Now())
	if got.FlightNumber != "UA1234" {
		t.Errorf("flight number = %q, want pattern value UA1234", got.FlightNumber)
	}
	if got.Airline != "United" {
		t.Errorf("airline = %q, want pattern value United", got.Airline)
	}
	if got.Title != "Your flight" {
		t.Errorf("title = %q, want LLM value", got.Title)
	}
}

func TestMergeEntitiesRejectsImplausibleLLMDate(t *testing.T) {
	receivedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	plausible := receivedAt.AddDate(0, 0, 10)
	implausible := receivedAt.AddDate(2, 0, 0)

	pattern := &domain.Entity{Title: "Deadline"}
	llm := &domain.Entity{EventTime: &implausible}
	got := mergeEntities(pattern, llm, receivedAt)
	if got.EventTime != nil {
		t.Error("expected implausible LLM event time to be rejected")
	}

	llm2 := &domain.Entity{EventTime: &plausible}
	got2 := mergeEntities(pattern, llm2, receivedAt)
	if got2.EventTime == nil || !got2.EventTime.Equal(plausible) {
		t.Error("expected plausible LLM event time to be accepted")
	}
}

func TestMergeEntitiesActionRequiredIsOred(t *testing.T) {
	pattern := &domain.Entity{ActionRequired: false}
	llm := &domain.Entity{ActionRequired: true}
	got := mergeEntities(pattern, llm, time.Now())
	if !got.ActionRequired {
		t.Error("expected ActionRequired to be true when either side sets it")
	}
}
