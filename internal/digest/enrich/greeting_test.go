package enrich

import (
	"strings"
	"testing"
	"time"

	"worker_server/internal/digest/domain"
)

func TestBuildGreetingHourBuckets(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{8, "Good morning"},
		{14, "Good afternoon"},
		{20, "Good evening"},
	}
	for _, tt := range tests {
		now := time.Date(2026, 7, 4, tt.hour, 0, 0, 0, time.UTC)
		got := BuildGreeting(now, time.UTC, "", nil)
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("hour %d: greeting = %q, want prefix %q", tt.hour, got, tt.want)
		}
	}
}

func TestBuildGreetingIncludesUserNameAndOrdinal(t *testing.T) {
	now := time.Date(2026, 7, 21, 9, 0, 0, 0, time.UTC)
	got := BuildGreeting(now, time.UTC, "Sam", nil)
	if !strings.Contains(got, "Sam") {
		t.Errorf("expected greeting to contain user name: %q", got)
	}
	if !strings.Contains(got, "July 21st") {
		t.Errorf("expected ordinal date July 21st in %q", got)
	}
}

func TestBuildGreetingIncludesWeatherClause(t *testing.T) {
	now := time.Date(2026, 7, 21, 9, 0, 0, 0, time.UTC)
	weather := &domain.Weather{Temp: 72, Condition: "Clear", City: "Austin"}
	got := BuildGreeting(now, time.UTC, "", weather)
	if !strings.Contains(got, "72") || !strings.Contains(got, "Austin") {
		t.Errorf("expected weather clause in greeting: %q", got)
	}
}

func TestOrdinalSuffixes(t *testing.T) {
	tests := map[int]string{1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th", 21: "st", 22: "nd", 23: "rd"}
	for day, want := range tests {
		if got := ordinal(day); got != want {
			t.Errorf("ordinal(%d) = %q, want %q", day, got, want)
		}
	}
}
