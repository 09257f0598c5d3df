package section

import (
	"testing"
	"time"

	"worker_server/internal/digest/domain"
)

func TestDecayT0ToT1(t *testing.T) {
	now := time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC)
	tz := time.UTC

	today := now.Add(2 * time.Hour)
	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 5)
	pastGrace := now.Add(-2 * time.Hour)
	withinGrace := now.Add(-30 * time.Minute)

	tests := []struct {
		name string
		t0   domain.Section
		tc   domain.TemporalContext
		want domain.Section
	}{
		{
			name: "critical stays critical",
			t0:   domain.SectionCritical,
			want: domain.SectionCritical,
		},
		{
			name: "noise stays noise",
			t0:   domain.SectionNoise,
			want: domain.SectionNoise,
		},
		{
			name: "today event decays to today",
			t0:   domain.SectionToday,
			tc:   domain.TemporalContext{EventTime: &today},
			want: domain.SectionToday,
		},
		{
			name: "event tomorrow decays to coming_up",
			t0:   domain.SectionComingUp,
			tc:   domain.TemporalContext{EventTime: &tomorrow},
			want: domain.SectionComingUp,
		},
		{
			name: "event next week decays to coming_up",
			t0:   domain.SectionComingUp,
			tc:   domain.TemporalContext{EventTime: &nextWeek},
			want: domain.SectionComingUp,
		},
		{
			name: "event well past grace period decays to skip",
			t0:   domain.SectionToday,
			tc:   domain.TemporalContext{EventTime: &pastGrace},
			want: domain.SectionSkip,
		},
		{
			name: "event within grace window still shows as today",
			t0:   domain.SectionToday,
			tc:   domain.TemporalContext{EventTime: &withinGrace},
			want: domain.SectionToday,
		},
		{
			name: "no anchor falls back to worth_knowing",
			t0:   domain.SectionToday,
			tc:   domain.TemporalContext{},
			want: domain.SectionWorthKnowing,
		},
		{
			name: "worth_knowing is unaffected by decay",
			t0:   domain.SectionWorthKnowing,
			want: domain.SectionWorthKnowing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecayT0ToT1(tt.t0, tt.tc, now, tz)
			if got != tt.want {
				t.Errorf("DecayT0ToT1() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecayT0ToT1IsDeterministic(t *testing.T) {
	now := time.Date(2026, 7, 15, 9, 0, 0, 0, time.UTC)
	anchor := now.AddDate(0, 0, 2)
	tc := domain.TemporalContext{EventTime: &anchor}

	first := DecayT0ToT1(domain.SectionComingUp, tc, now, time.UTC)
	second := DecayT0ToT1(domain.SectionComingUp, tc, now, time.UTC)
	if first != second {
		t.Errorf("DecayT0ToT1 is not deterministic: %v != %v", first, second)
	}
}
