package section

import (
	"testing"
	"time"

	"worker_server/internal/digest/domain"
)

func TestAssignT0(t *testing.T) {
	future := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name  string
		email domain.Email
		tc    domain.TemporalContext
		want  domain.Section
	}{
		{
			name:  "otp is always critical",
			email: domain.Email{Type: "otp", Subject: "Your one-time code"},
			want:  domain.SectionCritical,
		},
		{
			name:  "fraud phrase in subject is critical regardless of type",
			email: domain.Email{Type: "notification", Subject: "Security Alert: unusual sign-in"},
			want:  domain.SectionCritical,
		},
		{
			name:  "event with a known time is today bucket pre-decay",
			email: domain.Email{Type: "event", Subject: "Lunch"},
			tc:    domain.TemporalContext{EventTime: &future},
			want:  domain.SectionToday,
		},
		{
			name:  "shipping with delivery date is today bucket pre-decay",
			email: domain.Email{Type: "shipping", Subject: "Your package"},
			tc:    domain.TemporalContext{DeliveryDate: &future},
			want:  domain.SectionToday,
		},
		{
			name:  "newsletter is noise",
			email: domain.Email{Type: "newsletter", Subject: "This week in tech"},
			want:  domain.SectionNoise,
		},
		{
			name:  "notification without action phrase falls through to worth_knowing",
			email: domain.Email{Type: "notification", Subject: "Here is an update"},
			want:  domain.SectionWorthKnowing,
		},
		{
			name:  "notification with action phrase is worth_knowing",
			email: domain.Email{Type: "notification", Subject: "Action required: confirm your email"},
			want:  domain.SectionWorthKnowing,
		},
		{
			name:  "receipt is worth_knowing",
			email: domain.Email{Type: "receipt", Subject: "Your receipt"},
			want:  domain.SectionWorthKnowing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignT0(tt.email, tt.tc)
			if got != tt.want {
				t.Errorf("AssignT0() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignT0IsPure(t *testing.T) {
	email := domain.Email{Type: "event", Subject: "Standup"}
	future := time.Now().Add(24 * time.Hour)
	tc := domain.TemporalContext{EventTime: &future}

	first := AssignT0(email, tc)
	second := AssignT0(email, tc)
	if first != second {
		t.Errorf("AssignT0 is not deterministic: %v != %v", first, second)
	}
}
