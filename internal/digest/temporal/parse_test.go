package temporal

import (
	"testing"
	"time"
)

func TestParseGoogleCalendarSubject(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		subject    string
		wantOK     bool
		wantYear   int
		wantMonth  time.Month
		wantDay    int
		wantHour   int
		wantHasEnd bool
	}{
		{
			name:      "date with year and timezone",
			subject:   "Team sync @ Fri Nov 21, 2025 6:30pm (EST)",
			wantOK:    true,
			wantYear:  2025,
			wantMonth: time.November,
			wantDay:   21,
			wantHour:  23, // 6:30pm EST -> 23:30 UTC
		},
		{
			name:       "range without year defaults to now's year",
			subject:    "Standup @ Wed Oct 29 2pm - 3pm",
			wantOK:     true,
			wantYear:   2026,
			wantMonth:  time.October,
			wantDay:    29,
			wantHour:   14,
			wantHasEnd: true,
		},
		{
			name:    "no calendar marker",
			subject: "Your weekly newsletter",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ParseGoogleCalendarSubject(tt.subject, now, time.UTC)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if start.Year() != tt.wantYear {
				t.Errorf("year = %d, want %d", start.Year(), tt.wantYear)
			}
			if start.Month() != tt.wantMonth {
				t.Errorf("month = %v, want %v", start.Month(), tt.wantMonth)
			}
			if start.Day() != tt.wantDay {
				t.Errorf("day = %d, want %d", start.Day(), tt.wantDay)
			}
			if tt.name == "date with year and timezone" && start.Hour() != tt.wantHour {
				t.Errorf("hour = %d, want %d", start.Hour(), tt.wantHour)
			}
			if tt.wantHasEnd && end == nil {
				t.Error("expected an end time, got nil")
			}
		})
	}
}

func TestParseDeliveryNotification(t *testing.T) {
	now := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	receivedAt := time.Date(2026, 6, 30, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		subject  string
		wantDate time.Time
	}{
		{"Your package is arriving today", midnight(now)},
		{"Your package is arriving tomorrow", midnight(now.AddDate(0, 0, 1))},
		{"Your package has been delivered", receivedAt},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got := ParseDeliveryNotification(tt.subject, receivedAt, now)
			if !got.Equal(tt.wantDate) {
				t.Errorf("got %v, want %v", got, tt.wantDate)
			}
		})
	}
}

func TestParsePurchaseReceiptPicksMostRecentWeekday(t *testing.T) {
	// receivedAt is a Wednesday; subject references "Monday" which should
	// resolve to two days earlier.
	receivedAt := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC) // Wednesday
	got := ParsePurchaseReceipt("Your order ships Monday", receivedAt)

	want := time.Date(2026, 6, 29, 10, 0, 0, 0, time.UTC) // Monday
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIsDeliveryAndPurchaseClassification(t *testing.T) {
	if !IsDeliveryNotification("Your package is out for delivery") {
		t.Error("expected delivery notification match")
	}
	if IsDeliveryNotification("Your weekly digest") {
		t.Error("did not expect delivery match")
	}
	if !IsPurchaseReceipt("Order confirmation #1234", "receipt") {
		t.Error("expected purchase receipt match")
	}
	if IsPurchaseReceipt("Order confirmation for your event", "event") {
		t.Error("event type should never be treated as a purchase receipt")
	}
}
