package model

import (
	"testing"
	"time"
)

func TestScholarship_IsOpen_ManilaCalendarDays(t *testing.T) {
	manila, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Skip("Asia/Manila zoneinfo unavailable")
	}

	// DATE columns come back as UTC midnight
	s := &Scholarship{
		Status:   ScholarshipStatusActive,
		OpenDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Deadline: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"BeforeOpenDay", time.Date(2025, 9, 30, 23, 59, 0, 0, manila), false},
		{"OpenDayEarlyMorning", time.Date(2025, 10, 1, 7, 30, 0, 0, manila), true},
		{"OpenDayMidnight", time.Date(2025, 10, 1, 0, 0, 0, 0, manila), true},
		{"DeadlineLastMinute", time.Date(2025, 10, 15, 23, 59, 0, 0, manila), true},
		{"DayAfterDeadlineEarlyMorning", time.Date(2025, 10, 16, 7, 30, 0, 0, manila), false},
		{"DayAfterDeadlineMidnight", time.Date(2025, 10, 16, 0, 0, 0, 0, manila), false},
		// 16:30 UTC on the 15th is already the 16th in Manila
		{"UTCClockStillOnDeadline", time.Date(2025, 10, 15, 16, 30, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.IsOpen(tt.now, manila); got != tt.want {
				t.Errorf("IsOpen(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestScholarship_IsOpen_InactiveNeverOpen(t *testing.T) {
	s := &Scholarship{
		Status:   ScholarshipStatusUpcoming,
		OpenDate: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Deadline: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
	}
	if s.IsOpen(time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC), time.UTC) {
		t.Error("upcoming scholarship must not accept applications")
	}
}
