package models

import (
	"testing"
	"time"
)

func TestPeriodFor(t *testing.T) {
	start := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		plan    *Plan
		wantEnd time.Time
	}{
		{
			name:    "recurring runs one calendar month",
			plan:    &Plan{ScheduleType: ScheduleRecurring, DurationDays: 10},
			wantEnd: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "non-recurring uses plan duration",
			plan:    &Plan{ScheduleType: ScheduleNonRecurring, DurationDays: 10},
			wantEnd: start.AddDate(0, 0, 10),
		},
		{
			name:    "non-recurring without duration defaults to 30 days",
			plan:    &Plan{ScheduleType: ScheduleNonRecurring},
			wantEnd: start.AddDate(0, 0, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := PeriodFor(tt.plan, start)
			if !gotStart.Equal(start) {
				t.Errorf("start = %v, want %v", gotStart, start)
			}
			if !gotEnd.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", gotEnd, tt.wantEnd)
			}
		})
	}
}

func TestUserFullName(t *testing.T) {
	user := &User{FirstName: "Ana", LastName: "Silva"}
	if got := user.FullName(); got != "Ana Silva" {
		t.Errorf("FullName = %q", got)
	}
}
