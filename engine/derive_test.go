package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"smartlock.io/smartlock/model"
)

func TestDeriveAttendance(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name          string
		checkIn       time.Time
		checkOut      time.Time
		breakTime     float64
		wantHours     float64
		wantOvertime  float64
		wantStatus    string
	}{
		{
			name:       "Standard day, on time",
			checkIn:    day(9, 5),
			checkOut:   day(17, 5),
			wantHours:  8.0,
			wantStatus: model.AttendancePresent,
		},
		{
			name:       "Late check-in at 10:30",
			checkIn:    day(10, 30),
			checkOut:   day(18, 30),
			wantHours:  8.0,
			wantStatus: model.AttendanceLate,
		},
		{
			name:         "Half hour break, one hour overtime",
			checkIn:      day(9, 0),
			checkOut:     day(18, 30),
			breakTime:    0.5,
			wantHours:    9.0,
			wantOvertime: 1.0,
			wantStatus:   model.AttendancePresent,
		},
		{
			name:       "Break longer than shift floors at zero",
			checkIn:    day(9, 0),
			checkOut:   day(9, 30),
			breakTime:  2,
			wantHours:  0,
			wantStatus: model.AttendancePresent,
		},
		{
			name:       "Boundary check-in at exactly 10:00 is late",
			checkIn:    day(10, 0),
			checkOut:   day(16, 0),
			wantHours:  6.0,
			wantStatus: model.AttendanceLate,
		},
		{
			name:       "Check-in at 09:59 is present",
			checkIn:    day(9, 59),
			checkOut:   day(16, 0),
			wantHours:  6.0 + 1.0/60.0,
			wantStatus: model.AttendancePresent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveAttendance(tt.checkIn, tt.checkOut, tt.breakTime)
			assert.InDelta(t, tt.wantHours, got.TotalHours, 1e-9)
			assert.InDelta(t, tt.wantOvertime, got.Overtime, 1e-9)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}
