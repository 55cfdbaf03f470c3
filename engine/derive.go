package engine

import (
	"time"

	"smartlock.io/smartlock/model"
)

const (
	// WorkdayHours is the standard paid day; anything beyond it is overtime.
	WorkdayHours = 8.0
	// LateCheckInHour marks a check-in as late from 10:00 local time.
	LateCheckInHour = 10
)

// Derived holds the fields computed from a closed check-in/check-out pair.
type Derived struct {
	TotalHours float64
	Overtime   float64
	Status     string
}

// DeriveAttendance computes total hours, overtime and status from the check
// times. Break time is subtracted from the raw duration and the result is
// floored at zero, so a short period with a long break never goes negative.
func DeriveAttendance(checkIn, checkOut time.Time, breakTime float64) Derived {
	total := checkOut.Sub(checkIn).Hours() - breakTime
	if total < 0 {
		total = 0
	}

	overtime := 0.0
	if total > WorkdayHours {
		overtime = total - WorkdayHours
	}

	status := model.AttendancePresent
	if checkIn.Hour() >= LateCheckInHour {
		status = model.AttendanceLate
	}

	return Derived{
		TotalHours: total,
		Overtime:   overtime,
		Status:     status,
	}
}
