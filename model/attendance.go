package model

import "time"

const (
	AttendancePresent    = "present"
	AttendanceLate       = "late"
	AttendanceEarlyLeave = "early-leave"
	AttendanceAbsent     = "absent"
	AttendanceHalfDay    = "half-day"
)

const (
	WorkLocationOffice = "office"
	WorkLocationRemote = "remote"
	WorkLocationHybrid = "hybrid"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// AttendanceRecord is one check-in/check-out period for a user. TotalHours,
// Overtime and Status are derived from the check times and never accepted as
// input. A record with CheckOut unset is "open".
type AttendanceRecord struct {
	ID           string     `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	// (user_id, date) is unique so racing check-ins cannot create two
	// records for the same day; the insert itself is the arbiter.
	UserID       string     `gorm:"column:user_id;type:varchar(36);not null;uniqueIndex:idx_attendance_user_date" json:"userId"`
	Date         string     `gorm:"column:date;type:date;not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	CheckIn      time.Time  `gorm:"column:check_in;not null" json:"checkIn"`
	CheckOut     *time.Time `gorm:"column:check_out" json:"checkOut"`
	Status       string     `gorm:"column:status;type:varchar(20);not null;default:present" json:"status"`
	WorkLocation string     `gorm:"column:work_location;type:varchar(20);not null" json:"workLocation"`
	Notes        string     `gorm:"column:notes;type:varchar(500)" json:"notes"`

	TotalHours float64 `gorm:"column:total_hours;type:decimal(10,2);default:0" json:"totalHours"`
	BreakTime  float64 `gorm:"column:break_time;type:decimal(10,2);default:0" json:"breakTime"`
	Overtime   float64 `gorm:"column:overtime;type:decimal(10,2);default:0" json:"overtime"`

	ApprovalStatus string     `gorm:"column:approval_status;type:varchar(20);not null;default:pending" json:"approvalStatus"`
	ApprovedBy     *string    `gorm:"column:approved_by;type:varchar(36)" json:"approvedBy"`
	ApprovalDate   *time.Time `gorm:"column:approval_date" json:"approvalDate"`
	ApprovalNotes  string     `gorm:"column:approval_notes;type:varchar(500)" json:"approvalNotes"`

	Latitude  *float64 `gorm:"column:latitude" json:"latitude"`
	Longitude *float64 `gorm:"column:longitude" json:"longitude"`
	Address   string   `gorm:"column:address;type:varchar(255)" json:"address"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Open reports whether the record has no check-out yet.
func (r *AttendanceRecord) Open() bool {
	return r.CheckOut == nil
}
