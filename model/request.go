package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RequestTypeRFID       = "rfid"
	RequestTypeDoorUnlock = "door_unlock"
	RequestTypeAccessCard = "access_card"
)

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
)

// AccessRequest is a user's petition for physical access (a new RFID tag, a
// door unlock, a replacement card). It starts pending and is processed
// exactly once; approved and denied are both terminal.
type AccessRequest struct {
	ID        string            `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	UserID    string            `gorm:"column:user_id;type:varchar(36);not null;index:idx_request_user_ts" json:"userId"`
	Type      string            `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Status    string            `gorm:"column:status;type:varchar(20);not null;default:pending;index:idx_request_status_ts" json:"status"`
	Location  string            `gorm:"column:location;type:varchar(255);not null" json:"location"`
	Timestamp time.Time         `gorm:"column:timestamp;not null;index:idx_request_user_ts;index:idx_request_status_ts" json:"timestamp"`
	Notes     string            `gorm:"column:notes;type:varchar(500)" json:"notes"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`

	ProcessedBy *string    `gorm:"column:processed_by;type:varchar(36)" json:"processedBy"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processedAt"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (AccessRequest) TableName() string {
	return "access_requests"
}

func ValidRequestType(t string) bool {
	switch t {
	case RequestTypeRFID, RequestTypeDoorUnlock, RequestTypeAccessCard:
		return true
	}
	return false
}
