package model

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions. The vocabulary is closed; handlers and engine operations
// only ever record these.
const (
	ActionCheckIn          = "check_in"
	ActionCheckOut         = "check_out"
	ActionUpdateAttendance = "update_attendance"
	ActionCreateRequest    = "create_request"
	ActionApproveRequest   = "approve_request"
	ActionDenyRequest      = "deny_request"
	ActionCreateTask       = "create_task"
	ActionUpdateTask       = "update_task"
	ActionCompleteTask     = "complete_task"
	ActionExportData       = "export_data"
)

// Resource types referenced by audit entries.
const (
	ResourceAttendance = "Attendance"
	ResourceRequest    = "Request"
	ResourceTask       = "Task"
	ResourceUser       = "User"
	ResourceReport     = "Report"
)

// AuditEntry is one appended line of the audit trail: who did what to which
// resource, with client metadata. Entries are written once and never updated
// or deleted.
type AuditEntry struct {
	ID        string            `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	ActorID   string            `gorm:"column:actor_id;type:varchar(36);not null;index:idx_audit_actor_ts" json:"actorId"`
	Action    string            `gorm:"column:action;type:varchar(40);not null;index:idx_audit_action_ts" json:"action"`
	Details   datatypes.JSONMap `gorm:"column:details" json:"details"`
	IPAddress string            `gorm:"column:ip_address;type:varchar(45)" json:"ipAddress"`
	UserAgent string            `gorm:"column:user_agent;type:varchar(255)" json:"userAgent"`
	Timestamp time.Time         `gorm:"column:timestamp;not null;index:idx_audit_actor_ts;index:idx_audit_action_ts" json:"timestamp"`

	AffectedUser     string `gorm:"column:affected_user;type:varchar(36)" json:"affectedUser"`
	AffectedResource string `gorm:"column:affected_resource;type:varchar(36)" json:"affectedResource"`
	ResourceType     string `gorm:"column:resource_type;type:varchar(20)" json:"resourceType"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
