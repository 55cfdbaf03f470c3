package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task is a unit of follow-up work for a worker, either created directly by
// an assigner or spawned automatically when an access request is approved.
// A spawned task references exactly one request in RelatedRequests.
type Task struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	WorkerID    string    `gorm:"column:worker_id;type:varchar(36);not null;index:idx_task_worker_status" json:"workerId"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string    `gorm:"column:description;type:varchar(1000);not null" json:"description"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:pending;index:idx_task_worker_status" json:"status"`
	Priority    string    `gorm:"column:priority;type:varchar(20);not null;default:medium" json:"priority"`
	DueDate     time.Time `gorm:"column:due_date;not null;index" json:"dueDate"`
	AssignedBy  string    `gorm:"column:assigned_by;type:varchar(36);not null" json:"assignedBy"`
	Notes       string    `gorm:"column:notes;type:varchar(500)" json:"notes"`

	RelatedRequests datatypes.JSONSlice[string] `gorm:"column:related_requests" json:"relatedRequests"`

	CompletedAt *time.Time `gorm:"column:completed_at" json:"completedAt"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Task) TableName() string {
	return "tasks"
}

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

func ValidTaskPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Terminal reports whether the task can no longer change status.
func (t *Task) Terminal() bool {
	return t.Status == TaskCompleted || t.Status == TaskCancelled
}
