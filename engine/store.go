package engine

import (
	"context"
	"time"

	"smartlock.io/smartlock/model"
)

// Store is the document store the engine runs against. Implementations must
// make CloseAttendance and TransitionRequest conditional writes: when the
// precondition no longer holds (record already closed, request already
// processed) they report false instead of overwriting, so concurrent callers
// cannot double-close or double-process.
type Store interface {
	CreateAttendance(ctx context.Context, rec *model.AttendanceRecord) error
	GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error)
	// FindBlockingAttendance returns an open record for the user, or a record
	// already created on the given date, whichever exists; nil when the user
	// is clear to check in.
	FindBlockingAttendance(ctx context.Context, userID, date string) (*model.AttendanceRecord, error)
	CloseAttendance(ctx context.Context, rec *model.AttendanceRecord) (bool, error)
	SaveAttendance(ctx context.Context, rec *model.AttendanceRecord) error
	SearchAttendance(ctx context.Context, q AttendanceQuery) ([]model.AttendanceRecord, int64, error)

	CreateRequest(ctx context.Context, req *model.AccessRequest) error
	GetRequest(ctx context.Context, id string) (*model.AccessRequest, error)
	TransitionRequest(ctx context.Context, req *model.AccessRequest) (bool, error)
	SearchRequests(ctx context.Context, q RequestQuery) ([]model.AccessRequest, error)

	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	SaveTask(ctx context.Context, task *model.Task) error
	// FindTaskByRequest returns the task spawned for the request, if any; it
	// is the dedup lookup behind idempotent spawning.
	FindTaskByRequest(ctx context.Context, requestID string) (*model.Task, error)
	SearchTasks(ctx context.Context, q TaskQuery) ([]model.Task, error)

	AppendAudit(ctx context.Context, entry *model.AuditEntry) error
	SearchAudit(ctx context.Context, q AuditQuery) ([]model.AuditEntry, error)
}

type AttendanceQuery struct {
	UserID       string
	Status       string
	WorkLocation string
	Start        *time.Time
	End          *time.Time
	Limit        int
	Offset       int
}

type RequestQuery struct {
	UserID string
	Status string
	Start  *time.Time
	End    *time.Time
	Limit  int
}

type TaskQuery struct {
	WorkerID string
	Status   string
	Priority string
}

type AuditQuery struct {
	ActorID string
	Start   *time.Time
	End     *time.Time
	Limit   int
}
