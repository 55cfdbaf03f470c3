package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"smartlock.io/smartlock/model"
)

type CreateTaskParams struct {
	WorkerID        string
	Title           string
	Description     string
	Priority        string
	DueDate         time.Time
	Notes           string
	RelatedRequests []string
	Client          ClientMeta
}

// CreateTask assigns a new task directly (admin/manager path); spawned tasks
// go through SpawnFromApproval instead.
func (e *Engine) CreateTask(ctx context.Context, principal *model.Principal, params CreateTaskParams) (*model.Task, error) {
	if err := Authorize(principal, Permission(model.PermEditTasks)); err != nil {
		return nil, err
	}
	if params.WorkerID == "" {
		return nil, Validationf("task must be assigned to a worker")
	}
	if params.Title == "" {
		return nil, Validationf("task title is required")
	}
	if params.Description == "" {
		return nil, Validationf("task description is required")
	}
	if params.DueDate.IsZero() {
		return nil, Validationf("due date is required")
	}
	priority := params.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidTaskPriority(priority) {
		return nil, Validationf("unknown priority %q", priority)
	}

	task := &model.Task{
		ID:              uuid.NewString(),
		WorkerID:        params.WorkerID,
		Title:           params.Title,
		Description:     params.Description,
		Status:          model.TaskPending,
		Priority:        priority,
		DueDate:         params.DueDate,
		AssignedBy:      principal.ID,
		Notes:           params.Notes,
		RelatedRequests: datatypes.JSONSlice[string](params.RelatedRequests),
	}
	if err := e.Store.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	e.record(principal, params.Client, model.ActionCreateTask, model.AuditEntry{
		Details:          datatypes.JSONMap{"taskId": task.ID},
		AffectedUser:     task.WorkerID,
		AffectedResource: task.ID,
		ResourceType:     model.ResourceTask,
	})
	return task, nil
}

type UpdateTaskStatusParams struct {
	Status string
	Client ClientMeta
}

// UpdateTaskStatus moves a task along its lifecycle. Only the assignee may
// update it; completed and cancelled are terminal; reaching completed stamps
// CompletedAt.
func (e *Engine) UpdateTaskStatus(ctx context.Context, principal *model.Principal, taskID string, params UpdateTaskStatusParams) (*model.Task, error) {
	if principal == nil || principal.ID == "" {
		return nil, Unauthenticated()
	}
	if !model.ValidTaskStatus(params.Status) {
		return nil, Validationf("unknown task status %q", params.Status)
	}

	task, err := e.Store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, NotFoundf("task not found")
	}
	if task.WorkerID != principal.ID {
		return nil, Forbiddenf("not authorized to update this task")
	}
	if task.Terminal() {
		return nil, InvalidTransitionf("task already %s", task.Status)
	}

	task.Status = params.Status
	action := model.ActionUpdateTask
	if params.Status == model.TaskCompleted {
		now := e.now()
		task.CompletedAt = &now
		action = model.ActionCompleteTask
	}

	if err := e.Store.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	e.record(principal, params.Client, action, model.AuditEntry{
		Details:          datatypes.JSONMap{"taskId": task.ID, "status": task.Status},
		AffectedUser:     task.WorkerID,
		AffectedResource: task.ID,
		ResourceType:     model.ResourceTask,
	})
	return task, nil
}

// ListTasksForWorker returns the principal's own tasks, optionally filtered
// by status and priority.
func (e *Engine) ListTasksForWorker(ctx context.Context, principal *model.Principal, status, priority string) ([]model.Task, error) {
	if principal == nil || principal.ID == "" {
		return nil, Unauthenticated()
	}
	return e.Store.SearchTasks(ctx, TaskQuery{
		WorkerID: principal.ID,
		Status:   status,
		Priority: priority,
	})
}

// ListAudit returns the principal's own trail, newest first.
func (e *Engine) ListAudit(ctx context.Context, principal *model.Principal, q AuditQuery) ([]model.AuditEntry, error) {
	if principal == nil || principal.ID == "" {
		return nil, Unauthenticated()
	}
	q.ActorID = principal.ID
	if q.Limit <= 0 || q.Limit > 50 {
		q.Limit = 50
	}
	return e.Store.SearchAudit(ctx, q)
}
