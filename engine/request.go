package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"smartlock.io/smartlock/model"
)

// TaskDueAfter is how long the worker has to act on an approved request.
const TaskDueAfter = 24 * time.Hour

type SubmitRequestParams struct {
	Type     string
	Location string
	Notes    string
	Metadata map[string]any
	Client   ClientMeta
}

// SubmitRequest files a new access request for the principal, in pending.
func (e *Engine) SubmitRequest(ctx context.Context, principal *model.Principal, params SubmitRequestParams) (*model.AccessRequest, error) {
	if principal == nil || principal.ID == "" {
		return nil, Unauthenticated()
	}
	if params.Type == "" {
		return nil, Validationf("request type is required")
	}
	if !model.ValidRequestType(params.Type) {
		return nil, Validationf("unknown request type %q", params.Type)
	}
	if params.Location == "" {
		return nil, Validationf("location is required")
	}

	req := &model.AccessRequest{
		ID:        uuid.NewString(),
		UserID:    principal.ID,
		Type:      params.Type,
		Status:    model.RequestPending,
		Location:  params.Location,
		Timestamp: e.now(),
		Notes:     params.Notes,
		Metadata:  datatypes.JSONMap(params.Metadata),
	}
	if err := e.Store.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	e.record(principal, params.Client, model.ActionCreateRequest, model.AuditEntry{
		Details:          datatypes.JSONMap{"requestId": req.ID, "type": req.Type},
		AffectedUser:     principal.ID,
		AffectedResource: req.ID,
		ResourceType:     model.ResourceRequest,
	})
	return req, nil
}

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionDenied   Decision = "denied"
)

type ProcessRequestParams struct {
	Decision Decision
	Notes    string
	Client   ClientMeta
}

// ProcessResult is what a decision produced: the request in its terminal
// state and, for approvals, the spawned follow-up task.
type ProcessResult struct {
	Request *model.AccessRequest `json:"request"`
	Task    *model.Task          `json:"task,omitempty"`
}

// ProcessRequest moves a pending request to approved or denied. The
// transition is a conditional write on "still pending", so of two concurrent
// decisions exactly one lands; the loser observes InvalidTransition.
// Approval spawns the follow-up task before returning; if the spawn fails
// after the transition committed, the decision stands and the caller gets a
// DependencyFailure. Retrying the same approve call then completes the
// missing spawn (see recoverSpawn) instead of hitting InvalidTransition.
func (e *Engine) ProcessRequest(ctx context.Context, principal *model.Principal, requestID string, params ProcessRequestParams) (*ProcessResult, error) {
	if err := Authorize(principal, Permission(model.PermVerifyUsers)); err != nil {
		return nil, err
	}
	if params.Decision != DecisionApproved && params.Decision != DecisionDenied {
		return nil, Validationf("decision must be approved or denied")
	}

	req, err := e.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, NotFoundf("request not found")
	}
	if req.Status != model.RequestPending {
		return e.recoverSpawn(ctx, principal, req, params)
	}

	now := e.now()
	req.Status = string(params.Decision)
	req.ProcessedBy = &principal.ID
	req.ProcessedAt = &now
	if params.Notes != "" {
		req.Notes = params.Notes
	}

	committed, err := e.Store.TransitionRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, InvalidTransitionf("request already processed")
	}

	result := &ProcessResult{Request: req}
	action := model.ActionDenyRequest
	if params.Decision == DecisionApproved {
		action = model.ActionApproveRequest
		task, err := e.SpawnFromApproval(ctx, req, principal)
		if err != nil {
			e.record(principal, params.Client, action, auditForRequest(req))
			return result, Dependencyf(err, "request approved but task creation failed")
		}
		result.Task = task
	}

	e.record(principal, params.Client, action, auditForRequest(req))
	return result, nil
}

// recoverSpawn handles a decision on a request that already left pending.
// Normally that is InvalidTransition, with one exception: an approved request
// whose follow-up task is missing means an earlier approval committed but the
// spawn failed, so a matching approve retry completes the spawn instead of
// being rejected. The original approval already audited; completing it does
// not audit again.
func (e *Engine) recoverSpawn(ctx context.Context, principal *model.Principal, req *model.AccessRequest, params ProcessRequestParams) (*ProcessResult, error) {
	if req.Status != model.RequestApproved || params.Decision != DecisionApproved {
		return nil, InvalidTransitionf("request already %s", req.Status)
	}

	existing, err := e.Store.FindTaskByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, InvalidTransitionf("request already %s", req.Status)
	}

	task, err := e.SpawnFromApproval(ctx, req, principal)
	if err != nil {
		return &ProcessResult{Request: req}, Dependencyf(err, "request approved but task creation failed")
	}
	return &ProcessResult{Request: req, Task: task}, nil
}

func auditForRequest(req *model.AccessRequest) model.AuditEntry {
	return model.AuditEntry{
		Details:          datatypes.JSONMap{"requestId": req.ID, "type": req.Type, "location": req.Location},
		AffectedUser:     req.UserID,
		AffectedResource: req.ID,
		ResourceType:     model.ResourceRequest,
	}
}

// SpawnFromApproval creates the follow-up task for an approved request. The
// request id is the natural dedup key: a retry finds the earlier task and
// returns it instead of creating a second one. The deciding worker both
// assigns and receives the task.
func (e *Engine) SpawnFromApproval(ctx context.Context, req *model.AccessRequest, principal *model.Principal) (*model.Task, error) {
	existing, err := e.Store.FindTaskByRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := e.now()
	task := &model.Task{
		ID:              uuid.NewString(),
		WorkerID:        principal.ID,
		Title:           fmt.Sprintf("Process %s request", req.Type),
		Description:     fmt.Sprintf("Handle %s request for %s", req.Type, req.Location),
		Status:          model.TaskPending,
		Priority:        model.PriorityMedium,
		DueDate:         now.Add(TaskDueAfter),
		AssignedBy:      principal.ID,
		RelatedRequests: datatypes.JSONSlice[string]{req.ID},
	}
	if err := e.Store.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListRequests returns requests matching the query. Without view_reports the
// result set is forced to the caller's own requests.
func (e *Engine) ListRequests(ctx context.Context, principal *model.Principal, q RequestQuery) ([]model.AccessRequest, error) {
	if principal == nil || principal.ID == "" {
		return nil, Unauthenticated()
	}
	if principal.Role != model.RoleAdmin && !principal.Permissions.Has(model.PermViewReports) {
		q.UserID = principal.ID
	}
	return e.Store.SearchRequests(ctx, q)
}

// ListPendingRequests is the worker inbox; it needs verify_users.
func (e *Engine) ListPendingRequests(ctx context.Context, principal *model.Principal) ([]model.AccessRequest, error) {
	if err := Authorize(principal, Permission(model.PermVerifyUsers)); err != nil {
		return nil, err
	}
	return e.Store.SearchRequests(ctx, RequestQuery{Status: model.RequestPending})
}
