package engine

import (
	"context"
	"sort"
	"sync"

	"smartlock.io/smartlock/model"
	"smartlock.io/smartlock/utils"
)

// memStore is an in-memory Store for engine tests, honouring the conditional
// write semantics the contract demands.
type memStore struct {
	mu         sync.Mutex
	attendance map[string]model.AttendanceRecord
	requests   map[string]model.AccessRequest
	tasks      map[string]model.Task
	audit      []model.AuditEntry

	failCreateTask bool
}

func newMemStore() *memStore {
	return &memStore{
		attendance: make(map[string]model.AttendanceRecord),
		requests:   make(map[string]model.AccessRequest),
		tasks:      make(map[string]model.Task),
	}
}

// CreateAttendance enforces the unique (user_id, date) constraint the real
// store carries, returning Conflict like the translated duplicate-key error.
func (s *memStore) CreateAttendance(_ context.Context, rec *model.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.attendance {
		if existing.UserID == rec.UserID && existing.Date == rec.Date {
			return Conflictf("already checked in today")
		}
	}
	s.attendance[rec.ID] = *rec
	return nil
}

func (s *memStore) GetAttendance(_ context.Context, id string) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.attendance[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *memStore) FindBlockingAttendance(_ context.Context, userID, date string) (*model.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.attendance {
		if rec.UserID != userID {
			continue
		}
		if rec.CheckOut == nil || rec.Date == date {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

func (s *memStore) CloseAttendance(_ context.Context, rec *model.AttendanceRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.attendance[rec.ID]
	if !ok || current.CheckOut != nil {
		return false, nil
	}
	s.attendance[rec.ID] = *rec
	return true, nil
}

func (s *memStore) SaveAttendance(_ context.Context, rec *model.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance[rec.ID] = *rec
	return nil
}

func (s *memStore) SearchAttendance(_ context.Context, q AttendanceQuery) ([]model.AttendanceRecord, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range s.attendance {
		if q.UserID != "" && rec.UserID != q.UserID {
			continue
		}
		if q.Status != "" && rec.Status != q.Status {
			continue
		}
		if q.WorkLocation != "" && rec.WorkLocation != q.WorkLocation {
			continue
		}
		if q.Start != nil && rec.CheckIn.Before(*q.Start) {
			continue
		}
		if q.End != nil && !rec.CheckIn.Before(*q.End) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, int64(len(out)), nil
}

func (s *memStore) CreateRequest(_ context.Context, req *model.AccessRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = *req
	return nil
}

func (s *memStore) GetRequest(_ context.Context, id string) (*model.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (s *memStore) TransitionRequest(_ context.Context, req *model.AccessRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.requests[req.ID]
	if !ok || current.Status != model.RequestPending {
		return false, nil
	}
	s.requests[req.ID] = *req
	return true, nil
}

func (s *memStore) SearchRequests(_ context.Context, q RequestQuery) ([]model.AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.AccessRequest
	for _, req := range s.requests {
		if q.UserID != "" && req.UserID != q.UserID {
			continue
		}
		if q.Status != "" && req.Status != q.Status {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *memStore) CreateTask(_ context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateTask {
		return errTaskStore
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *memStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (s *memStore) SaveTask(_ context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

func (s *memStore) FindTaskByRequest(_ context.Context, requestID string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range s.tasks {
		for _, id := range task.RelatedRequests {
			if id == requestID {
				t := task
				return &t, nil
			}
		}
	}
	return nil, nil
}

func (s *memStore) SearchTasks(_ context.Context, q TaskQuery) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Task
	for _, task := range s.tasks {
		if q.WorkerID != "" && task.WorkerID != q.WorkerID {
			continue
		}
		if q.Status != "" && task.Status != q.Status {
			continue
		}
		if q.Priority != "" && task.Priority != q.Priority {
			continue
		}
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *memStore) AppendAudit(_ context.Context, entry *model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, *entry)
	return nil
}

func (s *memStore) SearchAudit(_ context.Context, q AuditQuery) ([]model.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := utils.Filter(s.audit, func(entry model.AuditEntry) bool {
		return q.ActorID == "" || entry.ActorID == q.ActorID
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// captureRecorder collects entries synchronously so tests can assert on the
// exact trail a call produced.
type captureRecorder struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

func (r *captureRecorder) Record(entry model.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *captureRecorder) all() []model.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.AuditEntry(nil), r.entries...)
}
