package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"smartlock.io/smartlock/core"
	"smartlock.io/smartlock/engine"
	"smartlock.io/smartlock/model"
)

// Store implements engine.Store on MySQL through the shared pool. The
// conditional writes (CloseAttendance, TransitionRequest) are single UPDATE
// statements guarded by the precondition in the WHERE clause, so the
// database serialises racing callers.
type Store struct {
	Dm *core.DatabaseManager
}

func New(dm *core.DatabaseManager) *Store {
	return &Store{Dm: dm}
}

// Migrate creates the four engine tables.
func (s *Store) Migrate(ctx context.Context) error {
	return s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.AutoMigrate(
			&model.AttendanceRecord{},
			&model.AccessRequest{},
			&model.Task{},
			&model.AuditEntry{},
		)
	})
}

// CreateAttendance inserts a new record. The unique (user_id, date) index is
// the real arbiter for racing same-day check-ins: the engine's read-side
// conflict check gives the friendly message, the constraint closes the race.
func (s *Store) CreateAttendance(ctx context.Context, rec *model.AttendanceRecord) error {
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Create(rec).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return engine.Conflictf("already checked in today")
	}
	return err
}

func (s *Store) GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&rec).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) FindBlockingAttendance(ctx context.Context, userID, date string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND (check_out IS NULL OR date = ?)", userID, date).
			Order("check_in DESC").
			First(&rec).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) CloseAttendance(ctx context.Context, rec *model.AttendanceRecord) (bool, error) {
	var affected int64
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		result := db.Model(&model.AttendanceRecord{}).
			Where("id = ? AND check_out IS NULL", rec.ID).
			Updates(map[string]any{
				"check_out":   rec.CheckOut,
				"break_time":  rec.BreakTime,
				"notes":       rec.Notes,
				"total_hours": rec.TotalHours,
				"overtime":    rec.Overtime,
				"status":      rec.Status,
			})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) SaveAttendance(ctx context.Context, rec *model.AttendanceRecord) error {
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Save(rec).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a correction moved the record onto a day that already has one
		return engine.Conflictf("a record already exists for that date")
	}
	return err
}

func (s *Store) SearchAttendance(ctx context.Context, q engine.AttendanceQuery) ([]model.AttendanceRecord, int64, error) {
	var records []model.AttendanceRecord
	var total int64
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		query := db.Model(&model.AttendanceRecord{})
		if q.UserID != "" {
			query = query.Where("user_id = ?", q.UserID)
		}
		if q.Status != "" {
			query = query.Where("status = ?", q.Status)
		}
		if q.WorkLocation != "" {
			query = query.Where("work_location = ?", q.WorkLocation)
		}
		if q.Start != nil {
			query = query.Where("check_in >= ?", *q.Start)
		}
		if q.End != nil {
			query = query.Where("check_in < ?", *q.End)
		}

		if err := query.Count(&total).Error; err != nil {
			return err
		}

		query = query.Order("date DESC, check_in DESC")
		if q.Limit > 0 {
			query = query.Limit(q.Limit).Offset(q.Offset)
		}
		return query.Find(&records).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *Store) CreateRequest(ctx context.Context, req *model.AccessRequest) error {
	return s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Create(req).Error
	})
}

func (s *Store) GetRequest(ctx context.Context, id string) (*model.AccessRequest, error) {
	var req model.AccessRequest
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&req).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) TransitionRequest(ctx context.Context, req *model.AccessRequest) (bool, error) {
	var affected int64
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		result := db.Model(&model.AccessRequest{}).
			Where("id = ? AND status = ?", req.ID, model.RequestPending).
			Updates(map[string]any{
				"status":       req.Status,
				"processed_by": req.ProcessedBy,
				"processed_at": req.ProcessedAt,
				"notes":        req.Notes,
			})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) SearchRequests(ctx context.Context, q engine.RequestQuery) ([]model.AccessRequest, error) {
	var requests []model.AccessRequest
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		query := db.Model(&model.AccessRequest{})
		if q.UserID != "" {
			query = query.Where("user_id = ?", q.UserID)
		}
		if q.Status != "" {
			query = query.Where("status = ?", q.Status)
		}
		if q.Start != nil {
			query = query.Where("timestamp >= ?", *q.Start)
		}
		if q.End != nil {
			query = query.Where("timestamp < ?", *q.End)
		}
		query = query.Order("timestamp DESC")
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}
		return query.Find(&requests).Error
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *Store) CreateTask(ctx context.Context, task *model.Task) error {
	return s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Create(task).Error
	})
}

func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&task).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Store) SaveTask(ctx context.Context, task *model.Task) error {
	return s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Save(task).Error
	})
}

func (s *Store) FindTaskByRequest(ctx context.Context, requestID string) (*model.Task, error) {
	var task model.Task
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("JSON_CONTAINS(related_requests, JSON_QUOTE(?))", requestID).
			First(&task).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Store) SearchTasks(ctx context.Context, q engine.TaskQuery) ([]model.Task, error) {
	var tasks []model.Task
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		query := db.Model(&model.Task{})
		if q.WorkerID != "" {
			query = query.Where("worker_id = ?", q.WorkerID)
		}
		if q.Status != "" {
			query = query.Where("status = ?", q.Status)
		}
		if q.Priority != "" {
			query = query.Where("priority = ?", q.Priority)
		}
		return query.Order("due_date ASC").Find(&tasks).Error
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) AppendAudit(ctx context.Context, entry *model.AuditEntry) error {
	return s.Dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Create(entry).Error
	})
}

func (s *Store) SearchAudit(ctx context.Context, q engine.AuditQuery) ([]model.AuditEntry, error) {
	var entries []model.AuditEntry
	err := s.Dm.Exec(ctx, func(db *gorm.DB) error {
		query := db.Model(&model.AuditEntry{})
		if q.ActorID != "" {
			query = query.Where("actor_id = ?", q.ActorID)
		}
		if q.Start != nil {
			query = query.Where("timestamp >= ?", *q.Start)
		}
		if q.End != nil {
			query = query.Where("timestamp < ?", *q.End)
		}
		query = query.Order("timestamp DESC")
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}
		return query.Find(&entries).Error
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
