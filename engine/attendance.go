package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"smartlock.io/smartlock/model"
	"smartlock.io/smartlock/utils"
)

const dateLayout = "2006-01-02"

type Geolocation struct {
	Latitude  float64
	Longitude float64
	Address   string
}

type CheckInParams struct {
	WorkLocation string
	Notes        string
	Geolocation  *Geolocation
	Client       ClientMeta
}

// CheckIn opens a new attendance record for the principal. It conflicts when
// the user still has an open record or already checked in on the same day.
func (e *Engine) CheckIn(ctx context.Context, principal *model.Principal, params CheckInParams) (*model.AttendanceRecord, error) {
	if err := Authorize(principal, Role(model.RoleAdmin, model.RoleWorker, model.RoleUser)); err != nil {
		return nil, err
	}

	workLocation := params.WorkLocation
	if workLocation == "" {
		workLocation = model.WorkLocationOffice
	}
	switch workLocation {
	case model.WorkLocationOffice, model.WorkLocationRemote, model.WorkLocationHybrid:
	default:
		return nil, Validationf("unknown work location %q", workLocation)
	}

	now := e.now()
	date := now.Format(dateLayout)

	existing, err := e.Store.FindBlockingAttendance(ctx, principal.ID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Open() {
			return nil, Conflictf("an open attendance record already exists")
		}
		return nil, Conflictf("already checked in today")
	}

	rec := &model.AttendanceRecord{
		ID:             uuid.NewString(),
		UserID:         principal.ID,
		Date:           date,
		CheckIn:        now,
		Status:         model.AttendancePresent,
		WorkLocation:   workLocation,
		Notes:          params.Notes,
		ApprovalStatus: model.ApprovalPending,
	}
	if params.Geolocation != nil {
		lat, lng := params.Geolocation.Latitude, params.Geolocation.Longitude
		rec.Latitude = &lat
		rec.Longitude = &lng
		rec.Address = params.Geolocation.Address
	}

	if err := e.Store.CreateAttendance(ctx, rec); err != nil {
		return nil, err
	}

	e.record(principal, params.Client, model.ActionCheckIn, model.AuditEntry{
		Details:          datatypes.JSONMap{"attendanceId": rec.ID, "workLocation": workLocation},
		AffectedUser:     principal.ID,
		AffectedResource: rec.ID,
		ResourceType:     model.ResourceAttendance,
	})
	return rec, nil
}

type CheckOutParams struct {
	BreakTime float64
	Notes     string
	Client    ClientMeta
}

// CheckOut closes the record and runs derivation. The close is a conditional
// write on "still open": of two concurrent check-outs only one wins, the
// other observes Conflict.
func (e *Engine) CheckOut(ctx context.Context, principal *model.Principal, recordID string, params CheckOutParams) (*model.AttendanceRecord, error) {
	if err := Authorize(principal, Role(model.RoleAdmin, model.RoleWorker, model.RoleUser)); err != nil {
		return nil, err
	}
	if params.BreakTime < 0 {
		return nil, Validationf("break time cannot be negative")
	}

	rec, err := e.Store.GetAttendance(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, NotFoundf("attendance record not found")
	}
	if rec.UserID != principal.ID {
		return nil, Forbiddenf("not authorized to check out this record")
	}
	if !rec.Open() {
		return nil, Conflictf("already checked out")
	}

	now := e.now()
	rec.CheckOut = &now
	rec.BreakTime = params.BreakTime
	if params.Notes != "" {
		rec.Notes = params.Notes
	}

	derived := DeriveAttendance(rec.CheckIn, now, rec.BreakTime)
	rec.TotalHours = derived.TotalHours
	rec.Overtime = derived.Overtime
	rec.Status = derived.Status

	closed, err := e.Store.CloseAttendance(ctx, rec)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, Conflictf("already checked out")
	}

	e.record(principal, params.Client, model.ActionCheckOut, model.AuditEntry{
		Details: datatypes.JSONMap{
			"attendanceId": rec.ID,
			"totalHours":   rec.TotalHours,
			"overtime":     rec.Overtime,
		},
		AffectedUser:     principal.ID,
		AffectedResource: rec.ID,
		ResourceType:     model.ResourceAttendance,
	})
	return rec, nil
}

// AttendancePatch carries the admin-editable fields; nil means "leave as is".
type AttendancePatch struct {
	CheckIn       *string // RFC3339
	CheckOut      *string // RFC3339
	BreakTime     *float64
	Status        *string
	WorkLocation  *string
	Notes         *string
	ApprovalNotes *string
	Client        ClientMeta
}

// Correct applies an admin/supervisor correction. The patch is stamped with
// the approving principal; derivation reruns only when the patch touches the
// check times or break time.
func (e *Engine) Correct(ctx context.Context, principal *model.Principal, recordID string, patch AttendancePatch) (*model.AttendanceRecord, error) {
	if err := authorizeCorrection(principal); err != nil {
		return nil, err
	}

	rec, err := e.Store.GetAttendance(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, NotFoundf("attendance record not found")
	}

	rederive := false
	if patch.CheckIn != nil {
		t, err := utils.ParseISOTime(*patch.CheckIn)
		if err != nil {
			return nil, Validationf("invalid checkIn: %v", err)
		}
		rec.CheckIn = *t
		// keep the day column in step when the correction crosses midnight
		rec.Date = t.Format(dateLayout)
		rederive = true
	}
	if patch.CheckOut != nil {
		t, err := utils.ParseISOTime(*patch.CheckOut)
		if err != nil {
			return nil, Validationf("invalid checkOut: %v", err)
		}
		rec.CheckOut = t
		rederive = true
	}
	if patch.BreakTime != nil {
		if *patch.BreakTime < 0 {
			return nil, Validationf("break time cannot be negative")
		}
		rec.BreakTime = *patch.BreakTime
		rederive = true
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.WorkLocation != nil {
		rec.WorkLocation = *patch.WorkLocation
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
	if patch.ApprovalNotes != nil {
		rec.ApprovalNotes = *patch.ApprovalNotes
	}

	if rec.CheckOut != nil && rec.CheckOut.Before(rec.CheckIn) {
		return nil, Validationf("checkOut cannot be before checkIn")
	}

	if rederive && rec.CheckOut != nil {
		derived := DeriveAttendance(rec.CheckIn, *rec.CheckOut, rec.BreakTime)
		rec.TotalHours = derived.TotalHours
		rec.Overtime = derived.Overtime
		if patch.Status == nil {
			rec.Status = derived.Status
		}
	}

	now := e.now()
	rec.ApprovedBy = &principal.ID
	rec.ApprovalDate = &now
	rec.ApprovalStatus = model.ApprovalApproved

	if err := e.Store.SaveAttendance(ctx, rec); err != nil {
		return nil, err
	}

	e.record(principal, patch.Client, model.ActionUpdateAttendance, model.AuditEntry{
		Details:          datatypes.JSONMap{"attendanceId": rec.ID},
		AffectedUser:     rec.UserID,
		AffectedResource: rec.ID,
		ResourceType:     model.ResourceAttendance,
	})
	return rec, nil
}

func authorizeCorrection(principal *model.Principal) error {
	if principal == nil || principal.ID == "" {
		return Unauthenticated()
	}
	if principal.Role == model.RoleAdmin || principal.Permissions.Has(model.PermManageAttendance) {
		return nil
	}
	return Forbiddenf("not authorized to update attendance records")
}

type AggregateParams struct {
	UserID string // empty = all users (requires view_reports)
	Start  time.Time
	End    time.Time
}

// AttendanceStats is the per-period summary over [Start, End).
type AttendanceStats struct {
	TotalDays      int     `json:"totalDays"`
	PresentDays    int     `json:"presentDays"`
	LateDays       int     `json:"lateDays"`
	TotalHours     float64 `json:"totalHours"`
	TotalOvertime  float64 `json:"totalOvertime"`
	AvgCheckInHour float64 `json:"avgCheckInHour"`
}

// Aggregate summarises attendance over the half-open interval. Callers
// without view_reports are always scoped to their own records, regardless of
// the requested UserID.
func (e *Engine) Aggregate(ctx context.Context, principal *model.Principal, params AggregateParams) (*AttendanceStats, error) {
	if principal == nil || principal.ID == "" {
		return nil, Unauthenticated()
	}

	userID := params.UserID
	if principal.Role != model.RoleAdmin && !principal.Permissions.Has(model.PermViewReports) {
		userID = principal.ID
	}

	start, end := params.Start, params.End
	records, _, err := e.Store.SearchAttendance(ctx, AttendanceQuery{
		UserID: userID,
		Start:  &start,
		End:    &end,
	})
	if err != nil {
		return nil, err
	}

	stats := &AttendanceStats{}
	hourSum := 0
	for _, rec := range records {
		stats.TotalDays++
		switch rec.Status {
		case model.AttendancePresent:
			stats.PresentDays++
		case model.AttendanceLate:
			stats.LateDays++
		}
		stats.TotalHours += rec.TotalHours
		stats.TotalOvertime += rec.Overtime
		hourSum += rec.CheckIn.Hour()
	}
	if stats.TotalDays > 0 {
		stats.AvgCheckInHour = float64(hourSum) / float64(stats.TotalDays)
	}
	return stats, nil
}

// ListAttendance returns records matching the query with a total count for
// pagination. Without view_reports the query is forced to the caller's own
// records.
func (e *Engine) ListAttendance(ctx context.Context, principal *model.Principal, q AttendanceQuery) ([]model.AttendanceRecord, int64, error) {
	if principal == nil || principal.ID == "" {
		return nil, 0, Unauthenticated()
	}
	if principal.Role != model.RoleAdmin && !principal.Permissions.Has(model.PermViewReports) {
		q.UserID = principal.ID
	}
	return e.Store.SearchAttendance(ctx, q)
}

// ExportAttendance returns the raw records for a reporting export. It is the
// one read path that audits, since exports leave the system.
func (e *Engine) ExportAttendance(ctx context.Context, principal *model.Principal, start, end time.Time, client ClientMeta) ([]model.AttendanceRecord, error) {
	if err := Authorize(principal, Permission(model.PermExportData)); err != nil {
		return nil, err
	}

	records, _, err := e.Store.SearchAttendance(ctx, AttendanceQuery{Start: &start, End: &end})
	if err != nil {
		return nil, err
	}

	e.record(principal, client, model.ActionExportData, model.AuditEntry{
		Details: datatypes.JSONMap{
			"start":   start.Format(dateLayout),
			"end":     end.Format(dateLayout),
			"records": len(records),
		},
		ResourceType: model.ResourceReport,
	})
	return records, nil
}

// GetAttendanceRecord fetches one record, enforcing the same visibility rule
// as listing.
func (e *Engine) GetAttendanceRecord(ctx context.Context, principal *model.Principal, id string) (*model.AttendanceRecord, error) {
	if principal == nil || principal.ID == "" {
		return nil, Unauthenticated()
	}
	rec, err := e.Store.GetAttendance(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, NotFoundf("attendance record not found")
	}
	if rec.UserID != principal.ID && principal.Role != model.RoleAdmin && !principal.Permissions.Has(model.PermViewReports) {
		return nil, Forbiddenf("not authorized to view this record")
	}
	return rec, nil
}
