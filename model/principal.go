package model

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
	RoleUser   Role = "user"
)

// Permission names, as they appear in tokens and route requirements.
const (
	PermManageUsers      = "manage_users"
	PermViewReports      = "view_reports"
	PermExportData       = "export_data"
	PermManageAttendance = "manage_attendance"
	PermVerifyUsers      = "verify_users"
	PermEditUserRecords  = "edit_user_records"
	PermViewTasks        = "view_tasks"
	PermEditTasks        = "edit_tasks"
)

type PermissionSet struct {
	ManageUsers      bool `json:"manage_users"`
	ViewReports      bool `json:"view_reports"`
	ExportData       bool `json:"export_data"`
	ManageAttendance bool `json:"manage_attendance"`
	VerifyUsers      bool `json:"verify_users"`
	EditUserRecords  bool `json:"edit_user_records"`
	ViewTasks        bool `json:"view_tasks"`
	EditTasks        bool `json:"edit_tasks"`
}

func (p PermissionSet) Has(name string) bool {
	switch name {
	case PermManageUsers:
		return p.ManageUsers
	case PermViewReports:
		return p.ViewReports
	case PermExportData:
		return p.ExportData
	case PermManageAttendance:
		return p.ManageAttendance
	case PermVerifyUsers:
		return p.VerifyUsers
	case PermEditUserRecords:
		return p.EditUserRecords
	case PermViewTasks:
		return p.ViewTasks
	case PermEditTasks:
		return p.EditTasks
	}
	return false
}

// Principal is the authenticated actor behind every operation. It is issued
// by the external auth service and carried in the identity token; the engine
// only ever reads it.
type Principal struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Role        Role          `json:"role"`
	Permissions PermissionSet `json:"permissions"`
}
