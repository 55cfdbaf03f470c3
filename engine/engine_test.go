package engine

import (
	"errors"
	"time"

	"smartlock.io/smartlock/model"
)

var errTaskStore = errors.New("task store unavailable")

func newTestEngine(now time.Time) (*Engine, *memStore, *captureRecorder) {
	store := newMemStore()
	audit := &captureRecorder{}
	e := New(store, audit)
	e.Now = func() time.Time { return now }
	return e, store, audit
}

func userPrincipal(id string) *model.Principal {
	return &model.Principal{ID: id, Name: "Test User", Role: model.RoleUser}
}

func workerPrincipal(id string) *model.Principal {
	return &model.Principal{
		ID:   id,
		Name: "Test Worker",
		Role: model.RoleWorker,
		Permissions: model.PermissionSet{
			VerifyUsers: true,
			ViewTasks:   true,
		},
	}
}

func adminPrincipal(id string) *model.Principal {
	return &model.Principal{ID: id, Name: "Test Admin", Role: model.RoleAdmin}
}
