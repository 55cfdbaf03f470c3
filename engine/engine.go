package engine

import (
	"time"

	"smartlock.io/smartlock/model"
)

// Engine ties the lifecycle operations to a store and an audit recorder.
// Now is swappable so the derivation paths can be tested against fixed
// clocks; it defaults to time.Now.
type Engine struct {
	Store Store
	Audit Recorder
	Now   func() time.Time
}

func New(store Store, audit Recorder) *Engine {
	return &Engine{
		Store: store,
		Audit: audit,
		Now:   time.Now,
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) record(principal *model.Principal, client ClientMeta, action string, entry model.AuditEntry) {
	entry.ActorID = principal.ID
	entry.Action = action
	entry.IPAddress = client.IPAddress
	entry.UserAgent = client.UserAgent
	entry.Timestamp = e.now()
	e.Audit.Record(entry)
}
