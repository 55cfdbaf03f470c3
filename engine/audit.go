package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"smartlock.io/smartlock/model"
)

// ClientMeta is the client-side context of a call, threaded through to audit
// entries. Handlers fill it from the request; CLIs leave it empty.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Recorder accepts audit entries for an accepted mutation. Recording never
// fails the triggering operation; the audit trail is a secondary,
// append-only concern.
type Recorder interface {
	Record(entry model.AuditEntry)
}

// AuditSink is the write side a QueueRecorder drains into. *store.Store
// satisfies it via AppendAudit.
type AuditSink interface {
	AppendAudit(ctx context.Context, entry *model.AuditEntry) error
}

// QueueRecorder buffers entries on a channel and writes them from a single
// background goroutine, so a slow audit store cannot stall the primary
// request path. A full queue or a failed write degrades to a logged warning.
type QueueRecorder struct {
	sink AuditSink
	ch   chan model.AuditEntry
	done chan struct{}
}

func NewQueueRecorder(sink AuditSink, depth int) *QueueRecorder {
	r := &QueueRecorder{
		sink: sink,
		ch:   make(chan model.AuditEntry, depth),
		done: make(chan struct{}),
	}
	go r.drain()
	return r
}

func (r *QueueRecorder) Record(entry model.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	select {
	case r.ch <- entry:
	default:
		log.Printf("audit: queue full, dropping %s by %s", entry.Action, entry.ActorID)
	}
}

func (r *QueueRecorder) drain() {
	defer close(r.done)
	for entry := range r.ch {
		if err := r.sink.AppendAudit(context.Background(), &entry); err != nil {
			log.Printf("audit: failed to record %s by %s: %v", entry.Action, entry.ActorID, err)
		}
	}
}

// Close flushes queued entries and stops the writer.
func (r *QueueRecorder) Close() {
	close(r.ch)
	<-r.done
}
