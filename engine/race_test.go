package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"smartlock.io/smartlock/model"
)

// barrierStore holds both racers at the read phase of an operation until each
// has seen the pre-write state, forcing the read-then-write race the
// conditional writes have to resolve.
type barrierStore struct {
	*memStore
	reads sync.WaitGroup
}

func newBarrierStore() *barrierStore {
	s := &barrierStore{memStore: newMemStore()}
	s.reads.Add(2)
	return s
}

func (s *barrierStore) await() {
	s.reads.Done()
	s.reads.Wait()
}

func (s *barrierStore) FindBlockingAttendance(ctx context.Context, userID, date string) (*model.AttendanceRecord, error) {
	rec, err := s.memStore.FindBlockingAttendance(ctx, userID, date)
	s.await()
	return rec, err
}

func (s *barrierStore) GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	rec, err := s.memStore.GetAttendance(ctx, id)
	s.await()
	return rec, err
}

func (s *barrierStore) GetRequest(ctx context.Context, id string) (*model.AccessRequest, error) {
	req, err := s.memStore.GetRequest(ctx, id)
	s.await()
	return req, err
}

func kinds(errs []error) map[Kind]int {
	out := map[Kind]int{}
	for _, err := range errs {
		out[KindOf(err)]++
	}
	return out
}

func TestCheckInRace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	store := newBarrierStore()
	e := New(store, &captureRecorder{})
	e.Now = func() time.Time { return now }

	// both callers pass the read-side conflict check before either inserts;
	// the unique (user, date) constraint decides the winner
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.CheckIn(ctx, userPrincipal("u1"), CheckInParams{})
		}(i)
	}
	wg.Wait()

	got := kinds(errs)
	assert.Equal(t, 1, got[KindNone], "exactly one check-in wins")
	assert.Equal(t, 1, got[KindConflict], "the loser observes Conflict")
	assert.Len(t, store.attendance, 1)
}

func TestCheckOutRace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	store := newBarrierStore()
	e := New(store, &captureRecorder{})
	e.Now = func() time.Time { return now }

	rec := &model.AttendanceRecord{
		ID:      "a1",
		UserID:  "u1",
		Date:    "2025-03-10",
		CheckIn: now,
		Status:  model.AttendancePresent,
	}
	require.NoError(t, store.memStore.CreateAttendance(ctx, rec))

	e.Now = func() time.Time { return now.Add(8 * time.Hour) }

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.CheckOut(ctx, userPrincipal("u1"), "a1", CheckOutParams{})
		}(i)
	}
	wg.Wait()

	got := kinds(errs)
	assert.Equal(t, 1, got[KindNone], "exactly one check-out closes the record")
	assert.Equal(t, 1, got[KindConflict], "the loser observes Conflict")

	closed, err := store.memStore.GetAttendance(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, closed.Open())
}

func TestProcessRequestRace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

	store := newBarrierStore()
	e := New(store, &captureRecorder{})
	e.Now = func() time.Time { return now }

	req := &model.AccessRequest{
		ID:        "r1",
		UserID:    "u1",
		Type:      model.RequestTypeRFID,
		Status:    model.RequestPending,
		Location:  "Lab-3",
		Timestamp: now,
	}
	require.NoError(t, store.memStore.CreateRequest(ctx, req))

	// both deciders see pending; the conditional transition lets one commit
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.ProcessRequest(ctx, workerPrincipal("w1"), "r1", ProcessRequestParams{Decision: DecisionApproved})
		}(i)
	}
	wg.Wait()

	got := kinds(errs)
	assert.Equal(t, 1, got[KindNone], "exactly one decision lands")
	assert.Equal(t, 1, got[KindInvalidTransition], "the loser observes InvalidTransition")
	assert.Len(t, store.tasks, 1, "approval spawned exactly one task")
}
