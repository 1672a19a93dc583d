package employee_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-staffdir/internal/employee"
	employeeerrors "go-staffdir/internal/employee/errors"
	"go-staffdir/internal/events"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// memStore is an in-memory RecordStore with per-id failure injection and an
// optional artificial latency, so bulk tests exercise the concurrent path.
type memStore struct {
	mu      sync.Mutex
	records []employee.Employee
	failIDs map[string]bool
	delay   time.Duration
	calls   map[string]int
}

func newMemStore(records []employee.Employee, failIDs ...string) *memStore {
	fail := make(map[string]bool, len(failIDs))
	for _, id := range failIDs {
		fail[id] = true
	}
	s := &memStore{failIDs: fail, calls: make(map[string]int)}
	for _, r := range records {
		s.records = append(s.records, r.Clone())
	}
	return s
}

func (s *memStore) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *memStore) get(id string) (employee.Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return employee.Employee{}, false
}

func (s *memStore) LoadAll(context.Context) ([]employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["LoadAll"]++
	out := make([]employee.Employee, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *memStore) SaveAll(_ context.Context, collection []employee.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["SaveAll"]++
	s.records = s.records[:0]
	for _, r := range collection {
		s.records = append(s.records, r.Clone())
	}
	return nil
}

func (s *memStore) Create(_ context.Context, rec employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Create"]++
	s.records = append(s.records, rec.Clone())
	return rec, nil
}

func (s *memStore) SoftDelete(_ context.Context, id string) (string, error) {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["SoftDelete"]++
	if s.failIDs[id] {
		return "", errors.New("simulated store failure")
	}
	for i := range s.records {
		if s.records[i].ID == id {
			now := time.Now().UTC()
			s.records[i].Deleted = true
			s.records[i].DeletedAt = &now
			return id, nil
		}
	}
	return "", employeeerrors.ErrEmployeeNotFound
}

func (s *memStore) Update(_ context.Context, rec employee.Employee) (employee.Employee, error) {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["Update"]++
	if s.failIDs[rec.ID] {
		return employee.Employee{}, errors.New("simulated store failure")
	}
	for i := range s.records {
		if s.records[i].ID != rec.ID {
			continue
		}
		prior := s.records[i]
		if prior.EffectiveStatus() != rec.EffectiveStatus() {
			entry := employee.StatusChange{
				Date:      time.Now().UTC().Format("2006-01-02"),
				OldStatus: prior.EffectiveStatus(),
				NewStatus: rec.EffectiveStatus(),
			}
			rec.StatusHistory = append([]employee.StatusChange{entry}, prior.StatusHistory...)
		} else {
			rec.StatusHistory = prior.StatusHistory
		}
		s.records[i] = rec.Clone()
		return rec, nil
	}
	return employee.Employee{}, employeeerrors.ErrEmployeeNotFound
}

func (s *memStore) EmailExists(context.Context, string) (bool, error) { return false, nil }

func (s *memStore) NextEmployeeCode(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["NextEmployeeCode"]++
	return "EMP-2026-099", nil
}

func (s *memStore) FindByID(_ context.Context, id string) (employee.Employee, bool, error) {
	rec, ok := s.get(id)
	return rec, ok, nil
}

// capturingPublisher records lifecycle events for assertion.
type capturingPublisher struct {
	mu     sync.Mutex
	events []events.EmployeeLifecycleEvent
}

func (p *capturingPublisher) PublishEmployeeLifecycle(_ context.Context, e events.EmployeeLifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturingPublisher) all() []events.EmployeeLifecycleEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EmployeeLifecycleEvent, len(p.events))
	copy(out, p.events)
	return out
}

func mutatorRecords() []employee.Employee {
	return []employee.Employee{
		{ID: "a", Name: "A", Status: employee.StatusActive},
		{ID: "b", Name: "B", Status: employee.StatusActive},
		{ID: "c", Name: "C", Status: employee.StatusInactive},
	}
}

func newMutatorFixture(t *testing.T, store *memStore, confirm employee.Confirmer) (*employee.Mutator, *employee.StateStore, *capturingPublisher) {
	t.Helper()
	state := employee.NewStateStore(zap.NewNop())
	collection, err := store.LoadAll(context.Background())
	assert.NoError(t, err)
	state.Dispatch(employee.FetchSucceeded(collection))
	pub := &capturingPublisher{}
	return employee.NewMutator(state, store, confirm, pub, zap.NewNop()), state, pub
}

func TestMutator_SoftDelete(t *testing.T) {
	t.Run("success applies only after the store confirms", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		m, state, pub := newMutatorFixture(t, store, employee.AutoConfirm{})
		m.Select("a")

		err := m.SoftDelete(context.Background(), "a")
		assert.NoError(t, err)

		got, ok := state.Find("a")
		assert.True(t, ok)
		assert.True(t, got.Deleted)
		assert.NotNil(t, got.DeletedAt)

		stored, _ := store.get("a")
		assert.True(t, stored.Deleted)

		assert.Empty(t, m.SelectedIDs())
		assert.False(t, m.IsPending("a"))

		evts := pub.all()
		assert.Len(t, evts, 1)
		assert.Equal(t, events.EmployeeDeletedType, evts[0].EventType)
		assert.Equal(t, "a", evts[0].EmployeeID)
	})

	t.Run("declined confirmation touches nothing", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		decline := employee.ConfirmerFunc(func(string) bool { return false })
		m, state, pub := newMutatorFixture(t, store, decline)

		err := m.SoftDelete(context.Background(), "a")
		assert.ErrorIs(t, err, employeeerrors.ErrConfirmationDeclined)

		assert.Equal(t, 0, store.count("SoftDelete"))
		got, _ := state.Find("a")
		assert.False(t, got.Deleted)
		assert.Empty(t, pub.all())
	})

	t.Run("store failure leaves local state untouched", func(t *testing.T) {
		store := newMemStore(mutatorRecords(), "a")
		m, state, pub := newMutatorFixture(t, store, employee.AutoConfirm{})

		err := m.SoftDelete(context.Background(), "a")
		assert.Error(t, err)

		got, _ := state.Find("a")
		assert.False(t, got.Deleted)
		assert.Empty(t, pub.all())
		assert.False(t, m.IsPending("a"))
	})
}

func TestMutator_Selection(t *testing.T) {
	store := newMemStore(mutatorRecords())
	m, _, _ := newMutatorFixture(t, store, employee.AutoConfirm{})

	m.Select("b")
	m.Select("a")
	m.Select("b") // idempotent
	assert.Equal(t, []string{"a", "b"}, m.SelectedIDs())

	m.Deselect("a")
	assert.Equal(t, []string{"b"}, m.SelectedIDs())

	m.ClearSelection()
	assert.Empty(t, m.SelectedIDs())
}

func TestMutator_BulkSoftDelete(t *testing.T) {
	t.Run("partial failure deletes only the confirmed ids", func(t *testing.T) {
		store := newMemStore(mutatorRecords(), "b")
		store.delay = 5 * time.Millisecond
		m, state, pub := newMutatorFixture(t, store, employee.AutoConfirm{})
		m.Select("a")
		m.Select("b")

		res, err := m.BulkSoftDelete(context.Background(), []string{"a", "b"})
		assert.NoError(t, err)
		assert.Equal(t, 2, res.Requested)
		assert.Equal(t, []string{"b"}, res.FailedIDs)

		// End state: a deleted everywhere, b reverted locally and untouched
		// in the store.
		gotA, _ := state.Find("a")
		assert.True(t, gotA.Deleted)
		gotB, _ := state.Find("b")
		assert.False(t, gotB.Deleted)
		assert.Nil(t, gotB.DeletedAt)

		storedA, _ := store.get("a")
		assert.True(t, storedA.Deleted)
		storedB, _ := store.get("b")
		assert.False(t, storedB.Deleted)

		// Batch state clears even on partial failure.
		assert.False(t, m.BulkPending())
		assert.Empty(t, m.SelectedIDs())

		evts := pub.all()
		assert.Len(t, evts, 1)
		assert.Equal(t, "a", evts[0].EmployeeID)
	})

	t.Run("all success deletes everything", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		m, state, pub := newMutatorFixture(t, store, employee.AutoConfirm{})

		res, err := m.BulkSoftDelete(context.Background(), []string{"a", "b", "c"})
		assert.NoError(t, err)
		assert.Empty(t, res.FailedIDs)

		for _, id := range []string{"a", "b", "c"} {
			got, _ := state.Find(id)
			assert.True(t, got.Deleted, id)
		}
		assert.Len(t, pub.all(), 3)
	})

	t.Run("declined confirmation makes no store calls", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		decline := employee.ConfirmerFunc(func(string) bool { return false })
		m, state, _ := newMutatorFixture(t, store, decline)

		_, err := m.BulkSoftDelete(context.Background(), []string{"a", "b"})
		assert.ErrorIs(t, err, employeeerrors.ErrConfirmationDeclined)
		assert.Equal(t, 0, store.count("SoftDelete"))
		gotA, _ := state.Find("a")
		assert.False(t, gotA.Deleted)
	})

	t.Run("empty id list is a no-op without confirmation", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		prompted := false
		confirm := employee.ConfirmerFunc(func(string) bool {
			prompted = true
			return true
		})
		m, _, _ := newMutatorFixture(t, store, confirm)

		res, err := m.BulkSoftDelete(context.Background(), nil)
		assert.NoError(t, err)
		assert.Equal(t, employee.BulkResult{}, res)
		assert.False(t, prompted)
	})

	t.Run("unknown ids fail without disturbing the rest", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		m, state, _ := newMutatorFixture(t, store, employee.AutoConfirm{})

		res, err := m.BulkSoftDelete(context.Background(), []string{"a", "ghost"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"ghost"}, res.FailedIDs)

		gotA, _ := state.Find("a")
		assert.True(t, gotA.Deleted)
	})
}

func TestMutator_BulkSetStatus(t *testing.T) {
	t.Run("success carries the store-composed history into local state", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		m, state, pub := newMutatorFixture(t, store, employee.AutoConfirm{})

		res, err := m.BulkSetStatus(context.Background(), []string{"a"}, employee.StatusInactive)
		assert.NoError(t, err)
		assert.Empty(t, res.FailedIDs)

		got, _ := state.Find("a")
		assert.Equal(t, employee.StatusInactive, got.Status)
		assert.Len(t, got.StatusHistory, 1)
		assert.Equal(t, employee.StatusActive, got.StatusHistory[0].OldStatus)
		assert.Equal(t, employee.StatusInactive, got.StatusHistory[0].NewStatus)

		evts := pub.all()
		assert.Len(t, evts, 1)
		assert.Equal(t, events.EmployeeStatusChangedType, evts[0].EventType)
		assert.Equal(t, employee.StatusInactive, evts[0].NewStatus)
	})

	t.Run("failed ids revert to their prior status", func(t *testing.T) {
		store := newMemStore(mutatorRecords(), "b")
		store.delay = 5 * time.Millisecond
		m, state, pub := newMutatorFixture(t, store, employee.AutoConfirm{})

		res, err := m.BulkSetStatus(context.Background(), []string{"a", "b"}, employee.StatusInactive)
		assert.NoError(t, err)
		assert.Equal(t, []string{"b"}, res.FailedIDs)

		gotA, _ := state.Find("a")
		assert.Equal(t, employee.StatusInactive, gotA.Status)
		assert.Len(t, gotA.StatusHistory, 1)

		// b is back where it started: prior status, no phantom history entry.
		gotB, _ := state.Find("b")
		assert.Equal(t, employee.StatusActive, gotB.Status)
		assert.Empty(t, gotB.StatusHistory)

		storedB, _ := store.get("b")
		assert.Equal(t, employee.StatusActive, storedB.Status)

		assert.Len(t, pub.all(), 1)
	})

	t.Run("same-status transition adds no history entry", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		m, state, _ := newMutatorFixture(t, store, employee.AutoConfirm{})

		_, err := m.BulkSetStatus(context.Background(), []string{"a"}, employee.StatusActive)
		assert.NoError(t, err)

		got, _ := state.Find("a")
		assert.Equal(t, employee.StatusActive, got.Status)
		assert.Empty(t, got.StatusHistory)
	})

	t.Run("rejects unknown status values", func(t *testing.T) {
		store := newMemStore(mutatorRecords())
		m, _, _ := newMutatorFixture(t, store, employee.AutoConfirm{})

		_, err := m.BulkSetStatus(context.Background(), []string{"a"}, "Fired")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidStatus)
		assert.Equal(t, 0, store.count("Update"))
	})
}
