package employee

import (
	"sync"

	"go.uber.org/zap"
)

type ActionType string

const (
	ActionFetchStarted       ActionType = "fetch_started"
	ActionFetchSucceeded     ActionType = "fetch_succeeded"
	ActionFetchFailed        ActionType = "fetch_failed"
	ActionRecordAdded        ActionType = "record_added"
	ActionRecordUpdated      ActionType = "record_updated"
	ActionCollectionReplaced ActionType = "collection_replaced"
)

// Action is a tagged state-change message. Exactly one payload field is set
// depending on Type.
type Action struct {
	Type       ActionType
	Record     *Employee
	Collection []Employee
	Reason     string
}

func FetchStarted() Action               { return Action{Type: ActionFetchStarted} }
func FetchSucceeded(c []Employee) Action { return Action{Type: ActionFetchSucceeded, Collection: c} }
func FetchFailed(reason string) Action   { return Action{Type: ActionFetchFailed, Reason: reason} }
func RecordAdded(e Employee) Action      { return Action{Type: ActionRecordAdded, Record: &e} }
func RecordUpdated(e Employee) Action    { return Action{Type: ActionRecordUpdated, Record: &e} }
func CollectionReplaced(c []Employee) Action {
	return Action{Type: ActionCollectionReplaced, Collection: c}
}

// StateStore owns the process-wide employee collection. All mutation goes
// through Dispatch; every apply reads the state current at apply time under
// the lock, never a caller-captured snapshot. Record updates are
// whole-record replacement keyed by id.
type StateStore struct {
	mu        sync.RWMutex
	employees []Employee
	loading   bool
	loaded    bool
	lastError string
	logger    *zap.Logger
}

func NewStateStore(logger ...*zap.Logger) *StateStore {
	l := zap.L().Named("employee.state")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.state")
	}
	return &StateStore{logger: l}
}

func (s *StateStore) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch a.Type {
	case ActionFetchStarted:
		s.loading = true
		s.lastError = ""

	case ActionFetchSucceeded:
		s.employees = cloneCollection(a.Collection)
		s.loading = false
		s.loaded = true
		s.lastError = ""

	case ActionFetchFailed:
		s.loading = false
		s.lastError = a.Reason

	case ActionRecordAdded:
		if a.Record != nil {
			s.employees = append(s.employees, a.Record.Clone())
		}

	case ActionRecordUpdated:
		if a.Record != nil {
			for i := range s.employees {
				if s.employees[i].ID == a.Record.ID {
					s.employees[i] = a.Record.Clone()
					break
				}
			}
		}

	case ActionCollectionReplaced:
		s.employees = cloneCollection(a.Collection)
		s.loaded = true

	default:
		s.logger.Warn("unknown action dispatched", zap.String("type", string(a.Type)))
	}
}

// Snapshot returns a deep copy of the collection; callers can read it
// without holding the lock.
func (s *StateStore) Snapshot() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCollection(s.employees)
}

// Find returns a copy of the record with the given id, including deleted
// records still held locally.
func (s *StateStore) Find(id string) (Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			return s.employees[i].Clone(), true
		}
	}
	return Employee{}, false
}

func (s *StateStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *StateStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *StateStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
