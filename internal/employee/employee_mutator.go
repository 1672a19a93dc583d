package employee

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	employeeerrors "go-staffdir/internal/employee/errors"
	"go-staffdir/internal/events"
	"go-staffdir/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// bulkConcurrency caps the per-id store calls a bulk operation runs at once.
const bulkConcurrency = 8

// Confirmer is the interactive confirmation collaborator. Mutating
// operations abort with no side effect when it declines.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a plain function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// AutoConfirm always answers yes; the HTTP surface uses it because clients
// confirm on their side before issuing the request.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string) bool { return true }

// BulkResult reports a finished bulk operation: which ids were requested and
// which store calls failed (those ids were reverted locally).
type BulkResult struct {
	Requested int
	FailedIDs []string
}

// Mutator orchestrates state-changing operations against the record store
// using an optimistic-apply / reconcile-on-failure protocol. Local state is
// only authoritative after the store confirms; bulk operations apply first
// and revert exactly the failed ids from prior records captured before the
// apply.
type Mutator struct {
	state     *StateStore
	store     RecordStore
	confirm   Confirmer
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time

	mu          sync.Mutex
	pending     map[string]bool
	selected    map[string]bool
	bulkPending bool
}

func NewMutator(
	state *StateStore,
	store RecordStore,
	confirm Confirmer,
	publisher EventPublisher,
	logger ...*zap.Logger,
) *Mutator {
	l := zap.L().Named("employee.mutator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.mutator")
	}
	if confirm == nil {
		confirm = AutoConfirm{}
	}
	if publisher == nil {
		publisher = NewNoopEventPublisher()
	}
	return &Mutator{
		state:     state,
		store:     store,
		confirm:   confirm,
		publisher: publisher,
		logger:    l,
		now:       time.Now,
		pending:   make(map[string]bool),
		selected:  make(map[string]bool),
	}
}

// --- selection set ---

func (m *Mutator) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected[id] = true
}

func (m *Mutator) Deselect(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.selected, id)
}

func (m *Mutator) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = make(map[string]bool)
}

func (m *Mutator) SelectedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.selected))
	for id := range m.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsPending reports whether a single delete is in flight for the id; the
// view uses it to disable the control and prevent duplicate invocation.
func (m *Mutator) IsPending(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[id]
}

func (m *Mutator) BulkPending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bulkPending
}

// --- single soft-delete ---

// SoftDelete deletes one record. No optimistic apply on this path: local
// state changes only after the store confirms, so a failure needs no
// rollback, only a notification.
func (m *Mutator) SoftDelete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, m.logger)

	if !m.confirm.Confirm(fmt.Sprintf("Delete employee %s? (soft-delete)", id)) {
		log.Info("soft delete declined", zap.String("employee_id", id))
		return employeeerrors.ErrConfirmationDeclined
	}

	m.mu.Lock()
	if m.pending[id] {
		m.mu.Unlock()
		return employeeerrors.ErrOperationPending
	}
	m.pending[id] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
	}()

	if _, err := m.store.SoftDelete(ctx, id); err != nil {
		log.Warn("soft delete failed", zap.String("employee_id", id), zap.Error(err))
		return mapStoreError(err)
	}

	// Authoritative apply, reading current state at apply time.
	if rec, ok := m.state.Find(id); ok {
		now := m.now().UTC()
		rec.Deleted = true
		rec.DeletedAt = &now
		m.state.Dispatch(RecordUpdated(rec))
	}
	m.Deselect(id)

	m.publishLifecycle(ctx, events.EmployeeLifecycleEvent{
		EventType:  events.EmployeeDeletedType,
		EmployeeID: id,
	})

	log.Info("soft delete success", zap.String("employee_id", id))
	return nil
}

// --- bulk operations ---

// BulkSoftDelete optimistically marks every id deleted, fires the store
// calls concurrently with bounded fan-out, then reverts exactly the failed
// ids to their captured prior records.
func (m *Mutator) BulkSoftDelete(ctx context.Context, ids []string) (BulkResult, error) {
	prompt := fmt.Sprintf("Delete %d selected employees?", len(ids))
	now := m.now().UTC()

	return m.runBulk(ctx, ids, prompt,
		func(rec *Employee) {
			rec.Deleted = true
			rec.DeletedAt = &now
		},
		func(ctx context.Context, id string, _ Employee) (Employee, bool, error) {
			_, err := m.store.SoftDelete(ctx, id)
			return Employee{}, false, err
		},
		func(ctx context.Context, id string) {
			m.publishLifecycle(ctx, events.EmployeeLifecycleEvent{
				EventType:  events.EmployeeDeletedType,
				EmployeeID: id,
			})
		},
	)
}

// BulkSetStatus is the status-change twin of BulkSoftDelete. The store
// composes the authoritative history from its own prior record; the local
// optimistic copy never carries a history entry. Failed ids revert to the
// captured prior status, symmetric with the delete path.
func (m *Mutator) BulkSetStatus(ctx context.Context, ids []string, status string) (BulkResult, error) {
	if status != StatusActive && status != StatusInactive {
		return BulkResult{}, employeeerrors.ErrInvalidStatus
	}

	prompt := fmt.Sprintf("Mark %d selected employees as %s?", len(ids), status)

	return m.runBulk(ctx, ids, prompt,
		func(rec *Employee) {
			rec.Status = status
		},
		func(ctx context.Context, id string, prior Employee) (Employee, bool, error) {
			updated := prior.Clone()
			updated.Status = status
			stored, err := m.store.Update(ctx, updated)
			return stored, true, err
		},
		func(ctx context.Context, id string) {
			m.publishLifecycle(ctx, events.EmployeeLifecycleEvent{
				EventType:  events.EmployeeStatusChangedType,
				EmployeeID: id,
				NewStatus:  status,
			})
		},
	)
}

// runBulk is the shared bulk protocol: confirm once, capture priors, apply
// the optimistic mutation, fan out per-id store calls without letting one
// failure cancel the rest, revert failed ids, clear batch state regardless
// of outcome.
func (m *Mutator) runBulk(
	ctx context.Context,
	ids []string,
	prompt string,
	apply func(rec *Employee),
	call func(ctx context.Context, id string, prior Employee) (Employee, bool, error),
	published func(ctx context.Context, id string),
) (BulkResult, error) {
	log := contextutil.GetLogger(ctx, m.logger)

	if len(ids) == 0 {
		return BulkResult{}, nil
	}

	if !m.confirm.Confirm(prompt) {
		log.Info("bulk operation declined", zap.Int("count", len(ids)))
		return BulkResult{}, employeeerrors.ErrConfirmationDeclined
	}

	m.mu.Lock()
	if m.bulkPending {
		m.mu.Unlock()
		return BulkResult{}, employeeerrors.ErrOperationPending
	}
	m.bulkPending = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.bulkPending = false
		m.selected = make(map[string]bool)
		m.mu.Unlock()
	}()

	// Capture priors before touching local state; these are the rollback
	// targets for failed ids.
	priors := make(map[string]Employee, len(ids))
	for _, id := range ids {
		if rec, ok := m.state.Find(id); ok {
			priors[id] = rec
		}
	}

	// Optimistic step: local state reflects the end state immediately.
	for _, id := range ids {
		prior, ok := priors[id]
		if !ok {
			continue
		}
		next := prior.Clone()
		apply(&next)
		m.state.Dispatch(RecordUpdated(next))
	}

	var (
		resMu     sync.Mutex
		failedIDs []string
		stored    = make(map[string]Employee, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)
	for _, id := range ids {
		id := id
		prior := priors[id]
		g.Go(func() error {
			rec, hasRecord, err := call(gctx, id, prior)
			resMu.Lock()
			defer resMu.Unlock()
			if err != nil {
				failedIDs = append(failedIDs, id)
				return nil // a failed id must not cancel its siblings
			}
			if hasRecord {
				stored[id] = rec
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(failedIDs)
	failed := make(map[string]bool, len(failedIDs))
	for _, id := range failedIDs {
		failed[id] = true
	}

	for _, id := range ids {
		if failed[id] {
			// Revert the optimistic mutation for this id only.
			if prior, ok := priors[id]; ok {
				m.state.Dispatch(RecordUpdated(prior))
			}
			continue
		}
		// Confirmed: replace the optimistic copy with the store's version
		// where the call returned one (it carries the composed history).
		if rec, ok := stored[id]; ok {
			m.state.Dispatch(RecordUpdated(rec))
		}
		published(ctx, id)
	}

	if len(failedIDs) > 0 {
		log.Warn("bulk operation completed with failures",
			zap.Int("requested", len(ids)),
			zap.Int("failed", len(failedIDs)),
		)
	} else {
		log.Info("bulk operation success", zap.Int("requested", len(ids)))
	}

	return BulkResult{Requested: len(ids), FailedIDs: failedIDs}, nil
}

func (m *Mutator) publishLifecycle(ctx context.Context, event events.EmployeeLifecycleEvent) {
	event.RequestID = contextutil.GetRequestID(ctx)
	event.OccurredAt = m.now().UTC()
	if err := m.publisher.PublishEmployeeLifecycle(ctx, event); err != nil {
		m.logger.Warn("publish lifecycle event failed",
			zap.String("event_type", event.EventType),
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
	}
}
