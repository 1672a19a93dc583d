package employee

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	employeeerrors "go-staffdir/internal/employee/errors"
	"go-staffdir/internal/events"
	"go-staffdir/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	PositionsCacheKey = "employees:positions"
	positionsCacheTTL = 10 * time.Minute

	loadFlightKey = "employees:load"
)

type Service interface {
	List(ctx context.Context, spec QuerySpec) (ListResult, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeDetailResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Positions(ctx context.Context) ([]string, error)
	Summary(ctx context.Context) (SummaryResponse, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	NextEmployeeCode(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error
}

type service struct {
	store     RecordStore
	state     *StateStore
	publisher EventPublisher
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	store RecordStore,
	state *StateStore,
	rdb *redis.Client,
	publisher EventPublisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if publisher == nil {
		publisher = NewNoopEventPublisher()
	}
	return &service{
		store:     store,
		state:     state,
		publisher: publisher,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
		now:       time.Now,
	}
}

// ensureLoaded fetches the collection into the state container once;
// concurrent callers collapse onto a single store load.
func (s *service) ensureLoaded(ctx context.Context) ([]Employee, error) {
	if s.state.Loaded() {
		return s.state.Snapshot(), nil
	}

	_, err, _ := s.sf.Do(loadFlightKey, func() (interface{}, error) {
		if s.state.Loaded() {
			return nil, nil
		}
		return nil, s.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}

	return s.state.Snapshot(), nil
}

// fetch runs one load cycle through the dispatch contract.
func (s *service) fetch(ctx context.Context) error {
	s.state.Dispatch(FetchStarted())

	collection, err := s.store.LoadAll(ctx)
	if err != nil {
		mapped := mapStoreError(err)
		s.state.Dispatch(FetchFailed(mapped.Error()))
		s.logger.Error("fetch employees failed", zap.Error(err))
		return mapped
	}

	s.state.Dispatch(FetchSucceeded(collection))
	s.logger.Debug("fetch employees success", zap.Int("count", len(collection)))
	return nil
}

func (s *service) List(ctx context.Context, spec QuerySpec) (ListResult, error) {
	collection, err := s.ensureLoaded(ctx)
	if err != nil {
		return ListResult{}, err
	}

	view := ComputeView(collection, spec)

	now := s.now().UTC()
	items := make([]EmployeeResponse, len(view.PageRows))
	for i, e := range view.PageRows {
		items[i] = mapToResponse(e, now)
	}

	// Echo the normalized state so clients persist the clamped page, not
	// the stale one they asked with.
	normalized := spec
	normalized.Page = view.Page
	viewState := make(map[string]string)
	for k, v := range EncodeViewState(normalized) {
		viewState[k] = v[0]
	}

	return ListResult{
		Items:      items,
		Total:      view.TotalMatching,
		TotalPages: view.TotalPages,
		Page:       view.Page,
		ViewState:  viewState,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("position", req.Position),
	)

	code, err := s.store.NextEmployeeCode(ctx)
	if err != nil {
		s.logger.Error("create employee generate code failed", zap.Error(err))
		return EmployeeResponse{}, mapStoreError(err)
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}

	rec := Employee{
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.TrimSpace(req.Email),
		Position:      strings.TrimSpace(req.Position),
		Status:        status,
		Salary:        req.Salary,
		DateJoined:    req.DateJoined,
		EmployeeCode:  code,
		StatusHistory: []StatusChange{},
	}

	stored, err := s.store.Create(ctx, rec)
	if err != nil {
		s.logger.Warn("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapStoreError(err)
	}

	s.state.Dispatch(RecordAdded(stored))
	s.invalidatePositionsCache(ctx)

	s.publishLifecycle(ctx, events.EmployeeLifecycleEvent{
		EventType:  events.EmployeeCreatedType,
		EmployeeID: stored.ID,
		NewStatus:  stored.EffectiveStatus(),
	})

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", stored.ID),
		zap.String("employee_code", stored.EmployeeCode),
	)

	return mapToResponse(stored, s.now().UTC()), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeDetailResponse, error) {
	s.logger.Debug("get employee by id requested", zap.String("employee_id", id))

	rec, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return EmployeeDetailResponse{}, mapStoreError(err)
	}
	// A deleted record stays addressable in the store, but the detail view
	// treats it the same as a missing one.
	if !found || rec.Deleted {
		return EmployeeDetailResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	return mapToDetailResponse(rec, s.now().UTC()), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	prior, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapStoreError(err)
	}
	if !found || prior.Deleted {
		return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	next := prior.Clone()
	next.Name = strings.TrimSpace(req.Name)
	next.Email = strings.TrimSpace(req.Email)
	next.Position = strings.TrimSpace(req.Position)
	next.Salary = req.Salary
	next.DateJoined = req.DateJoined
	next.Status = req.Status

	stored, err := s.store.Update(ctx, next)
	if err != nil {
		s.logger.Warn("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapStoreError(err)
	}

	s.state.Dispatch(RecordUpdated(stored))
	s.invalidatePositionsCache(ctx)

	if prior.EffectiveStatus() != stored.EffectiveStatus() {
		s.publishLifecycle(ctx, events.EmployeeLifecycleEvent{
			EventType:  events.EmployeeStatusChangedType,
			EmployeeID: stored.ID,
			OldStatus:  prior.EffectiveStatus(),
			NewStatus:  stored.EffectiveStatus(),
		})
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(stored, s.now().UTC()), nil
}

// Positions serves the filter dropdown. The list changes rarely, so it is
// cached in redis and recomputed behind a singleflight.
func (s *service) Positions(ctx context.Context) ([]string, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, PositionsCacheKey).Result(); err == nil {
			var out []string
			if json.Unmarshal([]byte(cached), &out) == nil {
				return out, nil
			}
		}
	}

	v, err, _ := s.sf.Do(PositionsCacheKey, func() (interface{}, error) {
		collection, err := s.ensureLoaded(ctx)
		if err != nil {
			return nil, err
		}

		out := Positions(collection)

		if s.rdb != nil {
			if payload, err := json.Marshal(out); err == nil {
				s.rdb.Set(ctx, PositionsCacheKey, payload, positionsCacheTTL)
			}
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]string), nil
}

func (s *service) Summary(ctx context.Context) (SummaryResponse, error) {
	collection, err := s.ensureLoaded(ctx)
	if err != nil {
		return SummaryResponse{}, err
	}
	return ComputeSummary(collection, s.now().UTC()), nil
}

func (s *service) CheckEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.store.EmailExists(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, mapStoreError(err)
	}
	return exists, nil
}

func (s *service) NextEmployeeCode(ctx context.Context) (string, error) {
	code, err := s.store.NextEmployeeCode(ctx)
	if err != nil {
		return "", mapStoreError(err)
	}
	return code, nil
}

// Refresh forces a full re-fetch; this is the dashboard retry affordance.
func (s *service) Refresh(ctx context.Context) error {
	_, err, _ := s.sf.Do(loadFlightKey, func() (interface{}, error) {
		return nil, s.fetch(ctx)
	})
	return err
}

func (s *service) invalidatePositionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, PositionsCacheKey).Err(); err != nil {
		s.logger.Warn("invalidate positions cache failed",
			zap.String("key", PositionsCacheKey),
			zap.Error(err),
		)
	}
}

func (s *service) publishLifecycle(ctx context.Context, event events.EmployeeLifecycleEvent) {
	event.RequestID = contextutil.GetRequestID(ctx)
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.PublishEmployeeLifecycle(ctx, event); err != nil {
		s.logger.Warn("publish lifecycle event failed",
			zap.String("event_type", event.EventType),
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
	}
}

func mapToResponse(e Employee, now time.Time) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Position:     e.EffectivePosition(),
		Status:       e.EffectiveStatus(),
		Salary:       e.Salary,
		DateJoined:   e.DateJoined,
		EmployeeCode: e.EmployeeCode,
		TenureYears:  e.TenureYears(now),
	}
}

func mapToDetailResponse(e Employee, now time.Time) EmployeeDetailResponse {
	history := make([]StatusChangeResponse, len(e.StatusHistory))
	for i, h := range e.StatusHistory {
		history[i] = StatusChangeResponse{
			Date:      h.Date,
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
		}
	}
	return EmployeeDetailResponse{
		EmployeeResponse: mapToResponse(e, now),
		StatusHistory:    history,
	}
}
