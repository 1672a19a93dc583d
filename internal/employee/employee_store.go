package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	employeeerrors "go-staffdir/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// The whole collection lives as one JSON value under this key; there is
	// no per-record schema.
	CollectionKey = "employees:db"

	// Atomic sequence behind employee code generation.
	CodeSequenceKey = "employees:code_seq"
)

// RecordStore persists the employee collection as a single opaque blob. It
// is the only component that touches storage; everything above works on the
// in-memory collection.
type RecordStore interface {
	LoadAll(ctx context.Context) ([]Employee, error)
	SaveAll(ctx context.Context, collection []Employee) error
	Create(ctx context.Context, rec Employee) (Employee, error)
	SoftDelete(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, rec Employee) (Employee, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	NextEmployeeCode(ctx context.Context) (string, error)
	FindByID(ctx context.Context, id string) (Employee, bool, error)
}

type redisStore struct {
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewRedisStore(rdb *redis.Client, logger ...*zap.Logger) RecordStore {
	l := zap.L().Named("employee.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.store")
	}
	return &redisStore{rdb: rdb, logger: l, now: time.Now}
}

// seedEmployees is the starter set persisted on first-ever access.
func seedEmployees() []Employee {
	return []Employee{
		{
			ID:           "1",
			Name:         "Rohit Desai",
			Email:        "rohit.desai@example.com",
			Role:         "Backend Developer",
			Position:     "Backend Developer",
			Status:       StatusActive,
			DateJoined:   "2024-02-10",
			EmployeeCode: "EMP-2025-003",
			Salary:       10000,
		},
		{
			ID:           "2",
			Name:         "Sejal Desai",
			Email:        "sejal.desai@example.com",
			Role:         "Frontend Developer",
			Position:     "Frontend Developer",
			Status:       StatusActive,
			DateJoined:   "2023-09-15",
			EmployeeCode: "EMP-2024-003",
			Salary:       100000,
		},
	}
}

func (s *redisStore) LoadAll(ctx context.Context) ([]Employee, error) {
	raw, err := s.rdb.Get(ctx, CollectionKey).Result()
	if errors.Is(err, redis.Nil) {
		seeded := seedEmployees()
		if err := s.SaveAll(ctx, seeded); err != nil {
			return nil, err
		}
		// Continue the code sequence after the seeded records.
		if err := s.rdb.SetNX(ctx, CodeSequenceKey, len(seeded), 0).Err(); err != nil {
			s.logger.Warn("seed code sequence failed", zap.Error(err))
		}
		s.logger.Info("seeded employee collection", zap.Int("count", len(seeded)))
		return seeded, nil
	}
	if err != nil {
		return nil, mapStoreError(err)
	}

	var collection []Employee
	if err := json.Unmarshal([]byte(raw), &collection); err != nil {
		s.logger.Error("decode employee collection failed", zap.Error(err))
		return nil, mapStoreError(err)
	}
	return collection, nil
}

func (s *redisStore) SaveAll(ctx context.Context, collection []Employee) error {
	payload, err := json.Marshal(collection)
	if err != nil {
		return mapStoreError(err)
	}
	if err := s.rdb.Set(ctx, CollectionKey, string(payload), 0).Err(); err != nil {
		return mapStoreError(err)
	}
	return nil
}

func (s *redisStore) Create(ctx context.Context, rec Employee) (Employee, error) {
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return Employee{}, err
	}

	// Uniqueness is enforced here, at create time. Any earlier EmailExists
	// call is advisory only.
	for _, e := range collection {
		if !e.Deleted && strings.EqualFold(e.Email, rec.Email) {
			return Employee{}, employeeerrors.ErrEmployeeAlreadyExists
		}
	}

	rec.ID = uuid.NewString()
	rec.Deleted = false
	rec.DeletedAt = nil
	if rec.StatusHistory == nil {
		rec.StatusHistory = []StatusChange{}
	}

	collection = append(collection, rec)
	if err := s.SaveAll(ctx, collection); err != nil {
		return Employee{}, err
	}

	s.logger.Info("employee created",
		zap.String("employee_id", rec.ID),
		zap.String("employee_code", rec.EmployeeCode),
	)
	return rec, nil
}

func (s *redisStore) SoftDelete(ctx context.Context, id string) (string, error) {
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return "", err
	}

	found := false
	now := s.now().UTC()
	for i := range collection {
		if collection[i].ID == id {
			collection[i].Deleted = true
			collection[i].DeletedAt = &now
			found = true
			break
		}
	}
	if !found {
		return "", employeeerrors.ErrEmployeeNotFound
	}

	if err := s.SaveAll(ctx, collection); err != nil {
		return "", err
	}

	s.logger.Info("employee soft-deleted", zap.String("employee_id", id))
	return id, nil
}

func (s *redisStore) Update(ctx context.Context, rec Employee) (Employee, error) {
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return Employee{}, err
	}

	idx := -1
	for i := range collection {
		if collection[i].ID == rec.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Employee{}, employeeerrors.ErrEmployeeNotFound
	}

	prior := collection[idx]

	// The history entry derives from the STORED prior record, not from
	// whatever optimistic copy the caller holds.
	history := prior.StatusHistory
	if prior.EffectiveStatus() != rec.EffectiveStatus() {
		entry := StatusChange{
			Date:      s.now().UTC().Format(dateLayout),
			OldStatus: prior.EffectiveStatus(),
			NewStatus: rec.EffectiveStatus(),
		}
		history = append([]StatusChange{entry}, history...)
	}
	rec.StatusHistory = history

	// Identity fields never change after creation.
	rec.EmployeeCode = prior.EmployeeCode

	collection[idx] = rec
	if err := s.SaveAll(ctx, collection); err != nil {
		return Employee{}, err
	}

	return rec, nil
}

func (s *redisStore) EmailExists(ctx context.Context, email string) (bool, error) {
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range collection {
		if !e.Deleted && strings.EqualFold(e.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// NextEmployeeCode returns EMP-{year}-{NNN}. The sequence is an atomic INCR,
// so concurrent creates never collide on the code.
func (s *redisStore) NextEmployeeCode(ctx context.Context) (string, error) {
	exists, err := s.rdb.Exists(ctx, CodeSequenceKey).Result()
	if err != nil {
		return "", mapStoreError(err)
	}
	if exists == 0 {
		// First use: seed the collection (if needed) and park the sequence
		// behind the existing record count.
		collection, err := s.LoadAll(ctx)
		if err != nil {
			return "", err
		}
		if err := s.rdb.SetNX(ctx, CodeSequenceKey, len(collection), 0).Err(); err != nil {
			return "", mapStoreError(err)
		}
	}

	seq, err := s.rdb.Incr(ctx, CodeSequenceKey).Result()
	if err != nil {
		return "", mapStoreError(err)
	}

	return fmt.Sprintf("EMP-%d-%03d", s.now().UTC().Year(), seq), nil
}

func (s *redisStore) FindByID(ctx context.Context, id string) (Employee, bool, error) {
	collection, err := s.LoadAll(ctx)
	if err != nil {
		return Employee{}, false, err
	}
	// Deleted records stay addressable by direct id lookup.
	for _, e := range collection {
		if e.ID == id {
			return e, true, nil
		}
	}
	return Employee{}, false, nil
}
