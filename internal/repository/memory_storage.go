package repository

import (
	"context"
	"sort"
	"sync"
	"tennis-analyzer/internal/config"
	"tennis-analyzer/internal/domain"
	"time"
)

// MemStorage keeps everything in process memory. Identity counters start at 1
// and are never reused, even after deletes.
type MemStorage struct {
	mu             sync.RWMutex
	users          map[int64]*domain.User
	analyses       map[int64]*domain.Analysis
	nextUserID     int64
	nextAnalysisID int64
	now            func() time.Time
}

// NewMemStorage creates an empty in-memory store.
func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:          make(map[int64]*domain.User),
		analyses:       make(map[int64]*domain.Analysis),
		nextUserID:     1,
		nextAnalysisID: 1,
		now:            creationTime,
	}
}

// creationTime is the timestamp stamped on new records by every engine.
func creationTime() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *MemStorage) Kind() string { return config.DriverMemory }

func (s *MemStorage) Close() error { return nil }

func (s *MemStorage) CreateUser(ctx context.Context, user *domain.NewUser) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, domain.NewConflictError("Username already exists").WithContext("username", user.Username)
		}
	}

	u := &domain.User{ID: s.nextUserID, Username: user.Username, Password: user.Password}
	s.nextUserID++
	s.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (s *MemStorage) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *MemStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemStorage) CreateAnalysis(ctx context.Context, analysis *domain.NewAnalysis) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.analyses {
		if a.FileName == analysis.FileName {
			return nil, domain.NewConflictError("Stored file name already in use").WithContext("fileName", analysis.FileName)
		}
	}

	stored := analysis.Materialize(s.nextAnalysisID, s.now())
	s.nextAnalysisID++
	s.analyses[stored.ID] = stored
	return stored.Clone(), nil
}

func (s *MemStorage) GetAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Analysis, 0, len(s.analyses))
	for _, a := range s.analyses {
		if filter.Matches(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if filter.Limit > 0 {
		offset := max(filter.Offset, 0)
		if offset >= len(out) {
			out = out[:0]
		} else {
			out = out[offset:min(offset+filter.Limit, len(out))]
		}
	}

	result := make([]*domain.Analysis, len(out))
	for i, a := range out {
		result[i] = a.Clone()
	}
	return result, nil
}

func (s *MemStorage) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return nil, nil
	}
	return a.Clone(), nil
}

func (s *MemStorage) DeleteAnalysis(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[id]; !ok {
		return false, nil
	}
	delete(s.analyses, id)
	return true, nil
}

var _ domain.Storage = (*MemStorage)(nil)
