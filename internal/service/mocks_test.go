package service

import (
	"context"
	"io"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/repository"

	"github.com/stretchr/testify/mock"
)

// --- MockStorage ---
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(ctx context.Context, user *domain.NewUser) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStorage) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStorage) CreateAnalysis(ctx context.Context, analysis *domain.NewAnalysis) (*domain.Analysis, error) {
	args := m.Called(ctx, analysis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockStorage) GetAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]*domain.Analysis, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Analysis), args.Error(1)
}

func (m *MockStorage) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockStorage) DeleteAnalysis(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Kind() string { return "mock" }

func (m *MockStorage) Close() error { return nil }

// --- MockAnalysisCacheService ---
type MockAnalysisCacheService struct {
	mock.Mock
}

func (m *MockAnalysisCacheService) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisCacheService) PutAnalysis(ctx context.Context, analysis *domain.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisCacheService) InvalidateAnalysis(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeFileStore lets tests override individual operations.
type fakeFileStore struct {
	saveFn   func(r io.Reader, originalName string) (string, int64, error)
	deleteFn func(name string) error
	openFn   func(name string) (io.ReadSeekCloser, error)
	deleted  []string
}

func (f *fakeFileStore) Save(r io.Reader, originalName string) (string, int64, error) {
	if f.saveFn != nil {
		return f.saveFn(r, originalName)
	}
	n, err := io.Copy(io.Discard, r)
	return "stored-" + originalName, n, err
}

func (f *fakeFileStore) Open(name string) (io.ReadSeekCloser, error) {
	if f.openFn != nil {
		return f.openFn(name)
	}
	return nil, fs.ErrNotExist
}

func (f *fakeFileStore) Delete(name string) error {
	f.deleted = append(f.deleted, name)
	if f.deleteFn != nil {
		return f.deleteFn(name)
	}
	return nil
}

// generatorFunc adapts a function to domain.AnalysisGenerator.
type generatorFunc func(ctx context.Context, meta domain.FileMeta) (*domain.GeneratedAnalysis, error)

func (f generatorFunc) Generate(ctx context.Context, meta domain.FileMeta) (*domain.GeneratedAnalysis, error) {
	return f(ctx, meta)
}

// --- gatedStorage ---
// gatedStorage wraps MemStorage and honours ctx on reads. Once armed, the next
// GetAnalysis closes reached after its read and blocks until release is closed.
type gatedStorage struct {
	*repository.MemStorage
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func newGatedStorage() *gatedStorage {
	return &gatedStorage{
		MemStorage: repository.NewMemStorage(),
		reached:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (g *gatedStorage) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	analysis, err := g.MemStorage.GetAnalysis(ctx, id)
	if g.armed.CompareAndSwap(true, false) {
		close(g.reached)
		<-g.release
	}
	return analysis, err
}

// --- memoryCache ---
type memoryCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *memoryCache) Ping(context.Context) error { return nil }

func (m *memoryCache) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
