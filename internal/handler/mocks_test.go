package handler_test

import (
	"context"
	"io"

	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockAnalysisService is a mock type for service.AnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) CreateAnalysis(ctx context.Context, req service.UploadRequest) (*domain.Analysis, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]*domain.Analysis, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Analysis), args.Error(1)
}

func (m *MockAnalysisService) DeleteAnalysis(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnalysisService) OpenFile(ctx context.Context, id int64) (*domain.Analysis, io.ReadSeekCloser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Analysis), args.Get(1).(io.ReadSeekCloser), args.Error(2)
}

// MockUserService is a mock type for service.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var (
	_ service.AnalysisService = (*MockAnalysisService)(nil)
	_ service.UserService     = (*MockUserService)(nil)
)
