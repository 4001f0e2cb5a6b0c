package service

import (
	"context"
	"strings"

	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/logger"
	"tennis-analyzer/internal/util"
	"tennis-analyzer/internal/validation"

	"go.uber.org/zap"
)

// UserService defines the interface for user-related operations.
type UserService interface {
	CreateUser(ctx context.Context, username, password string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type userServiceImpl struct {
	storage   domain.Storage
	validator *validation.Validator
}

// NewUserService creates a new instance of UserService.
func NewUserService(storage domain.Storage, validator *validation.Validator) UserService {
	return &userServiceImpl{storage: storage, validator: validator}
}

// CreateUser stores a bcrypt hash, never the plain password.
func (s *userServiceImpl) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	if errs := s.validator.ValidateNewUser(username, password); len(errs) > 0 {
		return nil, errs
	}
	username = strings.TrimSpace(username)

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, domain.NewInternalError("Failed to hash password", err)
	}

	user, err := s.storage.CreateUser(ctx, &domain.NewUser{Username: username, Password: hash})
	if err != nil {
		return nil, err
	}
	logger.Get().Info("User created", zap.Int64("userID", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.storage.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError().WithContext("id", id)
	}
	return user, nil
}
