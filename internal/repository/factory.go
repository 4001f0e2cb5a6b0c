package repository

import (
	"context"
	"errors"
	"fmt"
	"tennis-analyzer/internal/config"
	"tennis-analyzer/internal/database"
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/logger"
	"tennis-analyzer/internal/util"

	"go.uber.org/zap"
)

// DemoPassword is the plain-text password of the seeded demo account.
const DemoPassword = "password"

// NewStorageFromConfig selects the storage engine once at startup: the
// in-memory engine when no DSN is configured, otherwise the relational one.
// Both are seeded with the demo user.
func NewStorageFromConfig(ctx context.Context, cfg *config.Config) (domain.Storage, error) {
	driver, err := cfg.Storage.ResolveDriver(cfg.DB)
	if err != nil {
		return nil, err
	}

	var storage domain.Storage
	switch driver {
	case config.DriverMemory:
		storage = NewMemStorage()
	default:
		db, err := database.Open(ctx, driver, cfg.GetDSN())
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := database.MigrateUp(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to migrate %s database: %w", driver, err)
			}
		}
		sqlStorage, err := NewSQLStorage(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		storage = sqlStorage
	}

	if err := SeedDemoUser(ctx, storage); err != nil {
		storage.Close()
		return nil, err
	}

	logger.Get().Info("Storage initialized", zap.String("engine", storage.Kind()))
	return storage, nil
}

// SeedDemoUser creates the demo account unless it already exists.
func SeedDemoUser(ctx context.Context, storage domain.Storage) error {
	existing, err := storage.GetUserByUsername(ctx, domain.DemoUsername)
	if err != nil {
		return fmt.Errorf("failed to look up demo user: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := util.HashPassword(DemoPassword)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	_, err = storage.CreateUser(ctx, &domain.NewUser{Username: domain.DemoUsername, Password: hash})
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == domain.CodeConflict {
		// Seeded concurrently by another instance.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	return nil
}
