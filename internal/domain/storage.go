package domain

import "context"

// Storage owns record identity, CRUD and filtering. Lookups return (nil, nil)
// when the record does not exist.
type Storage interface {
	CreateUser(ctx context.Context, user *NewUser) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	CreateAnalysis(ctx context.Context, analysis *NewAnalysis) (*Analysis, error)
	// GetAnalyses returns matching records newest first (descending createdAt, then id).
	GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, error)
	GetAnalysis(ctx context.Context, id int64) (*Analysis, error)
	// DeleteAnalysis reports whether a record was removed. Deleting a missing id is not an error.
	DeleteAnalysis(ctx context.Context, id int64) (bool, error)

	// Kind names the engine, e.g. "memory" or "sqlite3".
	Kind() string
	Close() error
}
