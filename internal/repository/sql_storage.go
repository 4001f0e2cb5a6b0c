package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/repository/models"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
)

const (
	userColumns     = "id, username, password"
	analysesOrderBy = " ORDER BY created_at DESC, id DESC"
)

// SQLStorage implements domain.Storage on a relational database through sqlx.
type SQLStorage struct {
	db      *sqlx.DB
	dialect dialect
	now     func() time.Time
}

// NewSQLStorage wraps an open connection. The dialect follows db.DriverName().
func NewSQLStorage(db *sqlx.DB) (*SQLStorage, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}
	if d.isOracle() {
		// Oracle reports unquoted identifiers in upper case.
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToUpper, strings.ToUpper)
	}
	return &SQLStorage{db: db, dialect: d, now: creationTime}, nil
}

func (s *SQLStorage) Kind() string { return s.dialect.name }

func (s *SQLStorage) Close() error { return s.db.Close() }

// DB exposes the underlying connection for migrations and health checks.
func (s *SQLStorage) DB() *sqlx.DB { return s.db }

// withTx runs fn in a transaction, rolling back on error or panic.
func (s *SQLStorage) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rollbackErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertReturningID executes an INSERT and returns the generated id.
func (s *SQLStorage) insertReturningID(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	var id int64
	if s.dialect.isOracle() {
		args = append(args, sql.Out{Dest: &id})
		if _, err := q.ExecContext(ctx, s.db.Rebind(query+" RETURNING id INTO ?"), args...); err != nil {
			return 0, err
		}
		return id, nil
	}
	if err := q.QueryRowxContext(ctx, s.db.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *SQLStorage) CreateUser(ctx context.Context, user *domain.NewUser) (*domain.User, error) {
	var created *domain.User
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count, s.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), user.Username); err != nil {
			return domain.NewStorageError("CreateUser", err)
		}
		if count > 0 {
			return domain.NewConflictError("Username already exists").WithContext("username", user.Username)
		}

		id, err := s.insertReturningID(ctx, tx, `INSERT INTO users (username, password) VALUES (?, ?)`, user.Username, user.Password)
		if err != nil {
			if s.dialect.isUniqueViolation(err) {
				return domain.NewConflictError("Username already exists").WithContext("username", user.Username)
			}
			return domain.NewStorageError("CreateUser", err)
		}
		created = &domain.User{ID: id, Username: user.Username, Password: user.Password}
		return nil
	})
	if err != nil {
		return nil, asStorageError("CreateUser", err)
	}
	return created, nil
}

func (s *SQLStorage) getUser(ctx context.Context, op, where string, arg interface{}) (*domain.User, error) {
	var row models.User
	query := s.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = ?`)
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStorageError(op, err)
	}
	return toDomainUser(&row), nil
}

func (s *SQLStorage) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, "GetUser", "id", id)
}

func (s *SQLStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, "GetUserByUsername", "username", username)
}

func (s *SQLStorage) CreateAnalysis(ctx context.Context, analysis *domain.NewAnalysis) (*domain.Analysis, error) {
	record := analysis.Materialize(0, s.now())
	row := fromDomainAnalysis(record)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(models.AnalysisColumns)), ", ")
	query := `INSERT INTO analyses (` + strings.Join(models.AnalysisColumns, ", ") + `) VALUES (` + placeholders + `)`

	id, err := s.insertReturningID(ctx, s.db, query, row.InsertArgs()...)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return nil, domain.NewConflictError("Stored file name already in use").WithContext("fileName", record.FileName)
		}
		return nil, domain.NewStorageError("CreateAnalysis", err)
	}
	record.ID = id
	return record, nil
}

func (s *SQLStorage) GetAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]*domain.Analysis, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.ActionType != "" {
		conditions = append(conditions, "action_type = ?")
		args = append(args, string(filter.ActionType))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}

	query := `SELECT id, ` + strings.Join(models.AnalysisColumns, ", ") + ` FROM analyses`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += analysesOrderBy
	page, pageArgs := s.dialect.paginate(filter.Limit, filter.Offset)
	query += page
	args = append(args, pageArgs...)

	var rows []models.Analysis
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, domain.NewStorageError("GetAnalyses", err)
	}

	out := make([]*domain.Analysis, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainAnalysis(&rows[i]))
	}
	return out, nil
}

func (s *SQLStorage) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	var row models.Analysis
	query := s.db.Rebind(`SELECT id, ` + strings.Join(models.AnalysisColumns, ", ") + ` FROM analyses WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStorageError("GetAnalysis", err)
	}
	return toDomainAnalysis(&row), nil
}

func (s *SQLStorage) DeleteAnalysis(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM analyses WHERE id = ?`), id)
	if err != nil {
		return false, domain.NewStorageError("DeleteAnalysis", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, domain.NewStorageError("DeleteAnalysis", err)
	}
	return affected > 0, nil
}

// asStorageError keeps domain errors intact and wraps anything else.
func asStorageError(op string, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewStorageError(op, err)
}

var _ domain.Storage = (*SQLStorage)(nil)
