package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"tennis-analyzer/internal/config"
	"tennis-analyzer/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationFiles embed.FS

// migrationDir maps a driver to its embedded SQL directory.
func migrationDir(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "migrations/sqlite3", nil
	case config.DriverPgx:
		return "migrations/postgres", nil
	case config.DriverOracle:
		return "migrations/oracle", nil
	}
	return "", fmt.Errorf("no migrations for driver %s", driver)
}

// MigrateUp runs all pending migrations. The caller owns db and closes it.
func MigrateUp(ctx context.Context, db *sqlx.DB) error {
	if db.DriverName() == config.DriverOracle {
		return newOracleMigrator(db).up(ctx)
	}

	m, err := newMigrate(db)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// m is not closed: closing it would close db.
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// MigrateDown reverts every applied migration.
func MigrateDown(ctx context.Context, db *sqlx.DB) error {
	if db.DriverName() == config.DriverOracle {
		return newOracleMigrator(db).down(ctx)
	}

	m, err := newMigrate(db)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration rollback failed: %w", err)
	}
	return nil
}

// Version reports the applied schema version. Zero means nothing is applied.
func Version(ctx context.Context, db *sqlx.DB) (uint, bool, error) {
	if db.DriverName() == config.DriverOracle {
		applied, err := newOracleMigrator(db).applied(ctx)
		if err != nil {
			return 0, false, err
		}
		var latest uint
		for v := range applied {
			latest = max(latest, v)
		}
		return latest, false, nil
	}

	m, err := newMigrate(db)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func newMigrate(db *sqlx.DB) (*migrate.Migrate, error) {
	dir, err := migrationDir(db.DriverName())
	if err != nil {
		return nil, err
	}
	sourceDriver, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	var m *migrate.Migrate
	switch db.DriverName() {
	case config.DriverSQLite:
		dbDriver, derr := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
		if derr != nil {
			sourceDriver.Close()
			return nil, fmt.Errorf("failed to create database driver: %w", derr)
		}
		m, err = migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	case config.DriverPgx:
		dbDriver, derr := migratepgx.WithInstance(db.DB, &migratepgx.Config{})
		if derr != nil {
			sourceDriver.Close()
			return nil, fmt.Errorf("failed to create database driver: %w", derr)
		}
		m, err = migrate.NewWithInstance("iofs", sourceDriver, "pgx5", dbDriver)
	}
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// oracleMigrator applies the embedded Oracle scripts one statement at a time,
// since go-ora executes a single statement per call. Applied versions are
// tracked in schema_migrations.
type oracleMigrator struct {
	db  *sqlx.DB
	dir string
}

type migrationFile struct {
	version uint
	name    string
}

func newOracleMigrator(db *sqlx.DB) *oracleMigrator {
	return &oracleMigrator{db: db, dir: "migrations/oracle"}
}

func (o *oracleMigrator) ensureTable(ctx context.Context) error {
	_, err := o.db.ExecContext(ctx, `CREATE TABLE schema_migrations (version NUMBER(19) PRIMARY KEY)`)
	if err != nil && !strings.Contains(err.Error(), "ORA-00955") {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func (o *oracleMigrator) applied(ctx context.Context) (map[uint]bool, error) {
	if err := o.ensureTable(ctx); err != nil {
		return nil, err
	}
	var versions []int64
	if err := o.db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("could not read schema_migrations: %w", err)
	}
	out := make(map[uint]bool, len(versions))
	for _, v := range versions {
		out[uint(v)] = true
	}
	return out, nil
}

func (o *oracleMigrator) files(suffix string) ([]migrationFile, error) {
	entries, err := fs.ReadDir(migrationFiles, o.dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var out []migrationFile
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		prefix, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration file name %s: %w", e.Name(), err)
		}
		out = append(out, migrationFile{version: uint(v), name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func (o *oracleMigrator) exec(ctx context.Context, name string) error {
	content, err := migrationFiles.ReadFile(path.Join(o.dir, name))
	if err != nil {
		return fmt.Errorf("could not read migration file %s: %w", name, err)
	}
	for _, stmt := range SplitStatements(string(content)) {
		if _, err := o.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %s: %w", name, err)
		}
	}
	return nil
}

func (o *oracleMigrator) up(ctx context.Context) error {
	applied, err := o.applied(ctx)
	if err != nil {
		return err
	}
	files, err := o.files(".up.sql")
	if err != nil {
		return err
	}
	for _, f := range files {
		if applied[f.version] {
			continue
		}
		if err := o.exec(ctx, f.name); err != nil {
			return err
		}
		if _, err := o.db.ExecContext(ctx, o.db.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), int64(f.version)); err != nil {
			return fmt.Errorf("could not record migration %s: %w", f.name, err)
		}
		logger.Get().Info("Executed migration", zap.String("file", f.name))
	}
	return nil
}

func (o *oracleMigrator) down(ctx context.Context) error {
	applied, err := o.applied(ctx)
	if err != nil {
		return err
	}
	files, err := o.files(".down.sql")
	if err != nil {
		return err
	}
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		if !applied[f.version] {
			continue
		}
		if err := o.exec(ctx, f.name); err != nil {
			return err
		}
		if _, err := o.db.ExecContext(ctx, o.db.Rebind(`DELETE FROM schema_migrations WHERE version = ?`), int64(f.version)); err != nil {
			return fmt.Errorf("could not remove migration record %s: %w", f.name, err)
		}
		logger.Get().Info("Reverted migration", zap.String("file", f.name))
	}
	return nil
}

// SplitStatements splits a script on semicolons, dropping blank statements
// and line comments.
func SplitStatements(script string) []string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	var out []string
	for _, stmt := range strings.Split(strings.Join(lines, "\n"), ";") {
		if s := strings.TrimSpace(stmt); s != "" {
			out = append(out, s)
		}
	}
	return out
}
