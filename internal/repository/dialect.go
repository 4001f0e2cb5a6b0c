package repository

import (
	"fmt"
	"strings"
	"tennis-analyzer/internal/config"
)

// dialect captures the SQL differences between the supported engines.
// Statements are written with ? placeholders and rebound by sqlx.
type dialect struct {
	name string
}

func dialectFor(driverName string) (dialect, error) {
	switch driverName {
	case config.DriverSQLite, config.DriverPgx, config.DriverOracle:
		return dialect{name: driverName}, nil
	}
	return dialect{}, fmt.Errorf("unsupported sql driver: %s", driverName)
}

func (d dialect) isOracle() bool {
	return d.name == config.DriverOracle
}

// paginate returns the LIMIT/OFFSET clause and its arguments. A non-positive
// limit means no pagination.
func (d dialect) paginate(limit, offset int) (string, []interface{}) {
	if limit <= 0 {
		return "", nil
	}
	if offset < 0 {
		offset = 0
	}
	if d.isOracle() {
		return " OFFSET ? ROWS FETCH NEXT ? ROWS ONLY", []interface{}{offset, limit}
	}
	return " LIMIT ? OFFSET ?", []interface{}{limit, offset}
}

// isUniqueViolation recognizes unique-constraint errors from every driver.
func (d dialect) isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite3
		strings.Contains(msg, "SQLSTATE 23505") || // pgx
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "ORA-00001")
}
