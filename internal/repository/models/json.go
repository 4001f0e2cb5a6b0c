package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSON stores a value as JSON text. Columns are TEXT on SQLite, JSONB on
// PostgreSQL and CLOB on Oracle.
type JSON[T any] struct {
	Data T
}

// NewJSON wraps v for storage.
func NewJSON[T any](v T) JSON[T] {
	return JSON[T]{Data: v}
}

// Value implements the driver.Valuer interface
func (j JSON[T]) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	// nil slices are stored as an empty JSON array
	if string(jsonData) == "null" {
		return "[]", nil
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (j *JSON[T]) Scan(value interface{}) error {
	var zero T
	if value == nil {
		j.Data = zero
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("JSON Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		j.Data = zero
		return nil
	}

	var out T
	if err := json.Unmarshal(bytesToParse, &out); err != nil {
		return fmt.Errorf("JSON Scan: %w", err)
	}
	j.Data = out
	return nil
}
