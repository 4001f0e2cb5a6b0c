package util

import "database/sql"

// Int64PtrToNullInt64 converts an optional id to sql.NullInt64.
// A nil pointer is treated as NULL.
func Int64PtrToNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// NullInt64ToPtr is the inverse of Int64PtrToNullInt64.
func NullInt64ToPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
