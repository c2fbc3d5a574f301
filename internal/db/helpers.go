package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// DBTX is satisfied by *sql.DB and *sql.Tx so repositories run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrDuplicate is returned when an insert or update violates a unique key.
var ErrDuplicate = errors.New("duplicate record")

// MapDBError maps driver constraint errors to package sentinels. The mapping is
// string based so this file does not depend on a specific driver.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	// mysql 1062 "Duplicate entry", sqlite "UNIQUE constraint failed"
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique constraint") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}

// NullIfEmpty helps store optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullIfZero stores optional foreign keys as NULL.
func NullIfZero(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// WithTx runs fn inside a transaction, rolling back on error or panic.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Placeholders returns "?,?,?" for n arguments.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
