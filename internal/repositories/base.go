package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	intconfig "fleetfin/internal/config"
	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// conn returns d, falling back to the shared connection.
func conn(d intdb.DBTX) intdb.DBTX {
	if sqlDB, ok := d.(*sql.DB); d == nil || (ok && sqlDB == nil) {
		return intconfig.DB
	}
	return d
}

// table keeps the column list of one entity next to the functions that read
// and write it, so every query of a table agrees on column order.
type table[T any] struct {
	name     string
	resource string
	// columns written by insert/update, id excluded
	columns []string
	// select expressions, id first, matching scan
	selects []string
	scan    func(s scanner) (T, error)
	values  func(v T) []any
	idOf    func(v T) int64
	order   string
}

func (t table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.selects, ", ") + " FROM " + t.name
}

func (t table[T]) get(ctx context.Context, db intdb.DBTX, id int64) (T, error) {
	v, err := t.scan(db.QueryRowContext(ctx, t.selectSQL()+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, domain.NotFoundError{Resource: t.resource, ID: id, Err: err}
	}
	return v, err
}

func (t table[T]) list(ctx context.Context, db intdb.DBTX, w where) ([]T, error) {
	q := t.selectSQL() + w.sql()
	if t.order != "" {
		q += " ORDER BY " + t.order
	}
	if w.limit > 0 {
		q += " LIMIT ?"
		w.args = append(w.args, w.limit)
	}
	rows, err := db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (t table[T]) insert(ctx context.Context, db intdb.DBTX, v T) (int64, error) {
	q := "INSERT INTO " + t.name + " (" + strings.Join(t.columns, ", ") + ") VALUES (" + intdb.Placeholders(len(t.columns)) + ")"
	res, err := db.ExecContext(ctx, q, t.values(v)...)
	if err != nil {
		return 0, t.mapErr(err)
	}
	return res.LastInsertId()
}

// insertWithID keeps the original id; used by backup restore.
func (t table[T]) insertWithID(ctx context.Context, db intdb.DBTX, v T) error {
	cols := append([]string{"id"}, t.columns...)
	q := "INSERT INTO " + t.name + " (" + strings.Join(cols, ", ") + ") VALUES (" + intdb.Placeholders(len(cols)) + ")"
	args := append([]any{t.idOf(v)}, t.values(v)...)
	_, err := db.ExecContext(ctx, q, args...)
	return t.mapErr(err)
}

func (t table[T]) update(ctx context.Context, db intdb.DBTX, id int64, v T) error {
	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = ?"
	}
	args := append(t.values(v), id)
	res, err := db.ExecContext(ctx, "UPDATE "+t.name+" SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return t.mapErr(err)
	}
	return t.requireRow(ctx, db, res, id)
}

func (t table[T]) delete(ctx context.Context, db intdb.DBTX, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: t.resource, ID: id}
	}
	return nil
}

// requireRow turns a zero-row update into NotFound. mysql reports 0 affected
// rows when nothing changed, so existence is confirmed with a select.
func (t table[T]) requireRow(ctx context.Context, db intdb.DBTX, res sql.Result, id int64) error {
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+t.name+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: t.resource, ID: id}
	}
	return err
}

func (t table[T]) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if mapped := intdb.MapDBError(err); errors.Is(mapped, intdb.ErrDuplicate) {
		return domain.ConflictError{Resource: t.resource, Msg: "already exists", Err: mapped}
	}
	return err
}

// where accumulates AND-ed filter clauses.
type where struct {
	clauses []string
	args    []any
	limit   int
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) dateRange(col string, r domain.DateRange) {
	if r.Start != "" {
		w.add(col+" >= ?", r.Start)
	}
	if r.End != "" {
		w.add(col+" <= ?", r.End)
	}
}

func (w where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}
