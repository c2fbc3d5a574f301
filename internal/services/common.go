package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	intconfig "fleetfin/internal/config"
	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

func sqlDB(d *sql.DB) *sql.DB {
	if d != nil {
		return d
	}
	return intconfig.DB
}

// withTx runs fn in a transaction on d or the shared connection.
func withTx(ctx context.Context, d *sql.DB, fn func(tx *sql.Tx) error) error {
	db := sqlDB(d)
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	return intdb.WithTx(ctx, db, fn)
}

// recordAudit writes one audit row with JSON snapshots. nil snapshots are stored as NULL.
func recordAudit(ctx context.Context, db intdb.DBTX, actor domain.Actor, action, entity string, entityID int64, before, after any) error {
	row := models.AuditLog{
		At:       utils.Timestamp(),
		UserID:   actor.UserID,
		Username: actor.Username,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}
	var err error
	if row.Before, err = snapshot(before); err != nil {
		return err
	}
	if row.After, err = snapshot(after); err != nil {
		return err
	}
	if _, err := (repositories.AuditRepository{DB: db}).Insert(ctx, row); err != nil {
		return fmt.Errorf("write audit: %w", err)
	}
	return nil
}

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("audit snapshot: %w", err)
	}
	return b, nil
}

// ensureOpen fails with a day-closed conflict when any of dates is locked.
func ensureOpen(ctx context.Context, db intdb.DBTX, dates ...string) error {
	seen := map[string]bool{}
	repo := repositories.DailyCloseRepository{DB: db}
	for _, d := range dates {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		closed, err := repo.IsClosed(ctx, d)
		if err != nil {
			return err
		}
		if closed {
			return domain.DayClosedError(d)
		}
	}
	return nil
}

// requireActive checks that a referenced registry row exists and is active.
func requireActive(ctx context.Context, db intdb.DBTX, tableName, field string, id int64) error {
	if id <= 0 {
		return domain.ValidationError{Field: field, Msg: "is required"}
	}
	var active bool
	err := db.QueryRowContext(ctx, "SELECT active FROM "+tableName+" WHERE id = ?", id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ValidationError{Field: field, Msg: fmt.Sprintf("%d does not exist", id)}
	}
	if err != nil {
		return err
	}
	if !active {
		return domain.ValidationError{Field: field, Msg: fmt.Sprintf("%d is inactive", id)}
	}
	return nil
}

// requireExisting is requireActive for optional references that may point at
// inactive rows; zero passes.
func requireExisting(ctx context.Context, db intdb.DBTX, tableName, field string, id int64) error {
	if id == 0 {
		return nil
	}
	var one int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM "+tableName+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ValidationError{Field: field, Msg: fmt.Sprintf("%d does not exist", id)}
	}
	return err
}

func validDate(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return domain.ValidationError{Field: field, Msg: "is required"}
	}
	if !utils.ValidDate(v) {
		return domain.ValidationError{Field: field, Msg: "must be YYYY-MM-DD"}
	}
	return nil
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.ValidationError{Field: field, Msg: "must not be negative"}
	}
	return nil
}

func positive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return domain.ValidationError{Field: field, Msg: "must be greater than zero"}
	}
	return nil
}

func validRange(r domain.DateRange) error {
	if r.Start != "" {
		if err := validDate("start", r.Start); err != nil {
			return err
		}
	}
	if r.End != "" {
		if err := validDate("end", r.End); err != nil {
			return err
		}
	}
	if r.Start != "" && r.End != "" && r.End < r.Start {
		return domain.ValidationError{Field: "end", Msg: "must not be before start"}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
