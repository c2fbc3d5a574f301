package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/finance"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

const entityDailyClose = "daily_close"

// ClosingService aggregates a day's records and locks or unlocks the day.
// The lock record and its audit row are committed together.
type ClosingService struct {
	DB *sql.DB
}

func loadCloseInputs(ctx context.Context, db intdb.DBTX, date string) (finance.CloseInputs, error) {
	in := finance.CloseInputs{Date: date}
	var err error
	if in.RouteCash, err = (repositories.RouteCashRepository{DB: db}).ListByDate(ctx, date); err != nil {
		return in, err
	}
	if in.AgencyCash, err = (repositories.AgencyCashRepository{DB: db}).ListByDate(ctx, date); err != nil {
		return in, err
	}
	if in.Tourism, err = (repositories.TourismRepository{DB: db}).ListReceivedOn(ctx, date); err != nil {
		return in, err
	}
	if in.Fuel, err = (repositories.FuelRepository{DB: db}).ListByDate(ctx, date); err != nil {
		return in, err
	}
	if in.Expenses, err = (repositories.ExpenseRepository{DB: db}).ListByDate(ctx, date); err != nil {
		return in, err
	}
	return in, nil
}

// Preview computes the summary of date from current data without saving.
func (s ClosingService) Preview(ctx context.Context, date string, counted *decimal.Decimal) (models.CloseSummary, error) {
	if err := validDate("date", date); err != nil {
		return models.CloseSummary{}, err
	}
	in, err := loadCloseInputs(ctx, sqlDB(s.DB), date)
	if err != nil {
		return models.CloseSummary{}, err
	}
	in.CountedCash = counted
	return finance.ComputeClose(in), nil
}

// Close locks date. Closing an already closed day is a conflict; closing a
// reopened day recomputes every total from current data.
func (s ClosingService) Close(ctx context.Context, actor domain.Actor, date string, counted *decimal.Decimal, notes string) (models.DailyClose, error) {
	var rec models.DailyClose
	if err := validDate("date", date); err != nil {
		return rec, err
	}
	if date > utils.Today() {
		return rec, domain.ValidationError{Field: "date", Msg: "cannot close a future day"}
	}
	if counted != nil && counted.IsNegative() {
		return rec, domain.ValidationError{Field: "countedCash", Msg: "must not be negative"}
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.DailyCloseRepository{DB: tx}
		var before *models.DailyClose
		prev, err := repo.GetByDate(ctx, date)
		switch {
		case err == nil:
			if prev.IsClosed() {
				return domain.DayClosedError(date)
			}
			before = &prev
		case !domain.IsNotFound(err):
			return err
		}

		in, err := loadCloseInputs(ctx, tx, date)
		if err != nil {
			return err
		}
		in.CountedCash = counted

		rec = models.DailyClose{
			CloseSummary: finance.ComputeClose(in),
			Status:       models.DayClosed,
			Notes:        utils.TrimOrEmpty(notes),
			ClosedBy:     actor.Username,
			ClosedAt:     utils.Timestamp(),
		}
		if before != nil {
			rec.ReopenedBy = before.ReopenedBy
			rec.ReopenedAt = before.ReopenedAt
			rec.ReopenReason = before.ReopenReason
		}
		id, err := repo.Save(ctx, rec)
		if err != nil {
			return err
		}
		rec.ID = id
		var beforeSnap any
		if before != nil {
			beforeSnap = before
		}
		return recordAudit(ctx, tx, actor, models.AuditClose, entityDailyClose, id, beforeSnap, rec)
	})
	if err == nil {
		utils.LogEvent("", "closing", "close", "day closed",
			zap.String("date", date), zap.String("expected_cash", rec.ExpectedCash.StringFixed(2)))
	}
	return rec, err
}

// Reopen unlocks a closed day. The totals of the last close stay on the row
// until the next close replaces them.
func (s ClosingService) Reopen(ctx context.Context, actor domain.Actor, date, reason string) (models.DailyClose, error) {
	var rec models.DailyClose
	reason = utils.NormalizeSpace(reason)
	if err := firstErr(validDate("date", date), required("reason", reason)); err != nil {
		return rec, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.DailyCloseRepository{DB: tx}
		before, err := repo.GetByDate(ctx, date)
		if domain.IsNotFound(err) || (err == nil && !before.IsClosed()) {
			return domain.ConflictError{Resource: entityDailyClose, Msg: fmt.Sprintf("day %s is not closed", date)}
		}
		if err != nil {
			return err
		}
		rec = before
		rec.Status = models.DayOpen
		rec.ReopenedBy = actor.Username
		rec.ReopenedAt = utils.Timestamp()
		rec.ReopenReason = reason
		if _, err := repo.Save(ctx, rec); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditReopen, entityDailyClose, rec.ID, before, rec)
	})
	if err == nil {
		utils.LogEvent("", "closing", "reopen", "day reopened", zap.String("date", date), zap.String("reason", reason))
	}
	return rec, err
}

// Get returns the lock record of date; a day never closed is NotFound.
func (s ClosingService) Get(ctx context.Context, date string) (models.DailyClose, error) {
	if err := validDate("date", date); err != nil {
		return models.DailyClose{}, err
	}
	return repositories.DailyCloseRepository{DB: sqlDB(s.DB)}.GetByDate(ctx, date)
}

func (s ClosingService) List(ctx context.Context, rng domain.DateRange) ([]models.DailyClose, error) {
	if err := validRange(rng); err != nil {
		return nil, err
	}
	return repositories.DailyCloseRepository{DB: sqlDB(s.DB)}.List(ctx, rng)
}

// EnsureOpen returns a day-closed conflict when date is locked.
func (s ClosingService) EnsureOpen(ctx context.Context, date string) error {
	return ensureOpen(ctx, sqlDB(s.DB), date)
}

// Day returns the stored record when date is closed, else a live preview
// wrapped in an open record.
func (s ClosingService) Day(ctx context.Context, date string) (models.DailyClose, error) {
	rec, err := s.Get(ctx, date)
	if err == nil && rec.IsClosed() {
		return rec, nil
	}
	if err != nil && !domain.IsNotFound(err) {
		return rec, err
	}
	summary, err := s.Preview(ctx, date, nil)
	if err != nil {
		return models.DailyClose{}, err
	}
	open := models.DailyClose{ID: rec.ID, CloseSummary: summary, Status: models.DayOpen}
	open.ReopenedBy, open.ReopenedAt, open.ReopenReason = rec.ReopenedBy, rec.ReopenedAt, rec.ReopenReason
	return open, nil
}

// Period sums the stored closes of rng.
func (s ClosingService) Period(ctx context.Context, rng domain.DateRange) (models.PeriodReport, error) {
	if rng.Start == "" || rng.End == "" {
		return models.PeriodReport{}, domain.ValidationError{Field: "start", Msg: "start and end are required"}
	}
	days, err := s.List(ctx, rng)
	if err != nil {
		return models.PeriodReport{}, err
	}
	return finance.SumPeriod(rng.Start, rng.End, days), nil
}
