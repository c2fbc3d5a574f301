package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
)

var dailyCloseTable = table[models.DailyClose]{
	name:     "daily_closes",
	resource: "daily_close",
	columns: []string{"date", "status",
		"route_entries", "route_passengers", "route_cash", "route_electronic", "route_total",
		"agency_entries", "agency_gross", "agency_commission", "agency_net",
		"tourism_entries", "tourism_received",
		"fuel_entries", "fuel_total", "fuel_cash",
		"expense_entries", "expense_total", "expense_cash",
		"revenue_total", "cash_outflow", "expected_cash", "counted_cash", "difference",
		"notes", "closed_by", "closed_at", "reopened_by", "reopened_at", "reopen_reason"},
	selects: []string{"id", "date", "status",
		"route_entries", "route_passengers", "route_cash", "route_electronic", "route_total",
		"agency_entries", "agency_gross", "agency_commission", "agency_net",
		"tourism_entries", "tourism_received",
		"fuel_entries", "fuel_total", "fuel_cash",
		"expense_entries", "expense_total", "expense_cash",
		"revenue_total", "cash_outflow", "expected_cash", "counted_cash", "difference",
		"COALESCE(notes,'')", "closed_by", "closed_at", "reopened_by", "reopened_at", "COALESCE(reopen_reason,'')"},
	scan: func(s scanner) (models.DailyClose, error) {
		var d models.DailyClose
		var counted decimal.NullDecimal
		err := s.Scan(&d.ID, &d.Date, &d.Status,
			&d.RouteEntries, &d.RoutePassengers, &d.RouteCash, &d.RouteElectronic, &d.RouteTotal,
			&d.AgencyEntries, &d.AgencyGross, &d.AgencyCommission, &d.AgencyNet,
			&d.TourismEntries, &d.TourismReceived,
			&d.FuelEntries, &d.FuelTotal, &d.FuelCash,
			&d.ExpenseEntries, &d.ExpenseTotal, &d.ExpenseCash,
			&d.RevenueTotal, &d.CashOutflow, &d.ExpectedCash, &counted, &d.Difference,
			&d.Notes, &d.ClosedBy, &d.ClosedAt, &d.ReopenedBy, &d.ReopenedAt, &d.ReopenReason)
		if counted.Valid {
			v := counted.Decimal
			d.CountedCash = &v
		}
		return d, err
	},
	values: func(d models.DailyClose) []any {
		var counted any
		if d.CountedCash != nil {
			counted = *d.CountedCash
		}
		return []any{d.Date, d.Status,
			d.RouteEntries, d.RoutePassengers, d.RouteCash, d.RouteElectronic, d.RouteTotal,
			d.AgencyEntries, d.AgencyGross, d.AgencyCommission, d.AgencyNet,
			d.TourismEntries, d.TourismReceived,
			d.FuelEntries, d.FuelTotal, d.FuelCash,
			d.ExpenseEntries, d.ExpenseTotal, d.ExpenseCash,
			d.RevenueTotal, d.CashOutflow, d.ExpectedCash, counted, d.Difference,
			intdb.NullIfEmpty(d.Notes), d.ClosedBy, d.ClosedAt, d.ReopenedBy, d.ReopenedAt, intdb.NullIfEmpty(d.ReopenReason)}
	},
	idOf:  func(d models.DailyClose) int64 { return d.ID },
	order: "date",
}

type DailyCloseRepository struct {
	DB intdb.DBTX
}

func (r DailyCloseRepository) db() intdb.DBTX { return conn(r.DB) }

// GetByDate returns the lock record of date or a NotFoundError when the day
// was never closed.
func (r DailyCloseRepository) GetByDate(ctx context.Context, date string) (models.DailyClose, error) {
	d, err := dailyCloseTable.scan(r.db().QueryRowContext(ctx, dailyCloseTable.selectSQL()+" WHERE date = ?", date))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyClose{}, domain.NotFoundError{Resource: "daily_close", Err: err}
	}
	return d, err
}

// IsClosed reports whether date has a lock record in closed status.
func (r DailyCloseRepository) IsClosed(ctx context.Context, date string) (bool, error) {
	var status string
	err := r.db().QueryRowContext(ctx, `SELECT status FROM daily_closes WHERE date = ?`, date).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status == models.DayClosed, nil
}

func (r DailyCloseRepository) List(ctx context.Context, rng domain.DateRange) ([]models.DailyClose, error) {
	var w where
	w.dateRange("date", rng)
	return dailyCloseTable.list(ctx, r.db(), w)
}

// Save inserts the record or overwrites the row of the same date and returns its id.
func (r DailyCloseRepository) Save(ctx context.Context, d models.DailyClose) (int64, error) {
	var id int64
	err := r.db().QueryRowContext(ctx, `SELECT id FROM daily_closes WHERE date = ?`, d.Date).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return dailyCloseTable.insert(ctx, r.db(), d)
	case err != nil:
		return 0, err
	}
	return id, dailyCloseTable.update(ctx, r.db(), id, d)
}
