package repositories

import (
	"context"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
)

var routeCashTable = table[models.RouteCash]{
	name:     "route_cash",
	resource: "route_cash",
	columns: []string{"date", "route_id", "vehicle_id", "driver_id", "passengers", "cash_amount",
		"electronic_amount", "notes", "created_at", "updated_at"},
	selects: []string{"id", "date", "route_id", "vehicle_id", "driver_id", "passengers", "cash_amount",
		"electronic_amount", "COALESCE(notes,'')", "created_at", "updated_at"},
	scan: func(s scanner) (models.RouteCash, error) {
		var c models.RouteCash
		err := s.Scan(&c.ID, &c.Date, &c.RouteID, &c.VehicleID, &c.DriverID, &c.Passengers,
			&c.CashAmount, &c.ElectronicAmount, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	},
	values: func(c models.RouteCash) []any {
		return []any{c.Date, c.RouteID, c.VehicleID, c.DriverID, c.Passengers, c.CashAmount,
			c.ElectronicAmount, intdb.NullIfEmpty(c.Notes), c.CreatedAt, c.UpdatedAt}
	},
	idOf:  func(c models.RouteCash) int64 { return c.ID },
	order: "date, id",
}

var agencyCashTable = table[models.AgencyCash]{
	name:     "agency_cash",
	resource: "agency_cash",
	columns: []string{"date", "agency_id", "gross_amount", "commission_percent", "commission_amount",
		"net_amount", "notes", "created_at", "updated_at"},
	selects: []string{"id", "date", "agency_id", "gross_amount", "commission_percent", "commission_amount",
		"net_amount", "COALESCE(notes,'')", "created_at", "updated_at"},
	scan: func(s scanner) (models.AgencyCash, error) {
		var c models.AgencyCash
		err := s.Scan(&c.ID, &c.Date, &c.AgencyID, &c.GrossAmount, &c.CommissionPercent, &c.CommissionAmount,
			&c.NetAmount, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	},
	values: func(c models.AgencyCash) []any {
		return []any{c.Date, c.AgencyID, c.GrossAmount, c.CommissionPercent, c.CommissionAmount,
			c.NetAmount, intdb.NullIfEmpty(c.Notes), c.CreatedAt, c.UpdatedAt}
	},
	idOf:  func(c models.AgencyCash) int64 { return c.ID },
	order: "date, id",
}

// CashFilter narrows cash listings. Zero ids are ignored.
type CashFilter struct {
	Range     domain.DateRange
	RouteID   int64
	VehicleID int64
	DriverID  int64
	AgencyID  int64
}

type RouteCashRepository struct {
	DB intdb.DBTX
}

func (r RouteCashRepository) db() intdb.DBTX { return conn(r.DB) }

func (r RouteCashRepository) Get(ctx context.Context, id int64) (models.RouteCash, error) {
	return routeCashTable.get(ctx, r.db(), id)
}

func (r RouteCashRepository) List(ctx context.Context, f CashFilter) ([]models.RouteCash, error) {
	var w where
	w.dateRange("date", f.Range)
	if f.RouteID > 0 {
		w.add("route_id = ?", f.RouteID)
	}
	if f.VehicleID > 0 {
		w.add("vehicle_id = ?", f.VehicleID)
	}
	if f.DriverID > 0 {
		w.add("driver_id = ?", f.DriverID)
	}
	return routeCashTable.list(ctx, r.db(), w)
}

func (r RouteCashRepository) ListByDate(ctx context.Context, date string) ([]models.RouteCash, error) {
	return r.List(ctx, CashFilter{Range: domain.DateRange{Start: date, End: date}})
}

func (r RouteCashRepository) Create(ctx context.Context, c models.RouteCash) (int64, error) {
	return routeCashTable.insert(ctx, r.db(), c)
}

func (r RouteCashRepository) Update(ctx context.Context, id int64, c models.RouteCash) error {
	return routeCashTable.update(ctx, r.db(), id, c)
}

func (r RouteCashRepository) Delete(ctx context.Context, id int64) error {
	return routeCashTable.delete(ctx, r.db(), id)
}

type AgencyCashRepository struct {
	DB intdb.DBTX
}

func (r AgencyCashRepository) db() intdb.DBTX { return conn(r.DB) }

func (r AgencyCashRepository) Get(ctx context.Context, id int64) (models.AgencyCash, error) {
	return agencyCashTable.get(ctx, r.db(), id)
}

func (r AgencyCashRepository) List(ctx context.Context, f CashFilter) ([]models.AgencyCash, error) {
	var w where
	w.dateRange("date", f.Range)
	if f.AgencyID > 0 {
		w.add("agency_id = ?", f.AgencyID)
	}
	return agencyCashTable.list(ctx, r.db(), w)
}

func (r AgencyCashRepository) ListByDate(ctx context.Context, date string) ([]models.AgencyCash, error) {
	return r.List(ctx, CashFilter{Range: domain.DateRange{Start: date, End: date}})
}

func (r AgencyCashRepository) Create(ctx context.Context, c models.AgencyCash) (int64, error) {
	return agencyCashTable.insert(ctx, r.db(), c)
}

func (r AgencyCashRepository) Update(ctx context.Context, id int64, c models.AgencyCash) error {
	return agencyCashTable.update(ctx, r.db(), id, c)
}

func (r AgencyCashRepository) Delete(ctx context.Context, id int64) error {
	return agencyCashTable.delete(ctx, r.db(), id)
}
