package repositories

import (
	"context"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
)

var ledgerTable = table[models.DriverLedgerEntry]{
	name:     "driver_ledger",
	resource: "ledger_entry",
	columns:  []string{"driver_id", "date", "kind", "description", "amount", "created_at"},
	selects:  []string{"id", "driver_id", "date", "kind", "description", "amount", "created_at"},
	scan: func(s scanner) (models.DriverLedgerEntry, error) {
		var e models.DriverLedgerEntry
		err := s.Scan(&e.ID, &e.DriverID, &e.Date, &e.Kind, &e.Description, &e.Amount, &e.CreatedAt)
		return e, err
	},
	values: func(e models.DriverLedgerEntry) []any {
		return []any{e.DriverID, e.Date, e.Kind, e.Description, e.Amount, e.CreatedAt}
	},
	idOf:  func(e models.DriverLedgerEntry) int64 { return e.ID },
	order: "driver_id, date, id",
}

type LedgerRepository struct {
	DB intdb.DBTX
}

func (r LedgerRepository) db() intdb.DBTX { return conn(r.DB) }

func (r LedgerRepository) Get(ctx context.Context, id int64) (models.DriverLedgerEntry, error) {
	return ledgerTable.get(ctx, r.db(), id)
}

// ListByDriver returns a driver's entries; a zero driverID lists every driver.
func (r LedgerRepository) ListByDriver(ctx context.Context, driverID int64, rng domain.DateRange) ([]models.DriverLedgerEntry, error) {
	var w where
	if driverID > 0 {
		w.add("driver_id = ?", driverID)
	}
	w.dateRange("date", rng)
	return ledgerTable.list(ctx, r.db(), w)
}

func (r LedgerRepository) Create(ctx context.Context, e models.DriverLedgerEntry) (int64, error) {
	return ledgerTable.insert(ctx, r.db(), e)
}

func (r LedgerRepository) Delete(ctx context.Context, id int64) error {
	return ledgerTable.delete(ctx, r.db(), id)
}
