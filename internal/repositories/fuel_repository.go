package repositories

import (
	"context"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
)

var fuelTable = table[models.FuelEntry]{
	name:     "fuel_entries",
	resource: "fuel_entry",
	columns: []string{"date", "vehicle_id", "driver_id", "supplier_id", "liters", "price_per_liter",
		"total_amount", "odometer", "payment_method", "notes", "created_at", "updated_at"},
	selects: []string{"id", "date", "vehicle_id", "COALESCE(driver_id,0)", "COALESCE(supplier_id,0)", "liters",
		"price_per_liter", "total_amount", "odometer", "payment_method", "COALESCE(notes,'')", "created_at", "updated_at"},
	scan: func(s scanner) (models.FuelEntry, error) {
		var f models.FuelEntry
		err := s.Scan(&f.ID, &f.Date, &f.VehicleID, &f.DriverID, &f.SupplierID, &f.Liters, &f.PricePerLiter,
			&f.TotalAmount, &f.Odometer, &f.PaymentMethod, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
		return f, err
	},
	values: func(f models.FuelEntry) []any {
		return []any{f.Date, f.VehicleID, intdb.NullIfZero(f.DriverID), intdb.NullIfZero(f.SupplierID), f.Liters,
			f.PricePerLiter, f.TotalAmount, f.Odometer, f.PaymentMethod, intdb.NullIfEmpty(f.Notes), f.CreatedAt, f.UpdatedAt}
	},
	idOf:  func(f models.FuelEntry) int64 { return f.ID },
	order: "date, id",
}

type FuelFilter struct {
	Range         domain.DateRange
	VehicleID     int64
	PaymentMethod string
}

type FuelRepository struct {
	DB intdb.DBTX
}

func (r FuelRepository) db() intdb.DBTX { return conn(r.DB) }

func (r FuelRepository) Get(ctx context.Context, id int64) (models.FuelEntry, error) {
	return fuelTable.get(ctx, r.db(), id)
}

func (r FuelRepository) List(ctx context.Context, f FuelFilter) ([]models.FuelEntry, error) {
	var w where
	w.dateRange("date", f.Range)
	if f.VehicleID > 0 {
		w.add("vehicle_id = ?", f.VehicleID)
	}
	if f.PaymentMethod != "" {
		w.add("payment_method = ?", f.PaymentMethod)
	}
	return fuelTable.list(ctx, r.db(), w)
}

func (r FuelRepository) ListByDate(ctx context.Context, date string) ([]models.FuelEntry, error) {
	return r.List(ctx, FuelFilter{Range: domain.DateRange{Start: date, End: date}})
}

func (r FuelRepository) Create(ctx context.Context, f models.FuelEntry) (int64, error) {
	return fuelTable.insert(ctx, r.db(), f)
}

func (r FuelRepository) Update(ctx context.Context, id int64, f models.FuelEntry) error {
	return fuelTable.update(ctx, r.db(), id, f)
}

func (r FuelRepository) Delete(ctx context.Context, id int64) error {
	return fuelTable.delete(ctx, r.db(), id)
}
