package services

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/finance"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

const entityFuel = "fuel_entry"

var fuelPayments = map[string]bool{
	models.PaymentCash:     true,
	models.PaymentCard:     true,
	models.PaymentInvoiced: true,
}

type FuelService struct {
	DB *sql.DB
}

func (s FuelService) Get(ctx context.Context, id int64) (models.FuelEntry, error) {
	return repositories.FuelRepository{DB: sqlDB(s.DB)}.Get(ctx, id)
}

func (s FuelService) List(ctx context.Context, f repositories.FuelFilter) ([]models.FuelEntry, error) {
	if err := validRange(f.Range); err != nil {
		return nil, err
	}
	return repositories.FuelRepository{DB: sqlDB(s.DB)}.List(ctx, f)
}

func cleanFuel(f *models.FuelEntry) error {
	f.Notes = utils.TrimOrEmpty(f.Notes)
	if f.PaymentMethod == "" {
		f.PaymentMethod = models.PaymentCash
	}
	if !fuelPayments[f.PaymentMethod] {
		return domain.ValidationError{Field: "paymentMethod", Msg: "must be cash, card or invoiced"}
	}
	if f.Odometer < 0 {
		return domain.ValidationError{Field: "odometer", Msg: "must not be negative"}
	}
	if err := firstErr(
		validDate("date", f.Date),
		positive("liters", f.Liters),
		nonNegative("pricePerLiter", f.PricePerLiter),
	); err != nil {
		return err
	}
	f.TotalAmount = finance.FuelTotal(f.Liters, f.PricePerLiter)
	return nil
}

func (s FuelService) Create(ctx context.Context, actor domain.Actor, f models.FuelEntry) (models.FuelEntry, error) {
	if err := cleanFuel(&f); err != nil {
		return f, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := firstErr(
			requireActive(ctx, tx, "vehicles", "vehicleId", f.VehicleID),
			requireExisting(ctx, tx, "drivers", "driverId", f.DriverID),
			requireExisting(ctx, tx, "suppliers", "supplierId", f.SupplierID),
		); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, f.Date); err != nil {
			return err
		}
		f.CreatedAt = utils.Timestamp()
		f.UpdatedAt = f.CreatedAt
		id, err := repositories.FuelRepository{DB: tx}.Create(ctx, f)
		if err != nil {
			return err
		}
		f.ID = id
		return recordAudit(ctx, tx, actor, models.AuditCreate, entityFuel, id, nil, f)
	})
	return f, err
}

func (s FuelService) Update(ctx context.Context, actor domain.Actor, id int64, f models.FuelEntry) (models.FuelEntry, error) {
	if err := cleanFuel(&f); err != nil {
		return f, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.FuelRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, before.Date, f.Date); err != nil {
			return err
		}
		if err := firstErr(
			changedRef(ctx, tx, "vehicles", "vehicleId", before.VehicleID, f.VehicleID),
			requireExisting(ctx, tx, "drivers", "driverId", f.DriverID),
			requireExisting(ctx, tx, "suppliers", "supplierId", f.SupplierID),
		); err != nil {
			return err
		}
		f.ID = id
		f.CreatedAt = before.CreatedAt
		f.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, f); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityFuel, id, before, f)
	})
	return f, err
}

func (s FuelService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.FuelRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, before.Date); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditDelete, entityFuel, id, before, nil)
	})
}

// VehicleReport aggregates a vehicle's fueling in rng.
func (s FuelService) VehicleReport(ctx context.Context, vehicleID int64, rng domain.DateRange) (models.FuelVehicleReport, error) {
	if err := validRange(rng); err != nil {
		return models.FuelVehicleReport{}, err
	}
	db := sqlDB(s.DB)
	vehicle, err := repositories.NewVehicleRepository(db).Get(ctx, vehicleID)
	if err != nil {
		return models.FuelVehicleReport{}, err
	}
	entries, err := repositories.FuelRepository{DB: db}.List(ctx, repositories.FuelFilter{Range: rng, VehicleID: vehicleID})
	if err != nil {
		return models.FuelVehicleReport{}, err
	}
	rep := summarizeFuel(entries)
	rep.VehicleID = vehicle.ID
	rep.VehicleCode = vehicle.Code
	rep.Start, rep.End = rng.Start, rng.End
	return rep, nil
}

// summarizeFuel computes totals. Distance uses entries that carry an odometer
// reading; km per liter needs at least two readings.
func summarizeFuel(entries []models.FuelEntry) models.FuelVehicleReport {
	rep := models.FuelVehicleReport{
		Entries:      len(entries),
		TotalLiters:  decimal.Zero,
		TotalAmount:  decimal.Zero,
		AveragePrice: decimal.Zero,
	}
	readings := 0
	for _, e := range entries {
		rep.TotalLiters = rep.TotalLiters.Add(e.Liters)
		rep.TotalAmount = rep.TotalAmount.Add(e.TotalAmount)
		if e.Odometer <= 0 {
			continue
		}
		readings++
		if rep.FirstOdometer == 0 || e.Odometer < rep.FirstOdometer {
			rep.FirstOdometer = e.Odometer
		}
		if e.Odometer > rep.LastOdometer {
			rep.LastOdometer = e.Odometer
		}
	}
	if rep.TotalLiters.IsPositive() {
		rep.AveragePrice = rep.TotalAmount.DivRound(rep.TotalLiters, 4)
	}
	rep.DistanceKm = rep.LastOdometer - rep.FirstOdometer
	if readings >= 2 && rep.DistanceKm > 0 && rep.TotalLiters.IsPositive() {
		kml := decimal.NewFromInt(rep.DistanceKm).DivRound(rep.TotalLiters, 2)
		rep.KmPerLiter = &kml
	}
	return rep
}
