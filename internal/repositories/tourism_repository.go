package repositories

import (
	"context"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
)

var tourismTable = table[models.TourismService]{
	name:     "tourism_services",
	resource: "tourism_service",
	columns: []string{"client_id", "vehicle_id", "driver_id", "description", "departure_date", "return_date",
		"distance_km", "price_per_km", "daily_rate", "tolls", "driver_allowance", "margin_percent",
		"quoted_amount", "received_amount", "received_date", "status", "created_at", "updated_at"},
	selects: []string{"id", "client_id", "COALESCE(vehicle_id,0)", "COALESCE(driver_id,0)", "description",
		"departure_date", "COALESCE(return_date,'')", "distance_km", "price_per_km", "daily_rate", "tolls",
		"driver_allowance", "margin_percent", "quoted_amount", "received_amount", "COALESCE(received_date,'')",
		"status", "created_at", "updated_at"},
	scan: func(s scanner) (models.TourismService, error) {
		var t models.TourismService
		err := s.Scan(&t.ID, &t.ClientID, &t.VehicleID, &t.DriverID, &t.Description,
			&t.DepartureDate, &t.ReturnDate, &t.DistanceKm, &t.PricePerKm, &t.DailyRate, &t.Tolls,
			&t.DriverAllowance, &t.MarginPercent, &t.QuotedAmount, &t.ReceivedAmount, &t.ReceivedDate,
			&t.Status, &t.CreatedAt, &t.UpdatedAt)
		return t, err
	},
	values: func(t models.TourismService) []any {
		return []any{t.ClientID, intdb.NullIfZero(t.VehicleID), intdb.NullIfZero(t.DriverID), t.Description,
			t.DepartureDate, intdb.NullIfEmpty(t.ReturnDate), t.DistanceKm, t.PricePerKm, t.DailyRate, t.Tolls,
			t.DriverAllowance, t.MarginPercent, t.QuotedAmount, t.ReceivedAmount, intdb.NullIfEmpty(t.ReceivedDate),
			t.Status, t.CreatedAt, t.UpdatedAt}
	},
	idOf:  func(t models.TourismService) int64 { return t.ID },
	order: "departure_date, id",
}

// TourismFilter bounds apply to departure_date.
type TourismFilter struct {
	Range    domain.DateRange
	Status   string
	ClientID int64
}

type TourismRepository struct {
	DB intdb.DBTX
}

func (r TourismRepository) db() intdb.DBTX { return conn(r.DB) }

func (r TourismRepository) Get(ctx context.Context, id int64) (models.TourismService, error) {
	return tourismTable.get(ctx, r.db(), id)
}

func (r TourismRepository) List(ctx context.Context, f TourismFilter) ([]models.TourismService, error) {
	var w where
	w.dateRange("departure_date", f.Range)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.ClientID > 0 {
		w.add("client_id = ?", f.ClientID)
	}
	return tourismTable.list(ctx, r.db(), w)
}

// ListReceivedOn returns services whose payment was registered on date.
func (r TourismRepository) ListReceivedOn(ctx context.Context, date string) ([]models.TourismService, error) {
	var w where
	w.add("received_date = ?", date)
	return tourismTable.list(ctx, r.db(), w)
}

func (r TourismRepository) Create(ctx context.Context, t models.TourismService) (int64, error) {
	return tourismTable.insert(ctx, r.db(), t)
}

func (r TourismRepository) Update(ctx context.Context, id int64, t models.TourismService) error {
	return tourismTable.update(ctx, r.db(), id, t)
}

func (r TourismRepository) Delete(ctx context.Context, id int64) error {
	return tourismTable.delete(ctx, r.db(), id)
}
