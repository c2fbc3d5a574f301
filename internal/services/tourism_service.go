package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/finance"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

const entityTourism = "tourism_service"

// tourismTransitions lists the statuses reachable from each status.
var tourismTransitions = map[string][]string{
	models.TourismQuote:     {models.TourismConfirmed, models.TourismCancelled},
	models.TourismConfirmed: {models.TourismDone, models.TourismCancelled},
}

func canMoveTourism(from, to string) bool {
	for _, s := range tourismTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type TourismService struct {
	DB *sql.DB
}

func quoteParams(t models.TourismService) finance.QuoteParams {
	return finance.QuoteParams{
		DepartureDate:   t.DepartureDate,
		ReturnDate:      t.ReturnDate,
		DistanceKm:      t.DistanceKm,
		PricePerKm:      t.PricePerKm,
		DailyRate:       t.DailyRate,
		Tolls:           t.Tolls,
		DriverAllowance: t.DriverAllowance,
		MarginPercent:   t.MarginPercent,
	}
}

// Quote validates and prices the parameters without saving anything.
func (s TourismService) Quote(p finance.QuoteParams) (finance.Quote, error) {
	if err := validateQuote(p); err != nil {
		return finance.Quote{}, err
	}
	return finance.TourismQuote(p)
}

func validateQuote(p finance.QuoteParams) error {
	if err := validDate("departureDate", p.DepartureDate); err != nil {
		return err
	}
	if p.ReturnDate != "" {
		if err := validDate("returnDate", p.ReturnDate); err != nil {
			return err
		}
		if p.ReturnDate < p.DepartureDate {
			return domain.ValidationError{Field: "returnDate", Msg: "must not be before departureDate"}
		}
	}
	return firstErr(
		nonNegative("distanceKm", p.DistanceKm),
		nonNegative("pricePerKm", p.PricePerKm),
		nonNegative("dailyRate", p.DailyRate),
		nonNegative("tolls", p.Tolls),
		nonNegative("driverAllowance", p.DriverAllowance),
		nonNegative("marginPercent", p.MarginPercent),
	)
}

func (s TourismService) Get(ctx context.Context, id int64) (models.TourismService, error) {
	return repositories.TourismRepository{DB: sqlDB(s.DB)}.Get(ctx, id)
}

func (s TourismService) List(ctx context.Context, f repositories.TourismFilter) ([]models.TourismService, error) {
	if err := validRange(f.Range); err != nil {
		return nil, err
	}
	return repositories.TourismRepository{DB: sqlDB(s.DB)}.List(ctx, f)
}

// price re-validates and recomputes the quoted amount.
func price(t *models.TourismService) error {
	t.Description = utils.NormalizeSpace(t.Description)
	p := quoteParams(*t)
	if err := validateQuote(p); err != nil {
		return err
	}
	q, err := finance.TourismQuote(p)
	if err != nil {
		return domain.ValidationError{Field: "departureDate", Err: err}
	}
	t.QuotedAmount = q.Total
	return nil
}

func checkTourismRefs(ctx context.Context, tx *sql.Tx, before, t models.TourismService) error {
	return firstErr(
		changedRef(ctx, tx, "clients", "clientId", before.ClientID, t.ClientID),
		requireExisting(ctx, tx, "vehicles", "vehicleId", t.VehicleID),
		requireExisting(ctx, tx, "drivers", "driverId", t.DriverID),
	)
}

func (s TourismService) Create(ctx context.Context, actor domain.Actor, t models.TourismService) (models.TourismService, error) {
	if err := price(&t); err != nil {
		return t, err
	}
	t.Status = models.TourismQuote
	t.ReceivedAmount = decimal.Zero
	t.ReceivedDate = ""
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := firstErr(
			requireActive(ctx, tx, "clients", "clientId", t.ClientID),
			checkTourismRefs(ctx, tx, t, t),
		); err != nil {
			return err
		}
		t.CreatedAt = utils.Timestamp()
		t.UpdatedAt = t.CreatedAt
		id, err := repositories.TourismRepository{DB: tx}.Create(ctx, t)
		if err != nil {
			return err
		}
		t.ID = id
		return recordAudit(ctx, tx, actor, models.AuditCreate, entityTourism, id, nil, t)
	})
	return t, err
}

// Update edits the trip and re-quotes it. Status and receipt are changed only
// by SetStatus and Receive.
func (s TourismService) Update(ctx context.Context, actor domain.Actor, id int64, t models.TourismService) (models.TourismService, error) {
	if err := price(&t); err != nil {
		return t, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.TourismRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if before.Status == models.TourismDone || before.Status == models.TourismCancelled {
			return domain.ConflictError{Resource: entityTourism, Msg: fmt.Sprintf("service %d is %s", id, before.Status)}
		}
		if err := checkTourismRefs(ctx, tx, before, t); err != nil {
			return err
		}
		t.ID = id
		t.Status = before.Status
		t.ReceivedAmount = before.ReceivedAmount
		t.ReceivedDate = before.ReceivedDate
		t.CreatedAt = before.CreatedAt
		t.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, t); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityTourism, id, before, t)
	})
	return t, err
}

// SetStatus moves quote -> confirmed -> done; anything not done may be cancelled.
// Cancelling a paid service changes its receipt day's totals, so that day must be open.
func (s TourismService) SetStatus(ctx context.Context, actor domain.Actor, id int64, status string) (models.TourismService, error) {
	var after models.TourismService
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.TourismRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !canMoveTourism(before.Status, status) {
			return domain.ConflictError{Resource: entityTourism, Msg: fmt.Sprintf("cannot move from %s to %s", before.Status, status)}
		}
		if status == models.TourismCancelled {
			if err := ensureOpen(ctx, tx, before.ReceivedDate); err != nil {
				return err
			}
		}
		after = before
		after.Status = status
		after.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, after); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityTourism, id, before, after)
	})
	return after, err
}

// Receive registers the payment of a service on date, replacing an earlier
// receipt. Both the old and the new receipt day must be open.
func (s TourismService) Receive(ctx context.Context, actor domain.Actor, id int64, amount models.Decimal, date string) (models.TourismService, error) {
	var after models.TourismService
	amount = finance.Round2(amount)
	if err := firstErr(validDate("date", date), positive("amount", amount)); err != nil {
		return after, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.TourismRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if before.Status == models.TourismCancelled {
			return domain.ConflictError{Resource: entityTourism, Msg: fmt.Sprintf("service %d is cancelled", id)}
		}
		if err := ensureOpen(ctx, tx, before.ReceivedDate, date); err != nil {
			return err
		}
		after = before
		after.ReceivedAmount = amount
		after.ReceivedDate = date
		after.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, after); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityTourism, id, before, after)
	})
	return after, err
}

func (s TourismService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.TourismRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, before.ReceivedDate); err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditDelete, entityTourism, id, before, nil)
	})
}
