package services

import (
	"context"
	"database/sql"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/finance"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

const entityLedger = "ledger_entry"

// LedgerService keeps the driver running balance: credits add, debits subtract.
type LedgerService struct {
	DB *sql.DB
}

func (s LedgerService) Add(ctx context.Context, actor domain.Actor, e models.DriverLedgerEntry) (models.DriverLedgerEntry, error) {
	e.Description = utils.NormalizeSpace(e.Description)
	e.Amount = finance.Round2(e.Amount)
	if e.Kind != models.LedgerCredit && e.Kind != models.LedgerDebit {
		return e, domain.ValidationError{Field: "kind", Msg: "must be credit or debit"}
	}
	if err := firstErr(validDate("date", e.Date), positive("amount", e.Amount)); err != nil {
		return e, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := requireActive(ctx, tx, "drivers", "driverId", e.DriverID); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, e.Date); err != nil {
			return err
		}
		e.CreatedAt = utils.Timestamp()
		id, err := repositories.LedgerRepository{DB: tx}.Create(ctx, e)
		if err != nil {
			return err
		}
		e.ID = id
		return recordAudit(ctx, tx, actor, models.AuditCreate, entityLedger, id, nil, e)
	})
	return e, err
}

// Delete removes an entry whose day is still open. Entries are never edited.
func (s LedgerService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.LedgerRepository{DB: tx}
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
		return recordAudit(ctx, tx, actor, models.AuditDelete, entityLedger, id, before, nil)
	})
}

// Statement lists a driver's entries with the running balance. With a start
// date the entries before it are folded into an opening line.
func (s LedgerService) Statement(ctx context.Context, driverID int64, rng domain.DateRange) (models.LedgerStatement, error) {
	if err := validRange(rng); err != nil {
		return models.LedgerStatement{}, err
	}
	db := sqlDB(s.DB)
	driver, err := repositories.NewDriverRepository(db).Get(ctx, driverID)
	if err != nil {
		return models.LedgerStatement{}, err
	}
	entries, err := repositories.LedgerRepository{DB: db}.ListByDriver(ctx, driverID, domain.DateRange{End: rng.End})
	if err != nil {
		return models.LedgerStatement{}, err
	}

	var opening []models.DriverLedgerEntry
	var inRange []models.DriverLedgerEntry
	for _, e := range entries {
		// entries already stop at rng.End, so anything outside is before Start
		if !rng.Contains(e.Date) {
			opening = append(opening, e)
			continue
		}
		inRange = append(inRange, e)
	}
	if len(opening) > 0 {
		bal := finance.Balance(opening)
		carry := models.DriverLedgerEntry{DriverID: driverID, Date: rng.Start, Kind: models.LedgerCredit, Description: "opening balance", Amount: bal}
		if bal.IsNegative() {
			carry.Kind = models.LedgerDebit
			carry.Amount = bal.Neg()
		}
		// id 0 sorts first on the start date
		inRange = append([]models.DriverLedgerEntry{carry}, inRange...)
	}
	return finance.Statement(driver.ID, driver.Name, inRange), nil
}

// Balances lists every active driver with the current balance.
func (s LedgerService) Balances(ctx context.Context) ([]models.DriverBalance, error) {
	db := sqlDB(s.DB)
	drivers, err := repositories.NewDriverRepository(db).List(ctx, false)
	if err != nil {
		return nil, err
	}
	entries, err := repositories.LedgerRepository{DB: db}.ListByDriver(ctx, 0, domain.DateRange{})
	if err != nil {
		return nil, err
	}
	byDriver := map[int64][]models.DriverLedgerEntry{}
	for _, e := range entries {
		byDriver[e.DriverID] = append(byDriver[e.DriverID], e)
	}
	out := make([]models.DriverBalance, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, models.DriverBalance{DriverID: d.ID, DriverName: d.Name, Balance: finance.Balance(byDriver[d.ID])})
	}
	return out, nil
}
