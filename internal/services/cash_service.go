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

const (
	entityRouteCash  = "route_cash"
	entityAgencyCash = "agency_cash"
)

// CashService records route and agency revenue. Every write checks the day
// lock of the record's date, and of the previous date when an update moves it.
type CashService struct {
	DB *sql.DB
}

func (s CashService) GetRouteCash(ctx context.Context, id int64) (models.RouteCash, error) {
	return repositories.RouteCashRepository{DB: sqlDB(s.DB)}.Get(ctx, id)
}

func (s CashService) ListRouteCash(ctx context.Context, f repositories.CashFilter) ([]models.RouteCash, error) {
	if err := validRange(f.Range); err != nil {
		return nil, err
	}
	return repositories.RouteCashRepository{DB: sqlDB(s.DB)}.List(ctx, f)
}

func cleanRouteCash(c *models.RouteCash) error {
	c.Notes = utils.TrimOrEmpty(c.Notes)
	c.CashAmount = finance.Round2(c.CashAmount)
	c.ElectronicAmount = finance.Round2(c.ElectronicAmount)
	if c.Passengers < 0 {
		return domain.ValidationError{Field: "passengers", Msg: "must not be negative"}
	}
	return firstErr(
		validDate("date", c.Date),
		nonNegative("cashAmount", c.CashAmount),
		nonNegative("electronicAmount", c.ElectronicAmount),
	)
}

func (s CashService) CreateRouteCash(ctx context.Context, actor domain.Actor, c models.RouteCash) (models.RouteCash, error) {
	if err := cleanRouteCash(&c); err != nil {
		return c, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := firstErr(
			requireActive(ctx, tx, "routes", "routeId", c.RouteID),
			requireActive(ctx, tx, "vehicles", "vehicleId", c.VehicleID),
			requireActive(ctx, tx, "drivers", "driverId", c.DriverID),
		); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, c.Date); err != nil {
			return err
		}
		c.CreatedAt = utils.Timestamp()
		c.UpdatedAt = c.CreatedAt
		id, err := repositories.RouteCashRepository{DB: tx}.Create(ctx, c)
		if err != nil {
			return err
		}
		c.ID = id
		return recordAudit(ctx, tx, actor, models.AuditCreate, entityRouteCash, id, nil, c)
	})
	return c, err
}

func (s CashService) UpdateRouteCash(ctx context.Context, actor domain.Actor, id int64, c models.RouteCash) (models.RouteCash, error) {
	if err := cleanRouteCash(&c); err != nil {
		return c, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.RouteCashRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, before.Date, c.Date); err != nil {
			return err
		}
		// references only need to exist on update; a driver may have left since
		if err := firstErr(
			changedRef(ctx, tx, "routes", "routeId", before.RouteID, c.RouteID),
			changedRef(ctx, tx, "vehicles", "vehicleId", before.VehicleID, c.VehicleID),
			changedRef(ctx, tx, "drivers", "driverId", before.DriverID, c.DriverID),
		); err != nil {
			return err
		}
		c.ID = id
		c.CreatedAt = before.CreatedAt
		c.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, c); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityRouteCash, id, before, c)
	})
	return c, err
}

func (s CashService) DeleteRouteCash(ctx context.Context, actor domain.Actor, id int64) error {
	return withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.RouteCashRepository{DB: tx}
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
		return recordAudit(ctx, tx, actor, models.AuditDelete, entityRouteCash, id, before, nil)
	})
}

func (s CashService) GetAgencyCash(ctx context.Context, id int64) (models.AgencyCash, error) {
	return repositories.AgencyCashRepository{DB: sqlDB(s.DB)}.Get(ctx, id)
}

func (s CashService) ListAgencyCash(ctx context.Context, f repositories.CashFilter) ([]models.AgencyCash, error) {
	if err := validRange(f.Range); err != nil {
		return nil, err
	}
	return repositories.AgencyCashRepository{DB: sqlDB(s.DB)}.List(ctx, f)
}

func cleanAgencyCash(c *models.AgencyCash) error {
	c.Notes = utils.TrimOrEmpty(c.Notes)
	c.GrossAmount = finance.Round2(c.GrossAmount)
	return firstErr(validDate("date", c.Date), nonNegative("grossAmount", c.GrossAmount))
}

// applyCommission prices the row with percent, which is the snapshot kept on the row.
func applyCommission(c *models.AgencyCash, percent models.Decimal) {
	c.CommissionPercent = percent
	c.CommissionAmount, c.NetAmount = finance.Commission(c.GrossAmount, percent)
}

func (s CashService) CreateAgencyCash(ctx context.Context, actor domain.Actor, c models.AgencyCash) (models.AgencyCash, error) {
	if err := cleanAgencyCash(&c); err != nil {
		return c, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		if err := requireActive(ctx, tx, "agencies", "agencyId", c.AgencyID); err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, c.Date); err != nil {
			return err
		}
		agency, err := repositories.NewAgencyRepository(tx).Get(ctx, c.AgencyID)
		if err != nil {
			return err
		}
		applyCommission(&c, agency.CommissionPercent)
		c.CreatedAt = utils.Timestamp()
		c.UpdatedAt = c.CreatedAt
		id, err := repositories.AgencyCashRepository{DB: tx}.Create(ctx, c)
		if err != nil {
			return err
		}
		c.ID = id
		return recordAudit(ctx, tx, actor, models.AuditCreate, entityAgencyCash, id, nil, c)
	})
	return c, err
}

// UpdateAgencyCash keeps the stored commission percent unless the agency
// changes, in which case the new agency's current percent is snapshotted.
func (s CashService) UpdateAgencyCash(ctx context.Context, actor domain.Actor, id int64, c models.AgencyCash) (models.AgencyCash, error) {
	if err := cleanAgencyCash(&c); err != nil {
		return c, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.AgencyCashRepository{DB: tx}
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOpen(ctx, tx, before.Date, c.Date); err != nil {
			return err
		}
		percent := before.CommissionPercent
		if c.AgencyID != before.AgencyID {
			if err := requireActive(ctx, tx, "agencies", "agencyId", c.AgencyID); err != nil {
				return err
			}
			agency, err := repositories.NewAgencyRepository(tx).Get(ctx, c.AgencyID)
			if err != nil {
				return err
			}
			percent = agency.CommissionPercent
		}
		applyCommission(&c, percent)
		c.ID = id
		c.CreatedAt = before.CreatedAt
		c.UpdatedAt = utils.Timestamp()
		if err := repo.Update(ctx, id, c); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, entityAgencyCash, id, before, c)
	})
	return c, err
}

func (s CashService) DeleteAgencyCash(ctx context.Context, actor domain.Actor, id int64) error {
	return withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repositories.AgencyCashRepository{DB: tx}
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
		return recordAudit(ctx, tx, actor, models.AuditDelete, entityAgencyCash, id, before, nil)
	})
}

// changedRef validates a reference only when the update points it somewhere new.
func changedRef(ctx context.Context, tx *sql.Tx, tableName, field string, before, after int64) error {
	if before == after {
		return nil
	}
	return requireActive(ctx, tx, tableName, field, after)
}
