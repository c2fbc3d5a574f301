package services

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
	"fleetfin/internal/utils"
)

// registryKind describes how one registry entity is validated and stamped.
type registryKind[T any] struct {
	entity string
	repo   func(db intdb.DBTX) repositories.Registry[T]
	clean  func(v *T) error
	// stamp sets id, active and timestamps
	stamp func(v *T, id int64, active bool, createdAt, updatedAt string)
	meta  func(v T) (active bool, createdAt string)
}

// RegistryService is the CRUD service shared by drivers, vehicles, routes,
// agencies, clients and suppliers.
type RegistryService[T any] struct {
	DB   *sql.DB
	kind registryKind[T]
}

func (s RegistryService[T]) Entity() string { return s.kind.entity }

func (s RegistryService[T]) Get(ctx context.Context, id int64) (T, error) {
	return s.kind.repo(sqlDB(s.DB)).Get(ctx, id)
}

func (s RegistryService[T]) List(ctx context.Context, includeInactive bool) ([]T, error) {
	return s.kind.repo(sqlDB(s.DB)).List(ctx, includeInactive)
}

func (s RegistryService[T]) Create(ctx context.Context, actor domain.Actor, v T) (T, error) {
	if err := s.kind.clean(&v); err != nil {
		return v, err
	}
	now := utils.Timestamp()
	s.kind.stamp(&v, 0, true, now, now)
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		id, err := s.kind.repo(tx).Create(ctx, v)
		if err != nil {
			return err
		}
		s.kind.stamp(&v, id, true, now, now)
		return recordAudit(ctx, tx, actor, models.AuditCreate, s.kind.entity, id, nil, v)
	})
	return v, err
}

// Update replaces the editable fields. The active flag is kept; use SetActive.
func (s RegistryService[T]) Update(ctx context.Context, actor domain.Actor, id int64, v T) (T, error) {
	if err := s.kind.clean(&v); err != nil {
		return v, err
	}
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := s.kind.repo(tx)
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		active, createdAt := s.kind.meta(before)
		s.kind.stamp(&v, id, active, createdAt, utils.Timestamp())
		if err := repo.Update(ctx, id, v); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditUpdate, s.kind.entity, id, before, v)
	})
	return v, err
}

// SetActive soft-deletes (false) or restores (true) a row.
func (s RegistryService[T]) SetActive(ctx context.Context, actor domain.Actor, id int64, active bool) (T, error) {
	var after T
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := s.kind.repo(tx)
		before, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.SetActive(ctx, id, active, utils.Timestamp()); err != nil {
			return err
		}
		if after, err = repo.Get(ctx, id); err != nil {
			return err
		}
		action := models.AuditUpdate
		if !active {
			action = models.AuditDelete
		}
		return recordAudit(ctx, tx, actor, action, s.kind.entity, id, before, after)
	})
	return after, err
}

func required(field, v string) error {
	if v == "" {
		return domain.ValidationError{Field: field, Msg: "is required"}
	}
	return nil
}

func NewDriverService(db *sql.DB) RegistryService[models.Driver] {
	return RegistryService[models.Driver]{DB: db, kind: registryKind[models.Driver]{
		entity: "driver",
		repo:   repositories.NewDriverRepository,
		clean: func(d *models.Driver) error {
			d.Name = utils.NormalizeSpace(d.Name)
			d.Document = utils.OnlyDigits(d.Document)
			d.Phone = utils.TrimOrEmpty(d.Phone)
			d.LicenseNumber = utils.NormalizeCode(d.LicenseNumber)
			return required("name", d.Name)
		},
		stamp: func(d *models.Driver, id int64, active bool, c, u string) {
			d.ID, d.Active, d.CreatedAt, d.UpdatedAt = id, active, c, u
		},
		meta: func(d models.Driver) (bool, string) { return d.Active, d.CreatedAt },
	}}
}

func NewVehicleService(db *sql.DB) RegistryService[models.Vehicle] {
	return RegistryService[models.Vehicle]{DB: db, kind: registryKind[models.Vehicle]{
		entity: "vehicle",
		repo:   repositories.NewVehicleRepository,
		clean: func(v *models.Vehicle) error {
			v.Code = utils.NormalizeCode(v.Code)
			v.Plate = utils.NormalizeCode(v.Plate)
			v.Model = utils.NormalizeSpace(v.Model)
			if v.Seats < 0 {
				return domain.ValidationError{Field: "seats", Msg: "must not be negative"}
			}
			return required("code", v.Code)
		},
		stamp: func(v *models.Vehicle, id int64, active bool, c, u string) {
			v.ID, v.Active, v.CreatedAt, v.UpdatedAt = id, active, c, u
		},
		meta: func(v models.Vehicle) (bool, string) { return v.Active, v.CreatedAt },
	}}
}

func NewRouteService(db *sql.DB) RegistryService[models.Route] {
	return RegistryService[models.Route]{DB: db, kind: registryKind[models.Route]{
		entity: "route",
		repo:   repositories.NewRouteRepository,
		clean: func(r *models.Route) error {
			r.Code = utils.NormalizeCode(r.Code)
			r.Name = utils.NormalizeSpace(r.Name)
			r.Origin = utils.NormalizeSpace(r.Origin)
			r.Destination = utils.NormalizeSpace(r.Destination)
			if r.Name == "" && r.Origin != "" && r.Destination != "" {
				r.Name = r.Origin + " - " + r.Destination
			}
			return firstErr(required("code", r.Code), required("name", r.Name))
		},
		stamp: func(r *models.Route, id int64, active bool, c, u string) {
			r.ID, r.Active, r.CreatedAt, r.UpdatedAt = id, active, c, u
		},
		meta: func(r models.Route) (bool, string) { return r.Active, r.CreatedAt },
	}}
}

var maxPercent = decimal.NewFromInt(100)

func NewAgencyService(db *sql.DB) RegistryService[models.Agency] {
	return RegistryService[models.Agency]{DB: db, kind: registryKind[models.Agency]{
		entity: "agency",
		repo:   repositories.NewAgencyRepository,
		clean: func(a *models.Agency) error {
			a.Name = utils.NormalizeSpace(a.Name)
			a.Document = utils.OnlyDigits(a.Document)
			a.Contact = utils.NormalizeSpace(a.Contact)
			a.Phone = utils.TrimOrEmpty(a.Phone)
			if a.CommissionPercent.IsNegative() || a.CommissionPercent.GreaterThan(maxPercent) {
				return domain.ValidationError{Field: "commissionPercent", Msg: "must be between 0 and 100"}
			}
			return required("name", a.Name)
		},
		stamp: func(a *models.Agency, id int64, active bool, c, u string) {
			a.ID, a.Active, a.CreatedAt, a.UpdatedAt = id, active, c, u
		},
		meta: func(a models.Agency) (bool, string) { return a.Active, a.CreatedAt },
	}}
}

func NewClientService(db *sql.DB) RegistryService[models.Client] {
	return RegistryService[models.Client]{DB: db, kind: registryKind[models.Client]{
		entity: "client",
		repo:   repositories.NewClientRepository,
		clean: func(c *models.Client) error {
			c.Name = utils.NormalizeSpace(c.Name)
			c.Document = utils.OnlyDigits(c.Document)
			c.Phone = utils.TrimOrEmpty(c.Phone)
			c.Email = utils.TrimOrEmpty(c.Email)
			return required("name", c.Name)
		},
		stamp: func(c *models.Client, id int64, active bool, cr, u string) {
			c.ID, c.Active, c.CreatedAt, c.UpdatedAt = id, active, cr, u
		},
		meta: func(c models.Client) (bool, string) { return c.Active, c.CreatedAt },
	}}
}

func NewSupplierService(db *sql.DB) RegistryService[models.Supplier] {
	return RegistryService[models.Supplier]{DB: db, kind: registryKind[models.Supplier]{
		entity: "supplier",
		repo:   repositories.NewSupplierRepository,
		clean: func(p *models.Supplier) error {
			p.Name = utils.NormalizeSpace(p.Name)
			p.Document = utils.OnlyDigits(p.Document)
			p.Category = utils.NormalizeSpace(p.Category)
			p.Phone = utils.TrimOrEmpty(p.Phone)
			return required("name", p.Name)
		},
		stamp: func(p *models.Supplier, id int64, active bool, c, u string) {
			p.ID, p.Active, p.CreatedAt, p.UpdatedAt = id, active, c, u
		},
		meta: func(p models.Supplier) (bool, string) { return p.Active, p.CreatedAt },
	}}
}
