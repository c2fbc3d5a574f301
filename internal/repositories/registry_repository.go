package repositories

import (
	"context"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain/models"
)

var driverTable = table[models.Driver]{
	name:     "drivers",
	resource: "driver",
	columns:  []string{"name", "document", "phone", "license_number", "active", "created_at", "updated_at"},
	selects:  []string{"id", "name", "document", "phone", "license_number", "active", "created_at", "updated_at"},
	scan: func(s scanner) (models.Driver, error) {
		var d models.Driver
		err := s.Scan(&d.ID, &d.Name, &d.Document, &d.Phone, &d.LicenseNumber, &d.Active, &d.CreatedAt, &d.UpdatedAt)
		return d, err
	},
	values: func(d models.Driver) []any {
		return []any{d.Name, d.Document, d.Phone, d.LicenseNumber, d.Active, d.CreatedAt, d.UpdatedAt}
	},
	idOf:  func(d models.Driver) int64 { return d.ID },
	order: "name, id",
}

var vehicleTable = table[models.Vehicle]{
	name:     "vehicles",
	resource: "vehicle",
	columns:  []string{"code", "plate", "model", "seats", "active", "created_at", "updated_at"},
	selects:  []string{"id", "code", "plate", "model", "seats", "active", "created_at", "updated_at"},
	scan: func(s scanner) (models.Vehicle, error) {
		var v models.Vehicle
		err := s.Scan(&v.ID, &v.Code, &v.Plate, &v.Model, &v.Seats, &v.Active, &v.CreatedAt, &v.UpdatedAt)
		return v, err
	},
	values: func(v models.Vehicle) []any {
		return []any{v.Code, v.Plate, v.Model, v.Seats, v.Active, v.CreatedAt, v.UpdatedAt}
	},
	idOf:  func(v models.Vehicle) int64 { return v.ID },
	order: "code, id",
}

var routeTable = table[models.Route]{
	name:     "routes",
	resource: "route",
	columns:  []string{"code", "name", "origin", "destination", "active", "created_at", "updated_at"},
	selects:  []string{"id", "code", "name", "origin", "destination", "active", "created_at", "updated_at"},
	scan: func(s scanner) (models.Route, error) {
		var r models.Route
		err := s.Scan(&r.ID, &r.Code, &r.Name, &r.Origin, &r.Destination, &r.Active, &r.CreatedAt, &r.UpdatedAt)
		return r, err
	},
	values: func(r models.Route) []any {
		return []any{r.Code, r.Name, r.Origin, r.Destination, r.Active, r.CreatedAt, r.UpdatedAt}
	},
	idOf:  func(r models.Route) int64 { return r.ID },
	order: "code, id",
}

var agencyTable = table[models.Agency]{
	name:     "agencies",
	resource: "agency",
	columns:  []string{"name", "document", "contact", "phone", "commission_percent", "active", "created_at", "updated_at"},
	selects:  []string{"id", "name", "document", "contact", "phone", "commission_percent", "active", "created_at", "updated_at"},
	scan: func(s scanner) (models.Agency, error) {
		var a models.Agency
		err := s.Scan(&a.ID, &a.Name, &a.Document, &a.Contact, &a.Phone, &a.CommissionPercent, &a.Active, &a.CreatedAt, &a.UpdatedAt)
		return a, err
	},
	values: func(a models.Agency) []any {
		return []any{a.Name, a.Document, a.Contact, a.Phone, a.CommissionPercent, a.Active, a.CreatedAt, a.UpdatedAt}
	},
	idOf:  func(a models.Agency) int64 { return a.ID },
	order: "name, id",
}

var clientTable = table[models.Client]{
	name:     "clients",
	resource: "client",
	columns:  []string{"name", "document", "phone", "email", "active", "created_at", "updated_at"},
	selects:  []string{"id", "name", "document", "phone", "email", "active", "created_at", "updated_at"},
	scan: func(s scanner) (models.Client, error) {
		var c models.Client
		err := s.Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.Email, &c.Active, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	},
	values: func(c models.Client) []any {
		return []any{c.Name, c.Document, c.Phone, c.Email, c.Active, c.CreatedAt, c.UpdatedAt}
	},
	idOf:  func(c models.Client) int64 { return c.ID },
	order: "name, id",
}

var supplierTable = table[models.Supplier]{
	name:     "suppliers",
	resource: "supplier",
	columns:  []string{"name", "document", "category", "phone", "active", "created_at", "updated_at"},
	selects:  []string{"id", "name", "document", "category", "phone", "active", "created_at", "updated_at"},
	scan: func(s scanner) (models.Supplier, error) {
		var p models.Supplier
		err := s.Scan(&p.ID, &p.Name, &p.Document, &p.Category, &p.Phone, &p.Active, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	},
	values: func(p models.Supplier) []any {
		return []any{p.Name, p.Document, p.Category, p.Phone, p.Active, p.CreatedAt, p.UpdatedAt}
	},
	idOf:  func(p models.Supplier) int64 { return p.ID },
	order: "name, id",
}

// Registry gives CRUD over one registry table. Deletes are soft: the row
// stays so historical records keep resolving.
type Registry[T any] struct {
	DB    intdb.DBTX
	table table[T]
}

func (r Registry[T]) db() intdb.DBTX { return conn(r.DB) }

func (r Registry[T]) Get(ctx context.Context, id int64) (T, error) {
	return r.table.get(ctx, r.db(), id)
}

// List returns active rows, or every row when includeInactive is set.
func (r Registry[T]) List(ctx context.Context, includeInactive bool) ([]T, error) {
	var w where
	if !includeInactive {
		w.add("active = ?", true)
	}
	return r.table.list(ctx, r.db(), w)
}

func (r Registry[T]) Create(ctx context.Context, v T) (int64, error) {
	return r.table.insert(ctx, r.db(), v)
}

func (r Registry[T]) Update(ctx context.Context, id int64, v T) error {
	return r.table.update(ctx, r.db(), id, v)
}

// SetActive flips the soft-delete flag.
func (r Registry[T]) SetActive(ctx context.Context, id int64, active bool, updatedAt string) error {
	res, err := r.db().ExecContext(ctx, "UPDATE "+r.table.name+" SET active = ?, updated_at = ? WHERE id = ?", active, updatedAt, id)
	if err != nil {
		return err
	}
	return r.table.requireRow(ctx, r.db(), res, id)
}

func NewDriverRepository(db intdb.DBTX) Registry[models.Driver] {
	return Registry[models.Driver]{DB: db, table: driverTable}
}

func NewVehicleRepository(db intdb.DBTX) Registry[models.Vehicle] {
	return Registry[models.Vehicle]{DB: db, table: vehicleTable}
}

func NewRouteRepository(db intdb.DBTX) Registry[models.Route] {
	return Registry[models.Route]{DB: db, table: routeTable}
}

func NewAgencyRepository(db intdb.DBTX) Registry[models.Agency] {
	return Registry[models.Agency]{DB: db, table: agencyTable}
}

func NewClientRepository(db intdb.DBTX) Registry[models.Client] {
	return Registry[models.Client]{DB: db, table: clientTable}
}

func NewSupplierRepository(db intdb.DBTX) Registry[models.Supplier] {
	return Registry[models.Supplier]{DB: db, table: supplierTable}
}
