package repositories

import (
	"context"
	"fmt"

	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain/models"
)

// backupTables lists every data table in restore order; deletes run in reverse.
var backupTables = []string{
	"users", "drivers", "vehicles", "routes", "agencies", "clients", "suppliers",
	"route_cash", "agency_cash", "fuel_entries", "general_expenses", "payables",
	"tourism_services", "driver_ledger", "daily_closes", "audit_logs",
}

// BackupRepository reads and replaces the whole dataset.
type BackupRepository struct {
	DB intdb.DBTX
}

func (r BackupRepository) db() intdb.DBTX { return conn(r.DB) }

// Dump reads every table. Run it inside a transaction for a consistent snapshot.
func (r BackupRepository) Dump(ctx context.Context) (models.BackupData, error) {
	db := r.db()
	var (
		out models.BackupData
		err error
	)
	users, err := userTable.list(ctx, db, where{})
	if err != nil {
		return out, fmt.Errorf("dump users: %w", err)
	}
	out.Users = make([]models.BackupUser, 0, len(users))
	for _, u := range users {
		out.Users = append(out.Users, models.BackupUser{User: u, PasswordHash: u.PasswordHash})
	}
	if out.Drivers, err = driverTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump drivers: %w", err)
	}
	if out.Vehicles, err = vehicleTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump vehicles: %w", err)
	}
	if out.Routes, err = routeTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump routes: %w", err)
	}
	if out.Agencies, err = agencyTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump agencies: %w", err)
	}
	if out.Clients, err = clientTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump clients: %w", err)
	}
	if out.Suppliers, err = supplierTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump suppliers: %w", err)
	}
	if out.RouteCash, err = routeCashTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump route_cash: %w", err)
	}
	if out.AgencyCash, err = agencyCashTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump agency_cash: %w", err)
	}
	if out.FuelEntries, err = fuelTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump fuel_entries: %w", err)
	}
	if out.Expenses, err = expenseTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump general_expenses: %w", err)
	}
	if out.Payables, err = payableTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump payables: %w", err)
	}
	if out.Tourism, err = tourismTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump tourism_services: %w", err)
	}
	if out.DriverLedger, err = ledgerTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump driver_ledger: %w", err)
	}
	if out.DailyCloses, err = dailyCloseTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump daily_closes: %w", err)
	}
	if out.AuditLogs, err = auditTable.list(ctx, db, where{}); err != nil {
		return out, fmt.Errorf("dump audit_logs: %w", err)
	}
	return out, nil
}

// Replace empties every table and inserts data keeping the original ids.
// Callers must pass a transaction in DB.
func (r BackupRepository) Replace(ctx context.Context, data models.BackupData) error {
	db := r.db()
	for i := len(backupTables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+backupTables[i]); err != nil {
			return fmt.Errorf("clear %s: %w", backupTables[i], err)
		}
	}

	for _, u := range data.Users {
		user := u.User
		user.PasswordHash = u.PasswordHash
		if err := userTable.insertWithID(ctx, db, user); err != nil {
			return fmt.Errorf("restore users: %w", err)
		}
	}
	steps := []struct {
		name string
		fn   func() error
	}{
		{"drivers", func() error { return insertAll(ctx, db, driverTable, data.Drivers) }},
		{"vehicles", func() error { return insertAll(ctx, db, vehicleTable, data.Vehicles) }},
		{"routes", func() error { return insertAll(ctx, db, routeTable, data.Routes) }},
		{"agencies", func() error { return insertAll(ctx, db, agencyTable, data.Agencies) }},
		{"clients", func() error { return insertAll(ctx, db, clientTable, data.Clients) }},
		{"suppliers", func() error { return insertAll(ctx, db, supplierTable, data.Suppliers) }},
		{"route_cash", func() error { return insertAll(ctx, db, routeCashTable, data.RouteCash) }},
		{"agency_cash", func() error { return insertAll(ctx, db, agencyCashTable, data.AgencyCash) }},
		{"fuel_entries", func() error { return insertAll(ctx, db, fuelTable, data.FuelEntries) }},
		{"general_expenses", func() error { return insertAll(ctx, db, expenseTable, data.Expenses) }},
		{"payables", func() error { return insertAll(ctx, db, payableTable, data.Payables) }},
		{"tourism_services", func() error { return insertAll(ctx, db, tourismTable, data.Tourism) }},
		{"driver_ledger", func() error { return insertAll(ctx, db, ledgerTable, data.DriverLedger) }},
		{"daily_closes", func() error { return insertAll(ctx, db, dailyCloseTable, data.DailyCloses) }},
		{"audit_logs", func() error { return insertAll(ctx, db, auditTable, data.AuditLogs) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("restore %s: %w", s.name, err)
		}
	}
	return nil
}

func insertAll[T any](ctx context.Context, db intdb.DBTX, t table[T], rows []T) error {
	for _, v := range rows {
		if err := t.insertWithID(ctx, db, v); err != nil {
			return err
		}
	}
	return nil
}
