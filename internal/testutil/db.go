// Package testutil opens migrated in-memory databases for package tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"

	intconfig "fleetfin/internal/config"
	intdb "fleetfin/internal/db"
	"fleetfin/internal/domain"
)

// OpenDB returns a migrated in-memory SQLite database installed as the shared
// connection. It is closed when the test ends.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	conn, err := intconfig.Open(intconfig.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := intdb.Migrate(context.Background(), conn, intconfig.DriverSQLite, "2024-01-01T00:00:00Z"); err != nil {
		_ = conn.Close()
		t.Fatalf("migrate: %v", err)
	}
	intconfig.UseDB(conn, intconfig.DriverSQLite)
	t.Cleanup(func() {
		intconfig.CloseDB()
	})
	return conn
}

// MustExec runs a statement and returns the inserted id.
func MustExec(t testing.TB, conn *sql.DB, query string, args ...any) int64 {
	t.Helper()
	res, err := conn.ExecContext(context.Background(), query, args...)
	if err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// Fixtures holds the ids created by Seed.
type Fixtures struct {
	DriverID   int64
	Driver2ID  int64
	VehicleID  int64
	RouteID    int64
	AgencyID   int64
	ClientID   int64
	SupplierID int64
}

// Seed inserts one active record in every registry. The agency charges 10%.
func Seed(t testing.TB, conn *sql.DB) Fixtures {
	t.Helper()
	var f Fixtures
	f.DriverID = MustExec(t, conn, `INSERT INTO drivers(name, active) VALUES('Carlos Souza', 1)`)
	f.Driver2ID = MustExec(t, conn, `INSERT INTO drivers(name, active) VALUES('Marta Lima', 1)`)
	f.VehicleID = MustExec(t, conn, `INSERT INTO vehicles(code, plate, seats, active) VALUES('B01', 'ABC1D23', 44, 1)`)
	f.RouteID = MustExec(t, conn, `INSERT INTO routes(code, name, origin, destination, active) VALUES('R1', 'Centro - Praia', 'Centro', 'Praia', 1)`)
	f.AgencyID = MustExec(t, conn, `INSERT INTO agencies(name, commission_percent, active) VALUES('Agencia Sol', 10, 1)`)
	f.ClientID = MustExec(t, conn, `INSERT INTO clients(name, active) VALUES('Escola Alfa', 1)`)
	f.SupplierID = MustExec(t, conn, `INSERT INTO suppliers(name, category, active) VALUES('Posto Norte', 'fuel', 1)`)
	return f
}

// Admin is the actor used by tests that do not care about permissions.
func Admin() domain.Actor {
	return domain.Actor{UserID: 1, Username: "admin", Role: domain.RoleAdmin}
}
