package repositories_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/repositories"
	"fleetfin/internal/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRegistry_SoftDeleteAndList(t *testing.T) {
	testutil.OpenDB(t)
	ctx := context.Background()
	repo := repositories.NewVehicleRepository(nil)

	id, err := repo.Create(ctx, models.Vehicle{Code: "B10", Plate: "XYZ9A88", Seats: 46, Active: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.Vehicle{Code: "B11", Active: true})
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, id, false, "2024-03-01T10:00:00Z"))

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "B11", active[0].Code)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, 46, got.Seats)
}

func TestRegistry_DuplicateCodeIsConflict(t *testing.T) {
	testutil.OpenDB(t)
	ctx := context.Background()
	repo := repositories.NewRouteRepository(nil)

	_, err := repo.Create(ctx, models.Route{Code: "R9", Name: "A", Active: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.Route{Code: "R9", Name: "B", Active: true})
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
}

func TestRegistry_MissingIsNotFound(t *testing.T) {
	testutil.OpenDB(t)
	ctx := context.Background()
	repo := repositories.NewDriverRepository(nil)

	_, err := repo.Get(ctx, 404)
	assert.True(t, domain.IsNotFound(err))

	err = repo.Update(ctx, 404, models.Driver{Name: "x"})
	assert.True(t, domain.IsNotFound(err))
}

func TestAgencyCash_DecimalRoundTrip(t *testing.T) {
	conn := testutil.OpenDB(t)
	fx := testutil.Seed(t, conn)
	ctx := context.Background()
	repo := repositories.AgencyCashRepository{}

	id, err := repo.Create(ctx, models.AgencyCash{
		Date: "2024-03-01", AgencyID: fx.AgencyID,
		GrossAmount: dec("1234.56"), CommissionPercent: dec("12.5"),
		CommissionAmount: dec("154.32"), NetAmount: dec("1080.24"),
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "1234.56", got.GrossAmount.StringFixed(2))
	assert.Equal(t, "12.500", got.CommissionPercent.StringFixed(3))
	assert.Equal(t, "1080.24", got.NetAmount.StringFixed(2))
	assert.Equal(t, "", got.Notes)
}

func TestFuel_OptionalForeignKeys(t *testing.T) {
	conn := testutil.OpenDB(t)
	fx := testutil.Seed(t, conn)
	ctx := context.Background()
	repo := repositories.FuelRepository{}

	_, err := repo.Create(ctx, models.FuelEntry{Date: "2024-03-01", VehicleID: fx.VehicleID, Liters: dec("100"),
		PricePerLiter: dec("5.99"), TotalAmount: dec("599"), Odometer: 1000, PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.FuelEntry{Date: "2024-03-02", VehicleID: fx.VehicleID, SupplierID: fx.SupplierID,
		Liters: dec("50"), PricePerLiter: dec("6"), TotalAmount: dec("300"), Odometer: 1400, PaymentMethod: models.PaymentInvoiced})
	require.NoError(t, err)

	day1, err := repo.ListByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	require.Len(t, day1, 1)
	assert.Zero(t, day1[0].SupplierID)
	assert.Zero(t, day1[0].DriverID)

	invoiced, err := repo.List(ctx, repositories.FuelFilter{PaymentMethod: models.PaymentInvoiced})
	require.NoError(t, err)
	require.Len(t, invoiced, 1)
	assert.Equal(t, fx.SupplierID, invoiced[0].SupplierID)
}

func TestDailyClose_SaveOverwritesSameDate(t *testing.T) {
	testutil.OpenDB(t)
	ctx := context.Background()
	repo := repositories.DailyCloseRepository{}

	counted := dec("100.00")
	first := models.DailyClose{CloseSummary: models.CloseSummary{Date: "2024-03-01", RouteTotal: dec("50"), CountedCash: &counted}, Status: models.DayClosed}
	id, err := repo.Save(ctx, first)
	require.NoError(t, err)

	closed, err := repo.IsClosed(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, closed)

	second := first
	second.Status = models.DayOpen
	second.CountedCash = nil
	second.ReopenReason = "typo"
	id2, err := repo.Save(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	got, err := repo.GetByDate(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, models.DayOpen, got.Status)
	assert.Nil(t, got.CountedCash)
	assert.Equal(t, "typo", got.ReopenReason)
	assert.Equal(t, "50.00", got.RouteTotal.StringFixed(2))

	closed, err = repo.IsClosed(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.False(t, closed)

	_, err = repo.GetByDate(ctx, "2024-03-02")
	assert.True(t, domain.IsNotFound(err))
}

func TestDailyClose_IsClosedWithMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT status FROM daily_closes WHERE date = \?`).
		WithArgs("2024-03-05").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("closed"))

	closed, err := repositories.DailyCloseRepository{DB: db}.IsClosed(context.Background(), "2024-03-05")
	require.NoError(t, err)
	assert.True(t, closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAudit_FilterAndSnapshots(t *testing.T) {
	testutil.OpenDB(t)
	ctx := context.Background()
	repo := repositories.AuditRepository{}

	_, err := repo.Insert(ctx, models.AuditLog{At: "2024-03-01T09:00:00Z", UserID: 1, Username: "admin",
		Action: models.AuditCreate, Entity: "driver", EntityID: 3, After: json.RawMessage(`{"name":"Ana"}`)})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, models.AuditLog{At: "2024-03-02T09:00:00Z", UserID: 1, Username: "admin",
		Action: models.AuditUpdate, Entity: "driver", EntityID: 3,
		Before: json.RawMessage(`{"name":"Ana"}`), After: json.RawMessage(`{"name":"Ana Paula"}`)})
	require.NoError(t, err)

	all, err := repo.List(ctx, models.AuditFilter{Entity: "driver"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.AuditUpdate, all[0].Action, "newest first")

	day1, err := repo.List(ctx, models.AuditFilter{Start: "2024-03-01", End: "2024-03-01"})
	require.NoError(t, err)
	require.Len(t, day1, 1)
	assert.Nil(t, day1[0].Before)
	assert.JSONEq(t, `{"name":"Ana"}`, string(day1[0].After))

	limited, err := repo.List(ctx, models.AuditFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestBackup_DumpReplace(t *testing.T) {
	conn := testutil.OpenDB(t)
	fx := testutil.Seed(t, conn)
	ctx := context.Background()
	testutil.MustExec(t, conn, `INSERT INTO users(name, username, password_hash, role, active) VALUES('Admin', 'admin', 'hash', 'admin', 1)`)
	testutil.MustExec(t, conn, `INSERT INTO driver_ledger(driver_id, date, kind, description, amount) VALUES(?, '2024-03-01', 'credit', 'advance', 80)`, fx.DriverID)

	data, err := repositories.BackupRepository{}.Dump(ctx)
	require.NoError(t, err)
	require.Len(t, data.Users, 1)
	assert.Equal(t, "hash", data.Users[0].PasswordHash)
	assert.Len(t, data.Drivers, 2)
	assert.Len(t, data.DriverLedger, 1)

	data.Drivers = data.Drivers[:1]
	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repositories.BackupRepository{DB: tx}.Replace(ctx, data))
	require.NoError(t, tx.Commit())

	again, err := repositories.BackupRepository{}.Dump(ctx)
	require.NoError(t, err)
	require.Len(t, again.Drivers, 1)
	assert.Equal(t, data.Drivers[0].ID, again.Drivers[0].ID)
	assert.Equal(t, "hash", again.Users[0].PasswordHash)
	assert.Equal(t, "80.00", again.DriverLedger[0].Amount.StringFixed(2))
}
