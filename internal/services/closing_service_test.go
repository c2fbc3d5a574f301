package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/services"
	"fleetfin/internal/testutil"
)

const day = "2024-03-10"

// bookDay records one entry of each kind on day:
// routes 100 cash + 50 electronic, agency 1000 gross at 10%,
// fuel 50 l x 5.00 in cash, expense 30.00 in cash (the default method).
func bookDay(t *testing.T, e env) {
	t.Helper()
	admin := testutil.Admin()
	cash := services.CashService{DB: e.db}
	_, err := cash.CreateRouteCash(e.ctx, admin, models.RouteCash{
		Date: day, RouteID: e.fx.RouteID, VehicleID: e.fx.VehicleID, DriverID: e.fx.DriverID,
		Passengers: 30, CashAmount: dec("100"), ElectronicAmount: dec("50"),
	})
	require.NoError(t, err)
	_, err = cash.CreateAgencyCash(e.ctx, admin, models.AgencyCash{Date: day, AgencyID: e.fx.AgencyID, GrossAmount: dec("1000")})
	require.NoError(t, err)
	_, err = services.FuelService{DB: e.db}.Create(e.ctx, admin, models.FuelEntry{
		Date: day, VehicleID: e.fx.VehicleID, Liters: dec("50"), PricePerLiter: dec("5"), Odometer: 1000,
	})
	require.NoError(t, err)
	_, err = services.ExpenseService{DB: e.db}.Create(e.ctx, admin, models.GeneralExpense{
		Date: day, Category: "cleaning", Description: "wash", Amount: dec("30"),
	})
	require.NoError(t, err)
}

func TestClose_ComputesTotalsAndLocksDay(t *testing.T) {
	e := setup(t)
	bookDay(t, e)
	svc := services.ClosingService{DB: e.db}

	rec, err := svc.Close(e.ctx, testutil.Admin(), day, decPtr("700"), "  ok  ")
	require.NoError(t, err)
	assert.True(t, rec.IsClosed())
	assert.Equal(t, "ok", rec.Notes)
	assert.Equal(t, "150.00", rec.RouteTotal.StringFixed(2))
	assert.Equal(t, "100.00", rec.AgencyCommission.StringFixed(2))
	assert.Equal(t, "900.00", rec.AgencyNet.StringFixed(2))
	assert.Equal(t, "250.00", rec.FuelCash.StringFixed(2))
	assert.Equal(t, "1050.00", rec.RevenueTotal.StringFixed(2))
	assert.Equal(t, "720.00", rec.ExpectedCash.StringFixed(2))
	assert.Equal(t, "-20.00", rec.Difference.StringFixed(2))

	_, err = services.CashService{DB: e.db}.CreateRouteCash(e.ctx, testutil.Admin(), models.RouteCash{
		Date: day, RouteID: e.fx.RouteID, VehicleID: e.fx.VehicleID, DriverID: e.fx.DriverID, CashAmount: dec("1"),
	})
	assert.True(t, domain.IsDayClosed(err), "got %v", err)

	_, err = svc.Close(e.ctx, testutil.Admin(), day, nil, "")
	assert.True(t, domain.IsDayClosed(err))

	stored, err := svc.Get(e.ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "720.00", stored.ExpectedCash.StringFixed(2))

	rows, err := services.AuditService{DB: e.db}.List(e.ctx, models.AuditFilter{Action: models.AuditClose})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "daily_close", rows[0].Entity)
}

func TestClose_CardExpensesStayOutOfTill(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	_, err := services.CashService{DB: e.db}.CreateRouteCash(e.ctx, admin, models.RouteCash{
		Date: day, RouteID: e.fx.RouteID, VehicleID: e.fx.VehicleID, DriverID: e.fx.DriverID, CashAmount: dec("100"),
	})
	require.NoError(t, err)
	_, err = services.ExpenseService{DB: e.db}.Create(e.ctx, admin, models.GeneralExpense{
		Date: day, Category: "tolls", Amount: dec("80"), PaymentMethod: models.PaymentCard,
	})
	require.NoError(t, err)

	payables := services.PayableService{DB: e.db}
	p, err := payables.Create(e.ctx, admin, models.Payable{SupplierID: e.fx.SupplierID, Description: "oil", DueDate: day, Amount: dec("40")})
	require.NoError(t, err)
	_, err = payables.Pay(e.ctx, admin, p.ID, day, models.PaymentCard)
	require.NoError(t, err)

	rec, err := services.ClosingService{DB: e.db}.Close(e.ctx, admin, day, decPtr("100"), "")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ExpenseEntries)
	assert.Equal(t, "120.00", rec.ExpenseTotal.StringFixed(2))
	assert.True(t, rec.ExpenseCash.IsZero())
	assert.True(t, rec.CashOutflow.IsZero())
	assert.Equal(t, "100.00", rec.ExpectedCash.StringFixed(2))
	assert.True(t, rec.Difference.IsZero())

	stored, err := services.ClosingService{DB: e.db}.Get(e.ctx, day)
	require.NoError(t, err)
	assert.True(t, stored.ExpenseCash.IsZero())
	assert.Equal(t, "120.00", stored.ExpenseTotal.StringFixed(2))
}

func TestClose_RejectsFutureAndBadInput(t *testing.T) {
	e := setup(t)
	svc := services.ClosingService{DB: e.db}

	_, err := svc.Close(e.ctx, testutil.Admin(), "2024-03-16", nil, "")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Close(e.ctx, testutil.Admin(), "10/03/2024", nil, "")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Close(e.ctx, testutil.Admin(), day, decPtr("-1"), "")
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Get(e.ctx, day)
	assert.True(t, domain.IsNotFound(err))
}

func TestClose_EmptyDay(t *testing.T) {
	e := setup(t)
	rec, err := services.ClosingService{DB: e.db}.Close(e.ctx, testutil.Admin(), day, nil, "")
	require.NoError(t, err)
	assert.True(t, rec.ExpectedCash.IsZero())
	assert.Nil(t, rec.CountedCash)
	assert.True(t, rec.Difference.IsZero())
}

func TestClose_CommissionSnapshotSurvivesRateChange(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	cash := services.CashService{DB: e.db}

	first, err := cash.CreateAgencyCash(e.ctx, admin, models.AgencyCash{Date: day, AgencyID: e.fx.AgencyID, GrossAmount: dec("1000")})
	require.NoError(t, err)
	assert.Equal(t, "10.00", first.CommissionPercent.StringFixed(2))

	_, err = services.NewAgencyService(e.db).Update(e.ctx, admin, e.fx.AgencyID, models.Agency{Name: "Agencia Sol", CommissionPercent: dec("20")})
	require.NoError(t, err)

	// editing the amount keeps the stored rate
	first.GrossAmount = dec("2000")
	edited, err := cash.UpdateAgencyCash(e.ctx, admin, first.ID, first)
	require.NoError(t, err)
	assert.Equal(t, "10.00", edited.CommissionPercent.StringFixed(2))
	assert.Equal(t, "200.00", edited.CommissionAmount.StringFixed(2))

	second, err := cash.CreateAgencyCash(e.ctx, admin, models.AgencyCash{Date: day, AgencyID: e.fx.AgencyID, GrossAmount: dec("100")})
	require.NoError(t, err)
	assert.Equal(t, "20.00", second.CommissionAmount.StringFixed(2))

	sum, err := services.ClosingService{DB: e.db}.Preview(e.ctx, day, nil)
	require.NoError(t, err)
	assert.Equal(t, "220.00", sum.AgencyCommission.StringFixed(2))
	assert.Equal(t, "1880.00", sum.AgencyNet.StringFixed(2))
}

func TestReopen_ThenCloseRecomputes(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	svc := services.ClosingService{DB: e.db}
	bookDay(t, e)

	_, err := svc.Reopen(e.ctx, admin, day, "typo")
	assert.True(t, domain.IsConflict(err), "reopening an open day")

	_, err = svc.Close(e.ctx, admin, day, nil, "")
	require.NoError(t, err)

	_, err = svc.Reopen(e.ctx, admin, day, "   ")
	assert.True(t, domain.IsValidation(err))

	reopened, err := svc.Reopen(e.ctx, admin, day, "missing receipt")
	require.NoError(t, err)
	assert.False(t, reopened.IsClosed())
	assert.Equal(t, "missing receipt", reopened.ReopenReason)

	_, err = services.CashService{DB: e.db}.CreateRouteCash(e.ctx, admin, models.RouteCash{
		Date: day, RouteID: e.fx.RouteID, VehicleID: e.fx.VehicleID, DriverID: e.fx.DriverID, CashAmount: dec("80"),
	})
	require.NoError(t, err)

	again, err := svc.Close(e.ctx, admin, day, nil, "second close")
	require.NoError(t, err)
	assert.Equal(t, reopened.ID, again.ID)
	assert.Equal(t, "800.00", again.ExpectedCash.StringFixed(2))
	assert.Equal(t, "missing receipt", again.ReopenReason)

	days, err := svc.List(e.ctx, domain.DateRange{Start: "2024-03-01", End: "2024-03-31"})
	require.NoError(t, err)
	assert.Len(t, days, 1)
}

func TestDay_PreviewWhenOpen(t *testing.T) {
	e := setup(t)
	bookDay(t, e)
	svc := services.ClosingService{DB: e.db}

	rec, err := svc.Day(e.ctx, day)
	require.NoError(t, err)
	assert.Equal(t, models.DayOpen, rec.Status)
	assert.Equal(t, "720.00", rec.ExpectedCash.StringFixed(2))
	assert.NoError(t, svc.EnsureOpen(e.ctx, day))
}

func TestPeriod_SumsClosedDays(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	svc := services.ClosingService{DB: e.db}
	bookDay(t, e)
	_, err := svc.Close(e.ctx, admin, day, nil, "")
	require.NoError(t, err)
	_, err = svc.Close(e.ctx, admin, "2024-03-11", nil, "")
	require.NoError(t, err)

	rep, err := svc.Period(e.ctx, domain.DateRange{Start: "2024-03-01", End: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.ClosedDays)
	assert.Equal(t, "1050.00", rep.RevenueTotal.StringFixed(2))

	_, err = svc.Period(e.ctx, domain.DateRange{Start: "2024-03-01"})
	assert.True(t, domain.IsValidation(err))
}
