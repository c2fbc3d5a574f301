package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetfin/internal/domain"
	"fleetfin/internal/domain/models"
	"fleetfin/internal/finance"
	"fleetfin/internal/repositories"
	"fleetfin/internal/services"
	"fleetfin/internal/testutil"
)

func TestRouteCash_ValidatesReferences(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	cash := services.CashService{DB: e.db}

	_, err := cash.CreateRouteCash(e.ctx, admin, models.RouteCash{Date: day, RouteID: 999, VehicleID: e.fx.VehicleID, DriverID: e.fx.DriverID})
	assert.True(t, domain.IsValidation(err))

	_, err = services.NewDriverService(e.db).SetActive(e.ctx, admin, e.fx.Driver2ID, false)
	require.NoError(t, err)
	_, err = cash.CreateRouteCash(e.ctx, admin, models.RouteCash{Date: day, RouteID: e.fx.RouteID, VehicleID: e.fx.VehicleID, DriverID: e.fx.Driver2ID})
	assert.True(t, domain.IsValidation(err), "inactive driver")

	_, err = cash.CreateRouteCash(e.ctx, admin, models.RouteCash{Date: day, RouteID: e.fx.RouteID, VehicleID: e.fx.VehicleID, DriverID: e.fx.DriverID, CashAmount: dec("-1")})
	assert.True(t, domain.IsValidation(err))

	rc, err := cash.CreateRouteCash(e.ctx, admin, models.RouteCash{
		Date: day, RouteID: e.fx.RouteID, VehicleID: e.fx.VehicleID, DriverID: e.fx.DriverID, CashAmount: dec("10.005"),
	})
	require.NoError(t, err)
	assert.Equal(t, "10.01", rc.CashAmount.StringFixed(2))

	list, err := cash.ListRouteCash(e.ctx, repositories.CashFilter{Range: domain.DateRange{Start: day, End: day}})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRouteCash_MoveToClosedDayRejected(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	cash := services.CashService{DB: e.db}

	rc, err := cash.CreateRouteCash(e.ctx, admin, models.RouteCash{Date: day, RouteID: e.fx.RouteID, VehicleID: e.fx.VehicleID, DriverID: e.fx.DriverID, CashAmount: dec("5")})
	require.NoError(t, err)
	_, err = services.ClosingService{DB: e.db}.Close(e.ctx, admin, "2024-03-11", nil, "")
	require.NoError(t, err)

	rc.Date = "2024-03-11"
	_, err = cash.UpdateRouteCash(e.ctx, admin, rc.ID, rc)
	assert.True(t, domain.IsDayClosed(err))

	require.NoError(t, cash.DeleteRouteCash(e.ctx, admin, rc.ID))
	_, err = cash.GetRouteCash(e.ctx, rc.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestFuel_TotalAndVehicleReport(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	fuel := services.FuelService{DB: e.db}

	_, err := fuel.Create(e.ctx, admin, models.FuelEntry{Date: "2024-03-01", VehicleID: e.fx.VehicleID, Liters: dec("100"), PricePerLiter: dec("5.899"), Odometer: 10000})
	require.NoError(t, err)
	f2, err := fuel.Create(e.ctx, admin, models.FuelEntry{Date: "2024-03-05", VehicleID: e.fx.VehicleID, Liters: dec("100"), PricePerLiter: dec("6"), Odometer: 10800, PaymentMethod: models.PaymentCard})
	require.NoError(t, err)
	assert.Equal(t, "600.00", f2.TotalAmount.StringFixed(2))

	_, err = fuel.Create(e.ctx, admin, models.FuelEntry{Date: day, VehicleID: e.fx.VehicleID, Liters: dec("1"), PaymentMethod: "pix"})
	assert.True(t, domain.IsValidation(err))

	rep, err := fuel.VehicleReport(e.ctx, e.fx.VehicleID, domain.DateRange{Start: "2024-03-01", End: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Entries)
	assert.Equal(t, "B01", rep.VehicleCode)
	assert.Equal(t, int64(800), rep.DistanceKm)
	assert.Equal(t, "1189.90", rep.TotalAmount.StringFixed(2))
	require.NotNil(t, rep.KmPerLiter)
	assert.Equal(t, "4.00", rep.KmPerLiter.StringFixed(2))
}

func TestPayable_PayBooksExpenseOnce(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	svc := services.PayableService{DB: e.db}

	p, err := svc.Create(e.ctx, admin, models.Payable{SupplierID: e.fx.SupplierID, Description: "tires", DueDate: "2024-03-01", Amount: dec("450")})
	require.NoError(t, err)
	assert.True(t, p.Overdue)

	overdue, err := svc.List(e.ctx, repositories.PayableFilter{}, true)
	require.NoError(t, err)
	assert.Len(t, overdue, 1)

	paid, err := svc.Pay(e.ctx, admin, p.ID, day, models.PaymentTransfer)
	require.NoError(t, err)
	assert.Equal(t, models.PayablePaid, paid.Status)
	assert.Equal(t, day, paid.PaidDate)
	require.NotZero(t, paid.ExpenseID)

	exp, err := services.ExpenseService{DB: e.db}.Get(e.ctx, paid.ExpenseID)
	require.NoError(t, err)
	assert.Equal(t, services.PayableCategory, exp.Category)
	assert.Equal(t, "450.00", exp.Amount.StringFixed(2))
	assert.Equal(t, p.ID, exp.PayableID)

	_, err = svc.Pay(e.ctx, admin, p.ID, day, models.PaymentCash)
	assert.True(t, domain.IsConflict(err))

	err = services.ExpenseService{DB: e.db}.Delete(e.ctx, admin, exp.ID)
	assert.True(t, domain.IsConflict(err))

	_, err = svc.Cancel(e.ctx, admin, p.ID)
	assert.True(t, domain.IsConflict(err))

	overdue, err = svc.List(e.ctx, repositories.PayableFilter{}, true)
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestPayable_PayOnClosedDayRollsBack(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	svc := services.PayableService{DB: e.db}

	p, err := svc.Create(e.ctx, admin, models.Payable{SupplierID: e.fx.SupplierID, Description: "oil", DueDate: "2024-03-20", Amount: dec("80")})
	require.NoError(t, err)
	assert.False(t, p.Overdue)
	_, err = services.ClosingService{DB: e.db}.Close(e.ctx, admin, day, nil, "")
	require.NoError(t, err)

	_, err = svc.Pay(e.ctx, admin, p.ID, day, "")
	assert.True(t, domain.IsDayClosed(err))

	got, err := svc.Get(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayableOpen, got.Status)
	expenses, err := services.ExpenseService{DB: e.db}.List(e.ctx, repositories.ExpenseFilter{})
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func tourismInput(clientID int64) models.TourismService {
	return models.TourismService{
		ClientID:        clientID,
		Description:     "school trip",
		DepartureDate:   "2024-03-10",
		ReturnDate:      "2024-03-11",
		DistanceKm:      dec("100"),
		PricePerKm:      dec("3"),
		DailyRate:       dec("200"),
		Tolls:           dec("50"),
		DriverAllowance: dec("100"),
		MarginPercent:   dec("10"),
	}
}

func TestTourism_QuoteStatusAndReceive(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	svc := services.TourismService{DB: e.db}

	q, err := svc.Quote(finance.QuoteParams{DepartureDate: "2024-03-11", ReturnDate: "2024-03-10"})
	assert.True(t, domain.IsValidation(err), "return before departure")
	assert.True(t, q.Total.IsZero())

	ts, err := svc.Create(e.ctx, admin, tourismInput(e.fx.ClientID))
	require.NoError(t, err)
	assert.Equal(t, models.TourismQuote, ts.Status)
	assert.Equal(t, "1045.00", ts.QuotedAmount.StringFixed(2))

	_, err = svc.SetStatus(e.ctx, admin, ts.ID, models.TourismDone)
	assert.True(t, domain.IsConflict(err), "quote cannot jump to done")

	_, err = svc.SetStatus(e.ctx, admin, ts.ID, models.TourismConfirmed)
	require.NoError(t, err)

	got, err := svc.Receive(e.ctx, admin, ts.ID, dec("500"), "2024-03-12")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-12", got.ReceivedDate)

	got, err = svc.Receive(e.ctx, admin, ts.ID, dec("1045"), "2024-03-13")
	require.NoError(t, err)
	assert.Equal(t, "1045.00", got.ReceivedAmount.StringFixed(2))

	sum, err := services.ClosingService{DB: e.db}.Preview(e.ctx, "2024-03-13", nil)
	require.NoError(t, err)
	assert.Equal(t, "1045.00", sum.TourismReceived.StringFixed(2))
	old, err := services.ClosingService{DB: e.db}.Preview(e.ctx, "2024-03-12", nil)
	require.NoError(t, err)
	assert.True(t, old.TourismReceived.IsZero())

	_, err = services.ClosingService{DB: e.db}.Close(e.ctx, admin, "2024-03-13", nil, "")
	require.NoError(t, err)
	_, err = svc.SetStatus(e.ctx, admin, ts.ID, models.TourismCancelled)
	assert.True(t, domain.IsDayClosed(err))

	_, err = svc.SetStatus(e.ctx, admin, ts.ID, models.TourismDone)
	require.NoError(t, err)
	ts.Description = "changed"
	_, err = svc.Update(e.ctx, admin, ts.ID, ts)
	assert.True(t, domain.IsConflict(err))
}

func TestTourism_InactiveClientRejected(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	_, err := services.NewClientService(e.db).SetActive(e.ctx, admin, e.fx.ClientID, false)
	require.NoError(t, err)

	_, err = services.TourismService{DB: e.db}.Create(e.ctx, admin, tourismInput(e.fx.ClientID))
	assert.True(t, domain.IsValidation(err))
}

func TestLedger_StatementWithOpeningBalance(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	svc := services.LedgerService{DB: e.db}

	add := func(date, kind, amount string) {
		t.Helper()
		_, err := svc.Add(e.ctx, admin, models.DriverLedgerEntry{DriverID: e.fx.DriverID, Date: date, Kind: kind, Description: "x", Amount: dec(amount)})
		require.NoError(t, err)
	}
	add("2024-03-01", models.LedgerCredit, "300")
	add("2024-03-02", models.LedgerDebit, "50")
	add("2024-03-10", models.LedgerDebit, "100")
	add("2024-03-11", models.LedgerCredit, "20")

	_, err := svc.Add(e.ctx, admin, models.DriverLedgerEntry{DriverID: e.fx.DriverID, Date: day, Kind: "bonus", Amount: dec("1")})
	assert.True(t, domain.IsValidation(err))

	st, err := svc.Statement(e.ctx, e.fx.DriverID, domain.DateRange{Start: "2024-03-10"})
	require.NoError(t, err)
	require.Len(t, st.Lines, 3)
	assert.Equal(t, "opening balance", st.Lines[0].Description)
	assert.Equal(t, "250.00", st.Lines[0].Balance.StringFixed(2))
	assert.Equal(t, "150.00", st.Lines[1].Balance.StringFixed(2))
	assert.Equal(t, "170.00", st.Balance.StringFixed(2))
	assert.Equal(t, "Carlos Souza", st.DriverName)

	balances, err := svc.Balances(e.ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	for _, b := range balances {
		if b.DriverID == e.fx.DriverID {
			assert.Equal(t, "170.00", b.Balance.StringFixed(2))
		} else {
			assert.True(t, b.Balance.IsZero())
		}
	}
}

func TestRegistry_CreateNormalizesAndAudits(t *testing.T) {
	e := setup(t)
	admin := testutil.Admin()
	svc := services.NewVehicleService(e.db)

	v, err := svc.Create(e.ctx, admin, models.Vehicle{Code: " b02 ", Plate: "abc-1234", Seats: 40})
	require.NoError(t, err)
	assert.Equal(t, "B02", v.Code)
	assert.True(t, v.Active)

	_, err = svc.Create(e.ctx, admin, models.Vehicle{Code: "B02"})
	assert.True(t, domain.IsConflict(err))

	_, err = services.NewAgencyService(e.db).Create(e.ctx, admin, models.Agency{Name: "Over", CommissionPercent: dec("101")})
	assert.True(t, domain.IsValidation(err))

	off, err := svc.SetActive(e.ctx, admin, v.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)

	rows, err := services.AuditService{DB: e.db}.List(e.ctx, models.AuditFilter{Entity: "vehicle", EntityID: v.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.AuditDelete, rows[0].Action)
	assert.NotEmpty(t, rows[0].Before)
}
