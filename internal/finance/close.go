package finance

import (
	"fleetfin/internal/domain/models"

	"github.com/shopspring/decimal"
)

// CloseInputs are the dated records that feed one day's close. Callers filter
// by date; ComputeClose trusts them and only applies status/payment filters.
type CloseInputs struct {
	Date        string
	RouteCash   []models.RouteCash
	AgencyCash  []models.AgencyCash
	Tourism     []models.TourismService
	Fuel        []models.FuelEntry
	Expenses    []models.GeneralExpense
	CountedCash *decimal.Decimal
}

// ComputeClose aggregates a day. Agency rows contribute with the commission
// stored on the row, never with the agency's current rate. Electronic route
// revenue counts as revenue but not as till cash, and only fuel and expenses
// paid in cash leave the till.
func ComputeClose(in CloseInputs) models.CloseSummary {
	s := models.CloseSummary{
		Date:             in.Date,
		RouteCash:        decimal.Zero,
		RouteElectronic:  decimal.Zero,
		AgencyGross:      decimal.Zero,
		AgencyCommission: decimal.Zero,
		TourismReceived:  decimal.Zero,
		FuelTotal:        decimal.Zero,
		FuelCash:         decimal.Zero,
		ExpenseTotal:     decimal.Zero,
		ExpenseCash:      decimal.Zero,
		Difference:       decimal.Zero,
	}

	for _, r := range in.RouteCash {
		s.RouteEntries++
		s.RoutePassengers += r.Passengers
		s.RouteCash = s.RouteCash.Add(r.CashAmount)
		s.RouteElectronic = s.RouteElectronic.Add(r.ElectronicAmount)
	}
	s.RouteTotal = s.RouteCash.Add(s.RouteElectronic)

	for _, a := range in.AgencyCash {
		s.AgencyEntries++
		s.AgencyGross = s.AgencyGross.Add(a.GrossAmount)
		s.AgencyCommission = s.AgencyCommission.Add(a.CommissionAmount)
	}
	s.AgencyNet = s.AgencyGross.Sub(s.AgencyCommission)

	for _, t := range in.Tourism {
		if t.Status == models.TourismCancelled || t.ReceivedDate != in.Date {
			continue
		}
		s.TourismEntries++
		s.TourismReceived = s.TourismReceived.Add(t.ReceivedAmount)
	}

	for _, f := range in.Fuel {
		s.FuelEntries++
		s.FuelTotal = s.FuelTotal.Add(f.TotalAmount)
		if f.PaymentMethod == models.PaymentCash {
			s.FuelCash = s.FuelCash.Add(f.TotalAmount)
		}
	}

	for _, e := range in.Expenses {
		s.ExpenseEntries++
		s.ExpenseTotal = s.ExpenseTotal.Add(e.Amount)
		if e.PaymentMethod == models.PaymentCash {
			s.ExpenseCash = s.ExpenseCash.Add(e.Amount)
		}
	}

	s.RevenueTotal = s.RouteTotal.Add(s.AgencyNet).Add(s.TourismReceived)
	s.CashOutflow = s.FuelCash.Add(s.ExpenseCash)
	s.ExpectedCash = s.RouteCash.Add(s.AgencyNet).Add(s.TourismReceived).Sub(s.CashOutflow)

	if in.CountedCash != nil {
		counted := Round2(*in.CountedCash)
		s.CountedCash = &counted
		s.Difference = counted.Sub(s.ExpectedCash)
	}
	return s
}

// SumPeriod totals a list of stored closes.
func SumPeriod(start, end string, days []models.DailyClose) models.PeriodReport {
	r := models.PeriodReport{
		Start:        start,
		End:          end,
		Days:         days,
		RouteTotal:   decimal.Zero,
		AgencyNet:    decimal.Zero,
		Tourism:      decimal.Zero,
		FuelTotal:    decimal.Zero,
		ExpenseTotal: decimal.Zero,
		RevenueTotal: decimal.Zero,
		Difference:   decimal.Zero,
	}
	if r.Days == nil {
		r.Days = []models.DailyClose{}
	}
	for _, d := range days {
		if d.IsClosed() {
			r.ClosedDays++
		}
		r.RouteTotal = r.RouteTotal.Add(d.RouteTotal)
		r.AgencyNet = r.AgencyNet.Add(d.AgencyNet)
		r.Tourism = r.Tourism.Add(d.TourismReceived)
		r.FuelTotal = r.FuelTotal.Add(d.FuelTotal)
		r.ExpenseTotal = r.ExpenseTotal.Add(d.ExpenseTotal)
		r.RevenueTotal = r.RevenueTotal.Add(d.RevenueTotal)
		r.Difference = r.Difference.Add(d.Difference)
	}
	return r
}
