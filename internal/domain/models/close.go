package models

const (
	DayOpen   = "open"
	DayClosed = "closed"
)

// CloseSummary is the result of the closing aggregation for one date.
type CloseSummary struct {
	Date             string   `json:"date"`
	RouteEntries     int      `json:"routeEntries"`
	RoutePassengers  int      `json:"routePassengers"`
	RouteCash        Decimal  `json:"routeCash"`
	RouteElectronic  Decimal  `json:"routeElectronic"`
	RouteTotal       Decimal  `json:"routeTotal"`
	AgencyEntries    int      `json:"agencyEntries"`
	AgencyGross      Decimal  `json:"agencyGross"`
	AgencyCommission Decimal  `json:"agencyCommission"`
	AgencyNet        Decimal  `json:"agencyNet"`
	TourismEntries   int      `json:"tourismEntries"`
	TourismReceived  Decimal  `json:"tourismReceived"`
	FuelEntries      int      `json:"fuelEntries"`
	FuelTotal        Decimal  `json:"fuelTotal"`
	FuelCash         Decimal  `json:"fuelCash"`
	ExpenseEntries   int      `json:"expenseEntries"`
	ExpenseTotal     Decimal  `json:"expenseTotal"`
	ExpenseCash      Decimal  `json:"expenseCash"`
	RevenueTotal     Decimal  `json:"revenueTotal"`
	CashOutflow      Decimal  `json:"cashOutflow"`
	ExpectedCash     Decimal  `json:"expectedCash"`
	CountedCash      *Decimal `json:"countedCash,omitempty"`
	Difference       Decimal  `json:"difference"`
}

// DailyClose is the lock record of a date. While Status is closed every dated
// financial record of that date is read-only.
type DailyClose struct {
	ID int64 `json:"id"`
	CloseSummary
	Status       string `json:"status"`
	Notes        string `json:"notes"`
	ClosedBy     string `json:"closedBy,omitempty"`
	ClosedAt     string `json:"closedAt,omitempty"`
	ReopenedBy   string `json:"reopenedBy,omitempty"`
	ReopenedAt   string `json:"reopenedAt,omitempty"`
	ReopenReason string `json:"reopenReason,omitempty"`
}

func (d DailyClose) IsClosed() bool { return d.Status == DayClosed }

// PeriodReport sums the stored closes of a date range.
type PeriodReport struct {
	Start        string       `json:"start"`
	End          string       `json:"end"`
	Days         []DailyClose `json:"days"`
	ClosedDays   int          `json:"closedDays"`
	RouteTotal   Decimal      `json:"routeTotal"`
	AgencyNet    Decimal      `json:"agencyNet"`
	Tourism      Decimal      `json:"tourism"`
	FuelTotal    Decimal      `json:"fuelTotal"`
	ExpenseTotal Decimal      `json:"expenseTotal"`
	RevenueTotal Decimal      `json:"revenueTotal"`
	Difference   Decimal      `json:"difference"`
}
