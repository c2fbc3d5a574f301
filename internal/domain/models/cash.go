package models

// RouteCash is the money a bus brought back from one route on one day.
type RouteCash struct {
	ID               int64   `json:"id"`
	Date             string  `json:"date"`
	RouteID          int64   `json:"routeId"`
	VehicleID        int64   `json:"vehicleId"`
	DriverID         int64   `json:"driverId"`
	Passengers       int     `json:"passengers"`
	CashAmount       Decimal `json:"cashAmount"`
	ElectronicAmount Decimal `json:"electronicAmount"`
	Notes            string  `json:"notes"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// Total is cash plus electronic revenue.
func (r RouteCash) Total() Decimal {
	return r.CashAmount.Add(r.ElectronicAmount)
}

// AgencyCash is an agency's daily settlement. CommissionPercent is frozen at save time.
type AgencyCash struct {
	ID                int64   `json:"id"`
	Date              string  `json:"date"`
	AgencyID          int64   `json:"agencyId"`
	GrossAmount       Decimal `json:"grossAmount"`
	CommissionPercent Decimal `json:"commissionPercent"`
	CommissionAmount  Decimal `json:"commissionAmount"`
	NetAmount         Decimal `json:"netAmount"`
	Notes             string  `json:"notes"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}
