package models

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentInvoiced = "invoiced"
	PaymentTransfer = "transfer"
)

type FuelEntry struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	VehicleID     int64   `json:"vehicleId"`
	DriverID      int64   `json:"driverId,omitempty"`
	SupplierID    int64   `json:"supplierId,omitempty"`
	Liters        Decimal `json:"liters"`
	PricePerLiter Decimal `json:"pricePerLiter"`
	TotalAmount   Decimal `json:"totalAmount"`
	Odometer      int64   `json:"odometer"`
	PaymentMethod string  `json:"paymentMethod"`
	Notes         string  `json:"notes"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// FuelVehicleReport aggregates a vehicle's fueling over a date range.
type FuelVehicleReport struct {
	VehicleID     int64    `json:"vehicleId"`
	VehicleCode   string   `json:"vehicleCode"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Entries       int      `json:"entries"`
	TotalLiters   Decimal  `json:"totalLiters"`
	TotalAmount   Decimal  `json:"totalAmount"`
	AveragePrice  Decimal  `json:"averagePrice"`
	DistanceKm    int64    `json:"distanceKm"`
	KmPerLiter    *Decimal `json:"kmPerLiter,omitempty"`
	FirstOdometer int64    `json:"firstOdometer"`
	LastOdometer  int64    `json:"lastOdometer"`
}
