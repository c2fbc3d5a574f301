package models

const (
	TourismQuote     = "quote"
	TourismConfirmed = "confirmed"
	TourismDone      = "done"
	TourismCancelled = "cancelled"
)

// TourismService is a chartered trip. QuotedAmount is recomputed on every save.
type TourismService struct {
	ID              int64   `json:"id"`
	ClientID        int64   `json:"clientId"`
	VehicleID       int64   `json:"vehicleId,omitempty"`
	DriverID        int64   `json:"driverId,omitempty"`
	Description     string  `json:"description"`
	DepartureDate   string  `json:"departureDate"`
	ReturnDate      string  `json:"returnDate"`
	DistanceKm      Decimal `json:"distanceKm"`
	PricePerKm      Decimal `json:"pricePerKm"`
	DailyRate       Decimal `json:"dailyRate"`
	Tolls           Decimal `json:"tolls"`
	DriverAllowance Decimal `json:"driverAllowance"`
	MarginPercent   Decimal `json:"marginPercent"`
	QuotedAmount    Decimal `json:"quotedAmount"`
	ReceivedAmount  Decimal `json:"receivedAmount"`
	ReceivedDate    string  `json:"receivedDate,omitempty"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}
