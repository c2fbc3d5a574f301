package models

const (
	LedgerCredit = "credit"
	LedgerDebit  = "debit"
)

// DriverLedgerEntry moves a driver's running balance. Amount is always positive;
// Kind gives the sign.
type DriverLedgerEntry struct {
	ID          int64   `json:"id"`
	DriverID    int64   `json:"driverId"`
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Amount      Decimal `json:"amount"`
	CreatedAt   string  `json:"createdAt"`
}

// Signed returns the entry amount with the sign of its kind.
func (e DriverLedgerEntry) Signed() Decimal {
	if e.Kind == LedgerDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

type LedgerLine struct {
	DriverLedgerEntry
	Balance Decimal `json:"balance"`
}

type LedgerStatement struct {
	DriverID   int64        `json:"driverId"`
	DriverName string       `json:"driverName"`
	Lines      []LedgerLine `json:"lines"`
	Credits    Decimal      `json:"credits"`
	Debits     Decimal      `json:"debits"`
	Balance    Decimal      `json:"balance"`
}

type DriverBalance struct {
	DriverID   int64   `json:"driverId"`
	DriverName string  `json:"driverName"`
	Balance    Decimal `json:"balance"`
}
