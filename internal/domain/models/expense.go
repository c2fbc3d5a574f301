package models

type GeneralExpense struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Amount        Decimal `json:"amount"`
	SupplierID    int64   `json:"supplierId,omitempty"`
	PayableID     int64   `json:"payableId,omitempty"`
	PaymentMethod string  `json:"paymentMethod"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

const (
	PayableOpen      = "open"
	PayablePaid      = "paid"
	PayableCancelled = "cancelled"
)

// Payable is a supplier bill. Paying it books a GeneralExpense on the payment date.
type Payable struct {
	ID          int64   `json:"id"`
	SupplierID  int64   `json:"supplierId"`
	Description string  `json:"description"`
	DueDate     string  `json:"dueDate"`
	Amount      Decimal `json:"amount"`
	Status      string  `json:"status"`
	PaidDate    string  `json:"paidDate,omitempty"`
	ExpenseID   int64   `json:"expenseId,omitempty"`
	Overdue     bool    `json:"overdue"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}
