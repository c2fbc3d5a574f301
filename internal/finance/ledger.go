package finance

import (
	"sort"

	"fleetfin/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Statement orders a driver's entries by date then id and carries the running balance.
func Statement(driverID int64, driverName string, entries []models.DriverLedgerEntry) models.LedgerStatement {
	sorted := make([]models.DriverLedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].ID < sorted[j].ID
	})

	st := models.LedgerStatement{
		DriverID:   driverID,
		DriverName: driverName,
		Lines:      make([]models.LedgerLine, 0, len(sorted)),
		Credits:    decimal.Zero,
		Debits:     decimal.Zero,
		Balance:    decimal.Zero,
	}
	for _, e := range sorted {
		if e.Kind == models.LedgerDebit {
			st.Debits = st.Debits.Add(e.Amount)
		} else {
			st.Credits = st.Credits.Add(e.Amount)
		}
		st.Balance = st.Balance.Add(e.Signed())
		st.Lines = append(st.Lines, models.LedgerLine{DriverLedgerEntry: e, Balance: st.Balance})
	}
	return st
}

// Balance sums signed amounts.
func Balance(entries []models.DriverLedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Signed())
	}
	return total
}
