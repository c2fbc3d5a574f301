package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound2HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "10.13", Round2(dec("10.125")).StringFixed(2))
	assert.Equal(t, "-10.13", Round2(dec("-10.125")).StringFixed(2))
	assert.Equal(t, "10.12", Round2(dec("10.124")).StringFixed(2))
}

func TestCommission(t *testing.T) {
	commission, net := Commission(dec("1234.56"), dec("12.5"))
	assert.Equal(t, "154.32", commission.StringFixed(2))
	assert.Equal(t, "1080.24", net.StringFixed(2))

	commission, net = Commission(dec("100"), decimal.Zero)
	assert.True(t, commission.IsZero())
	assert.Equal(t, "100.00", net.StringFixed(2))
}

func TestFuelTotal(t *testing.T) {
	assert.Equal(t, "631.57", FuelTotal(dec("105.35"), dec("5.995")).StringFixed(2))
}

func TestDaysInclusive(t *testing.T) {
	days, err := DaysInclusive("2025-03-01", "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	days, err = DaysInclusive("2025-03-01", "")
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	days, err = DaysInclusive("2025-03-05", "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 1, days)

	_, err = DaysInclusive("03/01/2025", "")
	assert.Error(t, err)
}

func TestTourismQuote(t *testing.T) {
	q, err := TourismQuote(QuoteParams{
		DepartureDate:   "2025-07-10",
		ReturnDate:      "2025-07-12",
		DistanceKm:      dec("850"),
		PricePerKm:      dec("4.20"),
		DailyRate:       dec("300"),
		Tolls:           dec("180.40"),
		DriverAllowance: dec("120"),
		MarginPercent:   dec("15"),
	})
	require.NoError(t, err)

	// 3570 + 900 + 180.40 + 360 = 5010.40; +15% = 5761.96
	assert.Equal(t, 3, q.Days)
	assert.Equal(t, "5010.40", q.Base.StringFixed(2))
	assert.Equal(t, "751.56", q.Margin.StringFixed(2))
	assert.Equal(t, "5761.96", q.Total.StringFixed(2))
}

func TestTourismQuoteRejectsBadDate(t *testing.T) {
	_, err := TourismQuote(QuoteParams{DepartureDate: "tomorrow"})
	assert.Error(t, err)
}
