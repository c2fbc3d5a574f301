// Package finance holds the business formulas: agency commission, fuel totals,
// tourism quotes, the daily closing aggregation and the driver ledger.
// Nothing here touches storage.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Round2 rounds money to cents, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Commission returns the agency commission and the net amount for a gross sale.
func Commission(gross, percent decimal.Decimal) (commission, net decimal.Decimal) {
	commission = Round2(gross.Mul(percent).Div(hundred))
	return commission, gross.Sub(commission)
}

// FuelTotal prices a fueling.
func FuelTotal(liters, pricePerLiter decimal.Decimal) decimal.Decimal {
	return Round2(liters.Mul(pricePerLiter))
}

// QuoteParams are the inputs of a tourism charter quote.
type QuoteParams struct {
	DepartureDate   string
	ReturnDate      string
	DistanceKm      decimal.Decimal
	PricePerKm      decimal.Decimal
	DailyRate       decimal.Decimal
	Tolls           decimal.Decimal
	DriverAllowance decimal.Decimal
	MarginPercent   decimal.Decimal
}

// Quote is the breakdown of a charter price.
type Quote struct {
	Days      int             `json:"days"`
	Mileage   decimal.Decimal `json:"mileage"`
	Daily     decimal.Decimal `json:"daily"`
	Tolls     decimal.Decimal `json:"tolls"`
	Allowance decimal.Decimal `json:"allowance"`
	Base      decimal.Decimal `json:"base"`
	Margin    decimal.Decimal `json:"margin"`
	Total     decimal.Decimal `json:"total"`
}

// TourismQuote prices a charter: mileage + daily rate and driver allowance per
// day + tolls, marked up by the margin percent.
func TourismQuote(p QuoteParams) (Quote, error) {
	days, err := DaysInclusive(p.DepartureDate, p.ReturnDate)
	if err != nil {
		return Quote{}, err
	}
	d := decimal.NewFromInt(int64(days))
	q := Quote{
		Days:      days,
		Mileage:   p.DistanceKm.Mul(p.PricePerKm),
		Daily:     p.DailyRate.Mul(d),
		Tolls:     p.Tolls,
		Allowance: p.DriverAllowance.Mul(d),
	}
	q.Base = q.Mileage.Add(q.Daily).Add(q.Tolls).Add(q.Allowance)
	q.Margin = q.Base.Mul(p.MarginPercent).Div(hundred)
	q.Total = Round2(q.Base.Add(q.Margin))
	q.Base = Round2(q.Base)
	q.Margin = Round2(q.Margin)
	return q, nil
}

// DaysInclusive counts calendar days from start to end, both included. An empty
// end means a one-day trip; the result is never below one.
func DaysInclusive(start, end string) (int, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return 0, err
	}
	if end == "" {
		return 1, nil
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return 0, err
	}
	days := int(e.Sub(s).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days, nil
}
