package utils

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when the configuration does not name one.
const DefaultCurrency = "BRL"

var currency = DefaultCurrency

// SetCurrency changes the ISO code used by FormatMoney.
func SetCurrency(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || money.GetCurrency(code) == nil {
		return
	}
	currency = code
}

// Currency returns the configured ISO code.
func Currency() string { return currency }

// FormatMoney renders an amount with the configured currency symbol and separators.
func FormatMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(currency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

// ParseMoney accepts "1234.56", "1.234,56" or "R$ 1.234,56" and returns the amount.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "R$€US ")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("invalid amount")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
