package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoneyBRL(t *testing.T) {
	SetCurrency("BRL")
	assert.Equal(t, "R$1.234,56", FormatMoney(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$0,00", FormatMoney(decimal.Zero))
}

func TestSetCurrencyIgnoresUnknownCodes(t *testing.T) {
	SetCurrency("BRL")
	SetCurrency("XXX-not-a-currency")
	assert.Equal(t, "BRL", Currency())

	SetCurrency("usd")
	t.Cleanup(func() { SetCurrency(DefaultCurrency) })
	assert.Equal(t, "USD", Currency())
	assert.Equal(t, "$10.50", FormatMoney(decimal.RequireFromString("10.5")))
}

func TestParseMoney(t *testing.T) {
	cases := map[string]string{
		"1234.56":     "1234.56",
		"1.234,56":    "1234.56",
		"R$ 1.234,56": "1234.56",
		"  15,5 ":     "15.5",
	}
	for in, want := range cases {
		got, err := ParseMoney(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}

	_, err := ParseMoney("R$")
	assert.Error(t, err)
}
