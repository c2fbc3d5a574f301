package models

import "github.com/shopspring/decimal"

// Decimal is the money/percentage type used by every financial record.
type Decimal = decimal.Decimal
