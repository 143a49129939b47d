package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type CurrencyType string

const (
	CurrencyBTC CurrencyType = "BTC"
	CurrencyUSD CurrencyType = "USD"
)

// BTCDecimals is the number of fractional digits of a bitcoin amount, one satoshi.
const BTCDecimals = 8

// AmountSpec is an amount exactly as a user typed it.
type AmountSpec struct {
	Currency CurrencyType
	Value    decimal.Decimal
}

func (a AmountSpec) String() string {
	if a.Currency == CurrencyUSD {
		return fmt.Sprintf("$%s", a.Value.StringFixed(2))
	}
	return fmt.Sprintf("%s BTC", a.Value.StringFixed(BTCDecimals))
}

// RoundBTC rounds x to satoshi precision using banker's rounding.
// Every bitcoin quantity in meshbtc is rounded with this function.
func RoundBTC(x decimal.Decimal) decimal.Decimal {
	return x.RoundBank(BTCDecimals)
}
