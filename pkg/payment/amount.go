package payment

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/arnac-io/meshbtc/pkg/core"
)

// Amount is a parsed user amount together with its value in bitcoin.
type Amount struct {
	Spec core.AmountSpec
	BTC  decimal.Decimal
}

// ParseAmount parses "0.001" as bitcoin or "$25.50" as dollars converted with rate.
// Thousands separators are ignored. The result is rounded to whole satoshis.
func ParseAmount(raw string, rate decimal.NullDecimal) (Amount, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	currency := core.CurrencyBTC
	if strings.HasPrefix(s, "$") {
		currency = core.CurrencyUSD
		s = strings.TrimSpace(s[1:])
		if !rate.Valid || !rate.Decimal.IsPositive() {
			return Amount{}, core.ErrRateUnavailable
		}
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, errors.Wrapf(core.ErrInvalidAmount, "parse %q", raw)
	}
	if !value.IsPositive() {
		return Amount{}, errors.Wrapf(core.ErrInvalidAmount, "%q is not positive", raw)
	}
	btc := value
	if currency == core.CurrencyUSD {
		btc = value.Div(rate.Decimal)
	}
	btc = core.RoundBTC(btc)
	if !btc.IsPositive() {
		return Amount{}, errors.Wrapf(core.ErrInvalidAmount, "%q is less than one satoshi", raw)
	}
	return Amount{
		Spec: core.AmountSpec{Currency: currency, Value: value},
		BTC:  btc,
	}, nil
}
