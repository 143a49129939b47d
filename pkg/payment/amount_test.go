package payment

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/arnac-io/meshbtc/pkg/core"
)

func TestParseAmount(t *testing.T) {
	rate := decimal.NewNullDecimal(decimal.NewFromInt(50000))
	noRate := decimal.NullDecimal{}

	tests := []struct {
		name         string
		raw          string
		rate         decimal.NullDecimal
		wantBTC      string
		wantCurrency core.CurrencyType
		wantErr      error
	}{
		{name: "btc", raw: "0.001", rate: rate, wantBTC: "0.00100000", wantCurrency: core.CurrencyBTC},
		{name: "btc without rate", raw: "0.5", rate: noRate, wantBTC: "0.50000000", wantCurrency: core.CurrencyBTC},
		{name: "btc thousands separator", raw: "1,000.5", rate: rate, wantBTC: "1000.50000000", wantCurrency: core.CurrencyBTC},
		{name: "surrounding spaces", raw: "  0.00000001 ", rate: rate, wantBTC: "0.00000001", wantCurrency: core.CurrencyBTC},
		{name: "half satoshi rounds to even up", raw: "0.000000015", rate: rate, wantBTC: "0.00000002", wantCurrency: core.CurrencyBTC},
		{name: "half satoshi rounds to even down", raw: "0.000000025", rate: rate, wantBTC: "0.00000002", wantCurrency: core.CurrencyBTC},
		{name: "usd", raw: "$25.50", rate: rate, wantBTC: "0.00051000", wantCurrency: core.CurrencyUSD},
		{name: "usd thousands separator", raw: "$1,000", rate: rate, wantBTC: "0.02000000", wantCurrency: core.CurrencyUSD},
		{name: "usd two satoshis", raw: "$0.001", rate: rate, wantBTC: "0.00000002", wantCurrency: core.CurrencyUSD},
		{name: "usd without rate", raw: "$10", rate: noRate, wantErr: core.ErrRateUnavailable},
		{name: "usd below one satoshi", raw: "$0.0001", rate: rate, wantErr: core.ErrInvalidAmount},
		{name: "usd sign only", raw: "$", rate: rate, wantErr: core.ErrInvalidAmount},
		{name: "negative usd", raw: "$-5", rate: rate, wantErr: core.ErrInvalidAmount},
		{name: "garbage", raw: "abc", rate: rate, wantErr: core.ErrInvalidAmount},
		{name: "zero", raw: "0", rate: rate, wantErr: core.ErrInvalidAmount},
		{name: "negative", raw: "-1", rate: rate, wantErr: core.ErrInvalidAmount},
		{name: "half satoshi rounds to zero", raw: "0.000000005", rate: rate, wantErr: core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := ParseAmount(tt.raw, tt.rate)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantBTC, amount.BTC.StringFixed(core.BTCDecimals))
			require.Equal(t, tt.wantCurrency, amount.Spec.Currency)
		})
	}
}
