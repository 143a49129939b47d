package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAccountName(t *testing.T) {
	tests := []struct {
		user UserIdentity
		want string
	}{
		{user: "!a1b2c3d4", want: "meshtastic_a1b2c3d4"},
		{user: "a1b2c3d4", want: "meshtastic_a1b2c3d4"},
		{user: "!!a1b2", want: "meshtastic_a1b2"},
		{user: "", want: "meshtastic_"},
	}
	for _, tt := range tests {
		t.Run(string(tt.user), func(t *testing.T) {
			require.Equal(t, tt.want, AccountName(tt.user))
			require.Equal(t, tt.want, tt.user.AccountName())
		})
	}
}

func TestPaymentPlan_Total(t *testing.T) {
	tests := []struct {
		name             string
		send, fee, miner string
		want             string
	}{
		{name: "regular", send: "0.01", fee: "0.00005", miner: "0.00001410", want: "0.01006410"},
		{name: "one satoshi", send: "0.00000001", fee: "0", miner: "0.00001", want: "0.00001001"},
		{name: "large", send: "20999999.9769", fee: "104999.99998850", miner: "0.00001", want: "21104999.97689850"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PaymentPlan{
				SendAmountBTC:  decimal.RequireFromString(tt.send),
				OperatorFeeBTC: decimal.RequireFromString(tt.fee),
				MinerFeeBTC:    decimal.RequireFromString(tt.miner),
			}
			require.True(t, decimal.RequireFromString(tt.want).Equal(plan.Total()), plan.Total().String())
		})
	}
}

func TestPaymentPlan_ToUSD(t *testing.T) {
	plan := PaymentPlan{}
	_, ok := plan.ToUSD(decimal.NewFromInt(1))
	require.False(t, ok)

	plan.Rate = decimal.NewNullDecimal(decimal.NewFromInt(50000))
	usd, ok := plan.ToUSD(decimal.RequireFromString("0.00051"))
	require.True(t, ok)
	require.Equal(t, "25.5", usd.String())
}

func TestRoundBTC(t *testing.T) {
	require.Equal(t, "0.00000002", RoundBTC(decimal.RequireFromString("0.000000025")).StringFixed(8))
	require.Equal(t, "0.00000004", RoundBTC(decimal.RequireFromString("0.000000035")).StringFixed(8))
	require.Equal(t, "0.00051000", RoundBTC(decimal.RequireFromString("0.00051")).StringFixed(8))
}

func TestErrors(t *testing.T) {
	var err error = &InsufficientFundsError{
		Required:  decimal.RequireFromString("0.0101"),
		Available: decimal.RequireFromString("0.005"),
	}
	require.True(t, errors.Is(err, ErrInsufficientFunds))
	require.Equal(t, "insufficient funds: need 0.01010000 BTC, have 0.00500000 BTC", err.Error())

	upstream := errors.New("-6: Insufficient funds")
	err = &ExecutionError{Message: upstream.Error(), Err: upstream}
	require.True(t, errors.Is(err, ErrUpstreamFailure))
	require.True(t, errors.Is(err, upstream))
}
