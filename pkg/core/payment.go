package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPlan is a fully specified payment that has not been submitted yet.
type PaymentPlan struct {
	Requester          UserIdentity
	AccountName        string
	DestinationAddress string
	SendAmountBTC      decimal.Decimal
	OperatorFeeBTC     decimal.Decimal
	MinerFeeBTC        decimal.Decimal
	// Spec is the amount as the requester typed it.
	Spec AmountSpec
	// Rate is the BTC/USD rate observed while preparing the plan, if any.
	Rate decimal.NullDecimal
}

// Total is the amount leaving the requester's account, recomputed on every call.
func (p PaymentPlan) Total() decimal.Decimal {
	return p.SendAmountBTC.Add(p.OperatorFeeBTC).Add(p.MinerFeeBTC)
}

// ToUSD converts a bitcoin amount with the plan's rate. The second value is false if no rate was observed.
func (p PaymentPlan) ToUSD(btc decimal.Decimal) (decimal.Decimal, bool) {
	if !p.Rate.Valid {
		return decimal.Zero, false
	}
	return btc.Mul(p.Rate.Decimal), true
}

// PendingConfirmation is a prepared payment waiting for its requester to echo the token back.
type PendingConfirmation struct {
	Token     string
	Plan      PaymentPlan
	CreatedAt time.Time
}
