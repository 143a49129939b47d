package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arnac-io/meshbtc/pkg/core"
)

// estimatedTxVBytes is the virtual size of a one-input transaction with two P2WPKH outputs.
const estimatedTxVBytes = 141

var hundred = decimal.NewFromInt(100)

type FeeOptions struct {
	OperatorPercent  decimal.Decimal
	ConfTarget       int64
	FallbackMinerFee decimal.Decimal
}

// FeeCalculator computes the operator fee and the expected miner fee of a payment.
type FeeCalculator struct {
	logger    *zap.Logger
	estimator feeEstimator
	options   FeeOptions
}

func NewFeeCalculator(logger *zap.Logger, estimator feeEstimator, options FeeOptions) *FeeCalculator {
	return &FeeCalculator{
		logger:    logger,
		estimator: estimator,
		options:   options,
	}
}

// OperatorFee is the operator's percentage of send.
func (c *FeeCalculator) OperatorFee(send decimal.Decimal) decimal.Decimal {
	return core.RoundBTC(send.Mul(c.options.OperatorPercent).Div(hundred))
}

// MinerFee estimates the network fee. It never fails: without a usable estimate the fallback fee is used.
func (c *FeeCalculator) MinerFee(ctx context.Context) decimal.Decimal {
	rate, err := c.estimator.EstimateFeeRate(ctx, c.options.ConfTarget)
	if err != nil || !rate.IsPositive() {
		feeFallbackCounter.Inc()
		c.logger.Warn("fee estimation unavailable, using fallback miner fee",
			zap.Error(err),
			zap.String("rate", rate.String()),
			zap.String("fallback", c.options.FallbackMinerFee.StringFixed(core.BTCDecimals)))
		return c.options.FallbackMinerFee
	}
	return core.RoundBTC(rate.Mul(decimal.NewFromInt(estimatedTxVBytes)).Div(decimal.NewFromInt(1000)))
}

func (c *FeeCalculator) ComputeFees(ctx context.Context, send decimal.Decimal) (operatorFee, minerFee decimal.Decimal) {
	return c.OperatorFee(send), c.MinerFee(ctx)
}
