package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type feeEstimator interface {
	// EstimateFeeRate returns a fee rate in BTC per 1000 virtual bytes.
	EstimateFeeRate(ctx context.Context, targetBlocks int64) (decimal.Decimal, error)
}

type walletService interface {
	feeEstimator
	AccountExists(ctx context.Context, account string) (bool, error)
	Balance(ctx context.Context, account string) (decimal.Decimal, error)
}

type paymentSender interface {
	SendMany(ctx context.Context, account string, outputs map[string]decimal.Decimal) (string, error)
}

type rateSource interface {
	BTCUSDRate(ctx context.Context) (decimal.Decimal, error)
}
