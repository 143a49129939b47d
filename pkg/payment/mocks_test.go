package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type mockWallet struct {
	OnAccountExists   func(ctx context.Context, account string) (bool, error)
	OnBalance         func(ctx context.Context, account string) (decimal.Decimal, error)
	OnEstimateFeeRate func(ctx context.Context, targetBlocks int64) (decimal.Decimal, error)
}

func (m *mockWallet) AccountExists(ctx context.Context, account string) (bool, error) {
	return m.OnAccountExists(ctx, account)
}

func (m *mockWallet) Balance(ctx context.Context, account string) (decimal.Decimal, error) {
	return m.OnBalance(ctx, account)
}

func (m *mockWallet) EstimateFeeRate(ctx context.Context, targetBlocks int64) (decimal.Decimal, error) {
	return m.OnEstimateFeeRate(ctx, targetBlocks)
}

type mockRates struct {
	OnBTCUSDRate func(ctx context.Context) (decimal.Decimal, error)
}

func (m *mockRates) BTCUSDRate(ctx context.Context) (decimal.Decimal, error) {
	return m.OnBTCUSDRate(ctx)
}

type mockSender struct {
	OnSendMany func(ctx context.Context, account string, outputs map[string]decimal.Decimal) (string, error)
}

func (m *mockSender) SendMany(ctx context.Context, account string, outputs map[string]decimal.Decimal) (string, error) {
	return m.OnSendMany(ctx, account, outputs)
}

// nodeError mimics a wallet error carrying the node's own message.
type nodeError struct {
	message string
}

func (e *nodeError) Error() string   { return "sendmany: -6: " + e.message }
func (e *nodeError) Message() string { return e.message }

var (
	_ walletService = &mockWallet{}
	_ rateSource    = &mockRates{}
	_ paymentSender = &mockSender{}
)
