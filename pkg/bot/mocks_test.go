package bot

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/arnac-io/meshbtc/pkg/core"
)

type mockWallet struct {
	OnAccountExists    func(ctx context.Context, account string) (bool, error)
	OnCreateAccount    func(ctx context.Context, account string) (bool, error)
	OnBalance          func(ctx context.Context, account string) (decimal.Decimal, error)
	OnNewAddress       func(ctx context.Context, account string) (string, error)
	OnListTransactions func(ctx context.Context, account string, count int) ([]core.Transaction, error)
	OnEstimateFeeRate  func(ctx context.Context, targetBlocks int64) (decimal.Decimal, error)
	OnSendMany         func(ctx context.Context, account string, outputs map[string]decimal.Decimal) (string, error)
}

func (m *mockWallet) AccountExists(ctx context.Context, account string) (bool, error) {
	return m.OnAccountExists(ctx, account)
}

func (m *mockWallet) CreateAccount(ctx context.Context, account string) (bool, error) {
	return m.OnCreateAccount(ctx, account)
}

func (m *mockWallet) Balance(ctx context.Context, account string) (decimal.Decimal, error) {
	return m.OnBalance(ctx, account)
}

func (m *mockWallet) NewAddress(ctx context.Context, account string) (string, error) {
	return m.OnNewAddress(ctx, account)
}

func (m *mockWallet) ListTransactions(ctx context.Context, account string, count int) ([]core.Transaction, error) {
	return m.OnListTransactions(ctx, account, count)
}

func (m *mockWallet) EstimateFeeRate(ctx context.Context, targetBlocks int64) (decimal.Decimal, error) {
	return m.OnEstimateFeeRate(ctx, targetBlocks)
}

func (m *mockWallet) SendMany(ctx context.Context, account string, outputs map[string]decimal.Decimal) (string, error) {
	return m.OnSendMany(ctx, account, outputs)
}

type mockRates struct {
	OnBTCUSDRate func(ctx context.Context) (decimal.Decimal, error)
}

func (m *mockRates) BTCUSDRate(ctx context.Context) (decimal.Decimal, error) {
	return m.OnBTCUSDRate(ctx)
}

type sentText struct {
	To      string
	Text    string
	WantAck bool
}

type mockSender struct {
	mu   sync.Mutex
	sent []sentText
}

func (m *mockSender) SendText(ctx context.Context, to, text string, wantAck bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentText{To: to, Text: text, WantAck: wantAck})
	return nil
}

func (m *mockSender) Sent() []sentText {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentText(nil), m.sent...)
}

// nodeError is a wallet service failure carrying the node's message.
type nodeError struct {
	message string
}

func (e *nodeError) Error() string   { return "rpc: " + e.message }
func (e *nodeError) Message() string { return e.message }

func (e *nodeError) Is(target error) bool {
	return target == core.ErrUpstreamFailure
}

var (
	_ walletService = &mockWallet{}
	_ rateSource    = &mockRates{}
	_ textSender    = &mockSender{}
)
