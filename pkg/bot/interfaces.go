package bot

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arnac-io/meshbtc/pkg/core"
)

type walletService interface {
	AccountExists(ctx context.Context, account string) (bool, error)
	CreateAccount(ctx context.Context, account string) (bool, error)
	Balance(ctx context.Context, account string) (decimal.Decimal, error)
	NewAddress(ctx context.Context, account string) (string, error)
	ListTransactions(ctx context.Context, account string, count int) ([]core.Transaction, error)
}

type rateSource interface {
	BTCUSDRate(ctx context.Context) (decimal.Decimal, error)
}

type paymentPreparer interface {
	Prepare(ctx context.Context, requester core.UserIdentity, toAddress, rawAmount string) (core.PaymentPlan, error)
}

type pendingStore interface {
	Insert(plan core.PaymentPlan) (string, error)
	FetchForConfirm(token string, requester core.UserIdentity) (core.PaymentPlan, error)
	SweepExpired(now time.Time) int
}

type paymentExecutor interface {
	Execute(ctx context.Context, plan core.PaymentPlan) (string, error)
}

type textSender interface {
	SendText(ctx context.Context, to, text string, wantAck bool) error
}
