package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCategory as reported by the wallet, e.g. "send" or "receive".
type TransactionCategory string

const (
	CategorySend     TransactionCategory = "send"
	CategoryReceive  TransactionCategory = "receive"
	CategoryGenerate TransactionCategory = "generate"
	CategoryImmature TransactionCategory = "immature"
	CategoryOrphan   TransactionCategory = "orphan"
)

// Transaction is a single wallet history entry.
type Transaction struct {
	Category      TransactionCategory
	Amount        decimal.Decimal
	Address       string
	TxID          string
	Confirmations int64
	Time          time.Time
}
