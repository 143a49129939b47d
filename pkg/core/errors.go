package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrRateUnavailable   = errors.New("exchange rate unavailable")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidAddress    = errors.New("invalid address")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTokenNotFound     = errors.New("confirmation token not found")
	ErrNotOwner          = errors.New("confirmation token belongs to another user")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrUnexpected        = errors.New("unexpected error")

	// ErrDustAmount is an ErrInvalidAmount too small to be relayed by the network.
	ErrDustAmount = fmt.Errorf("%w: output below the dust limit", ErrInvalidAmount)
)

// InsufficientFundsError reports how much a payment needs and how much the account holds.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %s BTC, have %s BTC",
		e.Required.StringFixed(BTCDecimals), e.Available.StringFixed(BTCDecimals))
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// ExecutionError is returned when the wallet service refuses or fails to submit a payment.
type ExecutionError struct {
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("payment execution failed: %s", e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrUpstreamFailure
}
