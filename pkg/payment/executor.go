package payment

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arnac-io/meshbtc/pkg/core"
)

// Executor submits confirmed payment plans. It never retries.
type Executor struct {
	logger          *zap.Logger
	sender          paymentSender
	operatorAddress string
}

// NewExecutor decodes operatorAddress for params. Outputs always use its canonical encoding.
func NewExecutor(logger *zap.Logger, sender paymentSender, params *chaincfg.Params, operatorAddress string) (*Executor, error) {
	operator, err := btcutil.DecodeAddress(operatorAddress, params)
	if err != nil {
		return nil, errors.Wrap(err, "operator address")
	}
	return &Executor{
		logger:          logger,
		sender:          sender,
		operatorAddress: operator.EncodeAddress(),
	}, nil
}

// Outputs returns the outputs of plan's transaction. The operator output is omitted when the fee is zero.
func (e *Executor) Outputs(plan core.PaymentPlan) map[string]decimal.Decimal {
	outputs := map[string]decimal.Decimal{
		plan.DestinationAddress: plan.SendAmountBTC,
	}
	if plan.OperatorFeeBTC.IsPositive() {
		outputs[e.operatorAddress] = outputs[e.operatorAddress].Add(plan.OperatorFeeBTC)
	}
	return outputs
}

// Execute sends plan as a single multi-output transaction and returns its txid.
func (e *Executor) Execute(ctx context.Context, plan core.PaymentPlan) (string, error) {
	txid, err := e.sender.SendMany(ctx, plan.AccountName, e.Outputs(plan))
	if err != nil {
		executedCounter.WithLabelValues("error").Inc()
		e.logger.Error("payment execution failed",
			zap.String("account", plan.AccountName),
			zap.String("destination", plan.DestinationAddress),
			zap.String("total", plan.Total().StringFixed(core.BTCDecimals)),
			zap.Error(err))
		return "", &core.ExecutionError{Message: upstreamMessage(err), Err: err}
	}
	executedCounter.WithLabelValues("success").Inc()
	e.logger.Info("payment sent",
		zap.String("account", plan.AccountName),
		zap.String("txid", txid),
		zap.String("total", plan.Total().StringFixed(core.BTCDecimals)))
	return txid, nil
}

func upstreamMessage(err error) string {
	var m interface{ Message() string }
	if errors.As(err, &m) {
		return m.Message()
	}
	return err.Error()
}
