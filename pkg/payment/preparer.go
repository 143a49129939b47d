package payment

import (
	"context"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txrules"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arnac-io/meshbtc/pkg/core"
)

// Preparer turns a !send request into a payment plan without moving any funds.
type Preparer struct {
	logger          *zap.Logger
	wallet          walletService
	rates           rateSource
	fees            *FeeCalculator
	params          *chaincfg.Params
	operatorAddress btcutil.Address
}

func NewPreparer(logger *zap.Logger, wallet walletService, rates rateSource, fees *FeeCalculator, params *chaincfg.Params, operatorAddress string) (*Preparer, error) {
	operator, err := btcutil.DecodeAddress(operatorAddress, params)
	if err != nil {
		return nil, errors.Wrap(err, "operator address")
	}
	return &Preparer{
		logger:          logger,
		wallet:          wallet,
		rates:           rates,
		fees:            fees,
		params:          params,
		operatorAddress: operator,
	}, nil
}

// Prepare validates the request, converts the amount, computes fees and checks the balance.
func (p *Preparer) Prepare(ctx context.Context, requester core.UserIdentity, toAddress, rawAmount string) (core.PaymentPlan, error) {
	account := requester.AccountName()
	exists, err := p.wallet.AccountExists(ctx, account)
	if err != nil {
		return core.PaymentPlan{}, err
	}
	if !exists {
		return core.PaymentPlan{}, core.ErrAccountNotFound
	}

	destination, err := btcutil.DecodeAddress(toAddress, p.params)
	if err != nil || !destination.IsForNet(p.params) {
		return core.PaymentPlan{}, errors.Wrapf(core.ErrInvalidAddress, "%q for %v", toAddress, p.params.Name)
	}

	var rate decimal.NullDecimal
	if usd, err := p.rates.BTCUSDRate(ctx); err != nil {
		p.logger.Warn("BTC/USD rate unavailable", zap.Error(err))
	} else {
		rate = decimal.NewNullDecimal(usd)
	}

	amount, err := ParseAmount(rawAmount, rate)
	if err != nil {
		return core.PaymentPlan{}, err
	}
	if isDust(amount.BTC, destination) {
		return core.PaymentPlan{}, errors.Wrapf(core.ErrDustAmount, "send %s", amount.BTC)
	}

	operatorFee, minerFee := p.fees.ComputeFees(ctx, amount.BTC)
	if operatorFee.IsPositive() && isDust(operatorFee, p.operatorAddress) {
		return core.PaymentPlan{}, errors.Wrapf(core.ErrDustAmount, "operator fee %s", operatorFee)
	}

	plan := core.PaymentPlan{
		Requester:          requester,
		AccountName:        account,
		DestinationAddress: destination.EncodeAddress(),
		SendAmountBTC:      amount.BTC,
		OperatorFeeBTC:     operatorFee,
		MinerFeeBTC:        minerFee,
		Spec:               amount.Spec,
		Rate:               rate,
	}

	balance, err := p.wallet.Balance(ctx, account)
	if err != nil {
		return core.PaymentPlan{}, err
	}
	if total := plan.Total(); balance.LessThan(total) {
		return core.PaymentPlan{}, &core.InsufficientFundsError{Required: total, Available: balance}
	}
	return plan, nil
}

func isDust(btc decimal.Decimal, address btcutil.Address) bool {
	script, err := txscript.PayToAddrScript(address)
	if err != nil {
		return false
	}
	output := wire.NewTxOut(btc.Shift(core.BTCDecimals).IntPart(), script)
	return txrules.IsDustOutput(output, txrules.DefaultRelayFeePerKb)
}
