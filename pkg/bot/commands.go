package bot

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/arnac-io/meshbtc/pkg/core"
	"github.com/arnac-io/meshbtc/pkg/i18n"
)

var errUsage = errors.New("wrong number of arguments")

func (b *Bot) help(ctx context.Context, user core.UserIdentity, args []string) (string, error) {
	return b.msg("help", nil), nil
}

func (b *Bot) createWallet(ctx context.Context, user core.UserIdentity, args []string) (string, error) {
	account := user.AccountName()
	exists, err := b.services.Wallet.AccountExists(ctx, account)
	if err != nil {
		return "", err
	}
	if exists {
		return b.msg("walletAlreadyExists", i18n.Template{"Name": account}), nil
	}
	created, err := b.services.Wallet.CreateAccount(ctx, account)
	if err != nil {
		return "", err
	}
	if !created {
		b.logger.Info("wallet loaded", zap.String("account", account))
		return b.msg("walletLoaded", i18n.Template{"Name": account}), nil
	}
	b.logger.Info("wallet created", zap.String("account", account))
	return b.msg("walletCreated", i18n.Template{"Name": account}), nil
}

// existingAccount returns the account of user or ErrAccountNotFound.
func (b *Bot) existingAccount(ctx context.Context, user core.UserIdentity) (string, error) {
	account := user.AccountName()
	exists, err := b.services.Wallet.AccountExists(ctx, account)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", core.ErrAccountNotFound
	}
	return account, nil
}

func (b *Bot) balance(ctx context.Context, user core.UserIdentity, args []string) (string, error) {
	account, err := b.existingAccount(ctx, user)
	if err != nil {
		return "", err
	}
	balance, err := b.services.Wallet.Balance(ctx, account)
	if err != nil {
		return "", err
	}
	rate, err := b.services.Rates.BTCUSDRate(ctx)
	if err != nil {
		b.logger.Warn("balance without USD value", zap.Error(err))
		return b.msg("balanceNoRate", i18n.Template{"BTC": i18n.FormatBTC(balance)}), nil
	}
	return b.msg("balance", i18n.Template{
		"BTC": i18n.FormatBTC(balance),
		"USD": i18n.FormatUSD(balance.Mul(rate)),
	}), nil
}

func (b *Bot) address(ctx context.Context, user core.UserIdentity, args []string) (string, error) {
	account, err := b.existingAccount(ctx, user)
	if err != nil {
		return "", err
	}
	address, err := b.services.Wallet.NewAddress(ctx, account)
	if err != nil {
		return "", err
	}
	return b.msg("address", i18n.Template{"Address": address}), nil
}

func (b *Bot) history(ctx context.Context, user core.UserIdentity, args []string) (string, error) {
	account, err := b.existingAccount(ctx, user)
	if err != nil {
		return "", err
	}
	txs, err := b.services.Wallet.ListTransactions(ctx, account, b.options.HistoryCount)
	if err != nil {
		return "", err
	}
	if len(txs) == 0 {
		return b.msg("historyEmpty", nil), nil
	}
	slices.SortStableFunc(txs, func(x, y core.Transaction) int {
		return y.Time.Compare(x.Time)
	})
	if len(txs) > b.options.HistoryCount {
		txs = txs[:b.options.HistoryCount]
	}
	lines := make([]string, 0, len(txs)+1)
	lines = append(lines, b.msg("historyHeader", i18n.Template{"Count": len(txs)}))
	for _, tx := range txs {
		lines = append(lines, b.msg("historyLine", i18n.Template{
			"Category":      string(tx.Category),
			"Amount":        i18n.FormatBTC(tx.Amount),
			"Confirmations": tx.Confirmations,
		}))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) send(ctx context.Context, user core.UserIdentity, args []string) (string, error) {
	if len(args) != 2 {
		return "", errUsage
	}
	plan, err := b.services.Preparer.Prepare(ctx, user, args[0], args[1])
	if err != nil {
		return "", err
	}
	token, err := b.services.Store.Insert(plan)
	if err != nil {
		return "", errors.Wrap(err, "store pending payment")
	}
	b.logger.Info("payment prepared",
		zap.String("sender", string(user)),
		zap.String("destination", plan.DestinationAddress),
		zap.String("total", i18n.FormatBTC(plan.Total())))

	data := i18n.Template{
		"Total":    i18n.FormatBTC(plan.Total()),
		"MinerFee": i18n.FormatBTC(plan.MinerFeeBTC),
		"Token":    token,
	}
	if usd, ok := plan.ToUSD(plan.Total()); ok {
		data["TotalUSD"] = i18n.FormatUSD(usd)
		return b.msg("confirmSendUSD", data), nil
	}
	return b.msg("confirmSend", data), nil
}

func (b *Bot) confirm(ctx context.Context, user core.UserIdentity, args []string) (string, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	plan, err := b.services.Store.FetchForConfirm(args[0], user)
	if errors.Is(err, core.ErrNotOwner) {
		unauthorizedConfirmsCounter.Inc()
		b.logger.Warn("confirmation attempted by another user", zap.String("sender", string(user)))
	}
	if err != nil {
		return "", err
	}
	txid, err := b.services.Executor.Execute(ctx, plan)
	if err != nil {
		return "", err
	}
	return b.msg("sendSuccess", i18n.Template{"TxID": i18n.ShortTxID(txid)}), nil
}
