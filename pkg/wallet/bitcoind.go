package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/go-faster/errors"
	"github.com/puzpuzpuz/xsync/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/arnac-io/meshbtc/internal/g"
	"github.com/arnac-io/meshbtc/pkg/core"
)

// Bitcoin Core error codes the adapter reacts to.
const (
	codeWalletError         btcjson.RPCErrorCode = -4
	codeWalletAlreadyLoaded btcjson.RPCErrorCode = -35
)

type Options struct {
	Host        string
	Port        int
	User        string
	Password    string
	Params      *chaincfg.Params
	Timeout     time.Duration
	SendTimeout time.Duration
}

// Bitcoind talks to a Bitcoin Core node holding one wallet per mesh user.
type Bitcoind struct {
	logger  *zap.Logger
	opts    Options
	node    *rpcclient.Client
	wallets *xsync.MapOf[string, *rpcclient.Client]
}

func New(opts Options, logger *zap.Logger) (*Bitcoind, error) {
	if opts.Params == nil {
		opts.Params = &chaincfg.TestNet3Params
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.SendTimeout == 0 {
		opts.SendTimeout = 30 * time.Second
	}
	b := &Bitcoind{
		logger:  logger,
		opts:    opts,
		wallets: xsync.NewMapOf[*rpcclient.Client](),
	}
	node, err := rpcclient.New(b.connConfig(""), nil)
	if err != nil {
		return nil, errors.Wrap(err, "node rpc client")
	}
	b.node = node
	return b, nil
}

func (b *Bitcoind) connConfig(path string) *rpcclient.ConnConfig {
	return &rpcclient.ConnConfig{
		Host:         fmt.Sprintf("%s:%d%s", b.opts.Host, b.opts.Port, path),
		User:         b.opts.User,
		Pass:         b.opts.Password,
		Params:       b.opts.Params.Name,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
}

func (b *Bitcoind) walletClient(account string) (*rpcclient.Client, error) {
	if client, ok := b.wallets.Load(account); ok {
		return client, nil
	}
	client, err := rpcclient.New(b.connConfig("/wallet/"+url.PathEscape(account)), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "wallet rpc client for %v", account)
	}
	actual, loaded := b.wallets.LoadOrStore(account, client)
	if loaded {
		client.Shutdown()
	}
	return actual, nil
}

// Ping checks that the node answers and the credentials are accepted.
func (b *Bitcoind) Ping(ctx context.Context) error {
	var info btcjson.GetBlockChainInfoResult
	if err := b.rawCall(ctx, b.node, "getblockchaininfo", &info); err != nil {
		return err
	}
	b.logger.Info("connected to bitcoin node",
		zap.String("chain", info.Chain),
		zap.Int32("blocks", info.Blocks))
	return nil
}

func (b *Bitcoind) AccountExists(ctx context.Context, account string) (bool, error) {
	var names []string
	if err := b.rawCall(ctx, b.node, "listwallets", &names); err != nil {
		return false, err
	}
	for _, name := range names {
		if name == account {
			return true, nil
		}
	}
	return false, nil
}

// CreateAccount creates the wallet or loads it when it already exists on disk.
// It reports whether a new wallet was created.
func (b *Bitcoind) CreateAccount(ctx context.Context, account string) (bool, error) {
	var created btcjson.CreateWalletResult
	err := b.rawCall(ctx, b.node, "createwallet", &created, account)
	if err == nil {
		if created.Warning != "" {
			b.logger.Warn("createwallet warning", zap.String("account", account), zap.String("warning", created.Warning))
		}
		return true, nil
	}
	if code, ok := rpcErrorCode(err); !ok || code != codeWalletError {
		return false, err
	}
	b.logger.Info("wallet exists on disk, loading", zap.String("account", account))
	var loadedResult btcjson.LoadWalletResult
	err = b.rawCall(ctx, b.node, "loadwallet", &loadedResult, account)
	if code, ok := rpcErrorCode(err); ok && code == codeWalletAlreadyLoaded {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Balance is the confirmed plus unconfirmed balance of the account.
func (b *Bitcoind) Balance(ctx context.Context, account string) (decimal.Decimal, error) {
	client, err := b.walletClient(account)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := call(ctx, b.opts.Timeout, "getbalance", func() (btcutil.Amount, error) {
		return client.GetBalanceMinConf("*", 0)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(int64(amount), -core.BTCDecimals), nil
}

func (b *Bitcoind) NewAddress(ctx context.Context, account string) (string, error) {
	client, err := b.walletClient(account)
	if err != nil {
		return "", err
	}
	addr, err := call(ctx, b.opts.Timeout, "getnewaddress", func() (btcutil.Address, error) {
		return client.GetNewAddress("")
	})
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// EstimateFeeRate returns the conservative fee rate in BTC/kvB for confirmation within target blocks.
func (b *Bitcoind) EstimateFeeRate(ctx context.Context, targetBlocks int64) (decimal.Decimal, error) {
	res, err := call(ctx, b.opts.Timeout, "estimatesmartfee", func() (*btcjson.EstimateSmartFeeResult, error) {
		return b.node.EstimateSmartFee(targetBlocks, g.Pointer(btcjson.EstimateModeConservative))
	})
	if err != nil {
		return decimal.Zero, err
	}
	if res.FeeRate == nil {
		return decimal.Zero, &Error{Method: "estimatesmartfee", Err: fmt.Errorf("no fee rate: %v", res.Errors)}
	}
	return decimal.NewFromFloat(*res.FeeRate), nil
}

// SendMany submits one transaction paying every output from the account and returns its txid.
func (b *Bitcoind) SendMany(ctx context.Context, account string, outputs map[string]decimal.Decimal) (string, error) {
	client, err := b.walletClient(account)
	if err != nil {
		return "", err
	}
	// rpcclient keys the request by EncodeAddress, so spellings of one address are merged here.
	decoded := make(map[string]btcutil.Address, len(outputs))
	sums := make(map[string]btcutil.Amount, len(outputs))
	for _, address := range maps.Keys(outputs) {
		addr, err := btcutil.DecodeAddress(address, b.opts.Params)
		if err != nil {
			return "", errors.Wrapf(core.ErrInvalidAddress, "%v: %v", address, err)
		}
		encoded := addr.EncodeAddress()
		decoded[encoded] = addr
		sums[encoded] += btcutil.Amount(outputs[address].Shift(core.BTCDecimals).IntPart())
	}
	amounts := make(map[btcutil.Address]btcutil.Amount, len(sums))
	for encoded, amount := range sums {
		amounts[decoded[encoded]] = amount
	}
	hash, err := call(ctx, b.opts.SendTimeout, "sendmany", func() (string, error) {
		h, err := client.SendMany("", amounts)
		if err != nil {
			return "", err
		}
		return h.String(), nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			b.logger.Error("sendmany timed out, the transaction may still be broadcast", zap.String("account", account))
		}
		return "", err
	}
	return hash, nil
}

// ListTransactions returns up to count most recent wallet transactions in node order, oldest first.
func (b *Bitcoind) ListTransactions(ctx context.Context, account string, count int) ([]core.Transaction, error) {
	client, err := b.walletClient(account)
	if err != nil {
		return nil, err
	}
	results, err := call(ctx, b.opts.Timeout, "listtransactions", func() ([]btcjson.ListTransactionsResult, error) {
		return client.ListTransactionsCount("*", count)
	})
	if err != nil {
		return nil, err
	}
	txs := make([]core.Transaction, 0, len(results))
	for _, r := range results {
		txs = append(txs, convertTransaction(r))
	}
	return txs, nil
}

func convertTransaction(r btcjson.ListTransactionsResult) core.Transaction {
	return core.Transaction{
		Category:      core.TransactionCategory(r.Category),
		Amount:        core.RoundBTC(decimal.NewFromFloat(r.Amount)),
		Address:       r.Address,
		TxID:          r.TxID,
		Confirmations: r.Confirmations,
		Time:          time.Unix(r.Time, 0).UTC(),
	}
}

// Close shuts down every client.
func (b *Bitcoind) Close() {
	b.wallets.Range(func(_ string, client *rpcclient.Client) bool {
		client.Shutdown()
		return true
	})
	b.node.Shutdown()
}

func (b *Bitcoind) rawCall(ctx context.Context, client *rpcclient.Client, method string, result any, params ...any) error {
	rawParams := make([]json.RawMessage, 0, len(params))
	for _, p := range params {
		raw, err := json.Marshal(p)
		if err != nil {
			return errors.Wrapf(err, "marshal %v params", method)
		}
		rawParams = append(rawParams, raw)
	}
	raw, err := call(ctx, b.opts.Timeout, method, func() (json.RawMessage, error) {
		return client.RawRequest(method, rawParams)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return &Error{Method: method, Err: errors.Wrap(err, "decode result")}
	}
	return nil
}

// call runs a blocking rpcclient method, giving up when ctx or the timeout expires first.
func call[T any](ctx context.Context, timeout time.Duration, method string, fn func() (T, error)) (T, error) {
	start := time.Now()
	defer func() {
		rpcDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		value, err := fn()
		ch <- result{value: value, err: err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, &Error{Method: method, Err: ctx.Err()}
	case r := <-ch:
		if r.err != nil {
			return r.value, &Error{Method: method, Err: r.err}
		}
		return r.value, nil
	}
}
