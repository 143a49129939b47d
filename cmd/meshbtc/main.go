package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arnac-io/meshbtc/pkg/app"
	"github.com/arnac-io/meshbtc/pkg/bot"
	"github.com/arnac-io/meshbtc/pkg/config"
	"github.com/arnac-io/meshbtc/pkg/mesh"
	"github.com/arnac-io/meshbtc/pkg/payment"
	"github.com/arnac-io/meshbtc/pkg/pending"
	"github.com/arnac-io/meshbtc/pkg/rates"
	"github.com/arnac-io/meshbtc/pkg/sentry"
	"github.com/arnac-io/meshbtc/pkg/wallet"
)

const startupTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log, _ := app.Logger("INFO")
		log.Fatal("invalid configuration", zap.Error(err))
	}
	log, err := app.Logger(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := sentry.Init(cfg.App.SentryDSN); err != nil {
		log.Warn("sentry init", zap.Error(err))
	}
	defer sentry.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	btc, err := wallet.New(wallet.Options{
		Host:        cfg.RPC.Host,
		Port:        cfg.RPC.Port,
		User:        cfg.RPC.User,
		Password:    cfg.RPC.Password,
		Params:      cfg.ChainParams(),
		Timeout:     cfg.RPC.Timeout,
		SendTimeout: cfg.RPC.SendTimeout,
	}, log)
	if err != nil {
		log.Fatal("wallet service init", zap.Error(err))
	}
	defer btc.Close()
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	err = btc.Ping(startCtx)
	cancel()
	if err != nil {
		log.Fatal("bitcoin node is unreachable", zap.Error(err))
	}

	oracle := rates.NewOracle(log,
		rates.Markets(cfg.Rates.CoinGeckoURL, cfg.Rates.CoinbaseURL, cfg.Rates.BitfinexURL),
		rates.WithTimeout(cfg.Rates.Timeout),
		rates.WithCacheTTL(cfg.Rates.CacheTTL))

	fees := payment.NewFeeCalculator(log, btc, payment.FeeOptions{
		OperatorPercent:  cfg.Fees.OperatorPercent,
		ConfTarget:       cfg.Fees.ConfTarget,
		FallbackMinerFee: cfg.Fees.FallbackMinerFee,
	})
	preparer, err := payment.NewPreparer(log, btc, oracle, fees, cfg.ChainParams(), cfg.Fees.OperatorAddress)
	if err != nil {
		log.Fatal("payment preparer init", zap.Error(err))
	}
	executor, err := payment.NewExecutor(log, btc, cfg.ChainParams(), cfg.Fees.OperatorAddress)
	if err != nil {
		log.Fatal("payment executor init", zap.Error(err))
	}
	clk := clock.NewDefaultClock()
	store := pending.NewStore(log, clk, cfg.Pending.TTL)

	transport, err := newTransport(ctx, log, cfg)
	if err != nil {
		log.Fatal("mesh transport init", zap.Error(err))
	}

	b := bot.New(log, bot.Services{
		Wallet:   btc,
		Rates:    oracle,
		Preparer: preparer,
		Store:    store,
		Executor: executor,
		Sender:   transport,
		Clock:    clk,
	}, bot.Options{
		Lang:               cfg.Bot.Lang,
		HistoryCount:       cfg.Bot.HistoryCount,
		RateLimitPerMinute: cfg.Bot.RateLimitPerMinute,
	})
	defer b.Close()

	ctx, cancel = context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the console transport ends with its input
		defer cancel()
		return transport.Run(ctx, b.Handle)
	})
	g.Go(func() error {
		return store.RunSweeper(ctx, cfg.Pending.SweepInterval)
	})
	g.Go(func() error {
		return app.ServeMetrics(ctx, log, cfg.App.MetricsPort)
	})
	log.Info("meshbtc started",
		zap.String("network", cfg.ChainParams().Name),
		zap.String("transport", cfg.Mesh.Transport))

	err = g.Wait()
	err = multierr.Append(err, transport.Close())
	if err != nil {
		log.Error("shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("meshbtc stopped")
}

func newTransport(ctx context.Context, log *zap.Logger, cfg config.Config) (mesh.Transport, error) {
	if cfg.Mesh.Transport == config.TransportConsole {
		return mesh.NewConsole(log, os.Stdin, os.Stdout, cfg.Mesh.ConsoleSender), nil
	}
	dialCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	bridge, err := mesh.DialBridge(dialCtx, log, cfg.Mesh.BridgeURL, mesh.BridgeOptions{
		ReconnectWait: cfg.Mesh.ReconnectWait,
		MaxTextBytes:  cfg.Mesh.MaxTextBytes,
	})
	if err != nil {
		return nil, err
	}
	return bridge, nil
}
