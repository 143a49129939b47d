package rates

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/arnac-io/meshbtc/pkg/cache"
	"github.com/arnac-io/meshbtc/pkg/core"
)

const (
	btcusdKey     = "BTC/USD"
	marketRetries = 2
	retryDelay    = 200 * time.Millisecond
)

// Oracle returns the BTC price in USD as the median of several public markets.
type Oracle struct {
	logger  *zap.Logger
	client  *http.Client
	markets []Market
	timeout time.Duration
	cache   *cache.Cache[string, decimal.Decimal]
}

type Options struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	Client   *http.Client
}

type Option func(o *Options)

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.CacheTTL = ttl
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.Client = client
	}
}

func NewOracle(logger *zap.Logger, markets []Market, opts ...Option) *Oracle {
	options := &Options{
		Timeout:  10 * time.Second,
		CacheTTL: 30 * time.Second,
		Client:   &http.Client{},
	}
	for _, o := range opts {
		o(options)
	}
	return &Oracle{
		logger:  logger,
		client:  options.Client,
		markets: markets,
		timeout: options.Timeout,
		cache:   cache.NewLRUCache[string, decimal.Decimal](1, options.CacheTTL, "btc_usd_rate"),
	}
}

// BTCUSDRate returns the cached rate or asks every market concurrently.
func (o *Oracle) BTCUSDRate(ctx context.Context) (decimal.Decimal, error) {
	if rate, ok := o.cache.Get(btcusdKey); ok {
		return rate, nil
	}
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prices := iter.Map(o.markets, func(m *Market) decimal.NullDecimal {
		price, err := o.marketPrice(ctx, *m)
		if err != nil {
			errorsCounter.WithLabelValues(m.Name).Inc()
			o.logger.Warn("failed to get BTC price", zap.String("source", m.Name), zap.Error(err))
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(price)
	})
	valid := make([]decimal.Decimal, 0, len(prices))
	for _, p := range prices {
		if p.Valid {
			valid = append(valid, p.Decimal)
		}
	}
	if len(valid) == 0 {
		return decimal.Zero, errors.Wrap(core.ErrRateUnavailable, "no market returned a price")
	}
	rate := median(valid)
	o.cache.Set(btcusdKey, rate)
	return rate, nil
}

func (o *Oracle) marketPrice(ctx context.Context, m Market) (decimal.Decimal, error) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(m.Name).Observe(time.Since(start).Seconds())
	}()
	var price decimal.Decimal
	err := retry.Do(func() error {
		body, err := sendRequest(ctx, o.client, m.URL)
		if err != nil {
			return err
		}
		price, err = m.Converter(body)
		return err
	},
		retry.Attempts(marketRetries),
		retry.Delay(retryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive price %v", price)
	}
	return price, nil
}

func median(prices []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})
	middle := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[middle]
	}
	return sorted[middle-1].Add(sorted[middle]).Div(decimal.NewFromInt(2))
}
