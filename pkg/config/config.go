package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"
)

const (
	TransportBridge  = "bridge"
	TransportConsole = "console"
)

type Config struct {
	RPC struct {
		Host        string        `env:"RPC_HOST" envDefault:"127.0.0.1"`
		Port        int           `env:"RPC_PORT" envDefault:"18332"`
		User        string        `env:"RPC_USER"`
		Password    string        `env:"RPC_PASSWORD"`
		Network     string        `env:"BITCOIN_NETWORK" envDefault:"testnet3"`
		Timeout     time.Duration `env:"RPC_TIMEOUT" envDefault:"10s"`
		SendTimeout time.Duration `env:"RPC_SEND_TIMEOUT" envDefault:"30s"`
	}
	Fees struct {
		OperatorAddress  string          `env:"NODE_OPERATOR_ADDRESS"`
		OperatorPercent  decimal.Decimal `env:"NODE_OPERATOR_FEE_PERCENT" envDefault:"0.5"`
		ConfTarget       int64           `env:"FEE_CONF_TARGET" envDefault:"6"`
		FallbackMinerFee decimal.Decimal `env:"FALLBACK_MINER_FEE_BTC" envDefault:"0.00001"`
	}
	Pending struct {
		TTL           time.Duration `env:"PENDING_TX_TTL" envDefault:"120s"`
		SweepInterval time.Duration `env:"PENDING_SWEEP_INTERVAL" envDefault:"30s"`
	}
	Rates struct {
		Timeout      time.Duration `env:"RATES_TIMEOUT" envDefault:"10s"`
		CacheTTL     time.Duration `env:"RATES_CACHE_TTL" envDefault:"30s"`
		CoinGeckoURL string        `env:"COINGECKO_API_URL" envDefault:"https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"`
		CoinbaseURL  string        `env:"COINBASE_API_URL" envDefault:"https://api.coinbase.com/v2/exchange-rates?currency=BTC"`
		BitfinexURL  string        `env:"BITFINEX_API_URL" envDefault:"https://api-pub.bitfinex.com/v2/ticker/tBTCUSD"`
	}
	Mesh struct {
		Transport     string        `env:"MESH_TRANSPORT" envDefault:"bridge"`
		BridgeURL     string        `env:"MESH_BRIDGE_URL" envDefault:"ws://127.0.0.1:8765/mesh"`
		ReconnectWait time.Duration `env:"MESH_RECONNECT_WAIT" envDefault:"5s"`
		MaxTextBytes  int           `env:"MESH_MAX_TEXT_BYTES" envDefault:"200"`
		ConsoleSender string        `env:"MESH_CONSOLE_SENDER" envDefault:"!00000001"`
	}
	Bot struct {
		HistoryCount       int    `env:"HISTORY_COUNT" envDefault:"5"`
		Lang               string `env:"REPLY_LANG" envDefault:"en"`
		RateLimitPerMinute uint64 `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	}
	App struct {
		LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`
		MetricsPort int    `env:"METRICS_PORT" envDefault:"9010"`
		SentryDSN   string `env:"SENTRY_DSN"`
	}
}

// Error describes a configuration value that prevents the bot from starting.
type Error struct {
	Variable string
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Variable, e.Reason)
}

var networks = map[string]*chaincfg.Params{
	chaincfg.MainNetParams.Name:       &chaincfg.MainNetParams,
	chaincfg.TestNet3Params.Name:      &chaincfg.TestNet3Params,
	chaincfg.RegressionNetParams.Name: &chaincfg.RegressionNetParams,
	chaincfg.SigNetParams.Name:        &chaincfg.SigNetParams,
}

// Load reads the configuration from the process environment and validates it.
func Load() (Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (Config, error) {
	var c Config
	if err := env.ParseWithFuncs(&c, map[reflect.Type]env.ParserFunc{
		reflect.TypeOf(decimal.Decimal{}): func(v string) (interface{}, error) {
			return decimal.NewFromString(v)
		}}, opts); err != nil {
		return Config{}, &Error{Variable: "environment", Reason: err.Error()}
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ChainParams returns the parameters of the configured bitcoin network.
func (c Config) ChainParams() *chaincfg.Params {
	if params, ok := networks[c.RPC.Network]; ok {
		return params
	}
	return &chaincfg.TestNet3Params
}

// validate checks c and normalizes the operator address to its canonical encoding.
func (c *Config) validate() error {
	if c.RPC.User == "" || c.RPC.Password == "" {
		return &Error{Variable: "RPC_USER/RPC_PASSWORD", Reason: "must be set"}
	}
	params, ok := networks[c.RPC.Network]
	if !ok {
		return &Error{Variable: "BITCOIN_NETWORK", Reason: fmt.Sprintf("unknown network %q", c.RPC.Network)}
	}
	if c.Fees.OperatorAddress == "" {
		return &Error{Variable: "NODE_OPERATOR_ADDRESS", Reason: "must be set"}
	}
	if strings.Contains(c.Fees.OperatorAddress, "xxxx") {
		return &Error{Variable: "NODE_OPERATOR_ADDRESS", Reason: "still contains the placeholder value"}
	}
	addr, err := btcutil.DecodeAddress(c.Fees.OperatorAddress, params)
	if err != nil || !addr.IsForNet(params) {
		return &Error{Variable: "NODE_OPERATOR_ADDRESS", Reason: fmt.Sprintf("not a valid %s address", params.Name)}
	}
	c.Fees.OperatorAddress = addr.EncodeAddress()
	if c.Fees.OperatorPercent.IsNegative() || c.Fees.OperatorPercent.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return &Error{Variable: "NODE_OPERATOR_FEE_PERCENT", Reason: "must be in [0, 100)"}
	}
	if !c.Fees.FallbackMinerFee.IsPositive() {
		return &Error{Variable: "FALLBACK_MINER_FEE_BTC", Reason: "must be positive"}
	}
	if c.Fees.ConfTarget < 1 {
		return &Error{Variable: "FEE_CONF_TARGET", Reason: "must be at least 1 block"}
	}
	if c.Pending.TTL <= 0 {
		return &Error{Variable: "PENDING_TX_TTL", Reason: "must be positive"}
	}
	switch c.Mesh.Transport {
	case TransportBridge:
		if c.Mesh.BridgeURL == "" {
			return &Error{Variable: "MESH_BRIDGE_URL", Reason: "must be set for the bridge transport"}
		}
	case TransportConsole:
	default:
		return &Error{Variable: "MESH_TRANSPORT", Reason: fmt.Sprintf("unknown transport %q", c.Mesh.Transport)}
	}
	if c.Mesh.MaxTextBytes < 16 {
		return &Error{Variable: "MESH_MAX_TEXT_BYTES", Reason: "must be at least 16"}
	}
	if c.Bot.HistoryCount < 1 {
		return &Error{Variable: "HISTORY_COUNT", Reason: "must be at least 1"}
	}
	return nil
}
