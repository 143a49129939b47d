package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/stretchr/testify/require"
)

const testOperatorAddress = "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"

func validEnvironment() map[string]string {
	return map[string]string{
		"RPC_USER":              "bitcoin",
		"RPC_PASSWORD":          "secret",
		"NODE_OPERATOR_ADDRESS": testOperatorAddress,
	}
}

func TestLoad_Defaults(t *testing.T) {
	c, err := load(env.Options{Environment: validEnvironment()})
	require.Nil(t, err)
	require.Equal(t, "127.0.0.1", c.RPC.Host)
	require.Equal(t, 18332, c.RPC.Port)
	require.Equal(t, "testnet3", c.ChainParams().Name)
	require.Equal(t, 10*time.Second, c.RPC.Timeout)
	require.Equal(t, "0.5", c.Fees.OperatorPercent.String())
	require.Equal(t, "0.00001", c.Fees.FallbackMinerFee.String())
	require.Equal(t, int64(6), c.Fees.ConfTarget)
	require.Equal(t, 120*time.Second, c.Pending.TTL)
	require.Equal(t, TransportBridge, c.Mesh.Transport)
	require.Equal(t, 200, c.Mesh.MaxTextBytes)
	require.Equal(t, 5, c.Bot.HistoryCount)
	require.Equal(t, "en", c.Bot.Lang)
	require.Equal(t, "INFO", c.App.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	environment := validEnvironment()
	environment["NODE_OPERATOR_FEE_PERCENT"] = "1.25"
	environment["BITCOIN_NETWORK"] = "mainnet"
	environment["NODE_OPERATOR_ADDRESS"] = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	environment["PENDING_TX_TTL"] = "90s"
	environment["MESH_TRANSPORT"] = "console"

	c, err := load(env.Options{Environment: environment})
	require.Nil(t, err)
	require.Equal(t, "1.25", c.Fees.OperatorPercent.String())
	require.Equal(t, "mainnet", c.ChainParams().Name)
	require.Equal(t, 90*time.Second, c.Pending.TTL)
	require.Equal(t, TransportConsole, c.Mesh.Transport)
}

func TestLoad_OperatorAddressCanonical(t *testing.T) {
	environment := validEnvironment()
	environment["NODE_OPERATOR_ADDRESS"] = strings.ToUpper(testOperatorAddress)

	c, err := load(env.Options{Environment: environment})
	require.Nil(t, err)
	require.Equal(t, testOperatorAddress, c.Fees.OperatorAddress)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		variable string
	}{
		{
			name:     "missing credentials",
			override: map[string]string{"RPC_PASSWORD": ""},
			variable: "RPC_USER/RPC_PASSWORD",
		},
		{
			name:     "placeholder operator address",
			override: map[string]string{"NODE_OPERATOR_ADDRESS": "tb1qxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"},
			variable: "NODE_OPERATOR_ADDRESS",
		},
		{
			name:     "operator address of another network",
			override: map[string]string{"NODE_OPERATOR_ADDRESS": "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"},
			variable: "NODE_OPERATOR_ADDRESS",
		},
		{
			name:     "missing operator address",
			override: map[string]string{"NODE_OPERATOR_ADDRESS": ""},
			variable: "NODE_OPERATOR_ADDRESS",
		},
		{
			name:     "unknown network",
			override: map[string]string{"BITCOIN_NETWORK": "litecoin"},
			variable: "BITCOIN_NETWORK",
		},
		{
			name:     "fee percent out of range",
			override: map[string]string{"NODE_OPERATOR_FEE_PERCENT": "100"},
			variable: "NODE_OPERATOR_FEE_PERCENT",
		},
		{
			name:     "unknown transport",
			override: map[string]string{"MESH_TRANSPORT": "lora"},
			variable: "MESH_TRANSPORT",
		},
		{
			name:     "malformed decimal",
			override: map[string]string{"NODE_OPERATOR_FEE_PERCENT": "half"},
			variable: "environment",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environment := validEnvironment()
			for k, v := range tt.override {
				environment[k] = v
			}
			_, err := load(env.Options{Environment: environment})
			var configErr *Error
			require.True(t, errors.As(err, &configErr), "%v", err)
			require.Equal(t, tt.variable, configErr.Variable)
		})
	}
}
