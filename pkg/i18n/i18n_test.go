package i18n

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func TestConvertLang(t *testing.T) {
	tests := []struct {
		name string
		want string
		lang string
	}{
		{
			name: "walletNotFound",
			want: "Wallet not found. Use !createwallet first.",
			lang: "en-US,ru;q=0.5",
		},
		{
			name: "walletNotFound",
			want: "Wallet not found. Use !createwallet first.",
			lang: "en",
		},
		{
			name: "walletNotFound",
			want: "Кошелёк не найден. Сначала выполните !createwallet.",
			lang: "ru-RU,ru;q=0.5",
		},
		{
			name: "walletNotFound",
			want: "Кошелёк не найден. Сначала выполните !createwallet.",
			lang: "ru",
		},
		{
			name: "unknownName",
			want: "",
			lang: "ru-RU,ru;q=0.5",
		},
		{
			name: "walletNotFound",
			want: "Wallet not found. Use !createwallet first.",
			lang: "unknownLang", // default en
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Msg(tt.lang, tt.name, nil))
		})
	}
}

func TestMsg(t *testing.T) {
	tests := []struct {
		name string
		lang string
		id   string
		data Template
		want string
	}{
		{
			name: "confirm send",
			lang: "en",
			id:   "confirmSend",
			data: Template{"Total": "0.01007820", "MinerFee": "0.00002820", "Token": "0011223344556677"},
			want: "CONFIRM SEND:\nTotal: 0.01007820 BTC\n(incl. miner fee ~0.00002820 BTC)\nReply with: !confirm 0011223344556677",
		},
		{
			name: "balance",
			lang: "en",
			id:   "balance",
			data: Template{"BTC": "0.50000000", "USD": "25,000.00"},
			want: "Balance: 0.50000000 BTC (~$25,000.00 USD)",
		},
		{
			name: "unknown command",
			lang: "en",
			id:   "unknownCommand",
			data: Template{"Command": "!foo"},
			want: "Unknown command: !foo",
		},
		{
			name: "usage keeps dollar sign",
			lang: "en",
			id:   "sendUsage",
			want: "Usage: !send <bitcoin_address> <amount_in_btc_or_$usd>",
		},
		{
			name: "russian insufficient funds",
			lang: "ru",
			id:   "insufficientFunds",
			data: Template{"Required": "0.01007820", "Available": "0.00500000"},
			want: "Ошибка: недостаточно средств. Нужно 0.01007820 BTC, доступно 0.00500000 BTC.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Msg(tt.lang, tt.id, tt.data))
		})
	}
}

func TestTranslationsComplete(t *testing.T) {
	ids := func(file string) []string {
		data, err := localeFS.ReadFile(file)
		require.Nil(t, err)
		messages := map[string]interface{}{}
		require.Nil(t, toml.Unmarshal(data, &messages))
		keys := maps.Keys(messages)
		slices.Sort(keys)
		return keys
	}
	en := ids("translations/active.en.toml")
	require.NotEmpty(t, en)
	require.Equal(t, en, ids("translations/active.ru.toml"))
}
