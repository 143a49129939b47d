package i18n

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arnac-io/meshbtc/pkg/core"
)

// FormatBTC always prints 8 fractional digits, e.g. 0.00051000.
func FormatBTC(amount decimal.Decimal) string {
	return amount.StringFixed(core.BTCDecimals)
}

// FormatUSD rounds to cents and formats the amount according to the english locale (#,###.##).
func FormatUSD(amount decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	x := amount.RoundBank(2)
	cents := x.Abs().Sub(x.Abs().Truncate(0)).Shift(2).IntPart()
	s := p.Sprintf("%d", x.Abs().IntPart()) + fmt.Sprintf(".%02d", cents)
	if x.IsNegative() {
		return "-" + s
	}
	return s
}

// ShortTxID keeps the first 12 characters of a transaction id.
func ShortTxID(txid string) string {
	if len(txid) <= 12 {
		return txid
	}
	return txid[:12]
}
