package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
)

// List of services used to calculate the BTC/USD price
const (
	coingecko string = "CoinGecko"
	coinbase  string = "Coinbase"
	bitfinex  string = "Bitfinex"
)

// Market is a public API quoting the BTC price in USD.
type Market struct {
	Name string
	URL  string
	// Converter extracts the BTC to USD price from the response body
	Converter func(closer io.ReadCloser) (decimal.Decimal, error)
}

// Markets returns the markets the oracle asks for a price. An empty URL disables a market.
func Markets(coingeckoURL, coinbaseURL, bitfinexURL string) []Market {
	all := []Market{
		{Name: coingecko, URL: coingeckoURL, Converter: convertedCoinGeckoResponse},
		{Name: coinbase, URL: coinbaseURL, Converter: convertedCoinbaseResponse},
		{Name: bitfinex, URL: bitfinexURL, Converter: convertedBitfinexResponse},
	}
	markets := make([]Market, 0, len(all))
	for _, m := range all {
		if m.URL != "" {
			markets = append(markets, m)
		}
	}
	return markets
}

func convertedCoinGeckoResponse(respBody io.ReadCloser) (decimal.Decimal, error) {
	defer respBody.Close()
	var data struct {
		Bitcoin struct {
			USD decimal.Decimal `json:"usd"`
		} `json:"bitcoin"`
	}
	if err := json.NewDecoder(respBody).Decode(&data); err != nil {
		return decimal.Zero, fmt.Errorf("[convertedCoinGeckoResponse] failed to decode response: %v", err)
	}
	return data.Bitcoin.USD, nil
}

func convertedCoinbaseResponse(respBody io.ReadCloser) (decimal.Decimal, error) {
	defer respBody.Close()
	var data struct {
		Data struct {
			Currency string            `json:"currency"`
			Rates    map[string]string `json:"rates"`
		} `json:"data"`
	}
	if err := json.NewDecoder(respBody).Decode(&data); err != nil {
		return decimal.Zero, fmt.Errorf("[convertedCoinbaseResponse] failed to decode response: %v", err)
	}
	if data.Data.Currency != "BTC" {
		return decimal.Zero, fmt.Errorf("[convertedCoinbaseResponse] unexpected base currency %q", data.Data.Currency)
	}
	rate, ok := data.Data.Rates["USD"]
	if !ok {
		return decimal.Zero, fmt.Errorf("[convertedCoinbaseResponse] empty data")
	}
	price, err := decimal.NewFromString(rate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("[convertedCoinbaseResponse] failed to parse price: %v", err)
	}
	return price, nil
}

func convertedBitfinexResponse(respBody io.ReadCloser) (decimal.Decimal, error) {
	defer respBody.Close()
	var prices []decimal.Decimal
	if err := json.NewDecoder(respBody).Decode(&prices); err != nil {
		return decimal.Zero, fmt.Errorf("[convertedBitfinexResponse] failed to decode response: %v", err)
	}
	if len(prices) == 0 {
		return decimal.Zero, fmt.Errorf("[convertedBitfinexResponse] empty data")
	}
	if len(prices) > 6 { // Price of the last trade
		return prices[6], nil
	}
	// Price of last highest bid
	return prices[0], nil
}

func sendRequest(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var errRespBody string
		if respBody, err := io.ReadAll(io.LimitReader(resp.Body, 512)); err == nil {
			errRespBody = string(respBody)
		}
		resp.Body.Close()
		return nil, fmt.Errorf("bad status code: %v %v %v", resp.StatusCode, url, errRespBody)
	}
	return resp.Body, nil
}
