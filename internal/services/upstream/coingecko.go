package upstream

import (
    "context"
    "errors"
    "fmt"
    "strings"

    domsvc "MiniForecast/internal/domain/service"
    xhttp "MiniForecast/pkg/http"
)

var errNoMarketCap = errors.New("coingecko: reply has no usd market cap")

// CoinGecko reads aggregate market data from the public CoinGecko API.
type CoinGecko struct {
    base    *HTTPServiceBase
    baseURL string
}

func NewCoinGecko(base *HTTPServiceBase, baseURL string) *CoinGecko {
    return &CoinGecko{base: base, baseURL: strings.TrimRight(baseURL, "/")}
}

type globalResp struct {
    Data *struct {
        TotalMarketCap map[string]float64 `json:"total_market_cap"`
    } `json:"data"`
}

func (g *CoinGecko) GlobalMarketCapUSD(ctx context.Context) (float64, error) {
    var gr globalResp
    err := g.base.Do(ctx, &xhttp.RequestOptions{
        Method: xhttp.MethodGet,
        URL:    g.baseURL + "/global",
    }, &gr)
    if err != nil {
        return 0, fmt.Errorf("coingecko: %w", err)
    }
    if gr.Data == nil {
        return 0, errNoMarketCap
    }
    usd, ok := gr.Data.TotalMarketCap["usd"]
    if !ok {
        return 0, errNoMarketCap
    }
    return usd, nil
}

var _ domsvc.MarketCapSource = (*CoinGecko)(nil)
