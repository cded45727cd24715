package upstream

import (
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "MiniForecast/internal/domain/models"
    "MiniForecast/internal/service/ratelimit"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func newBase(attempts int) *HTTPServiceBase {
    b := NewHTTPServiceBase(time.Second, attempts)
    b.interval = time.Millisecond
    return b
}

func jsonServer(t *testing.T, calls *int32, fn func(w http.ResponseWriter, r *http.Request, n int32)) *httptest.Server {
    t.Helper()
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        n := atomic.AddInt32(calls, 1)
        fn(w, r, n)
    }))
    t.Cleanup(srv.Close)
    return srv
}

func TestMLForecasterMapsReply(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, r *http.Request, _ int32) {
        assert.Equal(t, "ETH/USD", r.URL.Query().Get("asset"))
        _, _ = io.WriteString(w, `{"asset":"ETH/USD","prediction":"-","confidence":"77%","value":-0.00231,"note":"Simulated forecast for ETH/USD."}`)
    })

    f, err := NewMLForecaster(newBase(1), srv.URL).Forecast(context.Background(), "ETH/USD")
    require.NoError(t, err)
    require.NotNil(t, f)
    assert.Equal(t, models.SourceML, f.Source)
    assert.Equal(t, "ETH/USD", f.Asset)
    assert.Equal(t, "-", f.Prediction)
    assert.Equal(t, "77%", f.Confidence)
    require.NotNil(t, f.Value)
    assert.Equal(t, -0.00231, *f.Value)
    assert.Equal(t, "Simulated forecast for ETH/USD.", f.Note)
}

func TestMLForecasterFallbacks(t *testing.T) {
    tests := []struct {
        name       string
        body       string
        usable     bool
        prediction string
        confidence string
    }{
        {"value only", `{"value":0.001}`, true, "0", "50%"},
        {"confidence pct", `{"prediction":"+","confidence_pct":63}`, true, "+", "63%"},
        {"numeric confidence", `{"prediction":"+","confidence":81}`, true, "+", "81%"},
        {"zero value no prediction", `{"value":0}`, false, "", ""},
        {"empty object", `{}`, false, "", ""},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            var calls int32
            srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, _ int32) {
                _, _ = io.WriteString(w, tt.body)
            })
            f, err := NewMLForecaster(newBase(1), srv.URL).Forecast(context.Background(), "BTC/USD")
            require.NoError(t, err)
            if !tt.usable {
                assert.Nil(t, f)
                return
            }
            require.NotNil(t, f)
            assert.Equal(t, tt.prediction, f.Prediction)
            assert.Equal(t, tt.confidence, f.Confidence)
        })
    }
}

func TestMLForecasterDropsZeroValue(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, _ int32) {
        _, _ = io.WriteString(w, `{"prediction":"0","confidence":"60%","value":0}`)
    })

    f, err := NewMLForecaster(newBase(1), srv.URL).Forecast(context.Background(), "BTC/USD")
    require.NoError(t, err)
    require.NotNil(t, f)
    assert.Equal(t, "0", f.Prediction)
    assert.Nil(t, f.Value)

    b, err := json.Marshal(models.NewGatewayResponse(*f))
    require.NoError(t, err)
    assert.NotContains(t, string(b), `"value"`)
}

func TestMLForecasterRetriesTransientFailures(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, n int32) {
        if n < 3 {
            http.Error(w, "warming up", http.StatusServiceUnavailable)
            return
        }
        _, _ = io.WriteString(w, `{"prediction":"+"}`)
    })

    f, err := NewMLForecaster(newBase(3), srv.URL).Forecast(context.Background(), "BTC/USD")
    require.NoError(t, err)
    require.NotNil(t, f)
    assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestMLForecasterGivesUpAfterAttempts(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, _ int32) {
        http.Error(w, "down", http.StatusBadGateway)
    })

    _, err := NewMLForecaster(newBase(2), srv.URL).Forecast(context.Background(), "BTC/USD")
    assert.Error(t, err)
    assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestMLForecasterDoesNotRetryClientErrors(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, _ int32) {
        http.Error(w, "no", http.StatusNotFound)
    })

    _, err := NewMLForecaster(newBase(5), srv.URL).Forecast(context.Background(), "BTC/USD")
    assert.Error(t, err)
    assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestOpenAIForecaster(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, r *http.Request, _ int32) {
        assert.Equal(t, "/chat/completions", r.URL.Path)
        assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

        var req chatReq
        assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
        assert.Equal(t, "test-model", req.Model)
        assert.Equal(t, 120, req.MaxTokens)
        if assert.Len(t, req.Messages, 1) {
            assert.Contains(t, req.Messages[0].Content, `"SOL/USD"`)
        }

        _, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":" +|72%|Momentum is building. "}}]}`)
    })

    o := NewOpenAIForecaster(newBase(1), OpenAIConfig{
        APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "test-model", MaxTokens: 120, Temperature: 0.2,
    }, nil)
    f, err := o.Forecast(context.Background(), "SOL/USD")
    require.NoError(t, err)
    require.NotNil(t, f)
    assert.Equal(t, models.SourceOpenAI, f.Source)
    assert.Equal(t, "SOL/USD", f.Asset)
    assert.Equal(t, "+", f.Prediction)
    assert.Equal(t, "72%", f.Confidence)
    assert.Equal(t, "Momentum is building.", f.Reason)
}

func TestOpenAIForecasterEmptyChoices(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, _ int32) {
        _, _ = io.WriteString(w, `{"choices":[]}`)
    })
    o := NewOpenAIForecaster(newBase(1), OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"}, nil)
    f, err := o.Forecast(context.Background(), "BTC/USD")
    require.NoError(t, err)
    assert.Nil(t, f)
}

func TestOpenAIForecasterRateLimited(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, _ int32) {
        _, _ = io.WriteString(w, `{"choices":[{"message":{"content":"0|55%|flat"}}]}`)
    })
    o := NewOpenAIForecaster(newBase(1), OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"}, ratelimit.New(0.001, 1))

    _, err := o.Forecast(context.Background(), "BTC/USD")
    require.NoError(t, err)
    _, err = o.Forecast(context.Background(), "BTC/USD")
    assert.ErrorIs(t, err, ErrRateLimited)
    assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestOpenAIForecasterWithoutKey(t *testing.T) {
    o := NewOpenAIForecaster(newBase(1), OpenAIConfig{BaseURL: "http://127.0.0.1:1"}, nil)

    _, err := o.Forecast(context.Background(), "BTC/USD")
    assert.ErrorIs(t, err, ErrNoAPIKey)
    _, err = o.ModelCount(context.Background())
    assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestOpenAIModelCount(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, r *http.Request, _ int32) {
        assert.Equal(t, http.MethodGet, r.Method)
        assert.Equal(t, "/v1/models", r.URL.Path)
        assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
        _, _ = io.WriteString(w, `{"object":"list","data":[{"id":"a"},{"id":"b"},{"id":"c"}]}`)
    })
    o := NewOpenAIForecaster(newBase(1), OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1"}, ratelimit.New(0.001, 1))

    for i := 0; i < 2; i++ {
        n, err := o.ModelCount(context.Background())
        require.NoError(t, err)
        assert.Equal(t, 3, n)
    }
}

func TestOpenAIModelCountUnauthorized(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, _ int32) {
        http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
    })
    o := NewOpenAIForecaster(newBase(3), OpenAIConfig{APIKey: "wrong", BaseURL: srv.URL}, nil)

    _, err := o.ModelCount(context.Background())
    require.Error(t, err)
    assert.Contains(t, err.Error(), "401")
    assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCoinGeckoGlobalMarketCap(t *testing.T) {
    var calls int32
    srv := jsonServer(t, &calls, func(w http.ResponseWriter, r *http.Request, _ int32) {
        assert.Equal(t, "/api/v3/global", r.URL.Path)
        _, _ = io.WriteString(w, `{"data":{"active_cryptocurrencies":1,"total_market_cap":{"btc":40000000,"usd":2512345678901.5}}}`)
    })

    usd, err := NewCoinGecko(newBase(1), srv.URL+"/api/v3/").GlobalMarketCapUSD(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 2512345678901.5, usd)
}

func TestCoinGeckoMissingData(t *testing.T) {
    for _, body := range []string{`{}`, `{"data":{"total_market_cap":{"eur":1}}}`} {
        var calls int32
        srv := jsonServer(t, &calls, func(w http.ResponseWriter, _ *http.Request, _ int32) {
            _, _ = io.WriteString(w, body)
        })
        _, err := NewCoinGecko(newBase(1), srv.URL).GlobalMarketCapUSD(context.Background())
        assert.ErrorIs(t, err, errNoMarketCap, body)
    }
}

func TestParseReply(t *testing.T) {
    tests := []struct {
        in                             string
        prediction, confidence, reason string
    }{
        {"+|72%|Strong bid", "+", "72%", "Strong bid"},
        {"-|60%|a|b", "-", "60%", "a | b"},
        {"0", "0", "50%", "0"},
        {"Looks flat to me", "Looks flat to me", "50%", "Looks flat to me"},
        {"|", "0", "50%", "|"},
    }
    for _, tt := range tests {
        f := ParseReply(tt.in)
        assert.Equal(t, tt.prediction, f.Prediction, tt.in)
        assert.Equal(t, tt.confidence, f.Confidence, tt.in)
        assert.Equal(t, tt.reason, f.Reason, tt.in)
    }
}
