package di

import (
    "context"
    "fmt"
    "time"

    "MiniForecast/internal/domain/models"
    "MiniForecast/internal/handler/api"
    icache "MiniForecast/internal/service/cache"
    "MiniForecast/internal/service/ratelimit"
    "MiniForecast/internal/services/forecast"
    "MiniForecast/internal/services/upstream"
    "MiniForecast/internal/usecase"
    "MiniForecast/pkg/config"
    xhttp "MiniForecast/pkg/http"
    applogger "MiniForecast/pkg/logger"
    "MiniForecast/pkg/metrics"
    "MiniForecast/pkg/server"

    "github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
    l, err := applogger.New(&applogger.Config{
        Level:  cfg.Logger.Level,
        Format: cfg.Logger.Format,
        Output: cfg.Logger.Output,
    })
    if err != nil {
        return nil, fmt.Errorf("logger: %w", err)
    }
    return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() *metrics.Recorder {
    return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideSource picks the random source: seeded when forecast.seed is set.
func ProvideSource(cfg *config.Config) forecast.Source {
    if cfg.Forecast.Seed != 0 {
        return forecast.NewSeededSource(cfg.Forecast.Seed)
    }
    return forecast.NewSource()
}

// ProvideGenerator creates the forecast generator.
func ProvideGenerator(src forecast.Source, m *metrics.Recorder) *forecast.Generator {
    g := forecast.NewGenerator(src)
    g.SetMetrics(m)
    return g
}

// ProvidePredictHandler creates the /predict handler.
func ProvidePredictHandler(cfg *config.Config, l *applogger.Logger, gen *forecast.Generator) *api.PredictEchoHandler {
    return api.NewPredictEchoHandler(l, gen, cfg.Forecast.Path, cfg.Forecast.DefaultAsset)
}

// ProvideGatewayCache creates the gateway answer cache. It returns nil when
// the gateway or caching is disabled.
func ProvideGatewayCache(cfg *config.Config, l *applogger.Logger) (icache.BytesCache, func(), error) {
    if !cfg.Gateway.Enabled || cfg.Gateway.CacheTTL == 0 {
        return nil, func() {}, nil
    }

    var c icache.BytesCache
    if cfg.Gateway.Redis.Enabled {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        rc, err := icache.NewRedisCache(ctx, icache.RedisConfig{
            Addr:     cfg.Gateway.Redis.Addr,
            Password: cfg.Gateway.Redis.Password,
            DB:       cfg.Gateway.Redis.DB,
            Prefix:   cfg.Gateway.Redis.Prefix,
        })
        if err != nil {
            return nil, nil, fmt.Errorf("redis cache: %w", err)
        }
        l.Info("gateway cache: redis", applogger.String("addr", cfg.Gateway.Redis.Addr))
        c = rc
    } else {
        c = icache.NewTTLCache()
    }

    cleanup := func() {
        if err := c.Close(); err != nil {
            l.Warn("gateway cache close error", applogger.Error(err))
        }
    }
    return c, cleanup, nil
}

// ProvideOpenAIClient creates the OpenAI client shared by the forecast
// fallback and the /ai check. It returns nil when the gateway is disabled.
func ProvideOpenAIClient(cfg *config.Config) *upstream.OpenAIForecaster {
    if !cfg.Gateway.Enabled {
        return nil
    }
    oc := cfg.Gateway.OpenAI
    return upstream.NewOpenAIForecaster(upstream.NewHTTPServiceBase(cfg.Gateway.Timeout, 1), upstream.OpenAIConfig{
        APIKey:      oc.APIKey,
        BaseURL:     oc.BaseURL,
        Model:       oc.Model,
        MaxTokens:   oc.MaxTokens,
        Temperature: oc.Temperature,
    }, ratelimit.New(oc.RPS, oc.Burst))
}

// ProvideCoinGecko creates the market data client behind /crypto, or nil
// without a gateway.
func ProvideCoinGecko(cfg *config.Config) *upstream.CoinGecko {
    if !cfg.Gateway.Enabled {
        return nil
    }
    base := upstream.NewHTTPServiceBase(cfg.Gateway.Timeout, cfg.Gateway.RetryMax)
    return upstream.NewCoinGecko(base, cfg.Gateway.CoinGeckoURL)
}

// ProvideGateway assembles the upstream chain: ML service, then OpenAI when
// an API key is configured. It returns nil when the gateway is disabled.
func ProvideGateway(cfg *config.Config, l *applogger.Logger, m *metrics.Recorder, c icache.BytesCache, oa *upstream.OpenAIForecaster) *usecase.ForecastGateway {
    if !cfg.Gateway.Enabled {
        return nil
    }
    gc := cfg.Gateway

    var ups []usecase.Upstream
    if gc.MLServiceURL != "" {
        base := upstream.NewHTTPServiceBase(gc.Timeout, gc.RetryMax)
        ups = append(ups, usecase.Upstream{
            Name:       models.SourceML,
            Forecaster: upstream.NewMLForecaster(base, gc.MLServiceURL),
        })
    }
    if oa != nil && gc.OpenAI.APIKey != "" {
        ups = append(ups, usecase.Upstream{Name: models.SourceOpenAI, Forecaster: oa})
    }

    gw := usecase.NewForecastGateway(l.With(applogger.String("component", "gateway")), m, ups...)
    if c != nil {
        gw.SetCache(c, gc.CacheTTL)
    }
    l.Info("forecast gateway enabled",
        applogger.String("path", gc.Path),
        applogger.Int("upstreams", len(ups)),
        applogger.Duration("cache_ttl", gc.CacheTTL),
    )
    return gw
}

// ProvideForecastHandler creates the gateway handler, or nil without a gateway.
func ProvideForecastHandler(cfg *config.Config, l *applogger.Logger, gw *usecase.ForecastGateway) *api.ForecastEchoHandler {
    if gw == nil {
        return nil
    }
    return api.NewForecastEchoHandler(l, gw, cfg.Gateway.Path, cfg.Forecast.DefaultAsset)
}

// ProvideStatusHandler creates the liveness and connectivity routes served
// alongside the gateway, or nil without one.
func ProvideStatusHandler(l *applogger.Logger, oa *upstream.OpenAIForecaster, cg *upstream.CoinGecko) *api.StatusEchoHandler {
    if oa == nil || cg == nil {
        return nil
    }
    return api.NewStatusEchoHandler(l, oa, cg)
}

// ProvideHandlers collects the route handlers that are enabled.
func ProvideHandlers(p *api.PredictEchoHandler, f *api.ForecastEchoHandler, st *api.StatusEchoHandler) xhttp.Handler {
    hs := xhttp.Handlers{p}
    if f != nil {
        hs = append(hs, f)
    }
    if st != nil {
        hs = append(hs, st)
    }
    return hs
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, m *metrics.Recorder, h xhttp.Handler) *xhttp.Server {
    opts := []xhttp.ServerOption{
        xhttp.WithHost(cfg.Server.Host),
        xhttp.WithPort(cfg.Server.Port),
        xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
        xhttp.WithCORS(cfg.Server.CORS),
        xhttp.WithLogger(l),
    }
    if cfg.Metrics.Enabled {
        opts = append(opts, xhttp.WithMetrics(m, prometheus.DefaultGatherer, cfg.Metrics.Path, cfg.Server.SlowThreshold))
    }
    return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(l *applogger.Logger, srv *xhttp.Server) *server.App {
    return server.New(l, srv)
}
