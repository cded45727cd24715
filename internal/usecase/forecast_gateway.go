package usecase

import (
	"context"
	"encoding/json"
	"time"

	"MiniForecast/internal/domain/models"
	domrepo "MiniForecast/internal/domain/repository"
	domsvc "MiniForecast/internal/domain/service"
	icache "MiniForecast/internal/service/cache"
	applogger "MiniForecast/pkg/logger"
)

const neutralReason = "No model available"

// Upstream is a named forecaster consulted by the gateway.
type Upstream struct {
	Name       string
	Forecaster domsvc.UpstreamForecaster
}

// ForecastGateway asks each upstream in order and returns the first usable
// answer, or a neutral forecast when none has one.
type ForecastGateway struct {
	upstreams []Upstream
	cache     icache.BytesCache
	ttl       time.Duration
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewForecastGateway(l *applogger.Logger, m domrepo.Metrics, upstreams ...Upstream) *ForecastGateway {
	if l == nil {
		l = applogger.Nop()
	}
	return &ForecastGateway{upstreams: upstreams, metrics: m, l: l}
}

// SetCache enables caching of upstream answers for ttl. A zero ttl disables it.
func (g *ForecastGateway) SetCache(c icache.BytesCache, ttl time.Duration) {
	g.cache = c
	g.ttl = ttl
}

// Forecast never fails because of an upstream; it only returns the context
// error when the caller has gone away.
func (g *ForecastGateway) Forecast(ctx context.Context, asset string) (models.GatewayForecast, error) {
	start := time.Now()
	defer func() {
		if g.metrics != nil {
			g.metrics.RecordLatency("gateway", time.Since(start).Seconds())
		}
	}()

	if f, ok := g.cached(ctx, asset); ok {
		g.record(f.Source)
		return f, nil
	}

	for _, u := range g.upstreams {
		f, err := u.Forecaster.Forecast(ctx, asset)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.GatewayForecast{}, ctxErr
		}
		if err != nil {
			g.l.Warn("gateway upstream failed",
				applogger.String("upstream", u.Name),
				applogger.String("asset", asset),
				applogger.Error(err),
			)
			if g.metrics != nil {
				g.metrics.RecordError(u.Name)
			}
			continue
		}
		if f == nil {
			g.l.Debug("gateway upstream had no answer", applogger.String("upstream", u.Name))
			continue
		}
		f.Asset = asset
		g.store(ctx, *f)
		g.record(f.Source)
		return *f, nil
	}

	g.record(models.SourceNone)
	return Neutral(asset), nil
}

// Neutral is the answer used when no upstream responds.
func Neutral(asset string) models.GatewayForecast {
	return models.GatewayForecast{
		Source:     models.SourceNone,
		Asset:      asset,
		Prediction: string(models.DirectionNeutral),
		Confidence: models.FormatConfidence(0),
		Reason:     neutralReason,
	}
}

func cacheKey(asset string) string { return "gateway:" + asset }

func (g *ForecastGateway) cached(ctx context.Context, asset string) (models.GatewayForecast, bool) {
	var f models.GatewayForecast
	if g.cache == nil || g.ttl <= 0 {
		return f, false
	}
	b, ok, err := g.cache.GetBytes(ctx, cacheKey(asset))
	if err != nil {
		g.l.Warn("gateway cache_get_error", applogger.Error(err))
		return f, false
	}
	if !ok {
		g.l.Debug("gateway cache_miss", applogger.String("asset", asset))
		return f, false
	}
	if err := json.Unmarshal(b, &f); err != nil {
		g.l.Warn("gateway cache_decode_error", applogger.Error(err))
		return f, false
	}
	g.l.Debug("gateway cache_hit", applogger.String("asset", asset))
	return f, true
}

func (g *ForecastGateway) store(ctx context.Context, f models.GatewayForecast) {
	if g.cache == nil || g.ttl <= 0 {
		return
	}
	b, err := json.Marshal(f)
	if err != nil {
		g.l.Warn("gateway cache_encode_error", applogger.Error(err))
		return
	}
	if err := g.cache.SetBytes(ctx, cacheKey(f.Asset), b, g.ttl); err != nil {
		g.l.Warn("gateway cache_set_error", applogger.Error(err))
	}
}

func (g *ForecastGateway) record(source string) {
	if g.metrics != nil {
		g.metrics.RecordGatewayResult(source)
	}
}
