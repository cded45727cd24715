package service

import (
	"context"

	"MiniForecast/internal/domain/models"
)

// ForecastGenerator produces a synthetic forecast for an asset. It never fails.
type ForecastGenerator interface {
	Generate(asset string) models.Forecast
}

// UpstreamForecaster asks an external model for a forecast.
// A nil result with a nil error means the upstream had nothing usable.
type UpstreamForecaster interface {
	Forecast(ctx context.Context, asset string) (*models.GatewayForecast, error)
}

// ModelLister reports how many models an LLM provider exposes to us.
type ModelLister interface {
	ModelCount(ctx context.Context) (int, error)
}

// MarketCapSource reports the total crypto market capitalisation in USD.
type MarketCapSource interface {
	GlobalMarketCapUSD(ctx context.Context) (float64, error)
}
