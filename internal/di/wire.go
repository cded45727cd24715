//go:build wireinject
// +build wireinject

package di

import (
	"MiniForecast/pkg/config"
	"MiniForecast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
    wire.Build(
        // Ambient
        ProvideLogger,
        ProvideMetrics,

        // Forecast core
        ProvideSource,
        ProvideGenerator,
        ProvidePredictHandler,

        // Gateway
        ProvideOpenAIClient,
        ProvideCoinGecko,
        ProvideGatewayCache,
        ProvideGateway,
        ProvideForecastHandler,
        ProvideStatusHandler,

        // Transport
        ProvideHandlers,
        ProvideHTTPServer,

        // Application server
        ProvideApp,
    )
    return nil, nil, nil
}
