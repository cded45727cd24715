package api

import (
	"MiniForecast/internal/domain/models"
	"MiniForecast/internal/usecase"
	xhttp "MiniForecast/pkg/http"
	xlogger "MiniForecast/pkg/logger"
	"MiniForecast/pkg/util"

	"github.com/labstack/echo/v4"
)

// ForecastEchoHandler exposes the forecast gateway.
type ForecastEchoHandler struct {
	logger       *xlogger.Logger
	gw           *usecase.ForecastGateway
	path         string
	defaultAsset string
}

func NewForecastEchoHandler(logger *xlogger.Logger, gw *usecase.ForecastGateway, path, defaultAsset string) *ForecastEchoHandler {
	return &ForecastEchoHandler{logger: logger, gw: gw, path: path, defaultAsset: defaultAsset}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET(h.path, h.Forecast)
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	req := &models.GatewayRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	asset := util.FirstNonEmpty(req.Asset, req.A, h.defaultAsset)

	res, err := h.gw.Forecast(c.Request().Context(), asset)
	if err != nil {
		h.logger.Warn("forecast gateway aborted", xlogger.String("asset", asset), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("forecast request aborted").WithError(err))
	}
	return xhttp.JSONResponse(c, models.NewGatewayResponse(res))
}
