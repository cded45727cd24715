package api

import (
	"MiniForecast/internal/domain/models"
	domsvc "MiniForecast/internal/domain/service"
	xhttp "MiniForecast/pkg/http"
	xlogger "MiniForecast/pkg/logger"
	"MiniForecast/pkg/util"

	"github.com/labstack/echo/v4"
)

// PredictEchoHandler serves synthetic forecasts.
//
// The asset parameter is deliberately not validated: an absent parameter
// resolves to the configured default and any supplied value, including the
// empty string, is echoed verbatim.
type PredictEchoHandler struct {
	logger       *xlogger.Logger
	gen          domsvc.ForecastGenerator
	path         string
	defaultAsset string
}

func NewPredictEchoHandler(logger *xlogger.Logger, gen domsvc.ForecastGenerator, path, defaultAsset string) *PredictEchoHandler {
	return &PredictEchoHandler{logger: logger, gen: gen, path: path, defaultAsset: defaultAsset}
}

func (h *PredictEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET(h.path, h.Predict)
}

func (h *PredictEchoHandler) Predict(c echo.Context) error {
	asset := util.ResolveParam(c.QueryParams()["asset"], h.defaultAsset)

	f := h.gen.Generate(asset)
	h.logger.Debug("predict served",
		xlogger.String("asset", f.Asset),
		xlogger.String("direction", string(f.Direction)),
		xlogger.Int("confidence", f.Confidence),
	)
	return xhttp.JSONResponse(c, models.NewPredictResponse(f))
}
