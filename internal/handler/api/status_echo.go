package api

import (
	"net/http"

	"MiniForecast/internal/domain/models"
	domsvc "MiniForecast/internal/domain/service"
	xhttp "MiniForecast/pkg/http"
	xlogger "MiniForecast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StatusEchoHandler serves the backend liveness text and upstream
// connectivity checks.
type StatusEchoHandler struct {
	logger *xlogger.Logger
	llm    domsvc.ModelLister
	market domsvc.MarketCapSource
}

func NewStatusEchoHandler(logger *xlogger.Logger, llm domsvc.ModelLister, market domsvc.MarketCapSource) *StatusEchoHandler {
	return &StatusEchoHandler{logger: logger, llm: llm, market: market}
}

func (h *StatusEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/ai", h.AI)
	e.GET("/crypto", h.Crypto)
}

func (h *StatusEchoHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, models.Liveness)
}

func (h *StatusEchoHandler) AI(c echo.Context) error {
	n, err := h.llm.ModelCount(c.Request().Context())
	if err != nil {
		h.logger.Warn("openai check failed", xlogger.Error(err))
		return c.JSON(http.StatusInternalServerError, models.StatusErrorResponse{
			Error:   "❌ OpenAI API Error",
			Details: err.Error(),
		})
	}
	return xhttp.JSONResponse(c, models.AIStatusResponse{Status: "✅ OpenAI Connected", Models: n})
}

func (h *StatusEchoHandler) Crypto(c echo.Context) error {
	usd, err := h.market.GlobalMarketCapUSD(c.Request().Context())
	if err != nil {
		h.logger.Warn("coingecko check failed", xlogger.Error(err))
		return c.JSON(http.StatusInternalServerError, models.StatusErrorResponse{
			Error:   "❌ CoinGecko API Error",
			Details: err.Error(),
		})
	}
	return xhttp.JSONResponse(c, models.MarketStatusResponse{Status: "✅ CoinGecko Connected", MarketCapUSD: usd})
}
