package models

// Liveness is the plain-text body of the root route.
const Liveness = "ASPX Backend is running successfully 🚀"

// AIStatusResponse reports LLM provider connectivity.
type AIStatusResponse struct {
	Status string `json:"status"`
	Models int    `json:"models"`
}

// MarketStatusResponse reports market data connectivity.
type MarketStatusResponse struct {
	Status       string  `json:"status"`
	MarketCapUSD float64 `json:"market_cap_usd"`
}

// StatusErrorResponse is returned with 500 when a connectivity check fails.
type StatusErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
