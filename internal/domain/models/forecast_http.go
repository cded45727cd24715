package models

import "strconv"

// Requests and responses for forecast HTTP endpoints.

// PredictResponse is the wire form of a Forecast.
type PredictResponse struct {
	Asset      string    `json:"asset"`
	Prediction Direction `json:"prediction"`
	Confidence string    `json:"confidence"`
	Value      float64   `json:"value"`
	Note       string    `json:"note"`
}

// NewPredictResponse maps a Forecast to its wire form.
func NewPredictResponse(f Forecast) PredictResponse {
	return PredictResponse{
		Asset:      f.Asset,
		Prediction: f.Direction,
		Confidence: FormatConfidence(f.Confidence),
		Value:      f.Value,
		Note:       f.Note,
	}
}

// FormatConfidence renders an integer percentage as "NN%".
func FormatConfidence(pct int) string {
	return strconv.Itoa(pct) + "%"
}

// GatewayRequest carries the query of the forecast gateway route.
// Empty values fall through: asset, then a, then the configured default.
type GatewayRequest struct {
	Asset string `query:"asset" json:"asset" validate:"max=128"`
	A     string `query:"a" json:"a" validate:"max=128"`
}

// GatewayResponse is the wire form of a GatewayForecast.
type GatewayResponse struct {
	Source     string   `json:"source"`
	Asset      string   `json:"asset"`
	Prediction string   `json:"prediction"`
	Confidence string   `json:"confidence"`
	Value      *float64 `json:"value,omitempty"`
	Note       string   `json:"note,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// NewGatewayResponse maps a GatewayForecast to its wire form.
func NewGatewayResponse(g GatewayForecast) GatewayResponse {
	return GatewayResponse{
		Source:     g.Source,
		Asset:      g.Asset,
		Prediction: g.Prediction,
		Confidence: g.Confidence,
		Value:      g.Value,
		Note:       g.Note,
		Reason:     g.Reason,
	}
}
