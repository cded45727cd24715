package models

import "fmt"

// Direction is the categorical sign of a forecast.
type Direction string

const (
	DirectionUp      Direction = "+"
	DirectionDown    Direction = "-"
	DirectionNeutral Direction = "0"
)

// Directions lists every valid direction in sampling order.
var Directions = [...]Direction{DirectionUp, DirectionDown, DirectionNeutral}

// Valid reports whether d is one of the enumerated directions.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown, DirectionNeutral:
		return true
	}
	return false
}

const (
	MinConfidence = 55
	MaxConfidence = 90
	MaxAbsValue   = 0.005
	ValueDecimals = 5
)

// Forecast is a synthetic forecast for one asset.
// Note: no transport (json/http) concerns here.
type Forecast struct {
	Asset      string
	Direction  Direction
	Confidence int     // percent, MinConfidence..MaxConfidence
	Value      float64 // -MaxAbsValue..MaxAbsValue, ValueDecimals places
	Note       string
}

// ForecastNote builds the human-readable note for asset.
func ForecastNote(asset string) string {
	return fmt.Sprintf("Simulated forecast for %s.", asset)
}

// Gateway sources, in the order they are consulted.
const (
	SourceML     = "ml_service"
	SourceOpenAI = "openai_fallback"
	SourceNone   = "none"
)

// GatewayForecast is the result of consulting the upstream forecasters.
type GatewayForecast struct {
	Source     string
	Asset      string
	Prediction string
	Confidence string
	Value      *float64
	Note       string
	Reason     string
}
