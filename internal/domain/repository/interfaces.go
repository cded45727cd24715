package repository

// Metrics records forecast-level observations.
type Metrics interface {
	RecordForecast(direction string)
	RecordGatewayResult(source string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
