package forecast

import (
	"math"
	"time"

	"MiniForecast/internal/domain/models"
	domrepo "MiniForecast/internal/domain/repository"
	domsvc "MiniForecast/internal/domain/service"
)

// Generator draws synthetic forecasts from a Source.
type Generator struct {
	src     Source
	metrics domrepo.Metrics
}

// NewGenerator builds a generator. A nil src falls back to the process-wide source.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = NewSource()
	}
	return &Generator{src: src}
}

// SetMetrics injects a metrics recorder.
func (g *Generator) SetMetrics(m domrepo.Metrics) { g.metrics = m }

// Generate returns a forecast for asset. Every field is sampled independently.
func (g *Generator) Generate(asset string) models.Forecast {
	start := time.Now()

	f := models.Forecast{
		Asset:      asset,
		Direction:  models.Directions[g.src.IntN(len(models.Directions))],
		Confidence: models.MinConfidence + g.src.IntN(models.MaxConfidence-models.MinConfidence+1),
		Value:      Round(-models.MaxAbsValue+g.src.Float64()*2*models.MaxAbsValue, models.ValueDecimals),
		Note:       models.ForecastNote(asset),
	}

	if g.metrics != nil {
		g.metrics.RecordForecast(string(f.Direction))
		g.metrics.RecordLatency("generate", time.Since(start).Seconds())
	}
	return f
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

var _ domsvc.ForecastGenerator = (*Generator)(nil)
