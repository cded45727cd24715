package upstream

import (
    "context"
    "fmt"

    "MiniForecast/internal/domain/models"
    domsvc "MiniForecast/internal/domain/service"
    xhttp "MiniForecast/pkg/http"
)

// MLForecaster queries an ML microservice exposing the /predict contract.
type MLForecaster struct {
    base *HTTPServiceBase
    url  string
}

func NewMLForecaster(base *HTTPServiceBase, url string) *MLForecaster {
    return &MLForecaster{base: base, url: url}
}

type mlResp struct {
    Prediction    string      `json:"prediction"`
    Confidence    interface{} `json:"confidence"`
    ConfidencePct *float64    `json:"confidence_pct"`
    Value         *float64    `json:"value"`
    Note          string      `json:"note"`
}

// usable mirrors the acceptance rule: a prediction or a non-zero value.
func (r mlResp) usable() bool {
    return r.Prediction != "" || (r.Value != nil && *r.Value != 0)
}

func (r mlResp) confidence() string {
    switch v := r.Confidence.(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        if v != 0 {
            return fmt.Sprintf("%g%%", v)
        }
    }
    if r.ConfidencePct != nil && *r.ConfidencePct != 0 {
        return fmt.Sprintf("%g%%", *r.ConfidencePct)
    }
    return "50%"
}

func (m *MLForecaster) Forecast(ctx context.Context, asset string) (*models.GatewayForecast, error) {
    var mr mlResp
    err := m.base.Do(ctx, &xhttp.RequestOptions{
        Method:      xhttp.MethodGet,
        URL:         m.url,
        QueryParams: map[string][]string{"asset": {asset}},
    }, &mr)
    if err != nil {
        return nil, fmt.Errorf("ml service: %w", err)
    }
    if !mr.usable() {
        return nil, nil
    }

    prediction := mr.Prediction
    if prediction == "" {
        prediction = string(models.DirectionNeutral)
    }
    // a zero value carries no signal and is reported as absent
    value := mr.Value
    if value != nil && *value == 0 {
        value = nil
    }
    return &models.GatewayForecast{
        Source:     models.SourceML,
        Asset:      asset,
        Prediction: prediction,
        Confidence: mr.confidence(),
        Value:      value,
        Note:       mr.Note,
    }, nil
}

var _ domsvc.UpstreamForecaster = (*MLForecaster)(nil)
