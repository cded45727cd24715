package upstream

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "strings"

    "MiniForecast/internal/domain/models"
    domsvc "MiniForecast/internal/domain/service"
    "MiniForecast/internal/service/ratelimit"
    xhttp "MiniForecast/pkg/http"
)

var (
    // ErrRateLimited is returned when the outbound budget is exhausted.
    ErrRateLimited = errors.New("openai: rate limited")
    ErrNoAPIKey    = errors.New("openai: api key not configured")
)

const promptTemplate = `Provide a one-line 1-minute directional forecast for asset "%s" as one of: + (up), - (down), 0 (neutral). Also provide a short confidence percent and one-sentence reason. Format: prediction|confidence|reason`

// OpenAIConfig holds chat completion parameters.
type OpenAIConfig struct {
    APIKey      string
    BaseURL     string
    Model       string
    MaxTokens   int
    Temperature float64
}

// OpenAIForecaster asks a chat model for a quick directional call.
type OpenAIForecaster struct {
    base    *HTTPServiceBase
    cfg     OpenAIConfig
    limiter *ratelimit.Limiter
}

func NewOpenAIForecaster(base *HTTPServiceBase, cfg OpenAIConfig, limiter *ratelimit.Limiter) *OpenAIForecaster {
    cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
    return &OpenAIForecaster{base: base, cfg: cfg, limiter: limiter}
}

type chatMessage struct {
    Role    string `json:"role"`
    Content string `json:"content"`
}

type chatReq struct {
    Model       string        `json:"model"`
    Messages    []chatMessage `json:"messages"`
    MaxTokens   int           `json:"max_tokens"`
    Temperature float64       `json:"temperature"`
}

type chatResp struct {
    Choices []struct {
        Message chatMessage `json:"message"`
    } `json:"choices"`
}

func (o *OpenAIForecaster) authHeader() map[string]string {
    return map[string]string{"Authorization": "Bearer " + o.cfg.APIKey}
}

func (o *OpenAIForecaster) Forecast(ctx context.Context, asset string) (*models.GatewayForecast, error) {
    if o.cfg.APIKey == "" {
        return nil, ErrNoAPIKey
    }
    if o.limiter != nil && !o.limiter.Allow("openai") {
        return nil, ErrRateLimited
    }

    var cr chatResp
    err := o.base.Do(ctx, &xhttp.RequestOptions{
        Method:  xhttp.MethodPost,
        URL:     o.cfg.BaseURL + "/chat/completions",
        Headers: o.authHeader(),
        Body: chatReq{
            Model:       o.cfg.Model,
            Messages:    []chatMessage{{Role: "user", Content: fmt.Sprintf(promptTemplate, asset)}},
            MaxTokens:   o.cfg.MaxTokens,
            Temperature: o.cfg.Temperature,
        },
    }, &cr)
    if err != nil {
        return nil, fmt.Errorf("openai: %w", err)
    }
    if len(cr.Choices) == 0 {
        return nil, nil
    }
    txt := strings.TrimSpace(cr.Choices[0].Message.Content)
    if txt == "" {
        return nil, nil
    }

    f := ParseReply(txt)
    f.Asset = asset
    return &f, nil
}

// ModelCount lists the models visible to the configured key. It doubles as a
// connectivity check and is not subject to the forecast rate limit.
func (o *OpenAIForecaster) ModelCount(ctx context.Context) (int, error) {
    if o.cfg.APIKey == "" {
        return 0, ErrNoAPIKey
    }
    var lr struct {
        Data []json.RawMessage `json:"data"`
    }
    err := o.base.Do(ctx, &xhttp.RequestOptions{
        Method:  xhttp.MethodGet,
        URL:     o.cfg.BaseURL + "/models",
        Headers: o.authHeader(),
    }, &lr)
    if err != nil {
        return 0, fmt.Errorf("openai: %w", err)
    }
    return len(lr.Data), nil
}

// ParseReply splits a "prediction|confidence|reason" reply. Missing parts
// fall back to "0", "50%" and the full reply text.
func ParseReply(txt string) models.GatewayForecast {
    parts := strings.Split(txt, "|")
    for i := range parts {
        parts[i] = strings.TrimSpace(parts[i])
    }

    f := models.GatewayForecast{
        Source:     models.SourceOpenAI,
        Prediction: string(models.DirectionNeutral),
        Confidence: "50%",
        Reason:     txt,
    }
    if parts[0] != "" {
        f.Prediction = parts[0]
    }
    if len(parts) > 1 && parts[1] != "" {
        f.Confidence = parts[1]
    }
    if len(parts) > 2 {
        if reason := strings.Join(parts[2:], " | "); reason != "" {
            f.Reason = reason
        }
    }
    return f
}

var (
    _ domsvc.UpstreamForecaster = (*OpenAIForecaster)(nil)
    _ domsvc.ModelLister        = (*OpenAIForecaster)(nil)
)
