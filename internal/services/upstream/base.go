package upstream

import (
    "context"
    "errors"
    "fmt"
    "time"

    xhttp "MiniForecast/pkg/http"

    "github.com/cenkalti/backoff/v4"
)

// HTTPServiceBase centralizes client construction and retrying JSON calls
// for upstream forecasters.
type HTTPServiceBase struct {
    client   *xhttp.Client
    attempts int
    // initial retry interval; grows exponentially
    interval time.Duration
}

// NewHTTPServiceBase builds a client with the given per-request timeout.
// attempts < 1 is treated as a single attempt.
func NewHTTPServiceBase(timeout time.Duration, attempts int) *HTTPServiceBase {
    if timeout <= 0 {
        timeout = 3 * time.Second
    }
    if attempts < 1 {
        attempts = 1
    }
    return &HTTPServiceBase{
        client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
        attempts: attempts,
        interval: 50 * time.Millisecond,
    }
}

// Do sends the request and decodes the JSON reply into dest, retrying
// transport failures and 429/5xx responses with exponential backoff.
func (b *HTTPServiceBase) Do(ctx context.Context, opts *xhttp.RequestOptions, dest interface{}) error {
    if b.client == nil || opts.URL == "" {
        return fmt.Errorf("upstream http client not initialized")
    }

    op := func() error {
        err := b.client.SendAndParse(ctx, opts, dest)
        var se *xhttp.StatusError
        if errors.As(err, &se) && !se.Temporary() {
            return backoff.Permanent(err)
        }
        return err
    }

    eb := backoff.NewExponentialBackOff()
    eb.InitialInterval = b.interval
    eb.MaxInterval = 20 * b.interval
    eb.MaxElapsedTime = 0 // bounded by attempts and ctx
    policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(b.attempts-1)), ctx)

    if err := backoff.Retry(op, policy); err != nil {
        return fmt.Errorf("%s %s: %w", opts.Method, opts.URL, err)
    }
    return nil
}
