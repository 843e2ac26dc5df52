// Package fx retrieves the exchange rate used to project valuation results
// into a foreign currency.
//
// Rates are quoted as the amount of quote currency per one unit of base
// currency. The valuation engine divides home currency amounts by the rate, so
// callers ask for base=<foreign>, quote=<home>.
package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iwvelando/property-pnl/pkg/constants"
)

// ErrRateUnavailable is returned when no usable rate could be retrieved.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// RateSource looks up a single exchange rate.
type RateSource interface {
	FetchRate(ctx context.Context, base, quote string) (float64, error)
}

// RateSourceFunc adapts a function to RateSource.
type RateSourceFunc func(ctx context.Context, base, quote string) (float64, error)

// FetchRate implements RateSource.
func (f RateSourceFunc) FetchRate(ctx context.Context, base, quote string) (float64, error) {
	return f(ctx, base, quote)
}

// HTTPSource queries an exchangerate.host style endpoint:
// GET {Endpoint}?base=NZD&symbols=MYR -> {"rates": {"MYR": 2.56}}.
type HTTPSource struct {
	Endpoint  string
	AccessKey string
	Client    *http.Client
}

// NewHTTPSource returns an HTTPSource for endpoint. An empty endpoint selects
// constants.DefaultRateEndpoint.
func NewHTTPSource(endpoint, accessKey string, timeout time.Duration) *HTTPSource {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = constants.DefaultRateEndpoint
	}
	if timeout <= 0 {
		timeout = constants.DefaultRateTimeoutSeconds * time.Second
	}
	return &HTTPSource{
		Endpoint:  endpoint,
		AccessKey: accessKey,
		Client:    &http.Client{Timeout: timeout},
	}
}

type ratesResponse struct {
	Success *bool              `json:"success"`
	Rates   map[string]float64 `json:"rates"`
	Error   json.RawMessage    `json:"error"`
}

// FetchRate implements RateSource. Every failure wraps ErrRateUnavailable.
func (s *HTTPSource) FetchRate(ctx context.Context, base, quote string) (float64, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if base == "" || quote == "" {
		return 0, fmt.Errorf("%w: base and quote currencies are required", ErrRateUnavailable)
	}

	endpoint, err := url.Parse(s.Endpoint)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid endpoint %q: %v", ErrRateUnavailable, s.Endpoint, err)
	}
	query := endpoint.Query()
	query.Set("base", base)
	query.Set("symbols", quote)
	if s.AccessKey != "" {
		query.Set("access_key", s.AccessKey)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: rate endpoint returned status %d", ErrRateUnavailable, resp.StatusCode)
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: failed to decode rate response: %v", ErrRateUnavailable, err)
	}
	if payload.Success != nil && !*payload.Success {
		return 0, fmt.Errorf("%w: rate endpoint reported failure: %s", ErrRateUnavailable, string(payload.Error))
	}

	rate, ok := payload.Rates[quote]
	if !ok {
		return 0, fmt.Errorf("%w: no %s rate in response", ErrRateUnavailable, quote)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%w: non-positive %s rate %v", ErrRateUnavailable, quote, rate)
	}
	return rate, nil
}
