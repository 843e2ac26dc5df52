package fx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/property-pnl/pkg/constants"
	"go.uber.org/zap"
)

// Quote sources.
const (
	SourceManual  = "manual"
	SourceCache   = "cache"
	SourceLive    = "live"
	SourceDefault = "default"
)

// Quote is the outcome of a rate resolution. Fallback is true whenever the
// default rate was substituted for a live one; Warning then explains why.
type Quote struct {
	Base     string  `json:"base"`
	Quote    string  `json:"quote"`
	Rate     float64 `json:"rate"`
	Source   string  `json:"source"`
	Fallback bool    `json:"fallback"`
	Warning  string  `json:"warning,omitempty"`
	Err      error   `json:"-"`
}

// Resolver turns a RateSource into a rate that is always usable: manual
// override, then cache, then a live lookup bounded by Timeout, then Default.
type Resolver struct {
	Source     RateSource
	Cache      Cache
	Default    float64
	ManualRate float64
	Timeout    time.Duration
	TTL        time.Duration
	logger     *zap.Logger
}

// NewResolver returns a Resolver with the package defaults applied.
func NewResolver(logger *zap.Logger, source RateSource, cache Cache, defaultRate float64) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultRate <= 0 {
		defaultRate = constants.DefaultFallbackRate
	}
	return &Resolver{
		Source:  source,
		Cache:   cache,
		Default: defaultRate,
		Timeout: constants.DefaultRateTimeoutSeconds * time.Second,
		TTL:     constants.DefaultRateCacheTTLMinutes * time.Minute,
		logger:  logger,
	}
}

// WithManualRate returns a copy of r that always answers with rate. A
// non-positive rate leaves r unchanged.
func (r *Resolver) WithManualRate(rate float64) *Resolver {
	if rate <= 0 {
		return r
	}
	clone := *r
	clone.ManualRate = rate
	return &clone
}

// Resolve never fails. When the live lookup fails the default rate is
// returned with Fallback set and the cause in Err.
func (r *Resolver) Resolve(ctx context.Context, base, quote string) Quote {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	q := Quote{Base: base, Quote: quote}

	if r.ManualRate > 0 {
		q.Rate = r.ManualRate
		q.Source = SourceManual
		return q
	}

	key := CacheKey(base, quote)
	if r.Cache != nil {
		if rate, ok := r.Cache.Get(ctx, key); ok {
			r.logger.Debug("using cached exchange rate",
				zap.String("op", "fx.Resolve"),
				zap.String("pair", key),
				zap.Float64("rate", rate),
			)
			q.Rate = rate
			q.Source = SourceCache
			return q
		}
	}

	rate, err := r.fetch(ctx, base, quote)
	if err != nil {
		q.Rate = r.Default
		q.Source = SourceDefault
		q.Fallback = true
		q.Err = err
		q.Warning = fmt.Sprintf("exchange rate %s/%s unavailable, using default %.4f", base, quote, r.Default)
		r.logger.Warn(q.Warning,
			zap.String("op", "fx.Resolve"),
			zap.Error(err),
		)
		return q
	}

	if r.Cache != nil {
		if err := r.Cache.Set(ctx, key, rate, r.TTL); err != nil {
			r.logger.Warn("failed to cache exchange rate",
				zap.String("op", "fx.Resolve"),
				zap.String("pair", key),
				zap.Error(err),
			)
		}
	}

	r.logger.Info("retrieved exchange rate",
		zap.String("op", "fx.Resolve"),
		zap.String("pair", key),
		zap.Float64("rate", rate),
	)
	q.Rate = rate
	q.Source = SourceLive
	return q
}

func (r *Resolver) fetch(ctx context.Context, base, quote string) (float64, error) {
	if r.Source == nil {
		return 0, fmt.Errorf("%w: no rate source configured", ErrRateUnavailable)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	rate, err := r.Source.FetchRate(ctx, base, quote)
	if err != nil {
		return 0, err
	}
	if rate <= 0 {
		return 0, fmt.Errorf("%w: non-positive rate %v", ErrRateUnavailable, rate)
	}
	return rate, nil
}
