package fx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestHTTPSourceFetchRate(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "base": "NZD", "rates": {"MYR": 2.5655}}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, "secret", time.Second)
	rate, err := source.FetchRate(context.Background(), "nzd", "myr")
	if err != nil {
		t.Fatalf("FetchRate() error = %v", err)
	}
	if rate != 2.5655 {
		t.Errorf("FetchRate() = %v, expected 2.5655", rate)
	}
	if gotQuery != "access_key=secret&base=NZD&symbols=MYR" {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestHTTPSourceFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"Server error", http.StatusInternalServerError, `{}`},
		{"Malformed JSON", http.StatusOK, `{"rates":`},
		{"Missing symbol", http.StatusOK, `{"rates": {"USD": 0.21}}`},
		{"Zero rate", http.StatusOK, `{"rates": {"MYR": 0}}`},
		{"Reported failure", http.StatusOK, `{"success": false, "error": {"code": 101}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, "", time.Second).FetchRate(context.Background(), "NZD", "MYR")
			if !errors.Is(err, ErrRateUnavailable) {
				t.Errorf("expected ErrRateUnavailable, got %v", err)
			}
		})
	}
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPSource(srv.URL, "", 5*time.Second).FetchRate(ctx, "NZD", "MYR")
	if !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("expected ErrRateUnavailable on timeout, got %v", err)
	}
}

func TestResolverLiveRateIsCached(t *testing.T) {
	var calls int32
	source := RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
		atomic.AddInt32(&calls, 1)
		return 2.7, nil
	})

	resolver := NewResolver(zap.NewNop(), source, NewMemoryCache(), 2.5655)

	first := resolver.Resolve(context.Background(), "nzd", "myr")
	if first.Source != SourceLive || first.Rate != 2.7 || first.Fallback {
		t.Fatalf("unexpected first quote %+v", first)
	}

	second := resolver.Resolve(context.Background(), "NZD", "MYR")
	if second.Source != SourceCache || second.Rate != 2.7 {
		t.Fatalf("unexpected second quote %+v", second)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected one live lookup, got %d", calls)
	}
}

func TestResolverFallsBackToDefault(t *testing.T) {
	cause := errors.New("network down")
	source := RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
		return 0, cause
	})

	cache := NewMemoryCache()
	resolver := NewResolver(zap.NewNop(), source, cache, 0.31)
	quote := resolver.Resolve(context.Background(), "NZD", "MYR")

	if !quote.Fallback {
		t.Error("expected Fallback to be set")
	}
	if quote.Source != SourceDefault {
		t.Errorf("Source = %s, expected default", quote.Source)
	}
	if quote.Rate != 0.31 {
		t.Errorf("Rate = %v, expected 0.31", quote.Rate)
	}
	if quote.Warning == "" {
		t.Error("expected a warning describing the substitution")
	}
	if !errors.Is(quote.Err, cause) {
		t.Errorf("Err = %v, expected cause", quote.Err)
	}
	if _, ok := cache.Get(context.Background(), CacheKey("NZD", "MYR")); ok {
		t.Error("default rate must not be cached")
	}
}

func TestResolverRejectsNonPositiveLiveRate(t *testing.T) {
	source := RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
		return -1, nil
	})
	quote := NewResolver(nil, source, nil, 3.25).Resolve(context.Background(), "NZD", "MYR")
	if !quote.Fallback || quote.Rate != 3.25 {
		t.Errorf("unexpected quote %+v", quote)
	}
	if !errors.Is(quote.Err, ErrRateUnavailable) {
		t.Errorf("expected ErrRateUnavailable, got %v", quote.Err)
	}
}

func TestResolverWithoutSource(t *testing.T) {
	quote := NewResolver(nil, nil, nil, 0).Resolve(context.Background(), "NZD", "MYR")
	if !quote.Fallback {
		t.Error("expected fallback without a source")
	}
	if quote.Rate <= 0 {
		t.Errorf("expected positive default rate, got %v", quote.Rate)
	}
}

func TestResolverAppliesTimeout(t *testing.T) {
	source := RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})

	resolver := NewResolver(zap.NewNop(), source, nil, 2.5)
	resolver.Timeout = 20 * time.Millisecond

	start := time.Now()
	quote := resolver.Resolve(context.Background(), "NZD", "MYR")
	if time.Since(start) > time.Second {
		t.Errorf("resolve took %v, expected timeout to apply", time.Since(start))
	}
	if !quote.Fallback || !errors.Is(quote.Err, context.DeadlineExceeded) {
		t.Errorf("unexpected quote %+v", quote)
	}
}

func TestResolverManualRate(t *testing.T) {
	source := RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
		t.Error("manual rate must not trigger a lookup")
		return 0, nil
	})

	base := NewResolver(zap.NewNop(), source, nil, 2.5)
	manual := base.WithManualRate(3.1)

	quote := manual.Resolve(context.Background(), "NZD", "MYR")
	if quote.Source != SourceManual || quote.Rate != 3.1 || quote.Fallback {
		t.Errorf("unexpected quote %+v", quote)
	}
	if base.ManualRate != 0 {
		t.Error("WithManualRate must not modify the original resolver")
	}
	if base.WithManualRate(0) != base {
		t.Error("WithManualRate(0) should return the receiver")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	if err := cache.Set(ctx, "fx:NZD:MYR", 2.6, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Set(ctx, "fx:USD:MYR", 4.4, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if rate, ok := cache.Get(ctx, "fx:NZD:MYR"); !ok || rate != 2.6 {
		t.Errorf("Get() = %v, %v, expected 2.6, true", rate, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get(ctx, "fx:NZD:MYR"); ok {
		t.Error("expected entry to expire")
	}
	if rate, ok := cache.Get(ctx, "fx:USD:MYR"); !ok || rate != 4.4 {
		t.Errorf("entry without ttl should not expire, got %v, %v", rate, ok)
	}
}

func TestCacheKey(t *testing.T) {
	if got := CacheKey("nzd", "Myr"); got != "fx:NZD:MYR" {
		t.Errorf("CacheKey() = %s, expected fx:NZD:MYR", got)
	}
}

func TestRedisCacheUnreachableIsAMiss(t *testing.T) {
	cache := NewRedisCacheWithOptions(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() {
		_ = cache.Close()
	}()

	ctx := context.Background()
	if _, ok := cache.Get(ctx, CacheKey("NZD", "MYR")); ok {
		t.Error("expected miss from unreachable redis")
	}
	if err := cache.Set(ctx, CacheKey("NZD", "MYR"), 2.5, time.Minute); err == nil {
		t.Error("expected error writing to unreachable redis")
	}

	// An unreachable cache must not prevent resolution.
	source := RateSourceFunc(func(ctx context.Context, base, quote string) (float64, error) {
		return 2.9, nil
	})
	quote := NewResolver(zap.NewNop(), source, cache, 2.5).Resolve(ctx, "NZD", "MYR")
	if quote.Source != SourceLive || quote.Rate != 2.9 {
		t.Errorf("unexpected quote %+v", quote)
	}
}
