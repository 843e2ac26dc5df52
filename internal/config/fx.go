package config

import (
	"time"

	"github.com/iwvelando/property-pnl/internal/fx"
	"go.uber.org/zap"
)

// NewResolver builds the rate resolver described by the fx section. Offline
// resolvers never touch the network and answer with the manual or default
// rate. The returned close function releases the Redis connection, if any.
func (c FXConfig) NewResolver(logger *zap.Logger, offline bool) (*fx.Resolver, func() error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	closer := func() error { return nil }

	var source fx.RateSource
	var cache fx.Cache
	if !offline {
		source = fx.NewHTTPSource(c.Endpoint, c.AccessKey, time.Duration(c.TimeoutSeconds)*time.Second)

		if c.Redis.Addr != "" {
			redisCache := fx.NewRedisCache(c.Redis.Addr, c.Redis.Password, c.Redis.DB)
			cache = redisCache
			closer = redisCache.Close
			logger.Debug("using redis rate cache",
				zap.String("op", "config.NewResolver"),
				zap.String("addr", c.Redis.Addr),
			)
		} else {
			cache = fx.NewMemoryCache()
		}
	}

	resolver := fx.NewResolver(logger, source, cache, c.DefaultRate)
	if c.TimeoutSeconds > 0 {
		resolver.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.CacheTTLMinutes > 0 {
		resolver.TTL = time.Duration(c.CacheTTLMinutes) * time.Minute
	}

	return resolver.WithManualRate(c.ManualRate), closer
}
