package middleware

import (
	"fmt"
	"net/http"

	"booking-platform/pkg/utils"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// RateLimit limits requests per authenticated user, or per client IP for
// anonymous requests. rate uses the limiter format, e.g. "20-M". With a
// Redis client the counters are shared between processes; otherwise they
// live in memory.
func RateLimit(rate, prefix string, client *redis.Client, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", rate, err)
	}

	options := limiter.StoreOptions{
		Prefix:          "rate_limiter:" + prefix,
		MaxRetry:        3,
		CleanUpInterval: parsed.Period,
	}

	var store limiter.Store
	if client != nil {
		store, err = redisstore.NewStoreWithOptions(client, options)
		if err != nil {
			return nil, fmt.Errorf("create redis rate limit store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(options)
	}

	instance := limiter.New(store, parsed)

	mw := stdlibmw.NewMiddleware(instance,
		stdlibmw.WithKeyGetter(func(r *http.Request) string {
			if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
				return "user:" + userID.String()
			}
			return "ip:" + instance.GetIPKey(r)
		}),
		stdlibmw.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("Rate limit reached",
				zap.String("path", r.URL.Path),
				zap.String("ip", r.RemoteAddr),
			)
			utils.ResponseTooManyRequests(w, "Too many requests, try again later")
		}),
		stdlibmw.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("Rate limiter failed", zap.Error(err), zap.String("path", r.URL.Path))
			utils.ResponseInternalError(w, "Internal server error")
		}),
	)

	return mw.Handler, nil
}
