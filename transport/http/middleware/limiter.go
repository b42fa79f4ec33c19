package middleware

import (
	"errors"
	"net"
	"net/http"
	"stayledger/shared"
	"stayledger/shared/cache"
	"stayledger/shared/constant"
	"stayledger/transport/http/response"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"

	defaultRateLimitWindow = 60
)

// RateLimit counts requests per client in fixed windows. The counter key carries the window
// start, so a Save never extends a window. Cache failures let the request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := a.config.App.RateLimiter
			if !limiter.Enable || limiter.MaxRequests <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			window := limiter.WindowSeconds
			if window <= 0 {
				window = defaultRateLimitWindow
			}

			now := a.now().Unix()
			windowStart := now - now%int64(window)
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), strconv.FormatInt(windowStart, 10))

			count := 0

			err := a.cache.Get(r.Context(), cacheKey, &count)
			if err != nil && !errors.Is(err, cache.Nil) {
				log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)

				return
			}

			count++

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limiter.MaxRequests-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(window))

			if count > limiter.MaxRequests {
				w.Header().Set(constant.RequestHeaderRetryAfter, strconv.FormatInt(windowStart+int64(window)-now, 10))
				response.WithRequestLimitExceeded(w)

				return
			}

			if err := a.cache.Save(r.Context(), cacheKey, count, window); err != nil {
				log.Warn().Err(err).Msg("rate limiter failed to record request")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) getUA(r *http.Request) string {
	ua := r.Header.Get(constant.RequestHeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}

	return ua
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}

func (a *appMiddleware) now() time.Time {
	if a.clock != nil {
		return a.clock()
	}

	return time.Now()
}
