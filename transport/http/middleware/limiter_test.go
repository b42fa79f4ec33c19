package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stayledger/config"
	"stayledger/infras/otel/mocks"
	"stayledger/shared/cache"
	cacheMocks "stayledger/shared/cache/mocks"
	"stayledger/transport/http/middleware"
)

// 1700000030 sits 50 seconds into the window starting at 1699999980.
var fixedClock = func() time.Time { return time.Unix(1700000030, 0) }

const limiterKey = "limiter:192.0.2.1:1699999980"

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		enable        bool
		setupMock     func(c *cacheMocks.MockRedisCache)
		wantStatus    int
		wantRemaining string
		wantRetry     string
	}{
		{
			name:       "disabled",
			setupMock:  func(*cacheMocks.MockRedisCache) {},
			wantStatus: http.StatusOK,
		},
		{
			name:   "first request in window",
			enable: true,
			setupMock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), limiterKey, gomock.Any()).Return(cache.Nil)
				c.EXPECT().Save(gomock.Any(), limiterKey, 1, 60).Return(nil)
			},
			wantStatus:    http.StatusOK,
			wantRemaining: "2",
		},
		{
			name:   "limit reached",
			enable: true,
			setupMock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), limiterKey, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*(value.(*int)) = 3

						return nil
					})
			},
			wantStatus:    http.StatusTooManyRequests,
			wantRemaining: "0",
			wantRetry:     "10",
		},
		{
			name:   "cache down lets requests through",
			enable: true,
			setupMock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), limiterKey, gomock.Any()).Return(errors.New("connection refused"))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setupMock(mockCache)

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = tt.enable
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			app := middleware.NewAppMiddlewareWithClock(mocks.NewOtel(), cfg, mockCache, fixedClock)
			handler := app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/listings/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))
			assert.Equal(t, tt.wantRetry, rec.Header().Get("Retry-After"))
		})
	}
}
