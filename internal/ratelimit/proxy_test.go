package ratelimit_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loyaltytoken/loyalty-platform/internal/config"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/mocks"
	"github.com/loyaltytoken/loyalty-platform/internal/ratelimit"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testProxyMocks contains all the mocks needed for testing the proxy
type testProxyMocks struct {
	ctrl             *gomock.Controller
	redisClient      *mocks.MockRedisClient
	redisRateLimiter *mocks.MockRedisRateLimiter
	clock            *mocks.MockClock
}

func setupTestProxy(t *testing.T) *testProxyMocks {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	return &testProxyMocks{
		ctrl:             ctrl,
		redisClient:      mocks.NewMockRedisClient(ctrl),
		redisRateLimiter: mocks.NewMockRedisRateLimiter(ctrl),
		clock:            mocks.NewMockClock(ctrl),
	}
}

func testConfig() config.RateLimiterConfig {
	return config.RateLimiterConfig{
		RedisAddr:               "localhost:6379",
		RedisKeyPrefix:          "test:limiter:",
		MaxWorkers:              10,
		MaxQueueSize:            100,
		EnableLocalFallback:     true,
		LocalFallbackMultiplier: 0.5,
		Providers: map[string]config.RateLimitConfig{
			ratelimit.ProviderPinata: {
				RequestsPerSecond: 10,
				Burst:             20,
				MaxQueueTime:      time.Minute,
			},
		},
	}
}

// setupProxyWithMocks creates a proxy with common mock expectations
func setupProxyWithMocks(t *testing.T, tm *testProxyMocks, cfg config.RateLimiterConfig, redisAvailable bool) ratelimit.Proxy {
	t.Helper()

	statusCmd := redis.NewStatusCmd(context.Background())
	if redisAvailable {
		statusCmd.SetVal("PONG")
	} else {
		statusCmd.SetErr(errors.New("connection refused"))
	}
	tm.redisClient.EXPECT().
		Ping(gomock.Any()).
		Return(statusCmd)

	tm.redisClient.EXPECT().
		NewRateLimiter().
		Return(tm.redisRateLimiter)

	// Ticker for the health monitoring goroutine
	ticker := time.NewTicker(10 * time.Second)
	t.Cleanup(ticker.Stop)
	tm.clock.EXPECT().
		NewTicker(10 * time.Second).
		Return(ticker)

	proxy, err := ratelimit.NewProxy(cfg, tm.redisClient, tm.clock)
	require.NoError(t, err)

	// Give the monitoring goroutine time to start
	time.Sleep(15 * time.Millisecond)

	return proxy
}

func closeProxy(tm *testProxyMocks, proxy ratelimit.Proxy) {
	tm.redisClient.EXPECT().Close().Return(nil).AnyTimes()
	_ = proxy.Close()
}

func TestNewProxy(t *testing.T) {
	tm := setupTestProxy(t)

	proxy := setupProxyWithMocks(t, tm, testConfig(), true)
	assert.NotNil(t, proxy)

	closeProxy(tm, proxy)
}

func TestNewProxyRedisUnavailableFallbackEnabled(t *testing.T) {
	tm := setupTestProxy(t)

	proxy := setupProxyWithMocks(t, tm, testConfig(), false)
	assert.NotNil(t, proxy)

	closeProxy(tm, proxy)
}

func TestNewProxyRedisUnavailableFallbackDisabled(t *testing.T) {
	tm := setupTestProxy(t)

	cfg := testConfig()
	cfg.EnableLocalFallback = false

	statusCmd := redis.NewStatusCmd(context.Background())
	statusCmd.SetErr(errors.New("connection refused"))
	tm.redisClient.EXPECT().
		Ping(gomock.Any()).
		Return(statusCmd)

	proxy, err := ratelimit.NewProxy(cfg, tm.redisClient, tm.clock)

	require.Error(t, err)
	assert.Nil(t, proxy)
	assert.Contains(t, err.Error(), "redis unavailable and fallback disabled")
}

func TestNewProxyInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.RateLimiterConfig)
		wantErr string
	}{
		{
			name:    "missing redis addr",
			mutate:  func(cfg *config.RateLimiterConfig) { cfg.RedisAddr = "" },
			wantErr: "redis_addr is required",
		},
		{
			name:    "no providers",
			mutate:  func(cfg *config.RateLimiterConfig) { cfg.Providers = nil },
			wantErr: "at least one provider must be configured",
		},
		{
			name: "invalid rps",
			mutate: func(cfg *config.RateLimiterConfig) {
				cfg.Providers = map[string]config.RateLimitConfig{
					ratelimit.ProviderPinata: {RequestsPerSecond: 0},
				}
			},
			wantErr: "requests_per_second must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestProxy(t)
			cfg := testConfig()
			tt.mutate(&cfg)

			proxy, err := ratelimit.NewProxy(cfg, tm.redisClient, tm.clock)

			require.Error(t, err)
			assert.Nil(t, proxy)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequest(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithMocks(t, tm, testConfig(), true)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:pinata", gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1, Remaining: 9}, nil)

	result, err := proxy.Request(context.Background(), ratelimit.ProviderPinata, func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)

	closeProxy(tm, proxy)
}

func TestRequestUnknownProvider(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithMocks(t, tm, testConfig(), true)

	result, err := proxy.Request(context.Background(), "unknown-provider", func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "provider 'unknown-provider' not configured")

	closeProxy(tm, proxy)
}

func TestRequestRateLimitedThenAllowed(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithMocks(t, tm, testConfig(), true)

	gomock.InOrder(
		tm.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), "test:limiter:pinata", gomock.Any()).
			Return(&redis_rate.Result{Allowed: 0, RetryAfter: 10 * time.Millisecond}, nil),
		tm.redisRateLimiter.EXPECT().
			Allow(gomock.Any(), "test:limiter:pinata", gomock.Any()).
			Return(&redis_rate.Result{Allowed: 1, Remaining: 9}, nil),
	)

	// The retry sleep fires immediately
	tm.clock.EXPECT().
		After(gomock.Any()).
		DoAndReturn(func(d time.Duration) <-chan time.Time {
			ch := make(chan time.Time, 1)
			ch <- time.Now()
			return ch
		})

	result, err := proxy.Request(context.Background(), ratelimit.ProviderPinata, func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)

	closeProxy(tm, proxy)
}

func TestRequestRedisErrorFallsBackToLocal(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithMocks(t, tm, testConfig(), true)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:pinata", gomock.Any()).
		Return(nil, errors.New("connection reset"))

	result, err := proxy.Request(context.Background(), ratelimit.ProviderPinata, func(ctx context.Context) (interface{}, error) {
		return "recovered", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "recovered", result)

	closeProxy(tm, proxy)
}

func TestRequestUpstreamError(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithMocks(t, tm, testConfig(), true)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:pinata", gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1, Remaining: 9}, nil)

	upstream := errors.New("upstream unavailable")
	result, err := proxy.Request(context.Background(), ratelimit.ProviderPinata, func(ctx context.Context) (interface{}, error) {
		return nil, upstream
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.Nil(t, result)

	closeProxy(tm, proxy)
}

func TestRequestAfterClose(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithMocks(t, tm, testConfig(), true)
	closeProxy(tm, proxy)

	_, err := proxy.Request(context.Background(), ratelimit.ProviderPinata, func(ctx context.Context) (interface{}, error) {
		return "success", nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "proxy is closed")
}

func TestTypedRequestNilProxy(t *testing.T) {
	result, err := ratelimit.Request[string](context.Background(), nil, ratelimit.ProviderPinata, func(ctx context.Context) (string, error) {
		return "direct", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "direct", result)
}

func TestTypedRequest(t *testing.T) {
	tm := setupTestProxy(t)
	proxy := setupProxyWithMocks(t, tm, testConfig(), true)

	tm.redisRateLimiter.EXPECT().
		Allow(gomock.Any(), "test:limiter:pinata", gomock.Any()).
		Return(&redis_rate.Result{Allowed: 1, Remaining: 9}, nil)

	result, err := ratelimit.Request[int](context.Background(), proxy, ratelimit.ProviderPinata, func(ctx context.Context) (int, error) {
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, result)

	closeProxy(tm, proxy)
}
