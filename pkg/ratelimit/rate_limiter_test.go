package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, config *Config) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, config)
}

func testLimiterConfig() *Config {
	return &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 3,
		BookingRequests: 3,
		AdminRequests:   3,
		HealthRequests:  3,
	}
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	limiter := newTestLimiter(t, testLimiterConfig())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
		require.NoError(t, err)
		assert.Truef(t, result.Allowed, "request %d is within the limit", i)
		assert.Equal(t, 3-i, result.Remaining)
	}

	// Every request past the limit inside the window must be refused,
	// even when they land in the same second
	for i := 4; i <= 10; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
		require.NoError(t, err)
		assert.Falsef(t, result.Allowed, "request %d is over the limit", i)
		assert.Equal(t, 0, result.Remaining)
		assert.Equal(t, 3, result.Limit)
	}
}

func TestRateLimiter_RefusedRequestsDoNotExtendTheWindow(t *testing.T) {
	limiter := newTestLimiter(t, testLimiterConfig())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
		require.NoError(t, err)
	}

	// Refused requests are not recorded, so the set never grows past the limit
	result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
}

func TestRateLimiter_ClientsAndClassesTrackedSeparately(t *testing.T) {
	limiter := newTestLimiter(t, testLimiterConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
		require.NoError(t, err)
	}
	blocked, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	// A different client is unaffected
	other, err := limiter.IsAllowed(ctx, "10.0.0.2", RateLimitTypeBooking)
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	// The same client still has budget in another class
	health, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeHealth)
	require.NoError(t, err)
	assert.True(t, health.Allowed)
}

func TestRateLimiter_DisabledAllowsEverything(t *testing.T) {
	config := testLimiterConfig()
	config.Enabled = false
	limiter := newTestLimiter(t, config)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		result, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeBooking)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 3, result.Remaining)
	}
}

func TestMiddleware_Returns429OverLimit(t *testing.T) {
	config := testLimiterConfig()
	config.BookingRequests = 1
	limiter := newTestLimiter(t, config)

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Middleware(limiter))
	engine.POST("/api/v1/bookings", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	doRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.RemoteAddr = "10.0.0.1:51000"
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, req)
		return recorder
	}

	first := doRequest()
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := doRequest()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
}
