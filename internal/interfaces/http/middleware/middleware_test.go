package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func serve(e *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestAuth_DisabledWithoutKeys(t *testing.T) {
	e := gin.New()
	e.Use(Auth(AuthConfig{}))
	e.GET("/formats", okHandler)

	w := serve(e, httptest.NewRequest(http.MethodGet, "/formats", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_BearerToken(t *testing.T) {
	e := gin.New()
	e.Use(Auth(AuthConfig{APIKeys: []string{"first", " second "}, SkipPaths: DefaultSkipPaths}))
	e.GET("/health", okHandler)
	e.GET("/formats", func(c *gin.Context) {
		c.String(http.StatusOK, ClientID(c))
	})

	cases := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{name: "skip path", path: "/health", status: http.StatusOK, body: "ok"},
		{name: "missing header", path: "/formats", status: http.StatusUnauthorized, body: `{"detail":"missing authorization header"}`},
		{name: "wrong scheme", path: "/formats", header: "Basic abc", status: http.StatusUnauthorized, body: `{"detail":"invalid authorization format"}`},
		{name: "wrong key", path: "/formats", header: "Bearer nope", status: http.StatusUnauthorized, body: `{"detail":"invalid api key"}`},
		{name: "second key", path: "/formats", header: "Bearer second", status: http.StatusOK, body: "key-1"},
		{name: "case-insensitive scheme", path: "/formats", header: "bearer first", status: http.StatusOK, body: "key-0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(e, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, w.Body.String())
		})
	}
}

type fakeLimiter struct {
	mu        sync.Mutex
	allowed   bool
	remaining int
	err       error
	keys      []string
	limit     int
	window    time.Duration
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.limit = limit
	f.window = window
	return f.allowed, f.remaining, f.err
}

func newLimitedEngine(limiter RateLimiter) *gin.Engine {
	e := gin.New()
	e.POST("/generate", RateLimit(RateLimitConfig{Limit: 3, Window: time.Minute}, limiter), okHandler)
	return e
}

func TestRateLimit_Allows(t *testing.T) {
	limiter := &fakeLimiter{allowed: true, remaining: 2}
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.RemoteAddr = "10.0.0.7:5555"

	w := serve(newLimitedEngine(limiter), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "ratelimit:10.0.0.7:/generate", limiter.keys[0])
	assert.Equal(t, 3, limiter.limit)
	assert.Equal(t, time.Minute, limiter.window)
}

func TestRateLimit_Rejects(t *testing.T) {
	w := serve(newLimitedEngine(&fakeLimiter{allowed: false}), httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"detail":"rate limit exceeded"}`, w.Body.String())
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	w := serve(newLimitedEngine(&fakeLimiter{err: errors.New("redis down")}), httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_NilLimiterIsNoop(t *testing.T) {
	w := serve(newLimitedEngine(nil), httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRecovery(t *testing.T) {
	e := gin.New()
	e.Use(Recovery())
	e.GET("/panic", func(*gin.Context) { panic("kaboom") })

	w := serve(e, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	e := gin.New()
	e.Use(RequestID())
	e.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := serve(e, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	w = serve(e, req)
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}
