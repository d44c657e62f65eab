package httpserve

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/bnema/mcp-docker/pkg/kv"
	"github.com/bnema/mcp-docker/pkg/logger"
)

// RequestIDKey is the echo context key holding the request id.
const RequestIDKey = "request_id"

// requestID tags each request with a UUID, reusing one supplied by the caller.
func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(RequestIDKey, id)
		},
	})
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("HTTP request",
				"id", c.Get(RequestIDKey),
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP)
			return nil
		},
	})
}

// requireToken checks the bearer token in constant time. Every failure answers 401.
func requireToken(token string) echo.MiddlewareFunc {
	expected := []byte(token)
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), expected) == 1, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			logger.Warn("Rejected unauthenticated request", "ip", c.RealIP(), "error", err)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		},
	})
}

// rateLimiter limits /mcp per client IP. State is persisted when a directory is
// configured and the store opens; otherwise it lives in memory.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	var store middleware.RateLimiterStore
	backend := "memory"

	if s.opts.RateLimitDir != "" {
		persisted, err := kv.NewRateLimiterStore(s.opts.RateLimitDir, s.opts.Rate, s.opts.Burst, s.opts.ExpiresIn)
		if err != nil {
			logger.Error("Failed to open rate limiter store, falling back to memory", "dir", s.opts.RateLimitDir, "error", err)
		} else {
			store = persisted
			backend = "starskey"
			s.cleanup = append(s.cleanup, func() {
				if err := persisted.Close(); err != nil {
					logger.Error("Failed to close rate limiter store", "error", err)
				}
			})
		}
	}
	if store == nil {
		store = middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(s.opts.Rate),
			Burst:     s.opts.Burst,
			ExpiresIn: s.opts.ExpiresIn,
		})
	}
	logger.Debug("Rate limiter configured", "backend", backend, "rate", s.opts.Rate, "burst", s.opts.Burst)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.Warn("Rate limit exceeded", "ip", identifier, "path", c.Request().URL.Path)
			return c.String(http.StatusTooManyRequests, "Too many requests")
		},
	})
}
