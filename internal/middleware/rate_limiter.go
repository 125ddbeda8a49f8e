// file: internal/middleware/rate_limiter.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"linkedout/internal/cache"
	"linkedout/internal/responseutil"
	"linkedout/internal/services"

	"go.uber.org/zap"
)

// RateLimiterConfig holds rate limiting configuration
type RateLimiterConfig struct {
	Enabled        bool          `json:"enabled"`
	HeadersEnabled bool          `json:"headers_enabled"`
	Limit          int           `json:"limit"`  // requests per window per client IP
	Window         time.Duration `json:"window"` // fixed window length
	// FailOpen lets requests through when the cache cannot be read
	FailOpen bool `json:"fail_open"`
}

// DefaultRateLimiterConfig suits the credential endpoints
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Enabled:        true,
		HeadersEnabled: true,
		Limit:          10,
		Window:         time.Minute,
		FailOpen:       true,
	}
}

// RateLimitResult represents the result of a rate limit check
type RateLimitResult struct {
	Allowed    bool          `json:"allowed"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetTime  time.Time     `json:"reset_time"`
	RetryAfter time.Duration `json:"retry_after"`
}

// RateLimiter counts requests per client IP in fixed windows stored in the
// cache, so limits are shared by every instance using a redis cache.
type RateLimiter struct {
	cache  cache.Cache
	config *RateLimiterConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a rate limiter over c
func NewRateLimiter(c cache.Cache, config *RateLimiterConfig, logger *zap.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	return &RateLimiter{
		cache:  c,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// RateLimit limits requests under scope, a name shared by the routes that
// draw from the same budget
func RateLimit(limiter *RateLimiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.Check(r.Context(), scope, getClientIP(r))
			limiter.writeRateLimitHeaders(w, result)
			if !result.Allowed {
				GetRequestLogger(r.Context()).Warn("Rate limit exceeded",
					zap.String("scope", scope),
					zap.Int("limit", result.Limit),
					zap.Duration("retry_after", result.RetryAfter),
				)
				limiter.writeRateLimitError(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Check counts one request from key against the current window
func (rl *RateLimiter) Check(ctx context.Context, scope, key string) *RateLimitResult {
	now := rl.now()
	windowStart := now.Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)
	windowKey := fmt.Sprintf("rate_limit:%s:%s:%d", scope, key, windowStart.Unix())

	count, err := rl.getCount(ctx, windowKey)
	if err != nil && !rl.config.FailOpen {
		return &RateLimitResult{Limit: rl.config.Limit, ResetTime: resetTime, RetryAfter: resetTime.Sub(now)}
	}

	result := &RateLimitResult{
		Allowed:    count < rl.config.Limit,
		Limit:      rl.config.Limit,
		ResetTime:  resetTime,
		RetryAfter: resetTime.Sub(now),
	}
	if result.Allowed {
		count++
		if err := rl.cache.Set(ctx, windowKey, []byte(strconv.Itoa(count)), rl.config.Window); err != nil {
			rl.logger.Warn("Failed to record rate limit hit", zap.String("key", windowKey), zap.Error(err))
		}
	}
	result.Remaining = max(rl.config.Limit-count, 0)
	return result
}

func (rl *RateLimiter) getCount(ctx context.Context, key string) (int, error) {
	raw, found := rl.cache.Get(ctx, key)
	if !found {
		return 0, nil
	}
	count, err := strconv.Atoi(string(raw))
	if err != nil {
		rl.logger.Warn("Corrupt rate limit counter", zap.String("key", key), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (rl *RateLimiter) writeRateLimitHeaders(w http.ResponseWriter, result *RateLimitResult) {
	if !rl.config.HeadersEnabled {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
	if !result.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
	}
}

func (rl *RateLimiter) writeRateLimitError(w http.ResponseWriter, r *http.Request) {
	err := &services.ServiceError{
		Type:       "RATE_LIMIT_EXCEEDED",
		Message:    "too many requests, slow down and take a nap",
		StatusCode: http.StatusTooManyRequests,
	}
	if builder := responseutil.GetBuilder(r.Context()); builder != nil {
		builder.WriteError(w, r, err)
		return
	}
	http.Error(w, err.Message, err.StatusCode)
}
