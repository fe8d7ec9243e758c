package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/AryanKumar02/EstateLink/config"
	"github.com/AryanKumar02/EstateLink/internal/observability"
	"github.com/AryanKumar02/EstateLink/utils"
)

// clientLimiter holds one client's token bucket and its last access time.
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles requests per client. Authenticated requests are keyed
// by user ID; anonymous requests fall back to the remote IP.
type RateLimiter struct {
	cfg     config.RateLimitConfig
	metrics *observability.Metrics
	logger  *zap.Logger

	mu       sync.RWMutex
	limiters map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a RateLimiter and starts its background cleanup of
// idle client entries. Call Stop to release the goroutine.
func NewRateLimiter(cfg config.RateLimitConfig, metrics *observability.Metrics, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop halts the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// Limit is a middleware that rejects clients exceeding their request budget
// with 429 and a Retry-After header.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := clientKey(r)
		limiter := rl.getOrCreate(key)

		if !limiter.Allow() {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimited()
			}
			rl.logger.Warn("rate limit exceeded",
				zap.String("client", key),
				zap.String("path", r.URL.Path))

			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rate.Limit(rl.cfg.RequestsPerSecond))))
			_ = utils.WriteTooManyRequests(w, "", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ClientCount returns the number of tracked client entries.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) getOrCreate(key string) *rate.Limiter {
	rl.mu.RLock()
	cl, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if exists {
		rl.mu.Lock()
		cl.lastAccess = time.Now()
		rl.mu.Unlock()
		return cl.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring the write lock.
	if cl, exists := rl.limiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)
	rl.limiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	interval := rl.cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops client entries idle longer than the configured TTL.
func (rl *RateLimiter) cleanup() {
	ttl := rl.cfg.ClientTTL
	if ttl <= 0 {
		ttl = 3 * time.Minute
	}

	now := time.Now()

	rl.mu.Lock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
	rl.mu.Unlock()
}

// clientKey prefers the authenticated user; anonymous clients are keyed by
// their remote IP.
func clientKey(r *http.Request) string {
	if user := GetUserFromContext(r.Context()); user != nil {
		return "user:" + user.ID.String()
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

// retryAfterSeconds estimates how long until one token is replenished.
func retryAfterSeconds(limit rate.Limit) int {
	if limit <= 0 {
		return 1
	}

	sec := int(math.Ceil(1.0 / float64(limit)))
	if sec < 1 {
		sec = 1
	}
	return sec
}
