package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"summarizer-service/backend/internal/log"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter manages per-IP rate limiting
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates a new IP-based rate limiter
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the rate limiter for a given IP
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(ip); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// DailyQuota manages a global daily request quota, reset at UTC midnight
type DailyQuota struct {
	count   int64
	limit   int64
	resetAt time.Time
	now     func() time.Time
	mu      sync.Mutex
}

// NewDailyQuota creates a new daily quota manager
func NewDailyQuota(limit int64) *DailyQuota {
	q := &DailyQuota{
		limit: limit,
		now:   time.Now,
	}
	q.resetAt = nextMidnightUTC(q.now())
	return q
}

// Allow checks if a request is allowed and increments the counter
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	if now.After(q.resetAt) {
		log.Info().Int64("previous_count", q.count).Msg("daily quota reset")
		q.count = 0
		q.resetAt = nextMidnightUTC(now)
	}

	if q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// Remaining returns the remaining quota
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.count
}

// Count returns the current count
func (q *DailyQuota) Count() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// RetryAfter returns the time left until the quota resets
func (q *DailyQuota) RetryAfter() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resetAt.Sub(q.now())
}

func nextMidnightUTC(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}

// RateLimitMiddleware applies the daily quota first and then the per-IP limit.
// Either may be nil to disable it.
func RateLimitMiddleware(ipLimiter *IPRateLimiter, quota *DailyQuota) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quota != nil && !quota.Allow() {
			retryAfter := int(math.Ceil(quota.RetryAfter().Seconds()))
			log.Warn().Int64("count", quota.Count()).Msg("daily quota exceeded")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Daily request quota exceeded",
			})
			return
		}

		if ipLimiter != nil {
			limiter := ipLimiter.GetLimiter(c.ClientIP())
			if !limiter.Allow() {
				log.Warn().Str("ip", c.ClientIP()).Msg("rate limit exceeded")
				c.Header("Retry-After", "1")
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error": "Too many requests",
				})
				return
			}
		}

		c.Next()
	}
}
