package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const bucketIdleEviction = 10 * time.Minute

// RateLimiter applies per-client token buckets keyed by remote host. One
// limiter is shared across routes; each route picks its own rate via Limit.
type RateLimiter struct {
	buckets sync.Map // host string -> *bucket
	done    chan struct{}
}

// NewRateLimiter starts a limiter whose idle buckets are evicted every
// cleanupInterval. Call Stop on shutdown.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{done: make(chan struct{})}
	go rl.evictIdle(cleanupInterval)
	return rl
}

// Stop ends the background eviction goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// Limit caps requests at maxPerMinute per client host. Rejected requests get
// 429 with a Retry-After hint.
func (rl *RateLimiter) Limit(maxPerMinute int) Middleware {
	retryAfter := strconv.Itoa(60/maxPerMinute + 1)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.bucketFor(clientHost(r), maxPerMinute).take() {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientHost strips the ephemeral port so reconnecting clients share a
// bucket.
func clientHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (rl *RateLimiter) bucketFor(host string, maxPerMinute int) *bucket {
	capacity := float64(maxPerMinute)

	val, _ := rl.buckets.LoadOrStore(host, &bucket{
		tokens:   capacity,
		capacity: capacity,
		perSec:   capacity / 60.0,
		refilled: time.Now(),
	})
	return val.(*bucket)
}

type bucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	perSec   float64
	refilled time.Time
}

func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.refilled).Seconds() * b.perSec
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.refilled = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (b *bucket) idleSince(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.Sub(b.refilled)
}

func (rl *RateLimiter) evictIdle(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case now := <-ticker.C:
			rl.buckets.Range(func(key, value any) bool {
				if value.(*bucket).idleSince(now) > bucketIdleEviction {
					rl.buckets.Delete(key)
				}
				return true
			})
		}
	}
}
