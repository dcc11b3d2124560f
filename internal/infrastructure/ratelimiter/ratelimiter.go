package ratelimiter

import (
	"net"
	"net/http"
	"time"
)

const defaultSourceKey = "X-RateLimit-Key"

type Limiter interface {
	Allow(sourceKey string) bool
	GetSourceKey(r *http.Request) string
	Remaining(sourceKey string) int
	GetMaxBurst() int
}

type Options struct {
	MaxRatePerSecond int
	MaxBurst         int
	CacheTTL         time.Duration
	SourceHeaderKey  string
}

// RateLimiter is a token bucket per request source. The source key comes
// from a configurable header (X-Forwarded-For behind a proxy) with the
// remote address as fallback.
type RateLimiter struct {
	ratePerSecond   float64
	maxBurst        int
	cache           *bucketCache
	sourceHeaderKey string
}

func New(opts Options) *RateLimiter {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	headerKey := opts.SourceHeaderKey
	if headerKey == "" {
		headerKey = defaultSourceKey
	}

	return &RateLimiter{
		ratePerSecond:   float64(opts.MaxRatePerSecond),
		maxBurst:        opts.MaxBurst,
		cache:           newBucketCache(ttl),
		sourceHeaderKey: headerKey,
	}
}

func (rl *RateLimiter) Allow(sourceKey string) bool {
	rl.cache.mu.Lock()
	defer rl.cache.mu.Unlock()

	b := rl.refill(sourceKey)
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) Remaining(sourceKey string) int {
	rl.cache.mu.Lock()
	defer rl.cache.mu.Unlock()

	return int(rl.refill(sourceKey).tokens)
}

func (rl *RateLimiter) GetMaxBurst() int {
	return rl.maxBurst
}

func (rl *RateLimiter) GetSourceKey(r *http.Request) string {
	if key := r.Header.Get(rl.sourceHeaderKey); key != "" {
		return key
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Close() {
	rl.cache.Close()
}

// refill tops the bucket up for the time elapsed since the last fill.
// Caller must hold the cache lock.
func (rl *RateLimiter) refill(sourceKey string) *bucket {
	b := rl.cache.get(sourceKey, float64(rl.maxBurst))

	now := time.Now()
	elapsed := now.Sub(b.lastFill).Seconds()
	b.tokens += elapsed * rl.ratePerSecond
	if b.tokens > float64(rl.maxBurst) {
		b.tokens = float64(rl.maxBurst)
	}
	b.lastFill = now

	return b
}
