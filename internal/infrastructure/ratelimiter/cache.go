package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	tokens   float64
	lastFill time.Time
	touched  time.Time
}

// bucketCache holds per-source token buckets and evicts sources that have
// been quiet for longer than the TTL.
type bucketCache struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

func newBucketCache(ttl time.Duration) *bucketCache {
	c := &bucketCache{
		buckets: make(map[string]*bucket),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}

	go c.evictLoop()

	return c
}

func (c *bucketCache) get(key string, full float64) *bucket {
	now := time.Now()

	b, ok := c.buckets[key]
	if !ok {
		b = &bucket{tokens: full, lastFill: now}
		c.buckets[key] = b
	}
	b.touched = now

	return b
}

func (c *bucketCache) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-c.ttl)
			c.mu.Lock()
			for key, b := range c.buckets {
				if b.touched.Before(cutoff) {
					delete(c.buckets, key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

func (c *bucketCache) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}
