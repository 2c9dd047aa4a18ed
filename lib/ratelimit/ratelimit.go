// Package ratelimit throttles clients with a fixed window per client
// id. Windows are not sliding; the count resets abruptly at the
// window boundary.
package ratelimit

import (
	"sync"
	"time"

	"github.com/Clever/leakybucket"
	"github.com/Clever/leakybucket/memory"
	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib/logging"
	"github.com/snuttools/snutt-proxy/lib/metrics"
)

type RateLimiter struct {
	sync.RWMutex
	buckets    map[string]*leakybucket.Bucket
	memStorage *memory.Storage
	max        uint
	window     time.Duration
	logger     *logrus.Entry
}

func New(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets:    make(map[string]*leakybucket.Bucket),
		memStorage: memory.New(),
		max:        uint(max),
		window:     window,
		logger:     logging.GetLogger("ratelimit"),
	}
}

// Allow reports whether the client may proceed. The first max calls
// inside a window succeed; the rest are denied until the window rolls
// over.
func (r *RateLimiter) Allow(clientId string) bool {
	bucket := *r.getOrCreate(clientId)
	_, err := bucket.Add(1)
	if err != nil {
		metrics.RateLimitedCounter.Inc()
		r.logger.WithFields(logrus.Fields{
			"clientId": clientId,
			"waitTime": time.Until(bucket.Reset()),
		}).Debug("Rate limited")
		return false
	}
	return true
}

func (r *RateLimiter) getOrCreate(clientId string) *leakybucket.Bucket {
	r.RLock()
	b, ok := r.buckets[clientId]
	r.RUnlock()
	if !ok {
		r.Lock()
		// Check if it wasn't created while we didn't hold the exclusive lock
		b, ok = r.buckets[clientId]
		if ok {
			r.Unlock()
			return b
		}

		bucket, _ := r.memStorage.Create(clientId, r.max, r.window)
		r.buckets[clientId] = &bucket
		r.Unlock()
		return &bucket
	}
	return b
}
