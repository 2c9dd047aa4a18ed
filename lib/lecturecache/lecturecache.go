// Package lecturecache is the read-through TTL cache over the
// upstream catalog, with single-flight coalescing of concurrent
// fetches for the same (base, year, semester) key.
package lecturecache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snuttools/snutt-proxy/lib/cache"
	"github.com/snuttools/snutt-proxy/lib/logging"
	"github.com/snuttools/snutt-proxy/lib/metrics"
	"github.com/snuttools/snutt-proxy/lib/semester"
	"github.com/snuttools/snutt-proxy/lib/snutt"
)

// Provenance tags how a Get was satisfied.
type Provenance string

const (
	Hit      Provenance = "HIT"
	Coalesce Provenance = "COALESCE"
	Miss     Provenance = "MISS"
)

// Fetcher collects all pages for one semester variant.
type Fetcher interface {
	FetchAllPages(ctx context.Context, year int, variant semester.Value) ([]snutt.SlimLecture, error)
}

type flight struct {
	done chan struct{}
	data []snutt.SlimLecture
	err  error
}

type LectureCache struct {
	fetcher Fetcher
	base    string
	ttl     time.Duration
	store   *cache.Cache[[]snutt.SlimLecture]

	mu       sync.Mutex
	inflight map[string]*flight

	// Fetch chains run on the process context, not the caller's: a
	// caller that goes away must not cancel a fetch other coalesced
	// callers are waiting on.
	ctx    context.Context
	logger *logrus.Entry
}

func New(ctx context.Context, fetcher Fetcher, base string, ttl time.Duration) *LectureCache {
	return &LectureCache{
		fetcher:  fetcher,
		base:     base,
		ttl:      ttl,
		store:    cache.New[[]snutt.SlimLecture](),
		inflight: make(map[string]*flight),
		ctx:      ctx,
		logger:   logging.GetLogger("lecturecache"),
	}
}

func (c *LectureCache) key(year int, canon string) string {
	return c.base + "::" + strconv.Itoa(year) + "::" + canon
}

// Get returns the slim lecture list for (year, semesterInput),
// fetching from the upstream on a cache miss. Equivalent semester
// inputs ("S" and "2") share one entry through canonicalization. At
// most one fetch sequence per key is in flight at a time; concurrent
// callers share its outcome, errors included. Failures are not
// cached, so the next call retries from scratch.
func (c *LectureCache) Get(year int, semesterInput string) ([]snutt.SlimLecture, Provenance, error) {
	canon := semester.Canonicalize(semesterInput)
	key := c.key(year, canon)

	if entry := c.store.Get(key); entry != nil {
		metrics.CacheResults.With(map[string]string{"result": string(Hit)}).Inc()
		return entry.Data, Hit, nil
	}

	c.mu.Lock()
	if f, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-f.done
		metrics.CacheResults.With(map[string]string{"result": string(Coalesce)}).Inc()
		return f.data, Coalesce, f.err
	}

	// Check again while holding the lock; a fetch may have completed
	// between the read above and here.
	if entry := c.store.Get(key); entry != nil {
		c.mu.Unlock()
		metrics.CacheResults.With(map[string]string{"result": string(Hit)}).Inc()
		return entry.Data, Hit, nil
	}

	f := &flight{done: make(chan struct{})}
	c.inflight[key] = f
	c.mu.Unlock()

	f.data, f.err = c.fetch(year, canon)
	if f.err == nil {
		c.store.Set(key, f.data, c.ttl)
	}

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
	close(f.done)

	if f.err != nil {
		c.logger.WithFields(logrus.Fields{"key": key}).Error(f.err)
		return nil, Miss, f.err
	}
	metrics.CacheResults.With(map[string]string{"result": string(Miss)}).Inc()
	return f.data, Miss, nil
}

// fetch tries the semester variants in order and stops at the first
// one yielding data. Exhausting all variants is not an error; the
// empty result is cached like any other.
func (c *LectureCache) fetch(year int, canon string) ([]snutt.SlimLecture, error) {
	var slim []snutt.SlimLecture
	for _, variant := range semester.Variants(canon) {
		var err error
		slim, err = c.fetcher.FetchAllPages(c.ctx, year, variant)
		if err != nil {
			return nil, err
		}
		if len(slim) > 0 {
			break
		}
	}
	if slim == nil {
		slim = []snutt.SlimLecture{}
	}
	return slim, nil
}
