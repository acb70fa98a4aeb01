package jobs

import (
	"context"
	"log"
	"time"
)

// Sweepable is the cache surface the sweep job needs.
type Sweepable interface {
	Sweep() int
}

// CacheSweepJob periodically removes expired entries from the in-process
// caches so memory is reclaimed even when nothing touches a key again.
type CacheSweepJob struct {
	caches   map[string]Sweepable
	interval time.Duration
	stop     chan struct{}
}

func NewCacheSweepJob(interval time.Duration, caches map[string]Sweepable) *CacheSweepJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheSweepJob{
		caches:   caches,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *CacheSweepJob) Start(ctx context.Context) {
	log.Println("🕐 Starting cache sweep job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Cache sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Cache sweep job stopped")
			return
		case <-ticker.C:
			j.sweepAll()
		}
	}
}

func (j *CacheSweepJob) Stop() {
	close(j.stop)
}

func (j *CacheSweepJob) sweepAll() {
	for name, c := range j.caches {
		if removed := c.Sweep(); removed > 0 {
			log.Printf("🧹 Swept %d expired entries from %s cache", removed, name)
		}
	}
}
