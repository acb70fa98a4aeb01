package jobs

import (
	"context"
	"log"
	"time"

	"expensetrack.backend/pkg/metrics"
)

// MetricsFlushJob logs an aggregator summary on a fixed cadence so request
// statistics land in the logs even when nobody scrapes the endpoints.
type MetricsFlushJob struct {
	aggregator *metrics.Aggregator
	interval   time.Duration
	stop       chan struct{}
}

func NewMetricsFlushJob(aggregator *metrics.Aggregator, interval time.Duration) *MetricsFlushJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MetricsFlushJob{
		aggregator: aggregator,
		interval:   interval,
		stop:       make(chan struct{}),
	}
}

func (j *MetricsFlushJob) Start(ctx context.Context) {
	log.Println("🕐 Starting metrics flush job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Metrics flush job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Metrics flush job stopped")
			return
		case <-ticker.C:
			j.flush()
		}
	}
}

func (j *MetricsFlushJob) Stop() {
	close(j.stop)
}

func (j *MetricsFlushJob) flush() {
	snapshot := j.aggregator.GetSnapshot()
	log.Printf("📊 Requests: total=%d errors=%d rpm=%d endpoints=%d",
		snapshot.Global.TotalRequests,
		snapshot.Global.TotalErrors,
		snapshot.Global.RequestsPerMinute,
		len(snapshot.Endpoints),
	)
}
