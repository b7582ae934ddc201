package worker

import (
	"context"
	"time"

	"avgspeed/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// ReportCounter is the part of the report service the stats worker needs
type ReportCounter interface {
	Count(ctx context.Context) (int, error)
}

// StartStatsWorker refreshes the stored-reports gauge every interval
func StartStatsWorker(ctx context.Context, counter ReportCounter, interval time.Duration) {
	if interval <= 0 {
		log.Println("Stats worker disabled")
		return
	}

	// Publish a value right away instead of waiting a full interval
	RefreshStats(ctx, counter)

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("Stats worker stopped")
				return
			case <-ticker.C:
				RefreshStats(ctx, counter)
			}
		}
	}()

	log.Println("Stats worker started with interval:", interval)
}

// RefreshStats counts stored reports and publishes the gauge
func RefreshStats(ctx context.Context, counter ReportCounter) {
	count, err := counter.Count(ctx)
	if err != nil {
		log.Warnf("Stats worker: failed to count reports: %v", err)
		return
	}

	metrics.ReportsStored.Set(float64(count))
	log.Debugf("Stats worker: %d reports stored", count)
}
