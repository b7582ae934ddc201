package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// StartAllWorkers initializes and starts all background workers.
// Workers stop when ctx is cancelled.
func StartAllWorkers(ctx context.Context, counter ReportCounter, statsInterval time.Duration) {
	log.Println("Starting all workers...")

	StartStatsWorker(ctx, counter, statsInterval)

	log.Println("All workers started")
}
