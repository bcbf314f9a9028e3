package enrichment

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler periodically runs an enrichment batch so newly ingested
// places pick up descriptions without an operator call.
type Scheduler struct {
	logger    *slog.Logger
	service   Service
	interval  time.Duration
	batchSize int
}

func NewScheduler(service Service, interval time.Duration, batchSize int, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 168 * time.Hour
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Scheduler{
		logger:    logger,
		service:   service,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run blocks until ctx is cancelled, firing a batch every interval.
// Intended to be started on its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "enrichment scheduler started",
		slog.Duration("interval", s.interval), slog.Int("batchSize", s.batchSize))

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "enrichment scheduler stopped")
			return
		case <-ticker.C:
			enriched, err := s.service.EnrichPending(ctx, s.batchSize)
			if err != nil {
				s.logger.ErrorContext(ctx, "scheduled enrichment failed", slog.Any("error", err))
				continue
			}
			if enriched > 0 {
				s.logger.InfoContext(ctx, "scheduled enrichment finished", slog.Int("enriched", enriched))
			}
		}
	}
}
