package scheduler

import (
	"context"
	"time"

	"github.com/faysalmohammed2020/buzzmoving-texas/internal/domain/analytics"
	"github.com/faysalmohammed2020/buzzmoving-texas/pkg/logger"
	"go.uber.org/zap"
)

// Scheduler runs the nightly analytics retention sweep. A retention of zero
// days disables pruning entirely.
type Scheduler struct {
	analyticsService analytics.Service
	retentionDays    int
	logger           *logger.Logger
}

func NewScheduler(analyticsService analytics.Service, retentionDays int, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		analyticsService: analyticsService,
		retentionDays:    retentionDays,
		logger:           logger,
	}
}

func (s *Scheduler) Start() {
	if s.retentionDays <= 0 {
		s.logger.Info("Analytics retention disabled, events are kept forever")
		return
	}

	// Run immediately at startup
	s.runRetentionSweep()

	// Calculate time until next midnight
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	timeUntilMidnight := nextMidnight.Sub(now)

	s.logger.Info("Retention scheduler initialized",
		zap.Int("retention_days", s.retentionDays),
		zap.Time("next_run", nextMidnight),
		zap.Duration("time_until_next_run", timeUntilMidnight),
	)

	go func() {
		// Wait until first midnight
		time.Sleep(timeUntilMidnight)

		// Then run every 24 hours
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			s.runRetentionSweep()
		}
	}()
}

func (s *Scheduler) runRetentionSweep() {
	ctx := context.Background()
	startTime := time.Now()
	cutoff := startTime.UTC().AddDate(0, 0, -s.retentionDays)

	deleted, err := s.analyticsService.PruneOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Analytics retention sweep failed",
			zap.Time("cutoff", cutoff),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Analytics retention sweep completed",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted_events", deleted),
		zap.Duration("duration", time.Since(startTime)),
	)
}
