package app

import (
	"context"
	"time"

	"github.com/clinichub/clinic-booking/internal/service"
	"go.uber.org/zap"
)

// Scheduler runs the background jobs.
type Scheduler struct {
	scheduleService *service.ScheduleService
	interval        time.Duration
	logger          *zap.Logger
	stopChan        chan struct{}
}

func NewScheduler(scheduleService *service.ScheduleService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduleService: scheduleService,
		interval:        interval,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start launches the background tasks.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runScheduleChangeTask(ctx)
}

// Stop stops the background tasks.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runScheduleChangeTask periodically applies schedule-change requests whose
// apply date has been reached.
func (s *Scheduler) runScheduleChangeTask(ctx context.Context) {
	// First run right at startup, then on every tick.
	s.applyDueRequests(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.applyDueRequests(ctx)
		case <-s.stopChan:
			s.logger.Info("Schedule change task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Schedule change task cancelled")
			return
		}
	}
}

func (s *Scheduler) applyDueRequests(ctx context.Context) {
	applied, err := s.scheduleService.ApplyDueScheduleChanges(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to apply schedule change requests", zap.Error(err))
		return
	}
	if applied > 0 {
		s.logger.Info("Applied schedule change requests", zap.Int("count", applied))
	}
}
