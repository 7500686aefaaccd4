package scheduler

import (
	"context"
	"fmt"
	"time"

	"search-service/internal/contextkeys"
	"search-service/internal/core/port"
	"search-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const runTimeout = time.Minute

// CacheClearScheduler runs cache invalidation on a cron schedule.
type CacheClearScheduler struct {
	spec    string
	clearUC usecases_port.ClearCacheUseCasePort
	logger  port.LoggerPort
	cron    *cron.Cron
}

// New returns a scheduler for spec (standard 5-field cron syntax). An empty
// spec yields a scheduler that never fires.
func New(spec string, clearUC usecases_port.ClearCacheUseCasePort, logger port.LoggerPort) *CacheClearScheduler {
	return &CacheClearScheduler{
		spec:    spec,
		clearUC: clearUC,
		logger:  logger.WithFields(port.Fields{"component": "CacheClearScheduler"}),
		cron:    cron.New(),
	}
}

// Start registers the job and starts the cron loop. ctx bounds every run.
func (s *CacheClearScheduler) Start(ctx context.Context) error {
	if s.spec == "" {
		s.logger.Info("No cache clear schedule configured", nil)
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("Cache clear scheduler started", port.Fields{"cron": s.spec})
	return nil
}

func (s *CacheClearScheduler) runOnce(ctx context.Context) {
	runLogger := s.logger.WithFields(port.Fields{"trace_id": uuid.New().String()})
	runCtx, cancel := context.WithTimeout(contextkeys.ContextWithLogger(ctx, runLogger), runTimeout)
	defer cancel()

	deleted, err := s.clearUC.Execute(runCtx)
	if err != nil {
		runLogger.Error("Scheduled cache clear failed", err, nil)
		return
	}
	runLogger.Info("Scheduled cache clear finished", port.Fields{"deleted": deleted})
}

// Stop stops the cron loop and waits for a running job.
func (s *CacheClearScheduler) Stop() {
	<-s.cron.Stop().Done()
}
