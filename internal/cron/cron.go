package cron

import (
	"context"
	"fmt"
	"gsuitetool/internal/worker"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron   *cron.Cron
	worker *worker.Worker
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger, w *worker.Worker) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:   c,
		worker: w,
		logger: logger,
	}
}

// Start registers one entry per configured upload. With runNow every upload also runs
// once immediately in the background.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	for _, job := range s.worker.Jobs() {
		_, err := s.cron.AddFunc(job.Schedule, func() {
			s.logger.Info("Scheduled upload", zap.String("job", job.Name))
			if err := s.worker.Process(ctx, job); err != nil {
				s.logger.Error("Scheduled upload failed", zap.String("job", job.Name), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid schedule %q for upload %q: %w", job.Schedule, job.Name, err)
		}
	}

	if runNow {
		s.logger.Info("Initial run of all uploads")
		go func() {
			_ = s.worker.ProcessAllUploads(ctx)
		}()
	}

	s.cron.Start()
	s.logger.Info("Cron scheduler started", zap.Int("entries", len(s.cron.Entries())))
	return nil
}

// Stop halts the scheduler and waits for running uploads to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Cron scheduler stopped")
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
