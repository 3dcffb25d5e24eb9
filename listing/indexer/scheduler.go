package indexer

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/samujjwal/rental-sub006/logging/logger"
)

// Scheduler runs ReindexAll on a cron spec.
type Scheduler struct {
	cron    *cron.Cron
	indexer *Indexer
	spec    string
}

// NewScheduler creates a scheduler for spec, e.g. "@every 6h" or
// "0 3 * * *". Overlapping runs are skipped.
func NewScheduler(ix *Indexer, spec string) *Scheduler {
	l := cronLogger{l: ix.logger}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(l), cron.WithChain(cron.SkipIfStillRunning(l))),
		indexer: ix,
		spec:    spec,
	}
}

// Start registers the reindex job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.indexer.ReindexAll(ctx); err != nil {
			s.indexer.logger.Error(ctx, "scheduled reindex failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	s.indexer.logger.Info(ctx, "reindex scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// cronLogger routes cron's internal logging to the service logger.
type cronLogger struct {
	l *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(context.Background(), "cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(context.Background(), "cron: "+msg, append(keysAndValues, "error", err)...)
}
