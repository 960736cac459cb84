package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Job interface {
	RunScheduled(ctx context.Context) error
}

// RemovalWorker runs the removal cleanup and auto-creation pass on a fixed interval.
type RemovalWorker struct {
	job      Job
	interval time.Duration
	log      zerolog.Logger
}

func NewRemovalWorker(job Job, interval time.Duration, log zerolog.Logger) *RemovalWorker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &RemovalWorker{
		job:      job,
		interval: interval,
		log:      log.With().Str("component", "removal_worker").Logger(),
	}
}

// Run executes one pass immediately and then one per tick until ctx is cancelled.
func (w *RemovalWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info().Dur("interval", w.interval).Msg("removal worker started")
	for {
		if err := w.job.RunScheduled(ctx); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("removal pass failed")
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("removal worker stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
