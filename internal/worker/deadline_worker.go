package worker

import (
	"context"
	"time"

	"github.com/quizroom/quizroom-backend/internal/service"
	"github.com/rs/zerolog"
)

// DeadlineWorker periodically force-submits unfinished attempts whose
// quiz time limit has elapsed. A taker who went away mid-quiz still gets
// graded on whatever the attempt holds.
type DeadlineWorker struct {
	attemptService *service.AttemptService
	interval       time.Duration
	log            zerolog.Logger
}

// NewDeadlineWorker creates a new DeadlineWorker.
func NewDeadlineWorker(attemptService *service.AttemptService, interval time.Duration, log zerolog.Logger) *DeadlineWorker {
	return &DeadlineWorker{
		attemptService: attemptService,
		interval:       interval,
		log:            log.With().Str("component", "deadline_worker").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine; it returns when ctx
// is cancelled.
func (w *DeadlineWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *DeadlineWorker) sweep(ctx context.Context) {
	closed, err := w.attemptService.ExpireOverdue(ctx, time.Now())
	if err != nil {
		w.log.Error().Err(err).Msg("Sweep failed")
		return
	}
	if closed > 0 {
		w.log.Info().Int("closed", closed).Msg("Overdue attempts closed")
	}
}
