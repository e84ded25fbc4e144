package job

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const claimBatch = 20

// Worker polls a Queue and runs due jobs
type Worker struct {
	queue        *Queue
	handlers     Handlers
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewWorker creates a Worker
func NewWorker(queue *Queue, handlers Handlers, pollInterval time.Duration, logger *zap.Logger) *Worker {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Worker{
		queue:        queue,
		handlers:     handlers,
		pollInterval: pollInterval,
		logger:       logger,
	}
}

// Run polls until ctx is cancelled
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("job worker started",
		zap.String("queue", w.queue.name),
		zap.Duration("poll_interval", w.pollInterval),
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.ProcessDue(ctx); err != nil && ctx.Err() == nil {
			w.logger.Error("poll job queue failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			w.logger.Info("job worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// ProcessDue runs every job due now and returns how many were executed
func (w *Worker) ProcessDue(ctx context.Context) (int, error) {
	processed := 0
	for {
		jobs, err := w.queue.claim(ctx, claimBatch)
		for _, j := range jobs {
			w.execute(ctx, j)
			processed++
		}
		if err != nil {
			return processed, err
		}
		if len(jobs) < claimBatch || ctx.Err() != nil {
			return processed, nil
		}
	}
}

func (w *Worker) execute(ctx context.Context, j *Job) {
	log := w.logger.With(zap.String("job_id", j.ID), zap.String("type", j.Type))

	handler, ok := w.handlers[j.Type]
	if !ok {
		log.Error("dropping job", zap.Error(ErrUnknownJobType))
		return
	}

	j.Attempts++
	err := handler(ctx, j.Payload)
	if err == nil {
		log.Info("job done", zap.Int("attempt", j.Attempts))
		return
	}

	j.LastError = err.Error()
	policy := w.queue.policy
	if j.MaxAttempts > 0 {
		policy.MaxAttempts = j.MaxAttempts
	}

	if policy.Exhausted(j.Attempts) {
		log.Error("job dropped after final attempt",
			zap.Int("attempts", j.Attempts),
			zap.Error(err),
		)
		return
	}

	// the retry must survive a shutdown that cancelled the attempt
	delay := policy.Delay(j.Attempts)
	if serr := w.queue.schedule(context.WithoutCancel(ctx), j, w.queue.now().Add(delay)); serr != nil {
		log.Error("job lost: reschedule failed", zap.Error(serr), zap.NamedError("job_error", err))
		return
	}
	log.Warn("job failed, retry scheduled",
		zap.Int("attempt", j.Attempts),
		zap.Duration("retry_in", delay),
		zap.Error(err),
	)
}
