package job

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InlineDispatcher runs jobs in-process when no queue is available.
// Each job runs on its own goroutine with the same retry policy as the Worker.
type InlineDispatcher struct {
	handlers Handlers
	policy   RetryPolicy
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	wg       sync.WaitGroup
}

// NewInlineDispatcher creates an InlineDispatcher
func NewInlineDispatcher(handlers Handlers, policy RetryPolicy, logger *zap.Logger) *InlineDispatcher {
	return &InlineDispatcher{
		handlers: handlers,
		policy:   policy,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Dispatch starts the job. Cancellation of ctx does not abort it; use Wait before exiting.
func (d *InlineDispatcher) Dispatch(ctx context.Context, jobType string, payload interface{}) error {
	handler, ok := d.handlers[jobType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJobType, jobType)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", jobType, err)
	}

	j := &Job{
		ID:          uuid.New().String(),
		Type:        jobType,
		Payload:     raw,
		MaxAttempts: d.policy.MaxAttempts,
		EnqueuedAt:  time.Now(),
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(context.WithoutCancel(ctx), handler, j)
	}()
	return nil
}

// Wait blocks until every dispatched job finished or was dropped
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}

func (d *InlineDispatcher) run(ctx context.Context, handler Handler, j *Job) {
	log := d.logger.With(zap.String("job_id", j.ID), zap.String("type", j.Type))

	for {
		j.Attempts++
		err := handler(ctx, j.Payload)
		if err == nil {
			log.Info("job done", zap.Int("attempt", j.Attempts))
			return
		}

		if d.policy.Exhausted(j.Attempts) {
			log.Error("job dropped after final attempt", zap.Int("attempts", j.Attempts), zap.Error(err))
			return
		}

		delay := d.policy.Delay(j.Attempts)
		log.Warn("job failed, retrying",
			zap.Int("attempt", j.Attempts),
			zap.Duration("retry_in", delay),
			zap.Error(err),
		)
		if err := d.sleep(ctx, delay); err != nil {
			log.Error("job abandoned", zap.Error(err))
			return
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
