package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultQueue Redis key of the job sorted set
const DefaultQueue = "osas:jobs"

// Store delayed-queue primitives; implemented by pkg/redis.Client.
// ClaimDue may return the members it already removed together with an error.
type Store interface {
	Schedule(ctx context.Context, queue, member string, runAt time.Time) error
	ClaimDue(ctx context.Context, queue string, now time.Time, max int64) ([]string, error)
}

// Queue Redis-backed Dispatcher. Jobs are scored by their run-at time.
type Queue struct {
	store  Store
	name   string
	policy RetryPolicy
	logger *zap.Logger
	now    func() time.Time
}

// NewQueue creates a Queue on the named sorted set
func NewQueue(store Store, name string, policy RetryPolicy, logger *zap.Logger) *Queue {
	return &Queue{
		store:  store,
		name:   name,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// Dispatch enqueues a job due immediately
func (q *Queue) Dispatch(ctx context.Context, jobType string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", jobType, err)
	}

	j := &Job{
		ID:          uuid.New().String(),
		Type:        jobType,
		Payload:     raw,
		MaxAttempts: q.policy.MaxAttempts,
		EnqueuedAt:  q.now(),
	}
	if err := q.schedule(ctx, j, j.EnqueuedAt); err != nil {
		return err
	}

	q.logger.Debug("job enqueued", zap.String("job_id", j.ID), zap.String("type", jobType))
	return nil
}

func (q *Queue) schedule(ctx context.Context, j *Job, runAt time.Time) error {
	member, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return q.store.Schedule(ctx, q.name, string(member), runAt)
}

// claim pops up to max due jobs. Undecodable members are logged and discarded.
// On a store error the members removed before the failure are still returned.
func (q *Queue) claim(ctx context.Context, max int64) ([]*Job, error) {
	members, err := q.store.ClaimDue(ctx, q.name, q.now(), max)

	jobs := make([]*Job, 0, len(members))
	for _, m := range members {
		var j Job
		if err := json.Unmarshal([]byte(m), &j); err != nil {
			q.logger.Error("discarding malformed job", zap.String("member", m), zap.Error(err))
			continue
		}
		jobs = append(jobs, &j)
	}
	return jobs, err
}
