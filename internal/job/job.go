package job

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrUnknownJobType no handler is registered for the job type
var ErrUnknownJobType = errors.New("unknown job type")

// Job a unit of background work. Attempts counts executions already made.
type Job struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	LastError   string          `json:"last_error,omitempty"`
	EnqueuedAt  time.Time       `json:"enqueued_at"`
}

// Handler executes one job payload
type Handler func(ctx context.Context, payload json.RawMessage) error

// Handlers handler per job type
type Handlers map[string]Handler

// Dispatcher accepts background work
type Dispatcher interface {
	Dispatch(ctx context.Context, jobType string, payload interface{}) error
}

// RetryPolicy attempts and the wait before each retry
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration
}

// Delay wait after the given failed attempt (1-based). The last entry repeats.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	i := attempt - 1
	if i < 0 {
		i = 0
	}
	if i >= len(p.Backoff) {
		i = len(p.Backoff) - 1
	}
	return p.Backoff[i]
}

// Exhausted reports whether no attempts remain after the given one
func (p RetryPolicy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}
