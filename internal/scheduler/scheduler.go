// Package scheduler runs the daily reminder jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"osas-connect/config"
	"osas-connect/internal/service"
)

// Job names
const (
	JobInterviewReminders = "interview_reminders"
	JobRenewalReminders   = "renewal_reminders"
)

// runTimeout upper bound for one reminder run
const runTimeout = 10 * time.Minute

// RunFunc one reminder run; returns the number of reminders sent
type RunFunc func(ctx context.Context, now time.Time) (int, error)

type entry struct {
	name string
	spec string
	run  RunFunc
	id   cron.EntryID
}

// Scheduler wraps robfig/cron. Every spec is evaluated in the configured timezone.
type Scheduler struct {
	cron    *cron.Cron
	loc     *time.Location
	entries map[string]*entry
	now     func() time.Time
	logger  *zap.Logger

	mu   sync.RWMutex
	base context.Context
}

// New registers the interview and renewal reminder jobs
func New(cfg *config.SchedulerConfig, reminders service.ReminderService, logger *zap.Logger) (*Scheduler, error) {
	loc := cfg.Location()
	cl := cronLogger{logger.Sugar()}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		loc:     loc,
		entries: make(map[string]*entry),
		now:     time.Now,
		logger:  logger,
		base:    context.Background(),
	}

	if err := s.Add(JobInterviewReminders, cfg.InterviewReminderAt, reminders.SendInterviewReminders); err != nil {
		return nil, err
	}
	if err := s.Add(JobRenewalReminders, cfg.RenewalReminderAt, reminders.SendRenewalReminders); err != nil {
		return nil, err
	}
	return s, nil
}

// Add registers a job. A spec without CRON_TZ is pinned to the scheduler timezone.
func (s *Scheduler) Add(name, spec string, run RunFunc) error {
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	full := strings.TrimSpace(spec)
	if !strings.HasPrefix(full, "CRON_TZ=") && !strings.HasPrefix(full, "TZ=") {
		full = "CRON_TZ=" + s.loc.String() + " " + full
	}

	e := &entry{name: name, spec: full, run: run}
	id, err := s.cron.AddFunc(full, func() { s.execute(e) })
	if err != nil {
		return fmt.Errorf("job %q: invalid schedule %q: %w", name, spec, err)
	}
	e.id = id
	s.entries[name] = e
	return nil
}

// Start runs the cron loop in its own goroutine; ctx is the parent of every run
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	s.cron.Start()
	now := s.now()
	for name := range s.entries {
		next, _ := s.NextRun(name, now)
		s.logger.Info("job scheduled", zap.String("job", name), zap.Time("next_run", next))
	}
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// NextRun the first activation of a job after t
func (s *Scheduler) NextRun(name string, after time.Time) (time.Time, bool) {
	e, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(e.id).Schedule.Next(after), true
}

// RunNow executes one job synchronously, outside the schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) (int, error) {
	e, ok := s.entries[name]
	if !ok {
		return 0, fmt.Errorf("unknown job %q", name)
	}
	return e.run(ctx, s.now())
}

func (s *Scheduler) execute(e *entry) {
	s.mu.RLock()
	base := s.base
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(base, runTimeout)
	defer cancel()

	start := s.now()
	sent, err := e.run(ctx, start)
	if err != nil {
		s.logger.Error("scheduled job failed",
			zap.String("job", e.name),
			zap.Int("sent", sent),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("scheduled job done",
		zap.String("job", e.name),
		zap.Int("sent", sent),
		zap.Duration("took", time.Since(start)),
	)
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
