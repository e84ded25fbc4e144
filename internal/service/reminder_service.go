package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"osas-connect/config"
	"osas-connect/internal/mail"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

const interviewReminderLead = 24 * time.Hour

// ReminderDeduper claims a key once until ttl expires
type ReminderDeduper interface {
	SetOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// ReminderService the daily reminder runs; both are safe to repeat
type ReminderService interface {
	SendInterviewReminders(ctx context.Context, now time.Time) (int, error)
	SendRenewalReminders(ctx context.Context, now time.Time) (int, error)
}

type reminderService struct {
	cfg      *config.Config
	repo     *repository.Repository
	periods  *PeriodCalculator
	notifier *notifier
	deduper  ReminderDeduper
	loc      *time.Location
	logger   *zap.Logger
}

// NewReminderService creates a ReminderService. A nil deduper falls back to the notifications table.
func NewReminderService(
	cfg *config.Config,
	repo *repository.Repository,
	periods *PeriodCalculator,
	n *notifier,
	deduper ReminderDeduper,
	logger *zap.Logger,
) ReminderService {
	return &reminderService{
		cfg:      cfg,
		repo:     repo,
		periods:  periods,
		notifier: n,
		deduper:  deduper,
		loc:      cfg.Scheduler.Location(),
		logger:   logger,
	}
}

// ────────────────────── interviews ──────────────────────

func (s *reminderService) SendInterviewReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.Interview.ListDueForReminder(ctx, now, now.Add(interviewReminderLead))
	if err != nil {
		s.logger.Error("list interviews due for reminder failed", zap.Error(err))
		return 0, err
	}

	sent := 0
	for i := range due {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		interview := &due[i]
		if err := s.remindInterview(ctx, interview, now); err != nil {
			s.logger.Warn("interview reminder failed",
				zap.String("interview_id", interview.InterviewID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("interview reminders sent", zap.Int("count", sent), zap.Int("due", len(due)))
	return sent, nil
}

func (s *reminderService) remindInterview(ctx context.Context, interview *model.Interview, now time.Time) error {
	app := interview.Application
	if app == nil {
		return fmt.Errorf("interview %s has no application", interview.InterviewID)
	}

	// reminder_sent_at is committed before the mail is queued
	sentAt := now
	interview.ReminderSentAt = &sentAt
	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Interview.Update(ctx, interview); err != nil {
			return err
		}
		return s.notifier.notify(ctx, tx, notice{
			UserID:      app.UserID,
			Type:        model.NotifyInterviewReminder,
			Title:       "Interview tomorrow",
			Content:     fmt.Sprintf("Reminder: your interview is on %s at %s.", interview.Schedule.In(s.loc).Format(interviewTimeLayout), interview.Location),
			RelatedType: "interview",
			RelatedID:   interview.InterviewID,
		})
	})
	if err != nil {
		interview.ReminderSentAt = nil
		return err
	}

	if err := s.notifier.send(ctx, app.User, mail.TemplateInterviewReminder,
		interviewMailData(interview, s.loc), icsAttachment(interview, s.cfg.Mail.From, now)); err != nil {
		// reopen the interview for the next run
		interview.ReminderSentAt = nil
		if uerr := s.repo.Interview.Update(ctx, interview); uerr != nil {
			s.logger.Error("reset interview reminder failed",
				zap.String("interview_id", interview.InterviewID),
				zap.Error(uerr),
			)
		}
		return err
	}
	return nil
}

// ────────────────────── renewals ──────────────────────

func (s *reminderService) SendRenewalReminders(ctx context.Context, now time.Time) (int, error) {
	period := s.periods.CurrentPeriod(now)
	deadline, ok := s.periods.Deadline(period)
	if !ok || !s.periods.InReminderWindow(now, deadline) {
		s.logger.Debug("outside renewal reminder window", zap.String("period", period.Name))
		return 0, nil
	}

	apps, err := s.repo.Application.ListApprovedRenewable(ctx)
	if err != nil {
		s.logger.Error("list renewable applications failed", zap.Error(err))
		return 0, err
	}

	// the key outlives the deadline day
	ttl := deadline.AddDate(0, 0, 1).Sub(now)
	windowStart := deadline.AddDate(0, 0, -s.periods.windowDays)
	data := mail.RenewalReminderData{
		Period:   period.Name,
		Deadline: deadline.Format("January 2, 2006"),
		DaysLeft: s.periods.DaysLeft(now, deadline),
		Link:     s.notifier.link("/renewals"),
	}

	sent := 0
	for i := range apps {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		app := &apps[i]

		renewals, err := s.repo.Renewal.ListByApplication(ctx, app.ApplicationID)
		if err != nil {
			s.logger.Warn("list renewals failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
			continue
		}
		if hasBlockingRenewal(renewals, period.Name) {
			continue
		}

		first, err := s.claimRenewalReminder(ctx, app, period.Name, ttl, windowStart)
		if err != nil {
			s.logger.Warn("renewal reminder dedupe failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
			continue
		}
		if !first {
			continue
		}

		d := data
		d.StudentName = fullNameOf(app.User)
		d.ScholarshipName = scholarshipName(app.Scholarship)
		if err := s.notifier.send(ctx, app.User, mail.TemplateRenewalReminder, d); err != nil {
			s.logger.Warn("queue renewal reminder failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
			s.releaseRenewalReminder(ctx, app, period.Name)
			continue
		}

		err = s.notifier.notify(ctx, s.repo, notice{
			UserID:      app.UserID,
			Type:        model.NotifyRenewalReminder,
			Title:       "Renewal deadline approaching",
			Content:     fmt.Sprintf("Submit your %s renewal for %s by %s.", d.ScholarshipName, period.Name, d.Deadline),
			RelatedType: "application",
			RelatedID:   app.ApplicationID,
		})
		if err != nil {
			s.logger.Warn("store renewal reminder failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
		}
		sent++
	}

	s.logger.Info("renewal reminders sent", zap.String("period", period.Name), zap.Int("count", sent))
	return sent, nil
}

// claimRenewalReminder true the first time an application is reminded in a period
func (s *reminderService) claimRenewalReminder(
	ctx context.Context,
	app *model.ScholarshipApplication,
	period string,
	ttl time.Duration,
	windowStart time.Time,
) (bool, error) {
	if s.deduper != nil {
		return s.deduper.SetOnce(ctx, renewalReminderKey(app.ApplicationID, period), ttl)
	}
	exists, err := s.repo.Notification.ExistsSince(ctx, app.UserID, model.NotifyRenewalReminder, app.ApplicationID, windowStart)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// releaseRenewalReminder lets the next run retry. Without a deduper nothing was
// claimed, since the notification row is only written after the mail is queued.
func (s *reminderService) releaseRenewalReminder(ctx context.Context, app *model.ScholarshipApplication, period string) {
	if s.deduper == nil {
		return
	}
	if err := s.deduper.Release(ctx, renewalReminderKey(app.ApplicationID, period)); err != nil {
		s.logger.Warn("release renewal reminder failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
	}
}

func renewalReminderKey(applicationID, period string) string {
	return fmt.Sprintf("renewal_reminder:%s:%s", applicationID, period)
}

func hasBlockingRenewal(renewals []model.RenewalApplication, period string) bool {
	for i := range renewals {
		if renewals[i].RenewalPeriod == period && renewals[i].BlocksPeriod() {
			return true
		}
	}
	return false
}
