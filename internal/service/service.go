package service

import (
	"time"

	"go.uber.org/zap"

	"osas-connect/config"
	"osas-connect/internal/job"
	"osas-connect/internal/mail"
	"osas-connect/internal/repository"
	"osas-connect/pkg/jwt"
	"osas-connect/pkg/storage"
)

// Options optional collaborators. A nil Blacklist or Deduper means Redis is
// unavailable; a nil Dispatcher or Renderer disables email.
type Options struct {
	Store      storage.Store
	Dispatcher job.Dispatcher
	Renderer   *mail.Renderer
	Blacklist  TokenBlacklist
	Deduper    ReminderDeduper
	Now        func() time.Time
}

// Service aggregates every service
type Service struct {
	Auth         AuthService
	User         UserService
	Profile      ProfileService
	Scholarship  ScholarshipService
	Application  ApplicationService
	Document     DocumentService
	Interview    InterviewService
	Stipend      StipendService
	Renewal      RenewalService
	Notification NotificationService
	Reminder     ReminderService
	Report       ReportService
}

// NewService wires every service
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	opts Options,
	logger *zap.Logger,
) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	n := newNotifier(cfg, opts.Renderer, opts.Dispatcher, logger)
	periods := NewPeriodCalculator(&cfg.Renewal, cfg.Scheduler.Location())

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, opts.Blacklist, logger),
		User:         NewUserService(repo, logger),
		Profile:      NewProfileService(repo, logger),
		Scholarship:  NewScholarshipService(repo, now, cfg.Scheduler.Location(), logger),
		Application:  NewApplicationService(cfg, repo, n, now, logger),
		Document:     NewDocumentService(cfg, repo, opts.Store, n, now, logger),
		Interview:    NewInterviewService(cfg, repo, n, now, logger),
		Stipend:      NewStipendService(repo, n, now, logger),
		Renewal:      NewRenewalService(repo, periods, n, now, logger),
		Notification: NewNotificationService(repo, logger),
		Reminder:     NewReminderService(cfg, repo, periods, n, opts.Deduper, logger),
		Report:       NewReportService(repo, periods, now, logger),
	}
}
