package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"osas-connect/config"
	"osas-connect/internal/dto"
	"osas-connect/internal/mail"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

const (
	interviewConflictWindow = 60 * time.Minute
	interviewDuration       = time.Hour
)

// ── interview module errors ──

var (
	ErrInterviewNotFound       = errors.New("interview not found")
	ErrInterviewNotSchedulable = errors.New("application must be verified or under evaluation to schedule an interview")
	ErrInterviewInPast         = errors.New("interview must be scheduled in the future")
	ErrInterviewerConflict     = errors.New("interviewer has another interview within 60 minutes")
	ErrInterviewerNotStaff     = errors.New("interviewer must be an active OSAS staff member")
	ErrInterviewClosed         = errors.New("interview is already completed or cancelled")
)

// InterviewService interview scheduling
type InterviewService interface {
	Schedule(ctx context.Context, staffID string, req *dto.ScheduleInterviewRequest) (*model.Interview, error)
	Reschedule(ctx context.Context, id, staffID string, req *dto.RescheduleInterviewRequest) (*model.Interview, error)
	Cancel(ctx context.Context, id, staffID string, req *dto.CancelInterviewRequest) (*model.Interview, error)
	Complete(ctx context.Context, id, staffID string, req *dto.CompleteInterviewRequest) (*model.Interview, error)
	Get(ctx context.Context, id, callerID, callerRole string) (*model.Interview, error)
	List(ctx context.Context, req *dto.InterviewListRequest, callerID, callerRole string) ([]model.Interview, int64, error)
	CalendarInvite(ctx context.Context, id, callerID, callerRole string) ([]byte, error)
}

type interviewService struct {
	cfg      *config.Config
	repo     *repository.Repository
	notifier *notifier
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewInterviewService creates an InterviewService
func NewInterviewService(
	cfg *config.Config,
	repo *repository.Repository,
	n *notifier,
	now func() time.Time,
	logger *zap.Logger,
) InterviewService {
	return &interviewService{
		cfg:      cfg,
		repo:     repo,
		notifier: n,
		loc:      cfg.Scheduler.Location(),
		now:      now,
		logger:   logger,
	}
}

// ────────────────────── Schedule ──────────────────────

func (s *interviewService) Schedule(ctx context.Context, staffID string, req *dto.ScheduleInterviewRequest) (*model.Interview, error) {
	app, err := s.repo.Application.GetByID(ctx, req.ApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Status != model.AppStatusVerified && app.Status != model.AppStatusUnderEvaluation {
		return nil, ErrInterviewNotSchedulable
	}

	interviewerID := req.InterviewerID
	if interviewerID == "" {
		interviewerID = staffID
	}
	interviewer, err := s.checkInterviewer(ctx, interviewerID)
	if err != nil {
		return nil, err
	}

	at := req.Schedule
	if err := s.checkSlot(ctx, interviewerID, at, ""); err != nil {
		return nil, err
	}

	interview := &model.Interview{
		ApplicationID:   app.ApplicationID,
		InterviewerID:   interviewerID,
		Schedule:        at,
		Location:        strings.TrimSpace(req.Location),
		Type:            req.Type,
		Status:          model.InterviewScheduled,
		Notes:           req.Notes,
		SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &staffID}},
	}

	app.InterviewSchedule = &at
	app.UpdatedBy = &staffID
	err = s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Interview.Create(ctx, interview); err != nil {
			return err
		}
		if err := tx.Application.Update(ctx, app); err != nil {
			return err
		}
		return s.notifier.notify(ctx, tx, notice{
			UserID:      app.UserID,
			Type:        model.NotifyInterviewScheduled,
			Title:       "Interview scheduled",
			Content:     fmt.Sprintf("Your interview for %s is on %s at %s.", scholarshipName(app.Scholarship), s.formatTime(at), interview.Location),
			RelatedType: "interview",
			RelatedID:   interview.InterviewID,
		})
	})
	if err != nil {
		s.logger.Error("schedule interview failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
		return nil, err
	}

	interview.Application = app
	interview.Interviewer = interviewer
	s.mailInterview(ctx, interview, mail.TemplateInterviewScheduled)

	s.logger.Info("interview scheduled",
		zap.String("interview_id", interview.InterviewID),
		zap.String("application_id", app.ApplicationID),
		zap.Time("schedule", at),
	)
	return interview, nil
}

// ────────────────────── Reschedule ──────────────────────

func (s *interviewService) Reschedule(ctx context.Context, id, staffID string, req *dto.RescheduleInterviewRequest) (*model.Interview, error) {
	interview, err := s.getInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !interview.IsUpcoming() {
		return nil, ErrInterviewClosed
	}
	if err := s.checkSlot(ctx, interview.InterviewerID, req.Schedule, interview.InterviewID); err != nil {
		return nil, err
	}

	at := req.Schedule
	interview.Schedule = at
	interview.Status = model.InterviewRescheduled
	interview.RescheduleReason = strings.TrimSpace(req.Reason)
	interview.ReminderSentAt = nil
	if req.Location != nil {
		interview.Location = strings.TrimSpace(*req.Location)
	}
	interview.UpdatedBy = &staffID

	err = s.updateWithApplication(ctx, interview, staffID, func(app *model.ScholarshipApplication) {
		app.InterviewSchedule = &at
	}, notice{
		Type:    model.NotifyInterviewScheduled,
		Title:   "Interview rescheduled",
		Content: fmt.Sprintf("Your interview was moved to %s at %s. Reason: %s", s.formatTime(at), interview.Location, interview.RescheduleReason),
	})
	if err != nil {
		return nil, err
	}

	s.mailInterview(ctx, interview, mail.TemplateInterviewScheduled)
	return interview, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *interviewService) Cancel(ctx context.Context, id, staffID string, req *dto.CancelInterviewRequest) (*model.Interview, error) {
	interview, err := s.getInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !interview.IsUpcoming() {
		return nil, ErrInterviewClosed
	}

	reason := strings.TrimSpace(req.Reason)
	interview.Status = model.InterviewCancelled
	interview.Notes = appendNote(interview.Notes, "Cancelled: "+reason)
	interview.UpdatedBy = &staffID

	err = s.updateWithApplication(ctx, interview, staffID, func(app *model.ScholarshipApplication) {
		app.InterviewSchedule = nil
	}, notice{
		Type:    model.NotifyInterviewScheduled,
		Title:   "Interview cancelled",
		Content: fmt.Sprintf("Your interview on %s was cancelled. Reason: %s", s.formatTime(interview.Schedule), reason),
	})
	if err != nil {
		return nil, err
	}
	return interview, nil
}

// ────────────────────── Complete ──────────────────────

func (s *interviewService) Complete(ctx context.Context, id, staffID string, req *dto.CompleteInterviewRequest) (*model.Interview, error) {
	interview, err := s.getInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !interview.IsUpcoming() {
		return nil, ErrInterviewClosed
	}

	notes := strings.TrimSpace(req.Notes)
	rec := req.Recommendation
	interview.Status = model.InterviewCompleted
	interview.Recommendation = &rec
	interview.Notes = appendNote(interview.Notes, notes)
	interview.UpdatedBy = &staffID

	err = s.updateWithApplication(ctx, interview, staffID, func(app *model.ScholarshipApplication) {
		app.InterviewNotes = notes
	}, notice{})
	if err != nil {
		return nil, err
	}
	return interview, nil
}

// ────────────────────── queries ──────────────────────

func (s *interviewService) Get(ctx context.Context, id, callerID, callerRole string) (*model.Interview, error) {
	interview, err := s.getInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.IsStaffRole(callerRole) && (interview.Application == nil || interview.Application.UserID != callerID) {
		return nil, ErrNoPermission
	}
	return interview, nil
}

func (s *interviewService) List(ctx context.Context, req *dto.InterviewListRequest, callerID, callerRole string) ([]model.Interview, int64, error) {
	filter := repository.InterviewFilter{
		Status:        req.Status,
		ApplicationID: req.ApplicationID,
		InterviewerID: req.InterviewerID,
	}
	if !model.IsStaffRole(callerRole) {
		filter.UserID = callerID
		filter.InterviewerID = ""
	}
	if req.From != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.From, s.loc); err == nil {
			filter.From = &t
		}
	}
	if req.To != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.To, s.loc); err == nil {
			end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
			filter.To = &end
		}
	}

	list, total, err := s.repo.Interview.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list interviews failed", zap.Error(err))
		return nil, 0, err
	}
	return list, total, nil
}

// CalendarInvite the interview as an iCalendar file
func (s *interviewService) CalendarInvite(ctx context.Context, id, callerID, callerRole string) ([]byte, error) {
	interview, err := s.Get(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	return []byte(buildInterviewICS(interview, s.cfg.Mail.From, s.now())), nil
}

// ────────────────────── helpers ──────────────────────

func (s *interviewService) checkInterviewer(ctx context.Context, id string) (*model.User, error) {
	u, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewerNotStaff
		}
		return nil, err
	}
	if !u.IsStaff() || !u.IsActive {
		return nil, ErrInterviewerNotStaff
	}
	return u, nil
}

// checkSlot the time is in the future and the interviewer is free within the conflict window
func (s *interviewService) checkSlot(ctx context.Context, interviewerID string, at time.Time, excludeID string) error {
	if !at.After(s.now()) {
		return ErrInterviewInPast
	}
	candidates, err := s.repo.Interview.FindInterviewerConflicts(ctx, interviewerID,
		at.Add(-interviewConflictWindow), at.Add(interviewConflictWindow), excludeID)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		d := c.Schedule.Sub(at)
		if d < 0 {
			d = -d
		}
		if d < interviewConflictWindow {
			return ErrInterviewerConflict
		}
	}
	return nil
}

// updateWithApplication saves the interview and its application in one
// transaction; an empty notice type skips the student notification
func (s *interviewService) updateWithApplication(
	ctx context.Context,
	interview *model.Interview,
	staffID string,
	mutate func(*model.ScholarshipApplication),
	nt notice,
) error {
	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Interview.Update(ctx, interview); err != nil {
			return err
		}
		app, err := tx.Application.GetByID(ctx, interview.ApplicationID)
		if err != nil {
			return err
		}
		mutate(app)
		app.UpdatedBy = &staffID
		if err := tx.Application.Update(ctx, app); err != nil {
			return err
		}
		interview.Application = app
		if nt.Type == "" {
			return nil
		}
		nt.UserID = app.UserID
		nt.RelatedType = "interview"
		nt.RelatedID = interview.InterviewID
		return s.notifier.notify(ctx, tx, nt)
	})
	if err != nil {
		s.logger.Error("update interview failed", zap.String("interview_id", interview.InterviewID), zap.Error(err))
	}
	return err
}

func (s *interviewService) mailInterview(ctx context.Context, interview *model.Interview, template string) {
	app := interview.Application
	if app == nil {
		return
	}
	s.notifier.sendLogged(ctx, app.User, template, interviewMailData(interview, s.loc),
		icsAttachment(interview, s.cfg.Mail.From, s.now()))
}

func (s *interviewService) getInterview(ctx context.Context, id string) (*model.Interview, error) {
	interview, err := s.repo.Interview.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return interview, nil
}

func (s *interviewService) formatTime(t time.Time) string {
	return t.In(s.loc).Format(interviewTimeLayout)
}

const interviewTimeLayout = "Mon, 02 Jan 2006 3:04 PM"

func interviewMailData(interview *model.Interview, loc *time.Location) mail.InterviewData {
	var name, student string
	if app := interview.Application; app != nil {
		name = scholarshipName(app.Scholarship)
		student = fullNameOf(app.User)
	}
	return mail.InterviewData{
		StudentName:     student,
		ScholarshipName: name,
		Schedule:        interview.Schedule.In(loc).Format(interviewTimeLayout),
		Location:        interview.Location,
		Type:            strings.ReplaceAll(interview.Type, "_", " "),
		Notes:           interview.RescheduleReason,
	}
}

func appendNote(existing, note string) string {
	if note == "" {
		return existing
	}
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
