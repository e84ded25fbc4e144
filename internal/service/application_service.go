package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osas-connect/config"
	"osas-connect/internal/dto"
	"osas-connect/internal/mail"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

// ── application module errors ──

var (
	ErrApplicationNotFound     = errors.New("application not found")
	ErrApplicationExists       = errors.New("an active application for this scholarship already exists")
	ErrScholarshipClosed       = errors.New("scholarship is not accepting applications")
	ErrInvalidStatusTransition = errors.New("invalid application status transition")
	ErrApplicationNotEditable  = errors.New("application can only be changed while draft or incomplete")
	ErrWithdrawNotAllowed      = errors.New("only draft applications can be withdrawn")
	ErrNoSlotsAvailable        = errors.New("no scholarship slots available")
	ErrRejectionNotesRequired  = errors.New("notes are required when rejecting")
)

// ApplicationService scholarship application lifecycle
type ApplicationService interface {
	CreateDraft(ctx context.Context, userID string, req *dto.CreateApplicationRequest) (*model.ScholarshipApplication, error)
	UpdateDraft(ctx context.Context, id, userID string, req *dto.UpdateApplicationRequest) (*model.ScholarshipApplication, error)
	Submit(ctx context.Context, id, userID string) (*model.ScholarshipApplication, error)
	StartVerification(ctx context.Context, id, staffID string) (*model.ScholarshipApplication, error)
	CompleteVerification(ctx context.Context, id, staffID string, req *dto.CompleteVerificationRequest) (*model.ScholarshipApplication, error)
	StartEvaluation(ctx context.Context, id, staffID string) (*model.ScholarshipApplication, error)
	Evaluate(ctx context.Context, id, staffID string, req *dto.EvaluateRequest) (*model.ScholarshipApplication, error)
	Withdraw(ctx context.Context, id, userID string) error
	Get(ctx context.Context, id, callerID, callerRole string) (*model.ScholarshipApplication, error)
	List(ctx context.Context, req *dto.ApplicationListRequest, callerID, callerRole string) ([]model.ScholarshipApplication, int64, error)
	ReferenceQRCode(ctx context.Context, id, callerID, callerRole string) ([]byte, error)
}

type applicationService struct {
	cfg      *config.Config
	repo     *repository.Repository
	notifier *notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewApplicationService creates an ApplicationService
func NewApplicationService(
	cfg *config.Config,
	repo *repository.Repository,
	n *notifier,
	now func() time.Time,
	logger *zap.Logger,
) ApplicationService {
	return &applicationService{cfg: cfg, repo: repo, notifier: n, now: now, logger: logger}
}

// ────────────────────── CreateDraft ──────────────────────

func (s *applicationService) CreateDraft(ctx context.Context, userID string, req *dto.CreateApplicationRequest) (*model.ScholarshipApplication, error) {
	sch, err := s.repo.Scholarship.GetByID(ctx, req.ScholarshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScholarshipNotFound
		}
		return nil, err
	}
	if !sch.IsOpen(s.now(), s.cfg.Scheduler.Location()) {
		return nil, ErrScholarshipClosed
	}

	if _, err := s.repo.Application.FindActive(ctx, userID, sch.ScholarshipID); err == nil {
		return nil, ErrApplicationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	app := &model.ScholarshipApplication{
		UserID:        userID,
		ScholarshipID: sch.ScholarshipID,
		Status:        model.AppStatusDraft,
		PurposeLetter: strings.TrimSpace(req.PurposeLetter),
		StipendStatus: model.StipendNone,
		VersionedModel: model.VersionedModel{
			SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &userID}},
			Version:         1,
		},
	}
	if err := s.repo.Application.Create(ctx, app); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrApplicationExists
		}
		s.logger.Error("create application failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	app.Scholarship = sch
	return app, nil
}

// ────────────────────── UpdateDraft ──────────────────────

func (s *applicationService) UpdateDraft(ctx context.Context, id, userID string, req *dto.UpdateApplicationRequest) (*model.ScholarshipApplication, error) {
	app, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !app.IsEditableByStudent() {
		return nil, ErrApplicationNotEditable
	}

	if req.PurposeLetter != nil {
		app.PurposeLetter = strings.TrimSpace(*req.PurposeLetter)
	}
	app.UpdatedBy = &userID
	if err := s.repo.Application.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

// ────────────────────── Submit ──────────────────────

func (s *applicationService) Submit(ctx context.Context, id, userID string) (*model.ScholarshipApplication, error) {
	app, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(app.Status, model.AppStatusSubmitted) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.checkSubmission(ctx, app); err != nil {
		return nil, err
	}

	now := s.now()
	err = s.transition(ctx, app, model.AppStatusSubmitted, userID, "", func(a *model.ScholarshipApplication) {
		a.SubmittedAt = &now
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// checkSubmission every requirement for leaving draft/incomplete, reported per field
func (s *applicationService) checkSubmission(ctx context.Context, app *model.ScholarshipApplication) error {
	fields := fieldErrors{}

	profile, err := s.profileOf(ctx, app)
	if err != nil {
		return err
	}
	if profile == nil {
		fields.add("profile", "student profile is required")
	} else {
		for _, f := range profile.MissingFields() {
			fields.add("profile."+f, "is required")
		}
	}

	sch := app.Scholarship
	if sch == nil {
		if sch, err = s.repo.Scholarship.GetByID(ctx, app.ScholarshipID); err != nil {
			return err
		}
		app.Scholarship = sch
	}
	if !sch.IsOpen(s.now(), s.cfg.Scheduler.Location()) {
		fields.add("scholarship", ErrScholarshipClosed.Error())
	}

	docs, err := s.repo.Document.ListByApplication(ctx, app.ApplicationID)
	if err != nil {
		return err
	}
	uploaded := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.VerificationStatus != model.DocRejected {
			uploaded[d.DocumentType] = true
		}
	}
	for _, t := range sch.RequiredDocuments {
		if !uploaded[t] {
			fields.add("documents."+t, "must be uploaded")
		}
	}

	if profile != nil {
		c := sch.Criteria.Data()
		if c.MaxGWA != nil {
			switch {
			case profile.CurrentGWA == nil:
				fields.add("profile.current_gwa", "is required by this scholarship")
			case *profile.CurrentGWA > *c.MaxGWA:
				fields.add("profile.current_gwa", fmt.Sprintf("must be %.2f or better", *c.MaxGWA))
			}
		}
		if c.MaxFamilyIncome != nil && profile.MonthlyFamilyIncome != nil && *profile.MonthlyFamilyIncome > *c.MaxFamilyIncome {
			fields.add("profile.monthly_family_income", fmt.Sprintf("must not exceed %.2f", *c.MaxFamilyIncome))
		}
		if c.MinYearLevel != nil && profile.YearLevel > 0 && profile.YearLevel < *c.MinYearLevel {
			fields.add("profile.year_level", fmt.Sprintf("must be at least %d", *c.MinYearLevel))
		}
	}

	return fields.err()
}

// ────────────────────── staff workflow ──────────────────────

func (s *applicationService) StartVerification(ctx context.Context, id, staffID string) (*model.ScholarshipApplication, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, app, model.AppStatusUnderVerification, staffID, "", func(a *model.ScholarshipApplication) {
		a.VerifierID = &staffID
	}); err != nil {
		return nil, err
	}
	return app, nil
}

// CompleteVerification verified when every required document is verified, otherwise incomplete
func (s *applicationService) CompleteVerification(ctx context.Context, id, staffID string, req *dto.CompleteVerificationRequest) (*model.ScholarshipApplication, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.AppStatusUnderVerification {
		return nil, ErrInvalidStatusTransition
	}

	docs, err := s.repo.Document.ListByApplication(ctx, app.ApplicationID)
	if err != nil {
		return nil, err
	}

	target := model.AppStatusVerified
	verifiedTypes := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.VerificationStatus != model.DocVerified {
			target = model.AppStatusIncomplete
		}
		verifiedTypes[d.DocumentType] = d.VerificationStatus == model.DocVerified
	}
	if len(docs) == 0 {
		target = model.AppStatusIncomplete
	}
	if app.Scholarship != nil {
		for _, t := range app.Scholarship.RequiredDocuments {
			if !verifiedTypes[t] {
				target = model.AppStatusIncomplete
			}
		}
	}

	now := s.now()
	if err := s.transition(ctx, app, target, staffID, req.Notes, func(a *model.ScholarshipApplication) {
		a.VerifierID = &staffID
		a.VerifiedAt = &now
		a.VerificationNotes = req.Notes
	}); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) StartEvaluation(ctx context.Context, id, staffID string) (*model.ScholarshipApplication, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, app, model.AppStatusUnderEvaluation, staffID, "", func(a *model.ScholarshipApplication) {
		a.EvaluatorID = &staffID
	}); err != nil {
		return nil, err
	}
	return app, nil
}

// Evaluate approves an application under evaluation, or rejects one from any non-final state
func (s *applicationService) Evaluate(ctx context.Context, id, staffID string, req *dto.EvaluateRequest) (*model.ScholarshipApplication, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(app.Status, req.Decision) {
		return nil, ErrInvalidStatusTransition
	}

	notes := strings.TrimSpace(req.Notes)
	if req.Decision == model.AppStatusRejected && notes == "" {
		return nil, ErrRejectionNotesRequired
	}

	if req.Decision == model.AppStatusApproved {
		sch := app.Scholarship
		if sch == nil {
			if sch, err = s.repo.Scholarship.GetByID(ctx, app.ScholarshipID); err != nil {
				return nil, err
			}
		}
		left, err := availableSlots(ctx, s.repo, sch)
		if err != nil {
			return nil, err
		}
		if left <= 0 {
			return nil, ErrNoSlotsAvailable
		}
	}

	now := s.now()
	err = s.transition(ctx, app, req.Decision, staffID, notes, func(a *model.ScholarshipApplication) {
		a.EvaluatorID = &staffID
		a.EvaluatedAt = &now
		a.EvaluationScore = req.Score
		a.EvaluationNotes = notes
		if req.Decision == model.AppStatusApproved {
			a.ApprovedAt = &now
			a.StipendStatus = model.StipendPending
		} else {
			a.RejectionReason = notes
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application evaluated",
		zap.String("application_id", id),
		zap.String("decision", req.Decision),
		zap.String("by", staffID),
	)
	return app, nil
}

// ────────────────────── Withdraw ──────────────────────

func (s *applicationService) Withdraw(ctx context.Context, id, userID string) error {
	app, err := s.getOwned(ctx, id, userID)
	if err != nil {
		return err
	}
	if app.Status != model.AppStatusDraft {
		return ErrWithdrawNotAllowed
	}
	if err := s.repo.Application.Delete(ctx, id, userID); err != nil {
		s.logger.Error("withdraw application failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── queries ──────────────────────

func (s *applicationService) Get(ctx context.Context, id, callerID, callerRole string) (*model.ScholarshipApplication, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.IsStaffRole(callerRole) && app.UserID != callerID {
		return nil, ErrNoPermission
	}
	return app, nil
}

func (s *applicationService) List(ctx context.Context, req *dto.ApplicationListRequest, callerID, callerRole string) ([]model.ScholarshipApplication, int64, error) {
	filter := repository.ApplicationFilter{
		ScholarshipID: req.ScholarshipID,
		Status:        req.Status,
	}
	if model.IsStaffRole(callerRole) {
		filter.Keyword = req.Keyword
	} else {
		filter.UserID = callerID
	}

	apps, total, err := s.repo.Application.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list applications failed", zap.Error(err))
		return nil, 0, err
	}
	return apps, total, nil
}

// ReferenceQRCode PNG encoding the application's public link
func (s *applicationService) ReferenceQRCode(ctx context.Context, id, callerID, callerRole string) ([]byte, error) {
	app, err := s.Get(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.notifier.link("/applications/%s", app.ApplicationID), qrcode.Medium, 256)
	if err != nil {
		s.logger.Error("encode qr code failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return png, nil
}

// ────────────────────── helpers ──────────────────────

// transition moves app to status under the version lock, records an in-app
// notification in the same transaction, then queues the status email
func (s *applicationService) transition(
	ctx context.Context,
	app *model.ScholarshipApplication,
	to, actorID, notes string,
	mutate func(*model.ScholarshipApplication),
) error {
	if !model.CanTransition(app.Status, to) {
		return ErrInvalidStatusTransition
	}

	from := app.Status
	snapshot := *app
	app.Status = to
	if mutate != nil {
		mutate(app)
	}
	app.UpdatedBy = &actorID

	name := scholarshipName(app.Scholarship)
	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Application.Update(ctx, app); err != nil {
			return err
		}
		return s.notifier.notify(ctx, tx, notice{
			UserID:      app.UserID,
			Type:        model.NotifyApplicationStatus,
			Title:       fmt.Sprintf("Application %s", statusLabel(to)),
			Content:     fmt.Sprintf("Your application for %s is now %s.", name, statusLabel(to)),
			RelatedType: "application",
			RelatedID:   app.ApplicationID,
		})
	})
	if err != nil {
		*app = snapshot
		s.logger.Error("application transition failed",
			zap.String("application_id", app.ApplicationID),
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err),
		)
		return err
	}

	s.notifier.sendLogged(ctx, app.User, mail.TemplateApplicationStatus, mail.ApplicationStatusData{
		StudentName:     fullNameOf(app.User),
		ScholarshipName: name,
		StatusLabel:     statusLabel(to),
		Notes:           notes,
		Link:            s.notifier.link("/applications/%s", app.ApplicationID),
	})
	return nil
}

func (s *applicationService) getApplication(ctx context.Context, id string) (*model.ScholarshipApplication, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("query application failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return app, nil
}

func (s *applicationService) getOwned(ctx context.Context, id, userID string) (*model.ScholarshipApplication, error) {
	app, err := s.getApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, ErrNoPermission
	}
	return app, nil
}

func (s *applicationService) profileOf(ctx context.Context, app *model.ScholarshipApplication) (*model.StudentProfile, error) {
	if app.User != nil && app.User.Profile != nil {
		return app.User.Profile, nil
	}
	p, err := s.repo.Profile.GetByUserID(ctx, app.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return p, err
}

func fullNameOf(u *model.User) string {
	if u == nil {
		return "Student"
	}
	return u.FullName()
}
