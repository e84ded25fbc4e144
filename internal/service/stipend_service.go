package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"osas-connect/internal/dto"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

// ── stipend module errors ──

var (
	ErrStipendNotApproved    = errors.New("stipends can only be released for approved applications")
	ErrStipendInvalidAmount  = errors.New("stipend amount must be greater than zero")
	ErrStipendAlreadyPaid    = errors.New("stipend for this period has already been released")
	ErrStipendPeriodRequired = errors.New("stipend period is required")
)

// StipendService stipend releases
type StipendService interface {
	Release(ctx context.Context, applicationID, staffID string, req *dto.ReleaseStipendRequest) (*model.StipendRecord, error)
	List(ctx context.Context, applicationID, callerID, callerRole string) ([]model.StipendRecord, error)
	ListAll(ctx context.Context, req *dto.StipendListRequest) ([]model.StipendRecord, error)
}

type stipendService struct {
	repo     *repository.Repository
	notifier *notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewStipendService creates a StipendService
func NewStipendService(repo *repository.Repository, n *notifier, now func() time.Time, logger *zap.Logger) StipendService {
	return &stipendService{repo: repo, notifier: n, now: now, logger: logger}
}

func (s *stipendService) Release(ctx context.Context, applicationID, staffID string, req *dto.ReleaseStipendRequest) (*model.StipendRecord, error) {
	if req.Amount <= 0 {
		return nil, ErrStipendInvalidAmount
	}
	period := strings.TrimSpace(req.Period)
	if period == "" {
		return nil, ErrStipendPeriodRequired
	}

	app, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Status != model.AppStatusApproved {
		return nil, ErrStipendNotApproved
	}

	if _, err := s.repo.Stipend.GetByApplicationAndPeriod(ctx, applicationID, period); err == nil {
		return nil, ErrStipendAlreadyPaid
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := s.now()
	record := &model.StipendRecord{
		ApplicationID: applicationID,
		Amount:        req.Amount,
		Period:        period,
		ReleasedBy:    staffID,
		ReleasedAt:    now,
		Notes:         strings.TrimSpace(req.Notes),
		BaseModel:     model.BaseModel{CreatedBy: &staffID},
	}

	snapshot := *app
	app.StipendStatus = model.StipendReleased
	app.LastStipendDate = &now
	app.AmountReceived += req.Amount
	app.UpdatedBy = &staffID

	err = s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Stipend.Create(ctx, record); err != nil {
			return err
		}
		if err := tx.Application.Update(ctx, app); err != nil {
			return err
		}
		return s.notifier.notify(ctx, tx, notice{
			UserID:      app.UserID,
			Type:        model.NotifyStipendReleased,
			Title:       "Stipend released",
			Content:     fmt.Sprintf("Your %s stipend of PHP %.2f for %s has been released.", scholarshipName(app.Scholarship), req.Amount, period),
			RelatedType: "application",
			RelatedID:   app.ApplicationID,
		})
	})
	if err != nil {
		*app = snapshot
		s.logger.Error("release stipend failed",
			zap.String("application_id", applicationID),
			zap.String("period", period),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("stipend released",
		zap.String("application_id", applicationID),
		zap.String("period", period),
		zap.Float64("amount", req.Amount),
	)
	return record, nil
}

func (s *stipendService) List(ctx context.Context, applicationID, callerID, callerRole string) ([]model.StipendRecord, error) {
	app, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !model.IsStaffRole(callerRole) && app.UserID != callerID {
		return nil, ErrNoPermission
	}
	return s.repo.Stipend.ListByApplication(ctx, applicationID)
}

func (s *stipendService) ListAll(ctx context.Context, req *dto.StipendListRequest) ([]model.StipendRecord, error) {
	return s.repo.Stipend.List(ctx, strings.TrimSpace(req.Period))
}
