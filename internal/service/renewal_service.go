package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"osas-connect/internal/dto"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

// ── renewal module errors ──

var (
	ErrRenewalNotFound          = errors.New("renewal application not found")
	ErrNotEligible              = errors.New("not eligible for renewal")
	ErrRenewalInvalidTransition = errors.New("invalid renewal status transition")
	ErrRenewalNotesRequired     = errors.New("notes are required when rejecting a renewal")
	ErrRenewalExists            = errors.New("a renewal for this period is already on file")
)

// NotEligibleError carries the rules that failed
type NotEligibleError struct {
	Failed []model.EligibilityCheck
}

func (e *NotEligibleError) Error() string {
	rules := make([]string, 0, len(e.Failed))
	for _, c := range e.Failed {
		rules = append(rules, c.Rule)
	}
	return fmt.Sprintf("%s: %s", ErrNotEligible, strings.Join(rules, ", "))
}

func (e *NotEligibleError) Unwrap() error { return ErrNotEligible }

// RenewalService renewal applications
type RenewalService interface {
	Eligibility(ctx context.Context, applicationID, callerID, callerRole string) (*dto.EligibilityResponse, error)
	Submit(ctx context.Context, userID string, req *dto.SubmitRenewalRequest) (*model.RenewalApplication, error)
	StartReview(ctx context.Context, id, staffID string, req *dto.ReviewRenewalRequest) (*model.RenewalApplication, error)
	Approve(ctx context.Context, id, staffID string, req *dto.ReviewRenewalRequest) (*model.RenewalApplication, error)
	Reject(ctx context.Context, id, staffID string, req *dto.RejectRenewalRequest) (*model.RenewalApplication, error)
	Get(ctx context.Context, id, callerID, callerRole string) (*model.RenewalApplication, error)
	List(ctx context.Context, req *dto.RenewalListRequest, callerID, callerRole string) ([]model.RenewalApplication, int64, error)
	Statistics(ctx context.Context, req *dto.RenewalStatisticsRequest) (*dto.RenewalStatisticsResponse, error)
	CurrentPeriod() Period
}

type renewalService struct {
	repo     *repository.Repository
	periods  *PeriodCalculator
	notifier *notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewRenewalService creates a RenewalService
func NewRenewalService(
	repo *repository.Repository,
	periods *PeriodCalculator,
	n *notifier,
	now func() time.Time,
	logger *zap.Logger,
) RenewalService {
	return &renewalService{repo: repo, periods: periods, notifier: n, now: now, logger: logger}
}

func (s *renewalService) CurrentPeriod() Period {
	return s.periods.CurrentPeriod(s.now())
}

// ────────────────────── Eligibility ──────────────────────

func (s *renewalService) Eligibility(ctx context.Context, applicationID, callerID, callerRole string) (*dto.EligibilityResponse, error) {
	app, err := s.getApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if !model.IsStaffRole(callerRole) && app.UserID != callerID {
		return nil, ErrNoPermission
	}

	period := s.CurrentPeriod()
	res, err := s.evaluate(ctx, app, period.Name, nil)
	if err != nil {
		return nil, err
	}

	resp := &dto.EligibilityResponse{
		Eligible:  res.Eligible,
		Period:    period.Name,
		Threshold: res.Threshold,
		Checks:    res.Checks,
	}
	if d, ok := s.periods.Deadline(period); ok {
		ds := d.Format("2006-01-02")
		resp.Deadline = &ds
	}
	return resp, nil
}

// ────────────────────── Submit ──────────────────────

func (s *renewalService) Submit(ctx context.Context, userID string, req *dto.SubmitRenewalRequest) (*model.RenewalApplication, error) {
	app, err := s.getApplication(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, ErrApplicationNotFound
	}

	period := s.CurrentPeriod()
	if req.Period != nil && strings.TrimSpace(*req.Period) != "" {
		period, err = s.periods.Parse(strings.TrimSpace(*req.Period))
		if err != nil {
			return nil, err
		}
	}

	cgpa := req.CGPA
	res, err := s.evaluate(ctx, app, period.Name, &cgpa)
	if err != nil {
		return nil, err
	}
	if !res.Eligible {
		s.logger.Info("renewal refused",
			zap.String("application_id", app.ApplicationID),
			zap.String("period", period.Name),
		)
		return nil, &NotEligibleError{Failed: res.Failed()}
	}

	renewal := &model.RenewalApplication{
		OriginalApplicationID: app.ApplicationID,
		UserID:                app.UserID,
		ScholarshipID:         app.ScholarshipID,
		RenewalPeriod:         period.Name,
		AcademicYear:          period.AcademicYear,
		Semester:              period.Semester,
		CGPA:                  cgpa,
		Status:                model.RenewalPending,
		SubmittedAt:           s.now(),
		Eligibility:           res.Checks,
	}
	renewal.CreatedBy = &userID

	if err := s.repo.Renewal.Create(ctx, renewal); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRenewalExists
		}
		s.logger.Error("create renewal failed", zap.String("application_id", app.ApplicationID), zap.Error(err))
		return nil, err
	}

	renewal.Scholarship = app.Scholarship
	s.logger.Info("renewal submitted",
		zap.String("renewal_id", renewal.RenewalID),
		zap.String("period", period.Name),
	)
	return renewal, nil
}

// ────────────────────── review ──────────────────────

func (s *renewalService) StartReview(ctx context.Context, id, staffID string, req *dto.ReviewRenewalRequest) (*model.RenewalApplication, error) {
	return s.transition(ctx, id, staffID, model.RenewalUnderReview, req.Notes, nil)
}

func (s *renewalService) Approve(ctx context.Context, id, staffID string, req *dto.ReviewRenewalRequest) (*model.RenewalApplication, error) {
	return s.transition(ctx, id, staffID, model.RenewalApproved, req.Notes,
		func(tx *repository.Repository, r *model.RenewalApplication) error {
			profile, err := tx.Profile.GetByUserID(ctx, r.UserID)
			if err != nil {
				return err
			}
			cgpa := r.CGPA
			profile.CurrentGWA = &cgpa
			profile.UpdatedBy = &staffID
			return tx.Profile.Update(ctx, profile)
		})
}

func (s *renewalService) Reject(ctx context.Context, id, staffID string, req *dto.RejectRenewalRequest) (*model.RenewalApplication, error) {
	if strings.TrimSpace(req.Notes) == "" {
		return nil, ErrRenewalNotesRequired
	}
	return s.transition(ctx, id, staffID, model.RenewalRejected, req.Notes, nil)
}

var renewalTransitions = map[string][]string{
	model.RenewalPending:     {model.RenewalUnderReview, model.RenewalRejected},
	model.RenewalUnderReview: {model.RenewalApproved, model.RenewalRejected},
}

func canRenewalTransition(from, to string) bool {
	for _, next := range renewalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *renewalService) transition(
	ctx context.Context,
	id, staffID, to, notes string,
	extra func(tx *repository.Repository, r *model.RenewalApplication) error,
) (*model.RenewalApplication, error) {
	r, err := s.getRenewal(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRenewalTransition(r.Status, to) {
		return nil, ErrRenewalInvalidTransition
	}

	snapshot := *r
	now := s.now()
	r.Status = to
	r.ReviewedBy = &staffID
	r.ReviewedAt = &now
	if n := strings.TrimSpace(notes); n != "" {
		r.ReviewNotes = n
	}
	r.UpdatedBy = &staffID

	err = s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Renewal.Update(ctx, r); err != nil {
			return err
		}
		if extra != nil {
			if err := extra(tx, r); err != nil {
				return err
			}
		}
		content := fmt.Sprintf("Your %s renewal for %s is now %s.",
			scholarshipName(r.Scholarship), r.RenewalPeriod, strings.ToLower(statusLabel(to)))
		if to == model.RenewalRejected {
			content += " Reason: " + r.ReviewNotes
		}
		return s.notifier.notify(ctx, tx, notice{
			UserID:      r.UserID,
			Type:        model.NotifyRenewalStatus,
			Title:       "Renewal " + statusLabel(to),
			Content:     content,
			RelatedType: "renewal",
			RelatedID:   r.RenewalID,
		})
	})
	if err != nil {
		*r = snapshot
		s.logger.Error("renewal transition failed",
			zap.String("renewal_id", id),
			zap.String("to", to),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("renewal status changed",
		zap.String("renewal_id", id),
		zap.String("from", snapshot.Status),
		zap.String("to", to),
	)
	return r, nil
}

// ────────────────────── queries ──────────────────────

func (s *renewalService) Get(ctx context.Context, id, callerID, callerRole string) (*model.RenewalApplication, error) {
	r, err := s.getRenewal(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.IsStaffRole(callerRole) && r.UserID != callerID {
		return nil, ErrNoPermission
	}
	return r, nil
}

func (s *renewalService) List(ctx context.Context, req *dto.RenewalListRequest, callerID, callerRole string) ([]model.RenewalApplication, int64, error) {
	filter := repository.RenewalFilter{
		ScholarshipID: req.ScholarshipID,
		Period:        req.Period,
		Status:        req.Status,
	}
	if !model.IsStaffRole(callerRole) {
		filter.UserID = callerID
	}
	return s.repo.Renewal.List(ctx, filter, req.GetOffset(), req.GetPageSize())
}

// Statistics approval rate is approved/(approved+rejected), 0 when nothing is decided
func (s *renewalService) Statistics(ctx context.Context, req *dto.RenewalStatisticsRequest) (*dto.RenewalStatisticsResponse, error) {
	list, total, err := s.repo.Renewal.List(ctx, repository.RenewalFilter{Period: req.Period}, 0, 0)
	if err != nil {
		return nil, err
	}
	return renewalStatistics(req.Period, list, total), nil
}

func renewalStatistics(period string, list []model.RenewalApplication, total int64) *dto.RenewalStatisticsResponse {
	resp := &dto.RenewalStatisticsResponse{
		Period: period,
		Total:  total,
		ByStatus: map[string]int64{
			model.RenewalPending:     0,
			model.RenewalUnderReview: 0,
			model.RenewalApproved:    0,
			model.RenewalRejected:    0,
		},
		ByScholarship: []dto.ScholarshipRenewalCount{},
	}

	var cgpaSum float64
	perScholarship := make(map[string]*dto.ScholarshipRenewalCount)
	for i := range list {
		r := &list[i]
		resp.ByStatus[r.Status]++
		if r.Status == model.RenewalApproved {
			cgpaSum += r.CGPA
		}
		c, ok := perScholarship[r.ScholarshipID]
		if !ok {
			c = &dto.ScholarshipRenewalCount{ScholarshipID: r.ScholarshipID}
			if r.Scholarship != nil {
				c.Name = r.Scholarship.Name
			}
			perScholarship[r.ScholarshipID] = c
		}
		c.Count++
	}

	approved := resp.ByStatus[model.RenewalApproved]
	decided := approved + resp.ByStatus[model.RenewalRejected]
	if decided > 0 {
		resp.ApprovalRate = math.Round(float64(approved)/float64(decided)*10000) / 10000
	}
	if approved > 0 {
		resp.AverageApprovedCGPA = math.Round(cgpaSum/float64(approved)*1000) / 1000
	}

	for _, c := range perScholarship {
		resp.ByScholarship = append(resp.ByScholarship, *c)
	}
	sort.Slice(resp.ByScholarship, func(i, j int) bool {
		if resp.ByScholarship[i].Count != resp.ByScholarship[j].Count {
			return resp.ByScholarship[i].Count > resp.ByScholarship[j].Count
		}
		return resp.ByScholarship[i].Name < resp.ByScholarship[j].Name
	})
	return resp
}

// ────────────────────── helpers ──────────────────────

func (s *renewalService) evaluate(ctx context.Context, app *model.ScholarshipApplication, period string, cgpa *float64) (*EligibilityResult, error) {
	var profile *model.StudentProfile
	if app.User != nil && app.User.Profile != nil {
		profile = app.User.Profile
	} else {
		p, err := s.repo.Profile.GetByUserID(ctx, app.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		profile = p
	}

	renewals, err := s.repo.Renewal.ListByApplication(ctx, app.ApplicationID)
	if err != nil {
		return nil, err
	}

	return CheckEligibility(EligibilityInput{
		Profile:     profile,
		Scholarship: app.Scholarship,
		Application: app,
		Renewals:    renewals,
		Period:      period,
		CGPA:        cgpa,
	}), nil
}

func (s *renewalService) getApplication(ctx context.Context, id string) (*model.ScholarshipApplication, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (s *renewalService) getRenewal(ctx context.Context, id string) (*model.RenewalApplication, error) {
	r, err := s.repo.Renewal.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRenewalNotFound
		}
		return nil, err
	}
	return r, nil
}
