package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"osas-connect/internal/dto"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

var (
	ErrScholarshipNotFound    = errors.New("scholarship not found")
	ErrScholarshipDateInvalid = errors.New("deadline must not be before the open date")
	ErrScholarshipInUse       = errors.New("scholarship has applications and cannot be deleted")
)

// ScholarshipService scholarship catalogue
type ScholarshipService interface {
	Create(ctx context.Context, req *dto.CreateScholarshipRequest, callerID string) (*dto.ScholarshipResponse, error)
	Get(ctx context.Context, id string) (*dto.ScholarshipResponse, error)
	List(ctx context.Context, req *dto.ScholarshipListRequest) ([]dto.ScholarshipResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateScholarshipRequest, callerID string) (*dto.ScholarshipResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	AvailableSlots(ctx context.Context, scholarship *model.Scholarship) (int64, error)
}

type scholarshipService struct {
	repo   *repository.Repository
	now    func() time.Time
	loc    *time.Location
	logger *zap.Logger
}

// NewScholarshipService creates a ScholarshipService; loc decides which calendar day it is
func NewScholarshipService(repo *repository.Repository, now func() time.Time, loc *time.Location, logger *zap.Logger) ScholarshipService {
	return &scholarshipService{repo: repo, now: now, loc: loc, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *scholarshipService) Create(ctx context.Context, req *dto.CreateScholarshipRequest, callerID string) (*dto.ScholarshipResponse, error) {
	openDate, deadline, err := parseDateRange(req.OpenDate, req.Deadline)
	if err != nil {
		return nil, err
	}

	sch := &model.Scholarship{
		Name:              strings.TrimSpace(req.Name),
		Type:              req.Type,
		Description:       req.Description,
		StipendAmount:     req.StipendAmount,
		TotalSlots:        req.TotalSlots,
		OpenDate:          openDate,
		Deadline:          deadline,
		Status:            req.Status,
		Criteria:          datatypes.NewJSONType(toCriteria(req.Criteria)),
		RequiredDocuments: datatypes.NewJSONSlice(normalizeDocTypes(req.RequiredDocuments)),
		IsRenewable:       true,
		SoftDeleteModel:   model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &callerID}},
	}
	if sch.Status == "" {
		sch.Status = model.ScholarshipStatusUpcoming
	}
	if req.IsRenewable != nil {
		sch.IsRenewable = *req.IsRenewable
	}

	if err := s.repo.Scholarship.Create(ctx, sch); err != nil {
		s.logger.Error("create scholarship failed", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, sch)
}

// ────────────────────── Get / List ──────────────────────

func (s *scholarshipService) Get(ctx context.Context, id string) (*dto.ScholarshipResponse, error) {
	sch, err := s.getScholarship(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, sch)
}

func (s *scholarshipService) List(ctx context.Context, req *dto.ScholarshipListRequest) ([]dto.ScholarshipResponse, error) {
	filter := repository.ScholarshipFilter{Status: req.Status, Type: req.Type}
	if req.OpenOnly {
		now := s.now().In(s.loc)
		filter.OpenAt = &now
	}

	list, err := s.repo.Scholarship.List(ctx, filter)
	if err != nil {
		s.logger.Error("list scholarships failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ScholarshipResponse, 0, len(list))
	for i := range list {
		resp, err := s.toResponse(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *scholarshipService) Update(ctx context.Context, id string, req *dto.UpdateScholarshipRequest, callerID string) (*dto.ScholarshipResponse, error) {
	sch, err := s.getScholarship(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sch.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		sch.Type = *req.Type
	}
	if req.Description != nil {
		sch.Description = *req.Description
	}
	if req.StipendAmount != nil {
		sch.StipendAmount = *req.StipendAmount
	}
	if req.TotalSlots != nil {
		sch.TotalSlots = *req.TotalSlots
	}
	if req.Status != nil {
		sch.Status = *req.Status
	}
	if req.Criteria != nil {
		sch.Criteria = datatypes.NewJSONType(toCriteria(req.Criteria))
	}
	if req.RequiredDocuments != nil {
		sch.RequiredDocuments = datatypes.NewJSONSlice(normalizeDocTypes(*req.RequiredDocuments))
	}
	if req.IsRenewable != nil {
		sch.IsRenewable = *req.IsRenewable
	}

	openStr, deadlineStr := sch.OpenDate.Format("2006-01-02"), sch.Deadline.Format("2006-01-02")
	if req.OpenDate != nil {
		openStr = *req.OpenDate
	}
	if req.Deadline != nil {
		deadlineStr = *req.Deadline
	}
	if sch.OpenDate, sch.Deadline, err = parseDateRange(openStr, deadlineStr); err != nil {
		return nil, err
	}

	sch.UpdatedBy = &callerID
	if err := s.repo.Scholarship.Update(ctx, sch); err != nil {
		s.logger.Error("update scholarship failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, sch)
}

// ────────────────────── Delete ──────────────────────

func (s *scholarshipService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.getScholarship(ctx, id); err != nil {
		return err
	}

	_, total, err := s.repo.Application.List(ctx, repository.ApplicationFilter{ScholarshipID: id}, 0, 1)
	if err != nil {
		return err
	}
	if total > 0 {
		return ErrScholarshipInUse
	}

	if err := s.repo.Scholarship.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("delete scholarship failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// AvailableSlots total slots minus approved applications, never negative
func (s *scholarshipService) AvailableSlots(ctx context.Context, sch *model.Scholarship) (int64, error) {
	return availableSlots(ctx, s.repo, sch)
}

func availableSlots(ctx context.Context, repo *repository.Repository, sch *model.Scholarship) (int64, error) {
	approved, err := repo.Application.CountByStatus(ctx, sch.ScholarshipID, model.AppStatusApproved)
	if err != nil {
		return 0, err
	}
	left := int64(sch.TotalSlots) - approved
	if left < 0 {
		left = 0
	}
	return left, nil
}

func (s *scholarshipService) getScholarship(ctx context.Context, id string) (*model.Scholarship, error) {
	sch, err := s.repo.Scholarship.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScholarshipNotFound
		}
		s.logger.Error("query scholarship failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return sch, nil
}

func (s *scholarshipService) toResponse(ctx context.Context, sch *model.Scholarship) (*dto.ScholarshipResponse, error) {
	slots, err := availableSlots(ctx, s.repo, sch)
	if err != nil {
		return nil, err
	}
	return &dto.ScholarshipResponse{
		Scholarship:    sch,
		AvailableSlots: slots,
		IsOpen:         sch.IsOpen(s.now(), s.loc),
	}, nil
}

func parseDateRange(open, deadline string) (time.Time, time.Time, error) {
	o, err := time.Parse("2006-01-02", open)
	if err != nil {
		return time.Time{}, time.Time{}, ErrScholarshipDateInvalid
	}
	d, err := time.Parse("2006-01-02", deadline)
	if err != nil {
		return time.Time{}, time.Time{}, ErrScholarshipDateInvalid
	}
	if d.Before(o) {
		return time.Time{}, time.Time{}, ErrScholarshipDateInvalid
	}
	return o, d, nil
}

func toCriteria(req *dto.CriteriaRequest) model.ScholarshipCriteria {
	if req == nil {
		return model.ScholarshipCriteria{}
	}
	return model.ScholarshipCriteria{
		MaxGWA:          req.MaxGWA,
		MaxFamilyIncome: req.MaxFamilyIncome,
		MinYearLevel:    req.MinYearLevel,
	}
}

// normalizeDocTypes lower-cases, trims and de-duplicates document type names
func normalizeDocTypes(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
