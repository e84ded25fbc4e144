package repository

import (
	"context"

	"gorm.io/gorm"

	"osas-connect/internal/model"
	pkgerrors "osas-connect/pkg/errors"
)

// RenewalFilter list filters
type RenewalFilter struct {
	UserID        string
	ScholarshipID string
	Period        string
	Status        string
}

// RenewalRepository renewal application data access
type RenewalRepository interface {
	Create(ctx context.Context, renewal *model.RenewalApplication) error
	GetByID(ctx context.Context, id string) (*model.RenewalApplication, error)
	Update(ctx context.Context, renewal *model.RenewalApplication) error
	ListByApplication(ctx context.Context, applicationID string) ([]model.RenewalApplication, error)
	List(ctx context.Context, filter RenewalFilter, offset, limit int) ([]model.RenewalApplication, int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type renewalRepo struct {
	db *gorm.DB
}

// NewRenewalRepo creates the gorm RenewalRepository
func NewRenewalRepo(db *gorm.DB) RenewalRepository {
	return &renewalRepo{db: db}
}

func (r *renewalRepo) Create(ctx context.Context, renewal *model.RenewalApplication) error {
	return r.db.WithContext(ctx).Omit("User", "Scholarship", "OriginalApplication").Create(renewal).Error
}

func (r *renewalRepo) GetByID(ctx context.Context, id string) (*model.RenewalApplication, error) {
	var renewal model.RenewalApplication
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Profile").
		Preload("Scholarship").
		Preload("OriginalApplication").
		Where("renewal_id = ?", id).
		First(&renewal).Error
	if err != nil {
		return nil, err
	}
	return &renewal, nil
}

// Update writes the review columns guarded by the version column
func (r *renewalRepo) Update(ctx context.Context, renewal *model.RenewalApplication) error {
	oldVersion := renewal.Version
	result := r.db.WithContext(ctx).
		Model(&model.RenewalApplication{}).
		Where("renewal_id = ? AND version = ?", renewal.RenewalID, oldVersion).
		Updates(map[string]interface{}{
			"status":       renewal.Status,
			"reviewed_by":  renewal.ReviewedBy,
			"reviewed_at":  renewal.ReviewedAt,
			"review_notes": renewal.ReviewNotes,
			"updated_by":   renewal.UpdatedBy,
			"updated_at":   gorm.Expr("NOW()"),
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	renewal.Version = oldVersion + 1
	return nil
}

func (r *renewalRepo) ListByApplication(ctx context.Context, applicationID string) ([]model.RenewalApplication, error) {
	var renewals []model.RenewalApplication
	err := r.db.WithContext(ctx).
		Where("original_application_id = ?", applicationID).
		Order("submitted_at DESC").
		Find(&renewals).Error
	return renewals, err
}

func (r *renewalRepo) List(ctx context.Context, filter RenewalFilter, offset, limit int) ([]model.RenewalApplication, int64, error) {
	var renewals []model.RenewalApplication
	var total int64

	db := r.db.WithContext(ctx).Model(&model.RenewalApplication{})
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.ScholarshipID != "" {
		db = db.Where("scholarship_id = ?", filter.ScholarshipID)
	}
	if filter.Period != "" {
		db = db.Where("renewal_period = ?", filter.Period)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Preload("User").Preload("Scholarship").Order("submitted_at DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&renewals).Error; err != nil {
		return nil, 0, err
	}

	return renewals, total, nil
}

func (r *renewalRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.RenewalApplication{}).
		Where("status = ?", status).
		Count(&n).Error
	return n, err
}
