package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"osas-connect/internal/model"
)

// ScholarshipFilter list filters; OpenAt keeps only scholarships accepting applications at that time
type ScholarshipFilter struct {
	Status string
	Type   string
	OpenAt *time.Time
}

// ScholarshipRepository scholarship data access
type ScholarshipRepository interface {
	Create(ctx context.Context, scholarship *model.Scholarship) error
	GetByID(ctx context.Context, id string) (*model.Scholarship, error)
	Update(ctx context.Context, scholarship *model.Scholarship) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, filter ScholarshipFilter) ([]model.Scholarship, error)
}

type scholarshipRepo struct {
	db *gorm.DB
}

// NewScholarshipRepo creates the gorm ScholarshipRepository
func NewScholarshipRepo(db *gorm.DB) ScholarshipRepository {
	return &scholarshipRepo{db: db}
}

func (r *scholarshipRepo) Create(ctx context.Context, scholarship *model.Scholarship) error {
	return r.db.WithContext(ctx).Create(scholarship).Error
}

func (r *scholarshipRepo) GetByID(ctx context.Context, id string) (*model.Scholarship, error) {
	var scholarship model.Scholarship
	if err := r.db.WithContext(ctx).Where("scholarship_id = ?", id).First(&scholarship).Error; err != nil {
		return nil, err
	}
	return &scholarship, nil
}

func (r *scholarshipRepo) Update(ctx context.Context, scholarship *model.Scholarship) error {
	return r.db.WithContext(ctx).Save(scholarship).Error
}

func (r *scholarshipRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Scholarship{}).
		Where("scholarship_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *scholarshipRepo) List(ctx context.Context, filter ScholarshipFilter) ([]model.Scholarship, error) {
	var scholarships []model.Scholarship

	db := r.db.WithContext(ctx).Model(&model.Scholarship{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.OpenAt != nil {
		day := filter.OpenAt.Format("2006-01-02")
		db = db.Where("status = ? AND open_date <= ? AND deadline >= ?", model.ScholarshipStatusActive, day, day)
	}

	err := db.Order("deadline ASC, name ASC").Find(&scholarships).Error
	return scholarships, err
}
