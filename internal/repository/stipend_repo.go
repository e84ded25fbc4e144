package repository

import (
	"context"

	"gorm.io/gorm"

	"osas-connect/internal/model"
)

// StipendRepository stipend release data access
type StipendRepository interface {
	Create(ctx context.Context, record *model.StipendRecord) error
	GetByApplicationAndPeriod(ctx context.Context, applicationID, period string) (*model.StipendRecord, error)
	ListByApplication(ctx context.Context, applicationID string) ([]model.StipendRecord, error)
	List(ctx context.Context, period string) ([]model.StipendRecord, error)
	SumReleased(ctx context.Context) (float64, error)
}

type stipendRepo struct {
	db *gorm.DB
}

// NewStipendRepo creates the gorm StipendRepository
func NewStipendRepo(db *gorm.DB) StipendRepository {
	return &stipendRepo{db: db}
}

func (r *stipendRepo) Create(ctx context.Context, record *model.StipendRecord) error {
	return r.db.WithContext(ctx).Omit("Application").Create(record).Error
}

func (r *stipendRepo) GetByApplicationAndPeriod(ctx context.Context, applicationID, period string) (*model.StipendRecord, error) {
	var record model.StipendRecord
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND period = ?", applicationID, period).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *stipendRepo) ListByApplication(ctx context.Context, applicationID string) ([]model.StipendRecord, error) {
	var records []model.StipendRecord
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("released_at DESC").
		Find(&records).Error
	return records, err
}

func (r *stipendRepo) List(ctx context.Context, period string) ([]model.StipendRecord, error) {
	var records []model.StipendRecord
	db := r.db.WithContext(ctx)
	if period != "" {
		db = db.Where("period = ?", period)
	}
	err := db.Preload("Application").
		Preload("Application.User").
		Preload("Application.Scholarship").
		Order("released_at DESC").
		Find(&records).Error
	return records, err
}

func (r *stipendRepo) SumReleased(ctx context.Context) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&model.StipendRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
