package repository

import (
	"context"

	"gorm.io/gorm"

	"osas-connect/internal/model"
)

// ProfileRepository student profile data access
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.StudentProfile) error
	GetByUserID(ctx context.Context, userID string) (*model.StudentProfile, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.StudentProfile, error)
	Update(ctx context.Context, profile *model.StudentProfile) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo creates the gorm ProfileRepository
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, profile *model.StudentProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) GetByStudentID(ctx context.Context, studentID string) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) Update(ctx context.Context, profile *model.StudentProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}
