package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"osas-connect/internal/model"
	pkgerrors "osas-connect/pkg/errors"
)

// ApplicationFilter list filters; UserID restricts to one student's applications
type ApplicationFilter struct {
	UserID        string
	ScholarshipID string
	Status        string
	Keyword       string
}

// ApplicationRepository scholarship application data access
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.ScholarshipApplication) error
	GetByID(ctx context.Context, id string) (*model.ScholarshipApplication, error)
	FindActive(ctx context.Context, userID, scholarshipID string) (*model.ScholarshipApplication, error)
	Update(ctx context.Context, app *model.ScholarshipApplication) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]model.ScholarshipApplication, int64, error)
	CountByStatus(ctx context.Context, scholarshipID, status string) (int64, error)
	CountGroupedByStatus(ctx context.Context) (map[string]int64, error)
	ListApprovedRenewable(ctx context.Context) ([]model.ScholarshipApplication, error)
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo creates the gorm ApplicationRepository
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *model.ScholarshipApplication) error {
	return r.db.WithContext(ctx).Omit("User", "Scholarship", "Documents").Create(app).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.ScholarshipApplication, error) {
	var app model.ScholarshipApplication
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Profile").
		Preload("Scholarship").
		Preload("Documents").
		Where("application_id = ?", id).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// FindActive returns the user's non-rejected application for a scholarship
func (r *applicationRepo) FindActive(ctx context.Context, userID, scholarshipID string) (*model.ScholarshipApplication, error) {
	var app model.ScholarshipApplication
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND scholarship_id = ? AND status <> ?", userID, scholarshipID, model.AppStatusRejected).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Update writes the mutable columns guarded by the version column
func (r *applicationRepo) Update(ctx context.Context, app *model.ScholarshipApplication) error {
	oldVersion := app.Version
	result := r.db.WithContext(ctx).
		Model(&model.ScholarshipApplication{}).
		Where("application_id = ? AND version = ?", app.ApplicationID, oldVersion).
		Updates(map[string]interface{}{
			"status":             app.Status,
			"purpose_letter":     app.PurposeLetter,
			"submitted_at":       app.SubmittedAt,
			"verifier_id":        app.VerifierID,
			"verified_at":        app.VerifiedAt,
			"verification_notes": app.VerificationNotes,
			"evaluator_id":       app.EvaluatorID,
			"evaluated_at":       app.EvaluatedAt,
			"evaluation_score":   app.EvaluationScore,
			"evaluation_notes":   app.EvaluationNotes,
			"rejection_reason":   app.RejectionReason,
			"interview_schedule": app.InterviewSchedule,
			"interview_notes":    app.InterviewNotes,
			"stipend_status":     app.StipendStatus,
			"last_stipend_date":  app.LastStipendDate,
			"amount_received":    app.AmountReceived,
			"approved_at":        app.ApprovedAt,
			"updated_by":         app.UpdatedBy,
			"updated_at":         gorm.Expr("NOW()"),
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	app.Version = oldVersion + 1
	return nil
}

func (r *applicationRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ScholarshipApplication{}).
		Where("application_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *applicationRepo) List(ctx context.Context, filter ApplicationFilter, offset, limit int) ([]model.ScholarshipApplication, int64, error) {
	var apps []model.ScholarshipApplication
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ScholarshipApplication{})
	if filter.UserID != "" {
		db = db.Where("scholarship_applications.user_id = ?", filter.UserID)
	}
	if filter.ScholarshipID != "" {
		db = db.Where("scholarship_applications.scholarship_id = ?", filter.ScholarshipID)
	}
	if filter.Status != "" {
		db = db.Where("scholarship_applications.status = ?", filter.Status)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		db = db.Joins("JOIN users ON users.user_id = scholarship_applications.user_id").
			Where("LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.email) LIKE ?", like, like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Preload("User").Preload("Scholarship").
		Order("scholarship_applications.created_at DESC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *applicationRepo) CountByStatus(ctx context.Context, scholarshipID, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ScholarshipApplication{}).
		Where("scholarship_id = ? AND status = ?", scholarshipID, status).
		Count(&n).Error
	return n, err
}

func (r *applicationRepo) CountGroupedByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.ScholarshipApplication{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

// ListApprovedRenewable approved applications whose scholarship allows renewal
func (r *applicationRepo) ListApprovedRenewable(ctx context.Context) ([]model.ScholarshipApplication, error) {
	var apps []model.ScholarshipApplication
	err := r.db.WithContext(ctx).
		Joins("JOIN scholarships ON scholarships.scholarship_id = scholarship_applications.scholarship_id").
		Where("scholarship_applications.status = ? AND scholarships.is_renewable = ? AND scholarships.deleted_at IS NULL",
			model.AppStatusApproved, true).
		Preload("User").
		Preload("Scholarship").
		Find(&apps).Error
	return apps, err
}
