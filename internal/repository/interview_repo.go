package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"osas-connect/internal/model"
)

// InterviewFilter list filters
type InterviewFilter struct {
	UserID        string // applicant
	InterviewerID string
	ApplicationID string
	Status        string
	From          *time.Time
	To            *time.Time
}

// InterviewRepository interview data access
type InterviewRepository interface {
	Create(ctx context.Context, interview *model.Interview) error
	GetByID(ctx context.Context, id string) (*model.Interview, error)
	Update(ctx context.Context, interview *model.Interview) error
	List(ctx context.Context, filter InterviewFilter, offset, limit int) ([]model.Interview, int64, error)
	FindInterviewerConflicts(ctx context.Context, interviewerID string, from, to time.Time, excludeID string) ([]model.Interview, error)
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]model.Interview, error)
	CountUpcoming(ctx context.Context, from, to time.Time) (int64, error)
}

var upcomingStatuses = []string{model.InterviewScheduled, model.InterviewRescheduled}

type interviewRepo struct {
	db *gorm.DB
}

// NewInterviewRepo creates the gorm InterviewRepository
func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) Create(ctx context.Context, interview *model.Interview) error {
	return r.db.WithContext(ctx).Omit("Application", "Interviewer").Create(interview).Error
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*model.Interview, error) {
	var interview model.Interview
	err := r.db.WithContext(ctx).
		Preload("Application").
		Preload("Application.User").
		Preload("Application.Scholarship").
		Preload("Interviewer").
		Where("interview_id = ?", id).
		First(&interview).Error
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepo) Update(ctx context.Context, interview *model.Interview) error {
	return r.db.WithContext(ctx).Omit("Application", "Interviewer").Save(interview).Error
}

func (r *interviewRepo) List(ctx context.Context, filter InterviewFilter, offset, limit int) ([]model.Interview, int64, error) {
	var interviews []model.Interview
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Interview{})
	if filter.UserID != "" {
		db = db.Joins("JOIN scholarship_applications sa ON sa.application_id = interviews.application_id").
			Where("sa.user_id = ?", filter.UserID)
	}
	if filter.InterviewerID != "" {
		db = db.Where("interviews.interviewer_id = ?", filter.InterviewerID)
	}
	if filter.ApplicationID != "" {
		db = db.Where("interviews.application_id = ?", filter.ApplicationID)
	}
	if filter.Status != "" {
		db = db.Where("interviews.status = ?", filter.Status)
	}
	if filter.From != nil {
		db = db.Where("interviews.schedule >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("interviews.schedule <= ?", *filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.Preload("Application").
		Preload("Application.User").
		Preload("Application.Scholarship").
		Preload("Interviewer").
		Order("interviews.schedule ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&interviews).Error; err != nil {
		return nil, 0, err
	}

	return interviews, total, nil
}

// FindInterviewerConflicts upcoming interviews of the interviewer inside [from, to]
func (r *interviewRepo) FindInterviewerConflicts(ctx context.Context, interviewerID string, from, to time.Time, excludeID string) ([]model.Interview, error) {
	var interviews []model.Interview
	db := r.db.WithContext(ctx).
		Where("interviewer_id = ? AND status IN ? AND schedule BETWEEN ? AND ?", interviewerID, upcomingStatuses, from, to)
	if excludeID != "" {
		db = db.Where("interview_id <> ?", excludeID)
	}
	err := db.Find(&interviews).Error
	return interviews, err
}

// ListDueForReminder upcoming interviews in (from, to] that have not been reminded yet
func (r *interviewRepo) ListDueForReminder(ctx context.Context, from, to time.Time) ([]model.Interview, error) {
	var interviews []model.Interview
	err := r.db.WithContext(ctx).
		Where("status IN ? AND schedule > ? AND schedule <= ? AND reminder_sent_at IS NULL", upcomingStatuses, from, to).
		Preload("Application").
		Preload("Application.User").
		Preload("Application.Scholarship").
		Preload("Interviewer").
		Order("schedule ASC").
		Find(&interviews).Error
	return interviews, err
}

func (r *interviewRepo) CountUpcoming(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Interview{}).
		Where("status IN ? AND schedule BETWEEN ? AND ?", upcomingStatuses, from, to).
		Count(&n).Error
	return n, err
}
