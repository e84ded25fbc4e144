package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Profile      ProfileRepository
	Scholarship  ScholarshipRepository
	Application  ApplicationRepository
	Document     DocumentRepository
	Interview    InterviewRepository
	Stipend      StipendRepository
	Renewal      RenewalRepository
	Notification NotificationRepository
}

// NewRepository wires every repository onto the same connection
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Profile:      NewProfileRepo(db),
		Scholarship:  NewScholarshipRepo(db),
		Application:  NewApplicationRepo(db),
		Document:     NewDocumentRepo(db),
		Interview:    NewInterviewRepo(db),
		Stipend:      NewStipendRepo(db),
		Renewal:      NewRenewalRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// BeginTx starts a transaction. Returns a nil tx when the aggregate has no
// database behind it (in-memory mocks), callers then run without a transaction.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns an aggregate bound to tx; a nil tx returns r unchanged
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// RunInTx runs fn inside a transaction, committing on nil and rolling back otherwise
func (r *Repository) RunInTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}
