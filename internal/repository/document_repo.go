package repository

import (
	"context"

	"gorm.io/gorm"

	"osas-connect/internal/model"
)

// DocumentRepository uploaded document data access
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id string) (*model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ListByApplication(ctx context.Context, applicationID string) ([]model.Document, error)
	CountPending(ctx context.Context) (int64, error)
}

type documentRepo struct {
	db *gorm.DB
}

// NewDocumentRepo creates the gorm DocumentRepository
func NewDocumentRepo(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	if err := r.db.WithContext(ctx).Where("document_id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *documentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("document_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *documentRepo) ListByApplication(ctx context.Context, applicationID string) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("document_type ASC, created_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepo) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("verification_status = ?", model.DocPending).
		Count(&n).Error
	return n, err
}
