package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"osas-connect/config"
	"osas-connect/internal/dto"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
	"osas-connect/pkg/storage"
)

// NameMatchThreshold Jaro-Winkler similarity below which a verification needs notes
const NameMatchThreshold = 0.85

// ── document module errors ──

var (
	ErrDocumentNotFound          = errors.New("document not found")
	ErrDocumentTypeRequired      = errors.New("document type is required")
	ErrUnsupportedFileType       = errors.New("only PDF, JPEG and PNG files are accepted")
	ErrFileTooLarge              = errors.New("file exceeds the upload size limit")
	ErrDocumentExists            = errors.New("a document of this type is already uploaded")
	ErrDocumentNotPending        = errors.New("only pending documents can be deleted")
	ErrVerificationNotesRequired = errors.New("notes are required when rejecting or when the name does not match")
	ErrStorageUnavailable        = errors.New("document storage is not configured")
)

var allowedMimeTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// UploadInput one uploaded file
type UploadInput struct {
	DocumentType string
	OriginalName string
	Size         int64
	Reader       io.Reader
}

// DocumentService supporting documents
type DocumentService interface {
	Upload(ctx context.Context, applicationID, userID string, in *UploadInput) (*model.Document, error)
	List(ctx context.Context, applicationID, callerID, callerRole string) ([]model.Document, error)
	Download(ctx context.Context, id, callerID, callerRole string) (*model.Document, io.ReadCloser, error)
	Delete(ctx context.Context, id, userID string) error
	Verify(ctx context.Context, id, staffID string, req *dto.VerifyDocumentRequest) (*model.Document, error)
}

type documentService struct {
	repo     *repository.Repository
	store    storage.Store
	notifier *notifier
	maxBytes int64
	now      func() time.Time
	logger   *zap.Logger
}

// NewDocumentService creates a DocumentService
func NewDocumentService(
	cfg *config.Config,
	repo *repository.Repository,
	store storage.Store,
	n *notifier,
	now func() time.Time,
	logger *zap.Logger,
) DocumentService {
	maxMB := cfg.Server.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 5
	}
	return &documentService{
		repo:     repo,
		store:    store,
		notifier: n,
		maxBytes: int64(maxMB) << 20,
		now:      now,
		logger:   logger,
	}
}

// ────────────────────── Upload ──────────────────────

func (s *documentService) Upload(ctx context.Context, applicationID, userID string, in *UploadInput) (*model.Document, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	docType := strings.ToLower(strings.TrimSpace(in.DocumentType))
	if docType == "" {
		return nil, ErrDocumentTypeRequired
	}
	if in.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	app, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.UserID != userID {
		return nil, ErrNoPermission
	}
	if !app.IsEditableByStudent() {
		return nil, ErrApplicationNotEditable
	}

	// sniff the real content type rather than trusting the client
	head := make([]byte, 512)
	n, err := io.ReadFull(in.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	mime := http.DetectContentType(head)
	ext, ok := allowedMimeTypes[mime]
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	existing, err := s.repo.Document.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	var replaced []model.Document
	for _, d := range existing {
		if d.DocumentType != docType {
			continue
		}
		if d.VerificationStatus != model.DocRejected {
			return nil, ErrDocumentExists
		}
		replaced = append(replaced, d)
	}

	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), in.Reader), s.maxBytes+1)
	storedName, size, err := s.store.Save(body, ext)
	if err != nil {
		s.logger.Error("store document failed", zap.String("application_id", applicationID), zap.Error(err))
		return nil, err
	}
	if size > s.maxBytes {
		_ = s.store.Remove(storedName)
		return nil, ErrFileTooLarge
	}

	doc := &model.Document{
		ApplicationID:      applicationID,
		UserID:             userID,
		DocumentType:       docType,
		StoredName:         storedName,
		OriginalName:       filepath.Base(in.OriginalName),
		MimeType:           mime,
		Size:               size,
		VerificationStatus: model.DocPending,
		SoftDeleteModel:    model.SoftDeleteModel{BaseModel: model.BaseModel{CreatedBy: &userID}},
	}

	err = s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		for _, old := range replaced {
			if err := tx.Document.Delete(ctx, old.DocumentID, userID); err != nil {
				return err
			}
		}
		return tx.Document.Create(ctx, doc)
	})
	if err != nil {
		_ = s.store.Remove(storedName)
		s.logger.Error("save document failed", zap.String("application_id", applicationID), zap.Error(err))
		return nil, err
	}

	for _, old := range replaced {
		if err := s.store.Remove(old.StoredName); err != nil {
			s.logger.Warn("remove replaced file failed", zap.String("stored_name", old.StoredName), zap.Error(err))
		}
	}
	return doc, nil
}

// ────────────────────── List / Download ──────────────────────

func (s *documentService) List(ctx context.Context, applicationID, callerID, callerRole string) ([]model.Document, error) {
	app, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !model.IsStaffRole(callerRole) && app.UserID != callerID {
		return nil, ErrNoPermission
	}
	return s.repo.Document.ListByApplication(ctx, applicationID)
}

func (s *documentService) Download(ctx context.Context, id, callerID, callerRole string) (*model.Document, io.ReadCloser, error) {
	if s.store == nil {
		return nil, nil, ErrStorageUnavailable
	}
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !model.IsStaffRole(callerRole) && doc.UserID != callerID {
		return nil, nil, ErrNoPermission
	}

	rc, err := s.store.Open(doc.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, err
	}
	return doc, rc, nil
}

// ────────────────────── Delete ──────────────────────

func (s *documentService) Delete(ctx context.Context, id, userID string) error {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return err
	}
	if doc.UserID != userID {
		return ErrNoPermission
	}
	if doc.VerificationStatus != model.DocPending {
		return ErrDocumentNotPending
	}

	if err := s.repo.Document.Delete(ctx, id, userID); err != nil {
		s.logger.Error("delete document failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if s.store != nil {
		if err := s.store.Remove(doc.StoredName); err != nil {
			s.logger.Warn("remove document file failed", zap.String("stored_name", doc.StoredName), zap.Error(err))
		}
	}
	return nil
}

// ────────────────────── Verify ──────────────────────

func (s *documentService) Verify(ctx context.Context, id, staffID string, req *dto.VerifyDocumentRequest) (*model.Document, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	notes := strings.TrimSpace(req.Notes)
	if req.Status == model.DocRejected && notes == "" {
		return nil, ErrVerificationNotesRequired
	}

	app, err := s.repo.Application.GetByID(ctx, doc.ApplicationID)
	if err != nil {
		return nil, err
	}

	if req.ExtractedName != nil && app.User != nil {
		score := NameMatchScore(*req.ExtractedName, app.User)
		doc.NameMatchScore = &score
		if req.Status == model.DocVerified && score < NameMatchThreshold && notes == "" {
			return nil, ErrVerificationNotesRequired
		}
	}

	now := s.now()
	doc.VerificationStatus = req.Status
	doc.VerificationNotes = notes
	doc.VerifiedBy = &staffID
	doc.VerifiedAt = &now
	doc.UpdatedBy = &staffID

	err = s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Document.Update(ctx, doc); err != nil {
			return err
		}
		content := fmt.Sprintf("Your %s document was %s.", doc.DocumentType, req.Status)
		if notes != "" {
			content += " Remarks: " + notes
		}
		return s.notifier.notify(ctx, tx, notice{
			UserID:      doc.UserID,
			Type:        model.NotifyDocumentVerified,
			Title:       "Document " + req.Status,
			Content:     content,
			RelatedType: "document",
			RelatedID:   doc.DocumentID,
		})
	})
	if err != nil {
		s.logger.Error("verify document failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return doc, nil
}

func (s *documentService) getDocument(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// NameMatchScore best Jaro-Winkler similarity between the extracted name and
// the user's name with and without the middle initial, rounded to 3 decimals
func NameMatchScore(extracted string, u *model.User) float64 {
	metric := metrics.NewJaroWinkler()
	metric.CaseSensitive = false

	a := normalizeName(extracted)
	best := 0.0
	for _, candidate := range []string{
		u.FullName(),
		u.FirstName + " " + u.LastName,
		u.FirstName + " " + u.MiddleName + " " + u.LastName,
	} {
		if sim := strutil.Similarity(a, normalizeName(candidate), metric); sim > best {
			best = sim
		}
	}
	return math.Round(best*1000) / 1000
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, ".", ""))
	return strings.Join(strings.Fields(s), " ")
}
