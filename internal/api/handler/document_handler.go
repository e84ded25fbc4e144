package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

// DocumentHandler supporting documents
type DocumentHandler struct {
	docSvc   service.DocumentService
	maxBytes int64
}

// NewDocumentHandler maxBytes caps the multipart body; 0 leaves it to the service
func NewDocumentHandler(docSvc service.DocumentService, maxBytes int64) *DocumentHandler {
	return &DocumentHandler{docSvc: docSvc, maxBytes: maxBytes}
}

// Upload multipart form: document_type + file
// POST /api/v1/applications/:id/documents
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if h.maxBytes > 0 {
		// headroom for the multipart envelope
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.handleDocumentError(c, service.ErrFileTooLarge)
			return
		}
		response.ValidationFailed(c, map[string]string{"file": "is required"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	doc, err := h.docSvc.Upload(c.Request.Context(), c.Param("id"), userID, &service.UploadInput{
		DocumentType: c.PostForm("document_type"),
		OriginalName: fh.Filename,
		Size:         fh.Size,
		Reader:       f,
	})
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.Created(c, doc)
}

// List documents of an application
// GET /api/v1/applications/:id/documents
func (h *DocumentHandler) List(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	docs, err := h.docSvc.List(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, docs)
}

// Download streams the stored file
// GET /api/v1/documents/:id
func (h *DocumentHandler) Download(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	doc, rc, err := h.docSvc.Download(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, rc, map[string]string{
		"Content-Disposition": "attachment; filename*=UTF-8''" + url.PathEscape(doc.OriginalName),
	})
}

// Delete pending document
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.docSvc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, nil)
}

// Verify staff verification
// POST /api/v1/documents/:id/verify
func (h *DocumentHandler) Verify(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	doc, err := h.docSvc.Verify(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, doc)
}

func (h *DocumentHandler) handleDocumentError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		response.NotFound(c, 16001, "document not found")
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 15001, "application not found")
	case errors.Is(err, service.ErrApplicationNotEditable):
		response.BadRequest(c, 15005, "application can only be changed while draft or incomplete")
	case errors.Is(err, service.ErrDocumentTypeRequired):
		response.ValidationFailed(c, map[string]string{"document_type": "is required"})
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Error(c, http.StatusUnsupportedMediaType, 16002, "only PDF, JPEG and PNG files are accepted")
	case errors.Is(err, service.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 16003, "file exceeds the upload size limit")
	case errors.Is(err, service.ErrDocumentExists):
		response.Conflict(c, 16004, "a document of this type is already uploaded")
	case errors.Is(err, service.ErrDocumentNotPending):
		response.BadRequest(c, 16005, "only pending documents can be deleted")
	case errors.Is(err, service.ErrVerificationNotesRequired):
		response.BadRequest(c, 16006, "notes are required when rejecting or when the name does not match")
	case errors.Is(err, service.ErrStorageUnavailable):
		response.Error(c, http.StatusServiceUnavailable, 16007, "document storage is not configured")
	default:
		response.InternalError(c)
	}
}
