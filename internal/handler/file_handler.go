package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"declara/internal/service"
)

// FileHandler handles file upload and download endpoints.
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload handles POST /api/v1/files/upload
func (h *FileHandler) Upload(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	input := service.FileUploadInput{
		TenantID:    tenantID,
		UploadedBy:  userID,
		File:        file,
		Header:      header,
		DocTypeHint: c.PostForm("doc_type"),
	}

	meta, err := h.fileService.Upload(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, meta)
}

// Get handles GET /api/v1/files/:id
func (h *FileHandler) Get(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id")
		return
	}

	meta, err := h.fileService.GetByID(c.Request.Context(), tenantID, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, meta)
}

// DownloadURL handles GET /api/v1/files/:id/download-url
func (h *FileHandler) DownloadURL(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id")
		return
	}

	url, err := h.fileService.GetDownloadURL(c.Request.Context(), tenantID, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}
