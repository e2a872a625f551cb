package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/service"
)

// SessionHandler handles parsing-session endpoints.
type SessionHandler struct {
	sessionService service.SessionService
	intakeService  service.IntakeService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService, intakeService service.IntakeService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, intakeService: intakeService}
}

// CreateSessionRequest is the request body for session creation.
type CreateSessionRequest struct {
	CustomerSig string   `json:"customer_sig"`
	FileIDs     []string `json:"file_ids" binding:"required,min=1"`
}

// CorrectionRequest is the request body for recording a correction.
type CorrectionRequest struct {
	OutputID       string `json:"output_id" binding:"required"`
	CorrectedValue string `json:"corrected_value"`
	CorrectionType string `json:"correction_type" binding:"required"`
	UserAction     string `json:"user_action"`
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	fileIDs := make([]uuid.UUID, 0, len(req.FileIDs))
	for _, raw := range req.FileIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id: "+raw)
			return
		}
		fileIDs = append(fileIDs, id)
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), &service.StartSessionInput{
		TenantID:    tenantID,
		CustomerSig: req.CustomerSig,
		FileIDs:     fileIDs,
		CreatedBy:   userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, session)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, session)
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, total, err := h.sessionService.ListSessions(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, sessions, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Parse handles POST /api/v1/sessions/:id/parse
func (h *SessionHandler) Parse(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	draft, err := h.intakeService.ProcessSession(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, draft)
}

// Draft handles GET /api/v1/sessions/:id/draft
func (h *SessionHandler) Draft(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	draft, err := h.sessionService.GetDraft(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, draft)
}

// Outputs handles GET /api/v1/sessions/:id/outputs
func (h *SessionHandler) Outputs(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	outputs, err := h.sessionService.ListOutputs(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, outputs)
}

// RecordCorrection handles POST /api/v1/sessions/:id/corrections
func (h *SessionHandler) RecordCorrection(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	var req CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	outputID, err := uuid.Parse(req.OutputID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid output id")
		return
	}

	correction, err := h.sessionService.RecordCorrection(c.Request.Context(), &service.RecordCorrectionInput{
		TenantID:       tenantID,
		SessionID:      sessionID,
		OutputID:       outputID,
		CorrectedValue: req.CorrectedValue,
		CorrectionType: domain.CorrectionType(req.CorrectionType),
		UserAction:     req.UserAction,
		UserID:         userID,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, correction)
}

// ListCorrections handles GET /api/v1/sessions/:id/corrections
func (h *SessionHandler) ListCorrections(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	corrections, err := h.sessionService.ListCorrections(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, corrections)
}

// Finalize handles POST /api/v1/sessions/:id/finalize
func (h *SessionHandler) Finalize(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	session, err := h.sessionService.Finalize(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, session)
}
