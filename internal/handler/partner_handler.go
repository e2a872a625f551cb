package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"declara/internal/domain"
	"declara/internal/service"
)

// PartnerHandler handles partner master and manual-match endpoints.
type PartnerHandler struct {
	partnerService service.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(partnerService service.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// CreatePartnerRequest is the request body for registering a partner.
type CreatePartnerRequest struct {
	PartnerType string `json:"partner_type" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	CountryCode string `json:"country_code"`
	TaxCode     string `json:"tax_code"`
}

// ResolveMatchRequest is the request body for resolving a manual match.
type ResolveMatchRequest struct {
	PartnerID string `json:"partner_id" binding:"required"`
}

// Create handles POST /api/v1/partners
func (h *PartnerHandler) Create(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	partner := &domain.Partner{
		TenantID:    tenantID,
		PartnerType: domain.PartnerType(req.PartnerType),
		Name:        req.Name,
		Address:     req.Address,
		CountryCode: req.CountryCode,
		TaxCode:     req.TaxCode,
		IsActive:    true,
	}
	if err := h.partnerService.CreatePartner(c.Request.Context(), partner); err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, partner)
}

// List handles GET /api/v1/partners?type=EXPORTER
func (h *PartnerHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	ptype := domain.PartnerType(c.Query("type"))

	partners, err := h.partnerService.ListPartners(c.Request.Context(), tenantID, ptype)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, partners)
}

// ListMatches handles GET /api/v1/sessions/:id/matches
func (h *PartnerHandler) ListMatches(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid session id")
		return
	}

	matches, err := h.partnerService.ListMatches(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, matches)
}

// ResolveMatch handles POST /api/v1/matches/:id/resolve
func (h *PartnerHandler) ResolveMatch(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid match id")
		return
	}

	var req ResolveMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid partner id")
		return
	}

	match, err := h.partnerService.ResolveMatch(c.Request.Context(), tenantID, matchID, partnerID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, match)
}
