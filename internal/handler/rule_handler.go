package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"declara/internal/service"
)

// RuleHandler handles learned customer-rule endpoints.
type RuleHandler struct {
	ruleService service.RuleService
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(ruleService service.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// SetActiveRequest is the request body for toggling a rule.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// List handles GET /api/v1/rules?customer=ACME+CO+LTD
func (h *RuleHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	customerSig := c.Query("customer")
	if customerSig == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "customer query parameter is required")
		return
	}

	rules, err := h.ruleService.ListRules(c.Request.Context(), tenantID, customerSig)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rules)
}

// SetActive handles PATCH /api/v1/rules/:id
func (h *RuleHandler) SetActive(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid rule id")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rule, err := h.ruleService.SetActive(c.Request.Context(), tenantID, ruleID, *req.IsActive)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rule)
}

// TriggerLearn handles POST /api/v1/rules/learn?customer=ACME+CO+LTD
func (h *RuleHandler) TriggerLearn(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	customerSig := c.Query("customer")
	if customerSig == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "customer query parameter is required")
		return
	}

	report, err := h.ruleService.TriggerLearn(c.Request.Context(), tenantID, customerSig)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}
