package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/internal/usecases"
	"expensetrack.backend/pkg/utils"
)

// AuditHandler exposes the audit query surface, admin-only.
type AuditHandler struct {
	auditTrail *usecases.AuditTrail
}

func NewAuditHandler(auditTrail *usecases.AuditTrail) *AuditHandler {
	return &AuditHandler{
		auditTrail: auditTrail,
	}
}

// List returns audit records matching the query filters, newest first
func (h *AuditHandler) List(c *gin.Context) {
	filter, ok := auditFilterFromQuery(c)
	if !ok {
		return
	}
	pagination := paginationFromQuery(c)

	records, total, err := h.auditTrail.List(c.Request.Context(), filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": records,
		"meta":  utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

func auditFilterFromQuery(c *gin.Context) (entities.AuditFilter, bool) {
	var filter entities.AuditFilter
	filter.EntityType = c.Query("entityType")

	if raw := c.Query("entityId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "invalid entityId")
			return filter, false
		}
		filter.EntityID = &id
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "invalid userId")
			return filter, false
		}
		filter.UserID = &id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid from date, use RFC3339")
			return filter, false
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(c, "invalid to date, use RFC3339")
			return filter, false
		}
		filter.To = &t
	}
	return filter, true
}
