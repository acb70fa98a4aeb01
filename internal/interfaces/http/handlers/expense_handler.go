package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/middleware"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/internal/usecases"
	"expensetrack.backend/pkg/utils"
)

type ExpenseHandler struct {
	expenseUsecase *usecases.ExpenseUsecase
	gate           *usecases.AccessGate
}

func NewExpenseHandler(expenseUsecase *usecases.ExpenseUsecase, gate *usecases.AccessGate) *ExpenseHandler {
	return &ExpenseHandler{
		expenseUsecase: expenseUsecase,
		gate:           gate,
	}
}

// resolveCompany derives the company scope for the request from the
// principal and the optional companyId query parameter.
func (h *ExpenseHandler) resolveCompany(c *gin.Context) (int64, *entities.User, bool) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return 0, nil, false
	}

	requested, ok := requestedCompanyID(c)
	if !ok {
		response.BadRequest(c, "invalid companyId")
		return 0, nil, false
	}

	companyID, err := h.gate.Authorize(c.Request.Context(), principal, requested)
	if err != nil {
		response.Error(c, err)
		return 0, nil, false
	}
	return companyID, principal, true
}

// Create records a new expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	companyID, principal, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	var input entities.CreateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseUsecase.Create(c.Request.Context(), principal.ID, companyID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, expense)
}

// List returns the company's expenses with filters and pagination
func (h *ExpenseHandler) List(c *gin.Context) {
	companyID, _, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	filter, ok := expenseFilterFromQuery(c)
	if !ok {
		return
	}
	pagination := paginationFromQuery(c)

	expenses, total, err := h.expenseUsecase.List(c.Request.Context(), companyID, filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": expenses,
		"meta":  utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// Get returns one expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	companyID, _, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid expense id")
		return
	}

	expense, err := h.expenseUsecase.Get(c.Request.Context(), companyID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, expense)
}

// Update applies a partial update to an expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	companyID, principal, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid expense id")
		return
	}

	var input entities.UpdateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseUsecase.Update(c.Request.Context(), principal.ID, companyID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, expense)
}

// Delete removes an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	companyID, principal, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid expense id")
		return
	}

	if err := h.expenseUsecase.Delete(c.Request.Context(), principal.ID, companyID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "expense deleted"})
}

// ListByKey serves the read-only API-key path: the scope comes from the
// key, never from query parameters.
func (h *ExpenseHandler) ListByKey(c *gin.Context) {
	keyCtx, ok := middleware.GetAPIKeyContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "api key authentication required"})
		return
	}

	filter, ok := expenseFilterFromQuery(c)
	if !ok {
		return
	}
	pagination := paginationFromQuery(c)

	expenses, total, err := h.expenseUsecase.List(c.Request.Context(), keyCtx.CompanyID, filter, pagination)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"items": expenses,
		"meta":  utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

func expenseFilterFromQuery(c *gin.Context) (entities.ExpenseFilter, bool) {
	var filter entities.ExpenseFilter

	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "invalid categoryId")
			return filter, false
		}
		filter.CategoryID = &id
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
