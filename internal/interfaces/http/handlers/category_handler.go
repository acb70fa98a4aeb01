package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/middleware"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/internal/usecases"
)

type CategoryHandler struct {
	categoryUsecase *usecases.CategoryUsecase
	gate            *usecases.AccessGate
}

func NewCategoryHandler(categoryUsecase *usecases.CategoryUsecase, gate *usecases.AccessGate) *CategoryHandler {
	return &CategoryHandler{
		categoryUsecase: categoryUsecase,
		gate:            gate,
	}
}

func (h *CategoryHandler) resolveCompany(c *gin.Context) (int64, *entities.User, bool) {
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

// Create adds a category
func (h *CategoryHandler) Create(c *gin.Context) {
	companyID, principal, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	var input entities.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryUsecase.Create(c.Request.Context(), principal.ID, companyID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, category)
}

// List returns the company's active categories
func (h *CategoryHandler) List(c *gin.Context) {
	companyID, _, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	categories, err := h.categoryUsecase.List(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, categories)
}

// Get returns one category
func (h *CategoryHandler) Get(c *gin.Context) {
	companyID, _, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	category, err := h.categoryUsecase.Get(c.Request.Context(), companyID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// Update applies a partial update to a category
func (h *CategoryHandler) Update(c *gin.Context) {
	companyID, principal, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	var input entities.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryUsecase.Update(c.Request.Context(), principal.ID, companyID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// Delete deactivates a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	companyID, principal, ok := h.resolveCompany(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid category id")
		return
	}

	if err := h.categoryUsecase.Delete(c.Request.Context(), principal.ID, companyID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "category deleted"})
}

// ListByKey serves the read-only API-key path
func (h *CategoryHandler) ListByKey(c *gin.Context) {
	keyCtx, ok := middleware.GetAPIKeyContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "api key authentication required"})
		return
	}

	categories, err := h.categoryUsecase.List(c.Request.Context(), keyCtx.CompanyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, categories)
}
