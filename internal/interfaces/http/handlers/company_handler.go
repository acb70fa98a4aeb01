package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/internal/usecases"
)

// CompanyHandler exposes tenant administration. Routes are mounted behind
// the admin guard.
type CompanyHandler struct {
	companyUsecase *usecases.CompanyUsecase
}

func NewCompanyHandler(companyUsecase *usecases.CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{
		companyUsecase: companyUsecase,
	}
}

// Create creates a company
func (h *CompanyHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var input entities.CreateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, err := h.companyUsecase.Create(c.Request.Context(), principal.ID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, company)
}

// List lists all companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyUsecase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, companies)
}

// Get returns one company
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	company, err := h.companyUsecase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, company)
}

// Update applies a partial update to a company
func (h *CompanyHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	var input entities.UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, err := h.companyUsecase.Update(c.Request.Context(), principal.ID, id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, company)
}

// Deactivate marks a company inactive
func (h *CompanyHandler) Deactivate(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid company id")
		return
	}

	if err := h.companyUsecase.Deactivate(c.Request.Context(), principal.ID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "company deactivated"})
}
