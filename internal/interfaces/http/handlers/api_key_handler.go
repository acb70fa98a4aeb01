package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/internal/usecases"
)

type ApiKeyHandler struct {
	apiKeyUsecase *usecases.ApiKeyUsecase
}

func NewApiKeyHandler(apiKeyUsecase *usecases.ApiKeyUsecase) *ApiKeyHandler {
	return &ApiKeyHandler{
		apiKeyUsecase: apiKeyUsecase,
	}
}

// Create issues a new API key; the plaintext appears only in this response
func (h *ApiKeyHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var input entities.CreateApiKeyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	requested, ok := requestedCompanyID(c)
	if !ok {
		response.BadRequest(c, "invalid companyId")
		return
	}

	resp, err := h.apiKeyUsecase.Create(c.Request.Context(), principal, requested, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// List returns the caller's active keys, masked
func (h *ApiKeyHandler) List(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	items, err := h.apiKeyUsecase.List(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// Deactivate revokes a key
func (h *ApiKeyHandler) Deactivate(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	keyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid key id")
		return
	}

	if err := h.apiKeyUsecase.Deactivate(c.Request.Context(), principal, keyID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "api key revoked"})
}

// Regenerate revokes a key and returns a fresh plaintext under the same name
func (h *ApiKeyHandler) Regenerate(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	keyID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid key id")
		return
	}

	resp, err := h.apiKeyUsecase.Regenerate(c.Request.Context(), principal, keyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}
