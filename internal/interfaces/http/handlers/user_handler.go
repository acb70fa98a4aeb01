package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/internal/usecases"
)

type UserHandler struct {
	userUsecase *usecases.UserUsecase
}

func NewUserHandler(userUsecase *usecases.UserUsecase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

// Invite creates a pending account and returns its invitation token
func (h *UserHandler) Invite(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var input entities.InviteUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.userUsecase.Invite(c.Request.Context(), principal, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// List lists users, admin-only, optionally filtered by company
func (h *UserHandler) List(c *gin.Context) {
	companyID, ok := requestedCompanyID(c)
	if !ok {
		response.BadRequest(c, "invalid companyId")
		return
	}

	users, err := h.userUsecase.List(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, users)
}

// Activate enables an account
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate disables an account and revokes its cached principal
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.userUsecase.SetActive(c.Request.Context(), principal, id, active)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
