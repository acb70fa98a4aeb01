package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/internal/usecases"
)

type AuthHandler struct {
	authUsecase *usecases.AuthUsecase
	userUsecase *usecases.UserUsecase
}

func NewAuthHandler(authUsecase *usecases.AuthUsecase, userUsecase *usecases.UserUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		userUsecase: userUsecase,
	}
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Register completes an invitation
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, user)
}

// Me returns the authenticated principal
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, principal)
}

// ChangePassword changes the caller's own password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var input entities.ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authUsecase.ChangePassword(c.Request.Context(), principal, &input); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}
