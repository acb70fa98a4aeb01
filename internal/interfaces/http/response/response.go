package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "expensetrack.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps a domain error to an HTTP response. Authentication failures
// all map to 401 with the same body; tenant resolution failures are
// configuration problems and keep their message. An AppError supplies the
// message but the wrapped sentinel still decides the status.
func Error(c *gin.Context, err error) {
	status, message := statusFor(err)

	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Message != "" && status != http.StatusUnauthorized {
			message = appErr.Message
		}
		if appErr.Err == nil {
			status = appErr.Code
		}
	}

	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domainerrors.ErrUnauthenticated),
		errors.Is(err, domainerrors.ErrInvalidCredentials),
		errors.Is(err, domainerrors.ErrAccountInactive),
		errors.Is(err, domainerrors.ErrPrincipalNotFound):
		return http.StatusUnauthorized, "authentication failed"
	case errors.Is(err, domainerrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domainerrors.ErrNoTenantAssigned):
		return http.StatusBadRequest, domainerrors.ErrNoTenantAssigned.Error()
	case errors.Is(err, domainerrors.ErrTenantRequired):
		return http.StatusBadRequest, domainerrors.ErrTenantRequired.Error()
	case errors.Is(err, domainerrors.ErrTenantNotFound):
		return http.StatusNotFound, domainerrors.ErrTenantNotFound.Error()
	case errors.Is(err, domainerrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return http.StatusConflict, "resource already exists"
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// BadRequest sends a 400 with a validation message
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    http.StatusBadRequest,
		"message": message,
	})
}
