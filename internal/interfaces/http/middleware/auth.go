package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/interfaces/http/response"
	"expensetrack.backend/internal/usecases"
)

const (
	// AuthorizationHeader is the header key for session authentication
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// APIKeyHeader carries a long-lived key, distinct from the bearer header
	APIKeyHeader = "Api-Key"
	// PrincipalKey is the context key for the authenticated user
	PrincipalKey = "principal"
	// APIKeyContextKey is the context key for the API key binding
	APIKeyContextKey = "apiKeyContext"
)

// AuthMiddleware authenticates the session bearer token through the access
// gate and stores the principal in the request context.
func AuthMiddleware(gate *usecases.AccessGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "invalid authorization format, use: Bearer <token>",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		principal, err := gate.AuthenticateSession(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// APIKeyMiddleware authenticates the Api-Key header. It grants the key's
// company scope, not a full session.
func APIKeyMiddleware(gate *usecases.AccessGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		plaintext := c.GetHeader(APIKeyHeader)
		if plaintext == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "api key is required",
			})
			return
		}

		keyCtx, err := gate.AuthenticateAPIKey(c.Request.Context(), plaintext)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(APIKeyContextKey, keyCtx)
		c.Next()
	}
}

// RequireAdmin restricts a route group to admin principals
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "authentication required",
			})
			return
		}
		if !principal.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    http.StatusForbidden,
				"message": "admin access required",
			})
			return
		}
		c.Next()
	}
}

// GetPrincipal gets the authenticated user from context
func GetPrincipal(c *gin.Context) (*entities.User, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*entities.User)
	return principal, ok
}

// GetAPIKeyContext gets the API key binding from context
func GetAPIKeyContext(c *gin.Context) (*entities.ApiKeyContext, bool) {
	value, exists := c.Get(APIKeyContextKey)
	if !exists {
		return nil, false
	}
	keyCtx, ok := value.(*entities.ApiKeyContext)
	return keyCtx, ok
}
