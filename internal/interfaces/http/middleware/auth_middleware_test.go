package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/usecases"
	"expensetrack.backend/pkg/cache"
	"expensetrack.backend/pkg/crypto"
	"expensetrack.backend/pkg/token"
)

type stubUserRepo struct {
	users map[int64]*entities.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *entities.User) error { return nil }

func (r *stubUserRepo) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return u, nil
}

func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, domainerrors.ErrNotFound
}

func (r *stubUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (r *stubUserRepo) SetActive(ctx context.Context, id int64, active bool) error { return nil }

func (r *stubUserRepo) List(ctx context.Context, companyID *int64) ([]*entities.User, error) {
	return nil, nil
}

type stubApiKeyRepo struct {
	byHash map[string]*entities.ApiKey
}

func (r *stubApiKeyRepo) Create(ctx context.Context, key *entities.ApiKey) error { return nil }

func (r *stubApiKeyRepo) FindActiveByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	k, ok := r.byHash[keyHash]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return k, nil
}

func (r *stubApiKeyRepo) FindByID(ctx context.Context, id int64) (*entities.ApiKey, error) {
	return nil, domainerrors.ErrNotFound
}

func (r *stubApiKeyRepo) ListActiveByUser(ctx context.Context, userID int64) ([]*entities.ApiKey, error) {
	return nil, nil
}

func (r *stubApiKeyRepo) ActiveNameExists(ctx context.Context, userID int64, name string) (bool, error) {
	return false, nil
}

func (r *stubApiKeyRepo) Deactivate(ctx context.Context, id int64) error { return nil }

type stubCompanyRepo struct{}

func (r *stubCompanyRepo) Create(ctx context.Context, company *entities.Company) error { return nil }

func (r *stubCompanyRepo) GetByID(ctx context.Context, id int64) (*entities.Company, error) {
	return nil, domainerrors.ErrNotFound
}

func (r *stubCompanyRepo) Exists(ctx context.Context, id int64) (bool, error) { return true, nil }

func (r *stubCompanyRepo) Update(ctx context.Context, company *entities.Company) error { return nil }

func (r *stubCompanyRepo) SetActive(ctx context.Context, id int64, active bool) error { return nil }

func (r *stubCompanyRepo) List(ctx context.Context) ([]*entities.Company, error) { return nil, nil }

func newTestGate(users *stubUserRepo, keys *stubApiKeyRepo) (*usecases.AccessGate, *token.TokenService) {
	tokens := token.NewTokenService("middleware-test-secret", 30*time.Minute)
	resolver := usecases.NewTenantResolver(&stubCompanyRepo{})
	gate := usecases.NewAccessGate(tokens, users, keys, resolver, cache.New[*entities.User](), time.Minute)
	return gate, tokens
}

func TestAuthMiddleware_BearerFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	users := &stubUserRepo{users: map[int64]*entities.User{
		1: {ID: 1, Email: "u@acme.dev", IsActive: true, CompanyID: null.Int64From(5)},
	}}
	gate, tokens := newTestGate(users, &stubApiKeyRepo{})

	r := gin.New()
	r.Use(AuthMiddleware(gate))
	r.GET("/me", func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		require.True(t, ok)
		require.Equal(t, int64(1), principal.ID)
		c.Status(http.StatusNoContent)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(AuthorizationHeader, "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(AuthorizationHeader, "Bearer invalid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		companyID := int64(5)
		tokenString, err := tokens.IssueSession(1, &companyID, false, 0)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(AuthorizationHeader, "Bearer "+tokenString)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestAPIKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	keys := &stubApiKeyRepo{byHash: map[string]*entities.ApiKey{}}
	gate, tokens := newTestGate(&stubUserRepo{}, keys)

	plaintext, err := tokens.IssueAPIKey(7, 3)
	require.NoError(t, err)
	keys.byHash[crypto.HashAPIKey(plaintext)] = &entities.ApiKey{
		ID: 11, UserID: 7, CompanyID: 3, IsActive: true,
	}

	r := gin.New()
	r.Use(APIKeyMiddleware(gate))
	r.GET("/data", func(c *gin.Context) {
		keyCtx, ok := GetAPIKeyContext(c)
		require.True(t, ok)
		require.Equal(t, int64(3), keyCtx.CompanyID)
		c.Status(http.StatusNoContent)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		req.Header.Set(APIKeyHeader, "etk_not-a-real-key")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		req.Header.Set(APIKeyHeader, plaintext)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unauthorized when no principal", func(t *testing.T) {
		r := gin.New()
		r.Use(RequireAdmin())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("forbidden for non-admin", func(t *testing.T) {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(PrincipalKey, &entities.User{ID: 1, IsActive: true})
			c.Next()
		})
		r.Use(RequireAdmin())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("allowed for admin", func(t *testing.T) {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set(PrincipalKey, &entities.User{ID: 1, IsAdmin: true, IsActive: true})
			c.Next()
		})
		r.Use(RequireAdmin())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestContextGetters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, ok := GetPrincipal(c)
	require.False(t, ok)
	_, ok = GetAPIKeyContext(c)
	require.False(t, ok)

	c.Set(PrincipalKey, &entities.User{ID: 4})
	c.Set(APIKeyContextKey, &entities.ApiKeyContext{KeyID: 9, UserID: 4, CompanyID: 2})

	principal, ok := GetPrincipal(c)
	require.True(t, ok)
	require.Equal(t, int64(4), principal.ID)
	keyCtx, ok := GetAPIKeyContext(c)
	require.True(t, ok)
	require.Equal(t, int64(9), keyCtx.KeyID)
}
