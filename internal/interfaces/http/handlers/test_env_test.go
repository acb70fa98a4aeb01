package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/interfaces/http/middleware"
	"expensetrack.backend/internal/usecases"
	"expensetrack.backend/pkg/cache"
	"expensetrack.backend/pkg/crypto"
	"expensetrack.backend/pkg/metrics"
	"expensetrack.backend/pkg/token"
	"expensetrack.backend/pkg/utils"
)

// In-memory repositories backing a full router, so handler tests exercise
// the real middleware, usecases and response mapping end to end.

type memUserRepo struct {
	nextID int64
	users  map[int64]*entities.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: map[int64]*entities.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *entities.User) error {
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *memUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *memUserRepo) List(ctx context.Context, companyID *int64) ([]*entities.User, error) {
	var out []*entities.User
	for _, u := range r.users {
		if companyID != nil && (!u.CompanyID.Valid || u.CompanyID.Int64 != *companyID) {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

type memCompanyRepo struct {
	nextID    int64
	companies map[int64]*entities.Company
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{nextID: 1, companies: map[int64]*entities.Company{}}
}

func (r *memCompanyRepo) Create(ctx context.Context, company *entities.Company) error {
	company.ID = r.nextID
	r.nextID++
	clone := *company
	r.companies[company.ID] = &clone
	return nil
}

func (r *memCompanyRepo) GetByID(ctx context.Context, id int64) (*entities.Company, error) {
	c, ok := r.companies[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memCompanyRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.companies[id]
	return ok, nil
}

func (r *memCompanyRepo) Update(ctx context.Context, company *entities.Company) error {
	if _, ok := r.companies[company.ID]; !ok {
		return domainerrors.ErrNotFound
	}
	clone := *company
	r.companies[company.ID] = &clone
	return nil
}

func (r *memCompanyRepo) SetActive(ctx context.Context, id int64, active bool) error {
	c, ok := r.companies[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	c.IsActive = active
	return nil
}

func (r *memCompanyRepo) List(ctx context.Context) ([]*entities.Company, error) {
	var out []*entities.Company
	for _, c := range r.companies {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

type memApiKeyRepo struct {
	nextID int64
	keys   map[int64]*entities.ApiKey
}

func newMemApiKeyRepo() *memApiKeyRepo {
	return &memApiKeyRepo{nextID: 1, keys: map[int64]*entities.ApiKey{}}
}

func (r *memApiKeyRepo) Create(ctx context.Context, key *entities.ApiKey) error {
	key.ID = r.nextID
	r.nextID++
	clone := *key
	r.keys[key.ID] = &clone
	return nil
}

func (r *memApiKeyRepo) FindActiveByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	for _, k := range r.keys {
		if k.KeyHash == keyHash && k.IsActive {
			clone := *k
			return &clone, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r *memApiKeyRepo) FindByID(ctx context.Context, id int64) (*entities.ApiKey, error) {
	k, ok := r.keys[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	clone := *k
	return &clone, nil
}

func (r *memApiKeyRepo) ListActiveByUser(ctx context.Context, userID int64) ([]*entities.ApiKey, error) {
	var out []*entities.ApiKey
	for _, k := range r.keys {
		if k.UserID == userID && k.IsActive {
			clone := *k
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memApiKeyRepo) ActiveNameExists(ctx context.Context, userID int64, name string) (bool, error) {
	for _, k := range r.keys {
		if k.UserID == userID && k.Name == name && k.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *memApiKeyRepo) Deactivate(ctx context.Context, id int64) error {
	k, ok := r.keys[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	k.IsActive = false
	return nil
}

type memAuditRepo struct {
	nextID  int64
	records []*entities.AuditRecord
}

func newMemAuditRepo() *memAuditRepo {
	return &memAuditRepo{nextID: 1}
}

func (r *memAuditRepo) Insert(ctx context.Context, record *entities.AuditRecord) error {
	record.ID = r.nextID
	r.nextID++
	record.CreatedAt = time.Now()
	clone := *record
	r.records = append(r.records, &clone)
	return nil
}

func (r *memAuditRepo) List(ctx context.Context, filter entities.AuditFilter, pagination utils.PaginationParams) ([]*entities.AuditRecord, int64, error) {
	var out []*entities.AuditRecord
	for _, rec := range r.records {
		if filter.EntityType != "" && rec.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != nil && rec.EntityID != *filter.EntityID {
			continue
		}
		if filter.UserID != nil && rec.UserID != *filter.UserID {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

type memExpenseRepo struct {
	nextID   int64
	expenses map[int64]*entities.Expense
}

func newMemExpenseRepo() *memExpenseRepo {
	return &memExpenseRepo{nextID: 1, expenses: map[int64]*entities.Expense{}}
}

func (r *memExpenseRepo) Create(ctx context.Context, expense *entities.Expense) error {
	expense.ID = r.nextID
	r.nextID++
	clone := *expense
	r.expenses[expense.ID] = &clone
	return nil
}

func (r *memExpenseRepo) GetByID(ctx context.Context, companyID, id int64) (*entities.Expense, error) {
	e, ok := r.expenses[id]
	if !ok || e.CompanyID != companyID {
		return nil, domainerrors.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *memExpenseRepo) Update(ctx context.Context, expense *entities.Expense) error {
	e, ok := r.expenses[expense.ID]
	if !ok || e.CompanyID != expense.CompanyID {
		return domainerrors.ErrNotFound
	}
	clone := *expense
	r.expenses[expense.ID] = &clone
	return nil
}

func (r *memExpenseRepo) Delete(ctx context.Context, companyID, id int64) error {
	e, ok := r.expenses[id]
	if !ok || e.CompanyID != companyID {
		return domainerrors.ErrNotFound
	}
	delete(r.expenses, id)
	return nil
}

func (r *memExpenseRepo) List(ctx context.Context, companyID int64, filter entities.ExpenseFilter, pagination utils.PaginationParams) ([]*entities.Expense, int64, error) {
	var out []*entities.Expense
	for _, e := range r.expenses {
		if e.CompanyID != companyID {
			continue
		}
		if filter.CategoryID != nil && e.CategoryID != *filter.CategoryID {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *memExpenseRepo) CountByCategory(ctx context.Context, companyID, categoryID int64) (int64, error) {
	var count int64
	for _, e := range r.expenses {
		if e.CompanyID == companyID && e.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type memCategoryRepo struct {
	nextID     int64
	categories map[int64]*entities.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{nextID: 1, categories: map[int64]*entities.Category{}}
}

func (r *memCategoryRepo) Create(ctx context.Context, category *entities.Category) error {
	category.ID = r.nextID
	r.nextID++
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memCategoryRepo) GetByID(ctx context.Context, companyID, id int64) (*entities.Category, error) {
	c, ok := r.categories[id]
	if !ok || c.CompanyID != companyID {
		return nil, domainerrors.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *memCategoryRepo) Update(ctx context.Context, category *entities.Category) error {
	c, ok := r.categories[category.ID]
	if !ok || c.CompanyID != category.CompanyID {
		return domainerrors.ErrNotFound
	}
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *memCategoryRepo) Deactivate(ctx context.Context, companyID, id int64) error {
	c, ok := r.categories[id]
	if !ok || c.CompanyID != companyID {
		return domainerrors.ErrNotFound
	}
	c.IsActive = false
	return nil
}

func (r *memCategoryRepo) ListActive(ctx context.Context, companyID int64) ([]*entities.Category, error) {
	var out []*entities.Category
	for _, c := range r.categories {
		if c.CompanyID == companyID && c.IsActive {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

type passthroughUow struct{}

func (passthroughUow) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	router *gin.Engine

	userRepo     *memUserRepo
	companyRepo  *memCompanyRepo
	apiKeyRepo   *memApiKeyRepo
	auditRepo    *memAuditRepo
	expenseRepo  *memExpenseRepo
	categoryRepo *memCategoryRepo

	tokens     *token.TokenService
	gate       *usecases.AccessGate
	principals *cache.Cache[*entities.User]
	listings   *cache.Cache[[]*entities.Category]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		userRepo:     newMemUserRepo(),
		companyRepo:  newMemCompanyRepo(),
		apiKeyRepo:   newMemApiKeyRepo(),
		auditRepo:    newMemAuditRepo(),
		expenseRepo:  newMemExpenseRepo(),
		categoryRepo: newMemCategoryRepo(),
		principals:   cache.New[*entities.User](),
		listings:     cache.New[[]*entities.Category](),
	}

	env.tokens = token.NewTokenService("handler-test-secret", 30*time.Minute)
	resolver := usecases.NewTenantResolver(env.companyRepo)
	auditTrail := usecases.NewAuditTrail(env.auditRepo)
	env.gate = usecases.NewAccessGate(env.tokens, env.userRepo, env.apiKeyRepo, resolver, env.principals, time.Minute)

	uow := passthroughUow{}
	authUsecase := usecases.NewAuthUsecase(env.userRepo, env.tokens, env.gate)
	userUsecase := usecases.NewUserUsecase(env.userRepo, uow, auditTrail, env.tokens, env.gate)
	apiKeyUsecase := usecases.NewApiKeyUsecase(env.apiKeyRepo, uow, auditTrail, env.tokens, env.gate)
	expenseUsecase := usecases.NewExpenseUsecase(env.expenseRepo, env.categoryRepo, uow, auditTrail)
	categoryUsecase := usecases.NewCategoryUsecase(env.categoryRepo, env.expenseRepo, uow, auditTrail, env.listings)
	companyUsecase := usecases.NewCompanyUsecase(env.companyRepo, uow, auditTrail)

	authHandler := NewAuthHandler(authUsecase, userUsecase)
	userHandler := NewUserHandler(userUsecase)
	apiKeyHandler := NewApiKeyHandler(apiKeyUsecase)
	expenseHandler := NewExpenseHandler(expenseUsecase, env.gate)
	categoryHandler := NewCategoryHandler(categoryUsecase, env.gate)
	companyHandler := NewCompanyHandler(companyUsecase)
	auditHandler := NewAuditHandler(auditTrail)
	monitoringHandler := NewMonitoringHandler(metrics.NewAggregator(nil), env.principals, env.listings)

	authed := middleware.AuthMiddleware(env.gate)
	keyed := middleware.APIKeyMiddleware(env.gate)

	r := gin.New()
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/me", authed, authHandler.Me)
	auth.PUT("/me", authed, authHandler.ChangePassword)

	apiKeys := v1.Group("/apikeys", authed)
	apiKeys.POST("", apiKeyHandler.Create)
	apiKeys.GET("", apiKeyHandler.List)
	apiKeys.DELETE("/:id", apiKeyHandler.Deactivate)
	apiKeys.POST("/:id/regenerate", apiKeyHandler.Regenerate)

	expenses := v1.Group("/expenses", authed)
	expenses.POST("", expenseHandler.Create)
	expenses.GET("", expenseHandler.List)
	expenses.GET("/:id", expenseHandler.Get)
	expenses.PUT("/:id", expenseHandler.Update)
	expenses.DELETE("/:id", expenseHandler.Delete)

	categories := v1.Group("/categories", authed)
	categories.POST("", categoryHandler.Create)
	categories.GET("", categoryHandler.List)
	categories.GET("/:id", categoryHandler.Get)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	external := v1.Group("/external", keyed)
	external.GET("/expenses", expenseHandler.ListByKey)
	external.GET("/categories", categoryHandler.ListByKey)

	users := v1.Group("/users", authed)
	users.POST("/invite", userHandler.Invite)
	users.GET("", middleware.RequireAdmin(), userHandler.List)
	users.PUT("/:id/activate", middleware.RequireAdmin(), userHandler.Activate)
	users.PUT("/:id/deactivate", middleware.RequireAdmin(), userHandler.Deactivate)

	companies := v1.Group("/companies", authed, middleware.RequireAdmin())
	companies.POST("", companyHandler.Create)
	companies.GET("", companyHandler.List)
	companies.GET("/:id", companyHandler.Get)
	companies.PUT("/:id", companyHandler.Update)
	companies.DELETE("/:id", companyHandler.Deactivate)

	audit := v1.Group("/audit", authed, middleware.RequireAdmin())
	audit.GET("", auditHandler.List)

	monitoring := v1.Group("/monitoring", authed, middleware.RequireAdmin())
	monitoring.GET("/metrics", monitoringHandler.Metrics)
	monitoring.GET("/cache", monitoringHandler.Cache)

	env.router = r
	return env
}

// addCompany seeds an active company and returns its id.
func (env *testEnv) addCompany(t *testing.T, name string) int64 {
	t.Helper()
	company := &entities.Company{Name: name, IsActive: true}
	require.NoError(t, env.companyRepo.Create(context.Background(), company))
	return company.ID
}

// addUser seeds an active user with the given password and returns it.
func (env *testEnv) addUser(t *testing.T, email string, companyID *int64, isAdmin bool, password string) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	user := &entities.User{
		Email:        email,
		FullName:     "Test User",
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		IsActive:     true,
	}
	if companyID != nil {
		user.CompanyID = null.Int64From(*companyID)
	}
	require.NoError(t, env.userRepo.Create(context.Background(), user))
	return user
}

// sessionFor issues a bearer token for the user.
func (env *testEnv) sessionFor(t *testing.T, user *entities.User) string {
	t.Helper()
	tokenString, err := env.tokens.IssueSession(user.ID, user.CompanyIDPtr(), user.IsAdmin, 0)
	require.NoError(t, err)
	return tokenString
}

// do performs a request against the router. A non-empty bearer sets the
// Authorization header; body may be nil.
func (env *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+bearer)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func bodyContains(w *httptest.ResponseRecorder, s string) bool {
	return strings.Contains(w.Body.String(), s)
}
