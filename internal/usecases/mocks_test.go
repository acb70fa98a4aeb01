package usecases

import (
	"context"
	"sync"
	"time"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/pkg/utils"
)

// In-memory repository fakes shared by the usecase tests.

type mockUserRepo struct {
	mu           sync.Mutex
	users        map[int64]*entities.User
	nextID       int64
	getByIDCalls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*entities.User)}
}

func (m *mockUserRepo) add(user *entities.User) *entities.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	} else if user.ID > m.nextID {
		m.nextID = user.ID
	}
	m.users[user.ID] = user
	return user
}

func (m *mockUserRepo) Create(ctx context.Context, user *entities.User) error {
	m.add(user)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByIDCalls++
	user, ok := m.users[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	user.IsActive = active
	return nil
}

func (m *mockUserRepo) List(ctx context.Context, companyID *int64) ([]*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.User
	for _, user := range m.users {
		if companyID != nil && (!user.CompanyID.Valid || user.CompanyID.Int64 != *companyID) {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

type mockCompanyRepo struct {
	mu        sync.Mutex
	companies map[int64]*entities.Company
	nextID    int64
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{companies: make(map[int64]*entities.Company)}
}

func (m *mockCompanyRepo) add(company *entities.Company) *entities.Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	if company.ID == 0 {
		m.nextID++
		company.ID = m.nextID
	} else if company.ID > m.nextID {
		m.nextID = company.ID
	}
	m.companies[company.ID] = company
	return company
}

func (m *mockCompanyRepo) Create(ctx context.Context, company *entities.Company) error {
	m.add(company)
	return nil
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id int64) (*entities.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	company, ok := m.companies[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	copied := *company
	return &copied, nil
}

func (m *mockCompanyRepo) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.companies[id]
	return ok, nil
}

func (m *mockCompanyRepo) Update(ctx context.Context, company *entities.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[company.ID]; !ok {
		return domainerrors.ErrNotFound
	}
	copied := *company
	m.companies[company.ID] = &copied
	return nil
}

func (m *mockCompanyRepo) SetActive(ctx context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	company, ok := m.companies[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	company.IsActive = active
	return nil
}

func (m *mockCompanyRepo) List(ctx context.Context) ([]*entities.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.Company
	for _, company := range m.companies {
		copied := *company
		out = append(out, &copied)
	}
	return out, nil
}

type mockApiKeyRepo struct {
	mu     sync.Mutex
	keys   map[int64]*entities.ApiKey
	nextID int64
}

func newMockApiKeyRepo() *mockApiKeyRepo {
	return &mockApiKeyRepo{keys: make(map[int64]*entities.ApiKey)}
}

func (m *mockApiKeyRepo) Create(ctx context.Context, key *entities.ApiKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	key.ID = m.nextID
	key.CreatedAt = time.Now()
	copied := *key
	m.keys[key.ID] = &copied
	return nil
}

func (m *mockApiKeyRepo) FindActiveByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range m.keys {
		if key.KeyHash == keyHash && key.IsActive {
			copied := *key
			return &copied, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (m *mockApiKeyRepo) FindByID(ctx context.Context, id int64) (*entities.ApiKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.keys[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	copied := *key
	return &copied, nil
}

func (m *mockApiKeyRepo) ListActiveByUser(ctx context.Context, userID int64) ([]*entities.ApiKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.ApiKey
	for _, key := range m.keys {
		if key.UserID == userID && key.IsActive {
			copied := *key
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockApiKeyRepo) ActiveNameExists(ctx context.Context, userID int64, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range m.keys {
		if key.UserID == userID && key.Name == name && key.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockApiKeyRepo) Deactivate(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.keys[id]
	if !ok || !key.IsActive {
		return domainerrors.ErrNotFound
	}
	key.IsActive = false
	return nil
}

type mockAuditRepo struct {
	mu        sync.Mutex
	records   []*entities.AuditRecord
	failNext  bool
	insertErr error
}

func newMockAuditRepo() *mockAuditRepo {
	return &mockAuditRepo{}
}

func (m *mockAuditRepo) Insert(ctx context.Context, record *entities.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		if m.insertErr != nil {
			return m.insertErr
		}
		return domainerrors.ErrAuditFailure
	}
	record.ID = int64(len(m.records) + 1)
	record.CreatedAt = time.Now()
	m.records = append(m.records, record)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, filter entities.AuditFilter, pagination utils.PaginationParams) ([]*entities.AuditRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.AuditRecord
	for _, record := range m.records {
		if filter.EntityType != "" && record.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != nil && record.EntityID != *filter.EntityID {
			continue
		}
		if filter.UserID != nil && record.UserID != *filter.UserID {
			continue
		}
		out = append(out, record)
	}
	return out, int64(len(out)), nil
}

func (m *mockAuditRepo) byEntity(entityType string) []*entities.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.AuditRecord
	for _, record := range m.records {
		if record.EntityType == entityType {
			out = append(out, record)
		}
	}
	return out
}

type mockExpenseRepo struct {
	mu     sync.Mutex
	items  map[int64]*entities.Expense
	nextID int64
}

func newMockExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{items: make(map[int64]*entities.Expense)}
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *entities.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	expense.ID = m.nextID
	copied := *expense
	m.items[expense.ID] = &copied
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, companyID, id int64) (*entities.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense, ok := m.items[id]
	if !ok || expense.CompanyID != companyID {
		return nil, domainerrors.ErrNotFound
	}
	copied := *expense
	return &copied, nil
}

func (m *mockExpenseRepo) Update(ctx context.Context, expense *entities.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[expense.ID]
	if !ok || existing.CompanyID != expense.CompanyID {
		return domainerrors.ErrNotFound
	}
	copied := *expense
	m.items[expense.ID] = &copied
	return nil
}

func (m *mockExpenseRepo) Delete(ctx context.Context, companyID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense, ok := m.items[id]
	if !ok || expense.CompanyID != companyID {
		return domainerrors.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockExpenseRepo) List(ctx context.Context, companyID int64, filter entities.ExpenseFilter, pagination utils.PaginationParams) ([]*entities.Expense, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.Expense
	for _, expense := range m.items {
		if expense.CompanyID != companyID {
			continue
		}
		if filter.CategoryID != nil && expense.CategoryID != *filter.CategoryID {
			continue
		}
		copied := *expense
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockExpenseRepo) CountByCategory(ctx context.Context, companyID, categoryID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, expense := range m.items {
		if expense.CompanyID == companyID && expense.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type mockCategoryRepo struct {
	mu        sync.Mutex
	items     map[int64]*entities.Category
	nextID    int64
	listCalls int
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{items: make(map[int64]*entities.Category)}
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *entities.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	category.ID = m.nextID
	copied := *category
	m.items[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, companyID, id int64) (*entities.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.items[id]
	if !ok || category.CompanyID != companyID {
		return nil, domainerrors.ErrNotFound
	}
	copied := *category
	return &copied, nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *entities.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.items[category.ID]
	if !ok || existing.CompanyID != category.CompanyID {
		return domainerrors.ErrNotFound
	}
	copied := *category
	m.items[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) Deactivate(ctx context.Context, companyID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.items[id]
	if !ok || category.CompanyID != companyID || !category.IsActive {
		return domainerrors.ErrNotFound
	}
	category.IsActive = false
	return nil
}

func (m *mockCategoryRepo) ListActive(ctx context.Context, companyID int64) ([]*entities.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var out []*entities.Category
	for _, category := range m.items {
		if category.CompanyID == companyID && category.IsActive {
			copied := *category
			out = append(out, &copied)
		}
	}
	return out, nil
}

// mockUnitOfWork runs the function directly: the fakes above have no
// transactions, so atomicity itself is covered by the repository tests.
type mockUnitOfWork struct {
	calls int
}

func (m *mockUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
