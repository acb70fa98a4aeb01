package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/infrastructure/models"
)

// CompanyRepository implements tenant data operations
type CompanyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create creates a new company
func (r *CompanyRepository) Create(ctx context.Context, company *entities.Company) error {
	m := &models.Company{
		Name:     company.Name,
		Address:  company.Address,
		Website:  company.Website,
		IsActive: company.IsActive,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	company.ID = m.ID
	company.CreatedAt = m.CreatedAt
	company.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*entities.Company, error) {
	var m models.Company
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return companyToEntity(&m), nil
}

// Exists reports whether a company with the given ID exists
func (r *CompanyRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Company{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update updates a company
func (r *CompanyRepository) Update(ctx context.Context, company *entities.Company) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Company{}).Where("id = ?", company.ID).Updates(map[string]interface{}{
		"name":       company.Name,
		"address":    company.Address,
		"website":    company.Website,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SetActive toggles the active flag
func (r *CompanyRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Company{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  active,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists all companies
func (r *CompanyRepository) List(ctx context.Context) ([]*entities.Company, error) {
	var companyModels []models.Company
	if err := GetDB(ctx, r.db).WithContext(ctx).Order("name ASC").Find(&companyModels).Error; err != nil {
		return nil, err
	}

	companies := make([]*entities.Company, 0, len(companyModels))
	for i := range companyModels {
		companies = append(companies, companyToEntity(&companyModels[i]))
	}
	return companies, nil
}

func companyToEntity(m *models.Company) *entities.Company {
	return &entities.Company{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		Website:   m.Website,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
