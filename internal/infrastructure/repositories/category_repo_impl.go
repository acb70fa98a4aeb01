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

// CategoryRepository implements category data operations
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *entities.Category) error {
	m := &models.Category{
		Name:         category.Name,
		Description:  category.Description,
		ExpenseLimit: category.ExpenseLimit,
		CompanyID:    category.CompanyID,
		IsActive:     category.IsActive,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	category.ID = m.ID
	category.CreatedAt = m.CreatedAt
	category.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a category by ID within a company
func (r *CategoryRepository) GetByID(ctx context.Context, companyID, id int64) (*entities.Category, error) {
	var m models.Category
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return categoryToEntity(&m), nil
}

// Update updates a category within its company scope
func (r *CategoryRepository) Update(ctx context.Context, category *entities.Category) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND company_id = ?", category.ID, category.CompanyID).
		Updates(map[string]interface{}{
			"name":          category.Name,
			"description":   category.Description,
			"expense_limit": category.ExpenseLimit,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Deactivate marks a category inactive (logical delete)
func (r *CategoryRepository) Deactivate(ctx context.Context, companyID, id int64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Category{}).
		Where("id = ? AND company_id = ? AND is_active = ?", id, companyID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
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

// ListActive lists the active categories of a company
func (r *CategoryRepository) ListActive(ctx context.Context, companyID int64) ([]*entities.Category, error) {
	var categoryModels []models.Category
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Order("name ASC").
		Find(&categoryModels).Error
	if err != nil {
		return nil, err
	}

	categories := make([]*entities.Category, 0, len(categoryModels))
	for i := range categoryModels {
		categories = append(categories, categoryToEntity(&categoryModels[i]))
	}
	return categories, nil
}

func categoryToEntity(m *models.Category) *entities.Category {
	return &entities.Category{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		ExpenseLimit: m.ExpenseLimit,
		CompanyID:    m.CompanyID,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
