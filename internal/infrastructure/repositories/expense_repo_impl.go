package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/infrastructure/models"
	"expensetrack.backend/pkg/utils"
)

// ExpenseRepository implements expense data operations. Every query carries
// the company scope; an ID from another company behaves like a missing row.
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Create creates a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *entities.Expense) error {
	m := &models.Expense{
		Amount:       expense.Amount,
		DateIncurred: expense.DateIncurred,
		Description:  expense.Description,
		CategoryID:   expense.CategoryID,
		UserID:       expense.UserID,
		CompanyID:    expense.CompanyID,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	expense.ID = m.ID
	expense.CreatedAt = m.CreatedAt
	expense.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an expense by ID within a company
func (r *ExpenseRepository) GetByID(ctx context.Context, companyID, id int64) (*entities.Expense, error) {
	var m models.Expense
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return expenseToEntity(&m), nil
}

// Update updates an expense within its company scope
func (r *ExpenseRepository) Update(ctx context.Context, expense *entities.Expense) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Expense{}).
		Where("id = ? AND company_id = ?", expense.ID, expense.CompanyID).
		Updates(map[string]interface{}{
			"amount":        expense.Amount,
			"date_incurred": expense.DateIncurred,
			"description":   expense.Description,
			"category_id":   expense.CategoryID,
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

// Delete removes an expense within a company
func (r *ExpenseRepository) Delete(ctx context.Context, companyID, id int64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&models.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List returns expenses for a company matching the filter, newest first
func (r *ExpenseRepository) List(ctx context.Context, companyID int64, filter entities.ExpenseFilter, pagination utils.PaginationParams) ([]*entities.Expense, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Expense{}).Where("company_id = ?", companyID)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.From != nil {
		query = query.Where("date_incurred >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date_incurred <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("date_incurred DESC")
	if pagination.Limit > 0 {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}

	var expenseModels []models.Expense
	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, 0, err
	}

	expenses := make([]*entities.Expense, 0, len(expenseModels))
	for i := range expenseModels {
		expenses = append(expenses, expenseToEntity(&expenseModels[i]))
	}
	return expenses, total, nil
}

// CountByCategory counts a company's expenses referencing a category
func (r *ExpenseRepository) CountByCategory(ctx context.Context, companyID, categoryID int64) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Expense{}).
		Where("company_id = ? AND category_id = ?", companyID, categoryID).
		Count(&count).Error
	return count, err
}

func expenseToEntity(m *models.Expense) *entities.Expense {
	return &entities.Expense{
		ID:           m.ID,
		Amount:       m.Amount,
		DateIncurred: m.DateIncurred,
		Description:  m.Description,
		CategoryID:   m.CategoryID,
		UserID:       m.UserID,
		CompanyID:    m.CompanyID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
