package repositories

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/pkg/utils"
)

// ExpenseRepository defines expense data operations. Every query is scoped
// to one company; there is no unscoped read path.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entities.Expense) error
	GetByID(ctx context.Context, companyID, id int64) (*entities.Expense, error)
	Update(ctx context.Context, expense *entities.Expense) error
	Delete(ctx context.Context, companyID, id int64) error
	List(ctx context.Context, companyID int64, filter entities.ExpenseFilter, pagination utils.PaginationParams) ([]*entities.Expense, int64, error)
	CountByCategory(ctx context.Context, companyID, categoryID int64) (int64, error)
}
