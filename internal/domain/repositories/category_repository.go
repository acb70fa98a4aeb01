package repositories

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
)

// CategoryRepository defines category data operations, all company-scoped.
type CategoryRepository interface {
	Create(ctx context.Context, category *entities.Category) error
	GetByID(ctx context.Context, companyID, id int64) (*entities.Category, error)
	Update(ctx context.Context, category *entities.Category) error
	Deactivate(ctx context.Context, companyID, id int64) error
	ListActive(ctx context.Context, companyID int64) ([]*entities.Category, error)
}
