package repositories

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
)

// CompanyRepository defines tenant data operations.
type CompanyRepository interface {
	Create(ctx context.Context, company *entities.Company) error
	GetByID(ctx context.Context, id int64) (*entities.Company, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, company *entities.Company) error
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context) ([]*entities.Company, error)
}
