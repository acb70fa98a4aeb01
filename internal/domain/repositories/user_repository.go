package repositories

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
)

// UserRepository defines principal data operations. The auth core treats
// principals as read-mostly; mutations are limited to the flows that own
// them (registration, activation, password change).
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id int64) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context, companyID *int64) ([]*entities.User, error)
}
