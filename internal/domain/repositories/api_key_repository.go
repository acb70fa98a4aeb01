package repositories

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
)

// ApiKeyRepository defines API key record operations. Lookup is by hash
// only; the plaintext key is never stored.
type ApiKeyRepository interface {
	Create(ctx context.Context, key *entities.ApiKey) error
	FindActiveByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error)
	FindByID(ctx context.Context, id int64) (*entities.ApiKey, error)
	ListActiveByUser(ctx context.Context, userID int64) ([]*entities.ApiKey, error)
	ActiveNameExists(ctx context.Context, userID int64, name string) (bool, error)
	Deactivate(ctx context.Context, id int64) error
}
