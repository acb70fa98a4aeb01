package repositories

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/pkg/utils"
)

// AuditRepository defines audit record operations. Insert runs inside the
// caller's transaction; records are never updated or deleted.
type AuditRepository interface {
	Insert(ctx context.Context, record *entities.AuditRecord) error
	List(ctx context.Context, filter entities.AuditFilter, pagination utils.PaginationParams) ([]*entities.AuditRecord, int64, error)
}
