package usecases

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/domain/repositories"
	"expensetrack.backend/pkg/utils"
)

// Audited entity type names, shared by every usecase that records mutations.
const (
	EntityTypeExpense  = "expense"
	EntityTypeCategory = "category"
	EntityTypeCompany  = "company"
	EntityTypeUser     = "user"
	EntityTypeApiKey   = "api_key"
)

// AuditTrail records mutations. Record is meant to be called inside a
// UnitOfWork: the insert joins the caller's transaction, so a mutation
// whose audit record cannot be written does not commit.
type AuditTrail struct {
	auditRepo repositories.AuditRepository
}

// NewAuditTrail creates a new audit trail
func NewAuditTrail(auditRepo repositories.AuditRepository) *AuditTrail {
	return &AuditTrail{auditRepo: auditRepo}
}

// Record writes one audit record. Create actions carry only the new
// snapshot, delete actions only the previous one, updates both.
func (t *AuditTrail) Record(ctx context.Context, action entities.AuditAction, entityType string, entityID, actorID int64, previous, new entities.Snapshot) error {
	record := &entities.AuditRecord{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     actorID,
	}
	switch action {
	case entities.AuditActionCreate:
		record.NewData = new
	case entities.AuditActionDelete:
		record.PreviousData = previous
	default:
		record.PreviousData = previous
		record.NewData = new
	}
	return t.auditRepo.Insert(ctx, record)
}

// List returns audit records matching the filter, newest first.
func (t *AuditTrail) List(ctx context.Context, filter entities.AuditFilter, pagination utils.PaginationParams) ([]*entities.AuditRecord, int64, error) {
	return t.auditRepo.List(ctx, filter, pagination)
}
