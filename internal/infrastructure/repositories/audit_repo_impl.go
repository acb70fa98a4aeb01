package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/infrastructure/models"
	"expensetrack.backend/pkg/utils"
)

// AuditRepository implements audit record operations
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert writes one audit record. When called inside a UnitOfWork the insert
// joins the caller's transaction, so the record commits or rolls back with
// the mutation it describes. Any failure is wrapped in ErrAuditFailure.
func (r *AuditRepository) Insert(ctx context.Context, record *entities.AuditRecord) error {
	m := &models.AuditRecord{
		Action:     string(record.Action),
		EntityType: record.EntityType,
		EntityID:   record.EntityID,
		UserID:     record.UserID,
	}

	var err error
	if record.PreviousData != nil {
		if m.PreviousData, err = json.Marshal(record.PreviousData); err != nil {
			return fmt.Errorf("%w: marshal previous data: %v", domainerrors.ErrAuditFailure, err)
		}
	}
	if record.NewData != nil {
		if m.NewData, err = json.Marshal(record.NewData); err != nil {
			return fmt.Errorf("%w: marshal new data: %v", domainerrors.ErrAuditFailure, err)
		}
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrAuditFailure, err)
	}

	record.ID = m.ID
	record.CreatedAt = m.CreatedAt
	return nil
}

// List returns audit records matching the filter, newest first
func (r *AuditRepository) List(ctx context.Context, filter entities.AuditFilter, pagination utils.PaginationParams) ([]*entities.AuditRecord, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.AuditRecord{})

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if pagination.Limit > 0 {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}

	var recordModels []models.AuditRecord
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}

	records := make([]*entities.AuditRecord, 0, len(recordModels))
	for i := range recordModels {
		record, err := auditToEntity(&recordModels[i])
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	return records, total, nil
}

func auditToEntity(m *models.AuditRecord) (*entities.AuditRecord, error) {
	record := &entities.AuditRecord{
		ID:         m.ID,
		Action:     entities.AuditAction(m.Action),
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		UserID:     m.UserID,
		CreatedAt:  m.CreatedAt,
	}
	if len(m.PreviousData) > 0 {
		if err := json.Unmarshal(m.PreviousData, &record.PreviousData); err != nil {
			return nil, err
		}
	}
	if len(m.NewData) > 0 {
		if err := json.Unmarshal(m.NewData, &record.NewData); err != nil {
			return nil, err
		}
	}
	return record, nil
}
