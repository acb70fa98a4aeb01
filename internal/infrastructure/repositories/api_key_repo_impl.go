package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/infrastructure/models"
)

// ApiKeyRepository implements API key record operations
type ApiKeyRepository struct {
	db *gorm.DB
}

// NewApiKeyRepository creates a new API key repository
func NewApiKeyRepository(db *gorm.DB) *ApiKeyRepository {
	return &ApiKeyRepository{db: db}
}

// Create creates a new API key record
func (r *ApiKeyRepository) Create(ctx context.Context, key *entities.ApiKey) error {
	m := &models.ApiKey{
		Name:      key.Name,
		KeyHash:   key.KeyHash,
		UserID:    key.UserID,
		CompanyID: key.CompanyID,
		IsActive:  key.IsActive,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	key.ID = m.ID
	key.CreatedAt = m.CreatedAt
	return nil
}

// FindActiveByHash finds an active key record by hash
func (r *ApiKeyRepository) FindActiveByHash(ctx context.Context, keyHash string) (*entities.ApiKey, error) {
	var m models.ApiKey
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("key_hash = ? AND is_active = ?", keyHash, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return apiKeyToEntity(&m), nil
}

// FindByID finds a key record by ID
func (r *ApiKeyRepository) FindByID(ctx context.Context, id int64) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return apiKeyToEntity(&m), nil
}

// ListActiveByUser lists the active keys owned by a user
func (r *ApiKeyRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*entities.ApiKey, error) {
	var keyModels []models.ApiKey
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&keyModels).Error
	if err != nil {
		return nil, err
	}

	keys := make([]*entities.ApiKey, 0, len(keyModels))
	for i := range keyModels {
		keys = append(keys, apiKeyToEntity(&keyModels[i]))
	}
	return keys, nil
}

// ActiveNameExists reports whether the user already has an active key with
// the given name
func (r *ApiKeyRepository) ActiveNameExists(ctx context.Context, userID int64, name string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).WithContext(ctx).Model(&models.ApiKey{}).
		Where("user_id = ? AND name = ? AND is_active = ?", userID, name, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Deactivate marks a key record inactive
func (r *ApiKeyRepository) Deactivate(ctx context.Context, id int64) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Model(&models.ApiKey{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func apiKeyToEntity(m *models.ApiKey) *entities.ApiKey {
	return &entities.ApiKey{
		ID:        m.ID,
		Name:      m.Name,
		KeyHash:   m.KeyHash,
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
