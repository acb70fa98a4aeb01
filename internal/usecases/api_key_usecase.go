package usecases

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/domain/repositories"
	"expensetrack.backend/pkg/crypto"
	"expensetrack.backend/pkg/token"
)

// ApiKeyUsecase handles API key issuance and revocation. The plaintext key
// exists only in the response of Create and Regenerate; storage holds the
// hash.
type ApiKeyUsecase struct {
	apiKeyRepo repositories.ApiKeyRepository
	uow        repositories.UnitOfWork
	audit      *AuditTrail
	tokens     *token.TokenService
	gate       *AccessGate
}

// NewApiKeyUsecase creates a new API key usecase
func NewApiKeyUsecase(
	apiKeyRepo repositories.ApiKeyRepository,
	uow repositories.UnitOfWork,
	audit *AuditTrail,
	tokens *token.TokenService,
	gate *AccessGate,
) *ApiKeyUsecase {
	return &ApiKeyUsecase{
		apiKeyRepo: apiKeyRepo,
		uow:        uow,
		audit:      audit,
		tokens:     tokens,
		gate:       gate,
	}
}

// Create issues a new key bound to the actor and their resolved company.
// Names are unique among the actor's active keys.
func (u *ApiKeyUsecase) Create(ctx context.Context, actor *entities.User, requestedCompanyID *int64, input *entities.CreateApiKeyInput) (*entities.CreateApiKeyResponse, error) {
	companyID, err := u.gate.Authorize(ctx, actor, requestedCompanyID)
	if err != nil {
		return nil, err
	}

	exists, err := u.apiKeyRepo.ActiveNameExists(ctx, actor.ID, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.NewError("an active key with this name already exists", domainerrors.ErrAlreadyExists)
	}

	return u.issue(ctx, actor.ID, companyID, input.Name)
}

// List returns the actor's active keys with masked previews
func (u *ApiKeyUsecase) List(ctx context.Context, actor *entities.User) ([]*entities.ApiKeyListItem, error) {
	keys, err := u.apiKeyRepo.ListActiveByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	items := make([]*entities.ApiKeyListItem, 0, len(keys))
	for _, key := range keys {
		items = append(items, &entities.ApiKeyListItem{
			ID:         key.ID,
			Name:       key.Name,
			KeyPreview: key.Preview(),
			IsActive:   key.IsActive,
			CreatedAt:  key.CreatedAt,
		})
	}
	return items, nil
}

// Deactivate revokes one of the actor's keys. A key owned by someone else
// looks like a missing key.
func (u *ApiKeyUsecase) Deactivate(ctx context.Context, actor *entities.User, keyID int64) error {
	key, err := u.ownedActiveKey(ctx, actor, keyID)
	if err != nil {
		return err
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.apiKeyRepo.Deactivate(txCtx, key.ID); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionDelete, EntityTypeApiKey, key.ID, actor.ID, key.Snapshot(), nil)
	})
}

// Regenerate revokes a key and issues a fresh one under the same name and
// company. The old plaintext stops working the moment this commits.
func (u *ApiKeyUsecase) Regenerate(ctx context.Context, actor *entities.User, keyID int64) (*entities.CreateApiKeyResponse, error) {
	key, err := u.ownedActiveKey(ctx, actor, keyID)
	if err != nil {
		return nil, err
	}

	plaintext, err := u.tokens.IssueAPIKey(key.UserID, key.CompanyID)
	if err != nil {
		return nil, err
	}

	replacement := &entities.ApiKey{
		Name:      key.Name,
		KeyHash:   crypto.HashAPIKey(plaintext),
		UserID:    key.UserID,
		CompanyID: key.CompanyID,
		IsActive:  true,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.apiKeyRepo.Deactivate(txCtx, key.ID); err != nil {
			return err
		}
		if err := u.audit.Record(txCtx, entities.AuditActionDelete, EntityTypeApiKey, key.ID, actor.ID, key.Snapshot(), nil); err != nil {
			return err
		}
		if err := u.apiKeyRepo.Create(txCtx, replacement); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionCreate, EntityTypeApiKey, replacement.ID, actor.ID, nil, replacement.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	return &entities.CreateApiKeyResponse{
		ID:        replacement.ID,
		Name:      replacement.Name,
		Key:       plaintext,
		IsActive:  replacement.IsActive,
		CreatedAt: replacement.CreatedAt,
	}, nil
}

func (u *ApiKeyUsecase) issue(ctx context.Context, userID, companyID int64, name string) (*entities.CreateApiKeyResponse, error) {
	plaintext, err := u.tokens.IssueAPIKey(userID, companyID)
	if err != nil {
		return nil, err
	}

	key := &entities.ApiKey{
		Name:      name,
		KeyHash:   crypto.HashAPIKey(plaintext),
		UserID:    userID,
		CompanyID: companyID,
		IsActive:  true,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.apiKeyRepo.Create(txCtx, key); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionCreate, EntityTypeApiKey, key.ID, userID, nil, key.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	return &entities.CreateApiKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       plaintext,
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt,
	}, nil
}

func (u *ApiKeyUsecase) ownedActiveKey(ctx context.Context, actor *entities.User, keyID int64) (*entities.ApiKey, error) {
	key, err := u.apiKeyRepo.FindByID(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if key.UserID != actor.ID && !actor.IsAdmin {
		return nil, domainerrors.ErrNotFound
	}
	if !key.IsActive {
		return nil, domainerrors.ErrNotFound
	}
	return key, nil
}
