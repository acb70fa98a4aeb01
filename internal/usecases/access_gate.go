package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/domain/repositories"
	"expensetrack.backend/pkg/cache"
	"expensetrack.backend/pkg/crypto"
	"expensetrack.backend/pkg/token"
)

// DefaultPrincipalTTL bounds how stale a cached principal may be. A
// deactivated user keeps working for at most this long unless the mutating
// flow invalidates the entry explicitly.
const DefaultPrincipalTTL = 2 * time.Minute

// AccessGate is the single entry point for authentication and tenant
// authorization. Handlers and middleware never touch the codec, the hash
// functions or the principal cache directly.
type AccessGate struct {
	tokens       *token.TokenService
	userRepo     repositories.UserRepository
	apiKeyRepo   repositories.ApiKeyRepository
	resolver     *TenantResolver
	principals   *cache.Cache[*entities.User]
	principalTTL time.Duration
}

// NewAccessGate creates a new access gate. A zero principalTTL falls back
// to the default.
func NewAccessGate(
	tokens *token.TokenService,
	userRepo repositories.UserRepository,
	apiKeyRepo repositories.ApiKeyRepository,
	resolver *TenantResolver,
	principals *cache.Cache[*entities.User],
	principalTTL time.Duration,
) *AccessGate {
	if principalTTL <= 0 {
		principalTTL = DefaultPrincipalTTL
	}
	return &AccessGate{
		tokens:       tokens,
		userRepo:     userRepo,
		apiKeyRepo:   apiKeyRepo,
		resolver:     resolver,
		principals:   principals,
		principalTTL: principalTTL,
	}
}

func principalCacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// AuthenticateSession verifies a session token and loads its principal.
// The principal comes from the cache when fresh; a miss reads the
// repository and repopulates the entry.
func (g *AccessGate) AuthenticateSession(ctx context.Context, tokenString string) (*entities.User, error) {
	claims, err := g.tokens.VerifySession(tokenString)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated
	}

	principal, ok := g.principals.Get(principalCacheKey(claims.UserID))
	if !ok {
		principal, err = g.userRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return nil, domainerrors.ErrPrincipalNotFound
			}
			return nil, err
		}
		g.principals.Set(principalCacheKey(claims.UserID), principal, g.principalTTL)
	}

	if !principal.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}
	return principal, nil
}

// AuthenticateAPIKey validates a plaintext API key. Every failure collapses
// into ErrUnauthenticated so the response never reveals whether a key
// exists, was revoked, or was tampered with.
func (g *AccessGate) AuthenticateAPIKey(ctx context.Context, plaintext string) (*entities.ApiKeyContext, error) {
	claims, ok := g.tokens.DecodeAPIKey(plaintext)
	if !ok {
		return nil, domainerrors.ErrUnauthenticated
	}

	record, err := g.apiKeyRepo.FindActiveByHash(ctx, crypto.HashAPIKey(plaintext))
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated
	}

	// the signed claims and the stored record must agree
	if claims.UserID != record.UserID || claims.CompanyID != record.CompanyID {
		return nil, domainerrors.ErrUnauthenticated
	}

	return &entities.ApiKeyContext{
		KeyID:     record.ID,
		UserID:    record.UserID,
		CompanyID: record.CompanyID,
	}, nil
}

// Authorize resolves the effective company for an operation.
func (g *AccessGate) Authorize(ctx context.Context, principal *entities.User, requestedCompanyID *int64) (int64, error) {
	return g.resolver.Resolve(ctx, principal, requestedCompanyID)
}

// InvalidatePrincipal drops a cached principal. Flows that mutate a user
// (password change, activation toggles) call this in the same operation so
// the change is visible before the TTL expires.
func (g *AccessGate) InvalidatePrincipal(id int64) {
	g.principals.Delete(principalCacheKey(id))
}
