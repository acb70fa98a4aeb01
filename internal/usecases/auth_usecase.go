package usecases

import (
	"context"
	"errors"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/domain/repositories"
	"expensetrack.backend/pkg/crypto"
	"expensetrack.backend/pkg/token"
)

// AuthUsecase handles login and self-service account operations
type AuthUsecase struct {
	userRepo repositories.UserRepository
	tokens   *token.TokenService
	gate     *AccessGate
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repositories.UserRepository, tokens *token.TokenService, gate *AccessGate) *AuthUsecase {
	return &AuthUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		gate:     gate,
	}
}

// Login verifies email+password and issues a session token. An unknown
// email and a wrong password produce the same error.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domainerrors.ErrAccountInactive
	}

	accessToken, err := u.tokens.IssueSession(user.ID, user.CompanyIDPtr(), user.IsAdmin, 0)
	if err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// ChangePassword rehashes the caller's own password after verifying the
// current one, and drops the cached principal so the change is immediate.
func (u *AuthUsecase) ChangePassword(ctx context.Context, principal *entities.User, input *entities.ChangePasswordInput) error {
	if !crypto.CheckPassword(input.CurrentPassword, principal.PasswordHash) {
		return domainerrors.ErrInvalidCredentials
	}

	hash, err := crypto.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	if err := u.userRepo.UpdatePassword(ctx, principal.ID, hash); err != nil {
		return err
	}

	u.gate.InvalidatePrincipal(principal.ID)
	return nil
}
