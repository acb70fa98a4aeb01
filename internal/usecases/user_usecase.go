package usecases

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/domain/repositories"
	"expensetrack.backend/pkg/crypto"
	"expensetrack.backend/pkg/token"
)

// UserUsecase handles invitations, registration and account administration
type UserUsecase struct {
	userRepo repositories.UserRepository
	uow      repositories.UnitOfWork
	audit    *AuditTrail
	tokens   *token.TokenService
	gate     *AccessGate
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
	audit *AuditTrail,
	tokens *token.TokenService,
	gate *AccessGate,
) *UserUsecase {
	return &UserUsecase{
		userRepo: userRepo,
		uow:      uow,
		audit:    audit,
		tokens:   tokens,
		gate:     gate,
	}
}

// Invite creates a pending account in the actor's resolved company and
// issues an invitation token. The account has no password and is inactive
// until the invitee registers.
func (u *UserUsecase) Invite(ctx context.Context, actor *entities.User, input *entities.InviteUserInput) (*entities.InviteUserResponse, error) {
	companyID, err := u.gate.Authorize(ctx, actor, input.CompanyID)
	if err != nil {
		return nil, err
	}

	_, err = u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.NewError("email already registered", domainerrors.ErrAlreadyExists)
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	pending := &entities.User{
		Email:     input.Email,
		FullName:  input.FullName,
		IsActive:  false,
		CompanyID: null.Int64From(companyID),
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.Create(txCtx, pending); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionCreate, EntityTypeUser, pending.ID, actor.ID, nil, pending.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	invitationToken, err := u.tokens.IssueInvitation(pending.Email)
	if err != nil {
		return nil, err
	}

	return &entities.InviteUserResponse{
		User:            pending,
		InvitationToken: invitationToken,
	}, nil
}

// Register completes an invitation: the token must verify AND the account
// it names must still be pending. A token for an already-registered account
// is rejected.
func (u *UserUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	email, ok := u.tokens.VerifyInvitation(input.Token)
	if !ok {
		return nil, domainerrors.ErrUnauthenticated
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthenticated
		}
		return nil, err
	}

	if !user.IsPending() {
		return nil, domainerrors.NewError("invitation already used", domainerrors.ErrAlreadyExists)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	previous := user.Snapshot()
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.UpdatePassword(txCtx, user.ID, hash); err != nil {
			return err
		}
		if err := u.userRepo.SetActive(txCtx, user.ID, true); err != nil {
			return err
		}
		user.PasswordHash = hash
		user.IsActive = true
		return u.audit.Record(txCtx, entities.AuditActionUpdate, EntityTypeUser, user.ID, user.ID, previous, user.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	u.gate.InvalidatePrincipal(user.ID)
	return user, nil
}

// List lists users, optionally filtered by company
func (u *UserUsecase) List(ctx context.Context, companyID *int64) ([]*entities.User, error) {
	return u.userRepo.List(ctx, companyID)
}

// SetActive toggles an account and drops its cached principal so revoked
// access takes effect without waiting for the TTL.
func (u *UserUsecase) SetActive(ctx context.Context, actor *entities.User, userID int64, active bool) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}

	previous := user.Snapshot()
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.SetActive(txCtx, userID, active); err != nil {
			return err
		}
		user.IsActive = active
		return u.audit.Record(txCtx, entities.AuditActionUpdate, EntityTypeUser, userID, actor.ID, previous, user.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	u.gate.InvalidatePrincipal(userID)
	return user, nil
}
