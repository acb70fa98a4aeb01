package usecases

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/domain/repositories"
)

// TenantResolver decides which company an operation runs against. The rules
// are ordered; the first match wins.
type TenantResolver struct {
	companyRepo repositories.CompanyRepository
}

// NewTenantResolver creates a new tenant resolver
func NewTenantResolver(companyRepo repositories.CompanyRepository) *TenantResolver {
	return &TenantResolver{companyRepo: companyRepo}
}

// Resolve determines the effective company for a principal:
//  1. non-admin without a company is rejected,
//  2. non-admin always operates on their own company (requested is ignored),
//  3. admin with an explicit request operates on that company if it exists,
//  4. admin without a request falls back to their own company,
//  5. admin with neither must say which company they mean.
func (r *TenantResolver) Resolve(ctx context.Context, principal *entities.User, requestedCompanyID *int64) (int64, error) {
	if !principal.IsAdmin {
		if !principal.CompanyID.Valid {
			return 0, domainerrors.ErrNoTenantAssigned
		}
		return principal.CompanyID.Int64, nil
	}

	if requestedCompanyID != nil {
		exists, err := r.companyRepo.Exists(ctx, *requestedCompanyID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, domainerrors.ErrTenantNotFound
		}
		return *requestedCompanyID, nil
	}

	if principal.CompanyID.Valid {
		return principal.CompanyID.Int64, nil
	}

	return 0, domainerrors.ErrTenantRequired
}
