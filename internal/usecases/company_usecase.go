package usecases

import (
	"context"

	"expensetrack.backend/internal/domain/entities"
	"expensetrack.backend/internal/domain/repositories"
)

// CompanyUsecase handles tenant administration. Route-level guards restrict
// these operations to admins.
type CompanyUsecase struct {
	companyRepo repositories.CompanyRepository
	uow         repositories.UnitOfWork
	audit       *AuditTrail
}

// NewCompanyUsecase creates a new company usecase
func NewCompanyUsecase(companyRepo repositories.CompanyRepository, uow repositories.UnitOfWork, audit *AuditTrail) *CompanyUsecase {
	return &CompanyUsecase{
		companyRepo: companyRepo,
		uow:         uow,
		audit:       audit,
	}
}

// Create creates a new company
func (u *CompanyUsecase) Create(ctx context.Context, actorID int64, input *entities.CreateCompanyInput) (*entities.Company, error) {
	company := &entities.Company{
		Name:     input.Name,
		Address:  input.Address,
		Website:  input.Website,
		IsActive: true,
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.companyRepo.Create(txCtx, company); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionCreate, EntityTypeCompany, company.ID, actorID, nil, company.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// Get returns one company
func (u *CompanyUsecase) Get(ctx context.Context, id int64) (*entities.Company, error) {
	return u.companyRepo.GetByID(ctx, id)
}

// List lists all companies
func (u *CompanyUsecase) List(ctx context.Context) ([]*entities.Company, error) {
	return u.companyRepo.List(ctx)
}

// Update applies the provided fields to a company
func (u *CompanyUsecase) Update(ctx context.Context, actorID, id int64, input *entities.UpdateCompanyInput) (*entities.Company, error) {
	company, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := company.Snapshot()

	if input.Name != nil {
		company.Name = *input.Name
	}
	if input.Address != nil {
		company.Address = *input.Address
	}
	if input.Website != nil {
		company.Website = *input.Website
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.companyRepo.Update(txCtx, company); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionUpdate, EntityTypeCompany, company.ID, actorID, previous, company.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// Deactivate marks a company inactive
func (u *CompanyUsecase) Deactivate(ctx context.Context, actorID, id int64) error {
	company, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	previous := company.Snapshot()
	company.IsActive = false

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.companyRepo.SetActive(txCtx, id, false); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionUpdate, EntityTypeCompany, id, actorID, previous, company.Snapshot())
	})
}
