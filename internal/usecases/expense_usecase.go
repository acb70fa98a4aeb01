package usecases

import (
	"context"
	"errors"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/domain/repositories"
	"expensetrack.backend/pkg/utils"
)

// ExpenseUsecase handles company-scoped expense operations. Every mutation
// runs in a transaction together with its audit record.
type ExpenseUsecase struct {
	expenseRepo  repositories.ExpenseRepository
	categoryRepo repositories.CategoryRepository
	uow          repositories.UnitOfWork
	audit        *AuditTrail
}

// NewExpenseUsecase creates a new expense usecase
func NewExpenseUsecase(
	expenseRepo repositories.ExpenseRepository,
	categoryRepo repositories.CategoryRepository,
	uow repositories.UnitOfWork,
	audit *AuditTrail,
) *ExpenseUsecase {
	return &ExpenseUsecase{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		uow:          uow,
		audit:        audit,
	}
}

// Create records a new expense in the given company
func (u *ExpenseUsecase) Create(ctx context.Context, actorID, companyID int64, input *entities.CreateExpenseInput) (*entities.Expense, error) {
	if err := u.checkCategory(ctx, companyID, input.CategoryID); err != nil {
		return nil, err
	}

	expense := &entities.Expense{
		Amount:       input.Amount,
		DateIncurred: input.DateIncurred,
		Description:  input.Description,
		CategoryID:   input.CategoryID,
		UserID:       actorID,
		CompanyID:    companyID,
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.expenseRepo.Create(txCtx, expense); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionCreate, EntityTypeExpense, expense.ID, actorID, nil, expense.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// Get returns one expense within the company scope
func (u *ExpenseUsecase) Get(ctx context.Context, companyID, id int64) (*entities.Expense, error) {
	return u.expenseRepo.GetByID(ctx, companyID, id)
}

// List returns a company's expenses matching the filter
func (u *ExpenseUsecase) List(ctx context.Context, companyID int64, filter entities.ExpenseFilter, pagination utils.PaginationParams) ([]*entities.Expense, int64, error) {
	return u.expenseRepo.List(ctx, companyID, filter, pagination)
}

// Update applies the provided fields to an expense
func (u *ExpenseUsecase) Update(ctx context.Context, actorID, companyID, id int64, input *entities.UpdateExpenseInput) (*entities.Expense, error) {
	expense, err := u.expenseRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	previous := expense.Snapshot()

	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.DateIncurred != nil {
		expense.DateIncurred = *input.DateIncurred
	}
	if input.Description != nil {
		expense.Description = *input.Description
	}
	if input.CategoryID != nil && *input.CategoryID != expense.CategoryID {
		if err := u.checkCategory(ctx, companyID, *input.CategoryID); err != nil {
			return nil, err
		}
		expense.CategoryID = *input.CategoryID
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.expenseRepo.Update(txCtx, expense); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionUpdate, EntityTypeExpense, expense.ID, actorID, previous, expense.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete removes an expense
func (u *ExpenseUsecase) Delete(ctx context.Context, actorID, companyID, id int64) error {
	expense, err := u.expenseRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}

	return u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.expenseRepo.Delete(txCtx, companyID, id); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionDelete, EntityTypeExpense, id, actorID, expense.Snapshot(), nil)
	})
}

func (u *ExpenseUsecase) checkCategory(ctx context.Context, companyID, categoryID int64) error {
	category, err := u.categoryRepo.GetByID(ctx, companyID, categoryID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NewError("category not found in this company", domainerrors.ErrInvalidInput)
		}
		return err
	}
	if !category.IsActive {
		return domainerrors.NewError("category is inactive", domainerrors.ErrInvalidInput)
	}
	return nil
}
