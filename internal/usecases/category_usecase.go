package usecases

import (
	"context"
	"fmt"
	"time"

	"expensetrack.backend/internal/domain/entities"
	domainerrors "expensetrack.backend/internal/domain/errors"
	"expensetrack.backend/internal/domain/repositories"
	"expensetrack.backend/pkg/cache"
)

// categoryListTTL bounds how stale a cached category listing may be when a
// write slips past invalidation (e.g. from another instance).
const categoryListTTL = 5 * time.Minute

// CategoryUsecase handles company-scoped category operations. Listings are
// served from a TTL cache invalidated on every write to the same company.
type CategoryUsecase struct {
	categoryRepo repositories.CategoryRepository
	expenseRepo  repositories.ExpenseRepository
	uow          repositories.UnitOfWork
	audit        *AuditTrail
	listings     *cache.Cache[[]*entities.Category]
}

// NewCategoryUsecase creates a new category usecase
func NewCategoryUsecase(
	categoryRepo repositories.CategoryRepository,
	expenseRepo repositories.ExpenseRepository,
	uow repositories.UnitOfWork,
	audit *AuditTrail,
	listings *cache.Cache[[]*entities.Category],
) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
		uow:          uow,
		audit:        audit,
		listings:     listings,
	}
}

func categoryListKey(companyID int64) string {
	return fmt.Sprintf("categories:%d", companyID)
}

// Create adds a category to the company
func (u *CategoryUsecase) Create(ctx context.Context, actorID, companyID int64, input *entities.CreateCategoryInput) (*entities.Category, error) {
	category := &entities.Category{
		Name:         input.Name,
		Description:  input.Description,
		ExpenseLimit: input.ExpenseLimit,
		CompanyID:    companyID,
		IsActive:     true,
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.categoryRepo.Create(txCtx, category); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionCreate, EntityTypeCategory, category.ID, actorID, nil, category.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	u.listings.Delete(categoryListKey(companyID))
	return category, nil
}

// List returns the company's active categories, cached
func (u *CategoryUsecase) List(ctx context.Context, companyID int64) ([]*entities.Category, error) {
	if categories, ok := u.listings.Get(categoryListKey(companyID)); ok {
		return categories, nil
	}

	categories, err := u.categoryRepo.ListActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	u.listings.Set(categoryListKey(companyID), categories, categoryListTTL)
	return categories, nil
}

// Get returns one category within the company scope
func (u *CategoryUsecase) Get(ctx context.Context, companyID, id int64) (*entities.Category, error) {
	return u.categoryRepo.GetByID(ctx, companyID, id)
}

// Update applies the provided fields to a category
func (u *CategoryUsecase) Update(ctx context.Context, actorID, companyID, id int64, input *entities.UpdateCategoryInput) (*entities.Category, error) {
	category, err := u.categoryRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	previous := category.Snapshot()

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.ExpenseLimit != nil {
		category.ExpenseLimit = input.ExpenseLimit
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.categoryRepo.Update(txCtx, category); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionUpdate, EntityTypeCategory, category.ID, actorID, previous, category.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	u.listings.Delete(categoryListKey(companyID))
	return category, nil
}

// Delete deactivates a category. A category still referenced by expenses
// cannot be removed.
func (u *CategoryUsecase) Delete(ctx context.Context, actorID, companyID, id int64) error {
	category, err := u.categoryRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}

	count, err := u.expenseRepo.CountByCategory(ctx, companyID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domainerrors.NewError("category is referenced by expenses", domainerrors.ErrInvalidInput)
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.categoryRepo.Deactivate(txCtx, companyID, id); err != nil {
			return err
		}
		return u.audit.Record(txCtx, entities.AuditActionDelete, EntityTypeCategory, id, actorID, category.Snapshot(), nil)
	})
	if err != nil {
		return err
	}

	u.listings.Delete(categoryListKey(companyID))
	return nil
}
