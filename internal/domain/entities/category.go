package entities

import "time"

// Category is a company-scoped expense category.
type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ExpenseLimit *float64  `json:"expenseLimit,omitempty"`
	CompanyID    int64     `json:"companyId"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Snapshot captures the auditable state of a category.
func (c *Category) Snapshot() Snapshot {
	s := Snapshot{
		"name":        c.Name,
		"description": c.Description,
		"companyId":   c.CompanyID,
		"isActive":    c.IsActive,
	}
	if c.ExpenseLimit != nil {
		s["expenseLimit"] = *c.ExpenseLimit
	}
	return s
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	Name         string   `json:"name" binding:"required,min=1,max=100"`
	Description  string   `json:"description" binding:"required"`
	ExpenseLimit *float64 `json:"expenseLimit"`
}

// UpdateCategoryInput represents input for updating a category
type UpdateCategoryInput struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	ExpenseLimit *float64 `json:"expenseLimit"`
}
