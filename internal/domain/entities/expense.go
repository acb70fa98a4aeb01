package entities

import "time"

// Expense is a company-scoped expense entry.
type Expense struct {
	ID           int64     `json:"id"`
	Amount       float64   `json:"amount"`
	DateIncurred time.Time `json:"dateIncurred"`
	Description  string    `json:"description,omitempty"`
	CategoryID   int64     `json:"categoryId"`
	UserID       int64     `json:"userId"`
	CompanyID    int64     `json:"companyId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Snapshot captures the auditable state of an expense.
func (e *Expense) Snapshot() Snapshot {
	return Snapshot{
		"amount":       e.Amount,
		"dateIncurred": e.DateIncurred.Format(time.RFC3339),
		"description":  e.Description,
		"categoryId":   e.CategoryID,
		"companyId":    e.CompanyID,
	}
}

// CreateExpenseInput represents input for creating an expense
type CreateExpenseInput struct {
	Amount       float64   `json:"amount" binding:"required,gt=0"`
	DateIncurred time.Time `json:"dateIncurred" binding:"required"`
	Description  string    `json:"description"`
	CategoryID   int64     `json:"categoryId" binding:"required"`
}

// UpdateExpenseInput represents input for updating an expense
type UpdateExpenseInput struct {
	Amount       *float64   `json:"amount"`
	DateIncurred *time.Time `json:"dateIncurred"`
	Description  *string    `json:"description"`
	CategoryID   *int64     `json:"categoryId"`
}

// ExpenseFilter narrows an expense listing.
type ExpenseFilter struct {
	CategoryID *int64
	From       *time.Time
	To         *time.Time
}
