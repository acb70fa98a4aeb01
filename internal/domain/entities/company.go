package entities

import "time"

// Company is the tenant. Every data access is scoped to exactly one company.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Website   string    `json:"website,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot captures the auditable state of a company.
func (c *Company) Snapshot() Snapshot {
	return Snapshot{
		"name":     c.Name,
		"address":  c.Address,
		"website":  c.Website,
		"isActive": c.IsActive,
	}
}

// CreateCompanyInput represents input for creating a company
type CreateCompanyInput struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Address string `json:"address"`
	Website string `json:"website"`
}

// UpdateCompanyInput represents input for updating a company
type UpdateCompanyInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Website *string `json:"website"`
}
