package models

import "time"

type Category struct {
	ID           int64    `gorm:"primaryKey;autoIncrement"`
	Name         string   `gorm:"type:varchar(100);index;not null"`
	Description  string   `gorm:"type:varchar(255);not null"`
	ExpenseLimit *float64 `gorm:""`
	CompanyID    int64    `gorm:"not null;index"`
	IsActive     bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Category) TableName() string {
	return "categories"
}
