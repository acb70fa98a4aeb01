package models

import "time"

type Expense struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Amount       float64   `gorm:"not null"`
	DateIncurred time.Time `gorm:"not null"`
	Description  string    `gorm:"type:text"`
	CategoryID   int64     `gorm:"not null;index"`
	UserID       int64     `gorm:"not null;index"`
	CompanyID    int64     `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
