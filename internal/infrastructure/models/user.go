package models

import (
	"time"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string `gorm:"type:varchar(100);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null;default:''"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	IsActive     bool   `gorm:"not null;default:false"`
	CompanyID    *int64 `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
