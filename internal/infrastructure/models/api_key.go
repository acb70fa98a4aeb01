package models

import "time"

type ApiKey struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(100);not null"`
	KeyHash   string `gorm:"type:varchar(64);uniqueIndex;not null"` // SHA256 of the plaintext key
	UserID    int64  `gorm:"not null;index"`
	CompanyID int64  `gorm:"not null;index"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
}
