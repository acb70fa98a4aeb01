package models

import "time"

type AuditRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Action       string `gorm:"type:varchar(20);not null"`
	EntityType   string `gorm:"type:varchar(50);not null;index"`
	EntityID     int64  `gorm:"not null;index"`
	UserID       int64  `gorm:"not null;index"`
	PreviousData []byte `gorm:"type:jsonb"`
	NewData      []byte `gorm:"type:jsonb"`
	CreatedAt    time.Time
}
