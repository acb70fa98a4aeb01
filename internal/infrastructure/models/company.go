package models

import "time"

type Company struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(100);index;not null"`
	Address   string `gorm:"type:varchar(255)"`
	Website   string `gorm:"type:varchar(255)"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Company) TableName() string {
	return "companies"
}
