package models

import (
	"time"

	"gorm.io/gorm"
)

// Adviser is a staff user owning a set of partners.
type Adviser struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName     string         `gorm:"type:varchar(255);not null" json:"full_name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         string         `gorm:"type:varchar(32);not null;index" json:"role"`
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Adviser) TableName() string {
	return "advisers"
}
