package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Username     string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	FullName     string     `gorm:"type:varchar(128);not null"`
	Email        *string    `gorm:"type:varchar(255)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	BranchCode   string     `gorm:"type:varchar(16);not null;index:idx_users_branch_role"`
	Role         string     `gorm:"type:varchar(32);not null;index:idx_users_branch_role"`
	IsActive     bool       `gorm:"not null"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
