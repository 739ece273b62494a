package models

import "time"

const (
	RoleUser     = "user"
	RoleApprover = "approver"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null;default:''"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:user"`
	CreatedAt    time.Time `gorm:"not null"`
	LastLoginAt  *time.Time
}

func (user *User) IsApprover() bool {
	return user.Role == RoleApprover
}
