package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null;size:80" json:"username"`
	Email        string    `gorm:"unique;not null;size:120" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	APIKey       string    `gorm:"unique;index;size:36" json:"api_key"`
	Role         string    `gorm:"not null;size:20;default:'user'" json:"role"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Deleting a user orphans their URLs rather than removing them
	URLs []URL `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"urls,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
