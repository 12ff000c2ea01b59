package models

import (
	"time"
)

type URL struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id,omitempty"` // Nullable for anonymous
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShortCode   string    `gorm:"unique;not null;size:50;index" json:"short_code"`
	OriginalURL string    `gorm:"not null;type:text" json:"original_url"`
	Clicks      int       `gorm:"default:0" json:"clicks"`
	Flagged     bool      `gorm:"default:false;index" json:"flagged"`
	FlagReason  *string   `gorm:"type:text" json:"flag_reason,omitempty"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (URL) TableName() string {
	return "urls"
}
