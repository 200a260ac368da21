package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultRole is assigned to every account at registration.
const DefaultRole = "USER"

// User represents a forum account. Passwords are stored as bcrypt hashes only;
// username and email are persisted trimmed and lowercased, and the unique
// indexes back the duplicate checks done at registration time.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate keeps the role default even when a store inserts the row with
// the field left empty.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = DefaultRole
	}
	return nil
}
