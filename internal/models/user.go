package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an identity record. Emails are stored normalised (trimmed,
// lowercased) and uniqueness is enforced by the store.
type User struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Email   string `gorm:"uniqueIndex;not null" json:"email"`
	IsGuest bool   `gorm:"default:false" json:"is_guest"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
