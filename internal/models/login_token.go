package models

import "time"

// LoginToken is a single-use credential proving control of an email
// address. Only the SHA-256 digest of the secret is persisted; the raw
// secret travels in the magic link and is never stored.
//
// A token is valid while ConsumedAt is unset and ExpiresAt is in the
// future. Consumption is monotonic: the unconsumed-to-consumed
// transition happens via one conditional update and is never reversed.
// Expired rows are left in place and are permanently invalid.
type LoginToken struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string  `gorm:"index;not null" json:"email"`
	TokenHash string  `gorm:"uniqueIndex;not null" json:"-"`
	UserID    *string `gorm:"type:uuid;index" json:"user_id,omitempty"`

	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `gorm:"index;not null" json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}
