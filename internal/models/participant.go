package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant is a person attached to a project: foreman, owner,
// contractor, and so on. CanPost controls whether they may post messages.
type Participant struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	ProjectID string `gorm:"type:uuid;index;not null" json:"project_id"`
	Role      string `gorm:"size:100;not null" json:"role"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`
	CanPost   bool   `gorm:"default:false" json:"can_post"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
