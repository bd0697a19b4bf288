package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Annotation captures structured progress data extracted from a message:
// which area and task it concerns, completion estimate, blockers.
// Percentage fields are bounded to 0-100 at the request boundary.
type Annotation struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	MessageID string `gorm:"type:uuid;index;not null" json:"message_id"`

	Area            string `gorm:"size:255" json:"area,omitempty"`
	Task            string `gorm:"size:255" json:"task,omitempty"`
	Phase           string `gorm:"size:255" json:"phase,omitempty"`
	PercentComplete *int   `json:"percent_complete,omitempty"`
	Blocker         string `gorm:"type:text" json:"blocker,omitempty"`
	NextStep        string `gorm:"type:text" json:"next_step,omitempty"`
	Confidence      *int   `json:"confidence,omitempty"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (a *Annotation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
