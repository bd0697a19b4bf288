package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MilestoneStatus is the closed set of milestone states.
type MilestoneStatus string

const (
	MilestonePending MilestoneStatus = "pending"
	MilestoneMet     MilestoneStatus = "met"
	MilestonePaid    MilestoneStatus = "paid"
)

// ParseMilestoneStatus rejects values outside the closed set.
func ParseMilestoneStatus(value string) (MilestoneStatus, error) {
	switch MilestoneStatus(value) {
	case MilestonePending, MilestoneMet, MilestonePaid:
		return MilestoneStatus(value), nil
	}
	return "", fmt.Errorf("invalid milestone status %q", value)
}

// Milestone is a payable unit of project progress.
type Milestone struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	ProjectID string `gorm:"type:uuid;index;not null" json:"project_id"`

	Name     string          `gorm:"size:255;not null" json:"name"`
	Amount   *float64        `gorm:"type:numeric(12,2)" json:"amount,omitempty"`
	Criteria string          `gorm:"type:text" json:"criteria,omitempty"`
	Status   MilestoneStatus `gorm:"size:16;default:pending" json:"status"`
	DueDate  *time.Time      `gorm:"type:date" json:"due_date,omitempty"`

	Payments []Payment `gorm:"foreignKey:MilestoneID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (m *Milestone) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
