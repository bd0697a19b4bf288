package models

import (
	"fmt"
)

// ProjectStatus is the closed set of lifecycle states for a project.
type ProjectStatus string

const (
	ProjectPlanning ProjectStatus = "planning"
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// ParseProjectStatus rejects values outside the closed set.
func ParseProjectStatus(value string) (ProjectStatus, error) {
	switch ProjectStatus(value) {
	case ProjectPlanning, ProjectActive, ProjectArchived:
		return ProjectStatus(value), nil
	}
	return "", fmt.Errorf("invalid project status %q", value)
}

// Project is a construction project owned by a user.
type Project struct {
	BaseModel

	Title    string        `gorm:"size:255;not null" json:"title"`
	Address  string        `gorm:"size:255" json:"address,omitempty"`
	Currency string        `gorm:"size:8;not null" json:"currency"`
	OwnerID  string        `gorm:"type:uuid;index;not null" json:"owner_id"`
	Status   ProjectStatus `gorm:"size:32;default:planning" json:"status"`

	Participants []Participant `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Messages     []Message     `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	DailyLogs    []DailyLog    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Milestones   []Milestone   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
