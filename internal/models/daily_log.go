package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyLog is a per-day project summary with schedule and budget health
// scores. Scores are bounded to 0-100 at the request boundary.
type DailyLog struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	ProjectID string    `gorm:"type:uuid;index;not null" json:"project_id"`
	Date      time.Time `gorm:"type:date;index;not null" json:"date"`

	SummaryText   string `gorm:"type:text" json:"summary_text,omitempty"`
	ScoreSchedule int    `gorm:"not null" json:"score_schedule"`
	ScoreBudget   int    `gorm:"not null" json:"score_budget"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (d *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
