package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageType is the closed set of message payload kinds.
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageAudio MessageType = "audio"
	MessageImage MessageType = "image"
)

// ParseMessageType rejects values outside the closed set.
func ParseMessageType(value string) (MessageType, error) {
	switch MessageType(value) {
	case MessageText, MessageAudio, MessageImage:
		return MessageType(value), nil
	}
	return "", fmt.Errorf("invalid message type %q", value)
}

// Message is a site update posted to a project feed. Audio and image
// messages carry a URL; text and transcribed audio carry a transcript.
type Message struct {
	ID         string      `gorm:"primaryKey;type:uuid" json:"id"`
	ProjectID  string      `gorm:"type:uuid;index;not null" json:"project_id"`
	SenderID   *string     `gorm:"type:uuid" json:"sender_id,omitempty"`
	Type       MessageType `gorm:"size:16;not null" json:"type"`
	URL        string      `gorm:"size:2048" json:"url,omitempty"`
	Transcript string      `gorm:"type:text" json:"transcript,omitempty"`

	Annotations []Annotation `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"annotations,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
