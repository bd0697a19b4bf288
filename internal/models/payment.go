package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentProvider is the closed set of supported payment channels.
type PaymentProvider string

const (
	PaymentStripe PaymentProvider = "stripe"
	PaymentPix    PaymentProvider = "pix"
	PaymentBoleto PaymentProvider = "boleto"
	PaymentCash   PaymentProvider = "cash"
	PaymentCartao PaymentProvider = "cartao"
)

// ParsePaymentProvider rejects values outside the closed set.
func ParsePaymentProvider(value string) (PaymentProvider, error) {
	switch PaymentProvider(value) {
	case PaymentStripe, PaymentPix, PaymentBoleto, PaymentCash, PaymentCartao:
		return PaymentProvider(value), nil
	}
	return "", fmt.Errorf("invalid payment provider %q", value)
}

// PaymentStatus is the closed set of payment states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// ParsePaymentStatus rejects values outside the closed set.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	switch PaymentStatus(value) {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return PaymentStatus(value), nil
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}

// Payment records money moved against a milestone.
type Payment struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	MilestoneID string `gorm:"type:uuid;index;not null" json:"milestone_id"`

	Provider PaymentProvider `gorm:"size:20;not null" json:"provider"`
	Link     string          `gorm:"size:2048" json:"link,omitempty"`
	Status   PaymentStatus   `gorm:"size:20;default:pending" json:"status"`
	PaidAt   *time.Time      `json:"paid_at,omitempty"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
