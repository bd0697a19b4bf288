package app

import (
	"time"

	"github.com/zenbild/backend/internal/auth"
)

const (
	defaultSessionTTLDays      = 7
	defaultMagicLinkTTLMinutes = 15
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	days := c.JWT.SessionTTLDays
	if days <= 0 {
		days = defaultSessionTTLDays
	}

	return auth.JWTConfig{
		Secret:     c.JWT.Secret,
		Issuer:     c.JWT.Issuer,
		SessionTTL: time.Duration(days) * 24 * time.Hour,
	}
}

// MagicLinkTTL returns the validity window for issued login tokens.
func (c AuthConfig) MagicLinkTTL() time.Duration {
	minutes := c.MagicLink.TTLMinutes
	if minutes <= 0 {
		minutes = defaultMagicLinkTTLMinutes
	}
	return time.Duration(minutes) * time.Minute
}
