package services

import (
	"context"
	"strings"
)

// NormalizeEmail trims surrounding whitespace and lowercases an email
// address. Every store lookup and insert goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
