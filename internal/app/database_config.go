package app

import (
	"strings"

	"github.com/zenbild/backend/internal/database"
)

// StoreConfig converts the application database settings into the
// connection options the database package consumes.
func (c DatabaseConfig) StoreConfig() database.Config {
	cfg := database.Config{
		Driver: strings.ToLower(c.Driver),
		Path:   c.Path,
		DSN:    c.DSN,
	}

	var creds DBAuthConfig
	switch cfg.Driver {
	case "postgres", "postgresql":
		creds = c.Postgres
	case "mysql":
		creds = c.MySQL
	default:
		return cfg
	}

	cfg.Host = creds.Host
	cfg.Port = creds.Port
	cfg.Name = creds.Database
	cfg.User = creds.Username
	cfg.Password = creds.Password
	return cfg
}
