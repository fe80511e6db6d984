// internal/config/database.go
package config

import (
	"fmt"
	"strings"
)

const memoryScheme = "memory://"

// IsMemory reports whether the in-process store was requested.
func (d *DatabaseConfig) IsMemory() bool {
	return strings.HasPrefix(d.URL, memoryScheme)
}

// DSN prefers DATABASE_URL and falls back to the DB_* parts.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
