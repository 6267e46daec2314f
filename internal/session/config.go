package session

import (
	"fmt"
	"os"
	"strings"
)

// Config holds OIDC authentication parameters and the admin allow-list.
type Config struct {
	Issuer      string   `toml:"issuer"`
	ClientID    string   `toml:"client_id"`
	AdminEmails []string `toml:"admin_emails"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Issuer      string
	ClientID    string
	AdminEmails string
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.AdminEmails != nil {
		c.AdminEmails = overlay.AdminEmails
	}
}

// IsAdminEmail reports whether the given address is on the admin allow-list.
// Comparison is case-insensitive.
func (c *Config) IsAdminEmail(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

func (c *Config) loadEnv(env *Env) {
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.AdminEmails != "" {
		if v := os.Getenv(env.AdminEmails); v != "" {
			emails := strings.Split(v, ",")
			c.AdminEmails = make([]string, 0, len(emails))
			for _, email := range emails {
				if trimmed := strings.TrimSpace(email); trimmed != "" {
					c.AdminEmails = append(c.AdminEmails, trimmed)
				}
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("issuer required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required")
	}
	return nil
}
