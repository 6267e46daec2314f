package api

import (
	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/infrastructure"
	"github.com/promptdeck/promptdeck/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Version    string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:   infra.Lifecycle,
			Logger:      infra.Logger.With("module", "api"),
			Database:    infra.Database,
			Session:     infra.Session,
			Revalidator: infra.Revalidator,
			Notifier:    infra.Notifier,
		},
		Pagination: cfg.API.Pagination,
		Version:    cfg.Version,
	}
}
