// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/infrastructure"
	"github.com/promptdeck/promptdeck/pkg/middleware"
	"github.com/promptdeck/promptdeck/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every route in the module sits behind the session middleware; requests
// without a valid bearer token never reach a handler.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(runtime.Session.Middleware())

	return m, nil
}
