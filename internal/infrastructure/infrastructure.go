// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, identity) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/session"
	"github.com/promptdeck/promptdeck/pkg/database"
	"github.com/promptdeck/promptdeck/pkg/lifecycle"
	"github.com/promptdeck/promptdeck/pkg/notify"
	"github.com/promptdeck/promptdeck/pkg/revalidate"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, identity resolution, and the cache revalidation
// and notification boundaries.
type Infrastructure struct {
	Lifecycle   *lifecycle.Coordinator
	Logger      *slog.Logger
	Database    database.System
	Session     session.System
	Revalidator *revalidate.Broadcast
	Notifier    notify.Notifier
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:   lc,
		Logger:      logger,
		Database:    db,
		Session:     session.New(&cfg.Session, logger),
		Revalidator: revalidate.NewBroadcast(logger),
		Notifier:    notify.NewLog(logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and session hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Session.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("session start failed: %w", err)
	}
	return nil
}
