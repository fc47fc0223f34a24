package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danielpatrickdp/selfswitch/internal/command"
	"github.com/danielpatrickdp/selfswitch/internal/config"
	"github.com/danielpatrickdp/selfswitch/internal/logging"
	"github.com/danielpatrickdp/selfswitch/internal/mapdata"
	"github.com/danielpatrickdp/selfswitch/internal/state"
)

// App is the wired command stack backed by a SQLite store.
type App struct {
	Store    *state.Store
	Audit    *logging.Recorder
	Registry *command.Registry
	Logger   zerolog.Logger
}

// Open opens the store and registers the selfswitch command. The current map
// is read from host on every invocation.
func Open(cfg config.Config, host command.Host, logger zerolog.Logger) (*App, error) {
	store, err := state.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	audit, err := logging.NewRecorder(store.DB())
	if err != nil {
		store.Close()
		return nil, err
	}

	reg := command.NewRegistry(audit, logger)
	cmd := command.NewSelfSwitch(store, mapdata.NewDir(cfg.MapDir), host, logger)
	if err := reg.Register(cmd); err != nil {
		store.Close()
		return nil, err
	}
	return &App{Store: store, Audit: audit, Registry: reg, Logger: logger}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
