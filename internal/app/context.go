// Package app bootstraps the application context shared by the console and
// its worker process: configuration, extension registry, wizard state, and
// the host settings file.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/juju/clock"
	"github.com/juju/loggo"

	"github.com/conn-castle/upgrade-console/internal/config"
	"github.com/conn-castle/upgrade-console/internal/extension"
	"github.com/conn-castle/upgrade-console/internal/messages"
	"github.com/conn-castle/upgrade-console/internal/state"
)

var logger = loggo.GetLogger("uc.app")

// Context is a fully initialized application.
type Context struct {
	Root         string
	Config       *config.Config
	SettingsPath string
	Extensions   extension.Registry
	Store        state.Store
	Clock        clock.Clock
}

// Options controls Bootstrap. Zero values select the configured defaults.
type Options struct {
	Root       string
	ConfigPath string
	// Config skips loading when set.
	Config *config.Config
	// Store replaces the configured state backend.
	Store state.Store
	Clock clock.Clock
}

// Bootstrap loads configuration and opens the wizard state store.
func Bootstrap(ctx context.Context, opts Options) (*Context, error) {
	if opts.Root == "" {
		return nil, errors.New(messages.AppRootRequired)
	}
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(opts.Root, opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.WallClock
	}
	settingsPath, err := config.Resolve(opts.Root, cfg.App.Settings)
	if err != nil {
		return nil, fmt.Errorf(messages.AppResolveSettingsFmt, cfg.App.Settings, err)
	}
	store := opts.Store
	if store == nil {
		store, err = OpenStore(ctx, opts.Root, cfg.State, clk)
		if err != nil {
			return nil, err
		}
	}
	logger.Debugf("bootstrapped %s (version %s, state backend %s)", opts.Root, cfg.App.Version, cfg.State.Backend)
	return &Context{
		Root:         opts.Root,
		Config:       cfg,
		SettingsPath: settingsPath,
		Extensions:   extension.NewFileRegistry(opts.Root, cfg.Extensions.Paths),
		Store:        store,
		Clock:        clk,
	}, nil
}

// OpenStore opens the configured wizard state backend.
func OpenStore(ctx context.Context, root string, cfg config.StateConfig, clk clock.Clock) (state.Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		path, err := config.Resolve(root, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf(messages.AppResolveStateFmt, cfg.Path, err)
		}
		return state.NewFileStore(path, clk), nil
	case config.BackendPostgres:
		return state.OpenPostgres(ctx, state.PostgresConfig{DSN: cfg.DSN}, clk)
	default:
		return nil, fmt.Errorf(messages.StateUnknownBackendFmt, cfg.Backend)
	}
}

// Version returns the installed host version.
func (c *Context) Version() string {
	return c.Config.App.Version
}

// Close releases the state store.
func (c *Context) Close() error {
	if c == nil || c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
