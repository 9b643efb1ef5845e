// Command confclone clones Confluence page trees from the command line,
// a terminal UI, a web API or an MCP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/confclone/internal/adapters/driven/config/file"
	"github.com/custodia-labs/confclone/internal/adapters/driven/session"
	"github.com/custodia-labs/confclone/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/confclone/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/confclone/internal/adapters/driving/cli"
	"github.com/custodia-labs/confclone/internal/connectors/confluence"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/core/services"
	"github.com/custodia-labs/confclone/internal/logger"
	"github.com/custodia-labs/confclone/internal/normalisers/storage"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx, bootstrap); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the adapters and services for one command run.
func bootstrap(configDir string) (*cli.Services, func(), error) {
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve config directory: %w", err)
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var runStore driven.RunStore
	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		logger.Warn("run history unavailable, keeping runs in memory: %v", err)
		runStore = memory.NewRunStore()
	} else {
		closers = append(closers, func() { store.Close() }) //nolint:errcheck
		runStore = store.RunStore()
	}

	settings, err := settingsService.Get()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}

	var sessions driven.SessionStore = memory.NewSessionStore()
	if settings.Server.RedisURL != "" {
		redisStore, err := session.NewRedisStore(settings.Server.RedisURL, services.TreeStateFromRoots)
		if err != nil {
			logger.Warn("redis sessions unavailable, using memory: %v", err)
		} else {
			closers = append(closers, func() { redisStore.Close() }) //nolint:errcheck
			sessions = redisStore
		}
	}

	gateway := confluence.NewGateway(func() (confluence.Config, error) {
		current, err := settingsService.Get()
		if err != nil {
			return confluence.Config{}, err
		}
		return confluence.ConfigFromSettings(current.Confluence), nil
	})

	logger.Debug("config: %s", configStore.Path())

	return &cli.Services{
		Settings:    settingsService,
		Tree:        services.NewTreeService(gateway),
		Clone:       services.NewCloneOrchestrator(gateway, runStore),
		Runs:        services.NewRunService(runStore),
		Pages:       services.NewPageService(gateway, storage.New()),
		Sessions:    sessions,
		WatchConfig: configStore.Watch,
	}, cleanup, nil
}
