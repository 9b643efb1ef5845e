// Package cli provides the Cobra command-line interface for confclone.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
	"github.com/custodia-labs/confclone/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services are the core services the commands drive.
type Services struct {
	Settings driving.SettingsService
	Tree     driving.TreeService
	Clone    driving.CloneOrchestrator
	Runs     driving.RunService
	Pages    driving.PageService

	// Sessions holds per-browser tree state for the web API.
	Sessions driven.SessionStore

	// WatchConfig reloads configuration on file changes until ctx is done.
	// Optional; long-running commands start it when set.
	WatchConfig func(ctx context.Context, onChange func()) error
}

// Bootstrap builds the services once flags are parsed.
// The returned cleanup func is called after the command finishes.
type Bootstrap func(configDir string) (*Services, func(), error)

var (
	settingsService   driving.SettingsService
	treeService       driving.TreeService
	cloneOrchestrator driving.CloneOrchestrator
	runService        driving.RunService
	pageService       driving.PageService
	sessionStore      driven.SessionStore
	watchConfig       func(ctx context.Context, onChange func()) error

	bootstrap Bootstrap
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "confclone",
	Short: "Clone Confluence page trees",
	Long: `confclone loads the page tree of a Confluence space (or of a subtree),
lets you pick pages and replays them under a target parent page, in the
same space or in another one.

Titles and bodies can be rewritten with a regular expression on the way,
and page restrictions are re-applied to the new pages.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("config-dir", "", "configuration directory (default ~/.confclone)")
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	treeService = s.Tree
	cloneOrchestrator = s.Clone
	runService = s.Runs
	pageService = s.Pages
	sessionStore = s.Sessions
	watchConfig = s.WatchConfig
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. bootstrap is called after flag parsing,
// so --config-dir is honoured when the services are built.
func Execute(ctx context.Context, b Bootstrap) error {
	bootstrap = b
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Name() == "version" {
		return nil
	}

	configDir, _ := cmd.Flags().GetString("config-dir")
	services, done, err := bootstrap(configDir)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(services)
	cleanup = done
	return nil
}

// explain adds a hint for errors the user can fix through settings.
func explain(err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return fmt.Errorf("%w\nRun 'confclone settings set confluence.email <email>' and 'confclone settings set-token'", err)
	case errors.Is(err, domain.ErrAuthInvalid):
		return fmt.Errorf("%w\nCheck the API token with 'confclone settings set-token'", err)
	default:
		return err
	}
}
