package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/confclone/internal/adapters/driving/tui"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confclone/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Load a space (or a subtree), tick the pages to clone, fill in the target
and watch each page being cloned.

Controls:
  ↑/k, ↓/j  - Navigate pages
  space     - Select / deselect a page (children are not affected)
  →/l, ←/h  - Expand / collapse
  a, n      - Select all / none
  c         - Continue to the target form
  Esc       - Back
  ?         - Toggle help
  q         - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Tree:     treeService,
		Clone:    cloneOrchestrator,
		Settings: settingsService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	// Reload settings while the TUI is open (TUI is long-running).
	if watchConfig != nil {
		go func() {
			err := watchConfig(ctx, func() { p.Send(messages.ConfigReloaded{}) })
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watch stopped: %v", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
