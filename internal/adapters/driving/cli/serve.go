package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/confclone/internal/adapters/driving/web"
	"github.com/custodia-labs/confclone/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web API",
	Long: `Start the JSON web API.

Each browser session loads its own page tree and clones from it:

  POST /api/v1/tree/load          {"space_key": "OPS", "root_page_id": ""}
  GET  /api/v1/tree
  POST /api/v1/clone              {"page_ids": [...], "target_space": "...", "target_parent_id": "..."}
  GET  /api/v1/runs
  GET  /api/v1/runs/:id
  GET  /api/v1/pages/:id/preview
  GET  /healthz

Sessions are kept in memory unless server.redis_url is set.
The listen address defaults to server.addr.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = settings.Server.Addr
	}
	if addr == "" {
		return errors.New("listen address is required (--addr or server.addr)")
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := web.NewServer(&web.Ports{
		Tree:     treeService,
		Clone:    cloneOrchestrator,
		Sessions: sessionStore,
		Runs:     runService,
		Pages:    pageService,
	})
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if watchConfig != nil {
		go func() {
			err := watchConfig(ctx, func() { logger.Info("configuration reloaded") })
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watch stopped: %v", err)
			}
		}()
	}

	cmd.Printf("Web API listening on http://%s\n", addr)
	return server.Run(ctx, addr)
}
