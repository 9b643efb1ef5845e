package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Inspect single pages",
}

var pageShowCmd = &cobra.Command{
	Use:   "show [page-id]",
	Short: "Show a page as markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageShow,
}

func init() {
	pageCmd.AddCommand(pageShowCmd)
	rootCmd.AddCommand(pageCmd)
}

func runPageShow(cmd *cobra.Command, args []string) error {
	if pageService == nil {
		return errors.New("page service not configured")
	}

	preview, err := pageService.Preview(cmd.Context(), args[0])
	if err != nil {
		return explain(fmt.Errorf("failed to get page: %w", err))
	}

	cmd.Printf("%s\n", preview.Title)
	cmd.Printf("ID: %s  Space: %s\n\n", preview.ID, preview.SpaceKey)
	cmd.Println(preview.Markdown)
	return nil
}
