package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree [space-key]",
	Short: "Load and print a page tree",
	Long: `Loads every page of a space, or of the subtree under --root, and prints
the rebuilt page tree with page ids.

The space key defaults to source.space_key from the settings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().String("root", "", "only load the subtree under this page id")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	spaceKey := ""
	if len(args) > 0 {
		spaceKey = args[0]
	}
	rootID, _ := cmd.Flags().GetString("root")

	state, err := loadTree(cmd, spaceKey, rootID)
	if err != nil {
		return err
	}

	cmd.Printf("Loaded %d pages from %s\n\n", state.PageCount, state.SpaceKey)
	printTree(cmd.OutOrStdout(), state.Roots, 0)
	return nil
}

// loadTree loads a tree, falling back to the configured source space and root.
func loadTree(cmd *cobra.Command, spaceKey, rootID string) (*domain.TreeState, error) {
	if treeService == nil {
		return nil, errors.New("tree service not configured")
	}

	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		if spaceKey == "" {
			spaceKey = settings.Source.SpaceKey
			if rootID == "" {
				rootID = settings.Source.RootPageID
			}
		}
	}
	if spaceKey == "" {
		return nil, errors.New("source space key is required (argument, --space or source.space_key)")
	}

	state, err := treeService.Load(cmd.Context(), spaceKey, rootID)
	if err != nil {
		return nil, explain(fmt.Errorf("failed to load page tree: %w", err))
	}
	return state, nil
}

// printTree writes nodes in pre-order, two spaces per level.
func printTree(w io.Writer, nodes []*domain.PageNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		fmt.Fprintf(w, "%s- %s (%s)\n", indent, n.Title, n.ID)
		printTree(w, n.Children, depth+1)
	}
}
