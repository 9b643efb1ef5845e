package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone selected pages under a target parent",
	Long: `Loads the source page tree and clones the selected pages under the
target parent page.

Pages keep their relative hierarchy. A selected page whose parent is not
selected is placed under the nearest selected ancestor, or under the target
parent when there is none. Within one space the native copy is used; across
spaces pages are recreated from their title and body.

Flags default to the values in the settings.

Examples:
  confclone clone --space OPS --select 1001,1002 --target-parent 2000
  confclone clone --all --pattern '2024' --replacement '2025'`,
	Args: cobra.NoArgs,
	RunE: runClone,
}

func init() {
	cloneCmd.Flags().String("space", "", "source space key")
	cloneCmd.Flags().String("root", "", "only load the subtree under this page id")
	cloneCmd.Flags().String("target-space", "", "target space key")
	cloneCmd.Flags().String("target-parent", "", "target parent page id")
	cloneCmd.Flags().String("pattern", "", "regular expression applied to titles and bodies")
	cloneCmd.Flags().String("replacement", "", `replacement text, groups as \1 or \g<1>`)
	cloneCmd.Flags().StringSlice("select", nil, "page ids to clone")
	cloneCmd.Flags().Bool("all", false, "clone every loaded page")
	rootCmd.AddCommand(cloneCmd)
}

func runClone(cmd *cobra.Command, _ []string) error {
	if cloneOrchestrator == nil {
		return errors.New("clone service not configured")
	}

	flags := cmd.Flags()
	spaceKey, _ := flags.GetString("space")
	rootID, _ := flags.GetString("root")
	selected, _ := flags.GetStringSlice("select")
	all, _ := flags.GetBool("all")

	if all == (len(selected) > 0) {
		return errors.New("pass either --select or --all")
	}

	req, err := cloneRequestFromFlags(cmd)
	if err != nil {
		return err
	}

	state, err := loadTree(cmd, spaceKey, rootID)
	if err != nil {
		return err
	}

	if all {
		ids := make([]string, 0, len(state.Index))
		for id := range state.Index {
			ids = append(ids, id)
		}
		selected = ids
	}
	req.Selection = domain.NewSelection(selected...)

	cmd.Printf("Cloning %d pages from %s into %s under %s...\n",
		len(req.Selection), state.SpaceKey, req.TargetSpace, req.TargetParentID)

	report, err := cloneOrchestrator.Clone(cmd.Context(), state, req, func(o domain.PageOutcome) {
		printOutcome(cmd, o)
	})
	if err != nil {
		return explain(fmt.Errorf("clone aborted: %w", err))
	}

	cmd.Printf("\nRun %s: %d created, %d failed\n", report.ID, report.Created(), report.Failed())
	if report.Failed() > 0 {
		return fmt.Errorf("%d of %d pages failed", report.Failed(), len(report.Pages))
	}
	return nil
}

// cloneRequestFromFlags merges flags over the configured defaults.
func cloneRequestFromFlags(cmd *cobra.Command) (domain.CloneRequest, error) {
	req := domain.CloneRequest{}
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return req, fmt.Errorf("failed to get settings: %w", err)
		}
		req.TargetSpace = settings.Target.SpaceKey
		req.TargetParentID = settings.Target.ParentPageID
		req.Pattern = settings.Substitution.Pattern
		req.Replacement = settings.Substitution.Replacement
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("target-space"); v != "" {
		req.TargetSpace = v
	}
	if v, _ := flags.GetString("target-parent"); v != "" {
		req.TargetParentID = v
	}
	if flags.Changed("pattern") {
		req.Pattern, _ = flags.GetString("pattern")
	}
	if flags.Changed("replacement") {
		req.Replacement, _ = flags.GetString("replacement")
	}

	if req.TargetSpace == "" || req.TargetParentID == "" {
		return req, errors.New("target space and target parent page id are required")
	}
	return req, nil
}

// printOutcome writes one line per page as the run progresses.
func printOutcome(cmd *cobra.Command, o domain.PageOutcome) {
	if o.Status == domain.PageStatusFailed {
		cmd.Printf("  FAIL %s (%s): %s\n", o.Title, o.SourceID, o.Err)
		return
	}

	line := fmt.Sprintf("  OK   %s (%s) -> %s [%s]", o.Title, o.SourceID, o.NewID, o.Mode)
	if o.TitleUpdated {
		line += " title updated"
	}
	cmd.Println(line)

	for _, r := range o.Restrictions {
		if r.Err != "" {
			cmd.Printf("       warning: %s restrictions not applied: %s\n", r.Operation, r.Err)
		}
	}
}
