package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// Setting keys used by the wizard. They mirror the keys accepted by the
// settings service.
//
//nolint:gosec // G101: config key names, not credentials.
const (
	keyBaseURL      = "confluence.base_url"
	keyAuthMethod   = "confluence.auth_method"
	keyEmail        = "confluence.email"
	keyAPIToken     = "confluence.api_token"
	keySourceSpace  = "source.space_key"
	keyTargetSpace  = "target.space_key"
	keyTargetParent = "target.parent_page_id"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the Confluence connection, default source and
target, and the title/body substitution.

Settings are stored in config.toml in the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by key, for example:

  confclone settings set confluence.base_url https://example.atlassian.net/wiki
  confclone settings set target.space_key DOCS

Run 'confclone settings keys' to list the accepted keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store the API token",
	Long:  `Prompt for the Confluence API token (or personal access token) without echo.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsToken,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the connection and defaults step by step.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	c := settings.Confluence
	cmd.Println("[Confluence]")
	cmd.Printf("  Base URL: %s\n", valueOrUnset(c.BaseURL))
	cmd.Printf("  Auth: %s\n", c.AuthMethod.Description())
	if c.AuthMethod == domain.AuthMethodBasic {
		cmd.Printf("  Email: %s\n", valueOrUnset(c.Email))
	}
	if c.APIToken != "" {
		cmd.Printf("  API Token: %s\n", maskAPIKey(c.APIToken))
	} else {
		cmd.Printf("  API Token: (not set)\n")
	}
	if c.RequestsPerSecond > 0 {
		cmd.Printf("  Requests/s: %g\n", c.RequestsPerSecond)
	}
	status := "configured"
	if !c.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Source]")
	cmd.Printf("  Space: %s\n", valueOrUnset(settings.Source.SpaceKey))
	cmd.Printf("  Root page: %s\n", valueOrUnset(settings.Source.RootPageID))
	cmd.Println()

	cmd.Println("[Target]")
	cmd.Printf("  Space: %s\n", valueOrUnset(settings.Target.SpaceKey))
	cmd.Printf("  Parent page: %s\n", valueOrUnset(settings.Target.ParentPageID))
	cmd.Println()

	cmd.Println("[Substitution]")
	if settings.Substitution.Enabled() {
		cmd.Printf("  Pattern: %s\n", settings.Substitution.Pattern)
		cmd.Printf("  Replacement: %s\n", settings.Substitution.Replacement)
	} else {
		cmd.Println("  Disabled")
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	if settings.Server.RedisURL != "" {
		cmd.Printf("  Sessions: redis\n")
	} else {
		cmd.Printf("  Sessions: memory\n")
	}

	if !c.IsConfigured() {
		cmd.Println()
		cmd.Println("Run 'confclone settings wizard' to configure the connection.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	if args[0] == keyAPIToken {
		cmd.Printf("%s updated\n", args[0])
	} else {
		cmd.Printf("%s = %s\n", args[0], args[1])
	}
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("API token: ")
	token := readPassword(cmd, nil)
	cmd.Println()
	if token == "" {
		return errors.New("no token entered")
	}

	if err := settingsService.Set(keyAPIToken, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	cmd.Println("API token saved.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("confclone setup")
	cmd.Println("===============")
	cmd.Println("Press Enter to keep the value in brackets.")
	cmd.Println()

	values := map[string]string{}

	values[keyBaseURL] = prompt(cmd, reader, "Confluence base URL", current.Confluence.BaseURL)

	methods := domain.AllAuthMethods()
	cmd.Println("Authentication:")
	defaultChoice := 1
	for i, m := range methods {
		cmd.Printf("  %d. %s\n", i+1, m.Description())
		if m == current.Confluence.AuthMethod {
			defaultChoice = i + 1
		}
	}
	cmd.Printf("Choice [%d]: ", defaultChoice)
	method := methods[parseChoice(readLine(reader), len(methods), defaultChoice)-1]
	values[keyAuthMethod] = method.String()

	if method == domain.AuthMethodBasic {
		values[keyEmail] = prompt(cmd, reader, "Account email", current.Confluence.Email)
	}

	values[keySourceSpace] = prompt(cmd, reader, "Default source space", current.Source.SpaceKey)
	values[keyTargetSpace] = prompt(cmd, reader, "Default target space", current.Target.SpaceKey)
	values[keyTargetParent] = prompt(cmd, reader, "Default target parent page id", current.Target.ParentPageID)

	for _, key := range []string{keyBaseURL, keyAuthMethod, keyEmail, keySourceSpace, keyTargetSpace, keyTargetParent} {
		v, ok := values[key]
		if !ok || v == "" {
			continue
		}
		if err := settingsService.Set(key, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	if current.Confluence.APIToken == "" {
		cmd.Print("API token: ")
		if token := readPassword(cmd, reader); token != "" {
			cmd.Println()
			if err := settingsService.Set(keyAPIToken, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}
		}
	}

	cmd.Println()
	cmd.Println("Settings saved.")
	return nil
}

// prompt asks for a value, returning current when the answer is empty.
func prompt(cmd *cobra.Command, reader *bufio.Reader, label, current string) string {
	if current != "" {
		cmd.Printf("%s [%s]: ", label, current)
	} else {
		cmd.Printf("%s: ", label)
	}
	if v := readLine(reader); v != "" {
		return v
	}
	return current
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > maxVal {
		return defaultVal
	}
	return choice
}

// readPassword reads a secret without echo when stdin is a terminal,
// falling back to a plain line from reader.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) string {
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		password, err := term.ReadPassword(int(in.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	if reader == nil {
		reader = bufio.NewReader(cmd.InOrStdin())
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
