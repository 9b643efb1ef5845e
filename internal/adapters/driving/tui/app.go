package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/views/load"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/views/progress"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/views/target"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/views/tree"
	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It owns the loaded TreeState for the lifetime of the program.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	loadView     *load.View
	treeView     *tree.View
	targetView   *target.View
	progressView *progress.View
	statusBar    *status.Bar

	// state is the last loaded tree, replaced on every load.
	state *domain.TreeState

	// selection is the confirmed selection carried to the target form.
	selection domain.Selection

	currentView  messages.ViewType
	previousView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		loadView:     load.NewView(s),
		treeView:     tree.NewView(s, km),
		targetView:   target.NewView(s),
		progressView: progress.NewView(s, ports.Clone),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewLoad,
	}
	a.applySettings()
	a.statusBar.SetBindings(km.FormHelp())
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// applySettings fills empty form fields from the settings service.
func (a *App) applySettings() {
	if a.ports.Settings == nil {
		return
	}
	settings, err := a.ports.Settings.Get()
	if err != nil {
		logger.Warn("tui: failed to read settings: %v", err)
		return
	}
	a.loadView.ApplySettings(settings)
	a.targetView.ApplySettings(settings)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("confclone"),
		a.loadView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		a.switchTo(msg.View)
		return a, nil

	case messages.LoadRequested:
		a.statusBar.SetState(status.StateLoading, fmt.Sprintf("Loading pages of %s...", msg.SpaceKey))
		return a, a.loadTree(msg)

	case messages.TreeLoaded:
		if msg.Err != nil {
			a.statusBar.SetState(status.StateError, msg.Err.Error())
			a.loadView.SetErr(msg.Err)
			return a, nil
		}
		a.state = msg.State
		a.treeView.SetState(msg.State)
		a.statusBar.SetState(status.StateReady, fmt.Sprintf("Loaded %d pages", msg.State.PageCount))
		a.switchTo(messages.ViewTree)
		return a, nil

	case messages.SelectionConfirmed:
		a.selection = msg.Selection
		a.targetView.SetSelectedCount(len(msg.Selection))
		a.switchTo(messages.ViewTarget)
		return a, a.targetView.Init()

	case messages.CloneRequested:
		req := msg.Request
		req.Selection = a.selection
		if a.state != nil {
			req.SourceSpace = a.state.SpaceKey
		}
		a.statusBar.SetState(status.StateCloning, "")
		a.switchTo(messages.ViewProgress)
		return a, a.progressView.Start(a.ctx, a.state, req)

	case messages.OutcomeReported:
		a.progressView, cmd = a.progressView.Update(msg)
		outcomes := a.progressView.Outcomes()
		a.statusBar.SetState(status.StateCloning,
			fmt.Sprintf("%d of %d pages", len(outcomes), len(a.selection)))
		return a, cmd

	case messages.CloneFinished:
		a.progressView, cmd = a.progressView.Update(msg)
		if msg.Err != nil {
			a.statusBar.SetState(status.StateError, msg.Err.Error())
		} else {
			a.statusBar.SetState(status.StateDone, "")
		}
		return a, cmd

	case messages.ConfigReloaded:
		a.applySettings()
		a.statusBar.SetState(status.StateReady, "Configuration reloaded")
		return a, nil

	case messages.ErrorOccurred:
		a.statusBar.SetState(status.StateError, msg.Err.Error())
		return a, nil
	}

	// Cursor blink and other view-internal messages.
	switch a.currentView {
	case messages.ViewLoad:
		a.loadView, cmd = a.loadView.Update(msg)
	case messages.ViewTarget:
		a.targetView, cmd = a.targetView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	k := msg.String()

	if k == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewLoad:
		a.loadView, cmd = a.loadView.Update(msg)

	case messages.ViewTarget:
		a.targetView, cmd = a.targetView.Update(msg)

	case messages.ViewTree:
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(k, a.keymap.Help):
			a.switchTo(messages.ViewHelp)
			return a, nil
		}
		a.treeView, cmd = a.treeView.Update(msg)

	case messages.ViewProgress:
		if keymap.Matches(k, a.keymap.Quit) && !a.progressView.Running() {
			return a, tea.Quit
		}
		a.progressView, cmd = a.progressView.Update(msg)

	case messages.ViewHelp:
		a.switchTo(a.previousView)
	}
	return a, cmd
}

// switchTo changes the active view and the status bar hints.
func (a *App) switchTo(view messages.ViewType) {
	a.previousView = a.currentView
	a.currentView = view

	switch view {
	case messages.ViewLoad, messages.ViewTarget:
		a.statusBar.SetBindings(a.keymap.FormHelp())
	case messages.ViewTree:
		a.statusBar.SetBindings(a.keymap.TreeHelp())
	default:
		a.statusBar.SetBindings(nil)
	}
}

// loadTree returns a command loading the tree in the background.
func (a *App) loadTree(req messages.LoadRequested) tea.Cmd {
	ctx := a.ctx
	svc := a.ports.Tree
	return func() tea.Msg {
		state, err := svc.Load(ctx, req.SpaceKey, req.RootPageID)
		return messages.TreeLoaded{State: state, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewTree:
		body = a.treeView.View()
	case messages.ViewTarget:
		body = a.targetView.View()
	case messages.ViewProgress:
		body = a.progressView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.loadView.View()
	}

	// Pin the status bar to the bottom line.
	lines := strings.Count(body, "\n") + 1
	padding := a.height - lines - 1
	if padding < 1 {
		padding = 1
	}
	return body + strings.Repeat("\n", padding) + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("Selecting a page does not select its children."))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[any key] back"))
	return b.String()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// State returns the loaded tree, nil before the first load.
func (a *App) State() *domain.TreeState {
	return a.state
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.loadView.SetDimensions(width, height)
	a.treeView.SetDimensions(width, height-2)
	a.targetView.SetDimensions(width, height)
	a.progressView.SetDimensions(width, height-2)
	a.statusBar.SetWidth(width)
}
