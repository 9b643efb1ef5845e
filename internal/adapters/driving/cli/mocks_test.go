package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/confclone/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

type mockSettingsService struct {
	settings domain.AppSettings
	set      map[string]string
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"confluence.base_url", "confluence.api_token", "target.space_key"}
}

type mockTreeService struct {
	state    *domain.TreeState
	err      error
	spaceKey string
	rootID   string
}

func (m *mockTreeService) Load(_ context.Context, spaceKey, rootPageID string) (*domain.TreeState, error) {
	m.spaceKey, m.rootID = spaceKey, rootPageID
	if m.err != nil {
		return nil, m.err
	}
	return m.state, nil
}

// mockCloneOrchestrator reports every page of report through progress.
type mockCloneOrchestrator struct {
	req    domain.CloneRequest
	report *domain.RunReport
	err    error
	called bool
}

func (m *mockCloneOrchestrator) Clone(
	_ context.Context, _ *domain.TreeState, req domain.CloneRequest, progress driving.ProgressFunc,
) (*domain.RunReport, error) {
	m.called = true
	m.req = req
	if m.err != nil {
		return m.report, m.err
	}
	for _, o := range m.report.Pages {
		if progress != nil {
			progress(o)
		}
	}
	return m.report, nil
}

type mockRunService struct {
	runs []domain.RunReport
}

func (m *mockRunService) Get(_ context.Context, id string) (*domain.RunReport, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunService) List(_ context.Context, limit int) ([]domain.RunReport, error) {
	if limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

type mockPageService struct {
	preview *driving.PagePreview
	err     error
}

func (m *mockPageService) Preview(_ context.Context, _ string) (*driving.PagePreview, error) {
	return m.preview, m.err
}

// testMocks are the services installed by installMocks.
type testMocks struct {
	settings *mockSettingsService
	tree     *mockTreeService
	clone    *mockCloneOrchestrator
	runs     *mockRunService
	pages    *mockPageService
}

// testTree is Home(1) -> [Child(2) -> Leaf(3)], plus Other(4).
func testTree() *domain.TreeState {
	leaf := &domain.PageNode{ID: "3", Title: "Leaf", ParentID: "2"}
	child := &domain.PageNode{ID: "2", Title: "Child", ParentID: "1", Children: []*domain.PageNode{leaf}}
	home := &domain.PageNode{ID: "1", Title: "Home", Children: []*domain.PageNode{child}}
	other := &domain.PageNode{ID: "4", Title: "Other"}
	return &domain.TreeState{
		SpaceKey:  "OPS",
		PageCount: 4,
		Roots:     []*domain.PageNode{home, other},
		Index:     map[string]*domain.PageNode{"1": home, "2": child, "3": leaf, "4": other},
	}
}

// installMocks replaces the package services with mocks.
// The returned func restores the previous services.
func installMocks() (*testMocks, func()) {
	m := &testMocks{
		settings: &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}},
		tree:     &mockTreeService{state: testTree()},
		clone:    &mockCloneOrchestrator{report: &domain.RunReport{ID: "run-1", Status: domain.RunStatusCompleted}},
		runs:     &mockRunService{},
		pages:    &mockPageService{},
	}

	old := &Services{
		Settings:    settingsService,
		Tree:        treeService,
		Clone:       cloneOrchestrator,
		Runs:        runService,
		Pages:       pageService,
		Sessions:    sessionStore,
		WatchConfig: watchConfig,
	}
	SetServices(&Services{
		Settings: m.settings,
		Tree:     m.tree,
		Clone:    m.clone,
		Runs:     m.runs,
		Pages:    m.pages,
		Sessions: memory.NewSessionStore(),
	})
	return m, func() { SetServices(old) }
}

// setupTestServices installs mock services and returns a restore func.
func setupTestServices() func() {
	_, cleanup := installMocks()
	return cleanup
}

// resetFlags restores every flag to its default so values do not leak
// between executions of the shared root command.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil) //nolint:errcheck
		} else {
			f.Value.Set(f.DefValue) //nolint:errcheck
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	var in io.Reader = strings.NewReader(stdin)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
