package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

func TestCloneCmd_Flags(t *testing.T) {
	for _, name := range []string{"space", "root", "target-space", "target-parent", "pattern", "replacement", "select", "all"} {
		assert.NotNil(t, cloneCmd.Flags().Lookup(name), name)
	}
}

func TestCloneCmd_SelectOrAll(t *testing.T) {
	_, cleanup := installMocks()
	defer cleanup()

	tests := []struct {
		name string
		args []string
	}{
		{"neither", []string{"clone", "--space", "OPS"}},
		{"both", []string{"clone", "--space", "OPS", "--all", "--select", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "pass either --select or --all")
		})
	}
}

func TestCloneCmd_RequiresTarget(t *testing.T) {
	m, cleanup := installMocks()
	defer cleanup()

	_, err := execute(t, "", "clone", "--space", "OPS", "--select", "1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "target space and target parent page id are required")
	assert.False(t, m.clone.called)
}

func TestCloneCmd_ClonesSelection(t *testing.T) {
	m, cleanup := installMocks()
	defer cleanup()
	m.clone.report.Pages = []domain.PageOutcome{
		{SourceID: "1", Title: "Home", NewID: "101", Mode: domain.CloneModeCreate, Status: domain.PageStatusCreated},
		{SourceID: "3", Title: "Leaf", NewID: "103", Mode: domain.CloneModeCreate, Status: domain.PageStatusCreated,
			Restrictions: []domain.RestrictionOutcome{{Operation: domain.RestrictionUpdate, Err: "forbidden"}}},
	}

	out, err := execute(t, "", "clone",
		"--space", "OPS",
		"--select", "1,3",
		"--target-space", "DOCS",
		"--target-parent", "900",
		"--pattern", "A-Draft",
		"--replacement", "A-Final",
	)

	require.NoError(t, err)
	req := m.clone.req
	assert.Equal(t, "DOCS", req.TargetSpace)
	assert.Equal(t, "900", req.TargetParentID)
	assert.Equal(t, "A-Draft", req.Pattern)
	assert.Equal(t, "A-Final", req.Replacement)
	assert.Equal(t, domain.NewSelection("1", "3"), req.Selection)

	assert.Contains(t, out, "Cloning 2 pages from OPS into DOCS under 900")
	assert.Contains(t, out, "OK   Home (1) -> 101 [create]")
	assert.Contains(t, out, "warning: update restrictions not applied: forbidden")
	assert.Contains(t, out, "Run run-1: 2 created, 0 failed")
}

func TestCloneCmd_AllUsesSettingsDefaults(t *testing.T) {
	m, cleanup := installMocks()
	defer cleanup()
	m.settings.settings.Source.SpaceKey = "OPS"
	m.settings.settings.Target = domain.TargetSettings{SpaceKey: "OPS", ParentPageID: "500"}
	m.settings.settings.Substitution = domain.SubstitutionSettings{Pattern: "2024", Replacement: "2025"}

	_, err := execute(t, "", "clone", "--all")

	require.NoError(t, err)
	assert.Equal(t, "OPS", m.tree.spaceKey)
	assert.Equal(t, domain.NewSelection("1", "2", "3", "4"), m.clone.req.Selection)
	assert.Equal(t, "500", m.clone.req.TargetParentID)
	assert.Equal(t, "2024", m.clone.req.Pattern)
	assert.Equal(t, "2025", m.clone.req.Replacement)
}

func TestCloneCmd_EmptyPatternFlagOverridesSettings(t *testing.T) {
	m, cleanup := installMocks()
	defer cleanup()
	m.settings.settings.Target = domain.TargetSettings{SpaceKey: "OPS", ParentPageID: "500"}
	m.settings.settings.Substitution = domain.SubstitutionSettings{Pattern: "2024", Replacement: "2025"}

	_, err := execute(t, "", "clone", "--space", "OPS", "--select", "1", "--pattern", "")

	require.NoError(t, err)
	assert.Empty(t, m.clone.req.Pattern)
	assert.Equal(t, "2025", m.clone.req.Replacement)
}

func TestCloneCmd_FailedPagesReturnError(t *testing.T) {
	m, cleanup := installMocks()
	defer cleanup()
	m.clone.report.Pages = []domain.PageOutcome{
		{SourceID: "1", Title: "Home", Status: domain.PageStatusFailed, Err: "copy rejected"},
	}

	out, err := execute(t, "", "clone", "--space", "OPS", "--select", "1", "--target-space", "OPS", "--target-parent", "9")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 pages failed")
	assert.Contains(t, out, "FAIL Home (1): copy rejected")
}

func TestCloneCmd_FatalErrorAborts(t *testing.T) {
	m, cleanup := installMocks()
	defer cleanup()
	m.clone.err = domain.ErrInvalidReplacement

	_, err := execute(t, "", "clone", "--space", "OPS", "--select", "1",
		"--target-space", "OPS", "--target-parent", "9", "--replacement", "$1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidReplacement)
	assert.Contains(t, err.Error(), "clone aborted")
}
