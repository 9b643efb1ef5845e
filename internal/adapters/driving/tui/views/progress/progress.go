// Package progress provides the view that runs a clone and streams its outcomes.
package progress

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/confclone/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
)

// View runs one clone at a time and lists page outcomes as they arrive.
type View struct {
	styles   *styles.Styles
	clone    driving.CloneOrchestrator
	events   chan tea.Msg
	total    int
	outcomes []domain.PageOutcome
	report   *domain.RunReport
	err      error
	running  bool
	width    int
	height   int
}

// NewView creates a progress view driving clone.
func NewView(s *styles.Styles, clone driving.CloneOrchestrator) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, clone: clone, width: 80, height: 24}
}

// Start launches the clone in the background and returns the command that
// delivers its first event.
func (v *View) Start(ctx context.Context, state *domain.TreeState, req domain.CloneRequest) tea.Cmd {
	v.outcomes = nil
	v.report = nil
	v.err = nil
	v.total = len(req.Selection)
	v.running = true

	events := make(chan tea.Msg, 16)
	v.events = events

	go func() {
		defer close(events)
		report, err := v.clone.Clone(ctx, state, req, func(o domain.PageOutcome) {
			events <- messages.OutcomeReported{Outcome: o}
		})
		events <- messages.CloneFinished{Report: report, Err: err}
	}()

	return v.wait()
}

// wait returns a command reading the next event of the running clone.
func (v *View) wait() tea.Cmd {
	events := v.events
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Update consumes clone events. Esc or enter returns to the tree once done.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.OutcomeReported:
		v.outcomes = append(v.outcomes, msg.Outcome)
		return v, v.wait()

	case messages.CloneFinished:
		v.running = false
		v.report = msg.Report
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		if v.running {
			return v, nil
		}
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewTree} }
		}
	}
	return v, nil
}

// View renders the outcome list, most recent at the bottom.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Cloning %d pages", v.total)
	if !v.running {
		title = "Clone finished"
		if v.err != nil {
			title = "Clone aborted"
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	lines := make([]string, 0, len(v.outcomes))
	for _, o := range v.outcomes {
		lines = append(lines, v.renderOutcome(o)...)
	}
	if limit := v.height - 8; limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case v.running:
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d of %d pages processed", len(v.outcomes), v.total)))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	case v.report != nil:
		summary := fmt.Sprintf("Run %s: %d created, %d failed", v.report.ID, v.report.Created(), v.report.Failed())
		if v.report.Failed() > 0 {
			b.WriteString(v.styles.Warning.Render(summary))
		} else {
			b.WriteString(v.styles.Success.Render(summary))
		}
	}
	if !v.running {
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] back to tree  [q] quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (v *View) renderOutcome(o domain.PageOutcome) []string {
	if o.Status == domain.PageStatusFailed {
		return []string{v.styles.Error.Render(fmt.Sprintf("✗ %s (%s): %s", o.Title, o.SourceID, o.Err))}
	}

	line := fmt.Sprintf("✓ %s → %s [%s]", o.Title, o.NewID, o.Mode)
	if o.TitleUpdated {
		line += " title updated"
	}
	lines := []string{v.styles.Success.Render(line)}
	for _, r := range o.Restrictions {
		if r.Err != "" {
			lines = append(lines, v.styles.Warning.Render(
				fmt.Sprintf("    %s restrictions not applied: %s", r.Operation, r.Err)))
		}
	}
	return lines
}

// Running reports whether a clone is in progress.
func (v *View) Running() bool {
	return v.running
}

// Outcomes returns the outcomes received so far.
func (v *View) Outcomes() []domain.PageOutcome {
	return v.outcomes
}

// Report returns the final report, nil while running.
func (v *View) Report() *domain.RunReport {
	return v.report
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
