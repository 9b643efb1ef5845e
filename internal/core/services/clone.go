package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/core/ports/driving"
	"github.com/custodia-labs/confclone/internal/logger"
)

// Ensure CloneOrchestrator implements the interface.
var _ driving.CloneOrchestrator = (*CloneOrchestrator)(nil)

// untitled is used when the source page has no title.
const untitled = "Untitled"

// CloneOrchestrator walks a selection of a page tree and clones it onto a target parent.
// Execution is strictly sequential: every gateway call blocks the walk.
type CloneOrchestrator struct {
	gateway  driven.ContentGateway
	runStore driven.RunStore
}

// NewCloneOrchestrator creates a new clone orchestrator.
// runStore is optional - if nil, runs are not recorded.
func NewCloneOrchestrator(gateway driven.ContentGateway, runStore driven.RunStore) *CloneOrchestrator {
	return &CloneOrchestrator{
		gateway:  gateway,
		runStore: runStore,
	}
}

// cloneRun is the ephemeral context of one clone run.
type cloneRun struct {
	req      domain.CloneRequest
	sub      *Substitution
	state    *domain.TreeState
	report   *domain.RunReport
	progress driving.ProgressFunc
}

// Clone walks every root of state in pre-order and clones the selected pages.
func (o *CloneOrchestrator) Clone(
	ctx context.Context,
	state *domain.TreeState,
	req domain.CloneRequest,
	progress driving.ProgressFunc,
) (*domain.RunReport, error) {
	if err := validateCloneRequest(state, &req); err != nil {
		return nil, err
	}

	report := &domain.RunReport{
		ID:             uuid.New().String(),
		SourceSpace:    req.SourceSpace,
		TargetSpace:    req.TargetSpace,
		TargetParentID: req.TargetParentID,
		Pattern:        req.Pattern,
		Replacement:    req.Replacement,
		Status:         domain.RunStatusRunning,
		StartedAt:      time.Now(),
	}

	// Validation happens before the walk so a bad replacement never reaches the gateway.
	sub, err := CompileSubstitution(req.Pattern, req.Replacement)
	if err != nil {
		o.finish(ctx, report, err)
		return report, err
	}

	run := &cloneRun{
		req:      req,
		sub:      sub,
		state:    state,
		report:   report,
		progress: progress,
	}

	logger.Section("Clone")
	logger.Info("Cloning %d selected pages from %s to %s under %s",
		len(req.Selection), req.SourceSpace, req.TargetSpace, req.TargetParentID)

	for _, root := range state.Roots {
		if err := o.walk(ctx, run, root.ID, req.TargetParentID); err != nil {
			o.finish(ctx, report, err)
			return report, err
		}
	}

	o.finish(ctx, report, nil)
	logger.Info("Clone complete: %d created, %d failed", report.Created(), report.Failed())
	return report, nil
}

// walk visits nodeID in pre-order. Unselected nodes are pass-throughs:
// their children are still visited with the parent in effect above them.
func (o *CloneOrchestrator) walk(ctx context.Context, run *cloneRun, nodeID, currentParent string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	node, ok := run.state.Node(nodeID)
	if !ok {
		return nil
	}

	nextParent := currentParent
	if run.req.Selection.Has(nodeID) {
		if newID := o.syncOne(ctx, run, nodeID, currentParent); newID != "" {
			nextParent = newID
		}
	}

	for _, child := range node.Children {
		if err := o.walk(ctx, run, child.ID, nextParent); err != nil {
			return err
		}
	}
	return nil
}

// syncOne clones a single page under targetParentID and returns the new page id,
// or "" when the page failed. Failures are recorded in the run report.
func (o *CloneOrchestrator) syncOne(ctx context.Context, run *cloneRun, sourceID, targetParentID string) string {
	outcome := domain.PageOutcome{
		SourceID:       sourceID,
		TargetParentID: targetParentID,
	}
	if node, ok := run.state.Node(sourceID); ok {
		outcome.Title = node.Title
	}

	newID, restrictions, err := o.clonePage(ctx, run, &outcome)
	if err != nil {
		outcome.Status = domain.PageStatusFailed
		outcome.Err = err.Error()
		logger.Warn("Clone of page %s failed: %v", sourceID, err)
		o.record(run, outcome)
		return ""
	}

	outcome.NewID = newID
	outcome.Status = domain.PageStatusCreated
	outcome.Restrictions = applyRestrictions(ctx, o.gateway, newID, restrictions)
	o.record(run, outcome)
	return newID
}

// clonePage performs the fetch, substitution and copy/create steps for one page.
// It returns the new page id and the source page's restrictions.
func (o *CloneOrchestrator) clonePage(
	ctx context.Context,
	run *cloneRun,
	outcome *domain.PageOutcome,
) (string, *domain.Restrictions, error) {
	page, err := o.gateway.GetPage(ctx, outcome.SourceID)
	if err != nil {
		return "", nil, fmt.Errorf("fetch page: %w", err)
	}

	rawTitle := page.Title
	if rawTitle == "" {
		rawTitle = untitled
	}
	title := run.sub.Apply(rawTitle)
	body := run.sub.Apply(page.Body)
	outcome.Title = title

	if run.req.SameSpace() {
		outcome.Mode = domain.CloneModeCopy
		logger.Debug("Copying %s (%s) under %s", outcome.SourceID, title, outcome.TargetParentID)

		copied, err := o.gateway.CopyPage(ctx, outcome.SourceID, outcome.TargetParentID, driven.CopyOptions{})
		if err != nil {
			return "", nil, fmt.Errorf("copy page: %w", err)
		}
		if copied == nil || copied.ID == "" {
			return "", nil, domain.ErrNoPageID
		}
		outcome.NewID = copied.ID

		// The copy keeps the source title, so a substituted title needs a follow-up write.
		if title != rawTitle {
			if _, err := o.gateway.UpdateTitle(ctx, copied.ID, title); err != nil {
				return "", nil, fmt.Errorf("update title: %w", err)
			}
			outcome.TitleUpdated = true
		}
		return copied.ID, page.Restrictions, nil
	}

	outcome.Mode = domain.CloneModeCreate
	logger.Debug("Creating %s in %s under %s", title, run.req.TargetSpace, outcome.TargetParentID)

	created, err := o.gateway.CreatePage(ctx, run.req.TargetSpace, outcome.TargetParentID, title, body)
	if err != nil {
		return "", nil, fmt.Errorf("create page: %w", err)
	}
	if created == nil || created.ID == "" {
		return "", nil, domain.ErrNoPageID
	}
	return created.ID, page.Restrictions, nil
}

// record appends an outcome to the report and notifies the progress callback.
func (o *CloneOrchestrator) record(run *cloneRun, outcome domain.PageOutcome) {
	run.report.Pages = append(run.report.Pages, outcome)
	if run.progress != nil {
		run.progress(outcome)
	}
}

// finish stamps the report and stores it. Storage failures are logged only.
func (o *CloneOrchestrator) finish(ctx context.Context, report *domain.RunReport, err error) {
	report.FinishedAt = time.Now()
	report.Status = domain.RunStatusCompleted
	if err != nil {
		report.Status = domain.RunStatusAborted
		report.Err = err.Error()
		logger.Error("Clone aborted: %v", err)
	}

	if o.runStore == nil {
		return
	}
	// The run context may already be cancelled; the record is still wanted.
	saveCtx := context.WithoutCancel(ctx)
	if err := o.runStore.Save(saveCtx, *report); err != nil {
		logger.Warn("Failed to record run %s: %v", report.ID, err)
	}
}

// validateCloneRequest checks the inputs the clone needs before any remote call.
func validateCloneRequest(state *domain.TreeState, req *domain.CloneRequest) error {
	if state == nil || len(state.Roots) == 0 {
		return domain.ErrTreeNotLoaded
	}
	if len(req.Selection) == 0 {
		return domain.ErrEmptySelection
	}

	req.TargetSpace = strings.TrimSpace(req.TargetSpace)
	req.TargetParentID = strings.TrimSpace(req.TargetParentID)
	var missing []string
	if req.TargetSpace == "" {
		missing = append(missing, "target space key")
	}
	if req.TargetParentID == "" {
		missing = append(missing, "target parent page id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", domain.ErrInvalidInput, strings.Join(missing, " and "))
	}
	if req.SourceSpace == "" {
		req.SourceSpace = state.SpaceKey
	}
	return nil
}

// IsAborted reports whether err ended a clone run early.
func IsAborted(err error) bool {
	return domain.IsFatal(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
