package services

import (
	"context"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
	"github.com/custodia-labs/confclone/internal/logger"
)

// applyRestrictions re-applies each restriction kind of the source page onto pageID.
// Kinds are written independently; a failure on one kind never stops the other
// and never fails the page.
func applyRestrictions(
	ctx context.Context,
	gateway driven.ContentGateway,
	pageID string,
	restrictions *domain.Restrictions,
) []domain.RestrictionOutcome {
	if restrictions == nil {
		return nil
	}

	outcomes := make([]domain.RestrictionOutcome, 0, len(domain.RestrictionOperations()))
	for _, op := range domain.RestrictionOperations() {
		principals := restrictions.For(op)
		outcome := domain.RestrictionOutcome{
			Operation:  op,
			Principals: len(principals.Users) + len(principals.Groups),
		}
		if principals.Empty() {
			outcome.Skipped = true
			outcomes = append(outcomes, outcome)
			continue
		}

		if err := gateway.ApplyRestrictions(ctx, pageID, op, principals); err != nil {
			outcome.Err = err.Error()
			logger.Warn("Restriction %s not applied to %s: %v", op, pageID, err)
		} else {
			outcome.Applied = true
			logger.Debug("Restriction %s applied to %s (%d principals)", op, pageID, outcome.Principals)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}
