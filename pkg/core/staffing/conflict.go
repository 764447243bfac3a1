package staffing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// Conflict describes a double-booking: another production on the same
// calendar day already holds an assignment for the operator.
type Conflict struct {
	Production model.Production
	Assignment model.Assignment
}

// ConflictStore defines the store operations needed by CheckConflict
type ConflictStore interface {
	GetAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error)
	GetProduction(ctx context.Context, id string) (*model.Production, error)
}

// CheckConflict scans an operator's existing assignments, excluding any
// tied to the target production, and returns the first one whose
// production falls on the same calendar day as date. Comparison is
// day-granularity, not time-range overlap: same-day bookings with
// disjoint time windows still warn, which is a deliberately
// conservative prompt the booking officer can override.
//
// Conflict detection fails open: if any fetch fails the error is logged
// and nil is returned, so a store outage never blocks staffing.
func CheckConflict(ctx context.Context, store ConflictStore, logger *zap.Logger, operatorID, productionID string, date time.Time) *Conflict {
	assignments, err := store.GetAssignmentsByUser(ctx, operatorID)
	if err != nil {
		logger.Warn("Conflict check failed to fetch assignments, skipping",
			zap.String("operator_id", operatorID),
			zap.Error(err))
		return nil
	}

	for _, assignment := range assignments {
		if assignment.ProductionID == productionID {
			continue
		}

		production, err := store.GetProduction(ctx, assignment.ProductionID)
		if err != nil {
			logger.Warn("Conflict check failed to fetch production, skipping",
				zap.String("production_id", assignment.ProductionID),
				zap.Error(err))
			continue
		}

		if model.SameCalendarDay(production.Date, date) {
			return &Conflict{
				Production: *production,
				Assignment: assignment,
			}
		}
	}

	return nil
}
