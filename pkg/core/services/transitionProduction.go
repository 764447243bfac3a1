package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

// ErrInvalidTransition is returned when the status state machine does
// not allow the requested move.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrNoAssignments is returned when confirming a production that has no
// crew assigned.
var ErrNoAssignments = errors.New("cannot confirm a production with no assignments")

// TransitionProduction moves a production through its status state
// machine as a booking officer action. The status write happens first;
// the dependent notifications are issued sequentially afterwards, and
// their failures are logged rather than returned once the status has
// changed.
//
// Confirmation requires at least one assignment and additionally
// notifies every assigned operator. Cancellation notifies the producer
// and one notification per assignment, all with type cancellation.
func TransitionProduction(
	ctx context.Context,
	session Session,
	productions db.ProductionStore,
	assignments db.AssignmentStore,
	notifier *Notifier,
	logger *zap.Logger,
	productionID string,
	to model.ProductionStatus,
) error {
	if err := requireRole(session, model.RoleBookingOfficer); err != nil {
		return err
	}

	production, err := productions.GetProduction(ctx, productionID)
	if err != nil {
		return fmt.Errorf("failed to fetch production: %w", err)
	}

	if !model.CanTransition(production.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, production.Status, to)
	}

	crew, err := assignments.GetAssignmentsByProduction(ctx, productionID)
	if err != nil {
		return fmt.Errorf("failed to fetch assignments: %w", err)
	}

	if to == model.StatusConfirmed && len(crew) == 0 {
		return ErrNoAssignments
	}

	logger.Info("Transitioning production",
		zap.String("production_id", productionID),
		zap.String("from", string(production.Status)),
		zap.String("to", string(to)),
		zap.String("actor_id", session.UserID))

	if err := productions.UpdateProductionStatus(ctx, productionID, to, session.UserID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update production status: %w", err)
	}

	notificationType, title := transitionNotification(to)
	body := fmt.Sprintf("%q on %s is now %s",
		production.Name, production.Date.Format("2006-01-02"), model.DisplayFor(to).Label)

	// Producer first, then operators where the transition concerns them.
	if err := notifier.Notify(ctx, production.RequestedBy, notificationType, title, body, productionID); err != nil {
		logger.Warn("Failed to notify producer",
			zap.String("producer_id", production.RequestedBy),
			zap.Error(err))
	}

	if to == model.StatusConfirmed || to == model.StatusCancelled {
		for _, assignment := range crew {
			if err := notifier.Notify(ctx, assignment.UserID, notificationType, title, body, productionID); err != nil {
				logger.Warn("Failed to notify operator",
					zap.String("operator_id", assignment.UserID),
					zap.Error(err))
			}
		}
	}

	logger.Info("Production transitioned",
		zap.String("production_id", productionID),
		zap.String("status", string(to)))

	return nil
}

func transitionNotification(to model.ProductionStatus) (model.NotificationType, string) {
	switch to {
	case model.StatusConfirmed:
		return model.NotificationConfirmation, "Production confirmed"
	case model.StatusCancelled:
		return model.NotificationCancellation, "Production cancelled"
	case model.StatusInProgress:
		return model.NotificationStatusChange, "Production started"
	case model.StatusCompleted:
		return model.NotificationStatusChange, "Production completed"
	default:
		return model.NotificationStatusChange, "Production updated"
	}
}
