package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

// ErrNotYourAssignment is returned when an operator responds to an
// assignment held by someone else.
var ErrNotYourAssignment = errors.New("assignment belongs to another operator")

// ErrAlreadyResponded is returned when responding to an assignment that
// is no longer pending. There is no transition back to pending.
var ErrAlreadyResponded = errors.New("assignment has already been responded to")

// RespondAssignment records an operator's accept or decline on a
// pending assignment and notifies the booking officer who staffed it
// (falling back to the requesting producer).
func RespondAssignment(
	ctx context.Context,
	session Session,
	assignments db.AssignmentStore,
	productions db.ProductionStore,
	notifier *Notifier,
	logger *zap.Logger,
	assignmentID string,
	accept bool,
) error {
	if err := requireRole(session, model.RoleOperator); err != nil {
		return err
	}

	assignment, err := assignments.GetAssignment(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to fetch assignment: %w", err)
	}

	if assignment.UserID != session.UserID {
		return ErrNotYourAssignment
	}
	if assignment.Status != model.AssignmentPending {
		return fmt.Errorf("%w: status is %s", ErrAlreadyResponded, assignment.Status)
	}

	status := model.AssignmentDeclined
	if accept {
		status = model.AssignmentAccepted
	}

	logger.Info("Responding to assignment",
		zap.String("assignment_id", assignmentID),
		zap.String("operator_id", session.UserID),
		zap.String("response", string(status)))

	if err := assignments.UpdateAssignmentStatus(ctx, assignmentID, status); err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	production, err := productions.GetProduction(ctx, assignment.ProductionID)
	if err != nil {
		logger.Warn("Response recorded but production lookup failed, skipping notification",
			zap.String("production_id", assignment.ProductionID),
			zap.Error(err))
		return nil
	}

	recipient := assignment.AssignedBy
	if recipient == "" {
		recipient = production.RequestedBy
	}

	verb := "declined"
	if accept {
		verb = "accepted"
	}
	body := fmt.Sprintf("%s %s the %s assignment on %q (%s)",
		session.Name, verb, assignment.Role, production.Name, production.Date.Format("2006-01-02"))

	if err := notifier.Notify(ctx, recipient, model.NotificationResponse, "Assignment response", body, production.ID); err != nil {
		logger.Warn("Failed to notify about assignment response",
			zap.String("recipient_id", recipient),
			zap.Error(err))
	}

	return nil
}
