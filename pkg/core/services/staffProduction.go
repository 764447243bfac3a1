package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/core/staffing"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

// StaffingView is everything a staffing session needs: the production,
// one role sheet per requirement, and the draft seeded from the
// persisted assignments.
type StaffingView struct {
	Production model.Production
	Sheets     []staffing.RoleSheet
	Draft      []staffing.DraftAssignment

	// Names maps user id to display name for everyone on the sheets,
	// assigned entries included. Operators whose lookup fails are
	// absent; callers fall back to the id.
	Names map[string]string
}

// BuildStaffingView loads a production's requirements, fetches the
// operator directory per required specialization, and partitions
// operators into assigned/available buckets against the given draft.
// A nil draft is seeded from the persisted assignment set.
func BuildStaffingView(
	ctx context.Context,
	productions db.ProductionStore,
	requirements db.RequirementStore,
	users db.UserStore,
	assignments db.AssignmentStore,
	logger *zap.Logger,
	productionID string,
	draft []staffing.DraftAssignment,
) (*StaffingView, error) {
	production, err := productions.GetProduction(ctx, productionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch production: %w", err)
	}

	if draft == nil {
		persisted, err := assignments.GetAssignmentsByProduction(ctx, productionID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch assignments: %w", err)
		}
		draft = staffing.DraftFromPersisted(persisted)
	}

	required, err := requirements.GetRequirementsByProduction(ctx, productionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requirements: %w", err)
	}

	logger.Debug("Building staffing view",
		zap.String("production_id", productionID),
		zap.Int("requirements", len(required)),
		zap.Int("draft_entries", len(draft)))

	view := &StaffingView{Production: *production, Draft: draft, Names: map[string]string{}}
	for _, requirement := range required {
		operators, err := users.ListOperatorsBySpecialization(ctx, requirement.Role)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch operators for role %s: %w", requirement.Role, err)
		}
		for _, operator := range operators {
			view.Names[operator.ID] = operator.Name
		}
		view.Sheets = append(view.Sheets, staffing.BuildRoleSheet(requirement, operators, draft))
	}

	// Draft entries are not in the per-role operator lists, so resolve
	// their names directly.
	for _, entry := range draft {
		if _, ok := view.Names[entry.UserID]; ok {
			continue
		}
		operator, err := users.GetUser(ctx, entry.UserID)
		if err != nil {
			logger.Warn("Failed to resolve assigned operator name",
				zap.String("user_id", entry.UserID),
				zap.Error(err))
			continue
		}
		view.Names[operator.ID] = operator.Name
	}

	return view, nil
}

// SaveResult reports what a save-assignments call wrote.
type SaveResult struct {
	Created int
	Deleted int
	Kept    int
}

// SaveAssignments reconciles a staffing draft against the persisted
// assignment set, fetched fresh at save time, and applies the resulting
// creates and deletes. Each created assignment also notifies its
// operator. All writes run concurrently with no ordering guarantee and
// no rollback: on failure the first error is returned and writes that
// already completed stay written. The diff is keyed by (userID, role),
// so retrying a failed save converges instead of duplicating.
func SaveAssignments(
	ctx context.Context,
	session Session,
	productions db.ProductionStore,
	assignments db.AssignmentStore,
	notifier *Notifier,
	logger *zap.Logger,
	productionID string,
	draft []staffing.DraftAssignment,
) (*SaveResult, error) {
	if err := requireRole(session, model.RoleBookingOfficer); err != nil {
		return nil, err
	}

	production, err := productions.GetProduction(ctx, productionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch production: %w", err)
	}

	persisted, err := assignments.GetAssignmentsByProduction(ctx, productionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	changes := staffing.Reconcile(productionID, session.UserID, draft, persisted)

	logger.Info("Saving assignments",
		zap.String("production_id", productionID),
		zap.Int("creates", len(changes.Creates)),
		zap.Int("deletes", len(changes.Deletes)),
		zap.Int("keeps", len(changes.Keeps)))

	if changes.Empty() {
		return &SaveResult{Kept: len(changes.Keeps)}, nil
	}

	body := fmt.Sprintf("You have been assigned to %q on %s",
		production.Name, production.Date.Format("2006-01-02"))

	group, groupCtx := errgroup.WithContext(ctx)

	for _, create := range changes.Creates {
		assignment := create
		group.Go(func() error {
			if err := assignments.InsertAssignment(groupCtx, &assignment); err != nil {
				return fmt.Errorf("failed to create assignment for %s: %w", assignment.UserID, err)
			}
			if err := notifier.Notify(groupCtx, assignment.UserID, model.NotificationAssignment, "New assignment", body, productionID); err != nil {
				return err
			}
			return nil
		})
	}

	for _, remove := range changes.Deletes {
		assignment := remove
		group.Go(func() error {
			if err := assignments.DeleteAssignment(groupCtx, assignment.ID); err != nil {
				return fmt.Errorf("failed to delete assignment %s: %w", assignment.ID, err)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to save assignments: %w", err)
	}

	logger.Info("Assignments saved",
		zap.String("production_id", productionID),
		zap.Int("created", len(changes.Creates)),
		zap.Int("deleted", len(changes.Deletes)))

	return &SaveResult{
		Created: len(changes.Creates),
		Deleted: len(changes.Deletes),
		Kept:    len(changes.Keeps),
	}, nil
}
