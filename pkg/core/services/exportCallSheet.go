package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/db"
	"github.com/crewcall-tv/crewcall/pkg/export"
)

// ExportCallSheet resolves the crew for each production and writes an
// HTML call sheet to outPath. Operators that cannot be resolved appear
// by id rather than failing the export.
func ExportCallSheet(
	ctx context.Context,
	productions db.ProductionStore,
	assignments db.AssignmentStore,
	users db.UserStore,
	logger *zap.Logger,
	productionIDs []string,
	title, outPath string,
) error {
	if len(productionIDs) == 0 {
		return fmt.Errorf("no productions selected for export")
	}

	var entries []export.CallSheetEntry
	for _, id := range productionIDs {
		production, err := productions.GetProduction(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch production %s: %w", id, err)
		}

		crew, err := assignments.GetAssignmentsByProduction(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to fetch assignments for %s: %w", id, err)
		}

		entry := export.CallSheetEntry{Production: *production}
		for _, assignment := range crew {
			name := assignment.UserID
			if operator, err := users.GetUser(ctx, assignment.UserID); err == nil {
				name = operator.Name
			} else {
				logger.Warn("Operator lookup failed for call sheet, using id",
					zap.String("user_id", assignment.UserID),
					zap.Error(err))
			}
			entry.Crew = append(entry.Crew, export.CrewLine{
				Role:   assignment.Role,
				Name:   name,
				Status: assignment.Status,
			})
		}
		entries = append(entries, entry)
	}

	if err := export.WriteCallSheetFile(outPath, title, entries); err != nil {
		return err
	}

	logger.Info("Call sheet exported",
		zap.Int("productions", len(entries)),
		zap.String("path", outPath))

	return nil
}
