package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

var validate = validator.New()

// maxSeriesOccurrences caps how many productions one recurrence rule
// may create.
const maxSeriesOccurrences = 52

// ProductionRequest is the producer's input for a new production.
type ProductionRequest struct {
	Name            string `validate:"required"`
	Date            time.Time
	CallTime        time.Time
	StartTime       time.Time
	EndTime         time.Time
	Venue           string `validate:"required"`
	LocationDetails string
	Notes           string

	// Requirements maps each needed crew role to a head count.
	Requirements map[model.CrewRole]int

	// Recurrence is an optional RRULE string. When set, one production
	// is created per occurrence (capped), all sharing a series id.
	Recurrence  string
	Occurrences int // occurrences to expand when Recurrence is set, defaults to 4
}

// RequestResult reports the productions created by one request.
type RequestResult struct {
	Productions []model.Production
	SeriesID    string // empty unless a recurrence was requested
}

// RequestProduction validates a producer's request and creates the
// production document(s) plus their crew requirements, then notifies
// every booking officer. Only producers may request productions.
func RequestProduction(
	ctx context.Context,
	session Session,
	productions db.ProductionStore,
	requirements db.RequirementStore,
	users db.UserStore,
	notifier *Notifier,
	logger *zap.Logger,
	request ProductionRequest,
) (*RequestResult, error) {
	if err := requireRole(session, model.RoleProducer); err != nil {
		return nil, err
	}

	if err := validateRequest(request); err != nil {
		return nil, err
	}

	logger.Info("Requesting production",
		zap.String("name", request.Name),
		zap.String("producer_id", session.UserID),
		zap.Time("date", request.Date))

	dates, seriesID, err := expandDates(request)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &RequestResult{SeriesID: seriesID}

	for _, date := range dates {
		production := model.Production{
			Name:            request.Name,
			Date:            date,
			CallTime:        onDate(date, request.CallTime),
			StartTime:       onDate(date, request.StartTime),
			EndTime:         onDate(date, request.EndTime),
			Venue:           request.Venue,
			LocationDetails: request.LocationDetails,
			Status:          model.StatusRequested,
			RequestedBy:     session.UserID,
			Notes:           request.Notes,
			SeriesID:        seriesID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := productions.InsertProduction(ctx, &production); err != nil {
			return nil, fmt.Errorf("failed to create production: %w", err)
		}

		reqs := make([]model.Requirement, 0, len(request.Requirements))
		for _, role := range model.CrewRoles {
			count := request.Requirements[role]
			if count <= 0 {
				continue
			}
			reqs = append(reqs, model.Requirement{
				ProductionID: production.ID,
				Role:         role,
				Count:        count,
			})
		}
		if len(reqs) > 0 {
			if err := requirements.InsertRequirements(ctx, reqs); err != nil {
				return nil, fmt.Errorf("failed to create requirements: %w", err)
			}
		}

		result.Productions = append(result.Productions, production)
	}

	logger.Info("Production request created",
		zap.Int("productions", len(result.Productions)),
		zap.String("series_id", seriesID))

	// Notify booking officers of the new request. Notification failures
	// after the productions exist are logged, not returned: the request
	// itself has succeeded.
	officers, err := users.ListUsersByRole(ctx, model.RoleBookingOfficer)
	if err != nil {
		logger.Warn("Failed to list booking officers for notification", zap.Error(err))
		return result, nil
	}
	first := result.Productions[0]
	body := fmt.Sprintf("%s requested %q on %s", session.Name, first.Name, first.Date.Format("2006-01-02"))
	if len(result.Productions) > 1 {
		body = fmt.Sprintf("%s requested %q, %d dates starting %s",
			session.Name, first.Name, len(result.Productions), first.Date.Format("2006-01-02"))
	}
	for _, officer := range officers {
		if err := notifier.Notify(ctx, officer.ID, model.NotificationRequest, "New production request", body, first.ID); err != nil {
			logger.Warn("Failed to notify booking officer",
				zap.String("officer_id", officer.ID),
				zap.Error(err))
		}
	}

	return result, nil
}

func validateRequest(request ProductionRequest) error {
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("invalid production request: %w", err)
	}
	if request.Date.IsZero() {
		return fmt.Errorf("invalid production request: date is required")
	}
	if !request.EndTime.IsZero() && !request.StartTime.IsZero() && !request.EndTime.After(request.StartTime) {
		return fmt.Errorf("invalid production request: end time must be after start time")
	}
	for role, count := range request.Requirements {
		if !role.IsValid() {
			return fmt.Errorf("invalid production request: unknown crew role %q", role)
		}
		if count < 0 {
			return fmt.Errorf("invalid production request: negative count for role %q", role)
		}
	}
	return nil
}

// expandDates returns the calendar dates to create productions on. A
// plain request yields its single date; a recurrence expands the RRULE
// from the request date, capped at maxSeriesOccurrences.
func expandDates(request ProductionRequest) ([]time.Time, string, error) {
	if request.Recurrence == "" {
		return []time.Time{request.Date}, "", nil
	}

	rule, err := rrule.StrToRRule(request.Recurrence)
	if err != nil {
		return nil, "", fmt.Errorf("invalid recurrence rule: %w", err)
	}
	rule.DTStart(request.Date)

	occurrences := request.Occurrences
	if occurrences <= 0 {
		occurrences = 4
	}
	if occurrences > maxSeriesOccurrences {
		occurrences = maxSeriesOccurrences
	}

	all := rule.All()
	if len(all) == 0 {
		return nil, "", fmt.Errorf("recurrence rule produced no occurrences")
	}
	if len(all) > occurrences {
		all = all[:occurrences]
	}

	return all, uuid.New().String(), nil
}

// onDate rebases a clock time onto a calendar date, keeping zero values
// zero.
func onDate(date, clock time.Time) time.Time {
	if clock.IsZero() {
		return clock
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}
