package db

import (
	"context"
	"time"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// ProductionStore defines the interface for production document operations
type ProductionStore interface {
	GetProduction(ctx context.Context, id string) (*model.Production, error)
	ListProductions(ctx context.Context) ([]model.Production, error)
	InsertProduction(ctx context.Context, production *model.Production) error
	UpdateProductionStatus(ctx context.Context, id string, status model.ProductionStatus, actorID string, at time.Time) error
}

// RequirementStore defines the interface for crew requirement operations
type RequirementStore interface {
	GetRequirementsByProduction(ctx context.Context, productionID string) ([]model.Requirement, error)
	InsertRequirements(ctx context.Context, requirements []model.Requirement) error
}

// UserStore defines the interface for the user directory
type UserStore interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListOperatorsBySpecialization(ctx context.Context, specialization model.CrewRole) ([]model.User, error)
	ListUsersByRole(ctx context.Context, role model.UserRole) ([]model.User, error)
	SetPushToken(ctx context.Context, userID, token string) error
}

// AssignmentStore defines the interface for assignment document operations
type AssignmentStore interface {
	GetAssignment(ctx context.Context, id string) (*model.Assignment, error)
	GetAssignmentsByProduction(ctx context.Context, productionID string) ([]model.Assignment, error)
	GetAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error)
	InsertAssignment(ctx context.Context, assignment *model.Assignment) error
	DeleteAssignment(ctx context.Context, id string) error
	UpdateAssignmentStatus(ctx context.Context, id string, status model.AssignmentStatus) error
}

// NotificationStore defines the interface for notification records
type NotificationStore interface {
	InsertNotification(ctx context.Context, notification *model.Notification) error
	ListNotificationsForUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
