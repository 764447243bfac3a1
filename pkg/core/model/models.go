// Package model holds the domain types shared by every layer: users,
// productions, crew requirements, assignments and notifications.
package model

import "time"

// UserRole is a user's application role.
type UserRole string

const (
	RoleProducer       UserRole = "producer"
	RoleBookingOfficer UserRole = "booking_officer"
	RoleOperator       UserRole = "operator"
)

// IsValid reports whether the role is one of the known application
// roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleProducer, RoleBookingOfficer, RoleOperator:
		return true
	}
	return false
}

// CrewRole is an operator specialization and, equally, a required role
// on a production.
type CrewRole string

const (
	CrewCamera      CrewRole = "camera"
	CrewSound       CrewRole = "sound"
	CrewLighting    CrewRole = "lighting"
	CrewEVS         CrewRole = "evs"
	CrewDirector    CrewRole = "director"
	CrewStream      CrewRole = "stream"
	CrewTechnician  CrewRole = "technician"
	CrewElectrician CrewRole = "electrician"
	CrewTransport   CrewRole = "transport"
)

// CrewRoles lists every crew role in display order.
var CrewRoles = []CrewRole{
	CrewCamera,
	CrewSound,
	CrewLighting,
	CrewEVS,
	CrewDirector,
	CrewStream,
	CrewTechnician,
	CrewElectrician,
	CrewTransport,
}

// IsValid reports whether the crew role is one of the fixed set.
func (r CrewRole) IsValid() bool {
	for _, known := range CrewRoles {
		if r == known {
			return true
		}
	}
	return false
}

// AssignmentStatus is an operator's response state on an assignment.
type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentAccepted AssignmentStatus = "accepted"
	AssignmentDeclined AssignmentStatus = "declined"
)

// NotificationType categorizes a notification record.
type NotificationType string

const (
	NotificationRequest      NotificationType = "request"
	NotificationAssignment   NotificationType = "assignment"
	NotificationResponse     NotificationType = "response"
	NotificationConfirmation NotificationType = "confirmation"
	NotificationCancellation NotificationType = "cancellation"
	NotificationStatusChange NotificationType = "status_change"
)

// User is one entry in the user directory. Specialization is only
// meaningful for operators.
type User struct {
	ID             string
	Email          string
	Name           string
	Role           UserRole
	Specialization CrewRole
	PushToken      string
	CreatedAt      time.Time
}

// Production is one scheduled broadcast or recording.
type Production struct {
	ID              string
	Name            string
	Date            time.Time
	CallTime        time.Time
	StartTime       time.Time
	EndTime         time.Time
	Venue           string
	LocationDetails string
	Status          ProductionStatus
	RequestedBy     string
	ConfirmedBy     string
	Notes           string

	// SeriesID groups productions created from one recurrence rule.
	SeriesID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Requirement is one role head count on a production.
type Requirement struct {
	ID           string
	ProductionID string
	Role         CrewRole
	Count        int
}

// Assignment books one operator into one role on one production.
type Assignment struct {
	ID           string
	ProductionID string
	UserID       string
	Role         CrewRole
	Status       AssignmentStatus
	AssignedBy   string
	CreatedAt    time.Time
}

// Notification is one in-app notification record.
type Notification struct {
	ID           string
	UserID       string
	Type         NotificationType
	Title        string
	Body         string
	ProductionID string
	Read         bool
	CreatedAt    time.Time
}

// SameCalendarDay reports whether two instants fall on the same UTC
// calendar day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
