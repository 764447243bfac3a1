package model

// ProductionStatus is a production's position in its lifecycle.
type ProductionStatus string

const (
	StatusRequested  ProductionStatus = "requested"
	StatusConfirmed  ProductionStatus = "confirmed"
	StatusInProgress ProductionStatus = "in_progress"
	StatusCompleted  ProductionStatus = "completed"
	StatusCancelled  ProductionStatus = "cancelled"
)

// transitions is the production status state machine. Absent entries
// are terminal states.
var transitions = map[ProductionStatus][]ProductionStatus{
	StatusRequested:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// CanTransition reports whether the state machine allows moving a
// production from one status to another.
func CanTransition(from, to ProductionStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves this status.
func (s ProductionStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// StatusDisplay is the shared display metadata for one status value,
// used by every screen and export instead of per-screen switches.
type StatusDisplay struct {
	Label string
	Color string
	Icon  string
}

var statusDisplays = map[ProductionStatus]StatusDisplay{
	StatusRequested:  {Label: "Requested", Color: "#f59e0b", Icon: "clock"},
	StatusConfirmed:  {Label: "Confirmed", Color: "#22c55e", Icon: "check-circle"},
	StatusInProgress: {Label: "In Progress", Color: "#3b82f6", Icon: "play-circle"},
	StatusCompleted:  {Label: "Completed", Color: "#6b7280", Icon: "flag"},
	StatusCancelled:  {Label: "Cancelled", Color: "#ef4444", Icon: "x-circle"},
}

var unknownDisplay = StatusDisplay{Label: "Unknown", Color: "#9ca3af", Icon: "help-circle"}

// DisplayFor returns the display metadata for a production status.
func DisplayFor(s ProductionStatus) StatusDisplay {
	if display, ok := statusDisplays[s]; ok {
		return display
	}
	return unknownDisplay
}

var assignmentDisplays = map[AssignmentStatus]StatusDisplay{
	AssignmentPending:  {Label: "Pending", Color: "#f59e0b", Icon: "clock"},
	AssignmentAccepted: {Label: "Accepted", Color: "#22c55e", Icon: "check-circle"},
	AssignmentDeclined: {Label: "Declined", Color: "#ef4444", Icon: "x-circle"},
}

// AssignmentDisplayFor returns the display metadata for an assignment
// status.
func AssignmentDisplayFor(s AssignmentStatus) StatusDisplay {
	if display, ok := assignmentDisplays[s]; ok {
		return display
	}
	return unknownDisplay
}
