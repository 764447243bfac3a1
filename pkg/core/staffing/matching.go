package staffing

import (
	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// RoleSheet is the staffing view for one required role: who is already
// on the draft for that role and who else could be picked. Operators
// keep directory order, there is no ranking. Assignment is always a
// manual pick.
type RoleSheet struct {
	Role     model.CrewRole
	Required int

	// Assigned holds the draft entries for this role, including ones
	// marked for removal.
	Assigned []DraftAssignment

	// Available holds operators with the matching specialization who
	// are not on the draft for this role.
	Available []model.User
}

// ActiveCount returns the number of assigned entries excluding those
// marked for removal.
func (s RoleSheet) ActiveCount() int {
	count := 0
	for _, entry := range s.Assigned {
		if !entry.PendingRemoval {
			count++
		}
	}
	return count
}

// CanAssign reports whether another operator may be assigned to this
// role without exceeding the requirement.
func (s RoleSheet) CanAssign() bool {
	return s.ActiveCount() < s.Required
}

// BuildRoleSheet partitions the operators fetched for a requirement's
// specialization into assigned and available buckets against the
// current draft.
func BuildRoleSheet(requirement model.Requirement, operators []model.User, draft []DraftAssignment) RoleSheet {
	sheet := RoleSheet{
		Role:     requirement.Role,
		Required: requirement.Count,
	}

	onDraft := make(map[string]bool)
	for _, entry := range draft {
		if entry.Role != requirement.Role {
			continue
		}
		sheet.Assigned = append(sheet.Assigned, entry)
		onDraft[entry.UserID] = true
	}

	for _, operator := range operators {
		if operator.Specialization != requirement.Role {
			continue
		}
		if !onDraft[operator.ID] {
			sheet.Available = append(sheet.Available, operator)
		}
	}

	return sheet
}

// Toggle flips an operator in or out of the draft for a role and
// returns the updated draft. Assigning a persisted entry marked for
// removal clears the mark; unassigning a persisted entry marks it for
// removal instead of dropping it; unassigning a session-added entry
// drops it outright.
func Toggle(draft []DraftAssignment, userID string, role model.CrewRole) []DraftAssignment {
	for i, entry := range draft {
		if entry.UserID != userID || entry.Role != role {
			continue
		}
		if entry.Persisted() {
			draft[i].PendingRemoval = !entry.PendingRemoval
			return draft
		}
		return append(draft[:i], draft[i+1:]...)
	}
	return append(draft, DraftAssignment{UserID: userID, Role: role})
}
