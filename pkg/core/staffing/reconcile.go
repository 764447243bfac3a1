package staffing

import (
	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

// DraftAssignment is one entry in the in-memory staffing draft built
// through assign/unassign toggles. A draft entry either mirrors a
// persisted assignment (PersistedID set) or was added this session
// (PersistedID empty). Persisted entries marked for deletion carry
// PendingRemoval instead of being dropped from the draft, so the sheet
// can still show them until save.
type DraftAssignment struct {
	PersistedID    string
	UserID         string
	Role           model.CrewRole
	PendingRemoval bool
}

// Persisted reports whether this entry mirrors a stored assignment.
func (d DraftAssignment) Persisted() bool {
	return d.PersistedID != ""
}

type assignmentKey struct {
	UserID string
	Role   model.CrewRole
}

// ChangeSet is the write plan produced by Reconcile.
type ChangeSet struct {
	// Creates are new assignments to insert, all with status pending.
	Creates []model.Assignment
	// Keeps are persisted assignments left untouched.
	Keeps []model.Assignment
	// Deletes are persisted assignments absent from the draft.
	Deletes []model.Assignment
}

// Empty reports whether the change set requires no writes.
func (c ChangeSet) Empty() bool {
	return len(c.Creates) == 0 && len(c.Deletes) == 0
}

// Reconcile diffs the staffing draft against the persisted assignment
// set for a production, keyed by (userID, role). Draft entries marked
// for removal count as absent. A draft entry claiming a persisted id
// that no longer has a matching persisted record is kept as-is with no
// write; the persisted set fetched at save time is authoritative.
//
// Reconcile is idempotent: running the resulting change set and then
// reconciling the same draft again yields an empty change set, so a
// retried save never duplicates assignments.
func Reconcile(productionID, assignedBy string, draft []DraftAssignment, persisted []model.Assignment) ChangeSet {
	persistedByKey := make(map[assignmentKey]model.Assignment, len(persisted))
	for _, a := range persisted {
		persistedByKey[assignmentKey{UserID: a.UserID, Role: a.Role}] = a
	}

	var changes ChangeSet
	desired := make(map[assignmentKey]bool, len(draft))

	for _, entry := range draft {
		if entry.PendingRemoval {
			continue
		}
		key := assignmentKey{UserID: entry.UserID, Role: entry.Role}
		if desired[key] {
			// Duplicate toggle within the draft, first entry wins.
			continue
		}
		desired[key] = true

		if existing, ok := persistedByKey[key]; ok {
			changes.Keeps = append(changes.Keeps, existing)
			continue
		}
		if entry.Persisted() {
			// Claims a persisted id but the record is gone, likely
			// deleted by a concurrent staffing session. Nothing to write.
			continue
		}
		changes.Creates = append(changes.Creates, model.Assignment{
			ProductionID: productionID,
			UserID:       entry.UserID,
			Role:         entry.Role,
			Status:       model.AssignmentPending,
			AssignedBy:   assignedBy,
		})
	}

	for _, a := range persisted {
		if !desired[assignmentKey{UserID: a.UserID, Role: a.Role}] {
			changes.Deletes = append(changes.Deletes, a)
		}
	}

	return changes
}

// DraftFromPersisted seeds a staffing draft from the stored assignment
// set, the starting point for a staffing session.
func DraftFromPersisted(persisted []model.Assignment) []DraftAssignment {
	draft := make([]DraftAssignment, 0, len(persisted))
	for _, a := range persisted {
		draft = append(draft, DraftAssignment{
			PersistedID: a.ID,
			UserID:      a.UserID,
			Role:        a.Role,
		})
	}
	return draft
}
