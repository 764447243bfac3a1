package staffing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

func cameraRequirement(count int) model.Requirement {
	return model.Requirement{ID: "req-1", ProductionID: "prod-1", Role: model.CrewCamera, Count: count}
}

func TestBuildRoleSheetPartitionsOperators(t *testing.T) {
	operators := []model.User{
		{ID: "op-1", Role: model.RoleOperator, Specialization: model.CrewCamera},
		{ID: "op-2", Role: model.RoleOperator, Specialization: model.CrewCamera},
		{ID: "op-3", Role: model.RoleOperator, Specialization: model.CrewCamera},
	}
	draft := []DraftAssignment{
		{PersistedID: "a-1", UserID: "op-2", Role: model.CrewCamera},
		{UserID: "op-9", Role: model.CrewSound}, // different role, not on this sheet
	}

	sheet := BuildRoleSheet(cameraRequirement(2), operators, draft)

	require.Len(t, sheet.Assigned, 1)
	assert.Equal(t, "op-2", sheet.Assigned[0].UserID)
	require.Len(t, sheet.Available, 2)
	// Directory order preserved, no ranking.
	assert.Equal(t, "op-1", sheet.Available[0].ID)
	assert.Equal(t, "op-3", sheet.Available[1].ID)
}

func TestRoleSheetCapExcludesPendingRemoval(t *testing.T) {
	draft := []DraftAssignment{
		{PersistedID: "a-1", UserID: "op-1", Role: model.CrewCamera},
		{PersistedID: "a-2", UserID: "op-2", Role: model.CrewCamera, PendingRemoval: true},
	}

	sheet := BuildRoleSheet(cameraRequirement(2), nil, draft)

	assert.Equal(t, 1, sheet.ActiveCount())
	assert.True(t, sheet.CanAssign())
}

func TestRoleSheetFullWhenRequirementMet(t *testing.T) {
	draft := []DraftAssignment{
		{UserID: "op-1", Role: model.CrewCamera},
		{UserID: "op-2", Role: model.CrewCamera},
	}

	sheet := BuildRoleSheet(cameraRequirement(2), nil, draft)

	assert.False(t, sheet.CanAssign())
}

func TestToggleAddsNewEntry(t *testing.T) {
	draft := Toggle(nil, "op-1", model.CrewCamera)

	require.Len(t, draft, 1)
	assert.False(t, draft[0].Persisted())
	assert.False(t, draft[0].PendingRemoval)
}

func TestToggleDropsSessionEntry(t *testing.T) {
	draft := Toggle(nil, "op-1", model.CrewCamera)
	draft = Toggle(draft, "op-1", model.CrewCamera)

	assert.Empty(t, draft)
}

func TestToggleMarksPersistedEntryForRemoval(t *testing.T) {
	draft := []DraftAssignment{
		{PersistedID: "a-1", UserID: "op-1", Role: model.CrewCamera},
	}

	draft = Toggle(draft, "op-1", model.CrewCamera)
	require.Len(t, draft, 1)
	assert.True(t, draft[0].PendingRemoval)

	// Toggling again restores the entry.
	draft = Toggle(draft, "op-1", model.CrewCamera)
	require.Len(t, draft, 1)
	assert.False(t, draft[0].PendingRemoval)
}
