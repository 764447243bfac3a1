package staffing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
	"github.com/crewcall-tv/crewcall/pkg/db"
)

type fakeConflictStore struct {
	assignments    map[string][]model.Assignment
	productions    map[string]model.Production
	assignmentsErr error
	productionErr  error
}

func (f *fakeConflictStore) GetAssignmentsByUser(ctx context.Context, userID string) ([]model.Assignment, error) {
	if f.assignmentsErr != nil {
		return nil, f.assignmentsErr
	}
	return f.assignments[userID], nil
}

func (f *fakeConflictStore) GetProduction(ctx context.Context, id string) (*model.Production, error) {
	if f.productionErr != nil {
		return nil, f.productionErr
	}
	production, ok := f.productions[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &production, nil
}

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestCheckConflictSameDay(t *testing.T) {
	store := &fakeConflictStore{
		assignments: map[string][]model.Assignment{
			"op-1": {
				{ID: "a-1", ProductionID: "prod-a", UserID: "op-1", Role: model.CrewCamera, Status: model.AssignmentAccepted},
			},
		},
		productions: map[string]model.Production{
			"prod-a": {ID: "prod-a", Name: "Morning Show", Date: date("2024-06-01")},
		},
	}

	conflict := CheckConflict(context.Background(), store, zap.NewNop(), "op-1", "prod-b", date("2024-06-01"))

	require.NotNil(t, conflict)
	assert.Equal(t, "prod-a", conflict.Production.ID)
	assert.Equal(t, "a-1", conflict.Assignment.ID)
}

func TestCheckConflictDifferentDay(t *testing.T) {
	store := &fakeConflictStore{
		assignments: map[string][]model.Assignment{
			"op-1": {
				{ID: "a-1", ProductionID: "prod-a", UserID: "op-1", Role: model.CrewCamera},
			},
		},
		productions: map[string]model.Production{
			"prod-a": {ID: "prod-a", Date: date("2024-06-01")},
		},
	}

	conflict := CheckConflict(context.Background(), store, zap.NewNop(), "op-1", "prod-c", date("2024-06-02"))

	assert.Nil(t, conflict)
}

// Assignments on the target production itself never count as conflicts.
func TestCheckConflictExcludesTargetProduction(t *testing.T) {
	store := &fakeConflictStore{
		assignments: map[string][]model.Assignment{
			"op-1": {
				{ID: "a-1", ProductionID: "prod-b", UserID: "op-1", Role: model.CrewCamera},
			},
		},
		productions: map[string]model.Production{
			"prod-b": {ID: "prod-b", Date: date("2024-06-01")},
		},
	}

	conflict := CheckConflict(context.Background(), store, zap.NewNop(), "op-1", "prod-b", date("2024-06-01"))

	assert.Nil(t, conflict)
}

// Day-granularity comparison: a same-day production with a disjoint
// time window is still reported.
func TestCheckConflictIgnoresTimeWindows(t *testing.T) {
	morning := date("2024-06-01").Add(8 * time.Hour)
	evening := date("2024-06-01").Add(19 * time.Hour)
	store := &fakeConflictStore{
		assignments: map[string][]model.Assignment{
			"op-1": {
				{ID: "a-1", ProductionID: "prod-a", UserID: "op-1", Role: model.CrewSound},
			},
		},
		productions: map[string]model.Production{
			"prod-a": {ID: "prod-a", Date: date("2024-06-01"), StartTime: morning, EndTime: morning.Add(2 * time.Hour)},
		},
	}

	conflict := CheckConflict(context.Background(), store, zap.NewNop(), "op-1", "prod-b", evening)

	require.NotNil(t, conflict)
	assert.Equal(t, "prod-a", conflict.Production.ID)
}

// Conflict detection fails open: store errors produce no conflict
// rather than an error.
func TestCheckConflictFailsOpen(t *testing.T) {
	store := &fakeConflictStore{assignmentsErr: errors.New("network down")}

	conflict := CheckConflict(context.Background(), store, zap.NewNop(), "op-1", "prod-b", date("2024-06-01"))

	assert.Nil(t, conflict)
}

func TestCheckConflictSkipsUnfetchableProductions(t *testing.T) {
	store := &fakeConflictStore{
		assignments: map[string][]model.Assignment{
			"op-1": {
				{ID: "a-1", ProductionID: "prod-missing", UserID: "op-1"},
				{ID: "a-2", ProductionID: "prod-a", UserID: "op-1"},
			},
		},
		productions: map[string]model.Production{
			"prod-a": {ID: "prod-a", Date: date("2024-06-01")},
		},
	}

	conflict := CheckConflict(context.Background(), store, zap.NewNop(), "op-1", "prod-b", date("2024-06-01"))

	require.NotNil(t, conflict)
	assert.Equal(t, "a-2", conflict.Assignment.ID)
}
