package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

func producerSession() Session {
	return Session{UserID: "producer-1", Name: "Sam", Role: model.RoleProducer}
}

func baseRequest() ProductionRequest {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return ProductionRequest{
		Name:      "Evening News",
		Date:      date,
		CallTime:  time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC),
		StartTime: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC),
		Venue:     "Studio 1",
		Requirements: map[model.CrewRole]int{
			model.CrewCamera: 2,
			model.CrewSound:  1,
		},
	}
}

func TestRequestProductionCreatesProductionAndRequirements(t *testing.T) {
	store := newMemoryStore()
	store.addUser(model.User{ID: "officer-1", Role: model.RoleBookingOfficer})
	notifier := NewNotifier(store, store, nil, nil, zap.NewNop())

	result, err := RequestProduction(context.Background(), producerSession(), store, store, store, notifier, zap.NewNop(), baseRequest())

	require.NoError(t, err)
	require.Len(t, result.Productions, 1)
	production := result.Productions[0]
	assert.NotEmpty(t, production.ID)
	assert.Equal(t, model.StatusRequested, production.Status)
	assert.Equal(t, "producer-1", production.RequestedBy)

	requirements, err := store.GetRequirementsByProduction(context.Background(), production.ID)
	require.NoError(t, err)
	require.Len(t, requirements, 2)
	assert.Equal(t, model.CrewCamera, requirements[0].Role)
	assert.Equal(t, 2, requirements[0].Count)
	assert.Equal(t, model.CrewSound, requirements[1].Role)

	// Booking officer gets a request notification.
	assert.Len(t, store.notificationsOfType("officer-1", model.NotificationRequest), 1)
}

func TestRequestProductionValidatesEndAfterStart(t *testing.T) {
	store := newMemoryStore()
	notifier := NewNotifier(store, store, nil, nil, zap.NewNop())

	request := baseRequest()
	request.EndTime = request.StartTime.Add(-time.Hour)

	_, err := RequestProduction(context.Background(), producerSession(), store, store, store, notifier, zap.NewNop(), request)

	assert.ErrorContains(t, err, "end time must be after start time")
	productions, listErr := store.ListProductions(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, productions)
}

func TestRequestProductionValidatesRequiredFields(t *testing.T) {
	store := newMemoryStore()
	notifier := NewNotifier(store, store, nil, nil, zap.NewNop())

	request := baseRequest()
	request.Venue = ""

	_, err := RequestProduction(context.Background(), producerSession(), store, store, store, notifier, zap.NewNop(), request)

	assert.ErrorContains(t, err, "invalid production request")
}

func TestRequestProductionRequiresProducer(t *testing.T) {
	store := newMemoryStore()
	notifier := NewNotifier(store, store, nil, nil, zap.NewNop())

	_, err := RequestProduction(context.Background(), officerSession(), store, store, store, notifier, zap.NewNop(), baseRequest())

	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestRequestProductionRecurrenceCreatesSeries(t *testing.T) {
	store := newMemoryStore()
	notifier := NewNotifier(store, store, nil, nil, zap.NewNop())

	request := baseRequest()
	request.Recurrence = "FREQ=WEEKLY;COUNT=3"
	request.Occurrences = 3

	result, err := RequestProduction(context.Background(), producerSession(), store, store, store, notifier, zap.NewNop(), request)

	require.NoError(t, err)
	require.Len(t, result.Productions, 3)
	require.NotEmpty(t, result.SeriesID)

	for i, production := range result.Productions {
		assert.Equal(t, result.SeriesID, production.SeriesID)
		expectedDate := request.Date.AddDate(0, 0, 7*i)
		assert.Equal(t, expectedDate.Format("2006-01-02"), production.Date.Format("2006-01-02"))

		// Requirements are created per occurrence.
		requirements, reqErr := store.GetRequirementsByProduction(context.Background(), production.ID)
		require.NoError(t, reqErr)
		assert.Len(t, requirements, 2)
	}
}

func TestRequestProductionRejectsBadRecurrence(t *testing.T) {
	store := newMemoryStore()
	notifier := NewNotifier(store, store, nil, nil, zap.NewNop())

	request := baseRequest()
	request.Recurrence = "FREQ=NOT_A_FREQ"

	_, err := RequestProduction(context.Background(), producerSession(), store, store, store, notifier, zap.NewNop(), request)

	assert.ErrorContains(t, err, "invalid recurrence rule")
}
