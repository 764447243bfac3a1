package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ProductionStatus
		to      ProductionStatus
		allowed bool
	}{
		{"requested to confirmed", StatusRequested, StatusConfirmed, true},
		{"requested to cancelled", StatusRequested, StatusCancelled, true},
		{"confirmed to in progress", StatusConfirmed, StatusInProgress, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"in progress to completed", StatusInProgress, StatusCompleted, true},
		{"requested to in progress", StatusRequested, StatusInProgress, false},
		{"in progress to cancelled", StatusInProgress, StatusCancelled, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusRequested, false},
		{"no backwards transition", StatusConfirmed, StatusRequested, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusRequested.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestDisplayForKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "Confirmed", DisplayFor(StatusConfirmed).Label)
	assert.Equal(t, "help-circle", DisplayFor(ProductionStatus("bogus")).Icon)
}

func TestSameCalendarDay(t *testing.T) {
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	sameDayEvening := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameCalendarDay(base, sameDayEvening))
	assert.False(t, SameCalendarDay(base, nextDay))
}
