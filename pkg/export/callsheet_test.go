package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewcall-tv/crewcall/pkg/core/model"
)

func TestRenderCallSheet(t *testing.T) {
	entries := []CallSheetEntry{
		{
			Production: model.Production{
				Name:      "Evening News",
				Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				CallTime:  time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC),
				StartTime: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC),
				Venue:     "Studio A",
				Status:    model.StatusConfirmed,
			},
			Crew: []CrewLine{
				{Role: model.CrewCamera, Name: "Dana Reyes", Status: model.AssignmentAccepted},
				{Role: model.CrewSound, Name: "Sam Okafor", Status: model.AssignmentPending},
			},
		},
	}

	var buf bytes.Buffer
	err := RenderCallSheet(&buf, "June Call Sheet", entries)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "June Call Sheet")
	assert.Contains(t, html, "Evening News")
	assert.Contains(t, html, "Saturday 1 June 2024")
	assert.Contains(t, html, "call 16:00")
	assert.Contains(t, html, "Dana Reyes")
	assert.Contains(t, html, "Accepted")
	assert.Contains(t, html, "Pending")
}

func TestRenderCallSheetNoCrew(t *testing.T) {
	entries := []CallSheetEntry{
		{
			Production: model.Production{
				Name:  "Late Shift",
				Date:  time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
				Venue: "OB Unit 2",
			},
		},
	}

	var buf bytes.Buffer
	err := RenderCallSheet(&buf, "Call Sheet", entries)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "No crew assigned.")
	assert.Contains(t, buf.String(), "call -")
}
