package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/export"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func parseCalendar(t *testing.T, trip domain.Trip, days []domain.ItineraryDay) []*ics.VEvent {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, export.WriteCalendar(&buf, trip, days))
	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)
	return cal.Events()
}

func prop(ev *ics.VEvent, p ics.ComponentProperty) string {
	if v := ev.GetProperty(p); v != nil {
		return v.Value
	}
	return ""
}

func TestWriteCalendar_TimedAndAllDay(t *testing.T) {
	trip := domain.Trip{ID: uuid.New(), Title: "Assam", StartDate: date(2026, time.March, 10)}
	days := []domain.ItineraryDay{
		{ID: uuid.New(), DayNumber: 2, Activities: []domain.Activity{
			{Time: "after lunch", Title: "Tea estate walk"},
		}},
		{ID: uuid.New(), DayNumber: 1, Activities: []domain.Activity{
			{Time: "09:30", Title: "Kamakhya Temple", Location: "Guwahati", Description: "Morning darshan"},
			{Time: "7 PM", Title: "River cruise"},
		}},
	}

	events := parseCalendar(t, trip, days)
	require.Len(t, events, 3)

	assert.Equal(t, "Kamakhya Temple", prop(events[0], ics.ComponentPropertySummary))
	assert.Equal(t, "Guwahati", prop(events[0], ics.ComponentPropertyLocation))
	assert.Equal(t, "Morning darshan", prop(events[0], ics.ComponentPropertyDescription))
	assert.Equal(t, "20260310T093000", prop(events[0], ics.ComponentPropertyDtStart))
	assert.Equal(t, "20260310T103000", prop(events[0], ics.ComponentPropertyDtEnd))

	assert.Equal(t, "20260310T190000", prop(events[1], ics.ComponentPropertyDtStart))

	assert.Equal(t, "Tea estate walk", prop(events[2], ics.ComponentPropertySummary))
	assert.Equal(t, "20260311", prop(events[2], ics.ComponentPropertyDtStart), "free-text time becomes an all-day event")
}

func TestWriteCalendar_DayDateWinsOverTripStart(t *testing.T) {
	trip := domain.Trip{StartDate: date(2026, time.January, 1)}
	days := []domain.ItineraryDay{
		{ID: uuid.New(), DayNumber: 1, Date: date(2026, time.February, 14), Activities: []domain.Activity{{Time: "08:00", Title: "Sunrise"}}},
	}
	events := parseCalendar(t, trip, days)
	require.Len(t, events, 1)
	assert.Equal(t, "20260214T080000", prop(events[0], ics.ComponentPropertyDtStart))
}

func TestWriteCalendar_SkipsUndatedDays(t *testing.T) {
	days := []domain.ItineraryDay{
		{ID: uuid.New(), DayNumber: 1, Activities: []domain.Activity{{Time: "10:00", Title: "Fort"}}},
	}
	events := parseCalendar(t, domain.Trip{}, days)
	assert.Empty(t, events)
}

func TestWriteCalendar_UntitledActivity(t *testing.T) {
	trip := domain.Trip{StartDate: date(2026, time.May, 1)}
	days := []domain.ItineraryDay{
		{ID: uuid.New(), DayNumber: 3, Activities: []domain.Activity{{Time: "noon"}}},
	}
	events := parseCalendar(t, trip, days)
	require.Len(t, events, 1)
	assert.Equal(t, "Day 3 activity", prop(events[0], ics.ComponentPropertySummary))
}
