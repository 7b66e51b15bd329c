package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/handler"
	"github.com/pkordes/trip-planner/backend/internal/service"
)

func TestExportTablePDF(t *testing.T) {
	api := newAPI(handler.Deps{})

	rec := do(t, api, http.MethodPost, "/export/pdf", "", domain.Table{
		Title:   "Packing list",
		Columns: []string{"Item", "Qty"},
		Rows:    []map[string]string{{"Item": "Sunscreen", "Qty": "2"}},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=document.pdf`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestExportTablePDF_NoColumns(t *testing.T) {
	api := newAPI(handler.Deps{})

	rec := do(t, api, http.MethodPost, "/export/pdf", "", domain.Table{Title: "Empty"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestExportTripPDF_UsesItineraryTable(t *testing.T) {
	exports := &mockExports{tripItinerary: func(context.Context, uuid.UUID) (domain.Table, service.TripDetail) {
		return service.ItineraryTable(service.TripDetail{Days: []domain.ItineraryDay{{DayNumber: 1}}}), service.TripDetail{Sample: true}
	}}
	api := newAPI(handler.Deps{Exports: exports})

	rec := do(t, api, http.MethodGet, "/trips/"+uuid.NewString()+"/export.pdf", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=trip_itinerary.pdf`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "true", rec.Header().Get("X-Sample-Data"))
}

func TestExportDayPDF(t *testing.T) {
	exports := &mockExports{dayActivities: func(_ context.Context, dayID uuid.UUID) (domain.Table, bool) {
		if dayID == uuid.Nil {
			return service.ActivityTable(nil), true
		}
		return service.ActivityTable([]domain.Activity{{Title: "Fort"}}), false
	}}
	api := newAPI(handler.Deps{Exports: exports})

	rec := do(t, api, http.MethodGet, "/itineraries/"+uuid.NewString()+"/export.pdf", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=activity_details.pdf`, rec.Header().Get("Content-Disposition"))
	assert.Empty(t, rec.Header().Get("X-Sample-Data"))

	rec = do(t, api, http.MethodGet, "/itineraries/"+uuid.Nil.String()+"/export.pdf", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, "an empty day still exports")
	assert.Equal(t, "true", rec.Header().Get("X-Sample-Data"))
}

func TestExportTripCalendar(t *testing.T) {
	start := time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC)
	exports := &mockExports{tripItinerary: func(context.Context, uuid.UUID) (domain.Table, service.TripDetail) {
		return domain.Table{}, service.TripDetail{
			Trip: domain.Trip{Title: "Kerala", StartDate: &start},
			Days: []domain.ItineraryDay{{ID: uuid.New(), DayNumber: 1, Activities: []domain.Activity{{Time: "10:00", Title: "Backwaters"}}}},
		}
	}}
	api := newAPI(handler.Deps{Exports: exports})

	rec := do(t, api, http.MethodGet, "/trips/"+uuid.NewString()+"/export.ics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=trip_itinerary.ics`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "SUMMARY:Backwaters")
	assert.Contains(t, rec.Body.String(), "DTSTART:20261220T100000")
	assert.Empty(t, rec.Header().Get("X-Sample-Data"))
}
