package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Column sets and titles of the two exported reports.
var (
	ItineraryColumns = []string{"Day", "Time", "Title", "Location", "Cost"}
	ActivityColumns  = []string{"#", "Title", "Time", "Location", "Cost", "Description"}
)

const (
	itineraryTitle    = "Trip Itinerary Report"
	itineraryFilename = "trip_itinerary"
	activityTitle     = "Trip Itinerary - Activity Details"
	activityFilename  = "activity_details"
)

// ExportService builds the tabular projections that are rendered as
// downloadable documents.
type ExportService struct {
	trips *TripService
}

// NewExportService constructs an ExportService over the trip views.
func NewExportService(trips *TripService) *ExportService {
	return &ExportService{trips: trips}
}

// TripItinerary returns the itinerary table of a trip along with the detail
// it was built from. Like the trip view, it falls back to the sample trip.
func (s *ExportService) TripItinerary(ctx context.Context, tripID uuid.UUID) (domain.Table, TripDetail) {
	detail := s.trips.Detail(ctx, tripID)
	return ItineraryTable(detail), detail
}

// DayActivities returns the activity table of an itinerary day; a day
// without activities gives a table without rows. sample reports that the
// sample day stood in for an unreadable one.
func (s *ExportService) DayActivities(ctx context.Context, dayID uuid.UUID) (table domain.Table, sample bool) {
	day, sample := s.trips.Day(ctx, dayID)
	return ActivityTable(day.Activities), sample
}

// ItineraryTable projects a trip into one row per activity. A day without
// activities still gets a row so that it shows up in the report.
func ItineraryTable(d TripDetail) domain.Table {
	t := domain.Table{
		Title:    itineraryTitle,
		Columns:  ItineraryColumns,
		Filename: itineraryFilename,
		Rows:     []map[string]string{},
	}
	for _, day := range d.Days {
		label := fmt.Sprintf("Day %d", day.DayNumber)
		if len(day.Activities) == 0 {
			t.Rows = append(t.Rows, map[string]string{"Day": label})
			continue
		}
		for _, a := range day.Activities {
			t.Rows = append(t.Rows, map[string]string{
				"Day":      label,
				"Time":     a.Time,
				"Title":    a.Title,
				"Location": a.Location,
				"Cost":     formatCost(a.Cost),
			})
		}
	}
	return t
}

// ActivityTable projects a day's activities, numbered from 1.
func ActivityTable(activities []domain.Activity) domain.Table {
	t := domain.Table{
		Title:    activityTitle,
		Columns:  ActivityColumns,
		Filename: activityFilename,
		Rows:     make([]map[string]string, 0, len(activities)),
	}
	for i, a := range activities {
		t.Rows = append(t.Rows, map[string]string{
			"#":           strconv.Itoa(i + 1),
			"Title":       a.Title,
			"Time":        a.Time,
			"Location":    a.Location,
			"Cost":        formatCost(a.Cost),
			"Description": a.Description,
		})
	}
	return t
}

// formatCost renders a cost in rupees with thousands separators, or an
// empty string when there is no cost.
func formatCost(c *float64) string {
	if c == nil {
		return ""
	}
	return "Rs. " + humanize.Commaf(*c)
}
