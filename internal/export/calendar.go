package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// timedEventLength is how long an activity with a parseable start lasts.
const timedEventLength = time.Hour

// floatingLayout is an iCalendar DATE-TIME without a zone, read by clients
// as local time at the destination.
const floatingLayout = "20060102T150405"

var timeLabelLayouts = []string{"15:04", "3:04 PM", "3:04PM", "3 PM", "3PM"}

// WriteCalendar renders the activities of trip as iCalendar events, one per
// activity. A day is dated by its own Date, else by the trip's StartDate
// offset by DayNumber-1; days with neither are skipped. An activity whose
// time label does not parse becomes an all-day event.
func WriteCalendar(w io.Writer, trip domain.Trip, days []domain.ItineraryDay) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//trip-planner//itinerary//EN")

	sorted := append([]domain.ItineraryDay(nil), days...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DayNumber < sorted[j].DayNumber })

	stamp := trip.UpdatedAt
	if stamp.IsZero() {
		stamp = trip.CreatedAt
	}

	for _, day := range sorted {
		date, ok := dayDate(trip, day)
		if !ok {
			continue
		}
		for i, act := range day.Activities {
			ev := cal.AddEvent(fmt.Sprintf("%s-%d@trip-planner", day.ID, i))
			ev.SetDtStampTime(stamp)
			ev.SetSummary(lo.CoalesceOrEmpty(strings.TrimSpace(act.Title), fmt.Sprintf("Day %d activity", day.DayNumber)))
			if act.Description != "" {
				ev.SetDescription(act.Description)
			}
			if act.Location != "" {
				ev.SetLocation(act.Location)
			}

			if start, ok := parseTimeLabel(date, act.Time); ok {
				ev.SetProperty(ics.ComponentPropertyDtStart, start.Format(floatingLayout))
				ev.SetProperty(ics.ComponentPropertyDtEnd, start.Add(timedEventLength).Format(floatingLayout))
				continue
			}
			ev.SetAllDayStartAt(date)
			ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("export.WriteCalendar: %w", err)
	}
	return nil
}

func dayDate(trip domain.Trip, day domain.ItineraryDay) (time.Time, bool) {
	switch {
	case day.Date != nil:
		return truncateDay(*day.Date), true
	case trip.StartDate != nil:
		return truncateDay(*trip.StartDate).AddDate(0, 0, day.DayNumber-1), true
	default:
		return time.Time{}, false
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseTimeLabel reads labels like "09:30", "9:30 AM" or "7 PM" and places
// them on date. Free-text labels such as "after lunch" do not parse.
func parseTimeLabel(date time.Time, label string) (time.Time, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLabelLayouts {
		t, err := time.Parse(layout, label)
		if err == nil {
			return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), true
		}
	}
	return time.Time{}, false
}
