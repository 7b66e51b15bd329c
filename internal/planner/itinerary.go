package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Itinerary is a generated itinerary reduced to what can be persisted.
type Itinerary struct {
	Title       string
	Destination string
	Budget      *float64
	Days        []domain.ItineraryDay
}

// rawDay accepts both day shapes the service produces: part-of-day text
// fields with one estimated cost, or an explicit list of activities.
type rawDay struct {
	Day           *int          `json:"day"`
	DayNumber     *int          `json:"day_number"`
	Title         string        `json:"title"`
	Morning       string        `json:"morning"`
	Afternoon     string        `json:"afternoon"`
	Evening       string        `json:"evening"`
	Night         string        `json:"night"`
	EstimatedCost flexNumber    `json:"estimated_cost"`
	Activities    []rawActivity `json:"activities"`
}

type rawActivity struct {
	Time        string     `json:"time"`
	Activity    string     `json:"activity"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Cost        flexNumber `json:"cost"`
	Type        string     `json:"type"`
}

type rawItinerary struct {
	Title              string     `json:"title"`
	Destination        string     `json:"destination"`
	Location           string     `json:"location"`
	Itinerary          []rawDay   `json:"itinerary"`
	Days               []rawDay   `json:"days"`
	TotalEstimatedCost flexNumber `json:"total_estimated_cost"`
	Budget             flexNumber `json:"budget"`
}

// ParseItinerary validates the shape of a final itinerary payload and maps
// it onto itinerary days. A payload without at least one day is rejected
// with domain.ErrValidation; this is how an error object that was
// classified as final is kept out of storage.
func ParseItinerary(payload json.RawMessage) (Itinerary, error) {
	trimmed := bytes.TrimSpace(payload)

	var raw rawItinerary
	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &raw.Itinerary); err != nil {
			return Itinerary{}, fmt.Errorf("planner.ParseItinerary: %w: %v", domain.ErrValidation, err)
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return Itinerary{}, fmt.Errorf("planner.ParseItinerary: %w: %v", domain.ErrValidation, err)
		}
	default:
		return Itinerary{}, fmt.Errorf("planner.ParseItinerary: %w: itinerary must be an object or a list of days", domain.ErrValidation)
	}

	rawDays := raw.Itinerary
	if len(rawDays) == 0 {
		rawDays = raw.Days
	}
	if len(rawDays) == 0 {
		return Itinerary{}, fmt.Errorf("planner.ParseItinerary: %w: itinerary has no days", domain.ErrValidation)
	}

	out := Itinerary{
		Title:       raw.Title,
		Destination: lo.Ternary(raw.Destination != "", raw.Destination, raw.Location),
		Budget:      lo.CoalesceOrEmpty(raw.TotalEstimatedCost.ptr(), raw.Budget.ptr()),
	}
	for i, d := range rawDays {
		number := i + 1
		if n := lo.CoalesceOrEmpty(d.Day, d.DayNumber); n != nil {
			number = *n
		}
		out.Days = append(out.Days, domain.ItineraryDay{
			DayNumber:   number,
			DailyBudget: d.EstimatedCost.ptr(),
			Activities:  d.activities(),
		})
	}
	return out, nil
}

func (d rawDay) activities() []domain.Activity {
	if len(d.Activities) > 0 {
		return lo.Map(d.Activities, func(a rawActivity, _ int) domain.Activity {
			return domain.Activity{
				Time:        a.Time,
				Title:       lo.Ternary(a.Title != "", a.Title, a.Activity),
				Description: a.Description,
				Location:    a.Location,
				Cost:        a.Cost.ptr(),
				Type:        domain.ActivityType(a.Type),
			}
		})
	}

	parts := []struct {
		text string
		typ  domain.ActivityType
	}{
		{d.Morning, domain.ActivityMorning},
		{d.Afternoon, domain.ActivityAfternoon},
		{d.Evening, domain.ActivityEvening},
		{d.Night, domain.ActivityNight},
	}
	out := []domain.Activity{}
	for _, p := range parts {
		if strings.TrimSpace(p.text) == "" {
			continue
		}
		out = append(out, domain.Activity{
			Time:        string(p.typ),
			Title:       summarize(p.text),
			Description: p.text,
			Type:        p.typ,
		})
	}
	return out
}

// summarize returns the first sentence of text, for use as a title.
func summarize(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexAny(text, ".!?"); i > 0 {
		return text[:i]
	}
	return text
}

// flexNumber decodes a cost written either as a JSON number or as a string
// such as "INR 2,500". Anything else decodes as absent.
type flexNumber struct {
	value *float64
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.value = &n
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
	if v, err := strconv.ParseFloat(digits, 64); err == nil {
		f.value = &v
	}
	return nil
}

func (f flexNumber) ptr() *float64 {
	return f.value
}
