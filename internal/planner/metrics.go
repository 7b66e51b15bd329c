package planner

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripplanner_planner_requests_total",
			Help: "Requests sent to the itinerary service, by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripplanner_planner_request_duration_seconds",
			Help:    "Round-trip time of itinerary service requests.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
}

func observe(endpoint string, out Outcome, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrMalformedResponse):
		outcome = "malformed"
	case err != nil:
		outcome = "failed"
	case out.Kind == NeedsClarification:
		outcome = "clarification"
	case out.Kind == FinalItinerary:
		outcome = "final"
	}
	requestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
