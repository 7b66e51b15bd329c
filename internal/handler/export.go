package handler

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/export"
)

const calendarFilename = "trip_itinerary.ics"

// ExportTablePDF handles POST /export/pdf: renders the posted table.
func (s *Server) ExportTablePDF(w http.ResponseWriter, r *http.Request) {
	var t domain.Table
	if !decodeBody(w, r, &t) {
		return
	}
	s.writePDF(w, r, t, false)
}

// ExportTripPDF handles GET /trips/{id}/export.pdf.
func (s *Server) ExportTripPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, detail := s.exports.TripItinerary(r.Context(), id)
	s.writePDF(w, r, t, detail.Sample)
}

// ExportDayPDF handles GET /itineraries/{dayId}/export.pdf.
func (s *Server) ExportDayPDF(w http.ResponseWriter, r *http.Request) {
	dayID, ok := pathUUID(w, r, "dayId")
	if !ok {
		return
	}
	t, sample := s.exports.DayActivities(r.Context(), dayID)
	s.writePDF(w, r, t, sample)
}

// ExportTripCalendar handles GET /trips/{id}/export.ics.
func (s *Server) ExportTripCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	_, detail := s.exports.TripItinerary(r.Context(), id)

	var buf bytes.Buffer
	if err := export.WriteCalendar(&buf, detail.Trip, detail.Days); err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeAttachment(w, "text/calendar; charset=utf-8", calendarFilename, buf.Bytes(), detail.Sample)
}

// writePDF renders into memory first so a failure can still be answered
// with a JSON error.
func (s *Server) writePDF(w http.ResponseWriter, r *http.Request, t domain.Table, sample bool) {
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, t); err != nil {
		s.serviceError(w, r, fmt.Errorf("handler.writePDF: %w", err))
		return
	}
	writeAttachment(w, "application/pdf", export.Filename(t), buf.Bytes(), sample)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte, sample bool) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if sample {
		w.Header().Set("X-Sample-Data", "true")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
