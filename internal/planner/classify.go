package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ClarificationSentinel is the exact message value with which the service
// asks a follow-up question instead of returning an itinerary.
const ClarificationSentinel = "Need clarification"

// Kind discriminates the two successful outcomes of a generation request.
type Kind int

const (
	NeedsClarification Kind = iota + 1
	FinalItinerary
)

func (k Kind) String() string {
	switch k {
	case NeedsClarification:
		return "needs_clarification"
	case FinalItinerary:
		return "final_itinerary"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of a generation request. Question is set
// only for NeedsClarification; Itinerary only for FinalItinerary and holds
// the response body exactly as received.
type Outcome struct {
	Kind      Kind
	Question  string
	Itinerary json.RawMessage
}

// Classify interprets a 2xx response body.
//
// A JSON object whose "message" equals ClarificationSentinel is a question,
// carried in "resp". Any other JSON value is a final itinerary, including
// objects that look like errors. Bodies that are not JSON, or sentinel
// responses without a string "resp", are ErrMalformedResponse.
func Classify(body []byte) (Outcome, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return Outcome{}, fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		var message string
		if raw, ok := fields["message"]; ok && json.Unmarshal(raw, &message) == nil && message == ClarificationSentinel {
			var question string
			raw := bytes.TrimSpace(fields["resp"])
			if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &question) != nil {
				return Outcome{}, fmt.Errorf("%w: clarification without a question", ErrMalformedResponse)
			}
			return Outcome{Kind: NeedsClarification, Question: question}, nil
		}
	}

	return Outcome{Kind: FinalItinerary, Itinerary: json.RawMessage(trimmed)}, nil
}

// Render returns the text shown to the user for a final itinerary: the
// string itself when the payload is a JSON string, otherwise the payload
// indented with two spaces.
func Render(itinerary json.RawMessage) string {
	var s string
	if json.Unmarshal(itinerary, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, itinerary, "", "  "); err != nil {
		return string(itinerary)
	}
	return buf.String()
}
