// Package planner talks to the remote itinerary-generation service.
//
// The service has two generation endpoints. The first either returns a
// finished itinerary or asks one clarifying question; the second takes the
// original prompt plus the user's answers and always produces an itinerary.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// ErrRequestFailed covers transport errors, non-2xx answers and an unset
// service address.
var ErrRequestFailed = errors.New("itinerary request failed")

// ErrMalformedResponse is returned when the service answered 2xx but the body
// could not be interpreted.
var ErrMalformedResponse = errors.New("malformed itinerary response")

const (
	endpointInitial = "generate-iternary"
	endpointFinal   = "generate-final-iternary"
	endpointStories = "generate-visual-storytelling"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the service at baseURL. A zero timeout means
// requests wait as long as the service takes. An empty baseURL yields a
// client whose every request fails with ErrRequestFailed.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the client has a service address.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// RequestInitialPlan sends the user's first prompt.
func (c *Client) RequestInitialPlan(ctx context.Context, prompt string) (Outcome, error) {
	body, err := c.post(ctx, endpointInitial, map[string]string{"prompt": prompt})
	if err != nil {
		return Outcome{}, fmt.Errorf("planner.Client.RequestInitialPlan: %w", err)
	}

	out, err := Classify(body)
	observe(endpointInitial, out, err)
	if err != nil {
		return Outcome{}, fmt.Errorf("planner.Client.RequestInitialPlan: %w", err)
	}
	return out, nil
}

// RequestFinalPlan sends the original prompt together with the user's answer
// to the clarifying question. The result is always a final itinerary.
func (c *Client) RequestFinalPlan(ctx context.Context, originalPrompt, answers string) (Outcome, error) {
	body, err := c.post(ctx, endpointFinal, map[string]string{
		"prompt":              originalPrompt,
		"clarrifying_answers": answers,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("planner.Client.RequestFinalPlan: %w", err)
	}

	if !json.Valid(body) {
		observe(endpointFinal, Outcome{}, ErrMalformedResponse)
		return Outcome{}, fmt.Errorf("planner.Client.RequestFinalPlan: %w: body is not JSON", ErrMalformedResponse)
	}
	out := Outcome{Kind: FinalItinerary, Itinerary: json.RawMessage(body)}
	observe(endpointFinal, out, nil)
	return out, nil
}

type storyPlace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	ImageURL    string `json:"imageUrl"`
}

type storyResponse struct {
	Days []struct {
		Day    int          `json:"day"`
		Places []storyPlace `json:"places"`
	} `json:"days"`
}

// RequestStories asks the service to turn an itinerary into a list of
// illustrated places, flattened across days in the order returned.
func (c *Client) RequestStories(ctx context.Context, itinerary json.RawMessage) ([]domain.Story, error) {
	if len(itinerary) == 0 {
		itinerary = json.RawMessage(`{}`)
	}
	body, err := c.post(ctx, endpointStories, map[string]json.RawMessage{"iternary": itinerary})
	if err != nil {
		return nil, fmt.Errorf("planner.Client.RequestStories: %w", err)
	}

	var resp storyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		observe(endpointStories, Outcome{}, ErrMalformedResponse)
		return nil, fmt.Errorf("planner.Client.RequestStories: %w: %v", ErrMalformedResponse, err)
	}
	observe(endpointStories, Outcome{}, nil)

	var stories []domain.Story
	for _, d := range resp.Days {
		for i, p := range d.Places {
			id := p.ID
			if id == "" {
				id = fmt.Sprintf("%d-%d", d.Day, i+1)
			}
			stories = append(stories, domain.Story{
				ID:          id,
				Title:       p.Name,
				Description: p.Description,
				Location:    p.Address,
				ImageURL:    p.ImageURL,
			})
		}
	}
	return stories, nil
}

// post sends payload as JSON and returns the body of a 2xx answer.
func (c *Client) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	if c.baseURL == "" {
		observe(endpoint, Outcome{}, ErrRequestFailed)
		return nil, fmt.Errorf("%w: service address not configured", ErrRequestFailed)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		observe(endpoint, Outcome{}, ErrRequestFailed)
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		observe(endpoint, Outcome{}, ErrRequestFailed)
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observe(endpoint, Outcome{}, ErrRequestFailed)
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return body, nil
}
