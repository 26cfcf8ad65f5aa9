// services/schedule_provider.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ExternalGame is a normalized schedule/score record from the provider.
// Team identity is by name; the import reconciler maps names to internal rows.
type ExternalGame struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	StartTime time.Time `json:"start_time"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Status    string    `json:"status"` // provider vocabulary, mapped by the reconciler
	Winner    string    `json:"winner,omitempty"`
	Venue     string    `json:"venue,omitempty"`
}

// ScheduleProvider fetches per-sport schedules from the third-party sports API.
type ScheduleProvider struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewScheduleProvider(baseURL, apiKey string) *ScheduleProvider {
	return &ScheduleProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// provider wire format
type providerScheduleResponse struct {
	Games []struct {
		ID        string `json:"id"`
		Scheduled string `json:"scheduled"`
		Status    string `json:"status"`
		HomePoints int   `json:"home_points"`
		AwayPoints int   `json:"away_points"`
		Winner     string `json:"winner"`
		HomeTeam   struct {
			Name string `json:"name"`
		} `json:"home_team"`
		AwayTeam struct {
			Name string `json:"name"`
		} `json:"away_team"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"games"`
}

// FetchSchedule pulls the given day's schedule for a sport type (nba, nfl, ...)
// and returns normalized games. A non-200 or decode failure fails the whole
// sport — callers skip that sport for the run, there is no retry.
func (p *ScheduleProvider) FetchSchedule(ctx context.Context, sportType string, day time.Time) ([]ExternalGame, error) {
	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid provider base URL '%s': %w", p.BaseURL, err)
	}

	endpointURL := base.JoinPath(sportType, "games", day.UTC().Format("2006-01-02"), "schedule.json")
	q := endpointURL.Query()
	q.Set("api_key", p.APIKey)
	endpointURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpointURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schedule request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload providerScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	games := make([]ExternalGame, 0, len(payload.Games))
	for _, g := range payload.Games {
		start, err := time.Parse(time.RFC3339, g.Scheduled)
		if err != nil {
			// a game without a parseable start time is useless downstream
			continue
		}
		games = append(games, ExternalGame{
			ID:        g.ID,
			HomeTeam:  g.HomeTeam.Name,
			AwayTeam:  g.AwayTeam.Name,
			StartTime: start,
			HomeScore: g.HomePoints,
			AwayScore: g.AwayPoints,
			Status:    g.Status,
			Winner:    g.Winner,
			Venue:     g.Venue.Name,
		})
	}

	return games, nil
}
