// Package theodds fetches player-prop odds from the-odds-api.com.
//
// The whole path is best-effort: no API key disables it, provider failures
// degrade to an empty batch, and a single event's odds fetch failing skips
// that event only.
package theodds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.the-odds-api.com/v4"

// SportKeyNFL identifies the NFL on the odds provider.
const SportKeyNFL = "americanfootball_nfl"

// Client is the odds provider HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a rate-limited odds client. Returns nil when apiKey is
// empty: a nil client disables the props path entirely.
func NewClient(apiKey string, logger *slog.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(5), 1),
		logger:     logger,
	}
}

// Event is one upcoming contest on the odds provider.
type Event struct {
	ID           string    `json:"id"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

// Outcome is one side of a prop market. Description carries the player
// name; Name carries the side ("Over"/"Under").
type Outcome struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Point       *float64 `json:"point"`
	Price       *int     `json:"price"`
}

// Market is one prop market offered by a bookmaker.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Bookmaker is one book's markets for an event.
type Bookmaker struct {
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// EventOdds is the per-event odds response.
type EventOdds struct {
	Bookmakers []Bookmaker `json:"bookmakers"`
}

// Events lists upcoming events for a sport.
func (c *Client) Events(ctx context.Context, sportKey string) ([]Event, error) {
	params := url.Values{"regions": {"us"}}
	body, err := c.get(ctx, fmt.Sprintf("/sports/%s/events/", sportKey), params)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// EventOdds fetches one event's bookmaker odds for the given markets.
func (c *Client) EventOdds(ctx context.Context, sportKey, eventID string, markets []string) (*EventOdds, error) {
	params := url.Values{
		"regions":    {"us"},
		"markets":    {strings.Join(markets, ",")},
		"oddsFormat": {"american"},
	}
	body, err := c.get(ctx, fmt.Sprintf("/sports/%s/events/%s/odds/", sportKey, eventID), params)
	if err != nil {
		return nil, err
	}

	var odds EventOdds
	if err := json.Unmarshal(body, &odds); err != nil {
		return nil, fmt.Errorf("decode event odds: %w", err)
	}
	return &odds, nil
}

// get performs a rate-limited GET with the API key appended.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("apiKey", c.apiKey)
	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds api %s returned %d: %s", path, resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
