// Package traffic queries the TomTom routing API for live travel time and
// delay on a commute leg.
package traffic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

// ErrNoRoute is returned when the provider answers without any route, e.g.
// for unroutable coordinates.
var ErrNoRoute = errors.New("no route found")

// RouteSummary is the slice of the provider response the bot cares about.
// A missing trafficDelayInSeconds means no delay.
type RouteSummary struct {
	TravelTimeSeconds   int `json:"travelTimeInSeconds"`
	TrafficDelaySeconds int `json:"trafficDelayInSeconds"`
}

// TravelMins returns whole minutes of travel time.
func (s RouteSummary) TravelMins() int { return s.TravelTimeSeconds / 60 }

// DelayMins returns whole minutes of traffic delay.
func (s RouteSummary) DelayMins() int { return s.TrafficDelaySeconds / 60 }

type routeResponse struct {
	Routes []struct {
		Summary RouteSummary `json:"summary"`
	} `json:"routes"`
}

// Client calls the TomTom calculateRoute endpoint. The embedded http.Client
// carries the hard request timeout so a hung provider call cannot hold a
// worker past it.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// FetchDelay runs one routing query from origin to dest departing at
// departAt, returning the first route's travel time and traffic delay.
func (c *Client) FetchDelay(ctx context.Context, origin, dest models.Coordinates, departAt time.Time) (RouteSummary, error) {
	endpoint := fmt.Sprintf("%s/routing/1/calculateRoute/%.6f,%.6f:%.6f,%.6f/json",
		c.baseURL, origin.Lat, origin.Lon, dest.Lat, dest.Lon)

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("traffic", "true")
	params.Set("departAt", departAt.Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return RouteSummary{}, fmt.Errorf("build routing request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return RouteSummary{}, fmt.Errorf("routing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RouteSummary{}, fmt.Errorf("routing request returned status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return RouteSummary{}, fmt.Errorf("decode routing response: %w", err)
	}
	if len(body.Routes) == 0 {
		return RouteSummary{}, ErrNoRoute
	}

	summary := body.Routes[0].Summary
	c.logger.Debug("traffic fetched",
		zap.Int("travel_secs", summary.TravelTimeSeconds),
		zap.Int("delay_secs", summary.TrafficDelaySeconds))
	return summary, nil
}
