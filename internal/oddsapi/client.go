package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/icebet20/Ironhockeybot/internal/pkg/config"
	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
)

// UpstreamError reports a non-2xx response from The Odds API. A 404 on the
// odds and scores endpoints is not an upstream error, it means "no events".
type UpstreamError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("odds api: %s returned status %d", e.Endpoint, e.StatusCode)
}

// Client talks to The Odds API v4.
type Client struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	userAgent string
	regions   string
	markets   string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.OddsAPI.Timeout,
		},
		baseURL:   cfg.OddsAPI.BaseURL,
		apiKey:    cfg.OddsAPI.APIKey,
		userAgent: cfg.OddsAPI.UserAgent,
		regions:   cfg.OddsAPI.Regions,
		markets:   cfg.OddsAPI.Markets,
	}
}

// ListSports fetches the full sport catalog.
func (c *Client) ListSports(ctx context.Context) ([]models.SportDescriptor, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)

	var sports []models.SportDescriptor
	if err := c.getJSON(ctx, "/sports/", q, false, &sports); err != nil {
		return nil, err
	}
	return sports, nil
}

// FetchOdds fetches the current odds snapshot for one sport. Events come back
// tagged with the sport key so snapshots from several sports can be merged.
// A 404 means the sport has no events right now and yields an empty list.
func (c *Client) FetchOdds(ctx context.Context, sportKey string) ([]models.OddsEvent, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("regions", c.regions)
	q.Set("markets", c.markets)
	q.Set("oddsFormat", "decimal")
	q.Set("dateFormat", "iso")

	var events []models.OddsEvent
	if err := c.getJSON(ctx, "/sports/"+sportKey+"/odds", q, true, &events); err != nil {
		return nil, err
	}
	for i := range events {
		events[i].SportKey = sportKey
	}
	return events, nil
}

// FetchScores fetches scores for matches of one sport that commenced up to
// daysFrom days ago. Same 404-as-empty convention as FetchOdds.
func (c *Client) FetchScores(ctx context.Context, sportKey string, daysFrom int) ([]models.ScoreRecord, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("daysFrom", strconv.Itoa(daysFrom))
	q.Set("dateFormat", "iso")

	var scores []models.ScoreRecord
	if err := c.getJSON(ctx, "/sports/"+sportKey+"/scores", q, true, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, notFoundIsEmpty bool, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if notFoundIsEmpty && resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
