package models

import (
	"encoding/json"
	"time"
)

// Market keys used by The Odds API.
const (
	MarketH2H    = "h2h"
	MarketTotals = "totals"
)

// SportDescriptor is one entry of the /sports catalog.
type SportDescriptor struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Active bool   `json:"active,omitempty"`
}

// OddsEvent represents one scheduled match with all bookmaker quotes attached.
// CommenceTime is kept as the raw ISO string and parsed per event: a broken
// timestamp drops that event only, not the whole snapshot.
type OddsEvent struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

type Market struct {
	Key      string    `json:"key"` // "h2h", "totals"
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is a single quoted selection. Price is a json.Number so a malformed
// price skips this outcome instead of failing the whole event decode.
type Outcome struct {
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
	Point *float64    `json:"point,omitempty"`
}

// DisplayName returns the bookmaker title, falling back to its key.
func (b Bookmaker) DisplayName() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Key
}

// ScoreRecord is one entry of the /scores response.
type ScoreRecord struct {
	ID        string      `json:"id"`
	SportKey  string      `json:"sport_key"`
	HomeTeam  string      `json:"home_team"`
	AwayTeam  string      `json:"away_team"`
	Completed bool        `json:"completed"`
	Scores    []TeamScore `json:"scores"`
}

type TeamScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// Candidate is the single best-priced qualifying outcome of one selection
// pass. It is never persisted, only its Key() is.
type Candidate struct {
	SportKey     string
	EventID      string
	CommenceTime time.Time
	Home         string
	Away         string
	Market       string // MarketH2H or MarketTotals
	Selection    string // team name for h2h, "over"/"under" for totals
	Line         *float64
	Price        float64
	Bookmaker    string
}

// Key returns the dedup identity of the pick.
func (c Candidate) Key() string {
	return EventKey(c.SportKey, c.EventID, c.Market)
}
