// Package picker reduces odds snapshots to at most one candidate wager.
package picker

import (
	"log/slog"
	"strings"
	"time"

	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
)

// LookAhead bounds how far into the future an eligible match may commence.
const LookAhead = 36 * time.Hour

// Band is the inclusive acceptable price range. Prices above it are long
// shots we avoid, prices below it are not worth announcing.
type Band struct {
	Min float64
	Max float64
}

func (b Band) Contains(price float64) bool {
	return price >= b.Min && price <= b.Max
}

// BestCandidate scans the supplied events and returns the single best-priced
// qualifying outcome, or nil if nothing qualifies.
//
// The pass is deterministic: events, then bookmakers, then markets, then
// outcomes, and a new outcome replaces the running best only when its price
// is strictly greater. On a price tie the earliest-seen candidate wins, which
// keeps repeat runs over the same snapshot stable.
//
// Eligibility: commence time must parse, must not be in the past and must be
// at most LookAhead ahead of now. Both window edges are inclusive. A broken
// commence time or price skips that unit only, never the whole snapshot.
func BestCandidate(events []models.OddsEvent, now time.Time, band Band) *models.Candidate {
	horizon := now.Add(LookAhead)

	var best *models.Candidate
	for _, ev := range events {
		commence, err := time.Parse(time.RFC3339, ev.CommenceTime)
		if err != nil {
			slog.Debug("Skipping event with unparsable commence time",
				"event_id", ev.ID, "commence_time", ev.CommenceTime)
			continue
		}
		if commence.Before(now) || commence.After(horizon) {
			continue
		}

		for _, bm := range ev.Bookmakers {
			for _, mk := range bm.Markets {
				switch mk.Key {
				case models.MarketH2H:
					for _, o := range mk.Outcomes {
						if o.Name == "" {
							continue
						}
						price, err := o.Price.Float64()
						if err != nil {
							continue
						}
						if !band.Contains(price) {
							continue
						}
						cand := models.Candidate{
							SportKey:     ev.SportKey,
							EventID:      ev.ID,
							CommenceTime: commence,
							Home:         ev.HomeTeam,
							Away:         ev.AwayTeam,
							Market:       models.MarketH2H,
							Selection:    o.Name,
							Price:        price,
							Bookmaker:    bm.DisplayName(),
						}
						best = Better(best, &cand)
					}
				case models.MarketTotals:
					for _, o := range mk.Outcomes {
						price, err := o.Price.Float64()
						if err != nil {
							continue
						}
						name := strings.ToLower(o.Name)
						if o.Point == nil || (name != "over" && name != "under") {
							continue
						}
						if !band.Contains(price) {
							continue
						}
						line := *o.Point
						cand := models.Candidate{
							SportKey:     ev.SportKey,
							EventID:      ev.ID,
							CommenceTime: commence,
							Home:         ev.HomeTeam,
							Away:         ev.AwayTeam,
							Market:       models.MarketTotals,
							Selection:    name,
							Line:         &line,
							Price:        price,
							Bookmaker:    bm.DisplayName(),
						}
						best = Better(best, &cand)
					}
				}
			}
		}
	}
	return best
}

// Better applies the selection rule to two candidates: the challenger wins
// only with a strictly greater price. The same rule merges per-sport results
// into one global reduction, so selection does not depend on how many fetch
// calls produced the events.
func Better(current, challenger *models.Candidate) *models.Candidate {
	if challenger == nil {
		return current
	}
	if current == nil || challenger.Price > current.Price {
		return challenger
	}
	return current
}
