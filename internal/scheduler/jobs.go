package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/icebet20/Ironhockeybot/internal/composer"
	"github.com/icebet20/Ironhockeybot/internal/picker"
	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
	"github.com/icebet20/Ironhockeybot/internal/pkg/storage"
)

// OddsSource is what the jobs need from the odds API client.
type OddsSource interface {
	FetchOdds(ctx context.Context, sportKey string) ([]models.OddsEvent, error)
	FetchScores(ctx context.Context, sportKey string, daysFrom int) ([]models.ScoreRecord, error)
}

// HockeyCatalog yields the current hockey subset of the sport catalog.
type HockeyCatalog interface {
	HockeySports(ctx context.Context) []models.SportDescriptor
}

// Sender posts one rendered message to the channel.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// PickJob runs once per configured slot: fetch fresh odds for every hockey
// sport, reduce them to one global best candidate, announce it unless the
// same pick went out earlier.
type PickJob struct {
	Catalog  HockeyCatalog
	Source   OddsSource
	Ledger   storage.Ledger
	Composer composer.Composer
	Sender   Sender
	Band     picker.Band

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

func (j *PickJob) Name() string { return "autopost-pick" }

func (j *PickJob) Run(ctx context.Context) error {
	sports := j.Catalog.HockeySports(ctx)
	if len(sports) == 0 {
		slog.Warn("No hockey sports available, skipping slot")
		return nil
	}

	now := j.now()
	var best *models.Candidate
	for _, s := range sports {
		events, err := j.Source.FetchOdds(ctx, s.Key)
		if err != nil {
			// One broken sport must not sink the whole slot.
			slog.Warn("Odds fetch failed", "sport", s.Key, "error", err)
			continue
		}
		best = picker.Better(best, picker.BestCandidate(events, now, j.Band))
	}

	if best == nil {
		slog.Info("No suitable pick in range, skipping this slot")
		return nil
	}

	key := best.Key()
	posted, err := j.Ledger.IsPosted(key)
	if err != nil {
		return fmt.Errorf("ledger check failed: %w", err)
	}
	if posted {
		slog.Info("Already posted, skipping", "event_key", key)
		return nil
	}

	if err := j.Sender.Send(ctx, j.Composer.Pick(*best)); err != nil {
		return fmt.Errorf("failed to send pick: %w", err)
	}
	// Record only after a successful send: an unsent pick may retry next slot.
	if err := j.Ledger.Remember(key); err != nil {
		slog.Warn("Failed to record posted pick", "event_key", key, "error", err)
		return nil
	}

	slog.Info("Posted pick", "event_key", key, "selection", best.Selection,
		"price", best.Price, "bookmaker", best.Bookmaker)
	return nil
}

func (j *PickJob) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now().UTC()
}

// ResultSweepJob runs on a fixed interval: for every sport that ever produced
// an announced pick, fetch recent scores and post the result of each
// completed, previously-announced match exactly once.
type ResultSweepJob struct {
	Source   OddsSource
	Ledger   storage.Ledger
	Composer composer.Composer
	Sender   Sender
	DaysFrom int
}

func (j *ResultSweepJob) Name() string { return "result-sweep" }

func (j *ResultSweepJob) Run(ctx context.Context) error {
	keys, err := j.Ledger.PostedKeys()
	if err != nil {
		return fmt.Errorf("ledger read failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	posted := make(map[string]bool, len(keys))
	for _, k := range keys {
		posted[k] = true
	}

	for _, sport := range models.SportKeysOf(keys) {
		scores, err := j.Source.FetchScores(ctx, sport, j.DaysFrom)
		if err != nil {
			slog.Warn("Scores fetch failed", "sport", sport, "error", err)
			continue
		}

		for _, rec := range scores {
			if rec.ID == "" || !rec.Completed {
				continue
			}
			for _, market := range []string{models.MarketH2H, models.MarketTotals} {
				key := models.EventKey(sport, rec.ID, market)
				if !posted[key] {
					continue
				}
				done, err := j.Ledger.IsResultPosted(key)
				if err != nil {
					slog.Warn("Ledger check failed", "event_key", key, "error", err)
					continue
				}
				if done {
					continue
				}

				text, ok := j.Composer.Result(rec)
				if !ok {
					// Score list does not resolve both teams yet, retry next sweep.
					continue
				}
				if err := j.Sender.Send(ctx, text); err != nil {
					slog.Warn("Result post failed", "event_key", key, "error", err)
					continue
				}
				if err := j.Ledger.RememberResult(key); err != nil {
					slog.Warn("Failed to record posted result", "event_key", key, "error", err)
				}
				slog.Info("Posted result", "event_key", key)
			}
		}
	}
	return nil
}
