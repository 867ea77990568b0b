package oddsapi

import (
	"context"
	"log/slog"
	"strings"

	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
	"github.com/icebet20/Ironhockeybot/internal/pkg/storage"
)

// sportsLister is the part of Client the catalog needs.
type sportsLister interface {
	ListSports(ctx context.Context) ([]models.SportDescriptor, error)
}

// Catalog serves the hockey subset of the sport catalog. The full catalog is
// cached on first successful fetch and then served stale indefinitely until
// the cache file is cleared by hand.
type Catalog struct {
	client sportsLister
	cache  storage.SportsCache
}

func NewCatalog(client sportsLister, cache storage.SportsCache) *Catalog {
	return &Catalog{client: client, cache: cache}
}

// HockeySports returns the cached catalog filtered to hockey entries. An
// empty cache triggers one refresh attempt; a failed refresh is logged and
// yields an empty list, never an error — the next scheduled slot retries.
func (c *Catalog) HockeySports(ctx context.Context) []models.SportDescriptor {
	sports, err := c.cache.Load()
	if err != nil {
		slog.Warn("Failed to load sports cache", "error", err)
	}
	if len(sports) == 0 {
		sports, err = c.client.ListSports(ctx)
		if err != nil {
			slog.Warn("Sports catalog refresh failed", "error", err)
			return nil
		}
		if err := c.cache.Save(sports); err != nil {
			slog.Warn("Failed to save sports cache", "error", err)
		}
	}

	var hockey []models.SportDescriptor
	for _, s := range sports {
		if isHockey(s) {
			hockey = append(hockey, s)
		}
	}
	return hockey
}

func isHockey(s models.SportDescriptor) bool {
	return strings.Contains(s.Key, "icehockey") ||
		strings.Contains(strings.ToLower(s.Title), "hockey")
}
