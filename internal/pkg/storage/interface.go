package storage

import (
	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
)

// Ledger interface for the posted-events dedup state
type Ledger interface {
	// IsPosted reports whether a pick with this event key was already announced
	IsPosted(eventKey string) (bool, error)

	// Remember records an announced pick. Idempotent append: no-op if the
	// key is already present, persisted immediately on change.
	Remember(eventKey string) error

	// IsResultPosted reports whether the result follow-up for this event key
	// was already announced
	IsResultPosted(eventKey string) (bool, error)

	// RememberResult records an announced result, same contract as Remember
	RememberResult(eventKey string) error

	// PostedKeys returns all recorded pick keys in insertion order
	PostedKeys() ([]string, error)
}

// SportsCache interface for the cached /sports catalog
type SportsCache interface {
	// Load returns the cached catalog, empty if the cache file is absent
	Load() ([]models.SportDescriptor, error)

	// Save replaces the cached catalog
	Save(sports []models.SportDescriptor) error
}
