package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
)

func TestFileLedger_RememberThenIsPosted(t *testing.T) {
	l := NewFileLedger(filepath.Join(t.TempDir(), "posted_events.json"))

	posted, err := l.IsPosted("icehockey_nhl::ev1::h2h")
	require.NoError(t, err)
	assert.False(t, posted)

	require.NoError(t, l.Remember("icehockey_nhl::ev1::h2h"))

	posted, err = l.IsPosted("icehockey_nhl::ev1::h2h")
	require.NoError(t, err)
	assert.True(t, posted)
}

func TestFileLedger_RememberIsIdempotent(t *testing.T) {
	l := NewFileLedger(filepath.Join(t.TempDir(), "posted_events.json"))

	require.NoError(t, l.Remember("icehockey_nhl::ev1::h2h"))
	require.NoError(t, l.Remember("icehockey_nhl::ev1::h2h"))

	keys, err := l.PostedKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"icehockey_nhl::ev1::h2h"}, keys)
}

func TestFileLedger_ResultsTrackedSeparately(t *testing.T) {
	l := NewFileLedger(filepath.Join(t.TempDir(), "posted_events.json"))

	require.NoError(t, l.Remember("icehockey_khl::ev2::totals"))

	got, err := l.IsResultPosted("icehockey_khl::ev2::totals")
	require.NoError(t, err)
	assert.False(t, got, "posting a pick must not mark its result as posted")

	require.NoError(t, l.RememberResult("icehockey_khl::ev2::totals"))
	require.NoError(t, l.RememberResult("icehockey_khl::ev2::totals"))

	got, err = l.IsResultPosted("icehockey_khl::ev2::totals")
	require.NoError(t, err)
	assert.True(t, got)

	// Результаты не попадают в список пиков.
	keys, err := l.PostedKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"icehockey_khl::ev2::totals"}, keys)
}

func TestFileLedger_SurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted_events.json")

	l := NewFileLedger(path)
	require.NoError(t, l.Remember("icehockey_nhl::a::h2h"))
	require.NoError(t, l.Remember("icehockey_nhl::b::totals"))
	require.NoError(t, l.RememberResult("icehockey_nhl::a::h2h"))

	reloaded := NewFileLedger(path)
	keys, err := reloaded.PostedKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"icehockey_nhl::a::h2h", "icehockey_nhl::b::totals"}, keys)

	got, err := reloaded.IsResultPosted("icehockey_nhl::a::h2h")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestFileLedger_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted_events.json")
	require.NoError(t, os.WriteFile(path, []byte("{not-json"), 0o644))

	l := NewFileLedger(path)
	_, err := l.IsPosted("whatever")
	assert.Error(t, err)
}

func TestFileSportsCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sports_cache.json")
	c := NewFileSportsCache(path)

	empty, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, empty)

	sports := []models.SportDescriptor{
		{Key: "icehockey_nhl", Title: "NHL", Active: true},
		{Key: "icehockey_sweden_hockey_league", Title: "SHL"},
	}
	require.NoError(t, c.Save(sports))

	got, err := NewFileSportsCache(path).Load()
	require.NoError(t, err)
	assert.Equal(t, sports, got)
}
