package picker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

var testBand = Band{Min: 1.70, Max: 2.50}

func h2hEvent(id string, commence time.Time, outcomes ...models.Outcome) models.OddsEvent {
	return models.OddsEvent{
		ID:           id,
		SportKey:     "icehockey_khl",
		CommenceTime: commence.Format(time.RFC3339),
		HomeTeam:     "Avangard",
		AwayTeam:     "CSKA",
		Bookmakers: []models.Bookmaker{
			{Title: "Pinnacle", Markets: []models.Market{
				{Key: models.MarketH2H, Outcomes: outcomes},
			}},
		},
	}
}

func outcome(name, price string) models.Outcome {
	return models.Outcome{Name: name, Price: json.Number(price)}
}

func totalsOutcome(name, price string, point float64) models.Outcome {
	return models.Outcome{Name: name, Price: json.Number(price), Point: &point}
}

func TestBestCandidate_PicksHighestPriceInBand(t *testing.T) {
	events := []models.OddsEvent{
		h2hEvent("ev1", testNow.Add(2*time.Hour),
			outcome("Avangard", "1.85"),
			outcome("CSKA", "2.10"),
		),
	}

	best := BestCandidate(events, testNow, testBand)
	require.NotNil(t, best)
	assert.Equal(t, "CSKA", best.Selection)
	assert.Equal(t, 2.10, best.Price)
	assert.Equal(t, models.MarketH2H, best.Market)
	assert.Equal(t, "Pinnacle", best.Bookmaker)
	assert.Nil(t, best.Line)
}

func TestBestCandidate_TotalsOnlyOverQualifies(t *testing.T) {
	ev := models.OddsEvent{
		ID:           "ev1",
		SportKey:     "icehockey_khl",
		CommenceTime: testNow.Add(2 * time.Hour).Format(time.RFC3339),
		HomeTeam:     "Avangard",
		AwayTeam:     "CSKA",
		Bookmakers: []models.Bookmaker{
			{Title: "Marathon", Markets: []models.Market{
				{Key: models.MarketTotals, Outcomes: []models.Outcome{
					totalsOutcome("Over", "1.95", 5.5),
					totalsOutcome("Under", "3.10", 5.5), // above the band
				}},
			}},
		},
	}

	best := BestCandidate([]models.OddsEvent{ev}, testNow, testBand)
	require.NotNil(t, best)
	assert.Equal(t, models.MarketTotals, best.Market)
	assert.Equal(t, "over", best.Selection)
	require.NotNil(t, best.Line)
	assert.Equal(t, 5.5, *best.Line)
	assert.Equal(t, 1.95, best.Price)
}

func TestBestCandidate_TimeWindow(t *testing.T) {
	tests := []struct {
		name     string
		commence time.Time
		want     bool
	}{
		{"already started", testNow.Add(-time.Hour), false},
		{"exactly now", testNow, true},
		{"within window", testNow.Add(12 * time.Hour), true},
		{"exactly at horizon", testNow.Add(LookAhead), true},
		{"beyond horizon", testNow.Add(LookAhead + time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []models.OddsEvent{
				h2hEvent("ev1", tt.commence, outcome("CSKA", "2.00")),
			}
			best := BestCandidate(events, testNow, testBand)
			if tt.want {
				assert.NotNil(t, best)
			} else {
				assert.Nil(t, best)
			}
		})
	}
}

func TestBestCandidate_BandIsInclusive(t *testing.T) {
	events := []models.OddsEvent{
		h2hEvent("ev1", testNow.Add(time.Hour),
			outcome("Avangard", "1.70"), // exactly the lower bound
			outcome("CSKA", "2.50"),     // exactly the upper bound
			outcome("Dinamo", "2.51"),   // just outside
		),
	}

	best := BestCandidate(events, testNow, testBand)
	require.NotNil(t, best)
	assert.Equal(t, "CSKA", best.Selection)
	assert.GreaterOrEqual(t, best.Price, testBand.Min)
	assert.LessOrEqual(t, best.Price, testBand.Max)
}

func TestBestCandidate_TieKeepsEarliestSeen(t *testing.T) {
	events := []models.OddsEvent{
		h2hEvent("ev1", testNow.Add(time.Hour), outcome("Avangard", "2.10")),
		h2hEvent("ev2", testNow.Add(2*time.Hour), outcome("CSKA", "2.10")),
	}

	best := BestCandidate(events, testNow, testBand)
	require.NotNil(t, best)
	assert.Equal(t, "ev1", best.EventID)
	assert.Equal(t, "Avangard", best.Selection)
}

func TestBestCandidate_SkipsBrokenUnitsOnly(t *testing.T) {
	badTime := h2hEvent("bad-time", testNow.Add(time.Hour), outcome("CSKA", "2.40"))
	badTime.CommenceTime = "not-a-timestamp"

	events := []models.OddsEvent{
		badTime,
		h2hEvent("ok", testNow.Add(time.Hour),
			outcome("", "2.30"),              // no selection name
			models.Outcome{Name: "Avangard"}, // missing price
			outcome("CSKA", "abc"),           // unparsable price
			outcome("Dinamo", "1.95"),
		),
	}

	best := BestCandidate(events, testNow, testBand)
	require.NotNil(t, best)
	assert.Equal(t, "ok", best.EventID)
	assert.Equal(t, "Dinamo", best.Selection)
	assert.Equal(t, 1.95, best.Price)
}

func TestBestCandidate_TotalsRequireLineAndSide(t *testing.T) {
	ev := models.OddsEvent{
		ID:           "ev1",
		SportKey:     "icehockey_khl",
		CommenceTime: testNow.Add(time.Hour).Format(time.RFC3339),
		Bookmakers: []models.Bookmaker{
			{Title: "Marathon", Markets: []models.Market{
				{Key: models.MarketTotals, Outcomes: []models.Outcome{
					outcome("Over", "2.00"),             // no line
					totalsOutcome("Draw", "2.00", 5.5),  // not over/under
					totalsOutcome("UNDER", "1.90", 5.5), // case-insensitive side
				}},
			}},
		},
	}

	best := BestCandidate([]models.OddsEvent{ev}, testNow, testBand)
	require.NotNil(t, best)
	assert.Equal(t, "under", best.Selection)
}

func TestBestCandidate_EmptyInputs(t *testing.T) {
	assert.Nil(t, BestCandidate(nil, testNow, testBand))

	// Event without bookmakers contributes nothing.
	ev := models.OddsEvent{ID: "ev1", CommenceTime: testNow.Add(time.Hour).Format(time.RFC3339)}
	assert.Nil(t, BestCandidate([]models.OddsEvent{ev}, testNow, testBand))
}

func TestBetter_MergesAcrossSports(t *testing.T) {
	khl := &models.Candidate{SportKey: "icehockey_khl", Price: 2.10}
	nhl := &models.Candidate{SportKey: "icehockey_nhl", Price: 2.10}
	nhlHigher := &models.Candidate{SportKey: "icehockey_nhl", Price: 2.20}

	// Equal price: the sport processed first wins.
	assert.Same(t, khl, Better(khl, nhl))
	// Strictly greater replaces.
	assert.Same(t, nhlHigher, Better(khl, nhlHigher))
	assert.Same(t, khl, Better(nil, khl))
	assert.Same(t, khl, Better(khl, nil))
	assert.Nil(t, Better(nil, nil))
}
