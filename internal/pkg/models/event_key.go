package models

import "strings"

const eventKeySep = "::"

// EventKey builds the stable dedup identifier for one announced pick.
//
// Format: sportKey::eventID::market. The same key later correlates a score
// lookup back to the announced pick, so once recorded it is never rewritten.
func EventKey(sportKey, eventID, market string) string {
	return sportKey + eventKeySep + eventID + eventKeySep + market
}

// SportKeyOf extracts the sport key part of an event key. Returns "" for a
// malformed key.
func SportKeyOf(eventKey string) string {
	parts := strings.SplitN(eventKey, eventKeySep, 2)
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}
	return parts[0]
}

// SportKeysOf returns the distinct sport keys appearing in the given event
// keys, in first-seen order. Malformed keys are skipped.
func SportKeysOf(eventKeys []string) []string {
	seen := make(map[string]bool, len(eventKeys))
	var out []string
	for _, k := range eventKeys {
		sport := SportKeyOf(k)
		if sport == "" || seen[sport] {
			continue
		}
		seen[sport] = true
		out = append(out, sport)
	}
	return out
}
