package event_target

import (
	"github.com/agnivade/levenshtein"
)

// Suggest returns the registered event type closest to eventType, if one lies
// within the configured edit distance. Ties go to the lexically smaller type.
func (d *EventDispatcher) Suggest(eventType EventType) (EventType, bool) {
	if d.suggestDistance <= 0 {
		return "", false
	}

	best, bestDist := "", d.suggestDistance+1
	for _, candidate := range d.EventTypes() {
		if candidate == eventType {
			continue
		}
		dist := levenshtein.ComputeDistance(eventType, candidate)
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best, best != ""
}
