package pipeline

import (
	"strings"

	"github.com/Alphteow/major-games-reporting-templates/internal"
)

const DefaultResultType = internal.ResultScore

// ResolveResultType picks the measurement type for an event: an exact
// sport+event entry first, then the first entry of the sport, then score.
func ResolveResultType(entries []internal.ResultTypeEntry, sportNormalized, eventName string) internal.ResultType {
	sport := strings.TrimSpace(sportNormalized)
	event := strings.TrimSpace(eventName)

	for _, e := range entries {
		if e.ResultType != "" && strings.EqualFold(e.Sport, sport) && strings.EqualFold(e.Event, event) {
			return e.ResultType
		}
	}
	for _, e := range entries {
		if e.ResultType != "" && strings.EqualFold(e.Sport, sport) {
			return e.ResultType
		}
	}
	return DefaultResultType
}
