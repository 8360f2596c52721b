package pipeline

import (
	"strings"

	"github.com/Alphteow/major-games-reporting-templates/internal/util"
)

// REGU and DUILIAN are the sepak takraw and wushu words for a team entry.
var teamKeywords = []string{
	"TEAM", "RELAY", "DOUBLES", "PAIRS", "CREW", "TOURNAMENT",
	"TEAM_MEMBERS", "PLAYER_NAMES", "REGU", "DUILIAN",
}

// InferTeamFlag is a substring heuristic over the event name, the template
// text and the placeholder names. A keyword appearing incidentally (a venue
// called "Team Arena") yields a false positive.
func InferTeamFlag(eventName, template string, fields []string) bool {
	search := strings.ToUpper(eventName + " " + template + " " + strings.Join(fields, " "))
	return util.ContainsAny(search, teamKeywords)
}
