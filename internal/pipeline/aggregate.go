package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/Alphteow/major-games-reporting-templates/internal"
	"github.com/Alphteow/major-games-reporting-templates/internal/tables"
)

// Aggregate folds the enriched records into the output document. registered
// carries the identity sport mappings made during the run; they are added to
// sport_mappings without overriding authored entries.
func Aggregate(records []internal.TemplateRecord, tb *tables.Tables, registered map[string]string, generatedAt time.Time) internal.OutputDocument {
	templates := make([]internal.TemplateRecord, len(records))
	copy(templates, records)

	sportMappings := tb.SportMappings()
	for raw, canonical := range registered {
		if _, ok := sportMappings[raw]; !ok {
			sportMappings[raw] = canonical
		}
	}

	sports := sportsList(templates)
	counts := map[internal.ResultType]int{}
	team := 0
	for _, r := range templates {
		counts[r.ResultType]++
		if r.IsTeam {
			team++
		}
	}

	return internal.OutputDocument{
		Templates:        templates,
		SportsList:       sports,
		EventsBySport:    eventsBySport(templates),
		SportMappings:    sportMappings,
		RoundMappings:    tb.RoundMappings(),
		CompetitionFlows: tb.CompetitionFlows(),
		Metadata: internal.Metadata{
			TotalTemplates: len(templates),
			TotalSports:    len(sports),
			TeamTemplates:  team,
			ResultTypes:    counts,
			GeneratedAt:    generatedAt.UTC().Format(time.RFC3339),
		},
	}
}

func sportsList(records []internal.TemplateRecord) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range records {
		if r.SportNormalized == "" {
			continue
		}
		if _, ok := seen[r.SportNormalized]; ok {
			continue
		}
		seen[r.SportNormalized] = struct{}{}
		out = append(out, r.SportNormalized)
	}
	sort.Strings(out)
	return out
}

func eventsBySport(records []internal.TemplateRecord) map[string][]string {
	index := map[string]map[string]struct{}{}
	for _, r := range records {
		event := strings.TrimSpace(r.EventName)
		if r.SportNormalized == "" || event == "" {
			continue
		}
		if _, ok := index[r.SportNormalized]; !ok {
			index[r.SportNormalized] = map[string]struct{}{}
		}
		index[r.SportNormalized][event] = struct{}{}
	}

	out := make(map[string][]string, len(index))
	for sport, events := range index {
		list := make([]string, 0, len(events))
		for e := range events {
			list = append(list, e)
		}
		sort.Strings(list)
		out[sport] = list
	}
	return out
}
