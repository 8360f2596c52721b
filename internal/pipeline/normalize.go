package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alphteow/major-games-reporting-templates/internal"
	"github.com/Alphteow/major-games-reporting-templates/internal/config"
	"github.com/Alphteow/major-games-reporting-templates/internal/tables"
	"github.com/Alphteow/major-games-reporting-templates/internal/util"
)

type Normalizer struct {
	canon       *Canonicalizer
	resultTypes []internal.ResultTypeEntry
	idPrefix    string
	idWidth     int
	log         *slog.Logger

	malformed int
}

func NewNormalizer(cfg config.Config, tb *tables.Tables, log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.Default()
	}
	width := cfg.IDWidth
	if width <= 0 {
		width = 4
	}
	return &Normalizer{
		canon:       NewCanonicalizer(tb),
		resultTypes: tb.ResultTypes(),
		idPrefix:    cfg.IDPrefix,
		idWidth:     width,
		log:         log,
	}
}

// Normalize enriches one raw row. It never fails: malformed or missing
// inputs degrade to empty values and defaults.
func (n *Normalizer) Normalize(row internal.RawRow, index int) internal.TemplateRecord {
	fields := n.parseFields(row)
	sport := n.canon.Sport(row.Sport)

	return internal.TemplateRecord{
		ID:                  n.templateID(index),
		Sport:               row.Sport,
		SportNormalized:     sport,
		EventCategory:       row.EventCategory,
		Gender:              row.Gender,
		EventName:           row.EventName,
		EventType:           row.EventType,
		EventTypeNormalized: n.canon.Round(row.EventType),
		Template:            row.Template,
		Fields:              fields,
		SampleData:          row.SampleData,
		ResultType:          ResolveResultType(n.resultTypes, sport, row.EventName),
		IsTeam:              InferTeamFlag(row.EventName, row.Template, fields),
		CompetitionFlow:     n.canon.Flow(sport),
	}
}

// NormalizeAll enriches rows in document order. ctx is checked before each
// row so an interrupted run returns no records.
func (n *Normalizer) NormalizeAll(ctx context.Context, rows []internal.RawRow) ([]internal.TemplateRecord, error) {
	out := make([]internal.TemplateRecord, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, n.Normalize(row, i))
	}
	return out, nil
}

func (n *Normalizer) Canonicalizer() *Canonicalizer { return n.canon }

// Malformed counts rows whose fields cell could not be parsed.
func (n *Normalizer) Malformed() int { return n.malformed }

func (n *Normalizer) templateID(index int) string {
	return fmt.Sprintf("%s%0*d", n.idPrefix, n.idWidth, index+1)
}

// parseFields keeps only names that occur as placeholders in the template.
// A template with no placeholders yields an empty list.
func (n *Normalizer) parseFields(row internal.RawRow) []string {
	parsed, err := util.ParseFieldList(row.Fields)
	if err != nil {
		n.malformed++
		n.log.Debug("unparsable fields, using empty list",
			slog.Int("row", row.RowNumber),
			slog.String("fields", row.Fields),
			slog.Any("error", err))
		return []string{}
	}
	parsed = util.UniqueStrings(parsed)

	placeholders := util.Placeholders(row.Template)
	known := make(map[string]struct{}, len(placeholders))
	for _, p := range placeholders {
		known[p] = struct{}{}
	}
	out := make([]string, 0, len(parsed))
	for _, f := range parsed {
		if _, ok := known[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
