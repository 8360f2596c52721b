package tables

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Alphteow/major-games-reporting-templates/internal"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Tables holds the lookup data used by the normalization pipeline. A Tables
// value is never mutated after construction; Merge and the With* helpers
// return new values.
type Tables struct {
	sports      map[string]string
	rounds      map[string]string
	flows       map[string][]string
	resultTypes []internal.ResultTypeEntry
}

type fileSchema struct {
	SportMappings    map[string]string          `yaml:"sport_mappings"`
	RoundMappings    map[string]string          `yaml:"round_mappings"`
	CompetitionFlows map[string][]string        `yaml:"competition_flows"`
	ResultTypes      []internal.ResultTypeEntry `yaml:"result_types"`
}

func Default() *Tables {
	t, err := Parse(defaultsYAML)
	if err != nil {
		panic(fmt.Sprintf("tables: embedded defaults: %v", err))
	}
	return t
}

// Load returns the built-in tables with the YAML file at path merged over
// them. An empty path yields the defaults.
func Load(path string) (*Tables, error) {
	base := Default()
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables %s: %w", path, err)
	}
	override, err := Parse(blob)
	if err != nil {
		return nil, fmt.Errorf("parse tables %s: %w", path, err)
	}
	return base.Merge(override), nil
}

func Parse(blob []byte) (*Tables, error) {
	var schema fileSchema
	if err := yaml.Unmarshal(blob, &schema); err != nil {
		return nil, err
	}

	t := &Tables{
		sports: map[string]string{},
		rounds: map[string]string{},
		flows:  map[string][]string{},
	}
	for raw, canonical := range schema.SportMappings {
		t.sports[raw] = strings.ToUpper(strings.TrimSpace(canonical))
	}
	for raw, canonical := range schema.RoundMappings {
		t.rounds[raw] = strings.TrimSpace(canonical)
	}
	for sport, flow := range schema.CompetitionFlows {
		t.flows[strings.ToUpper(strings.TrimSpace(sport))] = cloneStrings(flow)
	}
	for _, entry := range schema.ResultTypes {
		if e, ok := cleanEntry(entry); ok {
			t.resultTypes = append(t.resultTypes, e)
		}
	}
	return t, nil
}

// Merge returns a new Tables where entries of over win. Result-type entries
// of over are consulted before the receiver's.
func (t *Tables) Merge(over *Tables) *Tables {
	out := t.clone()
	if over == nil {
		return out
	}
	for k, v := range over.sports {
		out.sports[k] = v
	}
	for k, v := range over.rounds {
		out.rounds[k] = v
	}
	for k, v := range over.flows {
		out.flows[k] = cloneStrings(v)
	}
	out.resultTypes = append(append([]internal.ResultTypeEntry{}, over.resultTypes...), t.resultTypes...)
	return out
}

// WithMappings merges sport/round rows coming from a workbook mapping sheet.
func (t *Tables) WithMappings(entries []internal.MappingEntry) *Tables {
	out := t.clone()
	for _, e := range entries {
		raw := e.Raw
		canonical := strings.TrimSpace(e.Canonical)
		if strings.TrimSpace(raw) == "" || canonical == "" {
			continue
		}
		switch e.Kind {
		case internal.MappingSport:
			out.sports[raw] = strings.ToUpper(canonical)
		case internal.MappingRound:
			out.rounds[raw] = canonical
		}
	}
	return out
}

// WithResultTypes puts entries ahead of the existing result-type entries.
func (t *Tables) WithResultTypes(entries []internal.ResultTypeEntry) *Tables {
	out := t.clone()
	cleaned := make([]internal.ResultTypeEntry, 0, len(entries)+len(out.resultTypes))
	for _, e := range entries {
		if c, ok := cleanEntry(e); ok {
			cleaned = append(cleaned, c)
		}
	}
	out.resultTypes = append(cleaned, out.resultTypes...)
	return out
}

func (t *Tables) Sport(raw string) (string, bool) {
	v, ok := t.sports[raw]
	return v, ok
}

func (t *Tables) Round(raw string) (string, bool) {
	v, ok := t.rounds[raw]
	return v, ok
}

func (t *Tables) Flow(sport string) ([]string, bool) {
	v, ok := t.flows[sport]
	if !ok {
		return nil, false
	}
	return cloneStrings(v), true
}

func (t *Tables) ResultTypes() []internal.ResultTypeEntry {
	return append([]internal.ResultTypeEntry(nil), t.resultTypes...)
}

func (t *Tables) SportMappings() map[string]string { return cloneMap(t.sports) }

func (t *Tables) RoundMappings() map[string]string { return cloneMap(t.rounds) }

func (t *Tables) CompetitionFlows() map[string][]string {
	out := make(map[string][]string, len(t.flows))
	for k, v := range t.flows {
		out[k] = cloneStrings(v)
	}
	return out
}

// Dump renders the tables in the same YAML schema Load accepts.
func (t *Tables) Dump() ([]byte, error) {
	return yaml.Marshal(fileSchema{
		SportMappings:    t.SportMappings(),
		RoundMappings:    t.RoundMappings(),
		CompetitionFlows: t.CompetitionFlows(),
		ResultTypes:      t.ResultTypes(),
	})
}

// Sports lists the canonical sport names known to the tables, sorted.
func (t *Tables) Sports() []string {
	seen := map[string]struct{}{}
	for _, v := range t.sports {
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (t *Tables) clone() *Tables {
	return &Tables{
		sports:      cloneMap(t.sports),
		rounds:      cloneMap(t.rounds),
		flows:       t.CompetitionFlows(),
		resultTypes: t.ResultTypes(),
	}
}

func cleanEntry(e internal.ResultTypeEntry) (internal.ResultTypeEntry, bool) {
	e.Sport = strings.TrimSpace(e.Sport)
	e.Event = strings.TrimSpace(e.Event)
	e.ResultType = internal.ResultType(strings.ToLower(strings.TrimSpace(string(e.ResultType))))
	if e.Sport == "" || e.ResultType == "" {
		return e, false
	}
	return e, true
}

func cloneMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
