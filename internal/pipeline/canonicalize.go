package pipeline

import (
	"strings"

	"github.com/Alphteow/major-games-reporting-templates/internal/tables"
)

var DefaultFlow = []string{"PRELIMINARY ROUND", "FINALS"}

// Canonicalizer resolves sport and round names against the lookup tables.
// Keys match exactly as authored. Sports missing from the tables are trimmed,
// uppercased and remembered for the rest of the run; the tables themselves
// are never touched.
type Canonicalizer struct {
	tables     *tables.Tables
	registered map[string]string
}

func NewCanonicalizer(tb *tables.Tables) *Canonicalizer {
	return &Canonicalizer{tables: tb, registered: map[string]string{}}
}

func (c *Canonicalizer) Sport(raw string) string {
	if v, ok := c.tables.Sport(raw); ok {
		return v
	}
	if v, ok := c.registered[raw]; ok {
		return v
	}

	canonical := strings.ToUpper(strings.TrimSpace(raw))
	if canonical == "" {
		return ""
	}
	c.registered[raw] = canonical
	c.registered[canonical] = canonical
	return canonical
}

// Round passes unmapped labels through untouched. Unlike Sport there is no
// uppercasing fallback.
func (c *Canonicalizer) Round(raw string) string {
	if v, ok := c.tables.Round(raw); ok {
		return v
	}
	return raw
}

func (c *Canonicalizer) Flow(sportNormalized string) []string {
	if flow, ok := c.tables.Flow(sportNormalized); ok {
		return flow
	}
	return append([]string(nil), DefaultFlow...)
}

// Registered returns the identity mappings added during this run.
func (c *Canonicalizer) Registered() map[string]string {
	out := make(map[string]string, len(c.registered))
	for k, v := range c.registered {
		out[k] = v
	}
	return out
}
