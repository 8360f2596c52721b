package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Alphteow/major-games-reporting-templates/internal"
	"github.com/Alphteow/major-games-reporting-templates/internal/config"
	"github.com/Alphteow/major-games-reporting-templates/internal/tables"
)

func writeFixtureWorkbook(t *testing.T, dir string) string {
	t.Helper()
	blob := mkXLSX(t, map[string][][]any{
		"All Templates": {
			templateHeader,
			{"AQUATICS SWIMMING", "Men", "Individual", "100m Freestyle", "Final", "{gold_athlete} ({gold_country}) wins in {gold_time}", "['gold_athlete','gold_country','gold_time']", "Lee|SGP|52.10"},
			{"ATHLETICS", "Women", "Field", "High Jump", "Final", "{gold_athlete} clears {gold_height}", "['gold_athlete','gold_height']", "Tan|1.92"},
			{"Sepaktakraw", "Men", "Team", "Regu", "Semi-Final", "{team_a} beat {team_b}", "['team_a','team_b']", ""},
			{"KITE FLYING", "Mixed", "Open", "Freestyle", "Round 1", "{winner}", "not a list", ""},
		},
		"Result Types": {
			{"sport", "event_name", "result_type"},
			{"SEPAK TAKRAW", "", "score"},
			{"KITE FLYING", "Freestyle", "distance"},
		},
		"Mappings": {
			{"kind", "raw", "canonical"},
			{"round", "Round 1", "PRELIMINARY ROUND"},
		},
	})
	path := filepath.Join(dir, "sports_templates.xlsx")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSmokeWorkbookToJSON(t *testing.T) {
	tmp := t.TempDir()
	input := writeFixtureWorkbook(t, tmp)

	cfg := config.Config{
		TemplatesSheet:   "All Templates",
		ResultTypesSheet: "Result Types",
		MappingsSheet:    "Mappings",
		IDPrefix:         "T",
		IDWidth:          4,
	}
	conv := NewConverter(cfg, tables.Default(), nil)
	conv.now = func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }

	res, err := conv.Convert(context.Background(), input)
	if err != nil {
		t.Fatal(err)
	}
	doc := res.Document
	if doc.Metadata.TotalTemplates != 4 || doc.Metadata.SourceFile != "sports_templates.xlsx" {
		t.Fatalf("metadata=%+v", doc.Metadata)
	}
	if res.Malformed != 1 {
		t.Fatalf("malformed=%d", res.Malformed)
	}

	byID := map[string]internal.TemplateRecord{}
	for _, r := range doc.Templates {
		byID[r.ID] = r
	}
	if r := byID["T0002"]; r.ResultType != internal.ResultHeight {
		t.Fatalf("high jump=%+v", r)
	}
	if r := byID["T0003"]; r.SportNormalized != "SEPAK TAKRAW" || !r.IsTeam || r.EventTypeNormalized != "SEMI-FINALS" {
		t.Fatalf("takraw=%+v", r)
	}
	if r := byID["T0004"]; r.ResultType != internal.ResultDistance || r.EventTypeNormalized != "PRELIMINARY ROUND" || len(r.Fields) != 0 {
		t.Fatalf("kite=%+v", r)
	}

	out := filepath.Join(tmp, "out")
	paths, err := WriteJSON(doc, out)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths=%v", paths)
	}

	blob, err := os.ReadFile(filepath.Join(out, TemplatesOnlyFile))
	if err != nil {
		t.Fatal(err)
	}
	var list []internal.TemplateRecord
	if err := json.Unmarshal(blob, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 4 {
		t.Fatalf("len=%d", len(list))
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("leftover files: %v", entries)
	}
	for _, name := range []string{TemplatesOnlyFile, FullDocumentFile} {
		info, err := os.Stat(filepath.Join(out, name))
		if err != nil {
			t.Fatal(err)
		}
		if got := info.Mode().Perm(); got != 0o644 {
			t.Fatalf("%s: got %v want %v", name, got, os.FileMode(0o644))
		}
	}
}

func TestConvertIdempotent(t *testing.T) {
	tmp := t.TempDir()
	input := writeFixtureWorkbook(t, tmp)
	cfg := config.Config{
		TemplatesSheet:   "All Templates",
		ResultTypesSheet: "Result Types",
		MappingsSheet:    "Mappings",
		IDPrefix:         "T",
		IDWidth:          4,
	}
	at := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	dirs := []string{filepath.Join(tmp, "first"), filepath.Join(tmp, "second")}
	for _, dir := range dirs {
		conv := NewConverter(cfg, tables.Default(), nil)
		conv.now = func() time.Time { return at }
		res, err := conv.Convert(context.Background(), input)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := WriteJSON(res.Document, dir); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{TemplatesOnlyFile, FullDocumentFile} {
		first, err := os.ReadFile(filepath.Join(dirs[0], name))
		if err != nil {
			t.Fatal(err)
		}
		second, err := os.ReadFile(filepath.Join(dirs[1], name))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("%s differs between runs", name)
		}
	}
}

func TestWriteJSONFullDocumentRenamedLast(t *testing.T) {
	out := t.TempDir()
	// A non-empty directory in the way makes the first rename fail.
	if err := os.MkdirAll(filepath.Join(out, TemplatesOnlyFile, "x"), 0o755); err != nil {
		t.Fatal(err)
	}

	doc := internal.OutputDocument{Templates: []internal.TemplateRecord{{ID: "T0001", Fields: []string{}, CompetitionFlow: []string{}}}}
	if _, err := WriteJSON(doc, out); err == nil {
		t.Fatal("expected rename error")
	}

	if _, err := os.Stat(filepath.Join(out, FullDocumentFile)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("full document written after failed rename: %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != TemplatesOnlyFile {
		t.Fatalf("leftover files: %v", entries)
	}
}

func TestConvertCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := NewConverter(config.Config{IDPrefix: "T", IDWidth: 4}, tables.Default(), nil)
	_, err := conv.ConvertWorkbook(ctx, Workbook{Rows: []internal.RawRow{{Sport: "Judo"}}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}

func TestExportTemplatesToXLSX(t *testing.T) {
	n := newTestNormalizer()
	records := normalizeRows(t, n, []internal.RawRow{
		{Sport: "Swimming", EventName: "4x100m Medley Relay", EventType: "Final", Template: "{team_members}", Fields: "['team_members']"},
	})

	out := filepath.Join(t.TempDir(), "review", "templates.xlsx")
	if err := ExportTemplatesToXLSX(records, out); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d", len(rows))
	}
	if rows[1][0] != "T0001" || rows[1][2] != "SWIMMING" || rows[1][13] != "HEAT, FINALS" {
		t.Fatalf("row=%v", rows[1])
	}
}
