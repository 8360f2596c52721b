package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Alphteow/major-games-reporting-templates/internal"
)

const (
	FullDocumentFile  = "templates_full.json"
	TemplatesOnlyFile = "templates.json"
)

// WriteJSON writes the templates-only list and the full document into dir.
// Both payloads are encoded and staged as temp files before any rename.
// The full document is renamed last, so templates_full.json only appears
// once templates.json is in place. A failed final rename can still leave a
// fresh templates.json next to an older templates_full.json.
func WriteJSON(doc internal.OutputDocument, dir string) ([]string, error) {
	full, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	templates := doc.Templates
	if templates == nil {
		templates = []internal.TemplateRecord{}
	}
	list, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	payloads := []struct {
		name string
		blob []byte
	}{
		{TemplatesOnlyFile, list},
		{FullDocumentFile, full},
	}

	temps := make([]string, 0, len(payloads))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}
	for _, p := range payloads {
		tmp, err := writeTemp(dir, p.name, append(p.blob, '\n'))
		if err != nil {
			cleanup()
			return nil, err
		}
		temps = append(temps, tmp)
	}

	paths := make([]string, 0, len(payloads))
	for i, p := range payloads {
		dst := filepath.Join(dir, p.name)
		if err := os.Rename(temps[i], dst); err != nil {
			cleanup()
			return paths, err
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

func writeTemp(dir, name string, blob []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(blob); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	// CreateTemp opens with 0600.
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func ExportTemplatesToXLSX(records []internal.TemplateRecord, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{
		"id", "sport", "sport_normalized", "event_category", "gender",
		"event_name", "event_type", "event_type_normalized",
		"template", "fields", "sample_data", "result_type", "is_team", "competition_flow",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range records {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.ID)
		set(2, row.Sport)
		set(3, row.SportNormalized)
		set(4, row.EventCategory)
		set(5, row.Gender)
		set(6, row.EventName)
		set(7, row.EventType)
		set(8, row.EventTypeNormalized)
		set(9, row.Template)
		set(10, strings.Join(row.Fields, ", "))
		set(11, row.SampleData)
		set(12, string(row.ResultType))
		set(13, row.IsTeam)
		set(14, strings.Join(row.CompetitionFlow, ", "))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
