package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Alphteow/major-games-reporting-templates/internal"
	"github.com/Alphteow/major-games-reporting-templates/internal/config"
	"github.com/Alphteow/major-games-reporting-templates/internal/util"
)

var ErrMissingSheet = errors.New("missing sheet")

type SheetNames struct {
	Templates   string
	ResultTypes string
	Mappings    string
}

func SheetNamesFromConfig(cfg config.Config) SheetNames {
	return SheetNames{
		Templates:   cfg.TemplatesSheet,
		ResultTypes: cfg.ResultTypesSheet,
		Mappings:    cfg.MappingsSheet,
	}
}

// Workbook is everything the pipeline consumes from the source file.
type Workbook struct {
	Rows        []internal.RawRow
	ResultTypes []internal.ResultTypeEntry
	Mappings    []internal.MappingEntry
}

var headerAliases = map[string]string{
	"category":       "event_category",
	"event":          "event_name",
	"round":          "event_type",
	"placeholders":   "fields",
	"sample":         "sample_data",
	"type":           "result_type",
	"raw_name":       "raw",
	"canonical_name": "canonical",
}

type tableRow struct {
	Number int
	Cells  map[string]string
}

func ReadWorkbook(path string, names SheetNames) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Workbook{}, err
	}
	defer f.Close()
	return readWorkbook(f, names)
}

func ReadWorkbookBytes(content []byte, names SheetNames) (Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Workbook{}, err
	}
	defer f.Close()
	return readWorkbook(f, names)
}

func readWorkbook(f *excelize.File, names SheetNames) (Workbook, error) {
	var wb Workbook

	templates, err := readRequiredTable(f, names.Templates)
	if err != nil {
		return Workbook{}, err
	}
	for _, row := range templates {
		wb.Rows = append(wb.Rows, internal.RawRow{
			RowNumber:     row.Number,
			Sport:         row.Cells["sport"],
			Gender:        row.Cells["gender"],
			EventCategory: row.Cells["event_category"],
			EventName:     row.Cells["event_name"],
			EventType:     row.Cells["event_type"],
			Template:      row.Cells["template"],
			Fields:        row.Cells["fields"],
			SampleData:    row.Cells["sample_data"],
		})
	}

	resultTypes, err := readRequiredTable(f, names.ResultTypes)
	if err != nil {
		return Workbook{}, err
	}
	for _, row := range resultTypes {
		entry := internal.ResultTypeEntry{
			Sport:      row.Cells["sport"],
			Event:      row.Cells["event_name"],
			ResultType: internal.ResultType(strings.ToLower(row.Cells["result_type"])),
		}
		if entry.Sport == "" || entry.ResultType == "" {
			continue
		}
		wb.ResultTypes = append(wb.ResultTypes, entry)
	}

	if sheet, ok := findSheet(f, names.Mappings); ok {
		mappings, err := readTable(f, sheet)
		if err != nil {
			return Workbook{}, err
		}
		for _, row := range mappings {
			kind := internal.MappingKind(strings.ToLower(row.Cells["kind"]))
			if kind != internal.MappingSport && kind != internal.MappingRound {
				continue
			}
			wb.Mappings = append(wb.Mappings, internal.MappingEntry{
				Kind:      kind,
				Raw:       row.Cells["raw"],
				Canonical: row.Cells["canonical"],
			})
		}
	}

	return wb, nil
}

func readRequiredTable(f *excelize.File, name string) ([]tableRow, error) {
	sheet, ok := findSheet(f, name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrMissingSheet, name, strings.Join(f.GetSheetList(), ", "))
	}
	return readTable(f, sheet)
}

// findSheet matches the sheet name exactly, then case-insensitively.
func findSheet(f *excelize.File, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	list := f.GetSheetList()
	for _, s := range list {
		if s == name {
			return s, true
		}
	}
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return s, true
		}
	}
	return "", false
}

// readTable decodes a sheet whose first non-empty row is the header.
// Blank rows are skipped; missing cells read as "".
func readTable(f *excelize.File, sheet string) ([]tableRow, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var headers []string
	out := []tableRow{}
	for i, row := range rows {
		cells := normalizeCells(row)
		if isBlank(cells) {
			continue
		}
		if headers == nil {
			headers = headerKeys(cells)
			continue
		}

		values := make(map[string]string, len(headers))
		for idx, key := range headers {
			if key == "" {
				continue
			}
			values[key] = pickCell(cells, idx)
		}
		out = append(out, tableRow{Number: i + 1, Cells: values})
	}
	return out, nil
}

func headerKeys(cells []string) []string {
	keys := make([]string, len(cells))
	for i, c := range cells {
		key := util.NormalizeHeader(c)
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}
		keys[i] = key
	}
	return keys
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return cells[idx]
	}
	return ""
}

func normalizeCells(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		out = append(out, strings.TrimSpace(c))
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
