package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Alphteow/major-games-reporting-templates/internal"
	"github.com/Alphteow/major-games-reporting-templates/internal/config"
	"github.com/Alphteow/major-games-reporting-templates/internal/tables"
)

type Converter struct {
	cfg    config.Config
	tables *tables.Tables
	log    *slog.Logger
	now    func() time.Time
}

func NewConverter(cfg config.Config, tb *tables.Tables, log *slog.Logger) *Converter {
	if log == nil {
		log = slog.Default()
	}
	return &Converter{cfg: cfg, tables: tb, log: log, now: time.Now}
}

type Result struct {
	Document  internal.OutputDocument
	Malformed int
	Timings   map[string]float64
}

func (c *Converter) Convert(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	wb, err := ReadWorkbook(path, SheetNamesFromConfig(c.cfg))
	if err != nil {
		return Result{}, err
	}
	readMs := float64(time.Since(start).Milliseconds())
	c.log.Info("workbook read",
		slog.String("file", path),
		slog.Int("rows", len(wb.Rows)),
		slog.Int("result_types", len(wb.ResultTypes)),
		slog.Int("mappings", len(wb.Mappings)))

	res, err := c.ConvertWorkbook(ctx, wb)
	if err != nil {
		return Result{}, err
	}
	res.Document.Metadata.SourceFile = filepath.Base(path)
	res.Timings["readMs"] = readMs
	res.Timings["totalMs"] = float64(time.Since(start).Milliseconds())
	return res, nil
}

// ConvertWorkbook runs the normalization pass over rows already in memory.
// Rows are processed in document order; ctx is checked between rows.
func (c *Converter) ConvertWorkbook(ctx context.Context, wb Workbook) (Result, error) {
	start := time.Now()
	tb := c.tables.WithMappings(wb.Mappings).WithResultTypes(wb.ResultTypes)
	normalizer := NewNormalizer(c.cfg, tb, c.log)

	records, err := normalizer.NormalizeAll(ctx, wb.Rows)
	if err != nil {
		return Result{}, err
	}

	doc := Aggregate(records, tb, normalizer.Canonicalizer().Registered(), c.now())
	if normalizer.Malformed() > 0 {
		c.log.Warn("rows with unparsable fields", slog.Int("count", normalizer.Malformed()))
	}
	c.log.Info("templates normalized",
		slog.Int("templates", doc.Metadata.TotalTemplates),
		slog.Int("sports", doc.Metadata.TotalSports))

	return Result{
		Document:  doc,
		Malformed: normalizer.Malformed(),
		Timings:   map[string]float64{"normalizeMs": float64(time.Since(start).Milliseconds())},
	}, nil
}
