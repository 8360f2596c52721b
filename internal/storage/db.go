package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Alphteow/major-games-reporting-templates/internal"
)

const metaLastRunID = "last_run_id"

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  sourceFile TEXT,
  generatedAt TEXT NOT NULL,
  totalTemplates INTEGER NOT NULL,
  totalSports INTEGER NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS templates (
  runId TEXT NOT NULL,
  templateId TEXT NOT NULL,
  sport TEXT,
  sportNormalized TEXT,
  eventName TEXT,
  eventTypeNormalized TEXT,
  resultType TEXT NOT NULL,
  isTeam INTEGER NOT NULL,
  recordJson TEXT NOT NULL,
  PRIMARY KEY(runId, templateId),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_templates_sport ON templates(sportNormalized);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// InsertRun stores the document's templates under a new run id in one
// transaction and returns the id.
func (d *DB) InsertRun(ctx context.Context, doc internal.OutputDocument, timings map[string]float64) (string, error) {
	runID := uuid.NewString()
	timingsJSON, _ := json.Marshal(timings)

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, sourceFile, generatedAt, totalTemplates, totalSports, timingsJson)
VALUES (?, ?, ?, ?, ?, ?)
`, runID, doc.Metadata.SourceFile, doc.Metadata.GeneratedAt, doc.Metadata.TotalTemplates, doc.Metadata.TotalSports, string(timingsJSON)); err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO templates (runId, templateId, sport, sportNormalized, eventName, eventTypeNormalized, resultType, isTeam, recordJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, r := range doc.Templates {
		recordJSON, err := json.Marshal(r)
		if err != nil {
			return "", err
		}
		if _, err := stmt.ExecContext(ctx,
			runID, r.ID, r.Sport, r.SportNormalized, r.EventName, r.EventTypeNormalized,
			string(r.ResultType), r.IsTeam, string(recordJSON),
		); err != nil {
			return "", fmt.Errorf("insert template %s: %w", r.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, metaLastRunID, runID); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

func (d *DB) ListRuns(ctx context.Context, limit int) ([]internal.RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.QueryContext(ctx, `
SELECT id, COALESCE(sourceFile, ''), generatedAt, totalTemplates, totalSports, timingsJson, createdAt
FROM runs ORDER BY createdAt DESC, rowid DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var row internal.RunRow
		if err := rows.Scan(&row.ID, &row.SourceFile, &row.GeneratedAt, &row.TotalTemplates, &row.TotalSports, &row.TimingsJSON, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetRunTemplates returns a run's templates in the order they were stored,
// which is document order.
func (d *DB) GetRunTemplates(ctx context.Context, runID string) ([]internal.TemplateRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT recordJson FROM templates WHERE runId = ? ORDER BY rowid ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.TemplateRecord
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var rec internal.TemplateRecord
		if err := json.Unmarshal([]byte(blob), &rec); err != nil {
			return nil, fmt.Errorf("decode template of run %s: %w", runID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) LastRunID(ctx context.Context) (*string, error) {
	return d.GetMetadata(ctx, metaLastRunID)
}

func (d *DB) GetMetadata(ctx context.Context, key string) (*string, error) {
	var value string
	err := d.conn.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
