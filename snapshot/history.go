// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: snapshot/history.go
// Summary: SQLite-backed run history for trend inspection.

package snapshot

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// History records snapshot runs in a SQLite database so a reviewer can see
// whether a failure is a one-off or a drift that has been growing for days.
// Recording is advisory: the pipeline warns and moves on when it fails.
type History struct {
	db *sql.DB
}

const historySchema = `
CREATE TABLE IF NOT EXISTS runs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL,
	output_path      TEXT NOT NULL,
	baseline_path    TEXT NOT NULL,
	diff_path        TEXT NOT NULL,
	diff_pixels      INTEGER NOT NULL,
	total_pixels     INTEGER NOT NULL,
	baseline_created INTEGER NOT NULL,
	passed           INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_name_time ON runs(name, created_at DESC);
`

// RunRecord is one recorded snapshot run.
type RunRecord struct {
	Name            string
	CreatedAt       time.Time
	OutputPath      string
	BaselinePath    string
	DiffPath        string
	DiffPixels      int
	TotalPixels     int
	BaselineCreated bool
	Passed          bool
}

// OpenHistory opens (creating if needed) the run history database at path.
func OpenHistory(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open history %s: %w", path, err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: init history schema: %w", err)
	}
	return &History{db: db}, nil
}

// Record inserts one run.
func (h *History) Record(name string, res SnapResult, passed bool) error {
	_, err := h.db.Exec(
		`INSERT INTO runs (name, created_at, output_path, baseline_path, diff_path,
		                   diff_pixels, total_pixels, baseline_created, passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, time.Now().UTC(), res.OutputPath, res.BaselinePath, res.DiffPath,
		res.DiffPixels, res.TotalPixels, boolInt(res.BaselineCreated), boolInt(passed),
	)
	if err != nil {
		return fmt.Errorf("snapshot: record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs for a case name, newest first.
func (h *History) Recent(name string, limit int) ([]RunRecord, error) {
	rows, err := h.db.Query(
		`SELECT name, created_at, output_path, baseline_path, diff_path,
		        diff_pixels, total_pixels, baseline_created, passed
		 FROM runs WHERE name = ? ORDER BY created_at DESC LIMIT ?`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var baselineCreated, passed int
		if err := rows.Scan(&r.Name, &r.CreatedAt, &r.OutputPath, &r.BaselinePath, &r.DiffPath,
			&r.DiffPixels, &r.TotalPixels, &baselineCreated, &passed); err != nil {
			return nil, fmt.Errorf("snapshot: scan history row: %w", err)
		}
		r.BaselineCreated = baselineCreated != 0
		r.Passed = passed != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
