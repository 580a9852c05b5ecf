// Package storage provides SQLite-based persistence for finished drawings.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-turtle/internal/core"
	"github.com/vovakirdan/tui-turtle/internal/turtle"
)

// Store manages the SQLite database connection for drawing persistence.
type Store struct {
	db *sql.DB
}

// Drawing is a saved set of committed segments. Segments is only filled by
// LoadDrawing.
type Drawing struct {
	ID           string
	ProgramID    string
	Title        string
	SegmentCount int
	Frames       uint64
	CreatedAt    time.Time
	Segments     []turtle.Segment
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS drawings (
			id TEXT PRIMARY KEY,
			program_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			segment_count INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_drawings_program_id ON drawings(program_id);

		CREATE TABLE IF NOT EXISTS segments (
			drawing_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			x0 REAL NOT NULL,
			y0 REAL NOT NULL,
			x1 REAL NOT NULL,
			y1 REAL NOT NULL,
			color INTEGER NOT NULL,
			width REAL NOT NULL,
			visible INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (drawing_id, seq)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveDrawing stores d and its segments in one transaction. An empty ID is
// replaced by a new UUID. Returns the drawing ID.
func (s *Store) SaveDrawing(d Drawing) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO drawings (id, program_id, title, segment_count, frames) VALUES (?, ?, ?, ?, ?)",
		d.ID, d.ProgramID, d.Title, len(d.Segments), d.Frames,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save drawing: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO segments (drawing_id, seq, x0, y0, x1, y1, color, width, visible)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for i, seg := range d.Segments {
		// Rows are keyed by position so segments without a commit
		// sequence still save.
		_, err := stmt.Exec(
			d.ID, i,
			seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y,
			int(seg.Color), seg.Width, seg.Visible,
		)
		if err != nil {
			return "", fmt.Errorf("storage: cannot save segment %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit drawing: %w", err)
	}
	return d.ID, nil
}

// LoadDrawing returns a drawing with its segments in commit order, or nil
// if no drawing has that ID.
func (s *Store) LoadDrawing(id string) (*Drawing, error) {
	var d Drawing
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, program_id, title, segment_count, frames, created_at
		 FROM drawings WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.ProgramID, &d.Title, &d.SegmentCount, &d.Frames, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query drawing: %w", err)
	}
	d.CreatedAt = parseTime(createdAt)

	rows, err := s.db.Query(
		`SELECT seq, x0, y0, x1, y1, color, width, visible
		 FROM segments WHERE drawing_id = ? ORDER BY seq`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seg   turtle.Segment
			color int
		)
		if err := rows.Scan(
			&seg.Seq,
			&seg.Start.X, &seg.Start.Y,
			&seg.End.X, &seg.End.Y,
			&color, &seg.Width, &seg.Visible,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan segment: %w", err)
		}
		seg.Color = core.Color(color)
		d.Segments = append(d.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return &d, nil
}

// ListDrawings returns the most recent drawings without their segments.
func (s *Store) ListDrawings(limit int) ([]Drawing, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, program_id, title, segment_count, frames, created_at
		 FROM drawings
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query drawings: %w", err)
	}
	defer rows.Close()

	var out []Drawing
	for rows.Next() {
		var d Drawing
		var createdAt any
		if err := rows.Scan(&d.ID, &d.ProgramID, &d.Title, &d.SegmentCount, &d.Frames, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		d.CreatedAt = parseTime(createdAt)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteDrawing removes a drawing and its segments. It reports whether the
// drawing existed.
func (s *Store) DeleteDrawing(id string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM segments WHERE drawing_id = ?", id); err != nil {
		return false, fmt.Errorf("storage: cannot delete segments: %w", err)
	}
	res, err := tx.Exec("DELETE FROM drawings WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot delete drawing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return n > 0, nil
}

// ProgramStats contains aggregated statistics for one program's drawings.
type ProgramStats struct {
	ProgramID     string
	Drawings      int
	TotalSegments int64
	MaxSegments   int
	AvgFrames     float64
	LastSaved     time.Time
}

// DrawingStats returns statistics for every program that has saved drawings.
func (s *Store) DrawingStats() (map[string]*ProgramStats, error) {
	rows, err := s.db.Query(
		`SELECT program_id, COUNT(*), SUM(segment_count), MAX(segment_count), AVG(frames), MAX(created_at)
		 FROM drawings
		 GROUP BY program_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get drawing stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ProgramStats)
	for rows.Next() {
		var ps ProgramStats
		var lastSaved any
		if err := rows.Scan(&ps.ProgramID, &ps.Drawings, &ps.TotalSegments, &ps.MaxSegments, &ps.AvgFrames, &lastSaved); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ps.LastSaved = parseTime(lastSaved)
		stats[ps.ProgramID] = &ps
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
