// Package history is the undo journal: every paint records the workspace
// files as they were before the stroke, so the stroke can be reverted.
package history

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Faultbox/splinepaint/internal/workspace"
)

// ErrNotFound is returned when no journal entry matches.
var ErrNotFound = errors.New("journal entry not found")

// schema.sql creates the paint_ops table holding one row per stroke.
//
//go:embed schema.sql
var schemaSQL string

// Entry is one journaled paint operation.
type Entry struct {
	ID        string
	CreatedAt time.Time
	Spline    string

	Layer        int
	Width        float64
	Spacing      float64
	Strength     float64
	Falloff      string
	Offsets      string
	Normalize    bool
	ClearDetails bool
	ClearTrees   bool

	Samples            int
	CellsTouched       int
	DetailCellsCleared int
	TreesRemoved       int

	// Before is nil on entries returned by List.
	Before *workspace.Snapshot
}

// Journal stores entries in a SQLite database.
type Journal struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the journal database at path.
func Open(path string, log *zap.Logger) (*Journal, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}
	log.Debug("journal opened", zap.String("path", path))
	return &Journal{db: db, log: log}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e, assigning a new ID and timestamp when unset. The entry
// must carry a snapshot.
func (j *Journal) Record(e *Entry) (string, error) {
	if e.Before == nil || e.Before.Splat == nil {
		return "", fmt.Errorf("recording paint: missing pre-paint snapshot")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO paint_ops (
			id, created_ns, spline, layer, width, spacing, strength, falloff, offsets,
			normalize, clear_details, clear_trees,
			samples, cells_touched, detail_cells_cleared, trees_removed,
			splat_before, details_before, trees_before
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := j.db.Exec(query,
		e.ID, e.CreatedAt.UnixNano(), e.Spline, e.Layer, e.Width, e.Spacing, e.Strength, e.Falloff, e.Offsets,
		e.Normalize, e.ClearDetails, e.ClearTrees,
		e.Samples, e.CellsTouched, e.DetailCellsCleared, e.TreesRemoved,
		e.Before.Splat, e.Before.Details, e.Before.Trees,
	)
	if err != nil {
		return "", fmt.Errorf("recording paint: %w", err)
	}
	j.log.Debug("journaled paint",
		zap.String("id", e.ID),
		zap.Int("snapshot_bytes", e.Before.Size()),
	)
	return e.ID, nil
}

const summaryColumns = `id, created_ns, spline, layer, width, spacing, strength, falloff, offsets,
	normalize, clear_details, clear_trees,
	samples, cells_touched, detail_cells_cleared, trees_removed`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, extra ...any) (*Entry, error) {
	var e Entry
	var created int64
	dest := []any{
		&e.ID, &created, &e.Spline, &e.Layer, &e.Width, &e.Spacing, &e.Strength, &e.Falloff, &e.Offsets,
		&e.Normalize, &e.ClearDetails, &e.ClearTrees,
		&e.Samples, &e.CellsTouched, &e.DetailCellsCleared, &e.TreesRemoved,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	e.CreatedAt = time.Unix(0, created)
	return &e, nil
}

// List returns up to limit entries, newest first, without snapshots.
// A limit <= 0 returns every entry.
func (j *Journal) List(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.Query(`SELECT `+summaryColumns+` FROM paint_ops ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing journal: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (j *Journal) getOne(where string, args ...any) (*Entry, error) {
	row := j.db.QueryRow(`SELECT `+summaryColumns+`, splat_before, details_before, trees_before
		FROM paint_ops `+where, args...)
	var snap workspace.Snapshot
	e, err := scanSummary(row, &snap.Splat, &snap.Details, &snap.Trees)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading journal entry: %w", err)
	}
	e.Before = &snap
	return e, nil
}

// Latest returns the most recent entry with its snapshot.
func (j *Journal) Latest() (*Entry, error) {
	return j.getOne(`ORDER BY seq DESC LIMIT 1`)
}

// Get returns the entry with the given ID with its snapshot.
func (j *Journal) Get(id string) (*Entry, error) {
	return j.getOne(`WHERE id = ?`, id)
}

// Delete removes the entry with the given ID.
func (j *Journal) Delete(id string) error {
	res, err := j.db.Exec(`DELETE FROM paint_ops WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting journal entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting journal entry: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Prune keeps the newest keep entries and deletes the rest. It returns the
// number of entries removed. keep <= 0 removes nothing.
func (j *Journal) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := j.db.Exec(`DELETE FROM paint_ops WHERE seq NOT IN (
		SELECT seq FROM paint_ops ORDER BY seq DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning journal: %w", err)
	}
	if n > 0 {
		j.log.Info("pruned journal", zap.Int64("removed", n), zap.Int("kept", keep))
	}
	return int(n), nil
}
