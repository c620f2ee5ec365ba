package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const catalogFile = "catalog.db"

// Catalog indexes runs in a SQLite database next to the run directories.
type Catalog struct {
	db *sql.DB
}

type CatalogEntry struct {
	ID        string
	Model     string
	Stages    []string
	Species   []string
	Timestamp time.Time
	Elapsed   float64
}

// OpenCatalog opens or creates baseDir/catalog.db.
func OpenCatalog(baseDir string) (*Catalog, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(baseDir, catalogFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	c := &Catalog{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		stages TEXT,
		species TEXT,
		created_at TEXT NOT NULL,
		elapsed_s REAL
	)`)
	return err
}

// Record inserts or refreshes the entry of a run.
func (c *Catalog) Record(ctx context.Context, meta *RunMetadata) error {
	var (
		stages  []string
		elapsed float64
		seen    = make(map[string]bool)
		tags    []string
	)
	for _, st := range meta.Stages {
		stages = append(stages, st.Name)
		elapsed += st.Elapsed
		for _, sp := range st.Species {
			if !seen[sp] {
				seen[sp] = true
				tags = append(tags, sp)
			}
		}
	}

	_, err := c.db.ExecContext(ctx, `INSERT INTO runs (id, model, stages, species, created_at, elapsed_s)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET stages = excluded.stages, species = excluded.species, elapsed_s = excluded.elapsed_s`,
		meta.ID, meta.Model, strings.Join(stages, ","), strings.Join(tags, ","),
		meta.Timestamp.UTC().Format(time.RFC3339Nano), elapsed)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", meta.ID, err)
	}
	return nil
}

// List returns runs newest first, optionally filtered by model.
func (c *Catalog) List(ctx context.Context, model string) ([]CatalogEntry, error) {
	query := `SELECT id, model, stages, species, created_at, elapsed_s FROM runs`
	var args []any
	if model != "" {
		query += ` WHERE model = ?`
		args = append(args, model)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []CatalogEntry
	for rows.Next() {
		var (
			e               CatalogEntry
			stages, species sql.NullString
			created         string
			elapsed         sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &e.Model, &stages, &species, &created, &elapsed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		e.Stages = splitList(stages.String)
		e.Species = splitList(species.String)
		e.Elapsed = elapsed.Float64
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.Timestamp = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes a run from the catalog.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
