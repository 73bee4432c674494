package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNoRuns is returned by LastRun on an empty store.
	ErrNoRuns = errors.New("no stored runs")
	// ErrUnknownRun is returned by Graph for a run id that was never saved.
	ErrUnknownRun = errors.New("unknown run")
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	nodes      INTEGER NOT NULL,
	edges      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	run_id TEXT NOT NULL REFERENCES runs(id),
	seq    INTEGER NOT NULL,
	id     TEXT NOT NULL,
	name   TEXT NOT NULL,
	kind   TEXT NOT NULL,
	module TEXT NOT NULL,
	label  TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS edges (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	seq       INTEGER NOT NULL,
	source    TEXT NOT NULL,
	target    TEXT NOT NULL,
	relation  TEXT NOT NULL,
	arrowhead TEXT NOT NULL,
	style     TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// SQLiteStore keeps every assembled graph as a run in a SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	ctx    context.Context
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{db: db, ctx: ctx, logger: logger}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LastRun returns the id of the most recently stored run.
func (s *SQLiteStore) LastRun() (string, error) {
	var id string
	err := s.db.QueryRowContext(s.ctx, `SELECT id FROM runs ORDER BY rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	return id, err
}

// Save writes g as a new run inside one transaction.
func (s *SQLiteStore) Save(g *Graph) error {
	runID := uuid.New().String()
	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(s.ctx,
		`INSERT INTO runs (id, created_at, nodes, edges) VALUES (?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), len(g.Nodes), len(g.Edges)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, n := range g.Nodes {
		if _, err := tx.ExecContext(s.ctx,
			`INSERT INTO nodes (run_id, seq, id, name, kind, module, label) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, n.ID, n.Name, n.Kind, n.Module, n.Label); err != nil {
			return fmt.Errorf("insert node %s: %w", n.ID, err)
		}
	}
	for i, e := range g.Edges {
		if _, err := tx.ExecContext(s.ctx,
			`INSERT INTO edges (run_id, seq, source, target, relation, arrowhead, style) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, i, e.Source, e.Target, e.Relation, string(e.Arrowhead), string(e.Style)); err != nil {
			return fmt.Errorf("insert edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("stored graph", "run", runID, "nodes", len(g.Nodes), "edges", len(g.Edges))
	return nil
}

// Graph reads back the graph stored under runID.
func (s *SQLiteStore) Graph(runID string) (*Graph, error) {
	var n int
	if err := s.db.QueryRowContext(s.ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}

	g := &Graph{}
	rows, err := s.db.QueryContext(s.ctx,
		`SELECT id, name, kind, module, label FROM nodes WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var n Node
		if err := rows.Scan(&n.ID, &n.Name, &n.Kind, &n.Module, &n.Label); err != nil {
			rows.Close()
			return nil, err
		}
		g.Nodes = append(g.Nodes, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(s.ctx,
		`SELECT source, target, relation, arrowhead, style FROM edges WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e GraphEdge
		var arrow, style string
		if err := rows.Scan(&e.Source, &e.Target, &e.Relation, &arrow, &style); err != nil {
			return nil, err
		}
		e.Arrowhead, e.Style = Arrowhead(arrow), LineStyle(style)
		g.Edges = append(g.Edges, e)
	}
	return g, rows.Err()
}
