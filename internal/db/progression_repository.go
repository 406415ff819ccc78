package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/lotroev/internal/progression"
)

// ProgressionRepository stores progression tables and their points.
type ProgressionRepository struct {
	db *pgxpool.Pool
}

// NewProgressionRepository creates a new ProgressionRepository.
func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// Save replaces the stored tables with the same identifiers in one transaction.
func (r *ProgressionRepository) Save(ctx context.Context, tables []*progression.Table) error {
	if len(tables) == 0 {
		return nil
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		return r.SaveTx(ctx, tx, tables)
	})
}

// SaveTx replaces tables within an existing transaction.
func (r *ProgressionRepository) SaveTx(ctx context.Context, tx pgx.Tx, tables []*progression.Table) error {
	ids := make([]string, 0, len(tables))
	var points [][]any
	for _, t := range tables {
		ids = append(ids, t.ID())
		for _, p := range t.Points() {
			points = append(points, []any{t.ID(), p.Level, p.Value})
		}
	}

	// points cascade
	if _, err := tx.Exec(ctx, `DELETE FROM progression_tables WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("deleting progression tables: %w", err)
	}

	rows := make([][]any, 0, len(tables))
	for _, t := range tables {
		rows = append(rows, []any{t.ID(), t.Mode().String()})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"progression_tables"},
		[]string{"id", "mode"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("inserting progression tables: %w", err)
	}

	if len(points) > 0 {
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"progression_points"},
			[]string{"table_id", "level", "value"},
			pgx.CopyFromRows(points),
		); err != nil {
			return fmt.Errorf("inserting progression points: %w", err)
		}
	}

	slog.Debug("saved progression tables", "tables", len(tables), "points", len(points))
	return nil
}

// Get loads one table by identifier. Returns ErrNotFound if it does not exist.
func (r *ProgressionRepository) Get(ctx context.Context, id string) (*progression.Table, error) {
	var mode string
	err := r.db.QueryRow(ctx, `SELECT mode FROM progression_tables WHERE id = $1`, id).Scan(&mode)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("progression table %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying progression table %q: %w", id, err)
	}

	m, ok := progression.ParseMode(mode)
	if !ok {
		return nil, fmt.Errorf("progression table %q: unknown mode %q", id, mode)
	}

	rows, err := r.db.Query(ctx,
		`SELECT level, value FROM progression_points WHERE table_id = $1 ORDER BY level`, id)
	if err != nil {
		return nil, fmt.Errorf("querying points of %q: %w", id, err)
	}
	defer rows.Close()

	var points []progression.Point
	for rows.Next() {
		var p progression.Point
		if err := rows.Scan(&p.Level, &p.Value); err != nil {
			return nil, fmt.Errorf("scanning progression point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progression points: %w", err)
	}

	return progression.NewTable(id, m, points), nil
}

// LoadAll loads every stored table.
func (r *ProgressionRepository) LoadAll(ctx context.Context) ([]*progression.Table, error) {
	modes := make(map[string]progression.Mode, 1024)
	order := make([]string, 0, 1024)

	rows, err := r.db.Query(ctx, `SELECT id, mode FROM progression_tables ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying progression tables: %w", err)
	}
	for rows.Next() {
		var id, mode string
		if err := rows.Scan(&id, &mode); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning progression table row: %w", err)
		}
		m, ok := progression.ParseMode(mode)
		if !ok {
			slog.Warn("skipping progression table with unknown mode", "id", id, "mode", mode)
			continue
		}
		modes[id] = m
		order = append(order, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progression tables: %w", err)
	}

	points := make(map[string][]progression.Point, len(order))
	rows, err = r.db.Query(ctx, `SELECT table_id, level, value FROM progression_points`)
	if err != nil {
		return nil, fmt.Errorf("querying progression points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var p progression.Point
		if err := rows.Scan(&id, &p.Level, &p.Value); err != nil {
			return nil, fmt.Errorf("scanning progression point: %w", err)
		}
		points[id] = append(points[id], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progression points: %w", err)
	}

	tables := make([]*progression.Table, 0, len(order))
	for _, id := range order {
		tables = append(tables, progression.NewTable(id, modes[id], points[id]))
	}
	return tables, nil
}
