package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/lotroev/internal/dps"
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
)

// DPSRepository stores weapon DPS tables.
type DPSRepository struct {
	db *pgxpool.Pool
}

// NewDPSRepository creates a new DPSRepository.
func NewDPSRepository(db *pgxpool.Pool) *DPSRepository {
	return &DPSRepository{db: db}
}

// Save replaces the stored DPS tables with the same identifiers.
func (r *DPSRepository) Save(ctx context.Context, tables []*dps.Table) error {
	if len(tables) == 0 {
		return nil
	}
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		return r.SaveTx(ctx, tx, tables)
	})
}

// SaveTx replaces DPS tables within an existing transaction.
func (r *DPSRepository) SaveTx(ctx context.Context, tx pgx.Tx, tables []*dps.Table) error {
	ids := make([]string, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID())
	}
	if _, err := tx.Exec(ctx, `DELETE FROM dps_tables WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("deleting dps tables: %w", err)
	}

	batch := &pgx.Batch{}
	for _, t := range tables {
		batch.Queue(`INSERT INTO dps_tables (id) VALUES ($1)`, t.ID())
		for q, f := range t.Factors() {
			batch.Queue(`INSERT INTO dps_quality_factors (table_id, quality, factor) VALUES ($1, $2, $3)`,
				t.ID(), int16(q), f)
		}
		for _, p := range t.Points() {
			batch.Queue(`INSERT INTO dps_points (table_id, level, value) VALUES ($1, $2, $3)`,
				t.ID(), p.Level, p.Value)
		}
	}

	br := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("inserting dps table rows: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return nil
}

// LoadAll loads every stored DPS table ordered by identifier.
func (r *DPSRepository) LoadAll(ctx context.Context) ([]*dps.Table, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM dps_tables ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying dps tables: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collecting dps tables: %w", err)
	}

	factors := make(map[string]map[model.Quality]float64, len(ids))
	rows, err = r.db.Query(ctx, `SELECT table_id, quality, factor FROM dps_quality_factors`)
	if err != nil {
		return nil, fmt.Errorf("querying dps factors: %w", err)
	}
	for rows.Next() {
		var id string
		var q int16
		var f float64
		if err := rows.Scan(&id, &q, &f); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning dps factor: %w", err)
		}
		if factors[id] == nil {
			factors[id] = make(map[model.Quality]float64, model.QualityCount)
		}
		factors[id][model.Quality(q)] = f
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dps factors: %w", err)
	}

	points := make(map[string][]progression.Point, len(ids))
	rows, err = r.db.Query(ctx, `SELECT table_id, level, value FROM dps_points`)
	if err != nil {
		return nil, fmt.Errorf("querying dps points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var p progression.Point
		if err := rows.Scan(&id, &p.Level, &p.Value); err != nil {
			return nil, fmt.Errorf("scanning dps point: %w", err)
		}
		points[id] = append(points[id], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dps points: %w", err)
	}

	tables := make([]*dps.Table, 0, len(ids))
	for _, id := range ids {
		tables = append(tables, dps.NewTable(id, factors[id], points[id]))
	}
	return tables, nil
}
