// Package db persists the game data catalogue in PostgreSQL.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DB wraps a pgx connection pool and the catalogue repositories.
type DB struct {
	pool *pgxpool.Pool

	Progressions *ProgressionRepository
	DPS          *DPSRepository
	Items        *ItemRepository
	Imports      *ImportRepository
}

// New connects to PostgreSQL and returns a DB handle.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return Wrap(pool), nil
}

// Wrap builds a DB over an existing pool. The caller keeps ownership of pool.
func Wrap(pool *pgxpool.Pool) *DB {
	return &DB{
		pool:         pool,
		Progressions: NewProgressionRepository(pool),
		DPS:          NewDPSRepository(pool),
		Items:        NewItemRepository(pool),
		Imports:      NewImportRepository(pool),
	}
}

// Close closes the database connection pool.
func (d *DB) Close() {
	d.pool.Close()
}

// Pool returns the underlying pgx pool.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

// inTx runs fn inside a transaction and commits when fn succeeds.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
