package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE valuations (
		rank INTEGER PRIMARY KEY,
		item_key INTEGER NOT NULL UNIQUE,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		quality TEXT NOT NULL,
		level INTEGER NOT NULL,
		ev REAL NOT NULL,
		stat_ev REAL NOT NULL,
		socket_ev REAL NOT NULL,
		sockets TEXT NOT NULL DEFAULT '',
		dps REAL
	)`,
	`CREATE TABLE valuation_stats (
		item_key INTEGER NOT NULL REFERENCES valuations(item_key) ON DELETE CASCADE,
		ord INTEGER NOT NULL,
		stat TEXT NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (item_key, ord)
	)`,
	`CREATE TABLE basis (
		stat TEXT PRIMARY KEY,
		value REAL NOT NULL
	)`,
	`CREATE TABLE meta (
		key TEXT PRIMARY KEY,
		value REAL NOT NULL
	)`,
	`CREATE INDEX idx_valuations_ev ON valuations(ev DESC)`,
}

// WriteSQLite writes the report into a fresh SQLite database at path,
// replacing any existing file.
func WriteSQLite(ctx context.Context, path string, r Report) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("pragma %s: %w", pragma, err)
		}
	}
	for _, ddl := range sqliteSchema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertValuations(ctx, tx, r); err != nil {
		return err
	}
	if err := insertBasis(ctx, tx, r); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertValuations(ctx context.Context, tx *sql.Tx, r Report) error {
	valStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO valuations (rank, item_key, name, kind, quality, level, ev, stat_ev, socket_ev, sockets, dps)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare valuations: %w", err)
	}
	defer valStmt.Close()

	statStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO valuation_stats (item_key, ord, stat, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare valuation stats: %w", err)
	}
	defer statStmt.Close()

	for i, v := range r.Valuations {
		var dps sql.NullFloat64
		if v.HasDPS {
			dps = sql.NullFloat64{Float64: v.DPS, Valid: true}
		}
		if _, err := valStmt.ExecContext(ctx,
			i+1, v.Key, v.Name, v.Kind.String(), v.Quality.String(), v.Level,
			v.EV, v.StatEV, v.SocketEV, v.Sockets.String(), dps,
		); err != nil {
			return fmt.Errorf("inserting valuation %d: %w", v.Key, err)
		}
		for ord, sv := range v.Stats {
			if _, err := statStmt.ExecContext(ctx, v.Key, ord, sv.Name, sv.Value); err != nil {
				return fmt.Errorf("inserting stat %s of %d: %w", sv.Name, v.Key, err)
			}
		}
	}
	return nil
}

func insertBasis(ctx context.Context, tx *sql.Tx, r Report) error {
	for _, stat := range r.Basis.Stats() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO basis (stat, value) VALUES (?, ?)`, stat, r.Basis[stat]); err != nil {
			return fmt.Errorf("inserting basis %s: %w", stat, err)
		}
	}
	for key, value := range map[string]float64{
		"vital_socket_value": r.VitalSocketValue,
		"level":              float64(r.Level),
	} {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("inserting meta %s: %w", key, err)
		}
	}
	return nil
}
