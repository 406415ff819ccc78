package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/udisondev/lotroev/internal/data"
)

// LoadCatalogue reads every stored table and item into a new catalogue.
func (d *DB) LoadCatalogue(ctx context.Context) (*data.Catalogue, error) {
	progressions, err := d.Progressions.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading progression tables: %w", err)
	}
	dpsTables, err := d.DPS.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dps tables: %w", err)
	}
	items, err := d.Items.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	cat := data.NewCatalogue()
	cat.AddProgressionTables(progressions...)
	cat.AddDPSTables(dpsTables...)
	cat.AddItems(items...)
	return cat, nil
}

// SaveCatalogue replaces the stored catalogue with cat in one transaction.
// Tables and items absent from cat are removed. Import runs are kept.
func (d *DB) SaveCatalogue(ctx context.Context, cat *data.Catalogue) error {
	return inTx(ctx, d.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE TABLE items, dps_tables, progression_tables CASCADE`); err != nil {
			return fmt.Errorf("clearing catalogue: %w", err)
		}
		if tables := cat.ProgressionTables(); len(tables) > 0 {
			if err := d.Progressions.SaveTx(ctx, tx, tables); err != nil {
				return err
			}
		}
		if tables := cat.DPSTables(); len(tables) > 0 {
			if err := d.DPS.SaveTx(ctx, tx, tables); err != nil {
				return err
			}
		}
		if items := cat.Items(); len(items) > 0 {
			if err := d.Items.SaveTx(ctx, tx, items); err != nil {
				return err
			}
		}
		return nil
	})
}
