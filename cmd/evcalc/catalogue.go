package main

import (
	"context"
	"fmt"
	"time"

	"github.com/udisondev/lotroev/internal/data"
	"github.com/udisondev/lotroev/internal/db"
	"github.com/udisondev/lotroev/internal/model"
)

func (a *app) sources() data.Sources {
	d := a.cfg.Data
	src := data.Sources{
		Progressions: d.Path(d.Progressions),
		Items:        d.Path(d.Items),
	}
	if d.DPSTables != "" {
		src.DPSTables = d.Path(d.DPSTables)
	}
	return src
}

func (a *app) openDB(ctx context.Context) (*db.DB, error) {
	timeout := a.cfg.Database.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d, err := db.New(connectCtx, a.cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return d, nil
}

// loadCatalogue reads game data from the XML export when fromXML is set and
// from the database otherwise.
func (a *app) loadCatalogue(ctx context.Context, fromXML bool) (*data.Catalogue, error) {
	if fromXML {
		return data.LoadXML(ctx, a.sources(), keepItems(a.cfg.Import.MinItemLevel))
	}

	d, err := a.openDB(ctx)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	cat, err := d.LoadCatalogue(ctx)
	if err != nil {
		return nil, err
	}
	cat.LogSummary()
	return cat, nil
}

// keepItems drops items below minLevel. Essences are always kept since the
// reference basis is built from them.
func keepItems(minLevel int) func(*model.ItemTemplate) bool {
	if minLevel <= 0 {
		return nil
	}
	return func(it *model.ItemTemplate) bool {
		return it.IsEssence() || it.BaseLevel >= minLevel
	}
}
