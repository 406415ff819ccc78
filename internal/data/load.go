package data

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/lotroev/internal/dps"
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/progression"
)

// Sources names the XML files of one game data export.
type Sources struct {
	Progressions string
	DPSTables    string
	Items        string
}

// LoadXML parses the export into a new catalogue.
//
// Items and DPS tables are parsed concurrently. Progressions are parsed last
// and only the tables referenced by the kept items are retained. An empty
// DPSTables path is allowed; weapons then fall back to their flat DPS.
func LoadXML(ctx context.Context, src Sources, keep func(*model.ItemTemplate) bool) (*Catalogue, error) {
	start := time.Now()

	var (
		items     []*model.ItemTemplate
		dpsTables []*dps.Table
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = parseFile(gctx, src.Items, func(r io.Reader) ([]*model.ItemTemplate, error) {
			return ParseItems(r, keep)
		})
		return err
	})
	if src.DPSTables != "" {
		g.Go(func() error {
			var err error
			dpsTables, err = parseFile(gctx, src.DPSTables, ParseDPSTables)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	required := RequiredTables(items)
	tables, err := parseFile(ctx, src.Progressions, func(r io.Reader) ([]*progression.Table, error) {
		return ParseProgressions(r, required)
	})
	if err != nil {
		return nil, err
	}

	cat := NewCatalogue()
	cat.AddProgressionTables(tables...)
	cat.AddDPSTables(dpsTables...)
	cat.AddItems(items...)
	cat.LogSummary()

	missing := 0
	for id := range required {
		if _, ok := cat.ProgressionTable(id); !ok {
			missing++
		}
	}
	if missing > 0 {
		slog.Warn("stats reference unknown progression tables, they resolve to 0", "tables", missing)
	}
	slog.Info("game data parsed", "elapsed", time.Since(start).Round(time.Millisecond))
	return cat, nil
}

func parseFile[T any](ctx context.Context, path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	out, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return out, nil
}
