package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/lotroev/internal/config"
	"github.com/udisondev/lotroev/internal/db"
)

func runImport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	force := fs.Bool("force", a.cfg.Import.Force, "re-import files even if unchanged")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cfg.Import.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Import.Timeout)
		defer cancel()
	}

	if err := db.RunMigrations(ctx, a.cfg.Database.DSN()); err != nil {
		return err
	}
	d, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	src := a.sources()
	files := []string{src.Items, src.Progressions}
	if src.DPSTables != "" {
		files = append(files, src.DPSTables)
	}

	fingerprints := make(map[string][]byte, len(files))
	changed := *force
	for _, path := range files {
		fp, err := db.FingerprintFile(path, importSettings(a.cfg.Import)...)
		if err != nil {
			return err
		}
		fingerprints[path] = fp
		if changed {
			continue
		}
		same, err := d.Imports.Unchanged(ctx, path, fp)
		if err != nil {
			return err
		}
		changed = !same
	}
	if !changed {
		slog.Info("game data unchanged, skipping import", "files", len(files))
		fmt.Fprintln(a.out, "game data unchanged")
		return nil
	}

	start := time.Now()
	cat, err := a.loadCatalogue(ctx, true)
	if err != nil {
		return err
	}
	if err := d.SaveCatalogue(ctx, cat); err != nil {
		return fmt.Errorf("saving catalogue: %w", err)
	}

	progressions, dpsTables, items := cat.Counts()
	records := map[string]int{
		src.Items:        items,
		src.Progressions: progressions,
		src.DPSTables:    dpsTables,
	}
	for _, path := range files {
		if err := d.Imports.Record(ctx, path, fingerprints[path], records[path]); err != nil {
			return err
		}
	}

	slog.Info("import done",
		"progression_tables", progressions,
		"dps_tables", dpsTables,
		"items", items,
		"elapsed", time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(a.out, "imported %d items, %d progression tables, %d dps tables\n", items, progressions, dpsTables)
	return nil
}

// importSettings lists the options that change what an import stores, so a
// changed option re-imports unchanged files.
func importSettings(cfg config.ImportConfig) []string {
	return []string{fmt.Sprintf("min_item_level=%d", cfg.MinItemLevel)}
}
