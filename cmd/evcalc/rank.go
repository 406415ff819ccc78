package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/udisondev/lotroev/internal/export"
	"github.com/udisondev/lotroev/internal/model"
	"github.com/udisondev/lotroev/internal/valuation"
)

func runRank(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	level := fs.Int("level", a.cfg.Rank.Level, "item level (0 = each item's base level)")
	workers := fs.Int("workers", a.cfg.Rank.Workers, "concurrent evaluations (0 = GOMAXPROCS)")
	limit := fs.Int("limit", a.cfg.Rank.Limit, "print only the top N items (0 = all)")
	kind := fs.String("kind", "", "only items of this kind: item, equipment, weapon, essence")
	name := fs.String("name", "", "only items whose name contains this text")
	slot := fs.String("slot", "", "only equipment for this slot")
	xlsxPath := fs.String("xlsx", "", "write the full ranking to this xlsx file")
	sqlitePath := fs.String("sqlite", "", "write the full ranking to this sqlite file")
	fromXML := fs.Bool("xml", false, "read game data from the XML export instead of the database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter, err := itemFilter(*kind, *name, *slot)
	if err != nil {
		return err
	}

	cat, err := a.loadCatalogue(ctx, *fromXML)
	if err != nil {
		return err
	}

	var items []*model.ItemTemplate
	for _, it := range cat.Items() {
		if filter(it) {
			items = append(items, it)
		}
	}

	calc := newCalculator(a, cat)
	start := time.Now()
	ranked, err := calc.Rank(ctx, items, *level, *workers)
	if err != nil {
		return err
	}
	slog.Info("ranked items", "items", len(ranked), "elapsed", time.Since(start).Round(time.Millisecond))

	report := export.Report{
		Level:            *level,
		Basis:            calc.Basis(),
		VitalSocketValue: calc.VitalSocketValue(),
		Valuations:       ranked,
	}
	if *xlsxPath != "" {
		if err := writeXLSXFile(*xlsxPath, report); err != nil {
			return err
		}
		slog.Info("wrote xlsx", "path", *xlsxPath)
	}
	if *sqlitePath != "" {
		if err := export.WriteSQLite(ctx, *sqlitePath, report); err != nil {
			return err
		}
		slog.Info("wrote sqlite", "path", *sqlitePath)
	}

	shown := ranked
	if *limit > 0 && len(shown) > *limit {
		shown = shown[:*limit]
	}
	printRanking(a, shown)
	return nil
}

func itemFilter(kind, name, slot string) (func(*model.ItemTemplate) bool, error) {
	var wantKind *model.ItemKind
	if kind != "" {
		k, err := model.ParseItemKind(kind)
		if err != nil {
			return nil, err
		}
		wantKind = &k
	}
	needle := strings.ToLower(name)

	return func(it *model.ItemTemplate) bool {
		if wantKind != nil && it.Kind != *wantKind {
			return false
		}
		if needle != "" && !strings.Contains(strings.ToLower(it.Name), needle) {
			return false
		}
		if slot != "" && (it.Equipment == nil || !strings.EqualFold(it.Equipment.Slot, slot)) {
			return false
		}
		return true
	}, nil
}

func printRanking(a *app, vs []valuation.Valuation) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKEY\tNAME\tLEVEL\tEV\tSTATS\tSOCKETS\tDPS")
	for i, v := range vs {
		dps := "-"
		if v.HasDPS {
			dps = fmt.Sprintf("%.1f", v.DPS)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%.4f\t%.4f\t%.4f\t%s\n",
			i+1, v.Key, v.Name, v.Level, v.EV, v.StatEV, v.SocketEV, dps)
	}
	tw.Flush()
}

func writeXLSXFile(path string, r export.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteXLSX(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
