package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/udisondev/lotroev/internal/data"
	"github.com/udisondev/lotroev/internal/progression"
	"github.com/udisondev/lotroev/internal/valuation"
)

func runItem(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("item", flag.ContinueOnError)
	level := fs.Int("level", 0, "item level (0 = base level)")
	fromXML := fs.Bool("xml", false, "read game data from the XML export instead of the database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: evcalc item [--level N] [--xml] <key>")
	}
	key, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item key %q: %w", fs.Arg(0), err)
	}

	cat, err := a.loadCatalogue(ctx, *fromXML)
	if err != nil {
		return err
	}
	it, ok := cat.Item(key)
	if !ok {
		return fmt.Errorf("item %d not found", key)
	}

	misses := &progression.MissCounter{}
	calc := newCalculator(a, cat, valuation.WithObserver(misses))
	v := calc.Evaluate(it, *level)
	printValuation(a.out, calc, v)
	if n := misses.Total(); n > 0 {
		fmt.Fprintf(a.out, "\n%d stat(s) resolved to 0 (missing table or level out of range)\n", n)
	}
	return nil
}

func newCalculator(a *app, cat *data.Catalogue, opts ...valuation.Option) *valuation.Calculator {
	opts = append([]valuation.Option{
		valuation.WithPolicy(a.cfg.Valuation.Policy()),
		valuation.WithDPSTables(cat),
	}, opts...)
	return valuation.NewCalculator(cat, opts...)
}

func printValuation(w io.Writer, calc *valuation.Calculator, v valuation.Valuation) {
	fmt.Fprintf(w, "%s (key %d, %s, %s) at level %d\n", v.Name, v.Key, v.Kind, v.Quality, v.Level)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAT\tVALUE\tEV")
	for _, sv := range v.Stats {
		fmt.Fprintf(tw, "%s\t%.2f\t%.4f\n", sv.Name, sv.Value, calc.StatEV(sv.Name, sv.Value))
	}
	if v.HasDPS {
		fmt.Fprintf(tw, "%s\t%.2f\t-\n", valuation.StatDPS, v.DPS)
	}
	tw.Flush()

	if v.Sockets.Total() > 0 {
		fmt.Fprintf(w, "sockets %s: %.4f\n", v.Sockets, v.SocketEV)
	}
	fmt.Fprintf(w, "EV %.4f (stats %.4f + sockets %.4f)\n", v.EV, v.StatEV, v.SocketEV)
}
