package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
)

func runBasis(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("basis", flag.ContinueOnError)
	fromXML := fs.Bool("xml", false, "read game data from the XML export instead of the database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := a.loadCatalogue(ctx, *fromXML)
	if err != nil {
		return err
	}
	calc := newCalculator(a, cat)
	basis := calc.Basis()
	p := calc.Policy()

	fmt.Fprintf(a.out, "reference level %d, supplemental level %d\n", p.ReferenceLevel, p.SupplementalLevel)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAT\tREFERENCE")
	for _, stat := range basis.Stats() {
		fmt.Fprintf(tw, "%s\t%.2f\n", stat, basis[stat])
	}
	tw.Flush()
	fmt.Fprintf(a.out, "vital socket value %.4f\n", calc.VitalSocketValue())

	if len(basis) == 0 {
		return fmt.Errorf("no reference essences at level %d", p.ReferenceLevel)
	}
	return nil
}
