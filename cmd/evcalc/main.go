// Command evcalc imports LOTRO game data and computes Essence Value (EV)
// rankings of equipment.
//
// Usage:
//
//	evcalc import [--force]                  # load XML exports into PostgreSQL
//	evcalc item [--level N] <key>            # EV breakdown of one item
//	evcalc rank [--level N] [--xlsx f] ...   # rank items by EV
//	evcalc basis                             # print the reference basis
//	evcalc --list                            # list available commands
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/udisondev/lotroev/internal/config"
)

const ConfigPath = "config/evcalc.yaml"

type command struct {
	name string
	desc string
	run  func(ctx context.Context, a *app, args []string) error
}

var commands []command

func registerCommand(name, desc string, fn func(ctx context.Context, a *app, args []string) error) {
	commands = append(commands, command{name: name, desc: desc, run: fn})
}

func init() {
	registerCommand("import", "Parse progressions, DPS tables and items XML and store them in the database", runImport)
	registerCommand("item", "Show the EV breakdown of one item", runItem)
	registerCommand("rank", "Rank items by EV, optionally exporting to xlsx or sqlite", runRank)
	registerCommand("basis", "Print the reference basis and the vital socket value", runBasis)
}

// app carries what every command needs.
type app struct {
	cfg config.EVCalc
	out io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return fmt.Errorf("no command given")
	}
	if args[0] == "--list" {
		printList(out)
		return nil
	}

	cmd, ok := lookupCommand(args[0])
	if !ok {
		printList(os.Stderr)
		return fmt.Errorf("unknown command: %s", args[0])
	}

	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("LOTROEV_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadEVCalc(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Debug("evcalc starting", "command", cmd.name, "config", cfgPath)

	return cmd.run(ctx, &app{cfg: cfg, out: out}, args[1:])
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: evcalc <command> [flags]")
	fmt.Fprintln(w, "       evcalc --list")
}

func printList(w io.Writer) {
	sorted := make([]command, len(commands))
	copy(sorted, commands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	maxLen := 0
	for _, c := range sorted {
		maxLen = max(maxLen, len(c.name))
	}

	fmt.Fprintln(w, "Available commands:")
	for _, c := range sorted {
		padding := strings.Repeat(" ", maxLen-len(c.name)+2)
		fmt.Fprintf(w, "  %s%s%s\n", c.name, padding, c.desc)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
