// Command luckreport prints luck-curve comparison tables for a scenario profile.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/xtding233/luck-curve/internal/logger"
	"github.com/xtding233/luck-curve/internal/report"
	"github.com/xtding233/luck-curve/internal/scenario"
)

type options struct {
	configDir string
	profile   string
	format    string
	levels    string
	character string
	list      bool
	watch     time.Duration
}

func main() {
	var opts options
	var logLevel string

	flag.StringVar(&opts.configDir, "config-dir", "configs", "directory holding default.yaml and profiles/")
	flag.StringVar(&opts.profile, "profile", scenario.DefaultProfile, "scenario profile to load")
	flag.StringVar(&opts.format, "format", report.FormatText, "output format (text, json, csv)")
	flag.StringVar(&opts.levels, "levels", "", "comma separated luck levels (default: the profile's levels)")
	flag.StringVar(&opts.character, "character", "", "shift levels by this character's starting luck")
	flag.BoolVar(&opts.list, "list", false, "list formulas and characters of the profile")
	flag.DurationVar(&opts.watch, "watch", 0, "reprint whenever the profile files change, polling at this interval")
	flag.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	lc := logger.DefaultConfig()
	lc.ServiceName = "luckreport"
	lc.Level = logLevel
	logger.Init(lc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	printer, err := report.NewPrinter(opts.format)
	if err != nil {
		return err
	}
	levels, err := parseLevels(opts.levels)
	if err != nil {
		return err
	}
	store, err := scenario.NewStore(scenario.NewLoader(opts.configDir), opts.profile)
	if err != nil {
		return err
	}

	if opts.list {
		return list(out, store.Current())
	}

	emit := func(sc *scenario.Scenario) error {
		r, err := report.Build(sc, report.Options{Character: opts.character, Levels: levels})
		if err != nil {
			return err
		}
		return printer.Print(out, r)
	}
	if err := emit(store.Current()); err != nil {
		return err
	}
	if opts.watch <= 0 {
		return nil
	}

	store.OnReload(func(sc *scenario.Scenario, err error) {
		if err != nil {
			fmt.Fprintf(out, "\nreload failed: %v\n", err)
			return
		}
		if err := emit(sc); err != nil {
			slog.Error("Report failed", "error", err)
		}
	})
	w := store.Watch(opts.watch)
	defer w.Stop()

	<-ctx.Done()
	return nil
}

func list(out io.Writer, sc *scenario.Scenario) error {
	fmt.Fprintf(out, "profile %s\n\nformulas:\n", sc.Profile)
	for _, nf := range sc.Formulas {
		fmt.Fprintf(out, "  %-12s %s\n", nf.Name, nf.Formula.Kind())
	}
	if len(sc.Characters) > 0 {
		fmt.Fprintln(out, "\ncharacters:")
		for _, name := range sc.CharacterNames() {
			fmt.Fprintf(out, "  %-12s start Lv%d\n", name, sc.Characters[name])
		}
	}
	return nil
}

func parseLevels(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		lv, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || lv < 0 {
			return nil, fmt.Errorf("invalid level %q", part)
		}
		out = append(out, lv)
	}
	return out, nil
}
