package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/multicalc/internal/adapters/render"
	"github.com/okian/multicalc/internal/adapters/worker"
	app "github.com/okian/multicalc/internal/app"
	"github.com/okian/multicalc/internal/config"
	"github.com/okian/multicalc/internal/domain/model"
	"github.com/okian/multicalc/internal/domain/scoring"
	"github.com/okian/multicalc/internal/domain/types"
	"github.com/okian/multicalc/pkg/logger"
	"github.com/okian/multicalc/pkg/metrics"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errSheetsFailed = errors.New("one or more sheets failed")

const commandHint = `expected "event = mark", "score [men|women] event = mark", "show", "clear", "discipline <name>" or "quit"`

func main() {
	os.Exit(run())
}

func run() int {
	var (
		disciplineFlag = flag.String("discipline", "", "Discipline for interactive entry: "+disciplineNames())
		jsonFlag       = flag.Bool("json", false, "Print scorecards as JSON")
	)
	flag.Usage = usage
	flag.Parse()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return exitUsage
	}

	if err := logger.Init(logger.WithJSON(cfg.LogFormat == config.FormatJSON)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to warn", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("warn")
	}

	if *disciplineFlag != "" {
		cfg.Discipline = *disciplineFlag
	}
	d, err := model.ParseDiscipline(cfg.Discipline)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return exitUsage
	}
	format := cfg.Output
	if *jsonFlag {
		format = config.FormatJSON
	}

	manager := metrics.Default()
	if !cfg.MetricsEnabled {
		manager = metrics.NewManager(metrics.WithMetricsEnabled(false))
	}
	if cfg.MetricsTextfile != "" {
		defer func() {
			if err := manager.WriteTextfile(cfg.MetricsTextfile); err != nil {
				log.Error(ctx, "failed to write metrics textfile", logger.Error(err))
			}
		}()
	}

	engine := scoring.NewEngine(
		scoring.WithLogger(logger.Named("scoring")),
		scoring.WithObserver(manager),
	)
	svc := app.New(
		app.WithLogger(logger.Named("calculator")),
		app.WithEngine(engine),
		app.WithRecorder(manager),
	)

	if flag.NArg() > 0 {
		pool := worker.NewPool(svc,
			worker.WithSize(cfg.Workers),
			worker.WithLogger(logger.Named("sheets")),
		)
		if err := scoreSheets(ctx, pool, flag.Args(), os.Stdout, format, manager); err != nil {
			log.Error(ctx, "scoring sheets failed", logger.Error(err))
			return exitFailure
		}
		return exitOK
	}

	if err := interactive(ctx, svc, d, os.Stdin, os.Stdout); err != nil {
		log.Error(ctx, "interactive session failed", logger.Error(err))
		return exitFailure
	}
	return exitOK
}

type sheetErrorRecorder interface {
	RecordSheetError()
}

// scoreSheets tallies every sheet on the pool and prints the cards in
// argument order. A broken sheet is reported and skipped; the error is
// returned once all sheets are done.
func scoreSheets(ctx context.Context, pool *worker.Pool, paths []string, w io.Writer, format string, rec sheetErrorRecorder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := logger.Get()
	failed, printed := 0, 0
	for _, res := range pool.Run(ctx, paths) {
		if res.Err != nil {
			if errors.Is(res.Err, context.Canceled) {
				return res.Err
			}
			failed++
			rec.RecordSheetError()
			log.Error(ctx, "skipping sheet", logger.String("path", res.Path), logger.Error(res.Err))
			continue
		}

		if format == config.FormatText && printed > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := printCard(w, res.Card, format); err != nil {
			return err
		}
		printed++
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSheetsFailed, failed, len(paths))
	}
	return nil
}

func printCard(w io.Writer, card types.Card, format string) error {
	if format == config.FormatJSON {
		return render.JSON(w, card)
	}
	return render.Text(w, card)
}

// interactive reads "event = mark" lines and echoes the points and running
// total after each one. Any failed write to w ends the session.
func interactive(ctx context.Context, svc *app.Service, d model.Discipline, r io.Reader, w io.Writer) error {
	marks := map[string]string{}
	if err := prompt(w, d); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)

		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			return nil
		case line == "show":
			card, err := svc.Tally(ctx, d, marks)
			if err != nil {
				return err
			}
			if err := render.Text(w, card); err != nil {
				return err
			}
		case line == "clear":
			marks = map[string]string{}
			if _, err := fmt.Fprintln(w, "marks cleared"); err != nil {
				return err
			}
		case len(fields) == 2 && fields[0] == "discipline":
			next, parseErr := model.ParseDiscipline(fields[1])
			if parseErr != nil {
				if _, err := fmt.Fprintln(w, parseErr); err != nil {
					return err
				}
				continue
			}
			d, marks = next, map[string]string{}
			if err := prompt(w, d); err != nil {
				return err
			}
		case fields[0] == "score":
			if err := scoreByGender(ctx, svc, d, strings.TrimSpace(strings.TrimPrefix(line, "score")), w); err != nil {
				return err
			}
		case strings.Contains(line, "="):
			name, raw, _ := strings.Cut(line, "=")
			slot, ok := findSlot(d, strings.TrimSpace(name))
			if !ok {
				if _, err := fmt.Fprintf(w, "unknown event %q for %s\n", strings.TrimSpace(name), d.Title()); err != nil {
					return err
				}
				continue
			}
			mark, points := svc.Keystroke(ctx, d, slot.Event, strings.TrimSpace(raw))
			marks[slot.Event] = mark
			card, err := svc.Tally(ctx, d, marks)
			if err != nil {
				return err
			}
			if err := render.Live(w, types.Line{Event: slot.Event, Mark: mark, Points: points}, card.Total); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintln(w, commandHint); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// scoreByGender handles "score [men|women] event = mark". Without a gender the
// current discipline's is used; the event resolves against every table of
// that gender, not just the discipline's.
func scoreByGender(ctx context.Context, svc *app.Service, d model.Discipline, args string, w io.Writer) error {
	name, raw, ok := strings.Cut(args, "=")
	if !ok {
		_, err := fmt.Fprintln(w, commandHint)
		return err
	}
	name, raw = strings.TrimSpace(name), strings.TrimSpace(raw)

	g := d.Gender()
	if first, rest, found := strings.Cut(name, " "); found {
		if parsed, err := scoring.ParseGender(strings.ToLower(first)); err == nil {
			g, name = parsed, strings.TrimSpace(rest)
		}
	}

	event, ok := findEvent(g, name)
	if !ok {
		_, err := fmt.Fprintf(w, "unknown event %q for %s\n", name, g)
		return err
	}
	_, err := fmt.Fprintf(w, "%s (%s): %s => %d\n", event, g, raw, svc.Score(ctx, g, event, raw))
	return err
}

// findEvent matches an event name case-insensitively across a gender's
// tables.
func findEvent(g scoring.Gender, name string) (string, bool) {
	for _, p := range scoring.Candidates(g) {
		for _, event := range p.Events() {
			if strings.EqualFold(event, name) {
				return event, true
			}
		}
	}
	return "", false
}

// findSlot matches an event name case-insensitively.
func findSlot(d model.Discipline, name string) (model.Slot, bool) {
	for _, s := range d.Slots() {
		if strings.EqualFold(s.Event, name) {
			return s, true
		}
	}
	return model.Slot{}, false
}

func prompt(w io.Writer, d model.Discipline) error {
	if _, err := fmt.Fprintf(w, "%s Points Calculator\n", d.Title()); err != nil {
		return err
	}
	for _, s := range d.Slots() {
		if _, err := fmt.Fprintf(w, "  %s (e.g. %s)\n", s.Event, s.Placeholder); err != nil {
			return err
		}
	}
	return nil
}

func disciplineNames() string {
	names := make([]string, 0, len(model.Disciplines()))
	for _, d := range model.Disciplines() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

func usage() {
	os.Stderr.WriteString(`multicalc: combined events points calculator

Usage:
  multicalc [options] [sheet.toml ...]

With sheet files, each sheet is scored and printed. Without, marks are read
interactively from stdin as "event = mark" lines; "score [men|women] event =
mark" scores against every table of a gender.

Options:
`)
	flag.PrintDefaults()
}
