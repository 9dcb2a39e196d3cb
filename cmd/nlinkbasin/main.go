// Command nlinkbasin drives one batch controller.Run from a YAML plan and
// a pair of CSV input tables (pages, nlink_sequences). It is a thin
// demonstration wrapper, not a production ingestion pipeline: the pages
// and links tables must already be sorted by (from_page_id, position)
// with dense 1-based positions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cgscsystems/nlinkbasin/controller"
	"github.com/cgscsystems/nlinkbasin/graph"
	"github.com/cgscsystems/nlinkbasin/internal/obslog"
	"github.com/cgscsystems/nlinkbasin/loader"
)

// Batch exit codes.
const (
	exitOK        = 0
	exitBadInput  = 2
	exitIOError   = 3
	exitCancelled = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("nlinkbasin", flag.ContinueOnError)
	planPath := fs.String("plan", "", "path to the run's YAML plan file (required)")
	pagesPath := fs.String("pages", "", "path to the pages CSV table (required)")
	linksPath := fs.String("links", "", "path to the nlink_sequences CSV table (required)")
	headers := fs.Bool("headers", true, "whether the input CSVs carry a header row")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return exitBadInput
	}

	log := obslog.New("nlinkbasin", parseLevel(*logLevel))

	if *planPath == "" || *pagesPath == "" || *linksPath == "" {
		log.Error("nlinkbasin: -plan, -pages, and -links are all required")
		return exitBadInput
	}

	plan, err := controller.LoadPlan(*planPath)
	if err != nil {
		log.Error("nlinkbasin: loading plan", "error", err)
		return exitBadInput
	}

	g, err := loadSnapshot(log, *pagesPath, *linksPath, *headers)
	if err != nil {
		if errors.Is(err, loader.ErrBadSnapshot) {
			log.Error("nlinkbasin: input validation failed", "error", err)
			return exitBadInput
		}
		log.Error("nlinkbasin: loading snapshot", "error", err)
		return exitIOError
	}

	metrics := controller.NewMetrics(prometheus.NewRegistry())
	ctrl, err := controller.NewRun(plan, g, metrics, log)
	if err != nil {
		log.Error("nlinkbasin: starting run", "error", err)
		return exitBadInput
	}
	defer ctrl.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := ctrl.Execute(ctx); err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, controller.ErrCancelled):
			log.Warn("nlinkbasin: run cancelled", "run_id", ctrl.ID)
			return exitCancelled
		case errors.Is(err, loader.ErrBadSnapshot), errors.Is(err, controller.ErrInvalidPlan):
			log.Error("nlinkbasin: run failed validation", "error", err)
			return exitBadInput
		default:
			log.Error("nlinkbasin: run failed", "error", err)
			return exitIOError
		}
	}

	log.Info("nlinkbasin: run complete", "run_id", ctrl.ID)
	return exitOK
}

func loadSnapshot(log *slog.Logger, pagesPath, linksPath string, headers bool) (*graph.Snapshot, error) {
	pagesFile, err := os.Open(pagesPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening pages: %v", loader.ErrBadSnapshot, err)
	}
	defer pagesFile.Close()

	pages := loader.NewCSVPageSource(pagesFile)
	pages.SkipHeader(headers)

	var opened []*os.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	factory := loader.NewCSVLinkSourceFactory(func() (io.Reader, error) {
		f, err := os.Open(linksPath)
		if err != nil {
			return nil, err
		}
		opened = append(opened, f)
		return f, nil
	}, headers)

	return loader.LoadWithLogger(pages, factory, log)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
