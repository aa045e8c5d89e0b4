package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mook/pagewire/components"
	"github.com/mook/pagewire/config"
	"github.com/mook/pagewire/dom"
	_ "github.com/mook/pagewire/load"
	"github.com/mook/pagewire/tables"
	"github.com/mook/pagewire/utils"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

var (
	flagConfig     = flag.String("config", "site.yaml", "site configuration file")
	flagVerbose    = flag.Bool("verbose", false, "emit extra logging")
	flagOut        = flag.String("out", "", "directory to write the processed pages to")
	flagWrapTables = flag.Bool("wrap-tables", true, "wrap rich text tables for horizontal scrolling")
)

// Load the site settings; a missing configuration file is only an error if
// it was explicitly requested.
func loadSettings(ctx context.Context) (config.Settings, error) {
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})
	configFile, err := os.Open(*flagConfig)
	if err != nil {
		if !explicit && utils.AnyError(err, fs.ErrNotExist) {
			slog.DebugContext(ctx, "no config file; using defaults", "path", *flagConfig)
			return config.Default(), nil
		}
		return config.Settings{}, fmt.Errorf("failed to read config file: %w", err)
	}
	defer configFile.Close()
	return config.Load(configFile)
}

// Map each page to the file its result is written to: its path relative to
// the base directory, under the output directory.  Pages outside the base
// directory, and pages that would be written to the same file, are errors.
func outputPaths(outDir, baseDir string, pages []string) (map[string]string, error) {
	result := make(map[string]string, len(pages))
	writers := make(map[string]string, len(pages))
	for _, page := range pages {
		abs := page
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(baseDir, page)
		}
		rel, err := filepath.Rel(baseDir, abs)
		if err != nil || !filepath.IsLocal(rel) {
			return nil, fmt.Errorf("page %s is outside of %s", page, baseDir)
		}
		target := filepath.Join(outDir, rel)
		if other, ok := writers[target]; ok {
			return nil, fmt.Errorf("pages %s and %s would both be written to %s", other, page, target)
		}
		writers[target] = page
		result[page] = target
	}
	return result, nil
}

// Process a single page: parse it, initialize its components, and write the
// result to outPath unless it is empty.
func processPage(ctx context.Context, settings config.Settings, path, outPath string) error {
	input, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	doc, err := dom.Parse(input)
	input.Close()
	if err != nil {
		return fmt.Errorf("failed to read page %s: %w", path, err)
	}

	if *flagWrapTables {
		count := tables.Wrap(doc)
		slog.DebugContext(ctx, "wrapped tables", "page", path, "count", count)
	}

	app := components.New(settings)
	report, runErr := app.Run(ctx, doc)
	slog.InfoContext(ctx, "initialized page",
		"page", path,
		"initialized", report.Count(components.OutcomeInitialized),
		"skipped", report.Count(components.OutcomeSkipped),
		"failed", report.Count(components.OutcomeFailed))
	if unknown := utils.Collect[*components.UnknownComponentError](runErr); len(unknown) > 0 {
		var names []string
		for _, u := range unknown {
			names = append(names, u.Name)
		}
		slog.WarnContext(ctx, "page references unregistered components", "page", path, "components", names)
	}

	if outPath != "" {
		if err := writePage(outPath, doc); err != nil {
			return err
		}
	}
	if runErr != nil {
		return fmt.Errorf("page %s: %w", path, runErr)
	}
	return nil
}

func writePage(path string, doc *html.Node) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	output, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	if err := dom.Render(output, doc); err != nil {
		output.Close()
		return err
	}
	return output.Close()
}

func run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	flag.Parse()

	if *flagVerbose {
		handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
		slog.SetDefault(slog.New(handler))
	}

	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if flag.NArg() == 0 {
		return fmt.Errorf("no pages given")
	}
	var outPaths map[string]string
	if *flagOut != "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		if outPaths, err = outputPaths(*flagOut, cwd, flag.Args()); err != nil {
			return err
		}
	}

	// Each page gets its own App; the factory registry is only read.  A failing
	// page does not stop the others.
	errGroup := errgroup.Group{}
	errGroup.SetLimit(runtime.NumCPU())
	for _, path := range flag.Args() {
		errGroup.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return processPage(ctx, settings, path, outPaths[path])
		})
	}
	if err := errGroup.Wait(); err != nil {
		return fmt.Errorf("failed to process pages: %w", err)
	}
	return nil
}

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "Fatal error", "error", err)
		os.Exit(1)
	}
}
