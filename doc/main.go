package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

var (
	outPath = flag.String("outPath", "-", "file to output to")
	verbose = flag.Bool("verbose", false, "emit extra logging")
)

func run(ctx context.Context) error {
	flag.Parse()

	if *verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		slog.SetDefault(slog.New(handler))
	}

	writer := os.Stdout
	if *outPath != "-" {
		file, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", *outPath, err)
		}
		defer file.Close()
		writer = file
	}
	return generateDocs(ctx, writer)
}

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to generate", "error", err)
		os.Exit(1)
	}
}
