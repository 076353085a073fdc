package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/namegen/internal/logger"
	"github.com/samcharles93/namegen/internal/version"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:           "namegen",
		Usage:          "Generate names from a character-level language model",
		Version:        version.String(),
		Flags:          loggingFlags(),
		Before:         setupLogging,
		DefaultCommand: "generate",
		Commands: []*cli.Command{
			generateCmd(),
			inspectCmd(),
			versionCmd(),
		},
	}
}

// setupLogging reads the config file, builds the logger from the logging
// flags and stores both in the context handed to subcommands.
func setupLogging(ctx context.Context, c *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(configPath())
	applyLoggingConfig(c, cfg)

	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	w := c.Root().ErrWriter
	if w == nil {
		w = os.Stderr
	}
	log, ferr := logger.ForFormat(logFormat, w, level)
	if ferr != nil {
		return ctx, cli.Exit(fmt.Sprintf("error: %v", ferr), 1)
	}
	if err != nil {
		log.Warn("ignoring config file", "error", err)
	}
	return withConfig(logger.WithContext(ctx, log), cfg), nil
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
