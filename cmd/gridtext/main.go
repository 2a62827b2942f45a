// Package main is the entry point for the gridtext surface server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/gridtext/internal/app"
	"github.com/dshills/gridtext/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type cliOptions struct {
	configPath string
	logLevel   string
	slot       int
	loadSlot   bool
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.slot >= 0 {
		cfg.Sync.Slot = opts.slot
	}

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.loadSlot {
		if err := application.LoadSlot(ctx); err != nil && !errors.Is(err, app.ErrNoSlot) {
			fmt.Fprintf(os.Stderr, "Error: failed to load slot: %v\n", err)
			return 1
		}
	}

	// Reload configuration on file changes until shutdown.
	if opts.configPath != "" {
		watcher, werr := config.Watch(opts.configPath, func(next *config.Config, werr error) {
			if werr != nil {
				application.Logger().Warn("config reload failed: %v", werr)
				return
			}
			application.Logger().SetLevel(app.ParseLogLevel(next.Logging.Level))
			application.Logger().Info("configuration reloaded")
		})
		if werr == nil {
			defer watcher.Close()
		} else {
			application.Logger().Warn("config watch unavailable: %v", werr)
		}
	}

	application.Logger().Info("gridtext %s ready (slot %d)", version, cfg.Sync.Slot)

	<-ctx.Done()
	application.Flush()
	return 0
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.IntVar(&opts.slot, "slot", -1, "Save slot to sync against")
	flag.BoolVar(&opts.loadSlot, "load", false, "Load the save slot on startup")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Gridtext - infinite spatial text surface\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gridtext [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  gridtext                    Start with an empty surface\n")
		fmt.Fprintf(os.Stderr, "  gridtext -load -slot 2      Resume save slot 2\n")
		fmt.Fprintf(os.Stderr, "  gridtext -c gridtext.toml   Use a configuration file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Gridtext %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.logLevel != "" {
		switch opts.logLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
			os.Exit(1)
		}
	}

	return opts
}
