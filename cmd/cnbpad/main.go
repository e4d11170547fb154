// Package main is the entry point for the cnbpad notepad.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/dshills/cnbpad/internal/app"
	"github.com/dshills/cnbpad/internal/ui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const appID = "io.github.dshills.cnbpad"

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fyneApp := fyneapp.NewWithID(appID)
	window := ui.New(application, fyneApp)

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			fyne.Do(func() {
				application.Shutdown()
				fyneApp.Quit()
			})
		case <-ctx.Done():
		}
	}()

	window.Run(ctx)
	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.EnableDebug, "enabledebug", false, "Enable debug logging and remember the choice")
	flag.BoolVar(&opts.DisableDebug, "disabledebug", false, "Disable debug logging and remember the choice")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cnbpad - a tabbed plain text notepad\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cnbpad [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  cnbpad                    Reopen the last file\n")
		fmt.Fprintf(os.Stderr, "  cnbpad notes.txt          Open a file\n")
		fmt.Fprintf(os.Stderr, "  cnbpad --enabledebug      Turn on debug logging\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("cnbpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	// Remaining arguments are files to open
	opts.Files = flag.Args()
	opts.Version = version
	opts.Date = date

	return opts
}
