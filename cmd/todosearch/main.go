package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/stefanclaw/todosearch/internal/config"
	"github.com/stefanclaw/todosearch/internal/logging"
	"github.com/stefanclaw/todosearch/internal/output"
	"github.com/stefanclaw/todosearch/internal/record"
	"github.com/stefanclaw/todosearch/internal/source"
	"github.com/stefanclaw/todosearch/internal/tui"
	"github.com/stefanclaw/todosearch/internal/update"
)

var version = "dev"

// endpointEnv overrides the config file endpoint.
const endpointEnv = "TODOSEARCH_ENDPOINT"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	endpoint    string
	delay       string
	query       string
	format      string
	logOutput   string
	logLevel    string
	showVersion bool
	update      bool
}

func run(args []string, stdout, stderr io.Writer) error {
	var f flags

	flagSet := pflag.NewFlagSet("todosearch", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&f.endpoint, "endpoint", "", "record endpoint URL (overrides $"+endpointEnv+" and config)")
	flagSet.StringVar(&f.delay, "delay", "", "debounce delay for the query input, e.g. 300ms or 0")
	flagSet.StringVar(&f.query, "query", "", "print records matching this query and exit")
	flagSet.StringVar(&f.format, "format", "plain", "output format with --query: plain or markdown")
	flagSet.StringVar(&f.logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flagSet.BoolVar(&f.showVersion, "version", false, "print version and exit")
	flagSet.BoolVar(&f.update, "update", false, "update to the latest release")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stdout, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if f.showVersion {
		fmt.Fprintf(stdout, "todosearch %s\n", version)
		return nil
	}
	if f.update {
		return runUpdate(stdout)
	}

	if config.IsFirstRun() {
		// Best effort: a read-only config dir still runs on defaults.
		_ = config.Save(config.Defaults())
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// flag > env > config file > default
	switch {
	case f.endpoint != "":
		cfg.Source.Endpoint = f.endpoint
	case os.Getenv(endpointEnv) != "":
		cfg.Source.Endpoint = os.Getenv(endpointEnv)
	}
	if flagSet.Changed("delay") {
		cfg.Search.Delay = f.delay
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}

	delay, err := cfg.SearchDelay()
	if err != nil {
		return err
	}
	timeout, err := cfg.SourceTimeout()
	if err != nil {
		return err
	}

	logPath := cfg.LogPath()
	if f.logOutput != "" {
		logPath = f.logOutput
	}
	logger, closeLog, err := logging.Open(logPath, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	client := source.New(cfg.Source.Endpoint, timeout)
	logger.Info("starting",
		"version", version,
		"endpoint", client.Endpoint(),
		"delay", delay)

	if flagSet.Changed("query") {
		format, err := output.ParseFormat(f.format)
		if err != nil {
			return err
		}
		return runPipe(client, logger, stdout, f.query, output.Options{
			Format:   format,
			Theme:    cfg.TUI.Theme,
			WordWrap: cfg.TUI.WordWrap,
		})
	}

	applyTheme(cfg.TUI.Theme)

	model := tui.New(tui.Options{
		Fetcher:   client,
		Host:      client.Host(),
		Delay:     delay,
		CharLimit: cfg.Search.CharLimit,
		Logger:    logger,
		Version:   version,
	})
	defer model.Stop()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// runPipe fetches once and prints the records matching query.
func runPipe(client *source.Client, logger *slog.Logger, w io.Writer, query string, opts output.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	records, err := client.Fetch(ctx)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return err
	}
	matches := record.Filter(records, query)
	logger.Info("records fetched",
		"count", len(records),
		"matches", len(matches),
		"elapsed", time.Since(start))

	return output.Write(w, matches, opts)
}

func applyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
}

func runUpdate(w io.Writer) error {
	if !update.IsReleaseBuild(version) {
		fmt.Fprintln(w, "Auto-update is not available for development builds.")
		return nil
	}
	fmt.Fprintln(w, "Checking for updates...")
	res, err := update.Apply(context.Background(), version)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if res.Applied {
		fmt.Fprintf(w, "Updated to v%s. Restart todosearch to use the new version.\n", res.LatestVersion)
	} else {
		fmt.Fprintln(w, "Already running the latest version.")
	}
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `todosearch %s - search a remote todo list by title

Usage:
  todosearch [flags]                  Start the interactive search
  todosearch --query <text>           Print matching records and exit

Keys (interactive):
  type       Edit the query; results follow after a short pause
  ↑/↓        Scroll one line
  pgup/pgdn  Scroll half a page
  esc        Clear the query, or quit when it is empty
  ctrl+c     Quit

Configuration:
  Config is stored in %s
  Override with TODOSEARCH_CONFIG_DIR environment variable.

Endpoint (priority: flag > env > config > default):
  --endpoint <url>     Override the record endpoint
  %s  Environment variable

Examples:
  todosearch --delay 200ms
  todosearch --query milk --format markdown
  todosearch --log-output /tmp/todosearch.log --log-level debug

Flags:
`, version, config.Dir(), endpointEnv)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
