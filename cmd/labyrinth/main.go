package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/amalg/go-labyrinth/internal/asset"
	"github.com/amalg/go-labyrinth/internal/config"
	"github.com/amalg/go-labyrinth/internal/headless"
	"github.com/amalg/go-labyrinth/internal/logging"
	"github.com/amalg/go-labyrinth/internal/maze"
	"github.com/amalg/go-labyrinth/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and drives the selected host. Deferred cleanup finishes
// before it returns.
func run(args []string) error {
	fs := flag.NewFlagSet("labyrinth", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (default: built-in defaults)")
	layoutFile := fs.String("layout", "", "Maze layout YAML file (overrides config)")
	manifest := fs.String("character", "", "Character manifest YAML file (overrides config)")
	logFile := fs.String("log", "", "Log file path (default: discard logs in TUI mode)")
	logLevel := fs.String("log-level", "", "Log level: trace, debug, info, warn, error")
	runHeadless := fs.Bool("headless", false, "Run without a terminal UI using --script")
	script := fs.String("script", "w:60,d:20,a+w:40", "Headless key script, KEYS:TICKS[,KEYS:TICKS...]")
	traceFile := fs.String("trace", "", "Headless JSON-lines trace output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *layoutFile != "" {
		cfg.Maze.LayoutFile = *layoutFile
	}
	if *manifest != "" {
		cfg.Character.Manifest = *manifest
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	// Logs must never reach the terminal while the TUI owns it. Headless runs
	// also log to stderr.
	var console []io.Writer
	if *runHeadless {
		console = append(console, os.Stderr)
	}
	logger, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File, console...)
	if err != nil {
		return err
	}
	defer closer.Close()

	layout := maze.DefaultLayout()
	if cfg.Maze.LayoutFile != "" {
		if layout, err = maze.LoadLayout(cfg.Maze.LayoutFile); err != nil {
			return err
		}
	}

	ctrl, err := maze.NewController(cfg.Config, layout, maze.WithLogger(logger.With().Str("component", "maze").Logger()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var assets <-chan asset.Result
	if cfg.Character.Manifest != "" {
		assets = asset.NewLoader(logger).LoadAsync(ctx, cfg.Character.Manifest)
	}

	if *runHeadless {
		return runScript(ctx, ctrl, assets, *script, *traceFile, logger)
	}

	logger.Info().Str("layout", layoutName(cfg.Maze.LayoutFile)).Msg("starting terminal UI")
	model := ui.NewModel(ctrl, ui.Options{
		TickInterval: cfg.TickInterval(),
		HoldTimeout:  cfg.UI.HoldTimeout,
		Assets:       assets,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// runScript plays a key script without a terminal UI. A character load, if
// requested, is waited for so the run is reproducible.
func runScript(ctx context.Context, ctrl *maze.Controller, assets <-chan asset.Result, script, traceFile string, logger zerolog.Logger) error {
	steps, err := headless.ParseScript(script)
	if err != nil {
		return fmt.Errorf("parse script: %w", err)
	}

	if assets != nil {
		select {
		case res := <-assets:
			if res.Err == nil {
				ctrl.Attach(res.Entity)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var trace io.Writer
	if traceFile != "" {
		f, err := os.Create(traceFile)
		if err != nil {
			return fmt.Errorf("create trace: %w", err)
		}
		defer f.Close()
		trace = f
	}

	_, err = headless.NewRunner(ctrl, steps, logger, trace).Run(ctx)
	return err
}

func layoutName(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
