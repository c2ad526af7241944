package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/amalg/go-labyrinth/internal/asset"
	"github.com/amalg/go-labyrinth/internal/config"
	"github.com/amalg/go-labyrinth/internal/logging"
	"github.com/amalg/go-labyrinth/internal/maze"
	"github.com/amalg/go-labyrinth/internal/window"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("labyrinth-window", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (default: built-in defaults)")
	layoutFile := fs.String("layout", "", "Maze layout YAML file (overrides config)")
	manifest := fs.String("character", "", "Character manifest YAML file (overrides config)")
	width := fs.Int("width", 1280, "Window width")
	height := fs.Int("height", 720, "Window height")
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

	// The window leaves the terminal free, so logs also go to stderr.
	logger, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.File, os.Stderr)
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var assets <-chan asset.Result
	if cfg.Character.Manifest != "" {
		assets = asset.NewLoader(logger).LoadAsync(ctx, cfg.Character.Manifest)
	}

	return window.Run(ctrl, window.Options{
		Title:  "Labyrinth",
		Width:  *width,
		Height: *height,
		Assets: assets,
		Logger: logger,
	})
}
