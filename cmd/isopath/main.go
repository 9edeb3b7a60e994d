package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/isopath/config"
)

func main() {
	configPath := flag.String("config", "isopath.yaml", "config file (optional)")
	mapName := flag.String("map", "", "map file or embedded map name (overrides config)")
	debug := flag.Bool("debug", false, "show expanded cells and search stats")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *mapName != "" {
		cfg.Map = *mapName
	}
	if *debug {
		cfg.Debug = true
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	game, err := NewGame(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("isopath")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
