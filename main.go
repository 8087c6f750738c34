package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"skyplanes/config"
	"skyplanes/game"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (.toml or .yaml), or set "+config.EnvPath)
	flag.Parse()

	cfg, err := config.Load(config.Resolve(*configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	g, err := game.NewGame(cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	g.Start()
	defer g.Close()
	log.Info("application started",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Duration("tick", cfg.Tick.Interval),
	)

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		log.Error("window loop failed", zap.Error(err))
		return err
	}
	log.Info("application quit")
	return nil
}
