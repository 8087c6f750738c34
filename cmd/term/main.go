// Command term draws the planes in the terminal instead of a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"skyplanes/config"
	"skyplanes/scene"
	"skyplanes/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (.toml or .yaml), or set "+config.EnvPath)
	fps := flag.Int("fps", 30, "frames per second")
	logFile := flag.String("log", "skyplanes-term.log", "log file; the terminal is busy drawing")
	flag.Parse()

	if *fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *fps)
	}
	cfg, err := config.Load(config.Resolve(*configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{*logFile}
	zapCfg.ErrorOutputPaths = []string{*logFile}
	log, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// A zero rune follows the plane's angle.
	planeGlyph := term.Glyph{Style: tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)}
	if !cfg.Planes.Rotate {
		planeGlyph.Rune = '>'
	}
	glyphs := &term.GlyphTable{}
	keys := scene.Textures{
		Background: glyphs.Insert(cfg.Background.Path, float64(cfg.Window.Width), float64(cfg.Window.Height),
			term.Glyph{Fill: true, Style: tcell.StyleDefault.Background(tcell.ColorNavy)}),
		Plane: glyphs.Insert(cfg.Planes.Sprite, cfg.Planes.Width, cfg.Planes.Height, planeGlyph),
	}

	sc, err := scene.New(cfg, keys, log)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc.Start()
	defer sc.Stop()

	surface := term.NewSurface(screen, glyphs, float64(cfg.Window.Width), float64(cfg.Window.Height))
	return term.Run(ctx, screen, sc.Render, surface, time.Second/time.Duration(*fps))
}
