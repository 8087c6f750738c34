// Command headless runs the animation without a window: the scheduler ticks
// on its timer while a frame loop renders snapshots onto a counting surface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skyplanes/config"
	"skyplanes/scene"
	"skyplanes/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "config file (.toml or .yaml), or set "+config.EnvPath)
	duration := flag.Duration("duration", 10*time.Second, "how long to run (0 = until interrupted)")
	fps := flag.Int("fps", 60, "frames per second of the render loop")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile into this directory")
	flag.Parse()

	if *fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *fps)
	}
	if *cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile), profile.Quiet).Stop()
	}

	cfg, err := config.Load(config.Resolve(*configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	sc, err := scene.New(cfg, scene.Textures{Plane: 1, Background: 0}, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	surface := &countingSurface{}
	sc.Start()
	if err := drive(ctx, sc, surface, time.Second/time.Duration(*fps), log); err != nil {
		if !errors.Is(err, errSchedulerStopped) {
			return err
		}
		log.Warn("scheduler stopped on its own, ending run")
	}

	snap := sc.Registry.Snapshot()
	log.Info("run finished",
		zap.Uint64("generation", snap.Generation),
		zap.Int("planes", snap.Len()),
		zap.Uint64("frames", sc.Render.Frames()),
		zap.Uint64("sprites_drawn", surface.sprites),
	)
	return nil
}

// errSchedulerStopped ends a run whose scheduler stopped before ctx was done
var errSchedulerStopped = errors.New("scheduler stopped")

// drive renders frames until ctx is done or the scheduler stops ticking,
// then stops the scheduler. sc must already be started.
func drive(ctx context.Context, sc *scene.Scene, s *countingSurface, period time.Duration, log *zap.Logger) error {
	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return renderLoop(ctx, sc.Render, s, period, log)
	})
	grp.Go(func() error {
		defer sc.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-sc.Scheduler.Done():
			return errSchedulerStopped
		}
	})
	return grp.Wait()
}

// renderLoop renders one frame per period until ctx is done.
// Frames between ticks redraw the same snapshot.
func renderLoop(ctx context.Context, pass *sim.RenderPass, s *countingSurface, period time.Duration, log *zap.Logger) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var lastGen uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap := pass.Frame(s)
			if snap.Generation != lastGen {
				lastGen = snap.Generation
				log.Info("snapshot drawn",
					zap.Uint64("generation", snap.Generation),
					zap.Int("planes", snap.Len()),
					zap.Uint64("frames", pass.Frames()),
				)
			}
		}
	}
}

// countingSurface draws nothing and counts sprite draws.
// The background is drawn with texture key 0 and not counted.
type countingSurface struct {
	sprites uint64
}

func (s *countingSurface) Clear()   {}
func (s *countingSurface) Present() {}
func (s *countingSurface) Draw(tex sim.TextureID, x, y, angle float64) {
	if tex != 0 {
		s.sprites++
	}
}
