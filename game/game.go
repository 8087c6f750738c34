package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"skyplanes/config"
	"skyplanes/scene"
)

// fpsWarmup skips frame-drop detection while the window is starting up
const fpsWarmup = 3 * time.Second

// Game adapts a scene to ebiten's frame loop.
// Ticks run on the scheduler's timer; Update only handles input.
type Game struct {
	cfg      *config.Config
	scene    *scene.Scene
	textures *TextureTable
	surface  screenSurface
	debug    DebugState
	profiler *Profiler
	log      *zap.Logger

	startTime    time.Time
	lastFPSCheck time.Time
}

// NewGame loads textures and builds the scene. The scheduler starts with Start.
func NewGame(cfg *config.Config, log *zap.Logger) (*Game, error) {
	textures, keys := LoadSceneTextures(cfg, log.Named("textures"))
	sc, err := scene.New(cfg, keys, log)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:      cfg,
		scene:    sc,
		textures: textures,
		debug:    DebugState{ShowHUD: cfg.Debug.ShowHUD},
		log:      log,
	}
	g.surface.textures = textures
	if cfg.Debug.ProfileOnFPSDrop {
		g.profiler = NewProfiler(cfg.Debug.ProfilesDir, cfg.Debug.ProfileDuration, log.Named("profiler"))
	}
	return g, nil
}

// Start begins the periodic updates
func (g *Game) Start() {
	g.startTime = time.Now()
	g.lastFPSCheck = g.startTime
	g.scene.Start()
}

// Close stops the updates and waits for pending profiles
func (g *Game) Close() {
	g.scene.Stop()
	if g.profiler != nil {
		g.profiler.Close()
	}
}

// Update handles input. Entity state is advanced by the scheduler, not here.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug.ShowHUD = !g.debug.ShowHUD
	}
	g.checkFrameRate()
	return nil
}

// checkFrameRate captures a profile when FPS stays under the threshold
func (g *Game) checkFrameRate() {
	if g.profiler == nil {
		return
	}
	now := time.Now()
	if now.Sub(g.lastFPSCheck) < 500*time.Millisecond || now.Sub(g.startTime) < fpsWarmup {
		return
	}
	g.lastFPSCheck = now

	fps := ebiten.ActualFPS()
	if fps >= g.cfg.Debug.FPSThreshold {
		return
	}
	reason := fmt.Sprintf("fps%.0f-planes%d", fps, g.scene.Registry.Len())
	err := g.profiler.Capture(reason)
	switch {
	case err == nil:
		g.log.Warn("frame rate drop, capturing profile", zap.Float64("fps", fps))
	case errors.Is(err, errProfileCooldown), errors.Is(err, errProfileBusy):
	default:
		g.log.Warn("profile capture failed", zap.Error(err))
	}
}

// Draw runs the render pass
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.screen = screen
	snap := g.scene.Render.Frame(&g.surface)
	if g.debug.ShowHUD {
		drawHUD(screen, snap, g.scene.Render.Frames())
	}
}

// Layout returns the logical screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Window.Width, g.cfg.Window.Height
}
