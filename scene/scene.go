// Package scene wires the simulation core together from configuration.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"skyplanes/config"
	"skyplanes/sim"
)

// Scene holds everything one run of the animation needs
type Scene struct {
	Registry  *sim.Registry
	Spawner   *sim.Spawner
	Scheduler *sim.Scheduler
	Render    *sim.RenderPass

	log *zap.Logger
}

// Textures are the keys of the resources the scene draws with
type Textures struct {
	Plane      sim.TextureID
	Background sim.TextureID
}

// New builds a scene and seeds it. The scheduler is not started.
func New(cfg *config.Config, tex Textures, log *zap.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	registry := sim.NewRegistry(log.Named("registry"))
	spawner := sim.NewSpawner(registry, sim.SpawnTemplate{
		Lifetime: cfg.Planes.Lifetime,
		Velocity: sim.Vec2{X: cfg.Planes.DeltaX, Y: cfg.Planes.DeltaY},
		Texture:  tex.Plane,
		Rotates:  cfg.Planes.Rotate,
	}, log.Named("spawner"),
		sim.WithCursor(sim.Vec2{}, sim.Vec2{X: cfg.Spawn.StepX, Y: cfg.Spawn.StepY}),
		sim.WithFormation(points(cfg.Spawn.Formation)...),
		sim.WithMaxPopulation(cfg.Spawn.MaxPopulation),
	)

	if _, err := spawner.Seed(points(cfg.Spawn.Seed)...); err != nil {
		return nil, fmt.Errorf("seed planes: %w", err)
	}

	// Only continuous mode spawns on every tick.
	var tickSpawner *sim.Spawner
	if cfg.Spawn.Mode == config.SpawnContinuous {
		tickSpawner = spawner
	}

	return &Scene{
		Registry:  registry,
		Spawner:   spawner,
		Scheduler: sim.NewScheduler(registry, tickSpawner, cfg.Tick.Interval, log.Named("scheduler")),
		Render:    sim.NewRenderPass(registry, tex.Background),
		log:       log,
	}, nil
}

// Start begins ticking
func (s *Scene) Start() {
	s.Scheduler.Start()
}

// Stop halts ticking and waits for a running tick
func (s *Scene) Stop() {
	s.Scheduler.Stop()
}

func points(pairs [][2]float64) []sim.Vec2 {
	out := make([]sim.Vec2, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, sim.Vec2{X: p[0], Y: p[1]})
	}
	return out
}
