package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no -config flag is given
const EnvPath = "SKYPLANES_CONFIG"

// Spawn modes
const (
	SpawnSeed       = "seed"
	SpawnContinuous = "continuous"
)

// Config holds every setting of one run
type Config struct {
	// Window is the size and title of the window, and the world the planes move in
	Window WindowConfig `toml:"window" yaml:"window"`

	// Tick is the update cadence
	Tick TickConfig `toml:"tick" yaml:"tick"`

	// Planes is the template every plane starts from
	Planes PlanesConfig `toml:"planes" yaml:"planes"`

	// Background is the image drawn behind the planes
	Background BackgroundConfig `toml:"background" yaml:"background"`

	// Spawn controls where planes appear
	Spawn SpawnConfig `toml:"spawn" yaml:"spawn"`

	// Logging selects the log level and encoding
	Logging LoggingConfig `toml:"logging" yaml:"logging"`

	// Debug holds the HUD and frame-drop profiler settings
	Debug DebugConfig `toml:"debug" yaml:"debug"`
}

// WindowConfig describes the window
type WindowConfig struct {
	// Title is the window caption
	Title string `toml:"title" yaml:"title"`

	// Width is the window width in pixels
	Width int `toml:"width" yaml:"width"`

	// Height is the window height in pixels
	Height int `toml:"height" yaml:"height"`
}

// TickConfig sets the update period
type TickConfig struct {
	// Interval is the wall-clock time between two update passes
	Interval time.Duration `toml:"interval" yaml:"interval"`
}

// PlanesConfig describes the sprite and motion shared by all planes
type PlanesConfig struct {
	// Sprite is the image path of the plane
	Sprite string `toml:"sprite" yaml:"sprite"`

	// Width is the on-screen sprite width in pixels
	Width float64 `toml:"width" yaml:"width"`

	// Height is the on-screen sprite height in pixels
	Height float64 `toml:"height" yaml:"height"`

	// Lifetime is the number of ticks a plane lives
	Lifetime int `toml:"lifetime" yaml:"lifetime"`

	// DeltaX is the horizontal displacement per tick in pixels
	DeltaX float64 `toml:"delta_x" yaml:"delta_x"`

	// DeltaY is the vertical displacement per tick in pixels
	DeltaY float64 `toml:"delta_y" yaml:"delta_y"`

	// Rotate makes planes turn as their lifetime runs out
	Rotate bool `toml:"rotate" yaml:"rotate"`
}

// BackgroundConfig locates the background image
type BackgroundConfig struct {
	// Path is the image path, stretched to the window size
	Path string `toml:"path" yaml:"path"`
}

// SpawnConfig controls seeding and per-tick spawning
type SpawnConfig struct {
	// Mode is SpawnSeed or SpawnContinuous
	Mode string `toml:"mode" yaml:"mode"`

	// Seed lists the planes placed at startup as [x, y] pairs
	Seed [][2]float64 `toml:"seed" yaml:"seed"`

	// StepX is how far the spawn cursor moves right on every tick
	StepX float64 `toml:"step_x" yaml:"step_x"`

	// StepY is how far the spawn cursor moves down on every tick
	StepY float64 `toml:"step_y" yaml:"step_y"`

	// Formation lists the [x, y] offsets from the cursor that get a plane on every tick
	Formation [][2]float64 `toml:"formation" yaml:"formation"`

	// MaxPopulation skips spawning once this many planes exist; 0 means unbounded
	MaxPopulation int `toml:"max_population" yaml:"max_population"`
}

// LoggingConfig selects the logger
type LoggingConfig struct {
	// Level is a zap level name such as "debug" or "info"
	Level string `toml:"level" yaml:"level"`

	// Format is "json" or "console"
	Format string `toml:"format" yaml:"format"`
}

// DebugConfig holds developer aids of the windowed program
type DebugConfig struct {
	// ShowHUD shows the overlay at startup; F1 toggles it
	ShowHUD bool `toml:"show_hud" yaml:"show_hud"`

	// ProfileOnFPSDrop enables profile capture when the frame rate drops
	ProfileOnFPSDrop bool `toml:"profile_on_fps_drop" yaml:"profile_on_fps_drop"`

	// FPSThreshold is the frame rate below which a capture starts
	FPSThreshold float64 `toml:"fps_threshold" yaml:"fps_threshold"`

	// ProfilesDir is where captures are written
	ProfilesDir string `toml:"profiles_dir" yaml:"profiles_dir"`

	// ProfileDuration is how long one capture runs
	ProfileDuration time.Duration `toml:"profile_duration" yaml:"profile_duration"`
}

// Default returns the configuration of the reference scene
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Window",
			Width:  800,
			Height: 600,
		},
		Tick: TickConfig{
			Interval: 1000 * time.Millisecond,
		},
		Planes: PlanesConfig{
			Sprite:   "assets/plane1.bmp",
			Width:    40,
			Height:   40,
			Lifetime: 100,
			DeltaX:   10,
			Rotate:   true,
		},
		Background: BackgroundConfig{
			Path: "assets/cs_bg.bmp",
		},
		Spawn: SpawnConfig{
			Mode: SpawnSeed,
			Seed: [][2]float64{
				{0.3, 0.3},
				{6, 300},
				{20, 60},
				{40, 100},
			},
			StepX:     10,
			StepY:     10,
			Formation: [][2]float64{{0, 0}, {100, 30}},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			FPSThreshold:    45,
			ProfilesDir:     "profiles",
			ProfileDuration: 5 * time.Second,
		},
	}
}

// Load reads a TOML or YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the config path from a flag value, falling back to the environment
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(EnvPath)
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var err error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Tick.Interval <= 0 {
		err = multierr.Append(err, fmt.Errorf("tick interval %v must be positive", c.Tick.Interval))
	}
	if c.Planes.Lifetime <= 0 {
		err = multierr.Append(err, fmt.Errorf("plane lifetime %d must be positive", c.Planes.Lifetime))
	}
	if c.Planes.Width <= 0 || c.Planes.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("plane size %vx%v must be positive", c.Planes.Width, c.Planes.Height))
	}
	switch c.Spawn.Mode {
	case SpawnSeed:
	case SpawnContinuous:
		if len(c.Spawn.Formation) == 0 {
			err = multierr.Append(err, fmt.Errorf("continuous spawning needs at least one formation offset"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown spawn mode %q", c.Spawn.Mode))
	}
	if c.Spawn.MaxPopulation < 0 {
		err = multierr.Append(err, fmt.Errorf("max population %d must not be negative", c.Spawn.MaxPopulation))
	}
	return err
}
