package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tomz197/invaders/internal/fleet"
	"github.com/tomz197/invaders/internal/settings"
)

// DefaultPath is read when no config file is given. A missing file at this
// path is not an error.
const DefaultPath = "invaders.toml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Screen     ScreenConfig     `toml:"screen"`
	Ship       ShipConfig       `toml:"ship"`
	Bullet     BulletConfig     `toml:"bullet"`
	Alien      AlienConfig      `toml:"alien"`
	Difficulty DifficultyConfig `toml:"difficulty"`
	Loop       LoopConfig       `toml:"loop"`
	Game       GameConfig       `toml:"game"`
	Audio      AudioConfig      `toml:"audio"`
	Logging    LoggingConfig    `toml:"logging"`
	SSH        SSHConfig        `toml:"ssh"`
	Scoreboard ScoreboardConfig `toml:"scoreboard"`
}

// ScreenConfig is the logical playfield size. The terminal surface scales it
// to whatever the terminal offers.
type ScreenConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type ShipConfig struct {
	Speed  float64 `toml:"speed"` // pixels per second
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Limit  int     `toml:"limit"` // ships in reserve
}

type BulletConfig struct {
	Speed   float64 `toml:"speed"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Allowed int     `toml:"allowed"`
}

type AlienConfig struct {
	Speed     float64 `toml:"speed"`
	Width     float64 `toml:"width"`
	Height    float64 `toml:"height"`
	DropSpeed float64 `toml:"drop_speed"`
	Points    int     `toml:"points"`
}

type DifficultyConfig struct {
	SpeedupScale  float64 `toml:"speedup_scale"`
	ScoreScale    float64 `toml:"score_scale"`
	MaxSpeedScale float64 `toml:"max_speed_scale"` // 0 = unbounded
	Script        string  `toml:"script"`          // Lua file defining escalate(t), optional
}

type LoopConfig struct {
	FrameBudget       time.Duration `toml:"frame_budget"`
	MaxDelta          time.Duration `toml:"max_delta"` // 0 = unbounded
	BusyWait          bool          `toml:"busy_wait"`
	HitPause          time.Duration `toml:"hit_pause"`
	ExplosionDuration time.Duration `toml:"explosion_duration"`
}

type GameConfig struct {
	StartActive      bool    `toml:"start_active"`
	BackgroundScroll float64 `toml:"background_scroll"`
}

// AudioConfig selects the sounds. Empty file paths use generated tones.
type AudioConfig struct {
	Enabled        bool   `toml:"enabled"`
	SampleRate     int    `toml:"sample_rate"`
	Shot           string `toml:"shot"`
	AlienExplosion string `toml:"alien_explosion"`
	ShipExplosion  string `toml:"ship_explosion"`
	Music          string `toml:"music"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr
}

type SSHConfig struct {
	Host        string        `toml:"host"`
	Port        string        `toml:"port"`
	HostKey     string        `toml:"host_key"`
	IdleTimeout time.Duration `toml:"idle_timeout"`
}

type ScoreboardConfig struct {
	Size int `toml:"size"`
}

// Load reads the TOML file at path over the defaults. A missing file at
// DefaultPath yields the defaults; a missing file anywhere else is an error.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if path == DefaultPath && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Screen: ScreenConfig{
			Width:  1200,
			Height: 800,
		},
		Ship: ShipConfig{
			Speed:  450,
			Width:  60,
			Height: 60,
			Limit:  3,
		},
		Bullet: BulletConfig{
			Speed:   900,
			Width:   3,
			Height:  15,
			Allowed: 3,
		},
		Alien: AlienConfig{
			Speed:     150,
			Width:     40,
			Height:    32,
			DropSpeed: 10,
			Points:    50,
		},
		Difficulty: DifficultyConfig{
			SpeedupScale: 1.1,
			ScoreScale:   1.5,
		},
		Loop: LoopConfig{
			FrameBudget:       10 * time.Millisecond,
			MaxDelta:          100 * time.Millisecond,
			HitPause:          1500 * time.Millisecond,
			ExplosionDuration: 500 * time.Millisecond,
		},
		Game: GameConfig{
			StartActive:      true,
			BackgroundScroll: 40,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		SSH: SSHConfig{
			Host:        "0.0.0.0",
			Port:        "2222",
			HostKey:     ".ssh/id_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
		Scoreboard: ScoreboardConfig{
			Size: 10,
		},
	}
}

type field struct {
	name  string
	value float64
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	// NaN compares false against every bound below, so it is caught first.
	finite := []field{
		{"screen.width", c.Screen.Width},
		{"screen.height", c.Screen.Height},
		{"ship.speed", c.Ship.Speed},
		{"ship.width", c.Ship.Width},
		{"ship.height", c.Ship.Height},
		{"bullet.speed", c.Bullet.Speed},
		{"bullet.width", c.Bullet.Width},
		{"bullet.height", c.Bullet.Height},
		{"alien.speed", c.Alien.Speed},
		{"alien.width", c.Alien.Width},
		{"alien.height", c.Alien.Height},
		{"alien.drop_speed", c.Alien.DropSpeed},
		{"difficulty.speedup_scale", c.Difficulty.SpeedupScale},
		{"difficulty.score_scale", c.Difficulty.ScoreScale},
		{"difficulty.max_speed_scale", c.Difficulty.MaxSpeedScale},
		{"game.background_scroll", c.Game.BackgroundScroll},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalid, f.name, f.value)
		}
	}

	positive := []field{
		{"screen.width", c.Screen.Width},
		{"screen.height", c.Screen.Height},
		{"ship.speed", c.Ship.Speed},
		{"ship.width", c.Ship.Width},
		{"ship.height", c.Ship.Height},
		{"bullet.speed", c.Bullet.Speed},
		{"bullet.width", c.Bullet.Width},
		{"bullet.height", c.Bullet.Height},
		{"bullet.allowed", float64(c.Bullet.Allowed)},
		{"alien.speed", c.Alien.Speed},
		{"alien.width", c.Alien.Width},
		{"alien.height", c.Alien.Height},
		{"alien.points", float64(c.Alien.Points)},
		{"loop.frame_budget", float64(c.Loop.FrameBudget)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.value)
		}
	}

	if c.Ship.Limit < 0 {
		return fmt.Errorf("%w: ship.limit must not be negative, got %d", ErrInvalid, c.Ship.Limit)
	}
	if c.Alien.DropSpeed < 0 {
		return fmt.Errorf("%w: alien.drop_speed must not be negative, got %v", ErrInvalid, c.Alien.DropSpeed)
	}
	if c.Loop.HitPause < 0 || c.Loop.ExplosionDuration < 0 || c.Loop.MaxDelta < 0 {
		return fmt.Errorf("%w: loop durations must not be negative", ErrInvalid)
	}
	if c.Game.BackgroundScroll < 0 {
		return fmt.Errorf("%w: game.background_scroll must not be negative, got %v", ErrInvalid, c.Game.BackgroundScroll)
	}
	if c.Ship.Width > c.Screen.Width || c.Ship.Height > c.Screen.Height {
		return fmt.Errorf("%w: ship does not fit on screen", ErrInvalid)
	}

	if c.Difficulty.SpeedupScale < 1 {
		return fmt.Errorf("%w: difficulty.speedup_scale must be at least 1, got %v", ErrInvalid, c.Difficulty.SpeedupScale)
	}
	if c.Difficulty.ScoreScale < 1 {
		return fmt.Errorf("%w: difficulty.score_scale must be at least 1, got %v", ErrInvalid, c.Difficulty.ScoreScale)
	}
	if m := c.Difficulty.MaxSpeedScale; m != 0 && m < 1 {
		return fmt.Errorf("%w: difficulty.max_speed_scale must be 0 or at least 1, got %v", ErrInvalid, m)
	}

	cols, rows := fleet.GridSize(c.Screen.Width, c.Screen.Height, c.Alien.Width, c.Alien.Height, c.Ship.Height)
	if cols*rows == 0 {
		return fmt.Errorf("%w: no aliens fit on a %vx%v screen", ErrInvalid, c.Screen.Width, c.Screen.Height)
	}

	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate must be positive, got %d", ErrInvalid, c.Audio.SampleRate)
	}
	if c.Scoreboard.Size < 1 {
		return fmt.Errorf("%w: scoreboard.size must be at least 1, got %d", ErrInvalid, c.Scoreboard.Size)
	}
	return nil
}

// Settings converts the config into the game's base settings.
func (c *Config) Settings() settings.Base {
	return settings.Base{
		ScreenWidth:  c.Screen.Width,
		ScreenHeight: c.Screen.Height,

		ShipSpeed:  c.Ship.Speed,
		ShipWidth:  c.Ship.Width,
		ShipHeight: c.Ship.Height,
		ShipLimit:  c.Ship.Limit,

		BulletSpeed:    c.Bullet.Speed,
		BulletWidth:    c.Bullet.Width,
		BulletHeight:   c.Bullet.Height,
		BulletsAllowed: c.Bullet.Allowed,

		AlienSpeed:     c.Alien.Speed,
		AlienWidth:     c.Alien.Width,
		AlienHeight:    c.Alien.Height,
		FleetDropSpeed: c.Alien.DropSpeed,
		AlienPoints:    c.Alien.Points,

		SpeedupScale:  c.Difficulty.SpeedupScale,
		ScoreScale:    c.Difficulty.ScoreScale,
		MaxSpeedScale: c.Difficulty.MaxSpeedScale,

		BackgroundScroll: c.Game.BackgroundScroll,
	}
}
