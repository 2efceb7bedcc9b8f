// Package loop provides the main game loop and state management.
//
// A Game owns the simulation for one player. Every iteration follows the
// Input → Update → Draw cycle: pending input events are handled, the world
// is advanced by the elapsed time when a game is in progress, and the frame
// is drawn to a Surface.
package loop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/fleet"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/settings"
	"github.com/tomz197/invaders/internal/stats"
)

// ErrQuit is returned by Step when the player asked to quit.
var ErrQuit = errors.New("quit")

// Surface is the display the game draws on. Coordinates are logical screen
// pixels; the surface scales them to whatever it renders to.
type Surface interface {
	Size() (width, height float64)
	DrawBackground(offset float64)
	DrawSprite(kind object.Sprite, r physics.Rect)
	DrawRect(r physics.Rect)
	DrawText(x, y float64, text string)
	MeasureText(text string) (width, height float64)
	DrawButton(b object.Button)
	// Present shows the frame drawn so far and starts a new one.
	Present() error
}

// InputSource delivers the input events that arrived since the last call.
// It must not block.
type InputSource interface {
	Poll() []input.Event
}

// Audio plays sound effects and the background track. Playback failures
// are the implementation's concern and never reach the loop.
type Audio interface {
	Play(s audio.Sound)
	PlayMusic()
}

// Clock abstracts wall time for the loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Options tune the loop itself.
type Options struct {
	FrameBudget       time.Duration // Iterations closer together than this are skipped
	MaxDelta          time.Duration // Longest simulated step, 0 = unbounded
	BusyWait          bool          // Spin instead of sleeping through skipped iterations
	HitPause          time.Duration // Freeze after losing a ship
	ExplosionDuration time.Duration // Alien explosion lifetime
	StartActive       bool          // Start playing right away instead of on the Play screen
}

// OptionsFrom extracts the loop options from a loaded configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		FrameBudget:       cfg.Loop.FrameBudget,
		MaxDelta:          cfg.Loop.MaxDelta,
		BusyWait:          cfg.Loop.BusyWait,
		HitPause:          cfg.Loop.HitPause,
		ExplosionDuration: cfg.Loop.ExplosionDuration,
		StartActive:       cfg.Game.StartActive,
	}
}

// Deps are the collaborators of a Game. Settings, Surface and Input are
// required; the rest fall back to silent or no-op implementations.
type Deps struct {
	Settings  *settings.Settings
	Surface   Surface
	Input     InputSource
	Audio     Audio
	Clock     Clock
	Log       *zap.Logger
	Board     *stats.Board       // Shared high scores, may be nil
	Escalator settings.Escalator // Custom difficulty curve, may be nil
	Player    string             // Name used on the board
}

// Game is a single game session.
type Game struct {
	settings   *settings.Settings
	stats      *stats.Stats
	ship       *object.Ship
	fleet      *fleet.Fleet
	bullets    []*object.Bullet
	effects    []*object.Effect
	background *object.Background
	playButton object.Button
	grid       *physics.SpatialGrid

	surface   Surface
	input     InputSource
	audio     Audio
	clock     Clock
	log       *zap.Logger
	board     *stats.Board
	escalator settings.Escalator
	player    string
	printer   *message.Printer
	opts      Options

	state    GameState
	lastTick time.Time
	resumeAt time.Time
}

// NewGame creates a game. With opts.StartActive the first wave is already
// in place; otherwise the game waits on the Play screen.
func NewGame(deps Deps, opts Options) (*Game, error) {
	if deps.Settings == nil || deps.Surface == nil || deps.Input == nil {
		return nil, errors.New("loop: settings, surface and input are required")
	}
	if deps.Audio == nil {
		deps.Audio = audio.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = systemClock{}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Player == "" {
		deps.Player = "player"
	}

	s := deps.Settings
	highScore := 0
	if deps.Board != nil {
		highScore = deps.Board.Best()
	}

	g := &Game{
		settings:   s,
		stats:      stats.New(s.Base.ShipLimit, highScore),
		ship:       object.NewShip(s),
		fleet:      fleet.New(s),
		background: object.NewBackground(s.Base.BackgroundScroll, s.Base.ScreenHeight),
		playButton: object.NewCenteredButton("Play", s.Base.ScreenWidth, s.Base.ScreenHeight),
		surface:    deps.Surface,
		input:      deps.Input,
		audio:      deps.Audio,
		clock:      deps.Clock,
		log:        deps.Log,
		board:      deps.Board,
		escalator:  deps.Escalator,
		player:     deps.Player,
		printer:    message.NewPrinter(language.English),
		opts:       opts,
		state:      StateInactive,
	}

	// Cell size must cover the largest alien or bullet side.
	cell := max(s.Base.AlienWidth, s.Base.AlienHeight, s.Base.BulletWidth, s.Base.BulletHeight)
	g.grid = physics.NewSpatialGrid(s.Base.ScreenWidth, s.Base.ScreenHeight, cell)

	if deps.Escalator != nil {
		s.SetEscalator(deps.Escalator, func(err error) {
			g.log.Warn("difficulty script failed, using default escalation", zap.Error(err))
		})
	}

	if opts.StartActive {
		g.startGame()
	}
	g.lastTick = g.clock.Now()
	return g, nil
}

// State returns the current game state.
func (g *Game) State() GameState {
	return g.state
}

// Stats returns the game's score, level and ships.
func (g *Game) Stats() *stats.Stats {
	return g.stats
}

// Run repeats Step until the player quits, ctx is cancelled or the surface
// fails. Quitting is not an error. A game still in progress when Run
// returns is submitted to the board.
func (g *Game) Run(ctx context.Context) error {
	defer func() {
		if g.stats.Active {
			g.submitScore()
		}
	}()
	g.audio.PlayMusic()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := g.clock.Now()
		ran, err := g.Step(now)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ran && !g.opts.BusyWait {
			g.clock.Sleep(g.opts.FrameBudget - now.Sub(g.lastTick))
		}
	}
}

// Step runs one iteration at time now. It returns false without doing
// anything when less than the frame budget has passed since the last
// iteration that ran. A panic inside the frame is logged and swallowed.
func (g *Game) Step(now time.Time) (ran bool, err error) {
	elapsed := now.Sub(g.lastTick)
	if elapsed < g.opts.FrameBudget {
		return false, nil
	}
	g.lastTick = now

	defer func() {
		if r := recover(); r != nil {
			g.log.Error("frame panicked",
				zap.Any("panic", r),
				zap.String("state", g.state.String()),
				zap.Stack("stack"),
			)
			ran, err = true, nil
		}
	}()

	return true, g.frame(now, elapsed)
}

func (g *Game) frame(now time.Time, elapsed time.Duration) error {
	// ===== INPUT PHASE =====
	for _, ev := range g.input.Poll() {
		if g.handleEvent(ev) {
			return ErrQuit
		}
	}

	// ===== UPDATE PHASE =====
	dt := elapsed
	if g.state == StatePaused {
		if now.Before(g.resumeAt) {
			dt = 0
		} else {
			// Only the time since the pause ended counts.
			g.state = StateActive
			dt = now.Sub(g.resumeAt)
		}
	}
	if g.opts.MaxDelta > 0 {
		// A stalled Present must not teleport the fleet.
		dt = min(dt, g.opts.MaxDelta)
	}
	g.settings.DeltaTime = dt

	if g.state == StateActive {
		g.updatePlaying(now)
	}
	g.effects = object.UpdateEffects(g.effects, elapsed.Seconds())

	// ===== DRAW PHASE =====
	if err := g.render(); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}
