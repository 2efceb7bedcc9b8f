package loop

import (
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/object"
)

// GameState represents the current game phase.
type GameState int

const (
	StateInactive GameState = iota // Play screen, nothing moves
	StateActive                    // Gameplay
	StatePaused                    // Frozen after losing a ship
)

// String returns the state name.
func (s GameState) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// resetter is implemented by escalators that keep per-game state.
type resetter interface {
	Reset()
}

// startGame resets the dynamic settings and stats and puts a fresh fleet
// on screen. The high score survives.
func (g *Game) startGame() {
	g.settings.InitializeDynamic()
	if r, ok := g.escalator.(resetter); ok {
		r.Reset()
	}

	g.stats.Reset()
	g.stats.Active = true
	if g.board != nil {
		g.stats.HighScore = max(g.stats.HighScore, g.board.Best())
	}

	g.fleet.Clear()
	g.clearBullets()
	clear(g.effects)
	g.effects = g.effects[:0]

	aliens := g.fleet.Create(g.ship.Height)
	g.ship.Center()
	g.ship.Stop()
	g.state = StateActive

	g.log.Info("game started", zap.String("player", g.player), zap.Int("aliens", aliens))
}

// shipHit handles the ship colliding with an alien or an alien reaching
// the bottom. With a ship in reserve the wave restarts after a pause;
// otherwise the game is over.
func (g *Game) shipHit(now time.Time) {
	g.effects = append(g.effects,
		object.NewEffect(object.SpriteShipExplosion, g.ship.Rect(), g.opts.HitPause.Seconds()))
	g.audio.Play(audio.ShipExplosion)

	if !g.stats.LoseShip() {
		g.stats.Active = false
		g.state = StateInactive
		g.submitScore()
		g.log.Info("game over",
			zap.String("player", g.player),
			zap.Int("score", g.stats.Score),
			zap.Int("level", g.stats.Level),
		)
		return
	}

	g.fleet.Clear()
	g.clearBullets()
	g.fleet.Create(g.ship.Height)
	g.ship.Center()

	g.state = StatePaused
	g.resumeAt = now.Add(g.opts.HitPause)
	g.log.Debug("ship lost", zap.Int("ships_left", g.stats.ShipsLeft))
}

func (g *Game) clearBullets() {
	clear(g.bullets)
	g.bullets = g.bullets[:0]
}

// submitScore records the current score on the shared board.
func (g *Game) submitScore() {
	if g.board == nil {
		return
	}
	if g.board.Submit(g.player, g.stats.Score) {
		g.log.Debug("score submitted", zap.String("player", g.player), zap.Int("score", g.stats.Score))
	}
}
