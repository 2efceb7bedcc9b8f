package loop

import (
	"time"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// handleEvent applies one input event. Returns true if the player quit.
func (g *Game) handleEvent(ev input.Event) bool {
	switch ev.Type {
	case input.Quit:
		return true

	case input.KeyDown:
		switch ev.Key {
		case input.KeyEscape:
			return true
		case input.KeyLeft:
			g.ship.MovingLeft = true
		case input.KeyRight:
			g.ship.MovingRight = true
		case input.KeySpace:
			if g.state == StateActive {
				g.fireBullet()
			}
		case input.KeyEnter:
			if g.state == StateInactive {
				g.startGame()
			}
		}

	case input.KeyUp:
		switch ev.Key {
		case input.KeyLeft:
			g.ship.MovingLeft = false
		case input.KeyRight:
			g.ship.MovingRight = false
		}

	case input.PointerDown:
		if g.state == StateInactive && g.playButton.Hit(ev.X, ev.Y) {
			g.startGame()
		}
	}
	return false
}

// fireBullet adds a bullet at the ship unless the limit is reached.
func (g *Game) fireBullet() {
	if len(g.bullets) >= g.settings.Base.BulletsAllowed {
		return
	}
	g.bullets = append(g.bullets, object.NewBullet(g.settings, g.ship))
	g.audio.Play(audio.Shot)
}

// updatePlaying advances the world by the current delta time.
func (g *Game) updatePlaying(now time.Time) {
	g.background.Update(g.settings.Dt())
	g.ship.Update()
	if g.updateAliens(now) {
		return // Ship lost, the wave was reset
	}
	g.updateBullets()
}

// updateAliens moves the fleet and checks whether it got the ship.
// Returns true if the ship was hit.
func (g *Game) updateAliens(now time.Time) bool {
	g.fleet.CheckEdges()
	g.fleet.Update()

	shipRect := g.ship.Rect()
	for _, a := range g.fleet.Aliens {
		if shipRect.Intersects(a.Rect()) {
			g.shipHit(now)
			return true
		}
	}
	if g.fleet.ReachedBottom() {
		g.shipHit(now)
		return true
	}
	return false
}

// updateBullets moves bullets, drops the ones past the top of the screen
// and resolves hits.
func (g *Game) updateBullets() {
	for _, b := range g.bullets {
		if b.Update() {
			b.MarkDestroyed()
		}
	}
	g.bullets = object.Compact(g.bullets)

	g.checkBulletAlienCollisions()
	g.checkFleetCleared()
}
