package loop

import (
	"go.uber.org/zap"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/object"
)

// checkBulletAlienCollisions resolves bullet hits in firing order. A bullet
// destroys every live alien it overlaps and is spent if it hit any. Aliens
// destroyed by an earlier bullet are out of reach for later ones.
func (g *Game) checkBulletAlienCollisions() {
	if len(g.bullets) == 0 || g.fleet.Empty() {
		return
	}

	aliens := g.fleet.Aliens
	g.grid.Clear()
	for i, a := range aliens {
		g.grid.Insert(a.X, a.Y, i)
	}

	points := g.settings.Dynamic.AlienPoints
	explosion := g.opts.ExplosionDuration.Seconds()
	newHigh := false
	hitAny := false

	for _, b := range g.bullets {
		bulletRect := b.Rect()
		hits := 0
		g.grid.QueryAround(b.X, b.Y, func(i int) bool {
			a := aliens[i]
			if a.IsDestroyed() || !bulletRect.Intersects(a.Rect()) {
				return false
			}
			a.MarkDestroyed()
			g.effects = append(g.effects, object.NewEffect(object.SpriteAlienExplosion, a.Rect(), explosion))
			hits++
			return false
		})
		if hits == 0 {
			continue
		}

		b.MarkDestroyed()
		hitAny = true
		g.audio.Play(audio.AlienExplosion)
		if g.stats.AddKills(hits, points) {
			newHigh = true
		}
	}

	if !hitAny {
		return
	}
	g.bullets = object.Compact(g.bullets)
	g.fleet.Compact()
	if newHigh {
		g.submitScore()
	}
}

// checkFleetCleared starts the next wave once every alien is gone.
func (g *Game) checkFleetCleared() {
	if !g.fleet.Empty() {
		return
	}

	g.clearBullets()
	g.fleet.Create(g.ship.Height)
	g.settings.IncreaseSpeed()
	g.stats.LevelUp()

	g.log.Info("wave cleared",
		zap.String("player", g.player),
		zap.Int("level", g.stats.Level),
		zap.Float64("alien_speed", g.settings.Dynamic.AlienSpeed),
		zap.Int("alien_points", g.settings.Dynamic.AlienPoints),
	)
}
